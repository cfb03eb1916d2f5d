package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedLink(t *testing.T) {
	t.Helper()
	_, err := execute(t, "link", "add", "ch-1", "--start", "25", "--end", "29",
		"--type", "character", "--entity", "fenrir")
	require.NoError(t, err)
}

func TestAnnotationList_Empty(t *testing.T) {
	setupTestServices(t)

	out, err := execute(t, "annotation", "list", "ch-1")

	require.NoError(t, err)
	assert.Equal(t, "No annotations.\n", out)
}

func TestAnnotationList(t *testing.T) {
	ts := setupTestServices(t)
	seedComment(t, ts, 4, 8, "Which wolf?")
	seedLink(t)

	out, err := execute(t, "annotation", "list", "ch-1")

	require.NoError(t, err)
	assert.Contains(t, out, `[4, 8) comment "wolf"  1 comment(s)`)
	assert.Contains(t, out, `[25, 29) link    "wolf"  -> character/fenrir`)
}

func TestAnnotationList_JSON(t *testing.T) {
	ts := setupTestServices(t)
	seedComment(t, ts, 4, 8, "Which wolf?")
	seedLink(t)

	out, err := execute(t, "annotations", "list", "ch-1", "--json")
	require.NoError(t, err)

	var rows []annotationSummary
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	require.Len(t, rows, 2)
	assert.Equal(t, "comment", rows[0].Kind)
	assert.Equal(t, 1, rows[0].CommentCount)
	assert.Equal(t, "link", rows[1].Kind)
	assert.Equal(t, "fenrir", rows[1].EntityID)
}

func TestAnnotationDelete_RemovesThread(t *testing.T) {
	ts := setupTestServices(t)
	a := seedComment(t, ts, 4, 8, "Which wolf?")

	out, err := execute(t, "annotation", "delete", "ch-1", a.ID)
	require.NoError(t, err)
	assert.Equal(t, "Deleted annotation "+a.ID+"\n", out)

	snap := snapshot(t, ts)
	assert.Empty(t, snap.Annotations)
	assert.Empty(t, snap.Comments)
}

func TestAnnotationActivate(t *testing.T) {
	ts := setupTestServices(t)
	a := seedComment(t, ts, 4, 8, "Which wolf?")
	seedLink(t)

	tests := []struct {
		name   string
		offset string
		want   string
	}{
		{"comment", "5", "open thread " + a.ID + "\n"},
		{"link", "26", "navigate to character/fenrir\n"},
		{"plain text", "12", "no action\n"},
		{"past the end", "99", "no action\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, "annotation", "activate", "ch-1", "--offset", tt.offset)

			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestEntityAddAndList(t *testing.T) {
	setupTestServices(t)

	out, err := execute(t, "entity", "add", "place", "den", "The", "Wolf", "Den")
	require.NoError(t, err)
	assert.Equal(t, "Registered place/den\n", out)

	out, err = execute(t, "entity", "list", "--type", "place")
	require.NoError(t, err)
	assert.Equal(t, "Entities:\n  place/den  The Wolf Den\n", out)

	out, err = execute(t, "entity", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "character/fenrir  Fenrir")
	assert.Contains(t, out, "place/den  The Wolf Den")
}

func TestEntityList_Empty(t *testing.T) {
	setupTestServices(t)

	out, err := execute(t, "entity", "list", "--type", "item")

	require.NoError(t, err)
	assert.Equal(t, "No entities found.\n", out)
}

func TestEntityAdd_RequiresName(t *testing.T) {
	setupTestServices(t)

	_, err := execute(t, "entity", "add", "place", "den")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires at least 3 arg(s)")
}

func TestEntityCmd_ErrorsWithoutService(t *testing.T) {
	setupTestServices(t)
	entityService = nil

	_, err := execute(t, "entity", "list")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}
