package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/grimorium/internal/core/domain"
)

func TestCommentCmd_HasSubcommands(t *testing.T) {
	names := make([]string, 0, len(commentCmd.Commands()))
	for _, cmd := range commentCmd.Commands() {
		names = append(names, cmd.Name())
	}

	assert.ElementsMatch(t, []string{"add", "reply", "edit", "delete", "pin", "list"}, names)
}

func TestCommentAdd_ByOffsets(t *testing.T) {
	ts := setupTestServices(t)

	out, err := execute(t, "comment", "add", "ch-1", "--start", "25", "--end", "29", "--text", "The second wolf")

	require.NoError(t, err)
	assert.Contains(t, out, `on "wolf" [25, 29)`)
	snap := snapshot(t, ts)
	require.Len(t, snap.Annotations, 1)
	assert.Equal(t, 25, snap.Annotations[0].Start)
	require.Len(t, snap.Comments, 1)
	assert.Equal(t, "The second wolf", snap.Comments[0].Text)
}

func TestCommentAdd_ByOccurrence(t *testing.T) {
	tests := []struct {
		name       string
		occurrence string
		wantStart  int
	}{
		{"first", "1", 4},
		{"second", "2", 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := setupTestServices(t)

			_, err := execute(t, "comment", "add", "ch-1", "--find", "wolf", "--occurrence", tt.occurrence,
				"--text", "Which wolf?")

			require.NoError(t, err)
			snap := snapshot(t, ts)
			require.Len(t, snap.Annotations, 1)
			assert.Equal(t, tt.wantStart, snap.Annotations[0].Start)
			assert.Equal(t, tt.wantStart+4, snap.Annotations[0].End)
		})
	}
}

func TestCommentAdd_MissingOccurrence(t *testing.T) {
	setupTestServices(t)

	_, err := execute(t, "comment", "add", "ch-1", "--find", "wolf", "--occurrence", "3", "--text", "?")

	require.Error(t, err)
}

func TestCommentAdd_RequiresRange(t *testing.T) {
	setupTestServices(t)

	_, err := execute(t, "comment", "add", "ch-1", "--text", "Where?")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "either --find or both --start and --end are required")
}

func TestCommentAdd_EmptySelection(t *testing.T) {
	setupTestServices(t)

	_, err := execute(t, "comment", "add", "ch-1", "--start", "4", "--end", "4", "--text", "Nothing")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrEmptySelection)
}

func TestCommentAdd_Overlap(t *testing.T) {
	ts := setupTestServices(t)
	seedComment(t, ts, 4, 8, "Which wolf?")

	_, err := execute(t, "comment", "add", "ch-1", "--start", "6", "--end", "15", "--text", "Overlaps")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrOverlapConflict)
	assert.Len(t, snapshot(t, ts).Annotations, 1)
}

func TestCommentReplyEditPin(t *testing.T) {
	ts := setupTestServices(t)
	a := seedComment(t, ts, 4, 8, "Which wolf?")

	out, err := execute(t, "comment", "reply", "ch-1", a.ID, "--text", "The grey one")
	require.NoError(t, err)
	assert.Contains(t, out, "Added comment ")

	snap := snapshot(t, ts)
	require.Len(t, snap.Comments, 2)
	var replyID string
	for i := range snap.Comments {
		if snap.Comments[i].Text == "The grey one" {
			replyID = snap.Comments[i].ID
		}
	}
	require.NotEmpty(t, replyID)

	_, err = execute(t, "comment", "edit", "ch-1", replyID, "--text", "The white one")
	require.NoError(t, err)
	out, err = execute(t, "comment", "pin", "ch-1", replyID)
	require.NoError(t, err)
	assert.Equal(t, "Pinned comment "+replyID+"\n", out)

	out, err = execute(t, "comment", "list", "ch-1", a.ID)
	require.NoError(t, err)
	assert.Contains(t, out, `Thread on "wolf" [4, 8)`)
	assert.Contains(t, out, "Which wolf?")
	assert.Contains(t, out, "!")
	assert.Contains(t, out, "The white one")
	assert.NotContains(t, out, "The grey one")

	out, err = execute(t, "comment", "pin", "ch-1", replyID, "--unpin")
	require.NoError(t, err)
	assert.Equal(t, "Unpinned comment "+replyID+"\n", out)
}

func TestCommentDelete_KeepsThread(t *testing.T) {
	ts := setupTestServices(t)
	a := seedComment(t, ts, 4, 8, "Which wolf?")
	commentID := snapshot(t, ts).Comments[0].ID

	out, err := execute(t, "comment", "delete", "ch-1", commentID)
	require.NoError(t, err)
	assert.Equal(t, "Deleted comment "+commentID+"\n", out)

	out, err = execute(t, "comment", "list", "ch-1", a.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "(no comments)")
}

func TestCommentList_UnknownAnnotation(t *testing.T) {
	setupTestServices(t)

	_, err := execute(t, "comment", "list", "ch-1", "missing")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLinkAdd(t *testing.T) {
	ts := setupTestServices(t)

	out, err := execute(t, "link", "add", "ch-1", "--find", "wolf", "--occurrence", "2",
		"--type", "character", "--entity", "fenrir")

	require.NoError(t, err)
	assert.Contains(t, out, `Linked "wolf" [25, 29) to character/fenrir`)
	snap := snapshot(t, ts)
	require.Len(t, snap.Links, 1)
	assert.Equal(t, "fenrir", snap.Links[0].EntityID)
	assert.Equal(t, 25, snap.Annotations[0].Start)
}

func TestLinkAdd_UnknownEntity(t *testing.T) {
	ts := setupTestServices(t)

	_, err := execute(t, "link", "add", "ch-1", "--start", "30", "--end", "33",
		"--type", "place", "--entity", "den")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Empty(t, snapshot(t, ts).Annotations)
}
