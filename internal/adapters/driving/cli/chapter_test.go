package cli

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/grimorium/internal/core/domain"
)

// seedComment anchors a comment thread to [start, end) of ch-1 and saves it.
func seedComment(t *testing.T, ts *testServices, start, end int, text string) *domain.Annotation {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, ts.chapters.Open(ctx, "ch-1"))
	a, err := ts.chapters.CommentSelection(domain.Range{Start: start, End: end}, text)
	require.NoError(t, err)
	require.NoError(t, ts.chapters.Save(ctx))
	require.NoError(t, ts.chapters.Close(ctx))
	return a
}

// snapshot loads ch-1 and returns its persisted state.
func snapshot(t *testing.T, ts *testServices) *domain.Snapshot {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, ts.chapters.Open(ctx, "ch-1"))
	defer func() { require.NoError(t, ts.chapters.Close(ctx)) }()
	snap, err := ts.chapters.Snapshot()
	require.NoError(t, err)
	return snap
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestChapterCmd_HasSubcommands(t *testing.T) {
	names := make([]string, 0, len(chapterCmd.Commands()))
	for _, cmd := range chapterCmd.Commands() {
		names = append(names, cmd.Name())
	}

	assert.ElementsMatch(t, []string{"import", "list", "show", "remove", "replace", "sync"}, names)
}

func TestChapterImport_TitleFromFileName(t *testing.T) {
	setupTestServices(t)
	path := writeFile(t, "the-hunt.txt", "Snow fell.")

	out, err := execute(t, "chapter", "import", path, "--id", "ch-2")

	require.NoError(t, err)
	assert.Equal(t, "Imported chapter \"the hunt\" (ch-2)\n", out)
}

func TestChapterImport_Markdown(t *testing.T) {
	ts := setupTestServices(t)
	path := writeFile(t, "hunt.md", "# The Hunt\n\nThe **grey** wolf ran.")

	out, err := execute(t, "chapter", "import", path, "--id", "ch-2")
	require.NoError(t, err)
	assert.Equal(t, "Imported chapter \"The Hunt\" (ch-2)\n", out)

	require.NoError(t, ts.chapters.Open(context.Background(), "ch-2"))
	defer func() { require.NoError(t, ts.chapters.Close(context.Background())) }()
	assert.Equal(t, "The grey wolf ran.", ts.chapters.Content())
}

func TestChapterImport_Verbatim(t *testing.T) {
	ts := setupTestServices(t)
	oldNormaliser := chapterNormaliser
	SetNormaliser(nil)
	defer SetNormaliser(oldNormaliser)
	path := writeFile(t, "hunt.md", "# The Hunt")

	_, err := execute(t, "chapter", "import", path, "--id", "ch-2")
	require.NoError(t, err)

	require.NoError(t, ts.chapters.Open(context.Background(), "ch-2"))
	defer func() { require.NoError(t, ts.chapters.Close(context.Background())) }()
	assert.Equal(t, "# The Hunt", ts.chapters.Content())
	chapter, err := ts.chapters.Active()
	require.NoError(t, err)
	assert.Equal(t, "hunt", chapter.Title)
}

func TestChapterImport_WithTitle(t *testing.T) {
	ts := setupTestServices(t)
	path := writeFile(t, "draft.txt", "Snow fell.")

	_, err := execute(t, "chapter", "import", path, "--id", "ch-2", "--title", "The Hunt")
	require.NoError(t, err)

	chapters, err := ts.chapters.List(context.Background())
	require.NoError(t, err)
	var titles []string
	for i := range chapters {
		titles = append(titles, chapters[i].Title)
	}
	assert.Contains(t, titles, "The Hunt")
}

func TestChapterImport_DuplicateID(t *testing.T) {
	setupTestServices(t)
	path := writeFile(t, "den.txt", "Again.")

	_, err := execute(t, "chapter", "import", path, "--id", "ch-1")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)
}

func TestChapterImport_MissingFile(t *testing.T) {
	setupTestServices(t)

	_, err := execute(t, "chapter", "import", filepath.Join(t.TempDir(), "nope.txt"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read chapter")
}

func TestChapterList(t *testing.T) {
	setupTestServices(t)

	out, err := execute(t, "chapter", "list")

	require.NoError(t, err)
	assert.Equal(t, "Chapters:\n  ch-1  The Den\n", out)
}

func TestChapterList_JSON(t *testing.T) {
	setupTestServices(t)

	out, err := execute(t, "chapter", "list", "--json")
	require.NoError(t, err)

	var rows []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	require.Len(t, rows, 1)
}

func TestChapterShow(t *testing.T) {
	ts := setupTestServices(t)
	seedComment(t, ts, 4, 8, "Which wolf?")

	out, err := execute(t, "chapter", "show", "ch-1")

	require.NoError(t, err)
	assert.Contains(t, out, "Title:       The Den")
	assert.Contains(t, out, "Length:      34")
	assert.Contains(t, out, "Annotations: 1")
	assert.Contains(t, out, testContent)
}

func TestChapterRemove(t *testing.T) {
	setupTestServices(t)

	out, err := execute(t, "chapter", "remove", "ch-1")
	require.NoError(t, err)
	assert.Equal(t, "Removed chapter ch-1\n", out)

	out, err = execute(t, "chapter", "list")
	require.NoError(t, err)
	assert.Equal(t, "No chapters found.\n", out)
}

func TestChapterReplace_ShiftsAnnotations(t *testing.T) {
	ts := setupTestServices(t)
	seedComment(t, ts, 25, 29, "The second wolf")

	out, err := execute(t, "chapter", "replace", "ch-1", "--start", "9", "--end", "15", "--text", "growled softly")

	require.NoError(t, err)
	assert.Contains(t, out, "1 annotation(s) shifted, 0 removed")
	snap := snapshot(t, ts)
	require.Len(t, snap.Annotations, 1)
	assert.Equal(t, 33, snap.Annotations[0].Start)
	assert.Equal(t, "wolf", snap.Annotations[0].Text)
}

func TestChapterReplace_RemovesDeletedAnnotation(t *testing.T) {
	ts := setupTestServices(t)
	a := seedComment(t, ts, 4, 8, "Which wolf?")

	out, err := execute(t, "chapter", "replace", "ch-1", "--start", "4", "--end", "9", "--text", "")

	require.NoError(t, err)
	assert.Contains(t, out, "0 annotation(s) shifted, 1 removed")
	assert.Contains(t, out, a.ID)
	assert.Empty(t, snapshot(t, ts).Annotations)
}

func TestChapterSync(t *testing.T) {
	ts := setupTestServices(t)
	seedComment(t, ts, 25, 29, "The second wolf")
	path := writeFile(t, "den.txt", "A wolf howled near the wolf den.")

	out, err := execute(t, "chapter", "sync", "ch-1", path)

	require.NoError(t, err)
	assert.Contains(t, out, "1 annotation(s) shifted")
	snap := snapshot(t, ts)
	assert.Equal(t, "A wolf howled near the wolf den.", snap.Chapter.Content)
	require.Len(t, snap.Annotations, 1)
	assert.Equal(t, 23, snap.Annotations[0].Start)
}

func TestChapterCmd_ErrorsWithoutService(t *testing.T) {
	setupTestServices(t)
	chapterService = nil

	_, err := execute(t, "chapter", "list")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}
