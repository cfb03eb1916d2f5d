package mcp

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/grimorium/internal/core/domain"
	"github.com/custodia-labs/grimorium/internal/core/services"
)

func intPtr(v int) *int { return &v }

func TestServer_handleListChapters(t *testing.T) {
	ctx := context.Background()

	t.Run("lists chapters", func(t *testing.T) {
		server, _ := setupTestServer(t)
		_, out, err := server.handleListChapters(ctx, nil, ListChaptersInput{})
		require.NoError(t, err)
		require.Len(t, out.Chapters, 1)
		assert.Equal(t, ChapterOutput{ID: "ch-1", Title: "The Den"}, out.Chapters[0])
	})

	t.Run("returns store error", func(t *testing.T) {
		chapters := services.NewChapterService(&mockChapterStore{err: errors.New("disk gone")}, nil)
		server, err := NewServer(&Ports{Chapters: chapters})
		require.NoError(t, err)

		_, _, err = server.handleListChapters(ctx, nil, ListChaptersInput{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "disk gone")
	})
}

func TestServer_handleRender(t *testing.T) {
	ctx := context.Background()
	server, _ := setupTestServer(t)

	t.Run("plain by default", func(t *testing.T) {
		_, out, err := server.handleRender(ctx, nil, RenderInput{ChapterID: "ch-1"})
		require.NoError(t, err)
		assert.Equal(t, "The wolf[1] howled near the wolf den.\n", out.Text)
		assert.Equal(t, 5, out.Segments)
	})

	t.Run("html", func(t *testing.T) {
		_, out, err := server.handleRender(ctx, nil, RenderInput{ChapterID: "ch-1", Format: "html"})
		require.NoError(t, err)
		assert.Contains(t, out.Text, `data-entity-id="fenrir"`)
	})

	t.Run("unknown format", func(t *testing.T) {
		_, _, err := server.handleRender(ctx, nil, RenderInput{ChapterID: "ch-1", Format: "pdf"})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("missing chapter", func(t *testing.T) {
		_, _, err := server.handleRender(ctx, nil, RenderInput{ChapterID: "nope"})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestServer_handleListAnnotations(t *testing.T) {
	server, _ := setupTestServer(t)

	_, out, err := server.handleListAnnotations(context.Background(), nil, ChapterInput{ChapterID: "ch-1"})
	require.NoError(t, err)
	require.Equal(t, 2, out.Count)

	comment := out.Annotations[0]
	assert.Equal(t, "comment", comment.Kind)
	assert.Equal(t, 4, comment.Start)
	require.Len(t, comment.Comments, 1)
	assert.Equal(t, "Grey or black?", comment.Comments[0].Text)

	link := out.Annotations[1]
	assert.Equal(t, "link", link.Kind)
	assert.Equal(t, 25, link.Start)
	assert.Equal(t, "fenrir", link.EntityID)
	assert.Empty(t, link.Comments)
}

func TestServer_handleAddComment(t *testing.T) {
	ctx := context.Background()

	t.Run("anchors by occurrence", func(t *testing.T) {
		server, store := setupTestServer(t)
		_, out, err := server.handleAddComment(ctx, nil, AddCommentInput{
			ChapterID: "ch-1", Text: "Whose den?", Find: "den",
		})
		require.NoError(t, err)
		assert.Equal(t, 30, out.Start)
		assert.Equal(t, 33, out.End)
		assert.Equal(t, "den", out.Quote)
		assert.NotEmpty(t, out.CommentID)

		snap, err := store.Load(ctx, "ch-1")
		require.NoError(t, err)
		assert.Len(t, snap.Annotations, 3)
	})

	t.Run("anchors by offsets", func(t *testing.T) {
		server, _ := setupTestServer(t)
		_, out, err := server.handleAddComment(ctx, nil, AddCommentInput{
			ChapterID: "ch-1", Text: "Verb?", Start: intPtr(15), End: intPtr(9),
		})
		require.NoError(t, err)
		assert.Equal(t, "howled", out.Quote)
	})

	t.Run("replies to a thread", func(t *testing.T) {
		server, store := setupTestServer(t)
		_, list, err := server.handleListAnnotations(ctx, nil, ChapterInput{ChapterID: "ch-1"})
		require.NoError(t, err)
		threadID := list.Annotations[0].ID

		_, out, err := server.handleAddComment(ctx, nil, AddCommentInput{
			ChapterID: "ch-1", Text: "Grey.", AnnotationID: threadID,
		})
		require.NoError(t, err)
		assert.Equal(t, threadID, out.AnnotationID)

		snap, err := store.Load(ctx, "ch-1")
		require.NoError(t, err)
		assert.Len(t, snap.Comments, 2)
	})

	t.Run("overlap is rejected", func(t *testing.T) {
		server, _ := setupTestServer(t)
		_, _, err := server.handleAddComment(ctx, nil, AddCommentInput{
			ChapterID: "ch-1", Text: "again", Find: "wolf",
		})
		assert.ErrorIs(t, err, domain.ErrOverlapConflict)
	})

	t.Run("missing occurrence", func(t *testing.T) {
		server, _ := setupTestServer(t)
		_, _, err := server.handleAddComment(ctx, nil, AddCommentInput{
			ChapterID: "ch-1", Text: "x", Find: "wolf", Occurrence: 3,
		})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("no range", func(t *testing.T) {
		server, _ := setupTestServer(t)
		_, _, err := server.handleAddComment(ctx, nil, AddCommentInput{ChapterID: "ch-1", Text: "x"})
		assert.Error(t, err)
	})
}

func TestServer_handleFind(t *testing.T) {
	server, _ := setupTestServer(t)

	_, out, err := server.handleFind(context.Background(), nil, FindInput{ChapterID: "ch-1", Term: "WOLF"})
	require.NoError(t, err)
	assert.Equal(t, 2, out.Count)
	assert.Equal(t, []MatchOutput{{Start: 4, End: 8}, {Start: 25, End: 29}}, out.Matches)

	_, out, err = server.handleFind(context.Background(), nil, FindInput{ChapterID: "ch-1", Term: "WOLF", CaseSensitive: true})
	require.NoError(t, err)
	assert.Zero(t, out.Count)
}
