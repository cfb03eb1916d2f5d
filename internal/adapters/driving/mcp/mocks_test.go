package mcp

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/grimorium/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/grimorium/internal/core/domain"
	"github.com/custodia-labs/grimorium/internal/core/services"
)

const wolfText = "The wolf howled near the wolf den."

// mockChapterStore is a driven.ChapterStore whose every call fails with err.
type mockChapterStore struct {
	err error
}

func (m *mockChapterStore) Load(_ context.Context, _ string) (*domain.Snapshot, error) {
	return nil, m.err
}

func (m *mockChapterStore) Save(_ context.Context, _ *domain.Snapshot) error {
	return m.err
}

func (m *mockChapterStore) List(_ context.Context) ([]domain.Chapter, error) {
	return nil, m.err
}

func (m *mockChapterStore) Delete(_ context.Context, _ string) error {
	return m.err
}

// setupTestServer returns a server over memory stores holding one chapter
// with a comment on the first "wolf" and a link on the second.
func setupTestServer(t *testing.T) (*Server, *memory.ChapterStore) {
	t.Helper()
	ctx := context.Background()

	store := memory.NewChapterStore()
	entities := memory.NewEntityDirectory()
	require.NoError(t, entities.Register(ctx, domain.Entity{Type: "character", ID: "fenrir", Name: "Fenrir"}))

	chapters := services.NewChapterService(store, entities)
	require.NoError(t, chapters.Import(ctx, &domain.Chapter{ID: "ch-1", Title: "The Den", Content: wolfText}))
	require.NoError(t, chapters.Open(ctx, "ch-1"))
	_, err := chapters.CommentSelection(domain.Range{Start: 4, End: 8}, "Grey or black?")
	require.NoError(t, err)
	_, err = chapters.LinkSelection(ctx, domain.Range{Start: 25, End: 29}, "character", "fenrir")
	require.NoError(t, err)
	require.NoError(t, chapters.Save(ctx))
	require.NoError(t, chapters.Close(ctx))

	server, err := NewServer(&Ports{
		Chapters: chapters,
		Entities: services.NewEntityService(entities),
	})
	require.NoError(t, err)
	return server, store
}
