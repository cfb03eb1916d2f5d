package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/grimorium/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/grimorium/internal/core/domain"
	"github.com/custodia-labs/grimorium/internal/core/services"
	"github.com/custodia-labs/grimorium/internal/normalisers"
)

const wolfText = "The wolf howled near the wolf den."

func setupWatcher(t *testing.T) (*Watcher, *services.ChapterService, *memory.ChapterStore, string) {
	t.Helper()
	ctx := context.Background()

	path := filepath.Join(t.TempDir(), "chapter.txt")
	require.NoError(t, os.WriteFile(path, []byte(wolfText), 0644))

	store := memory.NewChapterStore()
	chapters := services.NewChapterService(store, memory.NewEntityDirectory())
	require.NoError(t, chapters.Import(ctx, &domain.Chapter{ID: "ch-1", Title: "Den", Content: wolfText, SourcePath: path}))
	require.NoError(t, chapters.Open(ctx, "ch-1"))
	_, _, err := chapters.Annotations().CreateCommentAnnotation(25, 29, "wolf", "Which wolf?")
	require.NoError(t, err)

	return New(chapters, path), chapters, store, path
}

func TestHandleEvent(t *testing.T) {
	w, _, _, path := setupWatcher(t)

	tests := []struct {
		name  string
		event fsnotify.Event
		want  bool
	}{
		{"write", fsnotify.Event{Name: path, Op: fsnotify.Write}, true},
		{"create after rename save", fsnotify.Event{Name: path, Op: fsnotify.Create}, true},
		{"chmod", fsnotify.Event{Name: path, Op: fsnotify.Chmod}, false},
		{"remove", fsnotify.Event{Name: path, Op: fsnotify.Remove}, false},
		{"other file", fsnotify.Event{Name: filepath.Join(filepath.Dir(path), "notes.txt"), Op: fsnotify.Write}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, w.handleEvent(tt.event))
		})
	}
}

func TestSync_ReanchorsAndSaves(t *testing.T) {
	w, chapters, store, path := setupWatcher(t)
	ctx := context.Background()

	require.NoError(t, os.WriteFile(path, []byte("Dusk. "+wolfText), 0644))

	var synced domain.EditResult
	w.OnSync(func(r domain.EditResult) { synced = r })

	result, err := w.Sync(ctx)
	require.NoError(t, err)
	require.Len(t, result.Shifted, 1)
	assert.Equal(t, result, synced)

	list := chapters.Annotations().List()
	require.Len(t, list, 1)
	assert.Equal(t, 31, list[0].Start)
	assert.Equal(t, 35, list[0].End)
	assert.Equal(t, "wolf", list[0].Text)

	saved, err := store.Load(ctx, "ch-1")
	require.NoError(t, err)
	assert.Equal(t, "Dusk. "+wolfText, saved.Chapter.Content)
	require.Len(t, saved.Annotations, 1)
	assert.Equal(t, 31, saved.Annotations[0].Start)
}

func TestSync_NormalisesMarkup(t *testing.T) {
	_, chapters, _, path := setupWatcher(t)
	mdPath := filepath.Join(filepath.Dir(path), "chapter.md")
	require.NoError(t, os.WriteFile(mdPath, []byte("# Den\n\nDusk. The *wolf* howled near the wolf den."), 0644))

	w := New(chapters, mdPath)
	w.SetNormaliser(normalisers.Default())

	result, err := w.Sync(context.Background())
	require.NoError(t, err)
	require.Len(t, result.Shifted, 1)
	assert.Equal(t, "Dusk. "+wolfText, chapters.Content())
	assert.Equal(t, 31, chapters.Annotations().List()[0].Start)
}

func TestSync_UnchangedIsNoOp(t *testing.T) {
	w, _, _, _ := setupWatcher(t)

	called := false
	w.OnSync(func(domain.EditResult) { called = true })

	result, err := w.Sync(context.Background())
	require.NoError(t, err)
	assert.Empty(t, result.Shifted)
	assert.False(t, called)
}

func TestSync_MissingFile(t *testing.T) {
	w, _, _, path := setupWatcher(t)
	require.NoError(t, os.Remove(path))

	_, err := w.Sync(context.Background())
	assert.Error(t, err)
}

func TestRun_AppliesWrites(t *testing.T) {
	w, chapters, _, path := setupWatcher(t)

	var mu sync.Mutex
	syncs := 0
	w.OnSync(func(domain.EditResult) {
		mu.Lock()
		syncs++
		mu.Unlock()
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	updated := "A storm. " + wolfText
	require.Eventually(t, func() bool {
		// Rewrite until the watcher has registered and picked the change up.
		_ = os.WriteFile(path, []byte(updated), 0644)
		return chapters.Content() == updated
	}, 5*time.Second, 50*time.Millisecond)

	cancel()
	require.NoError(t, <-done)

	mu.Lock()
	defer mu.Unlock()
	assert.GreaterOrEqual(t, syncs, 1)
}

func TestNew_CleansPath(t *testing.T) {
	dir := t.TempDir()
	w := New(nil, filepath.Join(dir, "sub", "..", "chapter.txt"))
	assert.Equal(t, filepath.Join(dir, "chapter.txt"), w.Path())
}
