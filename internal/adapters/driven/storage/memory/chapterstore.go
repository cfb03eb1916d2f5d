package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/grimorium/internal/core/domain"
	"github.com/custodia-labs/grimorium/internal/core/ports/driven"
)

// Ensure ChapterStore implements the interface.
var _ driven.ChapterStore = (*ChapterStore)(nil)

// ChapterStore is an in-memory implementation of driven.ChapterStore.
// Snapshots are deep-copied on the way in and out.
type ChapterStore struct {
	mu       sync.RWMutex
	chapters map[string]*domain.Snapshot
}

// NewChapterStore creates a new in-memory chapter store.
func NewChapterStore() *ChapterStore {
	return &ChapterStore{
		chapters: make(map[string]*domain.Snapshot),
	}
}

// Load retrieves a chapter with its annotations.
func (s *ChapterStore) Load(_ context.Context, chapterID string) (*domain.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap, ok := s.chapters[chapterID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return snap.Clone(), nil
}

// Save stores or replaces a chapter snapshot.
func (s *ChapterStore) Save(_ context.Context, snapshot *domain.Snapshot) error {
	if snapshot == nil || snapshot.Chapter.ID == "" {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chapters[snapshot.Chapter.ID] = snapshot.Clone()
	return nil
}

// List returns all chapters ordered by title.
func (s *ChapterStore) List(_ context.Context) ([]domain.Chapter, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.Chapter, 0, len(s.chapters))
	for _, snap := range s.chapters {
		result = append(result, snap.Chapter)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Title != result[j].Title {
			return result[i].Title < result[j].Title
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

// Delete removes a chapter. Deleting a missing chapter is not an error.
func (s *ChapterStore) Delete(_ context.Context, chapterID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.chapters, chapterID)
	return nil
}
