package driven

import (
	"context"

	"github.com/custodia-labs/grimorium/internal/core/domain"
)

// ChapterStore persists chapter snapshots.
// The engine never calls storage during edits; it hands whole snapshots
// to the store on open, save and autosave.
type ChapterStore interface {
	// Load returns the snapshot for a chapter.
	// Returns domain.ErrNotFound if the chapter does not exist.
	Load(ctx context.Context, chapterID string) (*domain.Snapshot, error)

	// Save stores or replaces the snapshot for snapshot.Chapter.ID.
	Save(ctx context.Context, snapshot *domain.Snapshot) error

	// List returns every stored chapter without annotations.
	List(ctx context.Context) ([]domain.Chapter, error)

	// Delete removes a chapter and everything anchored to it.
	Delete(ctx context.Context, chapterID string) error
}
