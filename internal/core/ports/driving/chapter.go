package driving

import (
	"context"

	"github.com/custodia-labs/grimorium/internal/core/domain"
)

// ChapterService is the document model for the single open chapter.
type ChapterService interface {
	// Import creates a new chapter from plain text and persists it.
	// The generated ID and timestamps are written back to chapter.
	Import(ctx context.Context, chapter *domain.Chapter) error

	// List returns every stored chapter.
	List(ctx context.Context) ([]domain.Chapter, error)

	// Remove deletes a stored chapter. The open chapter cannot be removed.
	Remove(ctx context.Context, chapterID string) error

	// Open loads a chapter and its annotations, replacing any open chapter.
	Open(ctx context.Context, chapterID string) error

	// Close flushes pending saves and discards the open chapter.
	Close(ctx context.Context) error

	// Save persists the open chapter immediately.
	Save(ctx context.Context) error

	// Active returns the open chapter.
	Active() (*domain.Chapter, error)

	// Content returns the open chapter's text.
	Content() string

	// Length returns the content length in runes.
	Length() int

	// Annotations returns the annotation store of the open chapter.
	Annotations() AnnotationService

	// CommentSelection anchors a new thread to r, quoting the selected text.
	CommentSelection(r domain.Range, firstComment string) (*domain.Annotation, error)

	// LinkSelection anchors an entity link to r after resolving the entity.
	LinkSelection(ctx context.Context, r domain.Range, entityType, entityID string) (*domain.Annotation, error)

	// Replace rewrites content[start:end) and re-anchors annotations.
	Replace(start, end int, text string) (domain.EditResult, error)

	// SetContent replaces the whole content and re-anchors annotations
	// through a diff of old and new text.
	SetContent(content string) (domain.EditResult, error)

	// Render composes the current content and annotations.
	Render() (domain.RenderTree, error)

	// Inconsistencies lists annotations the latest Render clamped to the
	// content or dropped as empty.
	Inconsistencies() []domain.Inconsistency

	// ResolveSelection maps a selection in a rendered tree to logical offsets.
	ResolveSelection(root *domain.ViewNode, sel domain.Selection) (domain.Range, error)

	// Snapshot returns a deep copy of the open chapter's state.
	Snapshot() (*domain.Snapshot, error)
}
