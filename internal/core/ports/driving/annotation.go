package driving

import "github.com/custodia-labs/grimorium/internal/core/domain"

// AnnotationService manages annotations, comment threads and entity links
// for the open chapter. All operations are synchronous and in-memory.
type AnnotationService interface {
	// CreateCommentAnnotation anchors a new thread to [start, end).
	// Returns domain.ErrOverlapConflict if the range intersects an existing annotation.
	CreateCommentAnnotation(start, end int, text, firstCommentText string) (*domain.Annotation, *domain.Comment, error)

	// CreateLinkAnnotation anchors an entity link to [start, end).
	// Returns domain.ErrOverlapConflict if the range intersects an existing annotation.
	CreateLinkAnnotation(start, end int, text, entityType, entityID string) (*domain.Annotation, *domain.EntityLink, error)

	// AddComment appends to a comment annotation's thread.
	// Returns domain.ErrNotFound if the annotation is missing or is a link.
	AddComment(annotationID, text string) (*domain.Comment, error)

	// EditComment replaces a comment's text.
	EditComment(commentID, text string) (*domain.Comment, error)

	// SetCommentImportant flags or unflags a comment.
	SetCommentImportant(commentID string, important bool) (*domain.Comment, error)

	// DeleteComment removes one comment. The annotation is kept.
	DeleteComment(commentID string) error

	// DeleteAnnotation removes an annotation with its comments or link.
	DeleteAnnotation(annotationID string) error

	// ListCommentsFor returns a thread ordered by timestamp ascending.
	ListCommentsFor(annotationID string) ([]domain.Comment, error)

	// Get returns one annotation.
	Get(annotationID string) (*domain.Annotation, error)

	// List returns every annotation ordered by start offset.
	List() []domain.Annotation

	// LinkFor returns the entity link of a link annotation.
	LinkFor(annotationID string) (domain.EntityLink, bool)

	// CommentCount returns the thread length of an annotation.
	CommentCount(annotationID string) int

	// FindAt returns the annotation covering offset.
	FindAt(offset int) (*domain.Annotation, bool)
}
