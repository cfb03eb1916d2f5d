package driven

import (
	"context"

	"github.com/custodia-labs/grimorium/internal/core/domain"
)

// Normaliser reduces a chapter file in one format to plain text.
type Normaliser interface {
	// SupportedMIMETypes returns the MIME types this normaliser handles.
	SupportedMIMETypes() []string

	// Priority returns the selection priority (higher = preferred).
	// Format normalisers return 50-89, the plain text fallback 1-9.
	Priority() int

	// Normalise extracts the title and plain text of raw.
	Normalise(ctx context.Context, raw *domain.RawChapter) (*NormaliseResult, error)
}

// NormaliseResult is the plain text of a chapter file.
type NormaliseResult struct {
	// Title comes from the document itself when it has one, otherwise
	// from the file name.
	Title string

	// Content is the text annotations are anchored to.
	Content string
}
