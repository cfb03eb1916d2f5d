package driven

import (
	"context"

	"github.com/custodia-labs/grimorium/internal/core/domain"
)

// NormaliserRegistry selects the normaliser for a chapter file by MIME type.
type NormaliserRegistry interface {
	// Normalise transforms raw using the highest-priority matching normaliser.
	Normalise(ctx context.Context, raw *domain.RawChapter) (*NormaliseResult, error)

	// Register adds a normaliser to the registry.
	Register(normaliser Normaliser)

	// SupportedMIMETypes returns all MIME types that can be normalised.
	SupportedMIMETypes() []string
}
