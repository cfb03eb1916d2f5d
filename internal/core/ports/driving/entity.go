package driving

import (
	"context"

	"github.com/custodia-labs/grimorium/internal/core/domain"
)

// EntityService manages the world-building entities that links point to.
type EntityService interface {
	// Add registers an entity. Returns domain.ErrInvalidInput if type, id or name is empty.
	Add(ctx context.Context, entity domain.Entity) error

	// Get resolves one entity.
	Get(ctx context.Context, entityType, entityID string) (*domain.Entity, error)

	// List returns entities of one type, or all when entityType is empty.
	List(ctx context.Context, entityType string) ([]domain.Entity, error)
}
