package driven

import (
	"context"

	"github.com/custodia-labs/grimorium/internal/core/domain"
)

// EntityDirectory resolves world-building entities referenced by links.
type EntityDirectory interface {
	// Resolve returns the entity for a type/id pair.
	// Returns domain.ErrNotFound if no such entity exists.
	Resolve(ctx context.Context, entityType, entityID string) (*domain.Entity, error)

	// Register stores or updates an entity.
	Register(ctx context.Context, entity domain.Entity) error

	// List returns entities of one type, or all entities when entityType is empty.
	List(ctx context.Context, entityType string) ([]domain.Entity, error)
}
