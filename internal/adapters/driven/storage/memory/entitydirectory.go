package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/grimorium/internal/core/domain"
	"github.com/custodia-labs/grimorium/internal/core/ports/driven"
)

// Ensure EntityDirectory implements the interface.
var _ driven.EntityDirectory = (*EntityDirectory)(nil)

type entityKey struct {
	entityType string
	id         string
}

// EntityDirectory is an in-memory implementation of driven.EntityDirectory.
type EntityDirectory struct {
	mu       sync.RWMutex
	entities map[entityKey]domain.Entity
}

// NewEntityDirectory creates a new in-memory entity directory.
func NewEntityDirectory() *EntityDirectory {
	return &EntityDirectory{
		entities: make(map[entityKey]domain.Entity),
	}
}

// Resolve looks up an entity by type and ID.
func (d *EntityDirectory) Resolve(_ context.Context, entityType, entityID string) (*domain.Entity, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	e, ok := d.entities[entityKey{entityType, entityID}]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &e, nil
}

// Register adds or replaces an entity.
func (d *EntityDirectory) Register(_ context.Context, entity domain.Entity) error {
	if entity.Type == "" || entity.ID == "" {
		return domain.ErrInvalidInput
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.entities[entityKey{entity.Type, entity.ID}] = entity
	return nil
}

// List returns entities of one type, or all entities when entityType is empty.
func (d *EntityDirectory) List(_ context.Context, entityType string) ([]domain.Entity, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	result := make([]domain.Entity, 0, len(d.entities))
	for k, e := range d.entities {
		if entityType != "" && k.entityType != entityType {
			continue
		}
		result = append(result, e)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Type != result[j].Type {
			return result[i].Type < result[j].Type
		}
		return result[i].Name < result[j].Name
	})
	return result, nil
}
