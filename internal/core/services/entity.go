package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/grimorium/internal/core/domain"
	"github.com/custodia-labs/grimorium/internal/core/ports/driven"
	"github.com/custodia-labs/grimorium/internal/core/ports/driving"
)

// Ensure EntityService implements the interface.
var _ driving.EntityService = (*EntityService)(nil)

// EntityService manages world-building entities.
type EntityService struct {
	directory driven.EntityDirectory
}

// NewEntityService creates a new entity service.
func NewEntityService(directory driven.EntityDirectory) *EntityService {
	return &EntityService{directory: directory}
}

// Add registers an entity after trimming and validating its fields.
func (s *EntityService) Add(ctx context.Context, entity domain.Entity) error {
	if s.directory == nil {
		return domain.ErrNotImplemented
	}
	entity.Type = strings.TrimSpace(entity.Type)
	entity.ID = strings.TrimSpace(entity.ID)
	entity.Name = strings.TrimSpace(entity.Name)
	if entity.Type == "" || entity.ID == "" || entity.Name == "" {
		return fmt.Errorf("entity type, id and name required: %w", domain.ErrInvalidInput)
	}
	if err := s.directory.Register(ctx, entity); err != nil {
		return fmt.Errorf("register entity: %w", err)
	}
	return nil
}

// Get resolves one entity.
func (s *EntityService) Get(ctx context.Context, entityType, entityID string) (*domain.Entity, error) {
	if s.directory == nil {
		return nil, domain.ErrNotImplemented
	}
	return s.directory.Resolve(ctx, entityType, entityID)
}

// List returns entities of one type, or all when entityType is empty.
func (s *EntityService) List(ctx context.Context, entityType string) ([]domain.Entity, error) {
	if s.directory == nil {
		return nil, domain.ErrNotImplemented
	}
	return s.directory.List(ctx, entityType)
}
