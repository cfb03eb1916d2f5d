package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/custodia-labs/grimorium/internal/core/domain"
	"github.com/custodia-labs/grimorium/internal/core/ports/driven"
)

// entityDirectory implements driven.EntityDirectory.
type entityDirectory struct {
	store *Store
}

var _ driven.EntityDirectory = (*entityDirectory)(nil)

// Resolve looks up an entity by type and ID.
func (d *entityDirectory) Resolve(ctx context.Context, entityType, entityID string) (*domain.Entity, error) {
	row := d.store.db.QueryRowContext(ctx, `
		SELECT type, id, name FROM entities WHERE type = ? AND id = ?
	`, entityType, entityID)

	var e domain.Entity
	if err := row.Scan(&e.Type, &e.ID, &e.Name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning entity: %w", err)
	}
	return &e, nil
}

// Register adds or renames an entity.
func (d *entityDirectory) Register(ctx context.Context, entity domain.Entity) error {
	if entity.Type == "" || entity.ID == "" {
		return domain.ErrInvalidInput
	}
	_, err := d.store.db.ExecContext(ctx, `
		INSERT INTO entities (type, id, name) VALUES (?, ?, ?)
		ON CONFLICT(type, id) DO UPDATE SET name = excluded.name
	`, entity.Type, entity.ID, entity.Name)
	if err != nil {
		return fmt.Errorf("saving entity: %w", err)
	}
	return nil
}

// List returns entities of one type, or all entities when entityType is empty.
func (d *entityDirectory) List(ctx context.Context, entityType string) ([]domain.Entity, error) {
	rows, err := d.store.db.QueryContext(ctx, `
		SELECT type, id, name FROM entities
		WHERE ? = '' OR type = ?
		ORDER BY type, name
	`, entityType, entityType)
	if err != nil {
		return nil, fmt.Errorf("querying entities: %w", err)
	}
	defer rows.Close()

	var out []domain.Entity
	for rows.Next() {
		var e domain.Entity
		if err := rows.Scan(&e.Type, &e.ID, &e.Name); err != nil {
			return nil, fmt.Errorf("scanning entity: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
