package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/custodia-labs/grimorium/internal/core/domain"
	"github.com/custodia-labs/grimorium/internal/core/ports/driven"
)

// chapterStore implements driven.ChapterStore.
type chapterStore struct {
	store *Store
}

var _ driven.ChapterStore = (*chapterStore)(nil)

// Load retrieves a chapter with its annotations, comments and links.
func (s *chapterStore) Load(ctx context.Context, chapterID string) (*domain.Snapshot, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, title, content, source_path, created_at, updated_at
		FROM chapters WHERE id = ?
	`, chapterID)

	chapter, err := scanChapter(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning chapter: %w", err)
	}

	snap := &domain.Snapshot{Chapter: *chapter}
	if snap.Annotations, err = s.loadAnnotations(ctx, chapterID); err != nil {
		return nil, err
	}
	if snap.Comments, err = s.loadComments(ctx, chapterID); err != nil {
		return nil, err
	}
	if snap.Links, err = s.loadLinks(ctx, chapterID); err != nil {
		return nil, err
	}
	return snap, nil
}

func (s *chapterStore) loadAnnotations(ctx context.Context, chapterID string) ([]domain.Annotation, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, kind, start_pos, end_pos, text, created_at
		FROM annotations WHERE chapter_id = ?
		ORDER BY start_pos, id
	`, chapterID)
	if err != nil {
		return nil, fmt.Errorf("querying annotations: %w", err)
	}
	defer rows.Close()

	var out []domain.Annotation
	for rows.Next() {
		var a domain.Annotation
		var kind string
		var createdAt sql.NullTime
		if err := rows.Scan(&a.ID, &kind, &a.Start, &a.End, &a.Text, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning annotation: %w", err)
		}
		a.Kind = domain.AnnotationKind(kind)
		if createdAt.Valid {
			a.CreatedAt = createdAt.Time
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *chapterStore) loadComments(ctx context.Context, chapterID string) ([]domain.Comment, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT c.id, c.annotation_id, c.text, c.important, c.timestamp, c.updated_at
		FROM comments c
		JOIN annotations a ON a.id = c.annotation_id
		WHERE a.chapter_id = ?
		ORDER BY a.start_pos, c.annotation_id, c.position
	`, chapterID)
	if err != nil {
		return nil, fmt.Errorf("querying comments: %w", err)
	}
	defer rows.Close()

	var out []domain.Comment
	for rows.Next() {
		var c domain.Comment
		var timestamp, updatedAt sql.NullTime
		if err := rows.Scan(&c.ID, &c.AnnotationID, &c.Text, &c.Important, &timestamp, &updatedAt); err != nil {
			return nil, fmt.Errorf("scanning comment: %w", err)
		}
		if timestamp.Valid {
			c.Timestamp = timestamp.Time
		}
		if updatedAt.Valid {
			c.UpdatedAt = updatedAt.Time
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *chapterStore) loadLinks(ctx context.Context, chapterID string) ([]domain.EntityLink, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT l.annotation_id, l.entity_type, l.entity_id, l.text
		FROM entity_links l
		JOIN annotations a ON a.id = l.annotation_id
		WHERE a.chapter_id = ?
		ORDER BY a.start_pos
	`, chapterID)
	if err != nil {
		return nil, fmt.Errorf("querying entity links: %w", err)
	}
	defer rows.Close()

	var out []domain.EntityLink
	for rows.Next() {
		var l domain.EntityLink
		if err := rows.Scan(&l.AnnotationID, &l.EntityType, &l.EntityID, &l.Text); err != nil {
			return nil, fmt.Errorf("scanning entity link: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// Save replaces a chapter and all of its annotation data in one transaction.
func (s *chapterStore) Save(ctx context.Context, snapshot *domain.Snapshot) error {
	if snapshot == nil || snapshot.Chapter.ID == "" {
		return domain.ErrInvalidInput
	}
	ch := snapshot.Chapter

	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	_, err = tx.ExecContext(ctx, `
		INSERT INTO chapters (id, title, content, source_path, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			content = excluded.content,
			source_path = excluded.source_path,
			updated_at = excluded.updated_at
	`, ch.ID, ch.Title, ch.Content, ch.SourcePath, ch.CreatedAt, ch.UpdatedAt)
	if err != nil {
		return fmt.Errorf("saving chapter: %w", err)
	}

	// Comments and links cascade.
	if _, err := tx.ExecContext(ctx, "DELETE FROM annotations WHERE chapter_id = ?", ch.ID); err != nil {
		return fmt.Errorf("clearing annotations: %w", err)
	}

	for _, a := range snapshot.Annotations {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO annotations (id, chapter_id, kind, start_pos, end_pos, text, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, a.ID, ch.ID, a.Kind.String(), a.Start, a.End, a.Text, a.CreatedAt); err != nil {
			return fmt.Errorf("saving annotation %s: %w", a.ID, err)
		}
	}

	positions := make(map[string]int)
	for _, c := range snapshot.Comments {
		pos := positions[c.AnnotationID]
		positions[c.AnnotationID] = pos + 1
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO comments (id, annotation_id, text, important, position, timestamp, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, c.ID, c.AnnotationID, c.Text, c.Important, pos, c.Timestamp, c.UpdatedAt); err != nil {
			return fmt.Errorf("saving comment %s: %w", c.ID, err)
		}
	}

	for _, l := range snapshot.Links {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO entity_links (annotation_id, entity_type, entity_id, text)
			VALUES (?, ?, ?, ?)
		`, l.AnnotationID, l.EntityType, l.EntityID, l.Text); err != nil {
			return fmt.Errorf("saving entity link %s: %w", l.AnnotationID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// List returns all chapters ordered by title, without their content.
func (s *chapterStore) List(ctx context.Context) ([]domain.Chapter, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, title, '', source_path, created_at, updated_at
		FROM chapters ORDER BY title, id
	`)
	if err != nil {
		return nil, fmt.Errorf("querying chapters: %w", err)
	}
	defer rows.Close()

	var out []domain.Chapter
	for rows.Next() {
		ch, err := scanChapter(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning chapter: %w", err)
		}
		out = append(out, *ch)
	}
	return out, rows.Err()
}

// Delete removes a chapter and, by cascade, its annotation data.
func (s *chapterStore) Delete(ctx context.Context, chapterID string) error {
	if _, err := s.store.db.ExecContext(ctx, "DELETE FROM chapters WHERE id = ?", chapterID); err != nil {
		return fmt.Errorf("deleting chapter: %w", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanChapter(row scanner) (*domain.Chapter, error) {
	var ch domain.Chapter
	var createdAt, updatedAt sql.NullTime
	if err := row.Scan(&ch.ID, &ch.Title, &ch.Content, &ch.SourcePath, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	if createdAt.Valid {
		ch.CreatedAt = createdAt.Time
	}
	if updatedAt.Valid {
		ch.UpdatedAt = updatedAt.Time
	}
	return &ch, nil
}
