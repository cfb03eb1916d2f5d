package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/grimorium/internal/core/domain"
	"github.com/custodia-labs/grimorium/internal/core/ports/driven"
	"github.com/custodia-labs/grimorium/internal/core/ports/driving"
	"github.com/custodia-labs/grimorium/internal/logger"
)

// Ensure ChapterService implements the interface.
var _ driving.ChapterService = (*ChapterService)(nil)

// ChapterService is the document model for the one open chapter.
// It owns the chapter content and its AnnotationStore, and delegates
// persistence to a ChapterStore.
type ChapterService struct {
	chapterStore driven.ChapterStore
	entities     driven.EntityDirectory
	autosaver    *Autosaver

	now   func() time.Time
	newID func() string

	mu          sync.RWMutex
	chapter     *domain.Chapter
	content     []rune
	annotations *AnnotationStore
	issues      []domain.Inconsistency
}

// NewChapterService creates a new chapter service.
func NewChapterService(chapterStore driven.ChapterStore, entities driven.EntityDirectory) *ChapterService {
	return &ChapterService{
		chapterStore: chapterStore,
		entities:     entities,
		now:          time.Now,
		newID:        uuid.NewString,
	}
}

// SetAutosaver sets the autosaver notified after every mutation.
func (s *ChapterService) SetAutosaver(autosaver *Autosaver) {
	s.autosaver = autosaver
}

// SetClock sets the time source for chapter and annotation timestamps.
func (s *ChapterService) SetClock(now func() time.Time) {
	s.now = now
}

// SetIDGenerator sets the ID generator for chapters, annotations and comments.
func (s *ChapterService) SetIDGenerator(newID func() string) {
	s.newID = newID
}

// Import creates a new chapter from plain text and persists it.
// A missing ID is generated; the ID and timestamps are written back to chapter.
func (s *ChapterService) Import(ctx context.Context, chapter *domain.Chapter) error {
	if s.chapterStore == nil {
		return domain.ErrNotImplemented
	}
	if chapter == nil || chapter.Title == "" {
		return fmt.Errorf("chapter title required: %w", domain.ErrInvalidInput)
	}
	if chapter.ID == "" {
		chapter.ID = s.newID()
	}
	if _, err := s.chapterStore.Load(ctx, chapter.ID); err == nil {
		return fmt.Errorf("chapter %s: %w", chapter.ID, domain.ErrAlreadyExists)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("check chapter: %w", err)
	}

	now := s.now()
	chapter.CreatedAt = now
	chapter.UpdatedAt = now
	return s.chapterStore.Save(ctx, &domain.Snapshot{Chapter: *chapter})
}

// List returns every stored chapter.
func (s *ChapterService) List(ctx context.Context) ([]domain.Chapter, error) {
	if s.chapterStore == nil {
		return nil, domain.ErrNotImplemented
	}
	return s.chapterStore.List(ctx)
}

// Remove deletes a stored chapter. The open chapter cannot be removed.
func (s *ChapterService) Remove(ctx context.Context, chapterID string) error {
	if s.chapterStore == nil {
		return domain.ErrNotImplemented
	}
	s.mu.RLock()
	open := s.chapter != nil && s.chapter.ID == chapterID
	s.mu.RUnlock()
	if open {
		return fmt.Errorf("chapter %s is open: %w", chapterID, domain.ErrInvalidInput)
	}
	return s.chapterStore.Delete(ctx, chapterID)
}

// Open loads a chapter and its annotations, replacing any open chapter.
func (s *ChapterService) Open(ctx context.Context, chapterID string) error {
	if s.chapterStore == nil {
		return domain.ErrNotImplemented
	}
	snap, err := s.chapterStore.Load(ctx, chapterID)
	if err != nil {
		return fmt.Errorf("open chapter %s: %w", chapterID, err)
	}

	if s.store() != nil {
		if err := s.Close(ctx); err != nil && !errors.Is(err, domain.ErrNoActiveChapter) {
			return err
		}
	}

	store := NewAnnotationStore(
		WithClock(s.now),
		WithIDGenerator(s.newID),
		WithContentLength(s.Length),
		WithChangeHook(s.touch),
	)
	store.Load(snap)

	chapter := snap.Chapter
	s.mu.Lock()
	s.chapter = &chapter
	s.content = []rune(chapter.Content)
	s.annotations = store
	s.issues = nil
	s.mu.Unlock()

	logger.Debug("opened chapter %s with %d annotations", chapterID, len(snap.Annotations))
	return nil
}

// Close flushes pending saves and discards the open chapter.
func (s *ChapterService) Close(ctx context.Context) error {
	if _, err := s.Active(); err != nil {
		return err
	}
	if s.autosaver != nil {
		if err := s.autosaver.Flush(ctx); err != nil {
			return fmt.Errorf("flush autosave: %w", err)
		}
	}

	s.mu.Lock()
	s.chapter = nil
	s.content = nil
	s.annotations = nil
	s.issues = nil
	s.mu.Unlock()
	return nil
}

// Save persists the open chapter immediately.
func (s *ChapterService) Save(ctx context.Context) error {
	if s.chapterStore == nil {
		return domain.ErrNotImplemented
	}
	snap, err := s.Snapshot()
	if err != nil {
		return err
	}
	if err := s.chapterStore.Save(ctx, snap); err != nil {
		return fmt.Errorf("save chapter %s: %w", snap.Chapter.ID, err)
	}
	logger.Debug("saved chapter %s", snap.Chapter.ID)
	return nil
}

// Active returns a copy of the open chapter.
func (s *ChapterService) Active() (*domain.Chapter, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.chapter == nil {
		return nil, domain.ErrNoActiveChapter
	}
	c := *s.chapter
	c.Content = string(s.content)
	return &c, nil
}

// Content returns the open chapter's text.
func (s *ChapterService) Content() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return string(s.content)
}

// Length returns the content length in runes.
func (s *ChapterService) Length() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.content)
}

// Annotations returns the annotation store of the open chapter, or nil.
func (s *ChapterService) Annotations() driving.AnnotationService {
	store := s.store()
	if store == nil {
		return nil
	}
	return store
}

func (s *ChapterService) store() *AnnotationStore {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.annotations
}

// CommentSelection anchors a new thread to r, quoting the selected text.
func (s *ChapterService) CommentSelection(r domain.Range, firstComment string) (*domain.Annotation, error) {
	store, text, err := s.selectionText(r)
	if err != nil {
		return nil, err
	}
	a, _, err := store.CreateCommentAnnotation(r.Start, r.End, text, firstComment)
	return a, err
}

// LinkSelection anchors an entity link to r after resolving the entity.
func (s *ChapterService) LinkSelection(ctx context.Context, r domain.Range, entityType, entityID string) (*domain.Annotation, error) {
	store, text, err := s.selectionText(r)
	if err != nil {
		return nil, err
	}
	if s.entities != nil {
		if _, err := s.entities.Resolve(ctx, entityType, entityID); err != nil {
			return nil, fmt.Errorf("resolve entity %s/%s: %w", entityType, entityID, err)
		}
	}
	a, _, err := store.CreateLinkAnnotation(r.Start, r.End, text, entityType, entityID)
	return a, err
}

func (s *ChapterService) selectionText(r domain.Range) (*AnnotationStore, string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.chapter == nil {
		return nil, "", domain.ErrNoActiveChapter
	}
	if r.Start < 0 || r.Start >= r.End || r.End > len(s.content) {
		return nil, "", fmt.Errorf("range [%d, %d): %w", r.Start, r.End, domain.ErrInvalidInput)
	}
	return s.annotations, string(s.content[r.Start:r.End]), nil
}

// Replace rewrites content[start:end) with text and re-anchors annotations.
func (s *ChapterService) Replace(start, end int, text string) (domain.EditResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.chapter == nil {
		return domain.EditResult{}, domain.ErrNoActiveChapter
	}
	if start < 0 || start > end || end > len(s.content) {
		return domain.EditResult{}, fmt.Errorf("replace [%d, %d): %w", start, end, domain.ErrInvalidInput)
	}

	inserted := []rune(text)
	updated := make([]rune, 0, len(s.content)-(end-start)+len(inserted))
	updated = append(updated, s.content[:start]...)
	updated = append(updated, inserted...)
	updated = append(updated, s.content[end:]...)

	mapStart, mapEnd := replaceMapping(start, end, len(inserted))
	return s.applyEditLocked(updated, mapStart, mapEnd), nil
}

// SetContent replaces the whole content and re-anchors annotations through
// a rune diff of old and new text.
func (s *ChapterService) SetContent(content string) (domain.EditResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.chapter == nil {
		return domain.EditResult{}, domain.ErrNoActiveChapter
	}

	updated := []rune(content)
	mapStart, mapEnd := diffMapping(s.content, updated)
	return s.applyEditLocked(updated, mapStart, mapEnd), nil
}

func (s *ChapterService) applyEditLocked(updated []rune, mapStart, mapEnd func(int) int) domain.EditResult {
	s.content = updated
	s.chapter.UpdatedAt = s.now()

	result := s.annotations.reanchor(mapStart, mapEnd, updated)
	for _, a := range result.Removed {
		logger.Info("annotation %s on %q removed: its text was deleted", a.ID, a.Text)
	}
	s.touch()
	return result
}

// Render composes the current content with the latest annotation state.
func (s *ChapterService) Render() (domain.RenderTree, error) {
	s.mu.RLock()
	if s.chapter == nil {
		s.mu.RUnlock()
		return nil, domain.ErrNoActiveChapter
	}
	content := string(s.content)
	store := s.annotations
	s.mu.RUnlock()

	tree, issues := Compose(content, store.List(), store)
	s.mu.Lock()
	s.issues = issues
	s.mu.Unlock()
	return tree, nil
}

// Inconsistencies returns the annotations the latest Render had to clamp or
// drop. Callers reconcile them, usually by deleting or re-anchoring.
func (s *ChapterService) Inconsistencies() []domain.Inconsistency {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.issues) == 0 {
		return nil
	}
	out := make([]domain.Inconsistency, len(s.issues))
	copy(out, s.issues)
	return out
}

// ResolveSelection maps a selection in a rendered view to logical offsets.
func (s *ChapterService) ResolveSelection(root *domain.ViewNode, sel domain.Selection) (domain.Range, error) {
	if _, err := s.Active(); err != nil {
		return domain.Range{}, err
	}
	return ResolveSelection(root, sel)
}

// Snapshot returns a deep copy of the open chapter's state.
func (s *ChapterService) Snapshot() (*domain.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.chapter == nil {
		return nil, domain.ErrNoActiveChapter
	}

	snap := &domain.Snapshot{Chapter: *s.chapter}
	snap.Chapter.Content = string(s.content)
	snap.Annotations, snap.Comments, snap.Links = s.annotations.Snapshot()
	return snap, nil
}

func (s *ChapterService) touch() {
	if s.autosaver != nil {
		s.autosaver.Touch()
	}
}
