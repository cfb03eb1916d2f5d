package services

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/grimorium/internal/core/domain"
	"github.com/custodia-labs/grimorium/internal/core/ports/driving"
)

// Ensure AnnotationStore implements the interfaces.
var (
	_ driving.AnnotationService = (*AnnotationStore)(nil)
	_ ThreadLookup              = (*AnnotationStore)(nil)
)

// AnnotationStore holds the annotations, comment threads and entity links
// of one chapter. Reads may come from an autosave goroutine, so state is
// guarded by a mutex.
type AnnotationStore struct {
	mu          sync.RWMutex
	annotations map[string]domain.Annotation
	threads     map[string][]domain.Comment // annotation ID -> comments in insertion order
	commentOf   map[string]string           // comment ID -> annotation ID
	links       map[string]domain.EntityLink

	now        func() time.Time
	newID      func() string
	contentLen func() int
	onChange   func()
}

// AnnotationOption configures an AnnotationStore.
type AnnotationOption func(*AnnotationStore)

// WithClock sets the time source for timestamps.
func WithClock(now func() time.Time) AnnotationOption {
	return func(s *AnnotationStore) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerator sets the generator for annotation and comment IDs.
func WithIDGenerator(newID func() string) AnnotationOption {
	return func(s *AnnotationStore) {
		if newID != nil {
			s.newID = newID
		}
	}
}

// WithContentLength bounds new annotations to the document length.
// The function must not call back into the store.
func WithContentLength(length func() int) AnnotationOption {
	return func(s *AnnotationStore) {
		s.contentLen = length
	}
}

// WithChangeHook registers a function called after every mutation.
func WithChangeHook(fn func()) AnnotationOption {
	return func(s *AnnotationStore) {
		s.onChange = fn
	}
}

// NewAnnotationStore creates an empty annotation store.
func NewAnnotationStore(opts ...AnnotationOption) *AnnotationStore {
	s := &AnnotationStore{
		annotations: make(map[string]domain.Annotation),
		threads:     make(map[string][]domain.Comment),
		commentOf:   make(map[string]string),
		links:       make(map[string]domain.EntityLink),
		now:         time.Now,
		newID:       uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateCommentAnnotation anchors a new comment thread to [start, end).
func (s *AnnotationStore) CreateCommentAnnotation(start, end int, text, firstCommentText string) (*domain.Annotation, *domain.Comment, error) {
	if firstCommentText == "" {
		return nil, nil, fmt.Errorf("comment text required: %w", domain.ErrInvalidInput)
	}
	if err := s.checkBounds(start, end); err != nil {
		return nil, nil, err
	}

	s.mu.Lock()
	if err := s.checkOverlapLocked(start, end); err != nil {
		s.mu.Unlock()
		return nil, nil, err
	}
	now := s.now()
	a := domain.Annotation{
		ID:        s.newID(),
		Kind:      domain.KindComment,
		Start:     start,
		End:       end,
		Text:      text,
		CreatedAt: now,
	}
	c := domain.Comment{
		ID:           s.newID(),
		AnnotationID: a.ID,
		Text:         firstCommentText,
		Timestamp:    now,
		UpdatedAt:    now,
	}
	s.annotations[a.ID] = a
	s.threads[a.ID] = []domain.Comment{c}
	s.commentOf[c.ID] = a.ID
	s.mu.Unlock()

	s.changed()
	return &a, &c, nil
}

// CreateLinkAnnotation anchors an entity link to [start, end).
func (s *AnnotationStore) CreateLinkAnnotation(start, end int, text, entityType, entityID string) (*domain.Annotation, *domain.EntityLink, error) {
	if entityType == "" || entityID == "" {
		return nil, nil, fmt.Errorf("entity type and id required: %w", domain.ErrInvalidInput)
	}
	if err := s.checkBounds(start, end); err != nil {
		return nil, nil, err
	}

	s.mu.Lock()
	if err := s.checkOverlapLocked(start, end); err != nil {
		s.mu.Unlock()
		return nil, nil, err
	}
	a := domain.Annotation{
		ID:        s.newID(),
		Kind:      domain.KindLink,
		Start:     start,
		End:       end,
		Text:      text,
		CreatedAt: s.now(),
	}
	link := domain.EntityLink{
		AnnotationID: a.ID,
		EntityType:   entityType,
		EntityID:     entityID,
		Text:         text,
	}
	s.annotations[a.ID] = a
	s.links[a.ID] = link
	s.mu.Unlock()

	s.changed()
	return &a, &link, nil
}

// AddComment appends a comment to an existing comment thread.
func (s *AnnotationStore) AddComment(annotationID, text string) (*domain.Comment, error) {
	if text == "" {
		return nil, fmt.Errorf("comment text required: %w", domain.ErrInvalidInput)
	}

	s.mu.Lock()
	a, ok := s.annotations[annotationID]
	if !ok || a.Kind != domain.KindComment {
		s.mu.Unlock()
		return nil, fmt.Errorf("comment annotation %s: %w", annotationID, domain.ErrNotFound)
	}
	now := s.now()
	c := domain.Comment{
		ID:           s.newID(),
		AnnotationID: annotationID,
		Text:         text,
		Timestamp:    now,
		UpdatedAt:    now,
	}
	s.threads[annotationID] = append(s.threads[annotationID], c)
	s.commentOf[c.ID] = annotationID
	s.mu.Unlock()

	s.changed()
	return &c, nil
}

// EditComment replaces the text of a comment.
func (s *AnnotationStore) EditComment(commentID, text string) (*domain.Comment, error) {
	if text == "" {
		return nil, fmt.Errorf("comment text required: %w", domain.ErrInvalidInput)
	}
	return s.updateComment(commentID, func(c *domain.Comment) {
		c.Text = text
	})
}

// SetCommentImportant flags or unflags a comment.
func (s *AnnotationStore) SetCommentImportant(commentID string, important bool) (*domain.Comment, error) {
	return s.updateComment(commentID, func(c *domain.Comment) {
		c.Important = important
	})
}

func (s *AnnotationStore) updateComment(commentID string, apply func(*domain.Comment)) (*domain.Comment, error) {
	s.mu.Lock()
	annotationID, ok := s.commentOf[commentID]
	if !ok {
		s.mu.Unlock()
		return nil, fmt.Errorf("comment %s: %w", commentID, domain.ErrNotFound)
	}
	thread := s.threads[annotationID]
	var updated domain.Comment
	for i := range thread {
		if thread[i].ID == commentID {
			apply(&thread[i])
			thread[i].UpdatedAt = s.now()
			updated = thread[i]
			break
		}
	}
	s.mu.Unlock()

	s.changed()
	return &updated, nil
}

// DeleteComment removes one comment. The annotation survives even when its
// thread becomes empty.
func (s *AnnotationStore) DeleteComment(commentID string) error {
	s.mu.Lock()
	annotationID, ok := s.commentOf[commentID]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("comment %s: %w", commentID, domain.ErrNotFound)
	}
	thread := s.threads[annotationID]
	for i := range thread {
		if thread[i].ID == commentID {
			s.threads[annotationID] = append(thread[:i:i], thread[i+1:]...)
			break
		}
	}
	delete(s.commentOf, commentID)
	s.mu.Unlock()

	s.changed()
	return nil
}

// DeleteAnnotation removes an annotation together with its comments or link.
func (s *AnnotationStore) DeleteAnnotation(annotationID string) error {
	s.mu.Lock()
	if _, ok := s.annotations[annotationID]; !ok {
		s.mu.Unlock()
		return fmt.Errorf("annotation %s: %w", annotationID, domain.ErrNotFound)
	}
	s.removeLocked(annotationID)
	s.mu.Unlock()

	s.changed()
	return nil
}

func (s *AnnotationStore) removeLocked(annotationID string) {
	for _, c := range s.threads[annotationID] {
		delete(s.commentOf, c.ID)
	}
	delete(s.threads, annotationID)
	delete(s.links, annotationID)
	delete(s.annotations, annotationID)
}

// ListCommentsFor returns a thread ordered by timestamp ascending.
// Comments with equal timestamps keep insertion order.
func (s *AnnotationStore) ListCommentsFor(annotationID string) ([]domain.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.annotations[annotationID]; !ok {
		return nil, fmt.Errorf("annotation %s: %w", annotationID, domain.ErrNotFound)
	}
	out := append([]domain.Comment(nil), s.threads[annotationID]...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	return out, nil
}

// Get returns one annotation.
func (s *AnnotationStore) Get(annotationID string) (*domain.Annotation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.annotations[annotationID]
	if !ok {
		return nil, fmt.Errorf("annotation %s: %w", annotationID, domain.ErrNotFound)
	}
	return &a, nil
}

// List returns every annotation ordered by start offset.
func (s *AnnotationStore) List() []domain.Annotation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listLocked()
}

func (s *AnnotationStore) listLocked() []domain.Annotation {
	out := make([]domain.Annotation, 0, len(s.annotations))
	for _, a := range s.annotations {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Start != out[j].Start {
			return out[i].Start < out[j].Start
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// LinkFor returns the entity link of a link annotation.
func (s *AnnotationStore) LinkFor(annotationID string) (domain.EntityLink, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	link, ok := s.links[annotationID]
	return link, ok
}

// CommentCount returns the number of comments in a thread.
func (s *AnnotationStore) CommentCount(annotationID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.threads[annotationID])
}

// FindAt returns the annotation covering offset.
func (s *AnnotationStore) FindAt(offset int) (*domain.Annotation, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.annotations {
		if a.Range().Contains(offset) {
			return &a, true
		}
	}
	return nil, false
}

// Load replaces the store contents with a persisted snapshot.
// Comments and links whose annotation is missing are skipped.
func (s *AnnotationStore) Load(snap *domain.Snapshot) {
	s.mu.Lock()
	s.annotations = make(map[string]domain.Annotation)
	s.threads = make(map[string][]domain.Comment)
	s.commentOf = make(map[string]string)
	s.links = make(map[string]domain.EntityLink)

	if snap != nil {
		for _, a := range snap.Annotations {
			s.annotations[a.ID] = a
		}
		for _, c := range snap.Comments {
			if _, ok := s.annotations[c.AnnotationID]; !ok {
				continue
			}
			s.threads[c.AnnotationID] = append(s.threads[c.AnnotationID], c)
			s.commentOf[c.ID] = c.AnnotationID
		}
		for _, l := range snap.Links {
			if _, ok := s.annotations[l.AnnotationID]; !ok {
				continue
			}
			s.links[l.AnnotationID] = l
		}
	}
	s.mu.Unlock()
}

// Snapshot fills the annotation side of a snapshot.
// Comments are grouped by annotation in document order.
func (s *AnnotationStore) Snapshot() (annotations []domain.Annotation, comments []domain.Comment, links []domain.EntityLink) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	annotations = s.listLocked()
	for _, a := range annotations {
		comments = append(comments, s.threads[a.ID]...)
		if link, ok := s.links[a.ID]; ok {
			links = append(links, link)
		}
	}
	return annotations, comments, links
}

// reanchor maps every annotation through an edit.
// Annotations that collapse to zero length are removed with their comments
// or link; survivors get their quoted text refreshed from content.
func (s *AnnotationStore) reanchor(mapStart, mapEnd func(int) int, content []rune) domain.EditResult {
	var result domain.EditResult

	s.mu.Lock()
	for _, a := range s.listLocked() {
		start, end := mapStart(a.Start), mapEnd(a.End)
		if end > len(content) {
			end = len(content)
		}
		if start >= end {
			s.removeLocked(a.ID)
			result.Removed = append(result.Removed, a)
			continue
		}

		moved := a.Start != start || a.End != end
		a.Start, a.End = start, end
		a.Text = string(content[start:end])
		s.annotations[a.ID] = a
		if link, ok := s.links[a.ID]; ok {
			link.Text = a.Text
			s.links[a.ID] = link
		}
		if moved {
			result.Shifted = append(result.Shifted, a)
		}
	}
	s.mu.Unlock()

	if len(result.Shifted) > 0 || len(result.Removed) > 0 {
		s.changed()
	}
	return result
}

func (s *AnnotationStore) checkBounds(start, end int) error {
	if start < 0 || start >= end {
		return fmt.Errorf("range [%d, %d): %w", start, end, domain.ErrInvalidInput)
	}
	if s.contentLen != nil {
		if n := s.contentLen(); end > n {
			return fmt.Errorf("range [%d, %d) past length %d: %w", start, end, n, domain.ErrInvalidInput)
		}
	}
	return nil
}

func (s *AnnotationStore) checkOverlapLocked(start, end int) error {
	r := domain.Range{Start: start, End: end}
	for _, a := range s.annotations {
		if a.Range().Overlaps(r) {
			return fmt.Errorf("[%d, %d) intersects annotation %s: %w", start, end, a.ID, domain.ErrOverlapConflict)
		}
	}
	return nil
}

func (s *AnnotationStore) changed() {
	if s.onChange != nil {
		s.onChange()
	}
}
