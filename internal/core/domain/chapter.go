package domain

import "time"

// Chapter is the canonical plain-text content of one chapter.
type Chapter struct {
	ID      string
	Title   string
	Content string

	// SourcePath is the optional text file the content was imported from.
	SourcePath string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Snapshot is the full state handed to and from the persistence collaborator.
type Snapshot struct {
	Chapter     Chapter
	Annotations []Annotation
	Comments    []Comment
	Links       []EntityLink
}

// Clone returns a deep copy that shares no slices with s.
func (s *Snapshot) Clone() *Snapshot {
	if s == nil {
		return nil
	}
	out := &Snapshot{Chapter: s.Chapter}
	out.Annotations = append([]Annotation(nil), s.Annotations...)
	out.Comments = append([]Comment(nil), s.Comments...)
	out.Links = append([]EntityLink(nil), s.Links...)
	return out
}

// EditResult reports how an edit affected existing annotations.
type EditResult struct {
	// Shifted lists annotations whose offsets changed.
	Shifted []Annotation

	// Removed lists annotations whose text was deleted entirely.
	Removed []Annotation
}
