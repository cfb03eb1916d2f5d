package domain

import "time"

// AnnotationKind identifies what an annotation carries.
type AnnotationKind string

// Available annotation kinds.
const (
	// KindComment annotations own a thread of comments.
	KindComment AnnotationKind = "comment"

	// KindLink annotations own exactly one EntityLink.
	KindLink AnnotationKind = "link"
)

// IsValid returns true if the kind is recognised.
func (k AnnotationKind) IsValid() bool {
	return k == KindComment || k == KindLink
}

// String returns the string representation.
func (k AnnotationKind) String() string {
	return string(k)
}

// Range is a half-open [Start, End) interval of rune offsets.
type Range struct {
	Start int
	End   int
}

// Len returns the number of runes covered by the range.
func (r Range) Len() int {
	return r.End - r.Start
}

// IsEmpty returns true if the range covers no runes.
func (r Range) IsEmpty() bool {
	return r.End <= r.Start
}

// Overlaps returns true if the two ranges share at least one offset.
// Ranges that only touch at a boundary do not overlap.
func (r Range) Overlaps(other Range) bool {
	return r.Start < other.End && other.Start < r.End
}

// Contains returns true if offset lies inside the range.
func (r Range) Contains(offset int) bool {
	return offset >= r.Start && offset < r.End
}

// Annotation anchors a comment thread or an entity link to a run of text.
type Annotation struct {
	// ID is stable across re-renders.
	ID string

	// Kind selects between a comment thread and an entity link.
	Kind AnnotationKind

	// Start is the first annotated rune offset.
	Start int

	// End is one past the last annotated rune offset.
	End int

	// Text is the quoted run at the time of the last anchoring.
	Text string

	// CreatedAt is when the annotation was created.
	CreatedAt time.Time
}

// Range returns the annotation's offsets as a Range.
func (a Annotation) Range() Range {
	return Range{Start: a.Start, End: a.End}
}

// Comment is one entry in an annotation's thread.
type Comment struct {
	ID           string
	AnnotationID string
	Text         string

	// Important flags comments the author pinned for attention.
	Important bool

	// Timestamp orders the thread.
	Timestamp time.Time

	// UpdatedAt is when the text was last edited.
	UpdatedAt time.Time
}

// EntityLink connects a link annotation to a world-building entity.
type EntityLink struct {
	AnnotationID string
	EntityType   string
	EntityID     string

	// Text caches the originally selected run for display.
	Text string
}

// Entity is a cross-referenceable item resolved by the entity directory.
type Entity struct {
	Type string
	ID   string
	Name string
}
