package domain

// Segment is a contiguous unit of a composed chapter.
// A segment with an empty Kind is plain prose; any other segment is
// decorated and wraps exactly content[Start:End).
type Segment struct {
	Text  string
	Start int
	End   int

	AnnotationID string
	Kind         AnnotationKind

	// CommentCount is the thread length of a comment segment.
	CommentCount int

	// EntityType and EntityID are set on link segments.
	EntityType string
	EntityID   string
}

// IsDecorated returns true if the segment belongs to an annotation.
func (s Segment) IsDecorated() bool {
	return s.Kind != ""
}

// RenderTree is the ordered sequence of segments covering a chapter.
type RenderTree []Segment

// Text concatenates the text of every segment.
func (t RenderTree) Text() string {
	n := 0
	for i := range t {
		n += len(t[i].Text)
	}
	buf := make([]byte, 0, n)
	for i := range t {
		buf = append(buf, t[i].Text...)
	}
	return string(buf)
}

// SegmentAt returns the index of the segment containing offset, or -1.
func (t RenderTree) SegmentAt(offset int) int {
	for i := range t {
		if offset >= t[i].Start && offset < t[i].End {
			return i
		}
	}
	return -1
}

// Decorated returns only the decorated segments, in document order.
func (t RenderTree) Decorated() []Segment {
	var out []Segment
	for i := range t {
		if t[i].IsDecorated() {
			out = append(out, t[i])
		}
	}
	return out
}

// Inconsistency records an annotation the compositor could not place.
type Inconsistency struct {
	AnnotationID string
	Start        int
	End          int
	Reason       string
}

// ViewNode is one node of the rendered chapter tree.
//
// The tree is the explicit mapping between what the user sees and the
// logical content. A node with children is an element; a node without
// children is a text node. DecorationOnly nodes (badges, zero-width markers)
// are visible but never count towards logical offsets.
type ViewNode struct {
	Text           string
	DecorationOnly bool
	Children       []*ViewNode

	// Segment is the index into the RenderTree this node was built from,
	// or -1 for the root.
	Segment int

	// Parent is nil for the root.
	Parent *ViewNode
}

// IsText returns true if the node is a leaf carrying text.
func (n *ViewNode) IsText() bool {
	return len(n.Children) == 0
}

// Append adds child to n and returns child.
func (n *ViewNode) Append(child *ViewNode) *ViewNode {
	child.Parent = n
	n.Children = append(n.Children, child)
	return child
}

// SelectionPoint is one boundary of a native selection.
// In a text node Offset counts runes; in an element node it is a child index.
type SelectionPoint struct {
	Node   *ViewNode
	Offset int
}

// Selection is a user-made selection, possibly dragged backwards.
type Selection struct {
	Anchor SelectionPoint
	Focus  SelectionPoint
}

// IsCollapsed returns true if anchor and focus are the same point.
func (s Selection) IsCollapsed() bool {
	return s.Anchor.Node == s.Focus.Node && s.Anchor.Offset == s.Focus.Offset
}
