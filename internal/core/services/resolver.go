package services

import (
	"fmt"
	"strconv"
	"unicode/utf8"

	"github.com/custodia-labs/grimorium/internal/core/domain"
)

// ZeroWidthMarker is the decoration text placed after link segments.
const ZeroWidthMarker = "\u200b"

// BuildView maps a render tree to a view tree.
//
// Plain segments become text nodes. Comment segments become an element
// holding the highlighted text and a decoration-only badge with the thread
// length. Link segments become an element holding the text and a
// decoration-only zero-width marker.
func BuildView(tree domain.RenderTree) *domain.ViewNode {
	root := &domain.ViewNode{Segment: -1}
	for i := range tree {
		seg := tree[i]
		switch seg.Kind {
		case domain.KindComment:
			el := root.Append(&domain.ViewNode{Segment: i})
			el.Append(&domain.ViewNode{Text: seg.Text, Segment: i})
			el.Append(&domain.ViewNode{
				Text:           strconv.Itoa(seg.CommentCount),
				DecorationOnly: true,
				Segment:        i,
			})
		case domain.KindLink:
			el := root.Append(&domain.ViewNode{Segment: i})
			el.Append(&domain.ViewNode{Text: seg.Text, Segment: i})
			el.Append(&domain.ViewNode{
				Text:           ZeroWidthMarker,
				DecorationOnly: true,
				Segment:        i,
			})
		default:
			root.Append(&domain.ViewNode{Text: seg.Text, Segment: i})
		}
	}
	return root
}

// ResolveSelection maps a selection in a view tree to logical offsets.
//
// The tree is walked depth first and only non-decoration text counts
// towards the offset. The result is ordered, so backward drags resolve the
// same as forward ones.
func ResolveSelection(root *domain.ViewNode, sel domain.Selection) (domain.Range, error) {
	if root == nil || sel.Anchor.Node == nil || sel.Focus.Node == nil {
		return domain.Range{}, fmt.Errorf("resolve selection: %w", domain.ErrInvalidInput)
	}

	a, err := pointOffset(root, sel.Anchor)
	if err != nil {
		return domain.Range{}, fmt.Errorf("resolve anchor: %w", err)
	}
	f, err := pointOffset(root, sel.Focus)
	if err != nil {
		return domain.Range{}, fmt.Errorf("resolve focus: %w", err)
	}

	if a > f {
		a, f = f, a
	}
	if a == f {
		return domain.Range{}, domain.ErrEmptySelection
	}
	return domain.Range{Start: a, End: f}, nil
}

// SelectOffsets builds the selection a user would make by dragging from
// logical offset start to end in root, and resolves it.
func SelectOffsets(root *domain.ViewNode, start, end int) (domain.Range, error) {
	anchor, err := LocateOffset(root, start)
	if err != nil {
		return domain.Range{}, err
	}
	focus, err := LocateOffset(root, end)
	if err != nil {
		return domain.Range{}, err
	}
	return ResolveSelection(root, domain.Selection{Anchor: anchor, Focus: focus})
}

// pointOffset returns the logical offset of p within root.
func pointOffset(root *domain.ViewNode, p domain.SelectionPoint) (int, error) {
	w := &offsetWalker{target: p}
	w.walk(root)
	if w.err != nil {
		return 0, w.err
	}
	if !w.found {
		return 0, fmt.Errorf("node not in tree: %w", domain.ErrInvalidInput)
	}
	return w.offset, nil
}

type offsetWalker struct {
	target domain.SelectionPoint
	cum    int

	found  bool
	offset int
	err    error
}

// walk returns true once the target has been resolved.
func (w *offsetWalker) walk(n *domain.ViewNode) bool {
	if n.DecorationOnly {
		if contains(n, w.target.Node) {
			w.resolve(w.cum)
			return true
		}
		return false
	}

	if n.IsText() {
		length := utf8.RuneCountInString(n.Text)
		if n == w.target.Node {
			if w.target.Offset < 0 || w.target.Offset > length {
				w.fail(fmt.Errorf("text offset %d outside [0, %d]: %w", w.target.Offset, length, domain.ErrInvalidInput))
				return true
			}
			w.resolve(w.cum + w.target.Offset)
			return true
		}
		w.cum += length
		return false
	}

	isTarget := n == w.target.Node
	if isTarget && (w.target.Offset < 0 || w.target.Offset > len(n.Children)) {
		w.fail(fmt.Errorf("child index %d outside [0, %d]: %w", w.target.Offset, len(n.Children), domain.ErrInvalidInput))
		return true
	}
	for i, child := range n.Children {
		if isTarget && i == w.target.Offset {
			w.resolve(w.cum)
			return true
		}
		if w.walk(child) {
			return true
		}
	}
	if isTarget {
		w.resolve(w.cum)
		return true
	}
	return false
}

func (w *offsetWalker) resolve(offset int) {
	w.found = true
	w.offset = offset
}

func (w *offsetWalker) fail(err error) {
	w.found = true
	w.err = err
}

func contains(n, target *domain.ViewNode) bool {
	if n == target {
		return true
	}
	for _, child := range n.Children {
		if contains(child, target) {
			return true
		}
	}
	return false
}

// LocateOffset maps a logical offset to a point in a non-decoration text
// node. An offset equal to the content length lands at the end of the last
// text node.
func LocateOffset(root *domain.ViewNode, offset int) (domain.SelectionPoint, error) {
	if root == nil || offset < 0 {
		return domain.SelectionPoint{}, fmt.Errorf("locate offset %d: %w", offset, domain.ErrInvalidInput)
	}

	var (
		cum  int
		last *domain.ViewNode
		hit  domain.SelectionPoint
		ok   bool
	)
	var visit func(n *domain.ViewNode) bool
	visit = func(n *domain.ViewNode) bool {
		if n.DecorationOnly {
			return false
		}
		if n.IsText() {
			if n == root {
				// A childless root is an empty document.
				return false
			}
			length := utf8.RuneCountInString(n.Text)
			if offset < cum+length {
				hit = domain.SelectionPoint{Node: n, Offset: offset - cum}
				ok = true
				return true
			}
			cum += length
			last = n
			return false
		}
		for _, child := range n.Children {
			if visit(child) {
				return true
			}
		}
		return false
	}
	visit(root)

	if ok {
		return hit, nil
	}
	if offset == cum {
		if last == nil {
			return domain.SelectionPoint{Node: root, Offset: 0}, nil
		}
		return domain.SelectionPoint{Node: last, Offset: utf8.RuneCountInString(last.Text)}, nil
	}
	return domain.SelectionPoint{}, fmt.Errorf("locate offset %d past length %d: %w", offset, cum, domain.ErrInvalidInput)
}
