package services

import "github.com/custodia-labs/grimorium/internal/core/domain"

// OnActivate returns the action for a click or keypress on a segment.
// Plain segments produce NoAction; badges route through ActivateNode.
func OnActivate(seg domain.Segment) domain.Action {
	switch seg.Kind {
	case domain.KindComment:
		return domain.OpenThread{AnnotationID: seg.AnnotationID}
	case domain.KindLink:
		if seg.EntityType == "" || seg.EntityID == "" {
			return domain.NoAction{}
		}
		return domain.NavigateToEntity{EntityType: seg.EntityType, EntityID: seg.EntityID}
	default:
		return domain.NoAction{}
	}
}

// ActivateNode dispatches an activation on any node of a view tree built
// from tree, including decoration-only badges. The owning segment is found
// by walking up from node.
func ActivateNode(tree domain.RenderTree, node *domain.ViewNode) domain.Action {
	for n := node; n != nil; n = n.Parent {
		if n.Segment >= 0 && n.Segment < len(tree) {
			return OnActivate(tree[n.Segment])
		}
	}
	return domain.NoAction{}
}

// ActivateAt dispatches an activation at a logical offset.
func ActivateAt(tree domain.RenderTree, offset int) domain.Action {
	idx := tree.SegmentAt(offset)
	if idx < 0 {
		return domain.NoAction{}
	}
	return OnActivate(tree[idx])
}
