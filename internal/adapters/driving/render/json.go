package render

import (
	"encoding/json"

	"github.com/custodia-labs/grimorium/internal/core/domain"
)

// Segment is the JSON shape of one rendered segment.
type Segment struct {
	Text         string `json:"text"`
	Start        int    `json:"start"`
	End          int    `json:"end"`
	Kind         string `json:"kind,omitempty"`
	AnnotationID string `json:"annotation_id,omitempty"`
	CommentCount int    `json:"comment_count,omitempty"`
	EntityType   string `json:"entity_type,omitempty"`
	EntityID     string `json:"entity_id,omitempty"`
}

// Segments converts tree to its JSON shape.
func Segments(tree domain.RenderTree) []Segment {
	out := make([]Segment, 0, len(tree))
	for _, seg := range tree {
		out = append(out, Segment{
			Text:         seg.Text,
			Start:        seg.Start,
			End:          seg.End,
			Kind:         seg.Kind.String(),
			AnnotationID: seg.AnnotationID,
			CommentCount: seg.CommentCount,
			EntityType:   seg.EntityType,
			EntityID:     seg.EntityID,
		})
	}
	return out
}

// JSON renders tree as an indented JSON array of segments.
func JSON(tree domain.RenderTree) ([]byte, error) {
	return json.MarshalIndent(Segments(tree), "", "  ")
}
