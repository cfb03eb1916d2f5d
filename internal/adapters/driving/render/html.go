package render

import (
	"fmt"
	"html"
	"strings"

	"github.com/custodia-labs/grimorium/internal/core/domain"
)

// HTML renders tree as an HTML fragment.
//
// Comment segments become span.comment with a sup.comment-badge, link
// segments become span.link-annotation carrying the entity reference.
// Annotation IDs are exposed as data-annotation-id for click delegation.
func HTML(tree domain.RenderTree, opts Options) string {
	var b strings.Builder
	b.WriteString(`<div class="chapter">`)
	for _, seg := range tree {
		text := escapeText(seg.Text)
		class := ""
		if opts.Selected != "" && seg.AnnotationID == opts.Selected {
			class = " selected"
		}
		switch seg.Kind {
		case domain.KindComment:
			badge := ""
			if s := Badge(seg.CommentCount, opts.BadgeStyle); s != "" {
				badge = fmt.Sprintf(`<sup class="comment-badge">%s</sup>`, html.EscapeString(s))
			}
			fmt.Fprintf(&b, `<span class="comment%s" data-annotation-id="%s">%s%s</span>`,
				class, html.EscapeString(seg.AnnotationID), text, badge)
		case domain.KindLink:
			fmt.Fprintf(&b, `<span class="link-annotation%s" data-annotation-id="%s" data-entity-type="%s" data-entity-id="%s">%s</span>`,
				class, html.EscapeString(seg.AnnotationID), html.EscapeString(seg.EntityType),
				html.EscapeString(seg.EntityID), text)
		default:
			b.WriteString(text)
		}
	}
	b.WriteString("</div>")
	return b.String()
}

func escapeText(s string) string {
	return strings.ReplaceAll(html.EscapeString(s), "\n", "<br>")
}
