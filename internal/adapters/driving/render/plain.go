package render

import (
	"strings"

	"github.com/muesli/reflow/wordwrap"

	"github.com/custodia-labs/grimorium/internal/core/domain"
)

// Plain renders tree as unstyled text with comment badges.
// Link segments are shown as their text.
func Plain(tree domain.RenderTree, opts Options) string {
	var b strings.Builder
	for _, seg := range tree {
		b.WriteString(seg.Text)
		if seg.Kind == domain.KindComment {
			b.WriteString(Badge(seg.CommentCount, opts.BadgeStyle))
		}
	}
	return wrap(b.String(), opts.Width)
}

func wrap(s string, width int) string {
	if width <= 0 {
		return s
	}
	return wordwrap.String(s, width)
}
