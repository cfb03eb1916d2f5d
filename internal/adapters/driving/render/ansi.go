package render

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/custodia-labs/grimorium/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/grimorium/internal/core/domain"
)


// ColorEnabled decides whether to style output written to f.
func ColorEnabled(mode domain.ColorMode, f *os.File) bool {
	switch mode {
	case domain.ColorAlways:
		return true
	case domain.ColorNever:
		return false
	default:
		if f == nil {
			return false
		}
		return term.IsTerminal(int(f.Fd()))
	}
}

// ANSI renders tree with terminal styling. Comment segments are underlined
// in the comment colour with a badge, links in the link colour. With
// opts.Color false the output equals Plain.
func ANSI(tree domain.RenderTree, opts Options) string {
	if !opts.Color {
		return Plain(tree, opts)
	}

	theme := styles.DefaultTheme()
	r := lipgloss.NewRenderer(io.Discard)
	r.SetColorProfile(termenv.ANSI256)
	comment := r.NewStyle().Underline(true).Foreground(theme.Annotation)
	link := r.NewStyle().Underline(true).Foreground(theme.Secondary)
	badge := r.NewStyle().Bold(true).Foreground(theme.Primary)

	var b strings.Builder
	for _, seg := range tree {
		style := r.NewStyle()
		switch seg.Kind {
		case domain.KindComment:
			style = comment
		case domain.KindLink:
			style = link
		}
		if opts.Selected != "" && seg.AnnotationID == opts.Selected {
			style = style.Background(theme.Highlight).Bold(true)
		}
		b.WriteString(styleLines(style, seg.Text))
		if seg.Kind == domain.KindComment {
			if s := Badge(seg.CommentCount, opts.BadgeStyle); s != "" {
				b.WriteString(badge.Render(s))
			}
		}
	}
	return wrap(b.String(), opts.Width)
}

// styleLines styles each line separately so newlines survive rendering.
func styleLines(style lipgloss.Style, text string) string {
	if text == "" {
		return ""
	}
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = style.Render(line)
		}
	}
	return strings.Join(lines, "\n")
}
