package editor

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/grimorium/internal/adapters/driving/render"
	"github.com/custodia-labs/grimorium/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/grimorium/internal/core/domain"
)

// cell is one visible rune. Badge runes have offset -1 and never take the cursor.
type cell struct {
	r      rune
	offset int
	kind   domain.AnnotationKind
	badge  bool
}

// buildCells flattens a render tree into cells, appending badges after
// comment segments.
func buildCells(tree domain.RenderTree, badgeStyle domain.BadgeStyle) []cell {
	var cells []cell
	for i := range tree {
		seg := &tree[i]
		offset := seg.Start
		for _, r := range seg.Text {
			cells = append(cells, cell{r: r, offset: offset, kind: seg.Kind})
			offset++
		}
		if seg.Kind != domain.KindComment {
			continue
		}
		for _, r := range render.Badge(seg.CommentCount, badgeStyle) {
			cells = append(cells, cell{r: r, offset: -1, kind: seg.Kind, badge: true})
		}
	}
	return cells
}

// wrapCells breaks cells into lines no wider than width, preferring to
// break after spaces. Newline cells end a line and stay on it.
func wrapCells(cells []cell, width int) [][]cell {
	var lines [][]cell
	var line []cell
	lastSpace := -1

	for _, c := range cells {
		line = append(line, c)
		if c.r == '\n' {
			lines = append(lines, line)
			line = nil
			lastSpace = -1
			continue
		}
		if c.r == ' ' {
			lastSpace = len(line) - 1
		}
		if width <= 0 || len(line) <= width {
			continue
		}
		cut := len(line) - 1
		if lastSpace >= 0 {
			cut = lastSpace + 1
		}
		lines = append(lines, line[:cut])
		line = append([]cell(nil), line[cut:]...)
		lastSpace = -1
		for i := range line {
			if line[i].r == ' ' {
				lastSpace = i
			}
		}
	}
	return append(lines, line)
}

// locate returns the line and column of the cell at offset.
// An offset past the last cell maps to the end of the last line.
func locate(lines [][]cell, offset int) (int, int) {
	for li, line := range lines {
		for ci, c := range line {
			if c.offset == offset {
				return li, ci
			}
		}
	}
	last := len(lines) - 1
	return last, len(lines[last])
}

// offsetNear returns the logical offset of the cell in line closest to col,
// looking left first. ok is false when the line has no logical cells.
func offsetNear(line []cell, col int) (int, bool) {
	if col >= len(line) {
		col = len(line) - 1
	}
	for i := col; i >= 0; i-- {
		if line[i].offset >= 0 {
			return line[i].offset, true
		}
	}
	for i := col + 1; i < len(line); i++ {
		if line[i].offset >= 0 {
			return line[i].offset, true
		}
	}
	return 0, false
}

// paint renders one line. sel is the active selection, or an empty range.
func paint(s *styles.Styles, line []cell, cursor int, sel domain.Range, cursorAtEnd bool) string {
	var b strings.Builder
	for _, c := range line {
		text := string(c.r)
		if c.r == '\n' {
			if c.offset != cursor {
				continue
			}
			text = " "
		}
		b.WriteString(cellStyle(s, c, cursor, sel).Render(text))
	}
	if cursorAtEnd {
		b.WriteString(s.Cursor.Render(" "))
	}
	return b.String()
}

func cellStyle(s *styles.Styles, c cell, cursor int, sel domain.Range) lipgloss.Style {
	var style lipgloss.Style
	switch {
	case c.badge:
		style = s.Badge
	case c.kind == domain.KindComment:
		style = s.Comment
	case c.kind == domain.KindLink:
		style = s.Link
	default:
		style = s.Normal
	}
	if c.offset >= 0 && sel.Contains(c.offset) {
		style = style.Background(s.Theme().Highlight)
	}
	if c.offset >= 0 && c.offset == cursor {
		style = style.Reverse(true)
	}
	return style
}
