// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/reflow/wordwrap"

	"github.com/custodia-labs/grimorium/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/grimorium/internal/core/domain"
)

const timeLayout = "2006-01-02 15:04"

// CommentList displays a comment thread in a navigable list.
type CommentList struct {
	comments []domain.Comment
	selected int
	styles   *styles.Styles
	width    int
	height   int
}

// NewCommentList creates a new comment list component.
func NewCommentList(s *styles.Styles) *CommentList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &CommentList{
		styles: s,
		width:  80,
		height: 10,
	}
}

// Init initialises the comment list.
func (c *CommentList) Init() tea.Cmd {
	return nil
}

// Update handles list navigation messages.
func (c *CommentList) Update(msg tea.Msg) (*CommentList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			c.MoveUp()
		case "down", "j":
			c.MoveDown()
		}
	}
	return c, nil
}

// View renders the thread.
func (c *CommentList) View() string {
	if len(c.comments) == 0 {
		return c.styles.Muted.Render("No comments")
	}

	// Each comment takes a header line plus at least one body line
	visibleCount := c.height / 3
	if visibleCount < 1 {
		visibleCount = 1
	}

	start := 0
	if c.selected >= visibleCount {
		start = c.selected - visibleCount + 1
	}
	end := start + visibleCount
	if end > len(c.comments) {
		end = len(c.comments)
	}

	blocks := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		blocks = append(blocks, c.renderComment(i, &c.comments[i]))
	}
	return strings.Join(blocks, "\n\n")
}

func (c *CommentList) renderComment(index int, comment *domain.Comment) string {
	indicator := "  "
	if index == c.selected {
		indicator = "> "
	}

	header := fmt.Sprintf("%s#%d  %s", indicator, index+1, comment.Timestamp.Format(timeLayout))
	if comment.UpdatedAt.After(comment.Timestamp) {
		header += " (edited)"
	}
	if index == c.selected {
		header = c.styles.Selected.Render(header)
	} else {
		header = c.styles.Muted.Render(header)
	}
	if comment.Important {
		header += " " + c.styles.Important.Render("!")
	}

	bodyWidth := c.width - 4
	if bodyWidth < 20 {
		bodyWidth = 20
	}
	lines := strings.Split(wordwrap.String(comment.Text, bodyWidth), "\n")
	for i := range lines {
		lines[i] = "    " + lines[i]
	}

	return header + "\n" + c.styles.Normal.Render(strings.Join(lines, "\n"))
}

// SetComments updates the thread and keeps the selection in range.
func (c *CommentList) SetComments(comments []domain.Comment) {
	c.comments = comments
	if c.selected >= len(comments) {
		c.selected = len(comments) - 1
	}
	if c.selected < 0 {
		c.selected = 0
	}
}

// Comments returns the current thread.
func (c *CommentList) Comments() []domain.Comment {
	return c.comments
}

// Selected returns the index of the selected comment.
func (c *CommentList) Selected() int {
	return c.selected
}

// SetSelected sets the selected index.
func (c *CommentList) SetSelected(index int) {
	if index >= 0 && index < len(c.comments) {
		c.selected = index
	}
}

// SelectedComment returns the currently selected comment, or nil if none.
func (c *CommentList) SelectedComment() *domain.Comment {
	if len(c.comments) == 0 || c.selected < 0 || c.selected >= len(c.comments) {
		return nil
	}
	return &c.comments[c.selected]
}

// MoveUp moves selection up.
func (c *CommentList) MoveUp() {
	if c.selected > 0 {
		c.selected--
	}
}

// MoveDown moves selection down.
func (c *CommentList) MoveDown() {
	if c.selected < len(c.comments)-1 {
		c.selected++
	}
}

// SetDimensions sets the component dimensions.
func (c *CommentList) SetDimensions(width, height int) {
	c.width = width
	c.height = height
}

// Count returns the number of comments.
func (c *CommentList) Count() int {
	return len(c.comments)
}
