// Package thread provides the comment thread view for one annotation.
package thread

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/grimorium/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/grimorium/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/grimorium/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/grimorium/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/grimorium/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/grimorium/internal/core/domain"
	"github.com/custodia-labs/grimorium/internal/core/ports/driving"
)

type mode int

const (
	modeBrowse mode = iota
	modeReply
	modeEdit
)

// View shows and edits the thread of a comment annotation.
type View struct {
	styles   *styles.Styles
	keymap   *keymap.KeyMap
	chapters driving.ChapterService

	annotation *domain.Annotation
	comments   *list.CommentList
	prompt     *input.Prompt
	mode       mode
	err        error

	width  int
	height int
	ready  bool
}

// NewView creates a new thread view.
func NewView(s *styles.Styles, chapters driving.ChapterService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{
		styles:   s,
		keymap:   keymap.DefaultKeyMap(),
		chapters: chapters,
		comments: list.NewCommentList(s),
		prompt:   input.NewPrompt(s),
		width:    80,
		height:   24,
	}
}

// Init initialises the thread view.
func (v *View) Init() tea.Cmd {
	return nil
}

// SetAnnotation loads the thread of annotationID.
func (v *View) SetAnnotation(annotationID string) error {
	v.mode = modeBrowse
	v.prompt.Blur()
	v.err = nil

	a, err := v.chapters.Annotations().Get(annotationID)
	if err != nil {
		v.annotation = nil
		v.comments.SetComments(nil)
		return err
	}
	v.annotation = a
	v.comments.SetSelected(0)
	return v.reload()
}

func (v *View) reload() error {
	comments, err := v.chapters.Annotations().ListCommentsFor(v.annotation.ID)
	if err != nil {
		return err
	}
	v.comments.SetComments(comments)
	return nil
}

// Update handles messages for the thread view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		if v.mode != modeBrowse {
			return v.handlePromptKey(msg)
		}
		return v.handleKey(msg)
	}

	if v.mode != modeBrowse {
		var cmd tea.Cmd
		v.prompt, cmd = v.prompt.Update(msg)
		return v, cmd
	}
	return v, nil
}

func (v *View) handleKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	k := msg.String()
	if v.annotation == nil {
		if keymap.Matches(k, v.keymap.Back) {
			return v, back()
		}
		return v, nil
	}
	v.err = nil

	switch {
	case keymap.Matches(k, v.keymap.Back):
		return v, back()
	case keymap.Matches(k, v.keymap.Up), keymap.Matches(k, v.keymap.Down):
		v.comments, _ = v.comments.Update(msg)
	case keymap.Matches(k, v.keymap.Reply):
		v.mode = modeReply
		return v, v.prompt.Ask("Reply", "Write a reply...", "")
	case keymap.Matches(k, v.keymap.Edit):
		c := v.comments.SelectedComment()
		if c == nil {
			return v, nil
		}
		v.mode = modeEdit
		return v, v.prompt.Ask("Edit", "", c.Text)
	case keymap.Matches(k, v.keymap.Pin):
		return v, v.togglePin()
	case keymap.Matches(k, v.keymap.Delete):
		return v, v.deleteComment()
	case keymap.Matches(k, v.keymap.DeleteThread):
		if err := v.chapters.Annotations().DeleteAnnotation(v.annotation.ID); err != nil {
			v.err = err
			return v, nil
		}
		v.annotation = nil
		v.comments.SetComments(nil)
		return v, tea.Batch(changed(), back())
	}
	return v, nil
}

func (v *View) handlePromptKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	//nolint:exhaustive // only submit and cancel are intercepted
	switch msg.Type {
	case tea.KeyEsc:
		v.mode = modeBrowse
		v.prompt.Blur()
		return v, nil
	case tea.KeyEnter:
		text := strings.TrimSpace(v.prompt.Value())
		m := v.mode
		v.mode = modeBrowse
		v.prompt.Blur()
		if text == "" {
			return v, nil
		}
		return v, v.submit(m, text)
	}

	var cmd tea.Cmd
	v.prompt, cmd = v.prompt.Update(msg)
	return v, cmd
}

func (v *View) submit(m mode, text string) tea.Cmd {
	annotations := v.chapters.Annotations()
	var err error
	switch m {
	case modeReply:
		if _, err = annotations.AddComment(v.annotation.ID, text); err != nil {
			break
		}
		cmd := v.after(nil)
		v.comments.SetSelected(v.comments.Count() - 1)
		return cmd
	case modeEdit:
		c := v.comments.SelectedComment()
		if c == nil {
			return nil
		}
		_, err = annotations.EditComment(c.ID, text)
	case modeBrowse:
		return nil
	}
	return v.after(err)
}

func (v *View) togglePin() tea.Cmd {
	c := v.comments.SelectedComment()
	if c == nil {
		return nil
	}
	_, err := v.chapters.Annotations().SetCommentImportant(c.ID, !c.Important)
	return v.after(err)
}

func (v *View) deleteComment() tea.Cmd {
	c := v.comments.SelectedComment()
	if c == nil {
		return nil
	}
	return v.after(v.chapters.Annotations().DeleteComment(c.ID))
}

// after reloads the thread and tells the editor its badges changed.
func (v *View) after(err error) tea.Cmd {
	if err != nil {
		v.err = err
		return nil
	}
	if err := v.reload(); err != nil {
		v.err = err
	}
	return changed()
}

func changed() tea.Cmd {
	return func() tea.Msg { return messages.AnnotationsChanged{} }
}

func back() tea.Cmd {
	return func() tea.Msg { return messages.ViewChanged{View: messages.ViewEditor} }
}

// View renders the thread.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}
	if v.annotation == nil {
		return v.styles.Muted.Render("No thread selected") + "\n\n" +
			v.styles.Help.Render("[esc] back")
	}

	var b strings.Builder
	b.WriteString(v.styles.Title.Render(fmt.Sprintf("“%s”", v.annotation.Text)))
	b.WriteString("  ")
	b.WriteString(v.styles.Muted.Render(fmt.Sprintf("[%d, %d)", v.annotation.Start, v.annotation.End)))
	b.WriteString("\n\n")
	b.WriteString(v.comments.View())
	b.WriteString("\n\n")

	if v.mode != modeBrowse {
		b.WriteString(v.prompt.View())
		b.WriteString("\n")
	}
	if v.err != nil {
		b.WriteString(v.styles.Error.Render("Error: " + v.err.Error()))
		b.WriteString("\n")
	}

	hints := make([]string, 0, 6)
	for _, binding := range v.keymap.ThreadHelp() {
		h := binding.Help()
		hints = append(hints, fmt.Sprintf("[%s] %s", h.Key, h.Desc))
	}
	b.WriteString(v.styles.Help.Render(strings.Join(hints, "  ")))
	return b.String()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
	v.comments.SetDimensions(width, height-8)
	v.prompt.SetWidth(width)
}

// Annotation returns the annotation being shown, or nil.
func (v *View) Annotation() *domain.Annotation {
	return v.annotation
}

// Comments returns the displayed thread.
func (v *View) Comments() []domain.Comment {
	return v.comments.Comments()
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}

// Prompting returns whether the prompt is collecting input.
func (v *View) Prompting() bool {
	return v.mode != modeBrowse
}
