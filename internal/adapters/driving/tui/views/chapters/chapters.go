// Package chapters provides the chapter list view for the TUI.
package chapters

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/grimorium/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/grimorium/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/grimorium/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/grimorium/internal/core/domain"
	"github.com/custodia-labs/grimorium/internal/core/ports/driving"
)

// View lists stored chapters and opens the selected one.
type View struct {
	styles   *styles.Styles
	keymap   *keymap.KeyMap
	service  driving.ChapterService
	chapters []domain.Chapter
	selected int
	err      error
	loading  bool
	width    int
	height   int
	ready    bool
}

// NewView creates a new chapter list view.
func NewView(s *styles.Styles, service driving.ChapterService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &View{
		styles:  s,
		keymap:  keymap.DefaultKeyMap(),
		service: service,
		width:   80,
		height:  24,
	}
}

// Init loads the chapter list.
func (v *View) Init() tea.Cmd {
	v.loading = true
	return v.load()
}

func (v *View) load() tea.Cmd {
	service := v.service
	return func() tea.Msg {
		if service == nil {
			return messages.ChaptersLoaded{Err: fmt.Errorf("chapter service not available")}
		}
		chapters, err := service.List(context.Background())
		return messages.ChaptersLoaded{Chapters: chapters, Err: err}
	}
}

// open returns a command that opens id and reports the loaded chapter.
func (v *View) open(id string) tea.Cmd {
	service := v.service
	return func() tea.Msg {
		ctx := context.Background()
		if err := service.Open(ctx, id); err != nil {
			return messages.ChapterOpened{Err: err}
		}
		chapter, err := service.Active()
		if err != nil {
			return messages.ChapterOpened{Err: err}
		}
		return messages.ChapterOpened{Chapter: *chapter}
	}
}

// Update handles messages for the chapter list.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case messages.ChaptersLoaded:
		v.loading = false
		v.err = msg.Err
		v.chapters = msg.Chapters
		if v.selected >= len(v.chapters) {
			v.selected = 0
		}
		return v, nil

	case messages.ChapterOpened:
		v.err = msg.Err
		return v, nil

	case tea.KeyMsg:
		return v.handleKey(msg)
	}

	return v, nil
}

func (v *View) handleKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	k := msg.String()
	switch {
	case keymap.Matches(k, v.keymap.Quit):
		return v, tea.Quit
	case keymap.Matches(k, v.keymap.Up):
		if v.selected > 0 {
			v.selected--
		}
	case keymap.Matches(k, v.keymap.Down):
		if v.selected < len(v.chapters)-1 {
			v.selected++
		}
	case keymap.Matches(k, v.keymap.Activate):
		if c := v.Selected(); c != nil {
			return v, v.open(c.ID)
		}
	case keymap.Matches(k, v.keymap.Settings):
		return v, func() tea.Msg { return messages.ViewChanged{View: messages.ViewSettings} }
	case keymap.Matches(k, v.keymap.Help):
		return v, func() tea.Msg { return messages.ViewChanged{View: messages.ViewHelp} }
	case k == "R":
		return v, v.Init()
	}
	return v, nil
}

// View renders the chapter list.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	var b strings.Builder
	b.WriteString(v.styles.Title.Render("Grimorium"))
	b.WriteString("\n\n")
	b.WriteString(v.styles.Muted.Render("Chapters"))
	b.WriteString("\n\n")

	switch {
	case v.err != nil:
		b.WriteString(v.styles.Error.Render("Error: " + v.err.Error()))
		b.WriteString("\n")
	case v.loading:
		b.WriteString(v.styles.Muted.Render("Loading..."))
		b.WriteString("\n")
	}

	if len(v.chapters) == 0 && !v.loading {
		b.WriteString(v.styles.Muted.Render("No chapters. Import one with: grimorium chapter import <file>"))
		b.WriteString("\n")
	}

	for i := range v.chapters {
		c := &v.chapters[i]
		title := c.Title
		if title == "" {
			title = "(Untitled)"
		}
		line := fmt.Sprintf("%-40s %s", title, v.styles.Muted.Render(c.ID))
		if i == v.selected {
			b.WriteString("> " + v.styles.Selected.Render(title) + " " + v.styles.Muted.Render(c.ID))
		} else {
			b.WriteString("  " + v.styles.Normal.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(v.styles.Help.Render("[j/k] Navigate  [Enter] Open  [s] Settings  [R] Reload  [?] Help  [q] Quit"))
	return b.String()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}

// Selected returns the highlighted chapter, or nil.
func (v *View) Selected() *domain.Chapter {
	if v.selected < 0 || v.selected >= len(v.chapters) {
		return nil
	}
	return &v.chapters[v.selected]
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
