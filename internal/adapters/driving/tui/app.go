package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/grimorium/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/grimorium/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/grimorium/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/grimorium/internal/adapters/driving/tui/views/chapters"
	"github.com/custodia-labs/grimorium/internal/adapters/driving/tui/views/editor"
	"github.com/custodia-labs/grimorium/internal/adapters/driving/tui/views/settings"
	"github.com/custodia-labs/grimorium/internal/adapters/driving/tui/views/thread"
	"github.com/custodia-labs/grimorium/internal/core/domain"
	"github.com/custodia-labs/grimorium/internal/logger"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the context for cancellation.
	ctx context.Context

	styles *styles.Styles
	keymap *keymap.KeyMap

	chaptersView *chapters.View
	editorView   *editor.View
	threadView   *thread.View
	settingsView *settings.View

	// currentView tracks which view is active.
	currentView messages.ViewType

	// previousView is restored when the help view is closed.
	previousView messages.ViewType

	// err holds the last error that occurred.
	err error

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates if the app has initialised.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	return &App{
		ports:        ports,
		ctx:          context.Background(),
		styles:       s,
		keymap:       keymap.DefaultKeyMap(),
		chaptersView: chapters.NewView(s, ports.Chapters),
		editorView:   editor.NewView(s, ports.Chapters, ports.Entities),
		threadView:   thread.NewView(s, ports.Chapters),
		settingsView: settings.NewView(s, ports.Settings),
		currentView:  messages.ViewChapters,
	}, nil
}

// WithContext sets the context for the app.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// Init implements tea.Model.
// It runs initial commands when the program starts.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		tea.SetWindowTitle("grimorium"),
		a.chaptersView.Init(),
	)
}

// Update implements tea.Model.
// It handles messages and updates the model state.
//
//nolint:gocyclo // central message handler requires complexity
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		// Global quit with ctrl+c
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		return a, a.updateCurrent(msg)

	case messages.ViewChanged:
		return a, a.switchTo(msg.View)

	case messages.ChaptersLoaded:
		a.chaptersView, cmd = a.chaptersView.Update(msg)
		return a, cmd

	case messages.ChapterOpened:
		a.chaptersView, cmd = a.chaptersView.Update(msg)
		if msg.Err != nil {
			a.err = msg.Err
			return a, cmd
		}
		a.editorView.SetBadgeStyle(a.badgeStyle())
		a.editorView.Load(msg.Chapter)
		a.currentView = messages.ViewEditor
		logger.Debug("opened chapter %s", msg.Chapter.ID)
		return a, cmd

	case messages.ChapterClosed:
		if msg.Err != nil {
			a.err = msg.Err
		}
		a.currentView = messages.ViewChapters
		return a, a.chaptersView.Init()

	case messages.ThreadOpened:
		if err := a.threadView.SetAnnotation(msg.AnnotationID); err != nil {
			a.err = err
			a.editorView.Status().Error(err)
			return a, nil
		}
		a.currentView = messages.ViewThread
		return a, nil

	case messages.AnnotationsChanged:
		a.editorView.Refresh()
		return a, nil

	case messages.ChapterSaved, messages.EntityResolved:
		a.editorView, cmd = a.editorView.Update(msg)
		return a, cmd

	case messages.SettingsLoaded, messages.SettingsSaved:
		a.settingsView, cmd = a.settingsView.Update(msg)
		return a, cmd

	case messages.ErrorOccurred:
		a.err = msg.Err
		return a, nil

	case messages.Quit:
		return a, tea.Quit
	}

	// Forward other messages to active view
	return a, a.updateCurrent(msg)
}

func (a *App) updateCurrent(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch a.currentView {
	case messages.ViewChapters:
		a.chaptersView, cmd = a.chaptersView.Update(msg)
	case messages.ViewEditor:
		a.editorView, cmd = a.editorView.Update(msg)
	case messages.ViewThread:
		a.threadView, cmd = a.threadView.Update(msg)
	case messages.ViewSettings:
		a.settingsView, cmd = a.settingsView.Update(msg)
	case messages.ViewHelp:
		if k, ok := msg.(tea.KeyMsg); ok {
			switch {
			case keymap.Matches(k.String(), a.keymap.Back), keymap.Matches(k.String(), a.keymap.Help):
				a.currentView = a.previousView
			case keymap.Matches(k.String(), a.keymap.Quit):
				return tea.Quit
			}
		}
	}
	return cmd
}

func (a *App) switchTo(view messages.ViewType) tea.Cmd {
	if view == messages.ViewHelp && a.currentView != messages.ViewHelp {
		a.previousView = a.currentView
	}
	a.currentView = view

	switch view {
	case messages.ViewChapters:
		return a.chaptersView.Init()
	case messages.ViewEditor:
		a.editorView.Refresh()
	case messages.ViewSettings:
		a.settingsView.Reset()
		return a.settingsView.Init()
	case messages.ViewThread, messages.ViewHelp:
		// Thread is entered through ThreadOpened; help needs no initialisation
	}
	return nil
}

// badgeStyle reads the configured badge style, falling back to the default.
func (a *App) badgeStyle() domain.BadgeStyle {
	if a.ports.Settings == nil {
		return domain.BadgeStyleSuperscript
	}
	s, err := a.ports.Settings.Get()
	if err != nil {
		logger.Debug("loading settings: %v", err)
		return domain.BadgeStyleSuperscript
	}
	return s.Render.BadgeStyle
}

// View implements tea.Model.
// It renders the current view as a string.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	switch a.currentView {
	case messages.ViewEditor:
		return a.editorView.View()
	case messages.ViewThread:
		return a.threadView.View()
	case messages.ViewSettings:
		return a.settingsView.View()
	case messages.ViewHelp:
		return a.viewHelp()
	default:
		return a.chaptersView.View()
	}
}

// viewHelp renders the help view from the keymap.
func (a *App) viewHelp() string {
	var b strings.Builder
	b.WriteString(a.styles.Title.Render("Help"))
	b.WriteString("\n")

	headings := []string{"Movement", "Editor", "Thread", "General"}
	for i, group := range a.keymap.FullHelp() {
		b.WriteString("\n")
		b.WriteString(a.styles.Subtitle.Render(headings[i]))
		b.WriteString("\n")
		for _, binding := range group {
			h := binding.Help()
			b.WriteString(fmt.Sprintf("  %-12s %s\n", h.Key, h.Desc))
		}
	}

	b.WriteString("\n")
	b.WriteString(a.styles.Help.Render("[esc] back"))
	return b.String()
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	return err
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.chaptersView.SetDimensions(width, height)
	a.editorView.SetDimensions(width, height)
	a.threadView.SetDimensions(width, height)
	a.settingsView.SetDimensions(width, height)
}
