// Package settings provides the settings configuration view for the TUI.
package settings

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/grimorium/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/grimorium/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/grimorium/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/grimorium/internal/core/domain"
	"github.com/custodia-labs/grimorium/internal/core/ports/driving"
)

// Key constants for key handling.
const (
	keyUp    = "up"
	keyDown  = "down"
	keyEnter = "enter"
)

// View is the settings configuration view.
type View struct {
	styles          *styles.Styles
	settingsService driving.SettingsService

	settings *domain.AppSettings
	keys     []string
	err      error

	selected int
	prompt   *input.Prompt
	editing  bool

	width  int
	height int
	ready  bool
}

// NewView creates a new settings view.
func NewView(s *styles.Styles, settingsService driving.SettingsService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &View{
		styles:          s,
		settingsService: settingsService,
		prompt:          input.NewPrompt(s),
	}
}

// Init initialises the view and loads settings.
func (v *View) Init() tea.Cmd {
	return v.loadSettings()
}

// loadSettings returns a command that loads current settings.
func (v *View) loadSettings() tea.Cmd {
	return func() tea.Msg {
		if v.settingsService == nil {
			return messages.SettingsLoaded{Err: fmt.Errorf("settings service not available")}
		}
		settings, err := v.settingsService.Get()
		return messages.SettingsLoaded{Settings: settings, Err: err}
	}
}

// Update handles messages for the settings view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case messages.SettingsLoaded:
		if msg.Err != nil {
			v.err = msg.Err
		} else {
			v.settings = msg.Settings
			v.keys = v.settingsService.Keys()
			v.err = nil
		}
		return v, nil

	case messages.SettingsSaved:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.err = nil
		// Reload settings after save
		return v, v.loadSettings()

	case tea.KeyMsg:
		if v.editing {
			return v.handleEditKey(msg)
		}
		return v.handleKeyMsg(msg)
	}

	if v.editing {
		var cmd tea.Cmd
		v.prompt, cmd = v.prompt.Update(msg)
		return v, cmd
	}
	return v, nil
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewChapters}
		}
	case keyUp, "k":
		if v.selected > 0 {
			v.selected--
		}
	case keyDown, "j":
		if v.selected < len(v.keys)-1 {
			v.selected++
		}
	case keyEnter:
		key := v.SelectedKey()
		if key == "" {
			return v, nil
		}
		v.editing = true
		return v, v.prompt.Ask(key, "", valueOf(v.settings, key))
	case "r":
		key := v.SelectedKey()
		if key == "" {
			return v, nil
		}
		return v, v.save(func() error { return v.settingsService.Reset(key) })
	}
	return v, nil
}

func (v *View) handleEditKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	//nolint:exhaustive // only submit and cancel are intercepted
	switch msg.Type {
	case tea.KeyEsc:
		v.editing = false
		v.prompt.Blur()
		return v, nil
	case tea.KeyEnter:
		key, value := v.prompt.Label(), strings.TrimSpace(v.prompt.Value())
		v.editing = false
		v.prompt.Blur()
		return v, v.save(func() error { return v.settingsService.Set(key, value) })
	}

	var cmd tea.Cmd
	v.prompt, cmd = v.prompt.Update(msg)
	return v, cmd
}

func (v *View) save(fn func() error) tea.Cmd {
	return func() tea.Msg {
		return messages.SettingsSaved{Err: fn()}
	}
}

// valueOf formats the current value of a configuration key.
func valueOf(s *domain.AppSettings, key string) string {
	if s == nil {
		return ""
	}
	switch key {
	case "storage.data_dir":
		return s.Storage.DataDir
	case "autosave.enabled":
		return strconv.FormatBool(s.Autosave.Enabled)
	case "autosave.debounce_ms":
		return strconv.FormatInt(s.Autosave.Debounce.Milliseconds(), 10)
	case "render.badge_style":
		return s.Render.BadgeStyle.String()
	case "render.color":
		return string(s.Render.Color)
	case "render.width":
		return strconv.Itoa(s.Render.Width)
	default:
		return ""
	}
}

// View renders the settings view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	var b strings.Builder
	b.WriteString(v.styles.Title.Render("Settings"))
	b.WriteString("\n\n")

	if v.err != nil {
		b.WriteString(v.styles.Error.Render("Error: " + v.err.Error()))
		b.WriteString("\n\n")
	}

	if v.settings == nil {
		b.WriteString(v.styles.Muted.Render("Loading settings..."))
		return b.String()
	}

	for i, key := range v.keys {
		value := valueOf(v.settings, key)
		if value == "" {
			value = "(default)"
		}
		if i == v.selected {
			b.WriteString("> " + v.styles.Selected.Render(fmt.Sprintf("%-22s", key)) + " " + value)
		} else {
			b.WriteString("  " + v.styles.Normal.Render(fmt.Sprintf("%-22s", key)) + " " + v.styles.Muted.Render(value))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if v.editing {
		b.WriteString(v.prompt.View())
		b.WriteString("\n")
	}
	b.WriteString(v.styles.Help.Render("[j/k] Navigate  [Enter] Edit  [r] Reset  [Esc] Back"))
	return b.String()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
	v.prompt.SetWidth(width)
}

// Reset resets the view state.
func (v *View) Reset() {
	v.selected = 0
	v.editing = false
	v.prompt.Blur()
	v.err = nil
}

// SelectedKey returns the highlighted configuration key.
func (v *View) SelectedKey() string {
	if v.selected < 0 || v.selected >= len(v.keys) {
		return ""
	}
	return v.keys[v.selected]
}

// Settings returns the loaded settings.
func (v *View) Settings() *domain.AppSettings {
	return v.settings
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}

// Editing returns whether a value is being edited.
func (v *View) Editing() bool {
	return v.editing
}
