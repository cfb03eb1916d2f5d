// Package status provides status bar components for the TUI.
package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/grimorium/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/grimorium/internal/adapters/driving/tui/styles"
)

// State represents the current editor state for display.
type State string

const (
	StateReady     State = "ready"
	StateSelecting State = "selecting"
	StateInput     State = "input"
	StateInfo      State = "info"
	StateError     State = "error"
)

// Bar displays editor status and keybinding hints.
type Bar struct {
	styles  *styles.Styles
	keymap  *keymap.KeyMap
	state   State
	message string

	// offset and length describe the cursor position in runes.
	offset int
	length int

	// selection is the half-open range shown while selecting.
	selStart int
	selEnd   int

	hints []key.Binding
	width int
}

// NewBar creates a new status bar component.
func NewBar(s *styles.Styles, km *keymap.KeyMap) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &Bar{
		styles: s,
		keymap: km,
		state:  StateReady,
		hints:  km.ShortHelp(),
		width:  80,
	}
}

// Init initialises the status bar.
func (s *Bar) Init() tea.Cmd {
	return nil
}

// Update handles status bar messages.
func (s *Bar) Update(msg tea.Msg) (*Bar, tea.Cmd) {
	// Bar is passive, updated via Set methods
	return s, nil
}

// View renders the status bar.
func (s *Bar) View() string {
	left := s.renderLeft()
	right := s.renderRight()

	padding := s.width - s.styles.StatusBar.GetHorizontalPadding() - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 1 {
		padding = 1
	}

	return s.styles.StatusBar.Width(s.width).Render(
		left + strings.Repeat(" ", padding) + right,
	)
}

func (s *Bar) renderLeft() string {
	switch s.state {
	case StateSelecting:
		return s.styles.Normal.Render(fmt.Sprintf("Selecting [%d, %d)", s.selStart, s.selEnd))
	case StateInput:
		return s.styles.Normal.Render(s.message)
	case StateInfo:
		return s.styles.Success.Render(s.message)
	case StateError:
		if s.message != "" {
			return s.styles.Error.Render(fmt.Sprintf("Error: %s", s.message))
		}
		return s.styles.Error.Render("Error")
	case StateReady:
	}
	return s.styles.Muted.Render(fmt.Sprintf("%d/%d", s.offset, s.length))
}

func (s *Bar) renderRight() string {
	hints := make([]string, 0, len(s.hints))
	for _, b := range s.hints {
		h := b.Help()
		hints = append(hints, fmt.Sprintf("%s: %s", h.Key, h.Desc))
	}
	return s.styles.Muted.Render(strings.Join(hints, " | "))
}

// SetState sets the current state.
func (s *Bar) SetState(state State) {
	s.state = state
}

// State returns the current state.
func (s *Bar) State() State {
	return s.state
}

// SetMessage sets a custom message.
func (s *Bar) SetMessage(message string) {
	s.message = message
}

// Message returns the current message.
func (s *Bar) Message() string {
	return s.message
}

// Info shows a transient message.
func (s *Bar) Info(message string) {
	s.state = StateInfo
	s.message = message
}

// Error shows err.
func (s *Bar) Error(err error) {
	s.state = StateError
	s.message = err.Error()
}

// SetPosition sets the cursor offset and the content length.
func (s *Bar) SetPosition(offset, length int) {
	s.offset = offset
	s.length = length
}

// Position returns the cursor offset and the content length.
func (s *Bar) Position() (int, int) {
	return s.offset, s.length
}

// SetSelection sets the selection range shown in StateSelecting.
func (s *Bar) SetSelection(start, end int) {
	s.selStart = start
	s.selEnd = end
}

// SetHints replaces the keybinding hints.
func (s *Bar) SetHints(hints []key.Binding) {
	s.hints = hints
}

// SetWidth sets the status bar width.
func (s *Bar) SetWidth(width int) {
	s.width = width
}

// Width returns the current width.
func (s *Bar) Width() int {
	return s.width
}

// Clear resets the status bar to default state.
func (s *Bar) Clear() {
	s.state = StateReady
	s.message = ""
}
