// Package keymap defines keybindings for the TUI.
package keymap

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines all keybindings for the TUI.
type KeyMap struct {
	Quit key.Binding
	Help key.Binding
	Back key.Binding

	Up    key.Binding
	Down  key.Binding
	Left  key.Binding
	Right key.Binding

	// WordLeft and WordRight jump the cursor by words.
	WordLeft  key.Binding
	WordRight key.Binding

	Top    key.Binding
	Bottom key.Binding

	// Activate opens the thread or entity under the cursor.
	Activate key.Binding

	// Mark starts or clears a selection at the cursor.
	Mark key.Binding

	// Comment starts a thread on the selection.
	Comment key.Binding

	// Link links the selection to an entity.
	Link key.Binding

	// Find searches the chapter; Next jumps to the next match.
	Find key.Binding
	Next key.Binding

	// Save persists the chapter now.
	Save key.Binding

	// Reply, Edit, Pin and Delete act on the selected comment of a thread.
	Reply  key.Binding
	Edit   key.Binding
	Pin    key.Binding
	Delete key.Binding

	// DeleteThread removes the whole annotation.
	DeleteThread key.Binding

	// Settings opens the settings view.
	Settings key.Binding

	// Reset restores a setting to its default.
	Reset key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "left"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "right"),
		),
		WordLeft: key.NewBinding(
			key.WithKeys("b"),
			key.WithHelp("b", "word back"),
		),
		WordRight: key.NewBinding(
			key.WithKeys("w"),
			key.WithHelp("w", "word forward"),
		),
		Top: key.NewBinding(
			key.WithKeys("home", "g"),
			key.WithHelp("g", "top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("end", "G"),
			key.WithHelp("G", "bottom"),
		),
		Activate: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open"),
		),
		Mark: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "select"),
		),
		Comment: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "comment"),
		),
		Link: key.NewBinding(
			key.WithKeys("L"),
			key.WithHelp("L", "link"),
		),
		Find: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "find"),
		),
		Next: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "next match"),
		),
		Save: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "save"),
		),
		Reply: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reply"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit"),
		),
		Pin: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "pin"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		DeleteThread: key.NewBinding(
			key.WithKeys("D"),
			key.WithHelp("D", "delete thread"),
		),
		Settings: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "settings"),
		),
		Reset: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reset"),
		),
	}
}

// ShortHelp returns a short list of keybindings for the status bar.
func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Quit, k.Help}
}

// EditorHelp returns keybindings for the chapter editor.
func (k *KeyMap) EditorHelp() []key.Binding {
	return []key.Binding{k.Mark, k.Comment, k.Link, k.Activate, k.Find, k.Back}
}

// ThreadHelp returns keybindings for the thread panel.
func (k *KeyMap) ThreadHelp() []key.Binding {
	return []key.Binding{k.Reply, k.Edit, k.Pin, k.Delete, k.DeleteThread, k.Back}
}

// FullHelp returns the full list of keybindings for the help view.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right, k.WordLeft, k.WordRight, k.Top, k.Bottom},
		{k.Mark, k.Comment, k.Link, k.Activate, k.Find, k.Next, k.Save},
		{k.Reply, k.Edit, k.Pin, k.Delete, k.DeleteThread},
		{k.Settings, k.Back, k.Help, k.Quit},
	}
}

// Matches checks if a key string matches a binding.
func Matches(keyStr string, binding key.Binding) bool {
	for _, k := range binding.Keys() {
		if k == keyStr {
			return true
		}
	}
	return false
}
