// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/grimorium/internal/core/domain"
)

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewChapters lists stored chapters.
	ViewChapters ViewType = iota
	// ViewEditor shows the open chapter with its annotations.
	ViewEditor
	// ViewThread shows one comment thread.
	ViewThread
	// ViewSettings is the settings configuration view.
	ViewSettings
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewChapters:
		return "chapters"
	case ViewEditor:
		return "editor"
	case ViewThread:
		return "thread"
	case ViewSettings:
		return "settings"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}

// ChaptersLoaded carries the stored chapters.
type ChaptersLoaded struct {
	Chapters []domain.Chapter
	Err      error
}

// ChapterOpened signals that a chapter became the open chapter.
type ChapterOpened struct {
	Chapter domain.Chapter
	Err     error
}

// ChapterSaved signals that the open chapter was persisted.
type ChapterSaved struct {
	Err error
}

// ChapterClosed signals that the open chapter was flushed and discarded.
type ChapterClosed struct {
	Err error
}

// ThreadOpened asks the app to show an annotation's thread.
type ThreadOpened struct {
	AnnotationID string
}

// AnnotationsChanged is sent after the thread view changed the open chapter's annotations.
type AnnotationsChanged struct{}

// EntityResolved carries the entity behind an activated link.
type EntityResolved struct {
	Entity *domain.Entity
	Err    error
}

// SettingsLoaded carries the current settings.
type SettingsLoaded struct {
	Settings *domain.AppSettings
	Err      error
}

// SettingsSaved signals settings were saved.
type SettingsSaved struct {
	Err error
}
