// Package tui provides an interactive terminal editor for grimorium chapters.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/grimorium/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Chapters is the document model for the open chapter.
	Chapters driving.ChapterService

	// Entities resolves linked entities. Optional.
	Entities driving.EntityService

	// Settings manages application settings. Optional.
	Settings driving.SettingsService
}

// NewPorts creates a new Ports aggregate with the given services.
func NewPorts(
	chapters driving.ChapterService,
	entities driving.EntityService,
	settings driving.SettingsService,
) *Ports {
	return &Ports{
		Chapters: chapters,
		Entities: entities,
		Settings: settings,
	}
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil {
		return ErrInvalidPorts
	}
	if p.Chapters == nil {
		return ErrMissingChapterService
	}
	return nil
}
