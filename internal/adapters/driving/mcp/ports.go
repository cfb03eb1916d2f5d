package mcp

import (
	"github.com/custodia-labs/grimorium/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
type Ports struct {
	// Chapters opens chapters and edits their annotations.
	Chapters driving.ChapterService

	// Entities resolves link targets. Optional.
	Entities driving.EntityService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Chapters == nil {
		return ErrMissingChapterService
	}
	return nil
}
