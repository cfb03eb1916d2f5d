// Package mcp provides an MCP (Model Context Protocol) server adapter for grimorium.
// It lets AI assistants read chapters, inspect annotations and leave comments.
package mcp

import "errors"

// ErrMissingChapterService is returned when the chapter service is not provided.
var ErrMissingChapterService = errors.New("mcp: chapter service is required")
