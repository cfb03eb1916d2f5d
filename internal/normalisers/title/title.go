// Package title derives chapter titles from file names.
package title

import (
	"path/filepath"
	"strings"
)

// FromPath turns "/drafts/the_wolf-den.md" into "the wolf den".
func FromPath(path string) string {
	if path == "" {
		return ""
	}
	name := filepath.Base(path)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	name = strings.ReplaceAll(name, "_", " ")
	name = strings.ReplaceAll(name, "-", " ")
	return strings.TrimSpace(name)
}
