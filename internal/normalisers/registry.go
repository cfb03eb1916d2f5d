package normalisers

import (
	"context"
	"fmt"
	"mime"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/custodia-labs/grimorium/internal/core/domain"
	"github.com/custodia-labs/grimorium/internal/core/ports/driven"
	"github.com/custodia-labs/grimorium/internal/normalisers/docx"
	"github.com/custodia-labs/grimorium/internal/normalisers/html"
	"github.com/custodia-labs/grimorium/internal/normalisers/markdown"
	"github.com/custodia-labs/grimorium/internal/normalisers/plaintext"
)

// Ensure Registry implements the interface.
var _ driven.NormaliserRegistry = (*Registry)(nil)

// fallbackMIME is used when a file's type cannot be determined.
const fallbackMIME = "text/plain"

// extensions maps manuscript file extensions to MIME types. Types not
// listed fall back to the system MIME table.
var extensions = map[string]string{
	".txt":      "text/plain",
	".text":     "text/plain",
	".md":       "text/markdown",
	".markdown": "text/markdown",
	".html":     "text/html",
	".htm":      "text/html",
	".xhtml":    "application/xhtml+xml",
	".docx":     "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

// Registry dispatches chapter files to normalisers by MIME type.
type Registry struct {
	mu          sync.RWMutex
	normalisers []driven.Normaliser
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Default returns a registry with every built-in normaliser registered.
func Default() *Registry {
	r := NewRegistry()
	RegisterDefaults(r)
	return r
}

// RegisterDefaults registers the built-in normalisers with r.
func RegisterDefaults(r *Registry) {
	r.Register(plaintext.New())
	r.Register(markdown.New())
	r.Register(html.New())
	r.Register(docx.New())
}

// Register adds a normaliser. Normalisers are kept in priority order.
func (r *Registry) Register(normaliser driven.Normaliser) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.normalisers = append(r.normalisers, normaliser)
	sort.SliceStable(r.normalisers, func(i, j int) bool {
		return r.normalisers[i].Priority() > r.normalisers[j].Priority()
	})
}

// SupportedMIMETypes returns all MIME types that can be normalised, sorted.
func (r *Registry) SupportedMIMETypes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	seen := make(map[string]bool)
	var out []string
	for _, n := range r.normalisers {
		for _, m := range n.SupportedMIMETypes() {
			if !seen[m] {
				seen[m] = true
				out = append(out, m)
			}
		}
	}
	sort.Strings(out)
	return out
}

// Normalise transforms raw with the highest-priority normaliser for its
// MIME type. An empty MIME type is derived from raw.Path.
func (r *Registry) Normalise(ctx context.Context, raw *domain.RawChapter) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}
	mimeType := raw.MIMEType
	if mimeType == "" {
		mimeType = MIMETypeFor(raw.Path)
	}

	n := r.find(mimeType)
	if n == nil {
		return nil, fmt.Errorf("no normaliser for %s: %w", mimeType, domain.ErrNotImplemented)
	}
	result, err := n.Normalise(ctx, raw)
	if err != nil {
		return nil, fmt.Errorf("normalise %s: %w", filepath.Base(raw.Path), err)
	}
	return result, nil
}

func (r *Registry) find(mimeType string) driven.Normaliser {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, n := range r.normalisers {
		for _, m := range n.SupportedMIMETypes() {
			if m == mimeType {
				return n
			}
		}
	}
	return nil
}

// MIMETypeFor guesses the MIME type of a chapter file from its extension.
// Unknown extensions are treated as plain text.
func MIMETypeFor(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if m, ok := extensions[ext]; ok {
		return m
	}
	if m := mime.TypeByExtension(ext); m != "" {
		if base, _, err := mime.ParseMediaType(m); err == nil {
			return base
		}
	}
	return fallbackMIME
}
