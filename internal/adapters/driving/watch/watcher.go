// Package watch keeps an open chapter in sync with its source text file.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/grimorium/internal/core/domain"
	"github.com/custodia-labs/grimorium/internal/core/ports/driven"
	"github.com/custodia-labs/grimorium/internal/core/ports/driving"
	"github.com/custodia-labs/grimorium/internal/logger"
)

// Watcher re-reads a chapter's source file whenever it changes and applies
// the new text to the open chapter, re-anchoring its annotations.
type Watcher struct {
	chapters   driving.ChapterService
	normaliser driven.NormaliserRegistry
	path       string
	onSync     func(domain.EditResult)
}

// New creates a watcher for the file at path. The chapter to update must
// already be open in chapters.
func New(chapters driving.ChapterService, path string) *Watcher {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	return &Watcher{
		chapters: chapters,
		path:     filepath.Clean(abs),
	}
}

// OnSync sets a callback invoked after every applied change.
func (w *Watcher) OnSync(fn func(domain.EditResult)) {
	w.onSync = fn
}

// SetNormaliser reduces the file to plain text before it is applied.
// Without one the file content is applied verbatim.
func (w *Watcher) SetNormaliser(normaliser driven.NormaliserRegistry) {
	w.normaliser = normaliser
}

// Path returns the watched file.
func (w *Watcher) Path() string {
	return w.path
}

// Run watches until ctx is cancelled.
//
// The parent directory is watched rather than the file so that editors
// which save by renaming a temporary file are still seen.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fsw.Close()

	if err := fsw.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("watch %s: %w", w.path, err)
	}
	logger.Debug("watching %s", w.path)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if !w.handleEvent(event) {
				continue
			}
			if _, err := w.Sync(ctx); err != nil {
				logger.Warn("sync %s: %v", w.path, err)
			}
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch %s: %v", w.path, err)
		}
	}
}

// handleEvent reports whether event changed the watched file's content.
func (w *Watcher) handleEvent(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != w.path {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create)
}

// Sync reads the file and applies it to the open chapter, then saves.
// Unchanged content is a no-op.
func (w *Watcher) Sync(ctx context.Context) (domain.EditResult, error) {
	data, err := os.ReadFile(w.path)
	if err != nil {
		return domain.EditResult{}, fmt.Errorf("read %s: %w", w.path, err)
	}
	content := string(data)
	if w.normaliser != nil {
		text, err := w.normaliser.Normalise(ctx, &domain.RawChapter{Path: w.path, Content: data})
		if err != nil {
			return domain.EditResult{}, err
		}
		content = text.Content
	}
	if content == w.chapters.Content() {
		return domain.EditResult{}, nil
	}

	result, err := w.chapters.SetContent(content)
	if err != nil {
		return domain.EditResult{}, err
	}
	if err := w.chapters.Save(ctx); err != nil {
		return result, err
	}
	logger.Info("synced %s: %d shifted, %d removed", filepath.Base(w.path), len(result.Shifted), len(result.Removed))

	if w.onSync != nil {
		w.onSync(result)
	}
	return result, nil
}
