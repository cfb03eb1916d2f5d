package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/custodia-labs/grimorium/internal/core/domain"
	"github.com/custodia-labs/grimorium/internal/logger"
)

// Saver persists the current state of a document.
type Saver interface {
	Save(ctx context.Context) error
}

// Autosaver debounces saves after mutations. Every Touch restarts the
// countdown; the save runs once the document has been quiet for the
// debounce interval.
type Autosaver struct {
	saver    Saver
	debounce time.Duration

	mu      sync.Mutex
	timer   *time.Timer
	pending bool
	stopped bool
	lastErr error

	saveMu sync.Mutex
}

// NewAutosaver creates an autosaver for saver.
func NewAutosaver(saver Saver, debounce time.Duration) *Autosaver {
	if debounce < 0 {
		debounce = 0
	}
	return &Autosaver{
		saver:    saver,
		debounce: debounce,
	}
}

// Touch marks the document dirty and restarts the debounce timer.
func (a *Autosaver) Touch() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.stopped {
		return
	}
	a.pending = true
	if a.timer == nil {
		a.timer = time.AfterFunc(a.debounce, a.fire)
		return
	}
	a.timer.Reset(a.debounce)
}

// Pending returns true if a save is scheduled.
func (a *Autosaver) Pending() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.pending
}

// Flush saves immediately if a save is pending.
func (a *Autosaver) Flush(ctx context.Context) error {
	a.mu.Lock()
	if a.timer != nil {
		a.timer.Stop()
	}
	pending := a.pending
	a.pending = false
	a.mu.Unlock()

	if !pending {
		return nil
	}
	return a.save(ctx)
}

// Stop flushes pending work and ignores further touches.
func (a *Autosaver) Stop(ctx context.Context) error {
	a.mu.Lock()
	a.stopped = true
	a.mu.Unlock()
	return a.Flush(ctx)
}

// Err returns the error of the most recent background save.
func (a *Autosaver) Err() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.lastErr
}

func (a *Autosaver) fire() {
	a.mu.Lock()
	if !a.pending {
		a.mu.Unlock()
		return
	}
	a.pending = false
	a.mu.Unlock()

	if err := a.save(context.Background()); err != nil {
		logger.Warn("autosave failed: %v", err)
	}
}

func (a *Autosaver) save(ctx context.Context) error {
	a.saveMu.Lock()
	defer a.saveMu.Unlock()

	err := a.saver.Save(ctx)
	if errors.Is(err, domain.ErrNoActiveChapter) {
		err = nil
	}

	a.mu.Lock()
	a.lastErr = err
	a.mu.Unlock()
	return err
}
