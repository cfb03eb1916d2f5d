package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/grimorium/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/grimorium/internal/core/domain"
)

// countingSaver counts Save calls.
type countingSaver struct {
	calls atomic.Int32
	err   error
}

func (c *countingSaver) Save(_ context.Context) error {
	c.calls.Add(1)
	return c.err
}

func TestAutosaver_Debounces(t *testing.T) {
	saver := &countingSaver{}
	a := NewAutosaver(saver, 20*time.Millisecond)

	for i := 0; i < 5; i++ {
		a.Touch()
	}
	assert.True(t, a.Pending())

	require.Eventually(t, func() bool {
		return saver.calls.Load() == 1
	}, time.Second, 5*time.Millisecond)
	assert.False(t, a.Pending())
}

func TestAutosaver_Flush(t *testing.T) {
	saver := &countingSaver{}
	a := NewAutosaver(saver, time.Hour)

	require.NoError(t, a.Flush(context.Background()))
	assert.Equal(t, int32(0), saver.calls.Load())

	a.Touch()
	require.NoError(t, a.Flush(context.Background()))
	assert.Equal(t, int32(1), saver.calls.Load())
	assert.False(t, a.Pending())
}

func TestAutosaver_StopIgnoresTouches(t *testing.T) {
	saver := &countingSaver{}
	a := NewAutosaver(saver, time.Hour)

	a.Touch()
	require.NoError(t, a.Stop(context.Background()))
	a.Touch()

	assert.False(t, a.Pending())
	assert.Equal(t, int32(1), saver.calls.Load())
}

func TestAutosaver_RecordsErrors(t *testing.T) {
	saver := &countingSaver{err: errors.New("disk full")}
	a := NewAutosaver(saver, 0)

	captureLog(t)
	a.Touch()
	require.Eventually(t, func() bool {
		return a.Err() != nil
	}, time.Second, 5*time.Millisecond)
	assert.Contains(t, a.Err().Error(), "disk full")
}

func TestAutosaver_IgnoresClosedChapter(t *testing.T) {
	saver := &countingSaver{err: domain.ErrNoActiveChapter}
	a := NewAutosaver(saver, time.Hour)

	a.Touch()
	assert.NoError(t, a.Flush(context.Background()))
	assert.NoError(t, a.Err())
}

func TestAutosaver_WithChapterService(t *testing.T) {
	ctx := context.Background()
	store := memory.NewChapterStore()
	svc := NewChapterService(store, nil)
	svc.SetAutosaver(NewAutosaver(svc, time.Hour))
	require.NoError(t, svc.Import(ctx, &domain.Chapter{ID: "ch-1", Title: "Den", Content: wolfText}))
	require.NoError(t, svc.Open(ctx, "ch-1"))

	_, err := svc.CommentSelection(domain.Range{Start: 4, End: 8}, "first")
	require.NoError(t, err)

	// Close flushes the pending save.
	require.NoError(t, svc.Close(ctx))

	snap, err := store.Load(ctx, "ch-1")
	require.NoError(t, err)
	assert.Len(t, snap.Annotations, 1)
}
