package services

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgressTrackerLifecycle(t *testing.T) {
	tr := NewProgressTracker()
	assert.Equal(t, Progress{}, tr.Snapshot())

	require.True(t, tr.Start(30))
	snap := tr.Snapshot()
	assert.True(t, snap.IsSeeding)
	assert.Equal(t, 30, snap.Total)
	assert.Equal(t, 0, snap.Progress)
	assert.NotNil(t, snap.StartedAt)

	tr.Advance(10)
	assert.Equal(t, 33, tr.Snapshot().Progress, "percent is floored")
	tr.Advance(10)
	assert.Equal(t, 66, tr.Snapshot().Progress)
	tr.Advance(10)

	tr.Finish(nil)
	snap = tr.Snapshot()
	assert.False(t, snap.IsSeeding)
	assert.Equal(t, 30, snap.Current)
	assert.Equal(t, 100, snap.Progress)
	assert.NotNil(t, snap.FinishedAt)
	assert.Empty(t, snap.Error)
}

func TestProgressTrackerRejectsSecondStart(t *testing.T) {
	tr := NewProgressTracker()
	require.True(t, tr.Start(100))
	tr.Advance(40)

	assert.False(t, tr.Start(5))
	snap := tr.Snapshot()
	assert.Equal(t, 100, snap.Total, "rejected start leaves state untouched")
	assert.Equal(t, 40, snap.Current)

	tr.Finish(nil)
	assert.True(t, tr.Start(5), "tracker is reusable after finish")
	assert.Equal(t, 0, tr.Snapshot().Current)
}

func TestProgressTrackerFailureKeepsCount(t *testing.T) {
	tr := NewProgressTracker()
	require.True(t, tr.Start(10))
	tr.Advance(5)
	tr.Finish(errors.New("connection reset"))

	snap := tr.Snapshot()
	assert.False(t, snap.IsSeeding)
	assert.Equal(t, 5, snap.Current)
	assert.Equal(t, 100, snap.Progress)
	assert.Equal(t, "connection reset", snap.Error)
}

func TestProgressTrackerIgnoresAdvanceWhenIdle(t *testing.T) {
	tr := NewProgressTracker()
	tr.Advance(3)
	assert.Equal(t, 0, tr.Snapshot().Current)
}

func TestProgressTrackerConcurrentReaders(t *testing.T) {
	tr := NewProgressTracker()
	require.True(t, tr.Start(1000))

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			tr.Advance(10)
		}
	}()

	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			last := 0
			for i := 0; i < 200; i++ {
				snap := tr.Snapshot()
				assert.GreaterOrEqual(t, snap.Current, last)
				assert.LessOrEqual(t, snap.Progress, 100)
				last = snap.Current
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1000, tr.Snapshot().Current)
	assert.Equal(t, 100, tr.Snapshot().Progress)
}

func TestPercentOf(t *testing.T) {
	assert.Equal(t, 0, percentOf(0, 10))
	assert.Equal(t, 99, percentOf(999, 1000))
	assert.Equal(t, 100, percentOf(12, 10))
	assert.Equal(t, 100, percentOf(0, 0))
}
