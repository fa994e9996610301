package services

import (
	"sync"
	"time"
)

// Progress is the externally visible state of the seeding run.
type Progress struct {
	IsSeeding  bool       `json:"isSeeding"`
	Current    int        `json:"current"`
	Total      int        `json:"total"`
	Progress   int        `json:"progress"` // percent, 0-100
	StartedAt  *time.Time `json:"startedAt,omitempty"`
	FinishedAt *time.Time `json:"finishedAt,omitempty"`
	Error      string     `json:"error,omitempty"`
}

// ProgressTracker is the single shared view of the seeding run. At most one
// run can hold it at a time.
type ProgressTracker struct {
	mu    sync.RWMutex
	state Progress
}

func NewProgressTracker() *ProgressTracker {
	return &ProgressTracker{}
}

// Start claims the tracker for a run of target tracks. It returns false and
// changes nothing when a run is already active.
func (t *ProgressTracker) Start(target int) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state.IsSeeding {
		return false
	}
	now := time.Now().UTC()
	t.state = Progress{
		IsSeeding: true,
		Total:     target,
		StartedAt: &now,
	}
	return true
}

// Advance records n more committed tracks.
func (t *ProgressTracker) Advance(n int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.state.IsSeeding || n <= 0 {
		return
	}
	t.state.Current += n
	t.state.Progress = percentOf(t.state.Current, t.state.Total)
}

// Finish ends the run. The percentage reads 100 even when err is set; the
// committed count stays as it was.
func (t *ProgressTracker) Finish(err error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := time.Now().UTC()
	t.state.IsSeeding = false
	t.state.Progress = 100
	t.state.FinishedAt = &now
	if err != nil {
		t.state.Error = err.Error()
	}
}

func (t *ProgressTracker) Snapshot() Progress {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.state
}

func percentOf(current, total int) int {
	if total <= 0 {
		return 100
	}
	p := int(int64(current) * 100 / int64(total))
	if p > 100 {
		return 100
	}
	return p
}
