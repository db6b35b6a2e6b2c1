package usecase

import (
	"sync"
	"time"

	"github.com/user/storefront-harvester/internal/entity"
)

// RunProgress is a point-in-time view of an orchestrator run.
type RunProgress struct {
	Profile     string
	Total       int
	Finished    int
	Records     int
	CurrentSeed entity.SeedTarget
	LastStop    entity.StopReason
	StartedAt   time.Time
	UpdatedAt   time.Time
}

// ProgressTracker is an Observer that keeps the latest RunProgress for
// readers on other goroutines, such as the status endpoint.
type ProgressTracker struct {
	mu       sync.RWMutex
	progress RunProgress
	next     Observer
}

// NewProgressTracker creates a tracker for profile. Callbacks are forwarded
// to next when it is set.
func NewProgressTracker(profile string, next Observer) *ProgressTracker {
	return &ProgressTracker{
		progress: RunProgress{Profile: profile},
		next:     next,
	}
}

func (t *ProgressTracker) BatchStarted(index, total int, seed entity.SeedTarget) {
	t.mu.Lock()
	now := time.Now()
	if t.progress.StartedAt.IsZero() {
		t.progress.StartedAt = now
	}
	t.progress.Total = total
	t.progress.CurrentSeed = seed
	t.progress.UpdatedAt = now
	t.mu.Unlock()

	if t.next != nil {
		t.next.BatchStarted(index, total, seed)
	}
}

func (t *ProgressTracker) BatchFinished(index, total int, result entity.BatchResult) {
	t.mu.Lock()
	t.progress.Finished = index + 1
	t.progress.Records += len(result.Records)
	t.progress.LastStop = result.Stop
	t.progress.CurrentSeed = ""
	t.progress.UpdatedAt = time.Now()
	t.mu.Unlock()

	if t.next != nil {
		t.next.BatchFinished(index, total, result)
	}
}

// Snapshot returns a copy of the current progress.
func (t *ProgressTracker) Snapshot() RunProgress {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.progress
}
