package usecase

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/user/storefront-harvester/internal/entity"
)

func TestProgressTracker(t *testing.T) {
	next := &recordingObserver{}
	tracker := NewProgressTracker("comments", next)

	tracker.BatchStarted(0, 2, "https://a.com")
	snap := tracker.Snapshot()
	require.Equal(t, entity.SeedTarget("https://a.com"), snap.CurrentSeed)
	require.Equal(t, 2, snap.Total)
	require.False(t, snap.StartedAt.IsZero())

	tracker.BatchFinished(0, 2, entity.BatchResult{Records: []entity.HarvestedRecord{"x", "y"}, Stop: entity.StopExhausted})
	snap = tracker.Snapshot()
	require.Equal(t, 1, snap.Finished)
	require.Equal(t, 2, snap.Records)
	require.Equal(t, entity.StopExhausted, snap.LastStop)
	require.Empty(t, snap.CurrentSeed)

	require.Equal(t, []entity.SeedTarget{"https://a.com"}, next.started)
	require.Equal(t, []entity.StopReason{entity.StopExhausted}, next.finished)
}
