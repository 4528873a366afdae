package compliance_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/compliance-engine/compliance"
)

func snapshotAt(i int) compliance.ScoreSnapshot {
	return compliance.ScoreSnapshot{
		RunID: fmt.Sprintf("run-%d", i),
		At:    day(2025, time.June, 1).Add(time.Duration(i) * time.Hour),
		Score: 100 - i,
	}
}

func TestTrendWindow_EvictsOldestAtCapacity(t *testing.T) {
	// GIVEN: A window of capacity 3
	// WHEN: Recording 5 snapshots
	// THEN: Only the newest 3 remain, oldest first

	ctx := context.Background()
	w := compliance.NewTrendWindow(3)
	for i := 0; i < 5; i++ {
		require.NoError(t, w.Record(ctx, snapshotAt(i)))
	}

	recent, err := w.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, recent, 3)
	assert.Equal(t, "run-2", recent[0].RunID)
	assert.Equal(t, "run-4", recent[2].RunID)
}

func TestTrendWindow_Recent_LimitsAndOrders(t *testing.T) {
	ctx := context.Background()
	w := compliance.NewTrendWindow(10)
	for i := 0; i < 4; i++ {
		require.NoError(t, w.Record(ctx, snapshotAt(i)))
	}

	recent, err := w.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "run-2", recent[0].RunID)
	assert.Equal(t, "run-3", recent[1].RunID)

	all, err := w.Recent(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestTrendWindow_RecordedSnapshotsImmutable(t *testing.T) {
	// GIVEN: A recorded snapshot
	// WHEN: The caller mutates the slice Recent returned
	// THEN: The stored history is unaffected

	ctx := context.Background()
	w := compliance.NewTrendWindow(5)
	require.NoError(t, w.Record(ctx, snapshotAt(0)))

	first, err := w.Recent(ctx, 1)
	require.NoError(t, err)
	first[0].Score = -1

	again, err := w.Recent(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 100, again[0].Score)
}
