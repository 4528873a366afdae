/*
trend.go - Rolling score history

PURPOSE:
  Keeps a bounded window of historical score snapshots so the dashboard
  can show trend direction. Snapshots are immutable once recorded;
  the window only ever appends and evicts from the front.

SEE ALSO:
  - scan.go: Records one snapshot per run
  - ../store/sqlite: Durable TrendSink implementation
*/
package compliance

import (
	"context"
	"sync"
)

// trendWindowDefault is how many snapshots a scan report carries.
const trendWindowDefault = 30

// TrendSink receives immutable score snapshots and serves recent history.
type TrendSink interface {
	Record(ctx context.Context, snap ScoreSnapshot) error

	// Recent returns up to n snapshots, oldest first.
	Recent(ctx context.Context, n int) ([]ScoreSnapshot, error)
}

// =============================================================================
// TREND WINDOW - In-memory rolling window
// =============================================================================

// TrendWindow is a fixed-capacity, in-memory TrendSink.
type TrendWindow struct {
	mu       sync.Mutex
	capacity int
	entries  []ScoreSnapshot
}

// NewTrendWindow creates a window holding up to capacity snapshots.
// Non-positive capacity falls back to the default.
func NewTrendWindow(capacity int) *TrendWindow {
	if capacity <= 0 {
		capacity = trendWindowDefault
	}
	return &TrendWindow{capacity: capacity}
}

func (w *TrendWindow) Record(_ context.Context, snap ScoreSnapshot) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.entries = append(w.entries, snap)
	if len(w.entries) > w.capacity {
		w.entries = w.entries[len(w.entries)-w.capacity:]
	}
	return nil
}

func (w *TrendWindow) Recent(_ context.Context, n int) ([]ScoreSnapshot, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if n <= 0 || n > len(w.entries) {
		n = len(w.entries)
	}
	out := make([]ScoreSnapshot, n)
	copy(out, w.entries[len(w.entries)-n:])
	return out, nil
}

var _ TrendSink = (*TrendWindow)(nil)
