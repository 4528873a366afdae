package workforce

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrWorkerNotFound is returned when an evaluation is requested for an
	// unknown worker id. Local to that evaluation; a batch scan records it
	// and moves on.
	ErrWorkerNotFound = errors.New("worker not found")

	// ErrInvalidPayPeriod is returned for a malformed period (end before start).
	ErrInvalidPayPeriod = errors.New("invalid pay period: end before start")
)

// WorkerNotFoundError reports which worker id failed to resolve.
type WorkerNotFoundError struct {
	WorkerID string
}

func (e *WorkerNotFoundError) Error() string {
	return fmt.Sprintf("worker %q not found", e.WorkerID)
}

func (e *WorkerNotFoundError) Unwrap() error {
	return ErrWorkerNotFound
}

// =============================================================================
// DIRECTORY - Read contract against the HR collaborator
// =============================================================================

// Directory supplies worker records for evaluation. Implementations must
// be safe for concurrent readers; a scan pass never writes.
type Directory interface {
	// WageRecord returns the current wage record for one worker.
	// Returns WorkerNotFoundError for unknown ids.
	WageRecord(ctx context.Context, workerID string) (*WageRecord, error)

	// TimeRecord returns the time record for one worker and pay period.
	// Returns WorkerNotFoundError when no record exists for the pair.
	TimeRecord(ctx context.Context, workerID string, period PayPeriod) (*TimeRecord, error)

	// ListWageRecords returns all wage records, ordered by worker id.
	ListWageRecords(ctx context.Context) ([]WageRecord, error)

	// ListTimeRecords returns all time records, ordered by worker id
	// then period start.
	ListTimeRecords(ctx context.Context) ([]TimeRecord, error)
}

// =============================================================================
// MEMORY DIRECTORY - In-memory implementation (for testing/dev)
// =============================================================================

type MemoryDirectory struct {
	mu    sync.RWMutex
	wages map[string]WageRecord
	times map[string][]TimeRecord
}

func NewMemoryDirectory() *MemoryDirectory {
	return &MemoryDirectory{
		wages: make(map[string]WageRecord),
		times: make(map[string][]TimeRecord),
	}
}

// PutWageRecord inserts or replaces a worker's wage record.
func (d *MemoryDirectory) PutWageRecord(rec WageRecord) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.wages[rec.WorkerID] = rec
}

// PutTimeRecord inserts a time record for a worker.
func (d *MemoryDirectory) PutTimeRecord(rec TimeRecord) error {
	if !rec.Period.Valid() {
		return ErrInvalidPayPeriod
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.times[rec.WorkerID] = append(d.times[rec.WorkerID], rec)
	return nil
}

func (d *MemoryDirectory) WageRecord(_ context.Context, workerID string) (*WageRecord, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	rec, ok := d.wages[workerID]
	if !ok {
		return nil, &WorkerNotFoundError{WorkerID: workerID}
	}
	return &rec, nil
}

func (d *MemoryDirectory) TimeRecord(_ context.Context, workerID string, period PayPeriod) (*TimeRecord, error) {
	if !period.Valid() {
		return nil, ErrInvalidPayPeriod
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, rec := range d.times[workerID] {
		if rec.Period.Start.Equal(period.Start) && rec.Period.End.Equal(period.End) {
			out := rec
			return &out, nil
		}
	}
	return nil, &WorkerNotFoundError{WorkerID: workerID}
}

func (d *MemoryDirectory) ListWageRecords(_ context.Context) ([]WageRecord, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]WageRecord, 0, len(d.wages))
	for _, rec := range d.wages {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].WorkerID < out[j].WorkerID })
	return out, nil
}

func (d *MemoryDirectory) ListTimeRecords(_ context.Context) ([]TimeRecord, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	var out []TimeRecord
	for _, recs := range d.times {
		out = append(out, recs...)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].WorkerID != out[j].WorkerID {
			return out[i].WorkerID < out[j].WorkerID
		}
		return out[i].Period.Start.Before(out[j].Period.Start)
	})
	return out, nil
}

var _ Directory = (*MemoryDirectory)(nil)
