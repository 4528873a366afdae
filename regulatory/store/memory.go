// Package store provides Repository implementations.
package store

import (
	"context"
	"sync"
	"time"

	"github.com/warp/compliance-engine/regulatory"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

// Memory holds rate and rule records in memory. Reads are safe for
// arbitrary concurrency; AddRate/AddRule are maintenance operations and
// must not be interleaved with a scan that reads live (scans should hold
// a Snapshot instead).
type Memory struct {
	mu      sync.RWMutex
	version int64
	rates   []regulatory.MinimumWageRate
	rules   []regulatory.OvertimeRule
}

func NewMemory() *Memory {
	return &Memory{}
}

// AddRate appends a rate record. Records are immutable once added; a
// superseding rate is a new record with a later effective date.
func (m *Memory) AddRate(rate regulatory.MinimumWageRate) error {
	if err := validateRate(rate); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rates = append(m.rates, rate)
	m.version++
	return nil
}

// AddRule appends an overtime rule record.
func (m *Memory) AddRule(rule regulatory.OvertimeRule) error {
	if err := validateRule(rule); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rules = append(m.rules, rule)
	m.version++
	return nil
}

// Load replaces the whole record set in one step (scenario/seed loading).
func (m *Memory) Load(rates []regulatory.MinimumWageRate, rules []regulatory.OvertimeRule) error {
	for _, r := range rates {
		if err := validateRate(r); err != nil {
			return err
		}
	}
	for _, r := range rules {
		if err := validateRule(r); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rates = append([]regulatory.MinimumWageRate(nil), rates...)
	m.rules = append([]regulatory.OvertimeRule(nil), rules...)
	m.version++
	return nil
}

// RatesForLocation implements regulatory.Repository.
func (m *Memory) RatesForLocation(ctx context.Context, loc regulatory.Location, asOf time.Time) ([]regulatory.MinimumWageRate, error) {
	snap, err := m.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return snap.RatesForLocation(ctx, loc, asOf)
}

// RulesForLocation implements regulatory.Repository.
func (m *Memory) RulesForLocation(ctx context.Context, loc regulatory.Location, asOf time.Time) ([]regulatory.OvertimeRule, error) {
	snap, err := m.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return snap.RulesForLocation(ctx, loc, asOf)
}

// Snapshot implements regulatory.Snapshotter with a consistent copy of
// the current record set.
func (m *Memory) Snapshot(_ context.Context) (*regulatory.Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return regulatory.NewSnapshot(m.version, time.Now().UTC(), m.rates, m.rules), nil
}

var _ regulatory.Repository = (*Memory)(nil)
var _ regulatory.Snapshotter = (*Memory)(nil)

// =============================================================================
// VALIDATION
// =============================================================================

func validateRate(r regulatory.MinimumWageRate) error {
	if r.ID == "" || r.Region == "" || !r.Jurisdiction.Valid() || !r.Rate.IsPositive() || r.EffectiveAt.IsZero() {
		return regulatory.ErrInvalidRecord
	}
	return nil
}

func validateRule(r regulatory.OvertimeRule) error {
	if r.ID == "" || r.Region == "" || !r.Jurisdiction.Valid() || r.EffectiveAt.IsZero() {
		return regulatory.ErrInvalidRecord
	}
	if !r.WeeklyThreshold.IsPositive() || !r.Multiplier.IsPositive() {
		return regulatory.ErrInvalidRecord
	}
	if r.DailyThreshold != nil && !r.DailyThreshold.IsPositive() {
		return regulatory.ErrInvalidRecord
	}
	return nil
}
