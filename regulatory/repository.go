/*
repository.go - Lookup contract for rates and rules

PURPOSE:
  Defines the read-only interface between the evaluators and whatever
  holds the regulatory records (in-memory table, SQLite, a live feed
  adapter). Lookups are pure reads with no side effects.

CONSISTENT READS:
  A compliance scan must judge every worker against the same rule
  version. Repositories that can change between scans therefore expose
  Snapshot(), which returns an immutable, versioned copy of the full
  record set. The Snapshot itself satisfies Repository, so evaluators
  are indifferent to whether they read live or frozen data.

FAILURE:
  A location that matches zero records (not even federal) resolves to
  NoApplicableRuleError rather than an empty result.

SEE ALSO:
  - store/memory.go: In-memory implementation
  - ../store/sqlite: SQLite implementation
*/
package regulatory

import (
	"context"
	"sort"
	"time"
)

// =============================================================================
// REPOSITORY - Read-only lookup by location
// =============================================================================

// Repository resolves the rate and rule records binding a location.
// Implementations must be safe for concurrent readers.
type Repository interface {
	// RatesForLocation returns every minimum-wage rate applicable to loc
	// and in force at asOf, one record per issuing jurisdiction+region.
	// Returns NoApplicableRuleError when nothing applies.
	RatesForLocation(ctx context.Context, loc Location, asOf time.Time) ([]MinimumWageRate, error)

	// RulesForLocation is the overtime-rule counterpart of RatesForLocation.
	RulesForLocation(ctx context.Context, loc Location, asOf time.Time) ([]OvertimeRule, error)
}

// Snapshotter is implemented by repositories that can produce a frozen,
// versioned copy of their record set for a consistent scan pass.
type Snapshotter interface {
	Snapshot(ctx context.Context) (*Snapshot, error)
}

// =============================================================================
// SNAPSHOT - Immutable, versioned view of the full record set
// =============================================================================

// Snapshot is a consistent read of all records at a point in time.
// It never changes after construction; rule maintenance during a scan
// cannot affect a pass that already holds a snapshot.
type Snapshot struct {
	version int64
	takenAt time.Time
	rates   []MinimumWageRate
	rules   []OvertimeRule
}

// NewSnapshot copies the given records into an immutable snapshot.
// Records are sorted for deterministic iteration.
func NewSnapshot(version int64, takenAt time.Time, rates []MinimumWageRate, rules []OvertimeRule) *Snapshot {
	s := &Snapshot{
		version: version,
		takenAt: takenAt,
		rates:   append([]MinimumWageRate(nil), rates...),
		rules:   append([]OvertimeRule(nil), rules...),
	}
	sort.Slice(s.rates, func(i, j int) bool { return s.rates[i].ID < s.rates[j].ID })
	sort.Slice(s.rules, func(i, j int) bool { return s.rules[i].ID < s.rules[j].ID })
	return s
}

func (s *Snapshot) Version() int64     { return s.version }
func (s *Snapshot) TakenAt() time.Time { return s.takenAt }

// Rates returns a copy of all rate records in the snapshot.
func (s *Snapshot) Rates() []MinimumWageRate {
	return append([]MinimumWageRate(nil), s.rates...)
}

// Rules returns a copy of all overtime rules in the snapshot.
func (s *Snapshot) Rules() []OvertimeRule {
	return append([]OvertimeRule(nil), s.rules...)
}

// RatesForLocation implements Repository over the frozen record set.
func (s *Snapshot) RatesForLocation(_ context.Context, loc Location, asOf time.Time) ([]MinimumWageRate, error) {
	applicable := currentRates(s.rates, loc, asOf)
	if len(applicable) == 0 {
		return nil, &NoApplicableRuleError{Location: loc, AsOf: asOf, Kind: "rates"}
	}
	return applicable, nil
}

// RulesForLocation implements Repository over the frozen record set.
func (s *Snapshot) RulesForLocation(_ context.Context, loc Location, asOf time.Time) ([]OvertimeRule, error) {
	applicable := currentRules(s.rules, loc, asOf)
	if len(applicable) == 0 {
		return nil, &NoApplicableRuleError{Location: loc, AsOf: asOf, Kind: "rules"}
	}
	return applicable, nil
}

// Snapshot implements Snapshotter; a snapshot of a snapshot is itself.
func (s *Snapshot) Snapshot(_ context.Context) (*Snapshot, error) {
	return s, nil
}

var _ Repository = (*Snapshot)(nil)
var _ Snapshotter = (*Snapshot)(nil)
