/*
Package workforce defines the worker-side inputs to compliance evaluation
and the directory contract that supplies them.

PURPOSE:
  The compliance engine does not own worker data. An external HR
  collaborator supplies wage records and pay-period time records; this
  package defines their shapes and the Directory interface the engine
  reads them through.

KEY CONCEPTS:
  - WageRecord: A worker's current hourly rate and location
  - TimeRecord: One pay period of daily hours for a worker
  - PayPeriod: Inclusive start/end bounds of a pay period
  - Directory: Lookup and bulk listing of records

DESIGN PRINCIPLES:
  1. Inputs only: This package never stores evaluation results
  2. Precision: decimal.Decimal for wages and hours
  3. Read-only during scans: the Directory has no writers mid-pass

SEE ALSO:
  - directory.go: Directory interface, memory implementation, errors
  - ../compliance: The evaluators consuming these records
*/
package workforce

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// PAY PERIOD
// =============================================================================

// PayPeriod is an inclusive [Start, End] pay-period boundary.
type PayPeriod struct {
	Start time.Time
	End   time.Time
}

// Valid reports whether the period is well-formed (end not before start).
func (p PayPeriod) Valid() bool {
	return !p.Start.IsZero() && !p.End.IsZero() && !p.End.Before(p.Start)
}

func (p PayPeriod) String() string {
	return "[" + p.Start.Format("2006-01-02") + ", " + p.End.Format("2006-01-02") + "]"
}

// =============================================================================
// WAGE RECORD - Current pay for one worker
// =============================================================================

// WageRecord is a worker's current hourly rate, as supplied by the HR
// collaborator.
type WageRecord struct {
	WorkerID    string
	Name        string
	HourlyRate  decimal.Decimal
	Location    string // raw location label, e.g. "Los Angeles, CA"
	JobCategory string // used for overtime exemptions
	Tipped      bool   // worker is paid under a tipped-rate scheme
}

// =============================================================================
// TIME RECORD - One pay period of hours for one worker
// =============================================================================

// TimeRecord is one worker's hours for a single pay period.
type TimeRecord struct {
	WorkerID string
	Name     string
	Location string
	Period   PayPeriod

	// DailyHours holds one entry per calendar day in the period, in order.
	// May be empty for workers with no recorded time; that means zero
	// overtime, never an error.
	DailyHours []decimal.Decimal

	TotalHours decimal.Decimal

	// OvertimePaid is overtime hours already paid out for this period.
	OvertimePaid decimal.Decimal

	// OvertimeComped is overtime hours already granted as comp time.
	// Carried for reporting; it does not offset the owed computation.
	OvertimeComped decimal.Decimal

	HourlyRate  decimal.Decimal
	JobCategory string
}
