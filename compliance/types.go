/*
Package compliance implements the wage & hour compliance engine: per-worker
wage and overtime evaluation against overlapping jurisdiction rules, plus
fleet-wide aggregation into a score and ranked findings.

PURPOSE:
  Determines, per worker, whether pay and overtime practices satisfy the
  highest applicable legal requirement, and rolls results up into a 0-100
  compliance score with actionable findings.

KEY CONCEPTS IN THIS FILE (types.go):
  - WageCheck: One worker's minimum-wage evaluation (ephemeral)
  - OvertimeViolation: One owed-overtime entry for a worker/period/rule
  - Finding: An aggregated summary of one violation category
  - ScanReport: The full output of a population scan

DESIGN PRINCIPLES:
  1. Ephemeral outputs: checks and violations are recomputed per
     evaluation, never persisted by this package
  2. Max, not sum: the binding minimum wage is the maximum applicable
     rate; owed overtime per rule is the maximum of the daily and weekly
     triggers, never their sum
  3. Determinism: identical inputs produce identical reports

SEE ALSO:
  - wage.go: Minimum-wage evaluation and boundary classification
  - overtime.go: Daily/weekly threshold arithmetic
  - scan.go: Population aggregation and scoring
  - severity.go: Severity and penalty configuration
*/
package compliance

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/compliance-engine/regulatory"
	"github.com/warp/compliance-engine/workforce"
)

// =============================================================================
// WAGE CHECK - Per-worker minimum wage evaluation
// =============================================================================

type WageStatus string

const (
	WageCompliant WageStatus = "compliant"
	WageWarning   WageStatus = "warning"
	WageViolation WageStatus = "violation"
	WageUnknown   WageStatus = "unknown"
)

// WageCheck is the result of evaluating one worker's current wage against
// the binding minimum. Recomputed per evaluation, never persisted.
type WageCheck struct {
	WorkerID   string
	WorkerName string

	CurrentWage     decimal.Decimal
	MinimumRequired decimal.Decimal

	// The jurisdiction whose rate won the maximum.
	Jurisdiction regulatory.Jurisdiction
	Region       string

	Status WageStatus

	// Difference is signed: CurrentWage - MinimumRequired.
	Difference decimal.Decimal

	EvaluatedAt time.Time
}

// =============================================================================
// OVERTIME VIOLATION - Per worker/period/rule owed overtime
// =============================================================================

type ViolationStatus string

const (
	StatusWarning   ViolationStatus = "warning"
	StatusViolation ViolationStatus = "violation"
)

// OvertimeViolation is one positive owed-overtime result for a worker,
// pay period, and rule. When several rules apply, each that produces a
// positive owed amount yields its own entry; the aggregator picks the
// maximal-obligation entry per worker-period when a single number is
// needed.
type OvertimeViolation struct {
	WorkerID   string
	WorkerName string

	Period workforce.PayPeriod

	TotalHours    decimal.Decimal
	OvertimeHours decimal.Decimal // max(daily, weekly) trigger, never the sum
	OvertimePaid  decimal.Decimal

	AmountOwed decimal.Decimal
	Status     ViolationStatus

	// Rule is the specific rule that produced this obligation.
	Rule regulatory.OvertimeRule
}

// =============================================================================
// FINDINGS - Aggregated, human-readable summaries
// =============================================================================

type FindingType string

const (
	FindingMinimumWage FindingType = "minimum_wage"
	FindingOvertime    FindingType = "overtime"
)

type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Finding summarizes one violation category across the population.
type Finding struct {
	ID   string
	Type FindingType

	Severity Severity

	AffectedCount     int
	AffectedWorkerIDs []string

	Description string

	// PotentialPenalty is the configured multiplier applied to the total
	// underpayment / overtime-owed exposure for this category.
	PotentialPenalty decimal.Decimal

	Remediation string
}

// Diagnostic records a per-worker evaluation failure during a scan.
// The worker is excluded from the score denominator; the scan continues.
type Diagnostic struct {
	WorkerID string
	Stage    string // "wage" or "overtime"
	Reason   string
}

// =============================================================================
// SCAN REPORT - Full output of a population pass
// =============================================================================

// ScoreSnapshot is one immutable point in the score trend history.
type ScoreSnapshot struct {
	RunID      string
	At         time.Time
	Score      int
	Violations int
}

// ScanReport is the result of running both evaluators across the full
// worker population against one rule snapshot.
type ScanReport struct {
	RunID       string
	StartedAt   time.Time
	CompletedAt time.Time

	// RuleVersion identifies the repository snapshot the pass was judged
	// against; every worker in the pass saw the same version.
	RuleVersion int64

	WorkersEvaluated int

	OverallScore    int
	TotalViolations int
	EmployeesAtRisk int

	WageChecks         []WageCheck
	OvertimeViolations []OvertimeViolation
	Findings           []Finding
	Diagnostics        []Diagnostic

	Trend []ScoreSnapshot
}
