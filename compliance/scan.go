/*
scan.go - Population-wide aggregation and scoring

PURPOSE:
  Runs both evaluators across the full worker population and derives the
  fleet-wide read: a 0-100 compliance score, the at-risk worker count,
  and ranked findings per violation category.

CONSISTENT READS:
  The repository is snapshotted once at pass start; every worker in the
  pass is judged against the same rule version. Rule maintenance cannot
  interleave with an in-flight pass.

SCORING:
  overallScore = clamp(round(100 - violations/workers * 20), 0, 100)
  Monotonically non-increasing in violation density; 100 when the
  population is clean or empty.

PARTIAL FAILURE:
  A failure in one worker's evaluation (unknown worker, unresolvable
  location) is recorded as a diagnostic and the worker leaves the score
  denominator. It never aborts the pass.

CONCURRENCY:
  Evaluation is stateless per worker, so workers are fanned out on a
  bounded errgroup. Results land in preallocated index slots; no shared
  mutable state, and output order is deterministic.

SEE ALSO:
  - wage.go, overtime.go: The per-worker evaluators
  - severity.go: Finding severity and penalty configuration
  - trend.go: Rolling score history
*/
package compliance

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/warp/compliance-engine/regulatory"
	"github.com/warp/compliance-engine/workforce"
)

// standardAnnualHours annualizes a per-hour wage shortfall into a
// back-pay exposure estimate (40 hours x 52 weeks).
var standardAnnualHours = decimal.NewFromInt(2080)

var scorePenaltyPerDensity = decimal.NewFromInt(20)

// =============================================================================
// SCANNER - Runs the full-population compliance pass
// =============================================================================

// Scanner aggregates wage and overtime evaluation across a population.
type Scanner struct {
	Rules   regulatory.Snapshotter
	Workers workforce.Directory

	// Severity defaults to DefaultSeverityTable().
	Severity SeverityTable

	// PenaltyMultiplier scales exposure into potential penalty.
	// Defaults to DefaultPenaltyMultiplier (double damages).
	PenaltyMultiplier decimal.Decimal

	// Parallelism bounds concurrent worker evaluations.
	// Defaults to GOMAXPROCS.
	Parallelism int

	// Trend, when set, receives one immutable score snapshot per run and
	// supplies the rolling history included in the report.
	Trend TrendSink

	Now func() time.Time
}

// NewScanner wires a scanner with defaults.
func NewScanner(rules regulatory.Snapshotter, workers workforce.Directory) *Scanner {
	return &Scanner{
		Rules:             rules,
		Workers:           workers,
		Severity:          DefaultSeverityTable(),
		PenaltyMultiplier: DefaultPenaltyMultiplier,
	}
}

func (s *Scanner) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

func (s *Scanner) parallelism() int {
	if s.Parallelism > 0 {
		return s.Parallelism
	}
	return runtime.GOMAXPROCS(0)
}

func (s *Scanner) severity() SeverityTable {
	if s.Severity != nil {
		return s.Severity
	}
	return DefaultSeverityTable()
}

func (s *Scanner) penaltyMultiplier() decimal.Decimal {
	if s.PenaltyMultiplier.IsPositive() {
		return s.PenaltyMultiplier
	}
	return DefaultPenaltyMultiplier
}

// Run executes one full compliance pass. Only infrastructure failures
// (snapshot, directory listing, cancellation) abort the pass; per-worker
// evaluation failures become diagnostics.
func (s *Scanner) Run(ctx context.Context) (*ScanReport, error) {
	startedAt := s.now()

	// One consistent rule snapshot for the whole pass.
	snap, err := s.Rules.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("snapshot rules: %w", err)
	}

	wageRecords, err := s.Workers.ListWageRecords(ctx)
	if err != nil {
		return nil, fmt.Errorf("list wage records: %w", err)
	}
	timeRecords, err := s.Workers.ListTimeRecords(ctx)
	if err != nil {
		return nil, fmt.Errorf("list time records: %w", err)
	}

	fixedNow := func() time.Time { return startedAt }
	wageEval := &WageEvaluator{Rules: snap, Now: fixedNow}
	overtimeEval := &OvertimeEvaluator{Rules: snap, Now: fixedNow}

	// Index slots keep result order deterministic without shared state.
	wageResults := make([]*WageCheck, len(wageRecords))
	wageErrs := make([]error, len(wageRecords))
	overtimeResults := make([][]OvertimeViolation, len(timeRecords))
	overtimeErrs := make([]error, len(timeRecords))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.parallelism())

	for i, rec := range wageRecords {
		i, rec := i, rec
		g.Go(func() error {
			check, err := wageEval.Evaluate(gctx, rec)
			wageResults[i], wageErrs[i] = check, err
			return nil
		})
	}
	for i, rec := range timeRecords {
		i, rec := i, rec
		g.Go(func() error {
			violations, err := overtimeEval.Evaluate(gctx, rec)
			overtimeResults[i], overtimeErrs[i] = violations, err
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	report := s.aggregate(startedAt, snap, wageRecords, timeRecords,
		wageResults, wageErrs, overtimeResults, overtimeErrs)

	if s.Trend != nil {
		snapEntry := ScoreSnapshot{
			RunID:      report.RunID,
			At:         report.CompletedAt,
			Score:      report.OverallScore,
			Violations: report.TotalViolations,
		}
		if err := s.Trend.Record(ctx, snapEntry); err != nil {
			return nil, fmt.Errorf("record trend: %w", err)
		}
		history, err := s.Trend.Recent(ctx, trendWindowDefault)
		if err != nil {
			return nil, fmt.Errorf("load trend: %w", err)
		}
		report.Trend = history
	}

	return report, nil
}

// =============================================================================
// AGGREGATION
// =============================================================================

func (s *Scanner) aggregate(
	startedAt time.Time,
	snap *regulatory.Snapshot,
	wageRecords []workforce.WageRecord,
	timeRecords []workforce.TimeRecord,
	wageResults []*WageCheck,
	wageErrs []error,
	overtimeResults [][]OvertimeViolation,
	overtimeErrs []error,
) *ScanReport {
	report := &ScanReport{
		RunID:       uuid.NewString(),
		StartedAt:   startedAt,
		RuleVersion: snap.Version(),
	}

	atRisk := make(map[string]struct{})

	// Wage side.
	var wageViolationCount int
	wageShortfall := decimal.Zero // per-hour shortfall summed over violators
	var wageAffected []string
	for i, check := range wageResults {
		if wageErrs[i] != nil {
			report.Diagnostics = append(report.Diagnostics, Diagnostic{
				WorkerID: wageRecords[i].WorkerID,
				Stage:    "wage",
				Reason:   wageErrs[i].Error(),
			})
			continue
		}
		report.WorkersEvaluated++
		report.WageChecks = append(report.WageChecks, *check)

		switch check.Status {
		case WageViolation:
			wageViolationCount++
			wageShortfall = wageShortfall.Add(check.Difference.Neg())
			wageAffected = append(wageAffected, check.WorkerID)
			atRisk[check.WorkerID] = struct{}{}
		case WageWarning:
			// Inside the cushion: at risk, but not a scored violation.
			atRisk[check.WorkerID] = struct{}{}
		}
	}

	// Overtime side: one maximal-obligation entry per worker-period feeds
	// the counters; every entry is reported.
	var overtimeViolationCount int
	overtimeOwed := decimal.Zero
	var overtimeAffected []string
	overtimeAffectedSeen := make(map[string]struct{})
	for i, violations := range overtimeResults {
		if overtimeErrs[i] != nil {
			report.Diagnostics = append(report.Diagnostics, Diagnostic{
				WorkerID: timeRecords[i].WorkerID,
				Stage:    "overtime",
				Reason:   overtimeErrs[i].Error(),
			})
			continue
		}
		report.OvertimeViolations = append(report.OvertimeViolations, violations...)

		max, ok := MaxObligation(violations)
		if !ok {
			continue
		}
		atRisk[max.WorkerID] = struct{}{}
		overtimeOwed = overtimeOwed.Add(max.AmountOwed)
		if max.Status == StatusViolation {
			overtimeViolationCount++
			if _, seen := overtimeAffectedSeen[max.WorkerID]; !seen {
				overtimeAffectedSeen[max.WorkerID] = struct{}{}
				overtimeAffected = append(overtimeAffected, max.WorkerID)
			}
		}
	}

	report.TotalViolations = wageViolationCount + overtimeViolationCount
	report.EmployeesAtRisk = len(atRisk)
	report.OverallScore = overallScore(report.TotalViolations, report.WorkersEvaluated)

	sortViolations(report.OvertimeViolations)

	// Findings, ranked by severity then exposure.
	if wageViolationCount > 0 {
		exposure := wageShortfall.Mul(standardAnnualHours)
		sort.Strings(wageAffected)
		report.Findings = append(report.Findings, Finding{
			ID:                report.RunID + "-minimum-wage",
			Type:              FindingMinimumWage,
			Severity:          s.severity().Classify(FindingMinimumWage, exposure),
			AffectedCount:     len(wageAffected),
			AffectedWorkerIDs: wageAffected,
			Description: fmt.Sprintf(
				"%d worker(s) paid below the binding minimum wage; estimated annualized underpayment $%s",
				len(wageAffected), exposure.StringFixed(2)),
			PotentialPenalty: exposure.Mul(s.penaltyMultiplier()),
			Remediation:      "Raise affected workers to at least the binding minimum wage and issue back pay for the underpaid period.",
		})
	}
	if overtimeViolationCount > 0 {
		sort.Strings(overtimeAffected)
		report.Findings = append(report.Findings, Finding{
			ID:                report.RunID + "-overtime",
			Type:              FindingOvertime,
			Severity:          s.severity().Classify(FindingOvertime, overtimeOwed),
			AffectedCount:     len(overtimeAffected),
			AffectedWorkerIDs: overtimeAffected,
			Description: fmt.Sprintf(
				"%d worker(s) owed unpaid overtime totaling $%s for the scanned pay periods",
				len(overtimeAffected), overtimeOwed.StringFixed(2)),
			PotentialPenalty: overtimeOwed.Mul(s.penaltyMultiplier()),
			Remediation:      "Pay the outstanding overtime premium and review time-tracking for the affected pay periods.",
		})
	}
	rankFindings(report.Findings)

	report.CompletedAt = s.now()
	return report
}

// overallScore maps violation density to a 0-100 health score.
func overallScore(violations, workers int) int {
	if workers == 0 || violations == 0 {
		return 100
	}
	density := decimal.NewFromInt(int64(violations)).
		Div(decimal.NewFromInt(int64(workers)))
	score := decimal.NewFromInt(100).Sub(density.Mul(scorePenaltyPerDensity))
	rounded := int(score.Round(0).IntPart())
	if rounded < 0 {
		return 0
	}
	if rounded > 100 {
		return 100
	}
	return rounded
}

func sortViolations(violations []OvertimeViolation) {
	sort.Slice(violations, func(i, j int) bool {
		a, b := violations[i], violations[j]
		if a.WorkerID != b.WorkerID {
			return a.WorkerID < b.WorkerID
		}
		if !a.Period.Start.Equal(b.Period.Start) {
			return a.Period.Start.Before(b.Period.Start)
		}
		return a.Rule.ID < b.Rule.ID
	})
}

var severityRank = map[Severity]int{
	SeverityCritical: 0,
	SeverityHigh:     1,
	SeverityMedium:   2,
	SeverityLow:      3,
}

func rankFindings(findings []Finding) {
	sort.Slice(findings, func(i, j int) bool {
		a, b := findings[i], findings[j]
		if severityRank[a.Severity] != severityRank[b.Severity] {
			return severityRank[a.Severity] < severityRank[b.Severity]
		}
		if !a.PotentialPenalty.Equal(b.PotentialPenalty) {
			return a.PotentialPenalty.GreaterThan(b.PotentialPenalty)
		}
		return a.Type < b.Type
	})
}
