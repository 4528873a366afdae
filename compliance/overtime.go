/*
overtime.go - Overtime evaluation for one pay period

PURPOSE:
  Computes owed overtime for one worker's pay period under every
  applicable rule, without double counting hours that trip both the
  daily and the weekly trigger.

NON-DOUBLE-COUNTING:
  Per rule, daily overtime and weekly overtime are computed
  independently and the owed hours are their MAXIMUM, never their sum.
  The same excess hours cannot be penalized twice under both triggers:
  hours [9,10,8,8,7,0,0] under daily=8/weekly=40 owe 3 hours (daily),
  not 5.

RULE INDEPENDENCE:
  Each applicable rule is evaluated on its own; every rule producing a
  positive owed amount yields its own entry. Merging into a single
  per-worker number is the aggregator's job.

EDGE CASES:
  - Zero applicable rules: worker is skipped, not an error
  - Empty daily-hours sequence or zero totals: overtime is exactly zero
  - Owed amounts within one cent are treated as rounding noise

SEE ALSO:
  - wage.go: The per-wage counterpart
  - scan.go: Per-worker-period maximal-obligation selection
*/
package compliance

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/compliance-engine/regulatory"
	"github.com/warp/compliance-engine/workforce"
)

var (
	// centTolerance absorbs floating-point style rounding in owed amounts.
	centTolerance = decimal.RequireFromString("0.01")

	// violationFloor is the warning/violation boundary on dollars owed.
	violationFloor = decimal.NewFromInt(50)

	one = decimal.NewFromInt(1)
)

// =============================================================================
// OVERTIME EVALUATOR
// =============================================================================

// OvertimeEvaluator computes owed overtime per applicable rule.
// Stateless and safe for concurrent use.
type OvertimeEvaluator struct {
	Rules regulatory.Repository

	Now func() time.Time
}

func NewOvertimeEvaluator(rules regulatory.Repository) *OvertimeEvaluator {
	return &OvertimeEvaluator{Rules: rules}
}

func (e *OvertimeEvaluator) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now().UTC()
}

// Evaluate returns one entry per applicable rule whose owed amount
// exceeds the one-cent tolerance. A worker with zero applicable rules
// yields an empty result, not an error.
func (e *OvertimeEvaluator) Evaluate(ctx context.Context, rec workforce.TimeRecord) ([]OvertimeViolation, error) {
	if !rec.Period.Valid() {
		return nil, workforce.ErrInvalidPayPeriod
	}

	loc := regulatory.ParseLocation(rec.Location)
	rules, err := e.Rules.RulesForLocation(ctx, loc, e.now())
	if err != nil {
		if errors.Is(err, regulatory.ErrNoApplicableRule) {
			return nil, nil
		}
		return nil, err
	}

	var violations []OvertimeViolation
	for _, rule := range rules {
		if rule.Exempts(rec.JobCategory) {
			continue
		}

		overtime := overtimeHours(rec, rule)

		// Owed hours are net of overtime already paid for the period.
		owedHours := overtime.Sub(rec.OvertimePaid)
		if !owedHours.IsPositive() {
			continue
		}

		// Only the premium portion is owed: hours * rate * (multiplier - 1).
		amountOwed := owedHours.Mul(rec.HourlyRate).Mul(rule.Multiplier.Sub(one))
		if !amountOwed.GreaterThan(centTolerance) {
			continue
		}

		status := StatusWarning
		if amountOwed.GreaterThan(violationFloor) {
			status = StatusViolation
		}

		violations = append(violations, OvertimeViolation{
			WorkerID:      rec.WorkerID,
			WorkerName:    rec.Name,
			Period:        rec.Period,
			TotalHours:    rec.TotalHours,
			OvertimeHours: overtime,
			OvertimePaid:  rec.OvertimePaid,
			AmountOwed:    amountOwed,
			Status:        status,
			Rule:          rule,
		})
	}
	return violations, nil
}

// overtimeHours computes the owed overtime hours for one rule as the
// maximum of the independently computed daily and weekly triggers.
func overtimeHours(rec workforce.TimeRecord, rule regulatory.OvertimeRule) decimal.Decimal {
	daily := decimal.Zero
	if rule.DailyThreshold != nil {
		for _, hours := range rec.DailyHours {
			if excess := hours.Sub(*rule.DailyThreshold); excess.IsPositive() {
				daily = daily.Add(excess)
			}
		}
	}

	weekly := rec.TotalHours.Sub(rule.WeeklyThreshold)
	if weekly.IsNegative() {
		weekly = decimal.Zero
	}

	if daily.GreaterThan(weekly) {
		return daily
	}
	return weekly
}

// MaxObligation returns the entry with the largest owed amount among a
// worker-period's violations, for callers that need a single number.
// Ties resolve to the first entry in stable rule order.
func MaxObligation(violations []OvertimeViolation) (OvertimeViolation, bool) {
	if len(violations) == 0 {
		return OvertimeViolation{}, false
	}
	max := violations[0]
	for _, v := range violations[1:] {
		if v.AmountOwed.GreaterThan(max.AmountOwed) {
			max = v
		}
	}
	return max, true
}
