/*
wage.go - Minimum-wage evaluation

PURPOSE:
  Resolves the single binding minimum-wage rate for one worker (the
  highest among all applicable jurisdictions) and classifies the worker's
  current wage against it.

CLASSIFICATION BOUNDARIES (exact):
  difference < 0            -> violation
  0 <= difference < 1.00    -> warning  (inside the one-dollar cushion)
  difference >= 1.00        -> compliant

  A worker paid exactly the minimum is a warning, not a violation; a
  worker paid exactly minimum + 1.00 is compliant.

PRECEDENCE:
  Lower-precedence rules never win: the binding rate is the maximum over
  applicable records. When two same-level records tie at the maximum the
  first in stable record order is reported; no precedence between
  same-level ordinances is invented.

SEE ALSO:
  - overtime.go: The pay-period counterpart
  - scan.go: Population-wide evaluation
*/
package compliance

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/compliance-engine/regulatory"
	"github.com/warp/compliance-engine/workforce"
)

// warningCushion is the compliant/warning boundary: a wage at least this
// far above the minimum is compliant.
var warningCushion = decimal.NewFromInt(1)

// =============================================================================
// WAGE EVALUATOR
// =============================================================================

// WageEvaluator classifies workers against the binding minimum wage.
// Stateless and safe for concurrent use; evaluating a population is
// embarrassingly parallel.
type WageEvaluator struct {
	Rules regulatory.Repository

	// Now supplies the evaluation timestamp. Defaults to time.Now.
	Now func() time.Time
}

func NewWageEvaluator(rules regulatory.Repository) *WageEvaluator {
	return &WageEvaluator{Rules: rules}
}

func (e *WageEvaluator) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now().UTC()
}

// Evaluate resolves the binding rate for one worker and classifies the
// current wage. Returns NoApplicableRuleError (wrapped) when the worker's
// location resolves to zero rate records.
func (e *WageEvaluator) Evaluate(ctx context.Context, rec workforce.WageRecord) (*WageCheck, error) {
	asOf := e.now()
	loc := regulatory.ParseLocation(rec.Location)

	rates, err := e.Rules.RatesForLocation(ctx, loc, asOf)
	if err != nil {
		return nil, err
	}

	binding := bindingRate(rates, rec.Tipped)
	required := binding.Rate
	if rec.Tipped && binding.TippedRate != nil {
		required = *binding.TippedRate
	}

	diff := rec.HourlyRate.Sub(required)

	return &WageCheck{
		WorkerID:        rec.WorkerID,
		WorkerName:      rec.Name,
		CurrentWage:     rec.HourlyRate,
		MinimumRequired: required,
		Jurisdiction:    binding.Jurisdiction,
		Region:          binding.Region,
		Status:          classifyWage(diff),
		Difference:      diff,
		EvaluatedAt:     asOf,
	}, nil
}

// bindingRate picks the record with the highest governing rate. For
// tipped workers the comparison uses the tipped rate where one exists,
// since that is the rate that actually binds their pay.
func bindingRate(rates []regulatory.MinimumWageRate, tipped bool) regulatory.MinimumWageRate {
	binding := rates[0]
	bindingValue := governingRate(binding, tipped)
	for _, r := range rates[1:] {
		if v := governingRate(r, tipped); v.GreaterThan(bindingValue) {
			binding = r
			bindingValue = v
		}
	}
	return binding
}

func governingRate(r regulatory.MinimumWageRate, tipped bool) decimal.Decimal {
	if tipped && r.TippedRate != nil {
		return *r.TippedRate
	}
	return r.Rate
}

func classifyWage(diff decimal.Decimal) WageStatus {
	switch {
	case diff.IsNegative():
		return WageViolation
	case diff.LessThan(warningCushion):
		return WageWarning
	default:
		return WageCompliant
	}
}
