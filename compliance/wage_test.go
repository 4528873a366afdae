package compliance_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/compliance-engine/compliance"
	"github.com/warp/compliance-engine/regulatory"
	"github.com/warp/compliance-engine/regulatory/store"
	"github.com/warp/compliance-engine/workforce"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decp(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// standardRules builds a repository with the overlapping-jurisdiction
// setup most tests exercise: federal $7.25, California $16.00 with daily
// overtime, Seattle local $19.97.
func standardRules(t *testing.T) *store.Memory {
	t.Helper()
	m := store.NewMemory()

	rates := []regulatory.MinimumWageRate{
		{
			ID: "fed-2009", Jurisdiction: regulatory.JurisdictionFederal, Region: "Federal",
			Rate: dec("7.25"), TippedRate: decp("2.13"), EffectiveAt: day(2009, time.July, 24),
		},
		{
			ID: "ca-2024", Jurisdiction: regulatory.JurisdictionState, Region: "California",
			Rate: dec("16.00"), EffectiveAt: day(2024, time.January, 1),
		},
		{
			ID: "wa-2024", Jurisdiction: regulatory.JurisdictionState, Region: "Washington",
			Rate: dec("16.28"), EffectiveAt: day(2024, time.January, 1),
		},
		{
			ID: "sea-2024", Jurisdiction: regulatory.JurisdictionLocal, Region: "Seattle, WA",
			Rate: dec("19.97"), EffectiveAt: day(2024, time.January, 1),
		},
	}
	rules := []regulatory.OvertimeRule{
		{
			ID: "fed-ot", Jurisdiction: regulatory.JurisdictionFederal, Region: "Federal",
			WeeklyThreshold: dec("40"), Multiplier: dec("1.5"),
			ExemptCategories: []string{"executive", "administrative", "professional"},
			EffectiveAt:      day(2020, time.January, 1),
		},
		{
			ID: "ca-ot", Jurisdiction: regulatory.JurisdictionState, Region: "California",
			DailyThreshold: decp("8"), WeeklyThreshold: dec("40"), Multiplier: dec("1.5"),
			EffectiveAt: day(2020, time.January, 1),
		},
	}
	require.NoError(t, m.Load(rates, rules))
	return m
}

func wageWorker(id, rate, location string) workforce.WageRecord {
	return workforce.WageRecord{
		WorkerID:   id,
		Name:       "Worker " + id,
		HourlyRate: dec(rate),
		Location:   location,
	}
}

func fixedClock() func() time.Time {
	return func() time.Time { return day(2025, time.June, 1) }
}

// =============================================================================
// BINDING RATE - Highest applicable jurisdiction wins
// =============================================================================

func TestWageEvaluator_StateRateBindsOverFederal(t *testing.T) {
	// GIVEN: A California worker; state $16.00 vs federal $7.25
	// WHEN: Evaluating
	// THEN: The state maximum binds, not the federal floor

	eval := compliance.NewWageEvaluator(standardRules(t))
	eval.Now = fixedClock()

	check, err := eval.Evaluate(context.Background(), wageWorker("w-1", "17.50", "California"))
	require.NoError(t, err)

	assert.True(t, check.MinimumRequired.Equal(dec("16.00")))
	assert.Equal(t, regulatory.JurisdictionState, check.Jurisdiction)
	assert.Equal(t, compliance.WageCompliant, check.Status)
}

func TestWageEvaluator_LocalOrdinanceBindsOverState(t *testing.T) {
	// GIVEN: A Seattle worker; local $19.97 vs state $16.28
	// WHEN: Evaluating
	// THEN: The local maximum binds

	eval := compliance.NewWageEvaluator(standardRules(t))
	eval.Now = fixedClock()

	check, err := eval.Evaluate(context.Background(), wageWorker("w-1", "21.00", "Seattle, WA"))
	require.NoError(t, err)

	assert.True(t, check.MinimumRequired.Equal(dec("19.97")))
	assert.Equal(t, regulatory.JurisdictionLocal, check.Jurisdiction)
}

func TestWageEvaluator_FederalOnlyLocation(t *testing.T) {
	// GIVEN: A worker in a state with no state rate on record
	// WHEN: Evaluating
	// THEN: The federal rate binds

	eval := compliance.NewWageEvaluator(standardRules(t))
	eval.Now = fixedClock()

	check, err := eval.Evaluate(context.Background(), wageWorker("w-1", "9.00", "Austin, TX"))
	require.NoError(t, err)

	assert.True(t, check.MinimumRequired.Equal(dec("7.25")))
	assert.Equal(t, regulatory.JurisdictionFederal, check.Jurisdiction)
}

// =============================================================================
// CLASSIFICATION BOUNDARIES
// =============================================================================

func TestWageEvaluator_BelowMinimum_Violation(t *testing.T) {
	// GIVEN: A California worker paid $12.00 against a $16.00 minimum
	// WHEN: Evaluating
	// THEN: Violation with a -4.00 difference

	eval := compliance.NewWageEvaluator(standardRules(t))
	eval.Now = fixedClock()

	check, err := eval.Evaluate(context.Background(), wageWorker("w-1", "12.00", "California"))
	require.NoError(t, err)

	assert.Equal(t, compliance.WageViolation, check.Status)
	assert.True(t, check.Difference.Equal(dec("-4.00")))
}

func TestWageEvaluator_ExactlyAtMinimum_Warning(t *testing.T) {
	// GIVEN: A worker paid exactly the binding minimum
	// WHEN: Evaluating
	// THEN: Warning, not violation (difference of zero is inside the cushion)

	eval := compliance.NewWageEvaluator(standardRules(t))
	eval.Now = fixedClock()

	check, err := eval.Evaluate(context.Background(), wageWorker("w-1", "16.00", "California"))
	require.NoError(t, err)

	assert.Equal(t, compliance.WageWarning, check.Status)
	assert.True(t, check.Difference.IsZero())
}

func TestWageEvaluator_InsideCushion_Warning(t *testing.T) {
	// GIVEN: A worker 50 cents above the minimum
	// WHEN: Evaluating
	// THEN: Warning

	eval := compliance.NewWageEvaluator(standardRules(t))
	eval.Now = fixedClock()

	check, err := eval.Evaluate(context.Background(), wageWorker("w-1", "16.50", "CA"))
	require.NoError(t, err)

	assert.Equal(t, compliance.WageWarning, check.Status)
}

func TestWageEvaluator_ExactlyOneDollarAbove_Compliant(t *testing.T) {
	// GIVEN: A worker exactly $1.00 above the minimum
	// WHEN: Evaluating
	// THEN: Compliant (the cushion boundary itself is compliant)

	eval := compliance.NewWageEvaluator(standardRules(t))
	eval.Now = fixedClock()

	check, err := eval.Evaluate(context.Background(), wageWorker("w-1", "17.00", "California"))
	require.NoError(t, err)

	assert.Equal(t, compliance.WageCompliant, check.Status)
}

func TestWageEvaluator_JustUnderOneDollarAbove_Warning(t *testing.T) {
	eval := compliance.NewWageEvaluator(standardRules(t))
	eval.Now = fixedClock()

	check, err := eval.Evaluate(context.Background(), wageWorker("w-1", "16.99", "California"))
	require.NoError(t, err)

	assert.Equal(t, compliance.WageWarning, check.Status)
}

// =============================================================================
// TIPPED WORKERS
// =============================================================================

func TestWageEvaluator_TippedWorker_TippedRateBinds(t *testing.T) {
	// GIVEN: A tipped worker in a federal-only location paying $5.00 base
	// WHEN: Evaluating with the federal tipped rate of $2.13
	// THEN: Compliant against the tipped rate, though below the full $7.25

	eval := compliance.NewWageEvaluator(standardRules(t))
	eval.Now = fixedClock()

	rec := wageWorker("w-1", "5.00", "Texas")
	rec.Tipped = true

	check, err := eval.Evaluate(context.Background(), rec)
	require.NoError(t, err)

	assert.True(t, check.MinimumRequired.Equal(dec("2.13")))
	assert.Equal(t, compliance.WageCompliant, check.Status)
}

func TestWageEvaluator_TippedWorker_NoTipCreditJurisdiction(t *testing.T) {
	// GIVEN: A tipped worker in California, which allows no tip credit
	// WHEN: Evaluating at $10.00
	// THEN: The full state minimum binds and the worker is in violation

	eval := compliance.NewWageEvaluator(standardRules(t))
	eval.Now = fixedClock()

	rec := wageWorker("w-1", "10.00", "California")
	rec.Tipped = true

	check, err := eval.Evaluate(context.Background(), rec)
	require.NoError(t, err)

	assert.True(t, check.MinimumRequired.Equal(dec("16.00")))
	assert.Equal(t, compliance.WageViolation, check.Status)
}

// =============================================================================
// FAILURE PROPAGATION
// =============================================================================

func TestWageEvaluator_NoApplicableRates_PropagatesError(t *testing.T) {
	// GIVEN: An empty repository
	// WHEN: Evaluating any worker
	// THEN: The no-applicable-rule error propagates to the caller

	eval := compliance.NewWageEvaluator(store.NewMemory())
	eval.Now = fixedClock()

	_, err := eval.Evaluate(context.Background(), wageWorker("w-1", "16.00", "California"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, regulatory.ErrNoApplicableRule))
}
