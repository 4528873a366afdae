package sqlite_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/compliance-engine/compliance"
	"github.com/warp/compliance-engine/factory"
	"github.com/warp/compliance-engine/regulatory"
	"github.com/warp/compliance-engine/store/sqlite"
	"github.com/warp/compliance-engine/workforce"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

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

// =============================================================================
// REGULATORY RECORD ROUND-TRIPS
// =============================================================================

func TestStore_SaveRate_RoundTrip(t *testing.T) {
	// GIVEN: A rate record with every optional field populated
	// WHEN: Saving and reading back through a snapshot
	// THEN: All fields survive with exact decimal values

	ctx := context.Background()
	store := newTestStore(t)

	nextAt := day(2026, time.January, 1)
	rate := regulatory.MinimumWageRate{
		ID:               "ca-2024",
		Jurisdiction:     regulatory.JurisdictionState,
		Region:           "California",
		Rate:             dec("16.00"),
		TippedRate:       decp("16.00"),
		EffectiveAt:      day(2024, time.January, 1),
		NextIncreaseAt:   &nextAt,
		NextIncreaseRate: decp("16.50"),
	}
	require.NoError(t, store.SaveRate(ctx, rate))

	snap, err := store.Snapshot(ctx)
	require.NoError(t, err)
	rates := snap.Rates()
	require.Len(t, rates, 1)

	got := rates[0]
	assert.Equal(t, rate.ID, got.ID)
	assert.Equal(t, rate.Jurisdiction, got.Jurisdiction)
	assert.True(t, got.Rate.Equal(dec("16.00")))
	require.NotNil(t, got.TippedRate)
	assert.True(t, got.TippedRate.Equal(dec("16.00")))
	assert.True(t, got.EffectiveAt.Equal(rate.EffectiveAt))
	require.NotNil(t, got.NextIncreaseAt)
	assert.True(t, got.NextIncreaseAt.Equal(nextAt))
	require.NotNil(t, got.NextIncreaseRate)
	assert.True(t, got.NextIncreaseRate.Equal(dec("16.50")))
}

func TestStore_SaveRule_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	rule := regulatory.OvertimeRule{
		ID:               "ca-ot",
		Jurisdiction:     regulatory.JurisdictionState,
		Region:           "California",
		DailyThreshold:   decp("8"),
		WeeklyThreshold:  dec("40"),
		Multiplier:       dec("1.5"),
		ExemptCategories: []string{"executive", "administrative"},
		EffectiveAt:      day(2024, time.January, 1),
	}
	require.NoError(t, store.SaveRule(ctx, rule))

	snap, err := store.Snapshot(ctx)
	require.NoError(t, err)
	rules := snap.Rules()
	require.Len(t, rules, 1)

	got := rules[0]
	require.NotNil(t, got.DailyThreshold)
	assert.True(t, got.DailyThreshold.Equal(dec("8")))
	assert.True(t, got.WeeklyThreshold.Equal(dec("40")))
	assert.Equal(t, []string{"executive", "administrative"}, got.ExemptCategories)
}

func TestStore_VersionBumpsOnEveryRuleWrite(t *testing.T) {
	// GIVEN: A fresh store
	// WHEN: Writing rates and rules
	// THEN: Each write produces a strictly newer snapshot version

	ctx := context.Background()
	store := newTestStore(t)

	snap, err := store.Snapshot(ctx)
	require.NoError(t, err)
	v0 := snap.Version()

	require.NoError(t, store.SaveRate(ctx, regulatory.MinimumWageRate{
		ID: "fed", Jurisdiction: regulatory.JurisdictionFederal, Region: "Federal",
		Rate: dec("7.25"), EffectiveAt: day(2009, time.July, 24),
	}))
	snap, err = store.Snapshot(ctx)
	require.NoError(t, err)
	v1 := snap.Version()
	assert.Greater(t, v1, v0)

	require.NoError(t, store.SaveRule(ctx, regulatory.OvertimeRule{
		ID: "fed-ot", Jurisdiction: regulatory.JurisdictionFederal, Region: "Federal",
		WeeklyThreshold: dec("40"), Multiplier: dec("1.5"), EffectiveAt: day(2020, time.January, 1),
	}))
	snap, err = store.Snapshot(ctx)
	require.NoError(t, err)
	assert.Greater(t, snap.Version(), v1)
}

func TestStore_LoadRuleTable_ReplacesPreviousSet(t *testing.T) {
	// GIVEN: A store seeded with the standard table
	// WHEN: Loading a single-rate table
	// THEN: Only the new records remain

	ctx := context.Background()
	store := newTestStore(t)

	rates, rules := factory.StandardTable()
	require.NoError(t, store.LoadRuleTable(ctx, rates, rules))

	snap, err := store.Snapshot(ctx)
	require.NoError(t, err)
	require.Len(t, snap.Rates(), len(rates))

	replacement, _ := factory.FederalBaseline()
	require.NoError(t, store.LoadRuleTable(ctx, replacement, nil))

	snap, err = store.Snapshot(ctx)
	require.NoError(t, err)
	assert.Len(t, snap.Rates(), 1)
	assert.Empty(t, snap.Rules())
}

func TestStore_RatesForLocation_NoApplicableRecords(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	_, err := store.RatesForLocation(ctx, regulatory.ParseLocation("California"), day(2025, time.June, 1))
	require.Error(t, err)
	assert.True(t, errors.Is(err, regulatory.ErrNoApplicableRule))
}

// =============================================================================
// WORKFORCE DIRECTORY
// =============================================================================

func TestStore_WageRecord_RoundTripAndUpsert(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	rec := workforce.WageRecord{
		WorkerID:    "w-1",
		Name:        "Dana Reed",
		HourlyRate:  dec("18.75"),
		Location:    "Los Angeles, CA",
		JobCategory: "line_cook",
		Tipped:      true,
	}
	require.NoError(t, store.SaveWageRecord(ctx, rec))

	got, err := store.WageRecord(ctx, "w-1")
	require.NoError(t, err)
	assert.Equal(t, rec.Name, got.Name)
	assert.True(t, got.HourlyRate.Equal(dec("18.75")))
	assert.True(t, got.Tipped)

	// Upsert replaces in place.
	rec.HourlyRate = dec("19.25")
	require.NoError(t, store.SaveWageRecord(ctx, rec))

	got, err = store.WageRecord(ctx, "w-1")
	require.NoError(t, err)
	assert.True(t, got.HourlyRate.Equal(dec("19.25")))

	list, err := store.ListWageRecords(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestStore_WageRecord_NotFound(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	_, err := store.WageRecord(ctx, "w-404")
	require.Error(t, err)
	assert.True(t, errors.Is(err, workforce.ErrWorkerNotFound))

	var nf *workforce.WorkerNotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, "w-404", nf.WorkerID)
}

func TestStore_TimeRecord_RoundTrip(t *testing.T) {
	// GIVEN: A time record with fractional daily hours
	// WHEN: Saving and reading back
	// THEN: The daily-hours sequence survives exactly, in order

	ctx := context.Background()
	store := newTestStore(t)

	period := workforce.PayPeriod{Start: day(2025, time.March, 3), End: day(2025, time.March, 9)}
	rec := workforce.TimeRecord{
		WorkerID:     "w-1",
		Name:         "Dana Reed",
		Location:     "California",
		Period:       period,
		DailyHours:   []decimal.Decimal{dec("9.5"), dec("10"), dec("8"), dec("8"), dec("7.25")},
		TotalHours:   dec("42.75"),
		OvertimePaid: dec("1"),
		HourlyRate:   dec("20.00"),
		JobCategory:  "line_cook",
	}
	require.NoError(t, store.SaveTimeRecord(ctx, rec))

	got, err := store.TimeRecord(ctx, "w-1", period)
	require.NoError(t, err)
	require.Len(t, got.DailyHours, 5)
	assert.True(t, got.DailyHours[0].Equal(dec("9.5")))
	assert.True(t, got.DailyHours[4].Equal(dec("7.25")))
	assert.True(t, got.TotalHours.Equal(dec("42.75")))
	assert.True(t, got.OvertimePaid.Equal(dec("1")))
	assert.True(t, got.Period.Start.Equal(period.Start))
}

func TestStore_TimeRecord_InvalidPeriodRejected(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	bad := workforce.PayPeriod{Start: day(2025, time.March, 9), End: day(2025, time.March, 3)}

	err := store.SaveTimeRecord(ctx, workforce.TimeRecord{WorkerID: "w-1", Period: bad})
	assert.ErrorIs(t, err, workforce.ErrInvalidPayPeriod)

	_, err = store.TimeRecord(ctx, "w-1", bad)
	assert.ErrorIs(t, err, workforce.ErrInvalidPayPeriod)
}

func TestStore_ListTimeRecords_Ordered(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	for i, id := range []string{"w-2", "w-1", "w-2"} {
		start := day(2025, time.March, 3+7*i)
		require.NoError(t, store.SaveTimeRecord(ctx, workforce.TimeRecord{
			WorkerID:     id,
			Period:       workforce.PayPeriod{Start: start, End: start.AddDate(0, 0, 6)},
			TotalHours:   dec("40"),
			OvertimePaid: decimal.Zero,
			HourlyRate:   dec("20"),
		}))
	}

	list, err := store.ListTimeRecords(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "w-1", list[0].WorkerID)
	assert.Equal(t, "w-2", list[1].WorkerID)
	assert.True(t, list[1].Period.Start.Before(list[2].Period.Start))
}

// =============================================================================
// SCORE TREND
// =============================================================================

func TestStore_Trend_RecordAndRecent(t *testing.T) {
	// GIVEN: Five recorded snapshots
	// WHEN: Asking for the three most recent
	// THEN: Returned oldest first

	ctx := context.Background()
	store := newTestStore(t)

	base := day(2025, time.June, 1)
	for i := 0; i < 5; i++ {
		require.NoError(t, store.Record(ctx, compliance.ScoreSnapshot{
			RunID:      fmt.Sprintf("run-%d", i),
			At:         base.Add(time.Duration(i) * time.Hour),
			Score:      90 + i,
			Violations: 5 - i,
		}))
	}

	recent, err := store.Recent(ctx, 3)
	require.NoError(t, err)
	require.Len(t, recent, 3)
	assert.Equal(t, "run-2", recent[0].RunID)
	assert.Equal(t, "run-4", recent[2].RunID)
	assert.Equal(t, 94, recent[2].Score)
	assert.Equal(t, 1, recent[2].Violations)
}

// =============================================================================
// SCANNER INTEGRATION - The store as every injected data source at once
// =============================================================================

func TestStore_ScannerEndToEnd(t *testing.T) {
	// GIVEN: A store seeded with the standard table, one wage violator
	//        and one unpaid-overtime worker
	// WHEN: Running a full scan with the store as rules, directory, and sink
	// THEN: Both issues are found and the score snapshot is persisted

	ctx := context.Background()
	store := newTestStore(t)

	rates, rules := factory.StandardTable()
	require.NoError(t, store.LoadRuleTable(ctx, rates, rules))

	require.NoError(t, store.SaveWageRecord(ctx, workforce.WageRecord{
		WorkerID: "w-1", Name: "Dev Patel", HourlyRate: dec("12.00"), Location: "California",
	}))
	require.NoError(t, store.SaveWageRecord(ctx, workforce.WageRecord{
		WorkerID: "w-2", Name: "Gus Moreno", HourlyRate: dec("22.00"), Location: "Texas",
	}))
	require.NoError(t, store.SaveTimeRecord(ctx, workforce.TimeRecord{
		WorkerID: "w-2", Name: "Gus Moreno", Location: "Texas",
		Period:     workforce.PayPeriod{Start: day(2025, time.March, 3), End: day(2025, time.March, 9)},
		DailyHours: []decimal.Decimal{dec("10"), dec("10"), dec("9"), dec("9"), dec("8")},
		TotalHours: dec("46"), OvertimePaid: decimal.Zero, HourlyRate: dec("22.00"),
	}))

	scanner := compliance.NewScanner(store, store)
	scanner.Trend = store
	scanner.Now = func() time.Time { return day(2025, time.June, 1) }

	report, err := scanner.Run(ctx)
	require.NoError(t, err)

	assert.Equal(t, 2, report.WorkersEvaluated)
	assert.Equal(t, 2, report.TotalViolations)
	assert.Equal(t, 2, report.EmployeesAtRisk)
	assert.Len(t, report.Findings, 2)
	require.Len(t, report.Trend, 1)
	assert.Equal(t, report.RunID, report.Trend[0].RunID)

	// History is durable across scanner instances.
	recent, err := store.Recent(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, recent, 1)
}
