/*
scenarios.go - Demo scenario loaders for testing and demonstrations

PURPOSE:

	Provides pre-built scenarios that populate the database with realistic
	data for testing and demos. Each scenario loads a rule table and a
	small workforce that exercises specific evaluator behavior.

AVAILABLE SCENARIOS:

	clean-fleet:        Everyone comfortably above minimum, no overtime owed
	california-exposure: Underpaid workers in California (state rate wins)
	overtime-hotspot:   Daily-threshold overtime under the California rule
	mixed-jurisdictions: Federal, state, and local rates in one population

HOW SCENARIOS WORK:
 1. Reset database (clear all data)
 2. Load a preset rule table via factory
 3. Insert worker wage and time records

USAGE VIA API:

	POST /api/scenarios/load
	{"scenario_id": "california-exposure"}

NOTE:

	Scenarios reset the database. Only use in development/demo environments.

SEE ALSO:
  - handlers.go: Router wiring
  - factory/presets.go: Rule tables used here
*/
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/compliance-engine/factory"
	"github.com/warp/compliance-engine/workforce"
)

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

var scenarios = []ScenarioDTO{
	{
		ID:          "clean-fleet",
		Name:        "Clean Fleet",
		Description: "All workers comfortably above minimum wage with no unpaid overtime",
	},
	{
		ID:          "california-exposure",
		Name:        "California Exposure",
		Description: "Workers below the California state minimum; the state rate outranks federal",
	},
	{
		ID:          "overtime-hotspot",
		Name:        "Overtime Hotspot",
		Description: "Daily-threshold overtime under the California rule, partially unpaid",
	},
	{
		ID:          "mixed-jurisdictions",
		Name:        "Mixed Jurisdictions",
		Description: "Federal, state, and local rates competing across several locations",
	},
}

// ListScenarios returns the available demo scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, scenarios)
}

// LoadScenario resets the database and loads the requested scenario.
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	ctx := r.Context()
	if err := h.Store.Reset(ctx); err != nil {
		respondError(w, http.StatusInternalServerError, err)
		return
	}

	var err error
	switch req.ScenarioID {
	case "clean-fleet":
		err = h.loadCleanFleet(ctx)
	case "california-exposure":
		err = h.loadCaliforniaExposure(ctx)
	case "overtime-hotspot":
		err = h.loadOvertimeHotspot(ctx)
	case "mixed-jurisdictions":
		err = h.loadMixedJurisdictions(ctx)
	default:
		respondError(w, http.StatusBadRequest, fmt.Errorf("unknown scenario %q", req.ScenarioID))
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"loaded": req.ScenarioID})
}

// =============================================================================
// SCENARIO LOADERS
// =============================================================================

func mustDec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func week(start time.Time, hours ...string) ([]decimal.Decimal, decimal.Decimal, workforce.PayPeriod) {
	daily := make([]decimal.Decimal, len(hours))
	total := decimal.Zero
	for i, h := range hours {
		daily[i] = mustDec(h)
		total = total.Add(daily[i])
	}
	period := workforce.PayPeriod{Start: start, End: start.AddDate(0, 0, len(hours)-1)}
	return daily, total, period
}

func (h *Handler) loadCleanFleet(ctx context.Context) error {
	rates, rules := factory.StandardTable()
	if err := h.Store.LoadRuleTable(ctx, rates, rules); err != nil {
		return err
	}

	workers := []workforce.WageRecord{
		{WorkerID: "w-001", Name: "Ana Flores", HourlyRate: mustDec("24.00"), Location: "Austin, TX"},
		{WorkerID: "w-002", Name: "Ben Okafor", HourlyRate: mustDec("31.50"), Location: "New York, NY"},
		{WorkerID: "w-003", Name: "Carla Diaz", HourlyRate: mustDec("28.00"), Location: "California"},
	}
	for _, rec := range workers {
		if err := h.Store.SaveWageRecord(ctx, rec); err != nil {
			return err
		}
	}

	start := time.Date(2025, time.June, 2, 0, 0, 0, 0, time.UTC)
	daily, total, period := week(start, "8", "8", "8", "8", "8", "0", "0")
	return h.Store.SaveTimeRecord(ctx, workforce.TimeRecord{
		WorkerID: "w-001", Name: "Ana Flores", Location: "Austin, TX",
		Period: period, DailyHours: daily, TotalHours: total,
		OvertimePaid: decimal.Zero, OvertimeComped: decimal.Zero,
		HourlyRate: mustDec("24.00"),
	})
}

func (h *Handler) loadCaliforniaExposure(ctx context.Context) error {
	fedRates, fedRules := factory.FederalBaseline()
	caRates, caRules := factory.CaliforniaTable()
	if err := h.Store.LoadRuleTable(ctx, append(fedRates, caRates...), append(fedRules, caRules...)); err != nil {
		return err
	}

	workers := []workforce.WageRecord{
		// Below the $16.00 state minimum even though above federal.
		{WorkerID: "w-101", Name: "Dev Patel", HourlyRate: mustDec("12.00"), Location: "California"},
		// Inside the one-dollar warning cushion.
		{WorkerID: "w-102", Name: "Erin Walsh", HourlyRate: mustDec("16.50"), Location: "Los Angeles, CA"},
		{WorkerID: "w-103", Name: "Femi Ade", HourlyRate: mustDec("21.00"), Location: "San Diego, CA"},
	}
	for _, rec := range workers {
		if err := h.Store.SaveWageRecord(ctx, rec); err != nil {
			return err
		}
	}
	return nil
}

func (h *Handler) loadOvertimeHotspot(ctx context.Context) error {
	fedRates, fedRules := factory.FederalBaseline()
	caRates, caRules := factory.CaliforniaTable()
	if err := h.Store.LoadRuleTable(ctx, append(fedRates, caRates...), append(fedRules, caRules...)); err != nil {
		return err
	}

	if err := h.Store.SaveWageRecord(ctx, workforce.WageRecord{
		WorkerID: "w-201", Name: "Gus Moreno", HourlyRate: mustDec("22.00"), Location: "California",
	}); err != nil {
		return err
	}

	start := time.Date(2025, time.June, 2, 0, 0, 0, 0, time.UTC)
	daily, total, period := week(start, "10", "10", "9", "9", "8", "0", "0")
	return h.Store.SaveTimeRecord(ctx, workforce.TimeRecord{
		WorkerID: "w-201", Name: "Gus Moreno", Location: "California",
		Period: period, DailyHours: daily, TotalHours: total,
		OvertimePaid: mustDec("2"), OvertimeComped: decimal.Zero,
		HourlyRate: mustDec("22.00"),
	})
}

func (h *Handler) loadMixedJurisdictions(ctx context.Context) error {
	rates, rules := factory.StandardTable()
	if err := h.Store.LoadRuleTable(ctx, rates, rules); err != nil {
		return err
	}

	workers := []workforce.WageRecord{
		{WorkerID: "w-301", Name: "Hana Kim", HourlyRate: mustDec("18.00"), Location: "Seattle, WA"}, // below Seattle local rate
		{WorkerID: "w-302", Name: "Ivan Petrov", HourlyRate: mustDec("15.50"), Location: "New York"},
		{WorkerID: "w-303", Name: "Julia Santos", HourlyRate: mustDec("9.00"), Location: "Texas"},
		{WorkerID: "w-304", Name: "Kofi Mensah", HourlyRate: mustDec("17.00"), Location: "Washington"},
	}
	for _, rec := range workers {
		if err := h.Store.SaveWageRecord(ctx, rec); err != nil {
			return err
		}
	}
	return nil
}
