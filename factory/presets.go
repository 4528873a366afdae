/*
presets.go - Pre-built rule tables

PURPOSE:
  Ready-to-use rule tables for common jurisdictions: the federal FLSA
  baseline and a few states with stricter requirements. These are seed
  and test fixtures, not a live regulatory feed; production deployments
  load tables from the regulatory-data collaborator.

AVAILABLE TABLES:
  FederalBaseline:  $7.25 minimum, 40h/week overtime at 1.5x
  CaliforniaTable:  $16.00 minimum, 8h/day + 40h/week at 1.5x
  WashingtonTable:  $16.28 minimum, 40h/week at 1.5x
  NewYorkTable:     $15.00 minimum, 40h/week at 1.5x

EXAMPLE:
  rates, rules := factory.FederalBaseline()
  repo.Load(rates, rules)

SEE ALSO:
  - rules.go: JSON-based table loading
  - ../api/scenarios.go: Demo scenarios built on these tables
*/
package factory

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/compliance-engine/regulatory"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func dp(s string) *decimal.Decimal {
	v := decimal.RequireFromString(s)
	return &v
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// FederalBaseline returns the FLSA floor that applies everywhere:
// $7.25 minimum wage and weekly-only overtime above 40 hours at 1.5x.
func FederalBaseline() ([]regulatory.MinimumWageRate, []regulatory.OvertimeRule) {
	rates := []regulatory.MinimumWageRate{{
		ID:           "us-flsa-2009",
		Jurisdiction: regulatory.JurisdictionFederal,
		Region:       "Federal",
		Rate:         d("7.25"),
		TippedRate:   dp("2.13"),
		EffectiveAt:  date(2009, time.July, 24),
	}}
	rules := []regulatory.OvertimeRule{{
		ID:              "us-flsa-ot",
		Jurisdiction:    regulatory.JurisdictionFederal,
		Region:          "Federal",
		WeeklyThreshold: d("40"),
		Multiplier:      d("1.5"),
		ExemptCategories: []string{
			"executive", "administrative", "professional", "outside_sales",
		},
		EffectiveAt: date(2009, time.July, 24),
	}}
	return rates, rules
}

// CaliforniaTable returns California's state requirements, including the
// daily overtime trigger the federal rule lacks.
func CaliforniaTable() ([]regulatory.MinimumWageRate, []regulatory.OvertimeRule) {
	nextAt := date(2026, time.January, 1)
	rates := []regulatory.MinimumWageRate{{
		ID:               "ca-2024",
		Jurisdiction:     regulatory.JurisdictionState,
		Region:           "California",
		Rate:             d("16.00"),
		TippedRate:       dp("16.00"), // no tip credit in California
		EffectiveAt:      date(2024, time.January, 1),
		NextIncreaseAt:   &nextAt,
		NextIncreaseRate: dp("16.50"),
	}}
	rules := []regulatory.OvertimeRule{{
		ID:               "ca-ot",
		Jurisdiction:     regulatory.JurisdictionState,
		Region:           "California",
		DailyThreshold:   dp("8"),
		WeeklyThreshold:  d("40"),
		Multiplier:       d("1.5"),
		ExemptCategories: []string{"executive", "administrative", "professional"},
		EffectiveAt:      date(2024, time.January, 1),
	}}
	return rates, rules
}

// WashingtonTable returns Washington's state requirements.
func WashingtonTable() ([]regulatory.MinimumWageRate, []regulatory.OvertimeRule) {
	rates := []regulatory.MinimumWageRate{
		{
			ID:           "wa-2024",
			Jurisdiction: regulatory.JurisdictionState,
			Region:       "Washington",
			Rate:         d("16.28"),
			TippedRate:   dp("16.28"),
			EffectiveAt:  date(2024, time.January, 1),
		},
		{
			ID:           "seattle-2024",
			Jurisdiction: regulatory.JurisdictionLocal,
			Region:       "Seattle, WA",
			Rate:         d("19.97"),
			EffectiveAt:  date(2024, time.January, 1),
		},
	}
	rules := []regulatory.OvertimeRule{{
		ID:              "wa-ot",
		Jurisdiction:    regulatory.JurisdictionState,
		Region:          "Washington",
		WeeklyThreshold: d("40"),
		Multiplier:      d("1.5"),
		EffectiveAt:     date(2024, time.January, 1),
	}}
	return rates, rules
}

// NewYorkTable returns New York's state requirements.
func NewYorkTable() ([]regulatory.MinimumWageRate, []regulatory.OvertimeRule) {
	rates := []regulatory.MinimumWageRate{{
		ID:           "ny-2024",
		Jurisdiction: regulatory.JurisdictionState,
		Region:       "New York",
		Rate:         d("15.00"),
		TippedRate:   dp("10.00"),
		EffectiveAt:  date(2024, time.January, 1),
	}}
	rules := []regulatory.OvertimeRule{{
		ID:              "ny-ot",
		Jurisdiction:    regulatory.JurisdictionState,
		Region:          "New York",
		WeeklyThreshold: d("40"),
		Multiplier:      d("1.5"),
		EffectiveAt:     date(2024, time.January, 1),
	}}
	return rates, rules
}

// StandardTable combines the federal baseline with all bundled state
// tables. This is the default seed for a fresh deployment.
func StandardTable() ([]regulatory.MinimumWageRate, []regulatory.OvertimeRule) {
	rates, rules := FederalBaseline()
	for _, table := range [](func() ([]regulatory.MinimumWageRate, []regulatory.OvertimeRule)){
		CaliforniaTable, WashingtonTable, NewYorkTable,
	} {
		r, o := table()
		rates = append(rates, r...)
		rules = append(rules, o...)
	}
	return rates, rules
}
