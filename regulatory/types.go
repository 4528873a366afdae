/*
Package regulatory provides the rate and rule records that drive wage
and overtime compliance evaluation.

PURPOSE:
  This package contains the domain types for regulatory requirements:
  minimum-wage rates and overtime rules issued by overlapping
  jurisdictions (federal, state, local), plus the repository contract
  for looking them up by worker location.

KEY CONCEPTS IN THIS FILE (types.go):
  - Jurisdiction: The governmental level issuing a requirement
  - MinimumWageRate: An effective-dated minimum hourly rate
  - OvertimeRule: Daily/weekly thresholds and a pay multiplier
  - Applicability: Which records bind a given worker location

DESIGN PRINCIPLES:
  1. Immutability: Records are never mutated; a new record with a later
     effective date supersedes an older one
  2. Precision: Uses decimal.Decimal to avoid floating-point errors in
     wage arithmetic
  3. Precedence by maximum: The binding minimum wage is the highest
     applicable rate, never resolved by jurisdiction rank

USAGE:
  loc := regulatory.ParseLocation("Los Angeles, CA")
  rates, err := repo.RatesForLocation(ctx, loc, time.Now())

SEE ALSO:
  - location.go: Structured location keys and parsing
  - repository.go: Lookup contract and consistent-read snapshots
  - errors.go: NoApplicableRuleError and sentinels
*/
package regulatory

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// JURISDICTION - Governmental level issuing a requirement
// =============================================================================

type Jurisdiction string

const (
	JurisdictionFederal Jurisdiction = "federal"
	JurisdictionState   Jurisdiction = "state"
	JurisdictionLocal   Jurisdiction = "local"
)

// Valid reports whether j is one of the known jurisdiction levels.
func (j Jurisdiction) Valid() bool {
	switch j {
	case JurisdictionFederal, JurisdictionState, JurisdictionLocal:
		return true
	}
	return false
}

// =============================================================================
// MINIMUM WAGE RATE - Effective-dated minimum hourly rate
// =============================================================================

// MinimumWageRate is a minimum hourly wage requirement issued by one
// jurisdiction. Records are immutable: an updated rate arrives as a new
// record with a later EffectiveAt, never as an in-place change.
type MinimumWageRate struct {
	ID           string
	Jurisdiction Jurisdiction
	Region       string // issuing region label, e.g. "Federal", "California", "Seattle, WA"
	Rate         decimal.Decimal

	// TippedRate is the lower base rate permitted for tipped workers,
	// if the jurisdiction allows one.
	TippedRate *decimal.Decimal

	EffectiveAt time.Time

	// Scheduled future increase, when the jurisdiction has announced one.
	NextIncreaseAt   *time.Time
	NextIncreaseRate *decimal.Decimal
}

// AppliesTo reports whether this rate binds a worker at loc.
// Federal records always apply; state records apply to any location in
// the issuing state; local records require a city match.
func (r MinimumWageRate) AppliesTo(loc Location) bool {
	return jurisdictionApplies(r.Jurisdiction, r.Region, loc)
}

// EffectiveAsOf reports whether the record is in force at t.
func (r MinimumWageRate) EffectiveAsOf(t time.Time) bool {
	return !r.EffectiveAt.After(t)
}

// =============================================================================
// OVERTIME RULE - Thresholds and multiplier for overtime pay
// =============================================================================

// OvertimeRule defines when overtime pay is owed and at what multiplier.
// Multiple rules commonly apply to one location at once (federal + state);
// each is evaluated independently.
type OvertimeRule struct {
	ID           string
	Jurisdiction Jurisdiction
	Region       string

	// DailyThreshold is the daily hours above which overtime accrues.
	// Nil when the jurisdiction has no daily trigger (e.g. federal FLSA).
	DailyThreshold *decimal.Decimal

	// WeeklyThreshold is the weekly hours above which overtime accrues.
	// Always set.
	WeeklyThreshold decimal.Decimal

	// Multiplier is the required pay multiplier for overtime hours, e.g. 1.5.
	Multiplier decimal.Decimal

	// ExemptCategories lists job categories this rule does not cover.
	ExemptCategories []string

	EffectiveAt time.Time
}

// AppliesTo reports whether this rule binds a worker at loc.
func (r OvertimeRule) AppliesTo(loc Location) bool {
	return jurisdictionApplies(r.Jurisdiction, r.Region, loc)
}

// EffectiveAsOf reports whether the rule is in force at t.
func (r OvertimeRule) EffectiveAsOf(t time.Time) bool {
	return !r.EffectiveAt.After(t)
}

// Exempts reports whether jobCategory is exempt from this rule.
func (r OvertimeRule) Exempts(jobCategory string) bool {
	if jobCategory == "" {
		return false
	}
	for _, c := range r.ExemptCategories {
		if c == jobCategory {
			return true
		}
	}
	return false
}

// =============================================================================
// APPLICABILITY AND SUPERSEDURE
// =============================================================================

func jurisdictionApplies(j Jurisdiction, region string, loc Location) bool {
	switch j {
	case JurisdictionFederal:
		return true
	case JurisdictionState:
		state, _ := resolveRegion(region)
		return state != "" && state == loc.State
	case JurisdictionLocal:
		state, city := resolveRegion(region)
		if city == "" || !sameName(city, loc.City) {
			return false
		}
		// A local ordinance with a known state only binds within it.
		return state == "" || loc.State == "" || state == loc.State
	}
	return false
}

// currentRates filters to records applicable at loc and in force at asOf,
// keeping only the latest record per (jurisdiction, region) pair.
func currentRates(all []MinimumWageRate, loc Location, asOf time.Time) []MinimumWageRate {
	latest := make(map[string]MinimumWageRate)
	var order []string
	for _, r := range all {
		if !r.AppliesTo(loc) || !r.EffectiveAsOf(asOf) {
			continue
		}
		k := string(r.Jurisdiction) + "|" + r.Region
		prev, ok := latest[k]
		if !ok {
			order = append(order, k)
			latest[k] = r
			continue
		}
		if r.EffectiveAt.After(prev.EffectiveAt) {
			latest[k] = r
		}
	}
	result := make([]MinimumWageRate, 0, len(order))
	for _, k := range order {
		result = append(result, latest[k])
	}
	return result
}

// currentRules is the OvertimeRule counterpart of currentRates.
func currentRules(all []OvertimeRule, loc Location, asOf time.Time) []OvertimeRule {
	latest := make(map[string]OvertimeRule)
	var order []string
	for _, r := range all {
		if !r.AppliesTo(loc) || !r.EffectiveAsOf(asOf) {
			continue
		}
		k := string(r.Jurisdiction) + "|" + r.Region
		prev, ok := latest[k]
		if !ok {
			order = append(order, k)
			latest[k] = r
			continue
		}
		if r.EffectiveAt.After(prev.EffectiveAt) {
			latest[k] = r
		}
	}
	result := make([]OvertimeRule, 0, len(order))
	for _, k := range order {
		result = append(result, latest[k])
	}
	return result
}
