/*
Package factory provides JSON to Go regulatory record conversion.

PURPOSE:
  Converts JSON rule-table definitions into regulatory.MinimumWageRate
  and regulatory.OvertimeRule records. The regulatory-data collaborator
  publishes tables as JSON; the factory validates them and produces the
  typed records the repository serves.

JSON SCHEMA:
  {
    "rates": [
      {
        "id": "ca-2025",
        "jurisdiction": "state",
        "region": "California",
        "rate": "16.00",
        "tipped_rate": "16.00",
        "effective_at": "2025-01-01",
        "next_increase": {"at": "2026-01-01", "rate": "16.50"}
      }
    ],
    "rules": [
      {
        "id": "ca-ot-2025",
        "jurisdiction": "state",
        "region": "California",
        "daily_threshold": "8",
        "weekly_threshold": "40",
        "multiplier": "1.5",
        "exempt_categories": ["executive", "administrative"],
        "effective_at": "2025-01-01"
      }
    ]
  }

KEY FEATURES:
  - Validates structure and required fields
  - Sets sensible defaults (multiplier 1.5)
  - All money/hour fields parsed as decimals, never floats

USAGE:
  table, err := factory.ParseRuleTable(jsonStr)
  repo.Load(table.Rates, table.Rules)

SEE ALSO:
  - presets.go: Go-based federal/state rule tables
  - ../regulatory: Record type definitions
*/
package factory

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/compliance-engine/regulatory"
)

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

// RuleTableJSON is the JSON representation of a full rule table.
type RuleTableJSON struct {
	Rates []RateJSON         `json:"rates"`
	Rules []OvertimeRuleJSON `json:"rules"`
}

// RateJSON represents one minimum-wage rate record.
type RateJSON struct {
	ID           string        `json:"id"`
	Jurisdiction string        `json:"jurisdiction"`
	Region       string        `json:"region"`
	Rate         string        `json:"rate"`
	TippedRate   string        `json:"tipped_rate,omitempty"`
	EffectiveAt  string        `json:"effective_at"`
	NextIncrease *IncreaseJSON `json:"next_increase,omitempty"`
}

// IncreaseJSON represents a scheduled future increase.
type IncreaseJSON struct {
	At   string `json:"at"`
	Rate string `json:"rate"`
}

// OvertimeRuleJSON represents one overtime rule record.
type OvertimeRuleJSON struct {
	ID               string   `json:"id"`
	Jurisdiction     string   `json:"jurisdiction"`
	Region           string   `json:"region"`
	DailyThreshold   string   `json:"daily_threshold,omitempty"`
	WeeklyThreshold  string   `json:"weekly_threshold"`
	Multiplier       string   `json:"multiplier,omitempty"` // default 1.5
	ExemptCategories []string `json:"exempt_categories,omitempty"`
	EffectiveAt      string   `json:"effective_at"`
}

// RuleTable is the parsed, validated result.
type RuleTable struct {
	Rates []regulatory.MinimumWageRate
	Rules []regulatory.OvertimeRule
}

// =============================================================================
// PARSING
// =============================================================================

// ParseRuleTable parses and validates a JSON rule table.
func ParseRuleTable(jsonStr string) (*RuleTable, error) {
	var raw RuleTableJSON
	if err := json.Unmarshal([]byte(jsonStr), &raw); err != nil {
		return nil, fmt.Errorf("parse rule table: %w", err)
	}

	table := &RuleTable{}
	for i, r := range raw.Rates {
		rate, err := parseRate(r)
		if err != nil {
			return nil, fmt.Errorf("rates[%d]: %w", i, err)
		}
		table.Rates = append(table.Rates, rate)
	}
	for i, r := range raw.Rules {
		rule, err := parseRule(r)
		if err != nil {
			return nil, fmt.Errorf("rules[%d]: %w", i, err)
		}
		table.Rules = append(table.Rules, rule)
	}
	return table, nil
}

func parseRate(r RateJSON) (regulatory.MinimumWageRate, error) {
	var zero regulatory.MinimumWageRate

	level := regulatory.Jurisdiction(r.Jurisdiction)
	if !level.Valid() {
		return zero, fmt.Errorf("%w: jurisdiction %q", regulatory.ErrInvalidRecord, r.Jurisdiction)
	}
	if r.ID == "" || r.Region == "" {
		return zero, fmt.Errorf("%w: id and region are required", regulatory.ErrInvalidRecord)
	}

	rate, err := decimal.NewFromString(r.Rate)
	if err != nil || !rate.IsPositive() {
		return zero, fmt.Errorf("%w: rate %q", regulatory.ErrInvalidRecord, r.Rate)
	}

	effectiveAt, err := parseDate(r.EffectiveAt)
	if err != nil {
		return zero, err
	}

	out := regulatory.MinimumWageRate{
		ID:           r.ID,
		Jurisdiction: level,
		Region:       r.Region,
		Rate:         rate,
		EffectiveAt:  effectiveAt,
	}

	if r.TippedRate != "" {
		tipped, err := decimal.NewFromString(r.TippedRate)
		if err != nil || !tipped.IsPositive() {
			return zero, fmt.Errorf("%w: tipped_rate %q", regulatory.ErrInvalidRecord, r.TippedRate)
		}
		out.TippedRate = &tipped
	}
	if r.NextIncrease != nil {
		at, err := parseDate(r.NextIncrease.At)
		if err != nil {
			return zero, err
		}
		next, err := decimal.NewFromString(r.NextIncrease.Rate)
		if err != nil || !next.IsPositive() {
			return zero, fmt.Errorf("%w: next_increase.rate %q", regulatory.ErrInvalidRecord, r.NextIncrease.Rate)
		}
		out.NextIncreaseAt = &at
		out.NextIncreaseRate = &next
	}
	return out, nil
}

func parseRule(r OvertimeRuleJSON) (regulatory.OvertimeRule, error) {
	var zero regulatory.OvertimeRule

	level := regulatory.Jurisdiction(r.Jurisdiction)
	if !level.Valid() {
		return zero, fmt.Errorf("%w: jurisdiction %q", regulatory.ErrInvalidRecord, r.Jurisdiction)
	}
	if r.ID == "" || r.Region == "" {
		return zero, fmt.Errorf("%w: id and region are required", regulatory.ErrInvalidRecord)
	}

	weekly, err := decimal.NewFromString(r.WeeklyThreshold)
	if err != nil || !weekly.IsPositive() {
		return zero, fmt.Errorf("%w: weekly_threshold %q", regulatory.ErrInvalidRecord, r.WeeklyThreshold)
	}

	multiplier := decimal.RequireFromString("1.5")
	if r.Multiplier != "" {
		multiplier, err = decimal.NewFromString(r.Multiplier)
		if err != nil || !multiplier.GreaterThan(decimal.NewFromInt(1)) {
			return zero, fmt.Errorf("%w: multiplier %q", regulatory.ErrInvalidRecord, r.Multiplier)
		}
	}

	effectiveAt, err := parseDate(r.EffectiveAt)
	if err != nil {
		return zero, err
	}

	out := regulatory.OvertimeRule{
		ID:               r.ID,
		Jurisdiction:     level,
		Region:           r.Region,
		WeeklyThreshold:  weekly,
		Multiplier:       multiplier,
		ExemptCategories: append([]string(nil), r.ExemptCategories...),
		EffectiveAt:      effectiveAt,
	}

	if r.DailyThreshold != "" {
		daily, err := decimal.NewFromString(r.DailyThreshold)
		if err != nil || !daily.IsPositive() {
			return zero, fmt.Errorf("%w: daily_threshold %q", regulatory.ErrInvalidRecord, r.DailyThreshold)
		}
		out.DailyThreshold = &daily
	}
	return out, nil
}

func parseDate(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date %q", regulatory.ErrInvalidRecord, s)
	}
	return t.UTC(), nil
}
