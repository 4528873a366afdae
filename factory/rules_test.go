package factory_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/compliance-engine/factory"
	"github.com/warp/compliance-engine/regulatory"
)

// =============================================================================
// RULE TABLE PARSING TESTS
// =============================================================================

func TestParseRuleTable_CompleteTable(t *testing.T) {
	// GIVEN: A well-formed JSON table with a tipped rate, a scheduled
	//        increase, and a daily-threshold overtime rule
	// WHEN: Parsing
	// THEN: All fields land as typed records with decimal precision

	jsonStr := `{
		"rates": [
			{
				"id": "ca-2025",
				"jurisdiction": "state",
				"region": "California",
				"rate": "16.00",
				"effective_at": "2025-01-01",
				"next_increase": {"at": "2026-01-01", "rate": "16.50"}
			},
			{
				"id": "fed-2009",
				"jurisdiction": "federal",
				"region": "Federal",
				"rate": "7.25",
				"tipped_rate": "2.13",
				"effective_at": "2009-07-24"
			}
		],
		"rules": [
			{
				"id": "ca-ot",
				"jurisdiction": "state",
				"region": "California",
				"daily_threshold": "8",
				"weekly_threshold": "40",
				"multiplier": "1.5",
				"exempt_categories": ["executive"],
				"effective_at": "2020-01-01"
			}
		]
	}`

	table, err := factory.ParseRuleTable(jsonStr)
	require.NoError(t, err)
	require.Len(t, table.Rates, 2)
	require.Len(t, table.Rules, 1)

	ca := table.Rates[0]
	assert.Equal(t, regulatory.JurisdictionState, ca.Jurisdiction)
	assert.True(t, ca.Rate.Equal(decimal.RequireFromString("16.00")))
	require.NotNil(t, ca.NextIncreaseAt)
	require.NotNil(t, ca.NextIncreaseRate)
	assert.True(t, ca.NextIncreaseRate.Equal(decimal.RequireFromString("16.50")))
	assert.Nil(t, ca.TippedRate)

	fed := table.Rates[1]
	require.NotNil(t, fed.TippedRate)
	assert.True(t, fed.TippedRate.Equal(decimal.RequireFromString("2.13")))

	rule := table.Rules[0]
	require.NotNil(t, rule.DailyThreshold)
	assert.True(t, rule.DailyThreshold.Equal(decimal.NewFromInt(8)))
	assert.True(t, rule.Exempts("executive"))
}

func TestParseRuleTable_MultiplierDefaults(t *testing.T) {
	// GIVEN: A rule with no multiplier
	// WHEN: Parsing
	// THEN: 1.5 is assumed

	table, err := factory.ParseRuleTable(`{
		"rules": [
			{
				"id": "fed-ot", "jurisdiction": "federal", "region": "Federal",
				"weekly_threshold": "40", "effective_at": "2020-01-01"
			}
		]
	}`)
	require.NoError(t, err)
	require.Len(t, table.Rules, 1)
	assert.True(t, table.Rules[0].Multiplier.Equal(decimal.RequireFromString("1.5")))
}

func TestParseRuleTable_InvalidRecordsRejected(t *testing.T) {
	cases := []struct {
		name    string
		jsonStr string
	}{
		{
			"unknown jurisdiction",
			`{"rates": [{"id": "x", "jurisdiction": "county", "region": "X", "rate": "10", "effective_at": "2020-01-01"}]}`,
		},
		{
			"missing id",
			`{"rates": [{"jurisdiction": "state", "region": "X", "rate": "10", "effective_at": "2020-01-01"}]}`,
		},
		{
			"non-positive rate",
			`{"rates": [{"id": "x", "jurisdiction": "state", "region": "X", "rate": "0", "effective_at": "2020-01-01"}]}`,
		},
		{
			"bad date",
			`{"rates": [{"id": "x", "jurisdiction": "state", "region": "X", "rate": "10", "effective_at": "January 1"}]}`,
		},
		{
			"multiplier not above 1",
			`{"rules": [{"id": "x", "jurisdiction": "state", "region": "X", "weekly_threshold": "40", "multiplier": "1.0", "effective_at": "2020-01-01"}]}`,
		},
		{
			"non-positive daily threshold",
			`{"rules": [{"id": "x", "jurisdiction": "state", "region": "X", "weekly_threshold": "40", "daily_threshold": "-8", "effective_at": "2020-01-01"}]}`,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := factory.ParseRuleTable(tc.jsonStr)
			require.Error(t, err)
			assert.True(t, errors.Is(err, regulatory.ErrInvalidRecord))
		})
	}
}

func TestParseRuleTable_MalformedJSON(t *testing.T) {
	_, err := factory.ParseRuleTable(`{not json`)
	assert.Error(t, err)
}

// =============================================================================
// PRESET TESTS
// =============================================================================

func TestStandardTable_RecordsValidAndLoadable(t *testing.T) {
	// GIVEN: The bundled standard table
	// WHEN: Inspecting records
	// THEN: Every record is structurally valid

	rates, rules := factory.StandardTable()
	require.NotEmpty(t, rates)
	require.NotEmpty(t, rules)

	for _, r := range rates {
		assert.NotEmpty(t, r.ID)
		assert.True(t, r.Jurisdiction.Valid(), "rate %s", r.ID)
		assert.True(t, r.Rate.IsPositive(), "rate %s", r.ID)
		assert.False(t, r.EffectiveAt.IsZero(), "rate %s", r.ID)
	}
	for _, r := range rules {
		assert.NotEmpty(t, r.ID)
		assert.True(t, r.Jurisdiction.Valid(), "rule %s", r.ID)
		assert.True(t, r.WeeklyThreshold.IsPositive(), "rule %s", r.ID)
		assert.True(t, r.Multiplier.GreaterThan(decimal.NewFromInt(1)), "rule %s", r.ID)
	}
}

func TestStandardTable_CoversFederalBaseline(t *testing.T) {
	rates, rules := factory.StandardTable()

	var hasFederalRate, hasFederalRule bool
	for _, r := range rates {
		if r.Jurisdiction == regulatory.JurisdictionFederal {
			hasFederalRate = true
			assert.True(t, r.Rate.Equal(decimal.RequireFromString("7.25")))
		}
	}
	for _, r := range rules {
		if r.Jurisdiction == regulatory.JurisdictionFederal {
			hasFederalRule = true
			assert.Nil(t, r.DailyThreshold, "federal rule has no daily trigger")
		}
	}
	assert.True(t, hasFederalRate)
	assert.True(t, hasFederalRule)
}
