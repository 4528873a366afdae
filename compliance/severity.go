/*
severity.go - Severity and penalty configuration

PURPOSE:
  Maps violation categories to finding severity. Severity is configured
  per type AND scales with dollar exposure, so a small overtime slip and
  a six-figure back-pay exposure do not rank the same.

DEFAULTS:
  minimum_wage: high, critical at $10,000 exposure
  overtime:     medium, high at $5,000, critical at $25,000

PENALTY:
  potentialPenalty = exposure * configured multiplier. The multiplier
  approximates statutory liquidated damages (double damages by default).

SEE ALSO:
  - scan.go: Applies the table when synthesizing findings
*/
package compliance

import (
	"sort"

	"github.com/shopspring/decimal"
)

// SeverityBand grants a severity once exposure reaches AtLeast.
type SeverityBand struct {
	AtLeast  decimal.Decimal
	Severity Severity
}

// SeverityTable maps finding types to exposure-ranked severity bands.
// Bands are consulted highest threshold first; the first band whose
// threshold the exposure meets wins.
type SeverityTable map[FindingType][]SeverityBand

// DefaultSeverityTable returns the standard mapping: minimum-wage
// findings start at high, overtime at medium, both escalating with
// dollar exposure.
func DefaultSeverityTable() SeverityTable {
	return SeverityTable{
		FindingMinimumWage: {
			{AtLeast: decimal.Zero, Severity: SeverityHigh},
			{AtLeast: decimal.NewFromInt(10000), Severity: SeverityCritical},
		},
		FindingOvertime: {
			{AtLeast: decimal.Zero, Severity: SeverityMedium},
			{AtLeast: decimal.NewFromInt(5000), Severity: SeverityHigh},
			{AtLeast: decimal.NewFromInt(25000), Severity: SeverityCritical},
		},
	}
}

// Classify returns the severity for a finding type at the given dollar
// exposure. Unknown types default to medium.
func (t SeverityTable) Classify(ft FindingType, exposure decimal.Decimal) Severity {
	bands := append([]SeverityBand(nil), t[ft]...)
	if len(bands) == 0 {
		return SeverityMedium
	}
	sort.Slice(bands, func(i, j int) bool {
		return bands[i].AtLeast.GreaterThan(bands[j].AtLeast)
	})
	for _, b := range bands {
		if exposure.GreaterThanOrEqual(b.AtLeast) {
			return b.Severity
		}
	}
	return bands[len(bands)-1].Severity
}

// DefaultPenaltyMultiplier approximates liquidated (double) damages.
var DefaultPenaltyMultiplier = decimal.NewFromInt(2)
