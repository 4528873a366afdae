/*
dashboard.go - Dashboard read model assembly

PURPOSE:
  Shapes scan output into the read model the dashboard and report
  collaborators consume. Pure presentation: no evaluation logic lives
  here, only selection, labeling, and rollups of a finished ScanReport.

SEE ALSO:
  - handlers.go: Dashboard endpoint
  - ../compliance/scan.go: Produces the ScanReport being shaped
*/
package api

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/warp/compliance-engine/compliance"
	"github.com/warp/compliance-engine/regulatory"
)

// DashboardDTO is the read model for the compliance dashboard.
type DashboardDTO struct {
	OverallScore    int    `json:"overall_score"`
	RiskBand        string `json:"risk_band"`
	TotalViolations int    `json:"total_violations"`
	EmployeesAtRisk int    `json:"employees_at_risk"`
	WorkersScanned  int    `json:"workers_scanned"`
	RuleVersion     int64  `json:"rule_version"`

	StatusCounts map[string]int `json:"status_counts"`

	TopFindings []FindingDTO `json:"top_findings"`

	// Workers needing attention, worst first.
	AttentionList []AttentionRowDTO `json:"attention_list"`

	// Announced rate increases, soonest first.
	UpcomingIncreases []UpcomingIncreaseDTO `json:"upcoming_increases"`

	Trend []TrendPointDTO `json:"trend,omitempty"`
}

// AttentionRowDTO is one worker row on the dashboard attention list.
type AttentionRowDTO struct {
	WorkerID   string `json:"worker_id"`
	WorkerName string `json:"worker_name"`
	Issue      string `json:"issue"` // "minimum_wage" or "overtime"
	Status     string `json:"status"`
	Exposure   string `json:"exposure"` // dollars
}

// UpcomingIncreaseDTO is one scheduled minimum-wage increase.
type UpcomingIncreaseDTO struct {
	Region      string `json:"region"`
	CurrentRate string `json:"current_rate"`
	NextRate    string `json:"next_rate"`
	At          string `json:"at"`
}

// maxAttentionRows bounds the dashboard worker list; the full detail
// lives in the scan report.
const maxAttentionRows = 25

// AssembleDashboard shapes one scan report (and the rule snapshot it ran
// against) into the dashboard read model.
func AssembleDashboard(report *compliance.ScanReport, snap *regulatory.Snapshot) DashboardDTO {
	dto := DashboardDTO{
		OverallScore:    report.OverallScore,
		RiskBand:        riskBand(report.OverallScore),
		TotalViolations: report.TotalViolations,
		EmployeesAtRisk: report.EmployeesAtRisk,
		WorkersScanned:  report.WorkersEvaluated,
		RuleVersion:     report.RuleVersion,
		StatusCounts:    make(map[string]int),
	}

	for _, c := range report.WageChecks {
		dto.StatusCounts[string(c.Status)]++
	}

	for _, f := range report.Findings {
		dto.TopFindings = append(dto.TopFindings, toFindingDTO(f))
	}

	dto.AttentionList = attentionList(report)

	if snap != nil {
		dto.UpcomingIncreases = upcomingIncreases(snap)
	}

	for _, s := range report.Trend {
		dto.Trend = append(dto.Trend, toTrendPointDTO(s))
	}
	return dto
}

func riskBand(score int) string {
	switch {
	case score >= 90:
		return "healthy"
	case score >= 70:
		return "elevated"
	case score >= 40:
		return "serious"
	default:
		return "critical"
	}
}

func attentionList(report *compliance.ScanReport) []AttentionRowDTO {
	type entry struct {
		row      AttentionRowDTO
		exposure decimal.Decimal
	}
	var entries []entry

	for _, c := range report.WageChecks {
		if c.Status != compliance.WageViolation && c.Status != compliance.WageWarning {
			continue
		}
		exposure := c.Difference.Neg() // positive for underpayment
		entries = append(entries, entry{
			row: AttentionRowDTO{
				WorkerID:   c.WorkerID,
				WorkerName: c.WorkerName,
				Issue:      string(compliance.FindingMinimumWage),
				Status:     string(c.Status),
				Exposure:   exposure.StringFixed(2),
			},
			exposure: exposure,
		})
	}

	// One row per worker-period: the maximal obligation.
	byWorkerPeriod := make(map[string]compliance.OvertimeViolation)
	var order []string
	for _, v := range report.OvertimeViolations {
		k := v.WorkerID + "|" + v.Period.String()
		prev, ok := byWorkerPeriod[k]
		if !ok {
			order = append(order, k)
			byWorkerPeriod[k] = v
			continue
		}
		if v.AmountOwed.GreaterThan(prev.AmountOwed) {
			byWorkerPeriod[k] = v
		}
	}
	for _, k := range order {
		v := byWorkerPeriod[k]
		entries = append(entries, entry{
			row: AttentionRowDTO{
				WorkerID:   v.WorkerID,
				WorkerName: v.WorkerName,
				Issue:      string(compliance.FindingOvertime),
				Status:     string(v.Status),
				Exposure:   v.AmountOwed.StringFixed(2),
			},
			exposure: v.AmountOwed,
		})
	}

	// Worst first: violations before warnings, then exposure descending.
	sort.SliceStable(entries, func(i, j int) bool {
		vi := entries[i].row.Status == string(compliance.StatusViolation)
		vj := entries[j].row.Status == string(compliance.StatusViolation)
		if vi != vj {
			return vi
		}
		return entries[i].exposure.GreaterThan(entries[j].exposure)
	})

	if len(entries) > maxAttentionRows {
		entries = entries[:maxAttentionRows]
	}
	rows := make([]AttentionRowDTO, len(entries))
	for i, e := range entries {
		rows[i] = e.row
	}
	return rows
}

func upcomingIncreases(snap *regulatory.Snapshot) []UpcomingIncreaseDTO {
	var out []UpcomingIncreaseDTO
	for _, r := range snap.Rates() {
		if r.NextIncreaseAt == nil || r.NextIncreaseRate == nil {
			continue
		}
		out = append(out, UpcomingIncreaseDTO{
			Region:      r.Region,
			CurrentRate: r.Rate.StringFixed(2),
			NextRate:    r.NextIncreaseRate.StringFixed(2),
			At:          r.NextIncreaseAt.Format(dateFormat),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].At < out[j].At })
	return out
}
