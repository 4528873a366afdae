/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract, allowing:
  - Field renaming without breaking clients
  - API-specific validation
  - Version evolution

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

MONEY FIELDS:
  All money and hour quantities are serialized as decimal strings
  ("16.00"), never JSON numbers, to avoid client-side float drift.

SEE ALSO:
  - handlers.go: Uses these types
  - dashboard.go: DashboardDTO assembly
*/
package api

import (
	"github.com/warp/compliance-engine/compliance"
	"github.com/warp/compliance-engine/regulatory"
	"github.com/warp/compliance-engine/workforce"
)

// =============================================================================
// REGULATORY TYPES
// =============================================================================

// RateDTO represents a minimum-wage rate in API responses.
type RateDTO struct {
	ID               string `json:"id"`
	Jurisdiction     string `json:"jurisdiction"`
	Region           string `json:"region"`
	Rate             string `json:"rate"`
	TippedRate       string `json:"tipped_rate,omitempty"`
	EffectiveAt      string `json:"effective_at"`
	NextIncreaseAt   string `json:"next_increase_at,omitempty"`
	NextIncreaseRate string `json:"next_increase_rate,omitempty"`
}

// RuleDTO represents an overtime rule in API responses.
type RuleDTO struct {
	ID               string   `json:"id"`
	Jurisdiction     string   `json:"jurisdiction"`
	Region           string   `json:"region"`
	DailyThreshold   string   `json:"daily_threshold,omitempty"`
	WeeklyThreshold  string   `json:"weekly_threshold"`
	Multiplier       string   `json:"multiplier"`
	ExemptCategories []string `json:"exempt_categories,omitempty"`
	EffectiveAt      string   `json:"effective_at"`
}

const dateFormat = "2006-01-02"

func toRateDTO(r regulatory.MinimumWageRate) RateDTO {
	dto := RateDTO{
		ID:           r.ID,
		Jurisdiction: string(r.Jurisdiction),
		Region:       r.Region,
		Rate:         r.Rate.StringFixed(2),
		EffectiveAt:  r.EffectiveAt.Format(dateFormat),
	}
	if r.TippedRate != nil {
		dto.TippedRate = r.TippedRate.StringFixed(2)
	}
	if r.NextIncreaseAt != nil {
		dto.NextIncreaseAt = r.NextIncreaseAt.Format(dateFormat)
	}
	if r.NextIncreaseRate != nil {
		dto.NextIncreaseRate = r.NextIncreaseRate.StringFixed(2)
	}
	return dto
}

func toRuleDTO(r regulatory.OvertimeRule) RuleDTO {
	dto := RuleDTO{
		ID:               r.ID,
		Jurisdiction:     string(r.Jurisdiction),
		Region:           r.Region,
		WeeklyThreshold:  r.WeeklyThreshold.String(),
		Multiplier:       r.Multiplier.String(),
		ExemptCategories: r.ExemptCategories,
		EffectiveAt:      r.EffectiveAt.Format(dateFormat),
	}
	if r.DailyThreshold != nil {
		dto.DailyThreshold = r.DailyThreshold.String()
	}
	return dto
}

// =============================================================================
// WORKER TYPES
// =============================================================================

// WorkerDTO represents a worker wage record in API responses.
type WorkerDTO struct {
	WorkerID    string `json:"worker_id"`
	Name        string `json:"name"`
	HourlyRate  string `json:"hourly_rate"`
	Location    string `json:"location"`
	JobCategory string `json:"job_category,omitempty"`
	Tipped      bool   `json:"tipped,omitempty"`
}

func toWorkerDTO(rec workforce.WageRecord) WorkerDTO {
	return WorkerDTO{
		WorkerID:    rec.WorkerID,
		Name:        rec.Name,
		HourlyRate:  rec.HourlyRate.StringFixed(2),
		Location:    rec.Location,
		JobCategory: rec.JobCategory,
		Tipped:      rec.Tipped,
	}
}

// =============================================================================
// EVALUATION TYPES
// =============================================================================

// WageCheckDTO represents one wage compliance check.
type WageCheckDTO struct {
	WorkerID        string `json:"worker_id"`
	WorkerName      string `json:"worker_name"`
	CurrentWage     string `json:"current_wage"`
	MinimumRequired string `json:"minimum_required"`
	Jurisdiction    string `json:"jurisdiction"`
	Region          string `json:"region"`
	Status          string `json:"status"`
	Difference      string `json:"difference"`
	EvaluatedAt     string `json:"evaluated_at"`
}

func toWageCheckDTO(c compliance.WageCheck) WageCheckDTO {
	return WageCheckDTO{
		WorkerID:        c.WorkerID,
		WorkerName:      c.WorkerName,
		CurrentWage:     c.CurrentWage.StringFixed(2),
		MinimumRequired: c.MinimumRequired.StringFixed(2),
		Jurisdiction:    string(c.Jurisdiction),
		Region:          c.Region,
		Status:          string(c.Status),
		Difference:      c.Difference.StringFixed(2),
		EvaluatedAt:     c.EvaluatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
}

// OvertimeViolationDTO represents one owed-overtime entry.
type OvertimeViolationDTO struct {
	WorkerID      string `json:"worker_id"`
	WorkerName    string `json:"worker_name"`
	PeriodStart   string `json:"period_start"`
	PeriodEnd     string `json:"period_end"`
	TotalHours    string `json:"total_hours"`
	OvertimeHours string `json:"overtime_hours"`
	OvertimePaid  string `json:"overtime_paid"`
	AmountOwed    string `json:"amount_owed"`
	Status        string `json:"status"`
	RuleID        string `json:"rule_id"`
	RuleRegion    string `json:"rule_region"`
}

func toOvertimeViolationDTO(v compliance.OvertimeViolation) OvertimeViolationDTO {
	return OvertimeViolationDTO{
		WorkerID:      v.WorkerID,
		WorkerName:    v.WorkerName,
		PeriodStart:   v.Period.Start.Format(dateFormat),
		PeriodEnd:     v.Period.End.Format(dateFormat),
		TotalHours:    v.TotalHours.String(),
		OvertimeHours: v.OvertimeHours.String(),
		OvertimePaid:  v.OvertimePaid.String(),
		AmountOwed:    v.AmountOwed.StringFixed(2),
		Status:        string(v.Status),
		RuleID:        v.Rule.ID,
		RuleRegion:    v.Rule.Region,
	}
}

// FindingDTO represents one aggregated finding.
type FindingDTO struct {
	ID                string   `json:"id"`
	Type              string   `json:"type"`
	Severity          string   `json:"severity"`
	AffectedCount     int      `json:"affected_count"`
	AffectedWorkerIDs []string `json:"affected_worker_ids"`
	Description       string   `json:"description"`
	PotentialPenalty  string   `json:"potential_penalty"`
	Remediation       string   `json:"remediation"`
}

func toFindingDTO(f compliance.Finding) FindingDTO {
	return FindingDTO{
		ID:                f.ID,
		Type:              string(f.Type),
		Severity:          string(f.Severity),
		AffectedCount:     f.AffectedCount,
		AffectedWorkerIDs: f.AffectedWorkerIDs,
		Description:       f.Description,
		PotentialPenalty:  f.PotentialPenalty.StringFixed(2),
		Remediation:       f.Remediation,
	}
}

// DiagnosticDTO represents one per-worker evaluation failure.
type DiagnosticDTO struct {
	WorkerID string `json:"worker_id"`
	Stage    string `json:"stage"`
	Reason   string `json:"reason"`
}

// TrendPointDTO represents one score history point.
type TrendPointDTO struct {
	RunID      string `json:"run_id"`
	At         string `json:"at"`
	Score      int    `json:"score"`
	Violations int    `json:"violations"`
}

func toTrendPointDTO(s compliance.ScoreSnapshot) TrendPointDTO {
	return TrendPointDTO{
		RunID:      s.RunID,
		At:         s.At.UTC().Format("2006-01-02T15:04:05Z07:00"),
		Score:      s.Score,
		Violations: s.Violations,
	}
}

// ScanReportDTO represents the full result of one compliance scan.
type ScanReportDTO struct {
	RunID              string                 `json:"run_id"`
	StartedAt          string                 `json:"started_at"`
	CompletedAt        string                 `json:"completed_at"`
	RuleVersion        int64                  `json:"rule_version"`
	WorkersEvaluated   int                    `json:"workers_evaluated"`
	OverallScore       int                    `json:"overall_score"`
	TotalViolations    int                    `json:"total_violations"`
	EmployeesAtRisk    int                    `json:"employees_at_risk"`
	WageChecks         []WageCheckDTO         `json:"wage_checks"`
	OvertimeViolations []OvertimeViolationDTO `json:"overtime_violations"`
	Findings           []FindingDTO           `json:"findings"`
	Diagnostics        []DiagnosticDTO        `json:"diagnostics,omitempty"`
	Trend              []TrendPointDTO        `json:"trend,omitempty"`
}

func toScanReportDTO(r *compliance.ScanReport) ScanReportDTO {
	dto := ScanReportDTO{
		RunID:            r.RunID,
		StartedAt:        r.StartedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
		CompletedAt:      r.CompletedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
		RuleVersion:      r.RuleVersion,
		WorkersEvaluated: r.WorkersEvaluated,
		OverallScore:     r.OverallScore,
		TotalViolations:  r.TotalViolations,
		EmployeesAtRisk:  r.EmployeesAtRisk,
	}
	for _, c := range r.WageChecks {
		dto.WageChecks = append(dto.WageChecks, toWageCheckDTO(c))
	}
	for _, v := range r.OvertimeViolations {
		dto.OvertimeViolations = append(dto.OvertimeViolations, toOvertimeViolationDTO(v))
	}
	for _, f := range r.Findings {
		dto.Findings = append(dto.Findings, toFindingDTO(f))
	}
	for _, d := range r.Diagnostics {
		dto.Diagnostics = append(dto.Diagnostics, DiagnosticDTO(d))
	}
	for _, s := range r.Trend {
		dto.Trend = append(dto.Trend, toTrendPointDTO(s))
	}
	return dto
}

// =============================================================================
// REQUEST TYPES
// =============================================================================

// OvertimeCheckRequest asks for one worker/period overtime evaluation.
type OvertimeCheckRequest struct {
	PeriodStart string `json:"period_start"`
	PeriodEnd   string `json:"period_end"`
}

// LoadScenarioRequest selects a demo scenario to load.
type LoadScenarioRequest struct {
	ScenarioID string `json:"scenario_id"`
}

// ScenarioDTO describes one demo scenario.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}
