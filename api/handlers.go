/*
handlers.go - HTTP API handlers for the compliance engine

PURPOSE:
  Exposes the compliance engine via REST API. Handles HTTP
  request/response, JSON serialization, and delegates to domain logic.

ENDPOINTS:
  Workers:
    GET    /api/workers                        List worker wage records
    GET    /api/workers/{id}/wage-check        Evaluate one worker's wage
    POST   /api/workers/{id}/overtime-check    Evaluate one worker/period

  Compliance:
    POST   /api/compliance/scan                Run a full population scan
    GET    /api/compliance/dashboard           Scan + dashboard read model
    GET    /api/compliance/trend               Score history

  Regulatory:
    GET    /api/rates                          List minimum-wage rates
    GET    /api/rules                          List overtime rules

  Scenarios:
    GET    /api/scenarios                      List demo scenarios
    POST   /api/scenarios/load                 Load a demo scenario

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Unknown worker
  - 422: No applicable rate/rule for the worker's location
  - 500: Internal errors

SECURITY NOTE:
  Currently NO authentication or authorization. All endpoints are public.

SEE ALSO:
  - dto.go: Request/response data structures
  - dashboard.go: Dashboard read model assembly
  - scenarios.go: Demo scenario loaders
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/warp/compliance-engine/compliance"
	"github.com/warp/compliance-engine/regulatory"
	"github.com/warp/compliance-engine/store/sqlite"
	"github.com/warp/compliance-engine/workforce"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store   *sqlite.Store
	Scanner *compliance.Scanner
}

// NewHandler creates a new handler around the given store. The scanner
// reads rules, workers, and trend history from the same store.
func NewHandler(store *sqlite.Store) *Handler {
	scanner := compliance.NewScanner(store, store)
	scanner.Trend = store
	return &Handler{Store: store, Scanner: scanner}
}

// =============================================================================
// WORKER HANDLERS
// =============================================================================

// ListWorkers returns all worker wage records.
func (h *Handler) ListWorkers(w http.ResponseWriter, r *http.Request) {
	records, err := h.Store.ListWageRecords(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, err)
		return
	}
	dtos := make([]WorkerDTO, 0, len(records))
	for _, rec := range records {
		dtos = append(dtos, toWorkerDTO(rec))
	}
	respondJSON(w, http.StatusOK, dtos)
}

// WageCheck evaluates one worker's current wage.
func (h *Handler) WageCheck(w http.ResponseWriter, r *http.Request) {
	workerID := chi.URLParam(r, "id")

	rec, err := h.Store.WageRecord(r.Context(), workerID)
	if err != nil {
		respondError(w, statusFor(err), err)
		return
	}

	eval := compliance.NewWageEvaluator(h.Store)
	check, err := eval.Evaluate(r.Context(), *rec)
	if err != nil {
		respondError(w, statusFor(err), err)
		return
	}
	respondJSON(w, http.StatusOK, toWageCheckDTO(*check))
}

// OvertimeCheck evaluates one worker's overtime for a pay period.
func (h *Handler) OvertimeCheck(w http.ResponseWriter, r *http.Request) {
	workerID := chi.URLParam(r, "id")

	var req OvertimeCheckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	period, err := parsePeriod(req.PeriodStart, req.PeriodEnd)
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	rec, err := h.Store.TimeRecord(r.Context(), workerID, period)
	if err != nil {
		respondError(w, statusFor(err), err)
		return
	}

	eval := compliance.NewOvertimeEvaluator(h.Store)
	violations, err := eval.Evaluate(r.Context(), *rec)
	if err != nil {
		respondError(w, statusFor(err), err)
		return
	}
	dtos := make([]OvertimeViolationDTO, 0, len(violations))
	for _, v := range violations {
		dtos = append(dtos, toOvertimeViolationDTO(v))
	}
	respondJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// COMPLIANCE HANDLERS
// =============================================================================

// RunScan executes a full population scan and returns the report.
func (h *Handler) RunScan(w http.ResponseWriter, r *http.Request) {
	report, err := h.Scanner.Run(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, err)
		return
	}
	respondJSON(w, http.StatusOK, toScanReportDTO(report))
}

// Dashboard runs a scan and returns the assembled dashboard read model.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	snap, err := h.Store.Snapshot(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, err)
		return
	}
	report, err := h.Scanner.Run(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, err)
		return
	}
	respondJSON(w, http.StatusOK, AssembleDashboard(report, snap))
}

// Trend returns the recent score history.
func (h *Handler) Trend(w http.ResponseWriter, r *http.Request) {
	history, err := h.Store.Recent(r.Context(), 30)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err)
		return
	}
	dtos := make([]TrendPointDTO, 0, len(history))
	for _, s := range history {
		dtos = append(dtos, toTrendPointDTO(s))
	}
	respondJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// REGULATORY HANDLERS
// =============================================================================

// ListRates returns all minimum-wage rate records.
func (h *Handler) ListRates(w http.ResponseWriter, r *http.Request) {
	snap, err := h.Store.Snapshot(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, err)
		return
	}
	rates := snap.Rates()
	dtos := make([]RateDTO, 0, len(rates))
	for _, rate := range rates {
		dtos = append(dtos, toRateDTO(rate))
	}
	respondJSON(w, http.StatusOK, dtos)
}

// ListRules returns all overtime rule records.
func (h *Handler) ListRules(w http.ResponseWriter, r *http.Request) {
	snap, err := h.Store.Snapshot(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, err)
		return
	}
	rules := snap.Rules()
	dtos := make([]RuleDTO, 0, len(rules))
	for _, rule := range rules {
		dtos = append(dtos, toRuleDTO(rule))
	}
	respondJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// HELPERS
// =============================================================================

func parsePeriod(start, end string) (workforce.PayPeriod, error) {
	s, err := time.Parse(dateFormat, start)
	if err != nil {
		return workforce.PayPeriod{}, err
	}
	e, err := time.Parse(dateFormat, end)
	if err != nil {
		return workforce.PayPeriod{}, err
	}
	period := workforce.PayPeriod{Start: s.UTC(), End: e.UTC()}
	if !period.Valid() {
		return workforce.PayPeriod{}, workforce.ErrInvalidPayPeriod
	}
	return period, nil
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, workforce.ErrWorkerNotFound):
		return http.StatusNotFound
	case errors.Is(err, workforce.ErrInvalidPayPeriod):
		return http.StatusBadRequest
	case errors.Is(err, regulatory.ErrNoApplicableRule):
		return http.StatusUnprocessableEntity
	case errors.Is(err, regulatory.ErrInvalidRecord):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, err error) {
	respondJSON(w, status, map[string]string{"error": err.Error()})
}
