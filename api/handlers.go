/*
handlers.go - Read-only HTTP handlers over the latest run

PURPOSE:
  The dashboard (out of process) consumes the normalized outputs. This
  surface serves the same data as JSON straight from the last completed
  run: the run report with its audit counts, the case table, the daily
  fact table and the cumulative timesheet rows.

CONCURRENCY:
  The handler holds the latest pipeline result behind an RWMutex. Runs
  publish with SetResult; requests only ever read.

ERRORS:
  - 404: no ingestion run has completed yet
  - 500: encoding failures (should not happen)

SEE ALSO:
  - dto.go: response shapes
  - server.go: router and middleware
*/
package api

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/warp/ingest-engine/pipeline"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler serves the latest ingestion result.
type Handler struct {
	mu     sync.RWMutex
	latest *pipeline.Result
}

func NewHandler() *Handler {
	return &Handler{}
}

// SetResult publishes a completed run's result.
func (h *Handler) SetResult(res *pipeline.Result) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.latest = res
}

func (h *Handler) result() *pipeline.Result {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.latest
}

// =============================================================================
// ENDPOINTS
// =============================================================================

// GetReport returns the end-of-run report with its audit counts.
func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	res := h.result()
	if res == nil {
		writeError(w, http.StatusNotFound, "no completed ingestion run")
		return
	}
	writeJSON(w, http.StatusOK, res.Report)
}

// ListCases returns the normalized absence cases of the latest run.
func (h *Handler) ListCases(w http.ResponseWriter, r *http.Request) {
	res := h.result()
	if res == nil {
		writeError(w, http.StatusNotFound, "no completed ingestion run")
		return
	}
	dtos := make([]CaseDTO, 0, len(res.Cases))
	for _, c := range res.Cases {
		dtos = append(dtos, toCaseDTO(c))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// ListDailyFacts returns the expanded daily absence facts.
func (h *Handler) ListDailyFacts(w http.ResponseWriter, r *http.Request) {
	res := h.result()
	if res == nil {
		writeError(w, http.StatusNotFound, "no completed ingestion run")
		return
	}
	dtos := make([]DailyFactDTO, 0, len(res.Facts))
	for _, f := range res.Facts {
		dtos = append(dtos, toDailyFactDTO(f))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// ListTimesheet returns the cumulative timesheet rows after the latest merge.
func (h *Handler) ListTimesheet(w http.ResponseWriter, r *http.Request) {
	res := h.result()
	if res == nil {
		writeError(w, http.StatusNotFound, "no completed ingestion run")
		return
	}
	dtos := make([]TimesheetRecordDTO, 0, len(res.Rows))
	for _, rec := range res.Rows {
		dtos = append(dtos, toTimesheetRecordDTO(rec))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// Health is a liveness probe.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}
