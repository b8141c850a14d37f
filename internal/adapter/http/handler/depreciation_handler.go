package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/iho/goasset/internal/adapter/export"
	"github.com/iho/goasset/internal/adapter/http/dto"
	"github.com/iho/goasset/internal/domain"
	"github.com/iho/goasset/internal/usecase"
)

// DepreciationService is the use case surface the handler needs.
type DepreciationService interface {
	RunDepreciation(ctx context.Context, input usecase.PeriodInput) (*usecase.RunResult, error)
	PostDepreciation(ctx context.Context, input usecase.PeriodInput) (*usecase.PostResult, error)
	ReverseDepreciation(ctx context.Context, input usecase.PeriodInput) (*usecase.ReverseResult, error)
	GetByPeriod(ctx context.Context, input usecase.PeriodInput) ([]*domain.EntryDetail, error)
	GetSummaryByCategory(ctx context.Context, input usecase.PeriodInput) ([]*domain.CategorySummary, error)
	GetSchedule(ctx context.Context, input usecase.PeriodInput) (*usecase.PeriodSchedule, error)
}

// DepreciationHandler handles depreciation HTTP requests.
type DepreciationHandler struct {
	service DepreciationService
}

// NewDepreciationHandler creates a new DepreciationHandler.
func NewDepreciationHandler(service DepreciationService) *DepreciationHandler {
	return &DepreciationHandler{service: service}
}

// Run handles POST /businesses/{businessID}/depreciation/runs.
// A run where some assets failed answers 207 Multi-Status.
func (h *DepreciationHandler) Run(w http.ResponseWriter, r *http.Request) {
	var req dto.RunDepreciationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	input, err := req.ToUseCaseInput(chi.URLParam(r, "businessID"))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	result, err := h.service.RunDepreciation(r.Context(), input)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	status := http.StatusOK
	if result.Partial() {
		status = http.StatusMultiStatus
	}
	writeJSON(w, status, dto.RunResponseFromResult(result))
}

// Post handles POST /businesses/{businessID}/depreciation/periods/{periodEnd}/post.
func (h *DepreciationHandler) Post(w http.ResponseWriter, r *http.Request) {
	input, err := periodInput(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	result, err := h.service.PostDepreciation(r.Context(), input)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.PostResponseFromResult(result))
}

// Reverse handles POST /businesses/{businessID}/depreciation/periods/{periodEnd}/reverse.
func (h *DepreciationHandler) Reverse(w http.ResponseWriter, r *http.Request) {
	input, err := periodInput(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	result, err := h.service.ReverseDepreciation(r.Context(), input)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ReverseResponseFromResult(result))
}

// Entries handles GET /businesses/{businessID}/depreciation/periods/{periodEnd}/entries.
func (h *DepreciationHandler) Entries(w http.ResponseWriter, r *http.Request) {
	input, err := periodInput(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	entries, err := h.service.GetByPeriod(r.Context(), input)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.EntriesFromDomain(entries))
}

// Summary handles GET /businesses/{businessID}/depreciation/periods/{periodEnd}/summary.
func (h *DepreciationHandler) Summary(w http.ResponseWriter, r *http.Request) {
	input, err := periodInput(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	summaries, err := h.service.GetSummaryByCategory(r.Context(), input)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.CategorySummariesFromDomain(summaries))
}

// Export handles GET /businesses/{businessID}/depreciation/periods/{periodEnd}/export?format=xlsx|pdf.
func (h *DepreciationHandler) Export(w http.ResponseWriter, r *http.Request) {
	format, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	input, err := periodInput(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	schedule, err := h.service.GetSchedule(r.Context(), input)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	data, err := export.Render(format, schedule)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", format.Filename(schedule)))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
