package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/goasset/internal/adapter/export"
	"github.com/iho/goasset/internal/adapter/http/dto"
	"github.com/iho/goasset/internal/domain"
	"github.com/iho/goasset/internal/usecase"
)

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, message, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(dto.ErrorResponse{
		Error:   message,
		Message: details,
	})
}

// writeDomainError maps err and writes it.
func writeDomainError(w http.ResponseWriter, err error) {
	status := mapDomainError(err)
	if status == http.StatusInternalServerError {
		writeError(w, status, "internal error", "")
		return
	}
	writeError(w, status, http.StatusText(status), err.Error())
}

// mapDomainError maps domain errors to HTTP status codes. Conflicts are
// matched first: posting a never-run period wraps ErrPeriodNotFound in
// ErrNoDraftEntries and must stay a 409.
func mapDomainError(err error) int {
	switch {
	case errors.Is(err, domain.ErrNoDraftEntries),
		errors.Is(err, domain.ErrRunInProgress),
		errors.Is(err, domain.ErrLaterPeriodExists),
		errors.Is(err, domain.ErrEntryPosted),
		errors.Is(err, domain.ErrEntryExists):
		return http.StatusConflict
	case errors.Is(err, domain.ErrPeriodNotFound),
		errors.Is(err, domain.ErrAssetNotFound),
		errors.Is(err, domain.ErrEntryNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidPeriod),
		errors.Is(err, domain.ErrInvalidBusinessID),
		errors.Is(err, export.ErrUnsupportedFormat):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUnauthorized),
		errors.Is(err, domain.ErrInvalidToken),
		errors.Is(err, domain.ErrExpiredToken):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrInsufficientRole),
		errors.Is(err, domain.ErrBusinessMismatch):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// periodInput reads the business and period path parameters.
func periodInput(r *http.Request) (usecase.PeriodInput, error) {
	return dto.PeriodInput(chi.URLParam(r, "businessID"), chi.URLParam(r, "periodEnd"))
}
