package dto

import (
	"fmt"
	"time"

	"github.com/iho/goasset/internal/domain"
	"github.com/iho/goasset/internal/usecase"
)

// RunDepreciationRequest represents a request to run depreciation for a period.
type RunDepreciationRequest struct {
	PeriodEnd string `json:"period_end"`
}

// ToUseCaseInput converts to use case input.
func (r *RunDepreciationRequest) ToUseCaseInput(businessID string) (usecase.PeriodInput, error) {
	return PeriodInput(businessID, r.PeriodEnd)
}

// PeriodInput builds use case input from a business ID and a YYYY-MM-DD
// period end. Any day of the month selects that month.
func PeriodInput(businessID, periodEnd string) (usecase.PeriodInput, error) {
	if periodEnd == "" {
		return usecase.PeriodInput{}, fmt.Errorf("%w: period_end is required", domain.ErrInvalidPeriod)
	}

	end, err := time.Parse(domain.DateLayout, periodEnd)
	if err != nil {
		return usecase.PeriodInput{}, fmt.Errorf("%w: %q is not YYYY-MM-DD", domain.ErrInvalidPeriod, periodEnd)
	}

	return usecase.PeriodInput{
		BusinessID: businessID,
		PeriodEnd:  end,
	}, nil
}
