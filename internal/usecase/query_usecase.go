package usecase

import (
	"context"

	"github.com/iho/goasset/internal/domain"
)

// GetByPeriod lists the period's entries with asset and category identity,
// ordered by asset number.
func (uc *DepreciationUseCase) GetByPeriod(ctx context.Context, input PeriodInput) ([]*domain.EntryDetail, error) {
	period, err := input.period()
	if err != nil {
		return nil, err
	}

	return uc.entryRepo.ListDetailsByPeriod(ctx, input.BusinessID, period.End)
}

// GetSummaryByCategory aggregates the period's entries per asset category.
// Categories without entries in the period are omitted.
func (uc *DepreciationUseCase) GetSummaryByCategory(ctx context.Context, input PeriodInput) ([]*domain.CategorySummary, error) {
	period, err := input.period()
	if err != nil {
		return nil, err
	}

	return uc.entryRepo.SummarizeByCategory(ctx, input.BusinessID, period.End)
}

// PeriodSchedule is the printable depreciation schedule of one period.
type PeriodSchedule struct {
	BusinessID string
	Period     domain.Period
	Entries    []*domain.EntryDetail
	Categories []*domain.CategorySummary
}

// GetSchedule loads both projections of a period for export. A period with
// no entries is reported as domain.ErrPeriodNotFound.
func (uc *DepreciationUseCase) GetSchedule(ctx context.Context, input PeriodInput) (*PeriodSchedule, error) {
	period, err := input.period()
	if err != nil {
		return nil, err
	}

	entries, err := uc.entryRepo.ListDetailsByPeriod(ctx, input.BusinessID, period.End)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, domain.ErrPeriodNotFound
	}

	categories, err := uc.entryRepo.SummarizeByCategory(ctx, input.BusinessID, period.End)
	if err != nil {
		return nil, err
	}

	return &PeriodSchedule{
		BusinessID: input.BusinessID,
		Period:     period,
		Entries:    entries,
		Categories: categories,
	}, nil
}
