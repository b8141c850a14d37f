package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/iho/goasset/internal/domain"
	"github.com/iho/goasset/internal/infrastructure/postgres/generated"
	"github.com/iho/goasset/internal/usecase"
)

// EntryRepository implements usecase.EntryRepository.
type EntryRepository struct {
	queries *generated.Queries
}

// NewEntryRepository creates a new EntryRepository.
func NewEntryRepository(db generated.DBTX) *EntryRepository {
	return &EntryRepository{queries: generated.New(db)}
}

// Create inserts a draft entry. A duplicate (asset, period) returns
// domain.ErrEntryExists.
func (r *EntryRepository) Create(ctx context.Context, tx usecase.Transaction, entry *domain.DepreciationEntry) error {
	queries, err := queriesFor(tx)
	if err != nil {
		return err
	}

	err = queries.CreateDepreciationEntry(ctx, generated.CreateDepreciationEntryParams{
		ID:                 entry.ID,
		BusinessID:         entry.BusinessID,
		AssetID:            entry.AssetID,
		PeriodStart:        timeToPgDate(entry.PeriodStart),
		PeriodEnd:          timeToPgDate(entry.PeriodEnd),
		DepreciationMethod: string(entry.Method),
		DepreciationAmount: decimalToNumeric(entry.DepreciationAmount),
		AccumulatedBefore:  decimalToNumeric(entry.AccumulatedBefore),
		AccumulatedAfter:   decimalToNumeric(entry.AccumulatedAfter),
		BookValueBefore:    decimalToNumeric(entry.BookValueBefore),
		BookValueAfter:     decimalToNumeric(entry.BookValueAfter),
		Status:             string(entry.Status),
		PostedAt:           timePtrToPgTimestamptz(entry.PostedAt),
		CreatedAt:          timeToPgTimestamptz(entry.CreatedAt),
	})
	if hasPgCode(err, pgErrUniqueViolation) {
		return fmt.Errorf("asset %s period %s: %w", entry.AssetID, entry.PeriodEnd.Format(domain.DateLayout), domain.ErrEntryExists)
	}

	return err
}

// ExistsForPeriod reports whether the asset already has an entry for the period.
func (r *EntryRepository) ExistsForPeriod(ctx context.Context, tx usecase.Transaction, assetID string, periodEnd time.Time) (bool, error) {
	queries, err := queriesFor(tx)
	if err != nil {
		return false, err
	}

	return queries.EntryExistsForPeriod(ctx, generated.EntryExistsForPeriodParams{
		AssetID:   assetID,
		PeriodEnd: timeToPgDate(periodEnd),
	})
}

// HasLaterPeriod reports whether the asset has an entry after periodEnd.
func (r *EntryRepository) HasLaterPeriod(ctx context.Context, tx usecase.Transaction, assetID string, periodEnd time.Time) (bool, error) {
	queries, err := queriesFor(tx)
	if err != nil {
		return false, err
	}

	return queries.HasLaterPeriodEntry(ctx, generated.HasLaterPeriodEntryParams{
		AssetID:   assetID,
		PeriodEnd: timeToPgDate(periodEnd),
	})
}

// LatestPeriodEnd returns the asset's most recent period end, or nil.
func (r *EntryRepository) LatestPeriodEnd(ctx context.Context, tx usecase.Transaction, assetID string) (*time.Time, error) {
	queries, err := queriesFor(tx)
	if err != nil {
		return nil, err
	}

	d, err := queries.LatestEntryPeriodEnd(ctx, assetID)
	if err != nil {
		return nil, err
	}

	return pgDateToTimePtr(d), nil
}

// ListByPeriodForUpdate locks the period's entries, optionally filtered by status.
func (r *EntryRepository) ListByPeriodForUpdate(ctx context.Context, tx usecase.Transaction, businessID string, periodEnd time.Time, status *domain.EntryStatus) ([]*domain.DepreciationEntry, error) {
	queries, err := queriesFor(tx)
	if err != nil {
		return nil, err
	}

	var statusFilter string
	if status != nil {
		statusFilter = string(*status)
	}

	rows, err := queries.ListEntriesByPeriodForUpdate(ctx, generated.ListEntriesByPeriodForUpdateParams{
		BusinessID: businessID,
		PeriodEnd:  timeToPgDate(periodEnd),
		Status:     statusFilter,
	})
	if err != nil {
		return nil, err
	}

	entries := make([]*domain.DepreciationEntry, 0, len(rows))
	for _, row := range rows {
		entry := rowToEntry(row)
		entries = append(entries, &entry)
	}

	return entries, nil
}

// CountByPeriod counts the period's entries regardless of status.
func (r *EntryRepository) CountByPeriod(ctx context.Context, tx usecase.Transaction, businessID string, periodEnd time.Time) (int64, error) {
	queries, err := queriesFor(tx)
	if err != nil {
		return 0, err
	}

	return queries.CountEntriesByPeriod(ctx, generated.CountEntriesByPeriodParams{
		BusinessID: businessID,
		PeriodEnd:  timeToPgDate(periodEnd),
	})
}

// MarkPosted transitions draft entries to posted and returns how many moved.
func (r *EntryRepository) MarkPosted(ctx context.Context, tx usecase.Transaction, ids []string, postedAt time.Time) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	queries, err := queriesFor(tx)
	if err != nil {
		return 0, err
	}

	return queries.MarkEntriesPosted(ctx, generated.MarkEntriesPostedParams{
		Ids:      ids,
		PostedAt: timeToPgTimestamptz(postedAt),
	})
}

// Delete removes one entry.
func (r *EntryRepository) Delete(ctx context.Context, tx usecase.Transaction, id string) error {
	queries, err := queriesFor(tx)
	if err != nil {
		return err
	}

	affected, err := queries.DeleteDepreciationEntry(ctx, id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("entry %s: %w", id, domain.ErrEntryNotFound)
	}

	return nil
}

// ListDetailsByPeriod returns the period's entries joined with asset and
// category identity, ordered by asset number.
func (r *EntryRepository) ListDetailsByPeriod(ctx context.Context, businessID string, periodEnd time.Time) ([]*domain.EntryDetail, error) {
	rows, err := r.queries.ListEntryDetailsByPeriod(ctx, generated.ListEntryDetailsByPeriodParams{
		BusinessID: businessID,
		PeriodEnd:  timeToPgDate(periodEnd),
	})
	if err != nil {
		return nil, err
	}

	details := make([]*domain.EntryDetail, 0, len(rows))
	for _, row := range rows {
		details = append(details, &domain.EntryDetail{
			DepreciationEntry: rowToEntry(generated.DepreciationEntry{
				ID:                 row.ID,
				BusinessID:         row.BusinessID,
				AssetID:            row.AssetID,
				PeriodStart:        row.PeriodStart,
				PeriodEnd:          row.PeriodEnd,
				DepreciationMethod: row.DepreciationMethod,
				DepreciationAmount: row.DepreciationAmount,
				AccumulatedBefore:  row.AccumulatedBefore,
				AccumulatedAfter:   row.AccumulatedAfter,
				BookValueBefore:    row.BookValueBefore,
				BookValueAfter:     row.BookValueAfter,
				Status:             row.Status,
				PostedAt:           row.PostedAt,
				CreatedAt:          row.CreatedAt,
			}),
			AssetNumber:  row.AssetNumber,
			AssetName:    row.AssetName,
			CategoryID:   row.CategoryID,
			CategoryName: row.CategoryName,
		})
	}

	return details, nil
}

// SummarizeByCategory aggregates the period's entries per category.
func (r *EntryRepository) SummarizeByCategory(ctx context.Context, businessID string, periodEnd time.Time) ([]*domain.CategorySummary, error) {
	rows, err := r.queries.SummarizeEntriesByCategory(ctx, generated.SummarizeEntriesByCategoryParams{
		BusinessID: businessID,
		PeriodEnd:  timeToPgDate(periodEnd),
	})
	if err != nil {
		return nil, err
	}

	summaries := make([]*domain.CategorySummary, 0, len(rows))
	for _, row := range rows {
		summaries = append(summaries, &domain.CategorySummary{
			CategoryID:        row.CategoryID,
			CategoryName:      row.CategoryName,
			AssetCount:        row.AssetCount,
			TotalDepreciation: numericToDecimal(row.TotalDepreciation),
			TotalAccumulated:  numericToDecimal(row.TotalAccumulated),
			TotalBookValue:    numericToDecimal(row.TotalBookValue),
		})
	}

	return summaries, nil
}

func rowToEntry(row generated.DepreciationEntry) domain.DepreciationEntry {
	return domain.DepreciationEntry{
		ID:                 row.ID,
		BusinessID:         row.BusinessID,
		AssetID:            row.AssetID,
		PeriodStart:        row.PeriodStart.Time,
		PeriodEnd:          row.PeriodEnd.Time,
		Method:             domain.DepreciationMethod(row.DepreciationMethod),
		Status:             domain.EntryStatus(row.Status),
		DepreciationAmount: numericToDecimal(row.DepreciationAmount),
		AccumulatedBefore:  numericToDecimal(row.AccumulatedBefore),
		AccumulatedAfter:   numericToDecimal(row.AccumulatedAfter),
		BookValueBefore:    numericToDecimal(row.BookValueBefore),
		BookValueAfter:     numericToDecimal(row.BookValueAfter),
		PostedAt:           pgTimestamptzToTimePtr(row.PostedAt),
		CreatedAt:          row.CreatedAt.Time,
	}
}
