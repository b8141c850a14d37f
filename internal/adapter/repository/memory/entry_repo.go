package memory

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/goasset/internal/domain"
	"github.com/iho/goasset/internal/usecase"
)

// EntryRepository implements usecase.EntryRepository.
type EntryRepository struct {
	store *Store
}

// NewEntryRepository creates a new EntryRepository.
func NewEntryRepository(store *Store) *EntryRepository {
	return &EntryRepository{store: store}
}

func samePeriod(a, b time.Time) bool {
	return a.Format(domain.DateLayout) == b.Format(domain.DateLayout)
}

// Create stores a draft entry, enforcing one entry per asset and period.
func (r *EntryRepository) Create(ctx context.Context, tx usecase.Transaction, entry *domain.DepreciationEntry) error {
	if err := r.store.check(tx); err != nil {
		return err
	}

	for _, e := range r.store.entries {
		if e.AssetID == entry.AssetID && samePeriod(e.PeriodEnd, entry.PeriodEnd) {
			return domain.ErrEntryExists
		}
	}

	r.store.entries[entry.ID] = *entry
	return nil
}

// ExistsForPeriod reports whether the asset has an entry for the period.
func (r *EntryRepository) ExistsForPeriod(ctx context.Context, tx usecase.Transaction, assetID string, periodEnd time.Time) (bool, error) {
	if err := r.store.check(tx); err != nil {
		return false, err
	}

	for _, e := range r.store.entries {
		if e.AssetID == assetID && samePeriod(e.PeriodEnd, periodEnd) {
			return true, nil
		}
	}
	return false, nil
}

// HasLaterPeriod reports whether the asset has an entry after periodEnd.
func (r *EntryRepository) HasLaterPeriod(ctx context.Context, tx usecase.Transaction, assetID string, periodEnd time.Time) (bool, error) {
	if err := r.store.check(tx); err != nil {
		return false, err
	}

	for _, e := range r.store.entries {
		if e.AssetID == assetID && e.PeriodEnd.After(periodEnd) && !samePeriod(e.PeriodEnd, periodEnd) {
			return true, nil
		}
	}
	return false, nil
}

// LatestPeriodEnd returns the asset's latest period end, or nil.
func (r *EntryRepository) LatestPeriodEnd(ctx context.Context, tx usecase.Transaction, assetID string) (*time.Time, error) {
	if err := r.store.check(tx); err != nil {
		return nil, err
	}

	var latest *time.Time
	for _, e := range r.store.entries {
		if e.AssetID != assetID {
			continue
		}
		if latest == nil || e.PeriodEnd.After(*latest) {
			t := e.PeriodEnd
			latest = &t
		}
	}
	return latest, nil
}

// ListByPeriodForUpdate returns the period's entries ordered by asset ID.
func (r *EntryRepository) ListByPeriodForUpdate(ctx context.Context, tx usecase.Transaction, businessID string, periodEnd time.Time, status *domain.EntryStatus) ([]*domain.DepreciationEntry, error) {
	if err := r.store.check(tx); err != nil {
		return nil, err
	}

	entries := make([]*domain.DepreciationEntry, 0)
	for _, e := range r.store.entries {
		if e.BusinessID != businessID || !samePeriod(e.PeriodEnd, periodEnd) {
			continue
		}
		if status != nil && e.Status != *status {
			continue
		}
		entry := e
		entries = append(entries, &entry)
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].AssetID < entries[j].AssetID })

	return entries, nil
}

// CountByPeriod counts the period's entries.
func (r *EntryRepository) CountByPeriod(ctx context.Context, tx usecase.Transaction, businessID string, periodEnd time.Time) (int64, error) {
	if err := r.store.check(tx); err != nil {
		return 0, err
	}

	var n int64
	for _, e := range r.store.entries {
		if e.BusinessID == businessID && samePeriod(e.PeriodEnd, periodEnd) {
			n++
		}
	}
	return n, nil
}

// MarkPosted moves draft entries to posted.
func (r *EntryRepository) MarkPosted(ctx context.Context, tx usecase.Transaction, ids []string, postedAt time.Time) (int64, error) {
	if err := r.store.check(tx); err != nil {
		return 0, err
	}

	var n int64
	for _, id := range ids {
		e, ok := r.store.entries[id]
		if !ok || e.Status != domain.EntryStatusDraft {
			continue
		}
		at := postedAt
		e.Status = domain.EntryStatusPosted
		e.PostedAt = &at
		r.store.entries[id] = e
		n++
	}
	return n, nil
}

// Delete removes one entry.
func (r *EntryRepository) Delete(ctx context.Context, tx usecase.Transaction, id string) error {
	if err := r.store.check(tx); err != nil {
		return err
	}

	if _, ok := r.store.entries[id]; !ok {
		return domain.ErrEntryNotFound
	}
	delete(r.store.entries, id)
	return nil
}

// ListDetailsByPeriod joins the period's entries with their assets, ordered
// by asset number.
func (r *EntryRepository) ListDetailsByPeriod(ctx context.Context, businessID string, periodEnd time.Time) ([]*domain.EntryDetail, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	details := make([]*domain.EntryDetail, 0)
	for _, e := range r.store.entries {
		if e.BusinessID != businessID || !samePeriod(e.PeriodEnd, periodEnd) {
			continue
		}
		asset := r.store.assets[e.AssetID]
		details = append(details, &domain.EntryDetail{
			DepreciationEntry: e,
			AssetNumber:       asset.AssetNumber,
			AssetName:         asset.Name,
			CategoryID:        asset.CategoryID,
			CategoryName:      asset.CategoryName,
		})
	}

	sort.Slice(details, func(i, j int) bool { return details[i].AssetNumber < details[j].AssetNumber })

	return details, nil
}

// SummarizeByCategory aggregates the period's entries per category, ordered
// by category name.
func (r *EntryRepository) SummarizeByCategory(ctx context.Context, businessID string, periodEnd time.Time) ([]*domain.CategorySummary, error) {
	details, err := r.ListDetailsByPeriod(ctx, businessID, periodEnd)
	if err != nil {
		return nil, err
	}

	byCategory := make(map[string]*domain.CategorySummary)
	assetsSeen := make(map[string]map[string]bool)
	for _, d := range details {
		s, ok := byCategory[d.CategoryID]
		if !ok {
			s = &domain.CategorySummary{
				CategoryID:        d.CategoryID,
				CategoryName:      d.CategoryName,
				TotalDepreciation: decimal.Zero,
				TotalAccumulated:  decimal.Zero,
				TotalBookValue:    decimal.Zero,
			}
			byCategory[d.CategoryID] = s
			assetsSeen[d.CategoryID] = make(map[string]bool)
		}
		if !assetsSeen[d.CategoryID][d.AssetID] {
			assetsSeen[d.CategoryID][d.AssetID] = true
			s.AssetCount++
		}
		s.TotalDepreciation = s.TotalDepreciation.Add(d.DepreciationAmount)
		s.TotalAccumulated = s.TotalAccumulated.Add(d.AccumulatedAfter)
		s.TotalBookValue = s.TotalBookValue.Add(d.BookValueAfter)
	}

	summaries := make([]*domain.CategorySummary, 0, len(byCategory))
	for _, s := range byCategory {
		summaries = append(summaries, s)
	}
	sort.Slice(summaries, func(i, j int) bool { return summaries[i].CategoryName < summaries[j].CategoryName })

	return summaries, nil
}
