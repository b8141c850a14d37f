package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/goasset/internal/domain"
)

// ReverseResult summarises a reversal.
type ReverseResult struct {
	BusinessID     string
	Period         domain.Period
	Reversed       int
	ReversedPosted int
	TotalAmount    decimal.Decimal
}

// ReverseDepreciation deletes every entry of the period, draft or posted,
// and restores each asset to the entry's "before" snapshot. The whole period
// is reversed in one transaction or not at all.
func (uc *DepreciationUseCase) ReverseDepreciation(ctx context.Context, input PeriodInput) (*ReverseResult, error) {
	period, err := input.period()
	if err != nil {
		return nil, err
	}

	release, err := uc.lockPeriod(ctx, input.BusinessID, period)
	if err != nil {
		return nil, err
	}
	defer release()

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	entries, err := uc.entryRepo.ListByPeriodForUpdate(txCtx, tx, input.BusinessID, period.End, nil)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, domain.ErrPeriodNotFound
	}

	// Lock assets in a stable order (deadlock prevention).
	sort.Slice(entries, func(i, j int) bool { return entries[i].AssetID < entries[j].AssetID })

	now := uc.now().UTC()
	totalAmount := decimal.Zero
	entryIDs := make([]string, 0, len(entries))
	postedIDs := make([]string, 0)

	for _, entry := range entries {
		if entry.IsPosted() {
			if !uc.allowPostedReversal {
				return nil, fmt.Errorf("entry %s: %w", entry.ID, domain.ErrEntryPosted)
			}
			postedIDs = append(postedIDs, entry.ID)
		}

		if err := uc.reverseEntry(txCtx, tx, entry, now); err != nil {
			return nil, err
		}

		entryIDs = append(entryIDs, entry.ID)
		totalAmount = totalAmount.Add(entry.DepreciationAmount)
	}
	totalAmount = domain.RoundMoney(totalAmount)

	event := domain.DepreciationReversedEvent{
		BusinessID:     input.BusinessID,
		PeriodEnd:      period.String(),
		EntryIDs:       entryIDs,
		PostedEntryIDs: postedIDs,
		Reversed:       len(entryIDs),
		TotalAmount:    totalAmount.StringFixed(domain.MoneyPlaces),
	}
	if err := uc.outboxRepo.Create(txCtx, tx, &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   period.Key(input.BusinessID),
		AggregateType: domain.AggregateTypeDepreciationPeriod,
		EventType:     domain.EventTypeDepreciationReversed,
		Payload:       event.Payload(),
		CreatedAt:     now,
	}); err != nil {
		return nil, err
	}

	if uc.auditRepo != nil {
		auditLog := uc.newAuditLog(ctx, domain.AuditActionDepreciationReverse, input.BusinessID, period, domain.AuditStatusSuccess, domain.JSON{
			"reversed":        len(entryIDs),
			"reversed_posted": len(postedIDs),
			"total_amount":    event.TotalAmount,
		})
		if err := uc.auditRepo.CreateTx(txCtx, tx, auditLog); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.EntriesReversed.Add(float64(len(entryIDs)))
	}

	logEvent := uc.logger.Info()
	if len(postedIDs) > 0 {
		logEvent = uc.logger.Warn()
	}
	logEvent.
		Str("business_id", input.BusinessID).
		Str("period_end", period.String()).
		Int("reversed", len(entryIDs)).
		Int("reversed_posted", len(postedIDs)).
		Msg("depreciation reversed")

	return &ReverseResult{
		BusinessID:     input.BusinessID,
		Period:         period,
		Reversed:       len(entryIDs),
		ReversedPosted: len(postedIDs),
		TotalAmount:    totalAmount,
	}, nil
}

func (uc *DepreciationUseCase) reverseEntry(ctx context.Context, tx Transaction, entry *domain.DepreciationEntry, now time.Time) error {
	later, err := uc.entryRepo.HasLaterPeriod(ctx, tx, entry.AssetID, entry.PeriodEnd)
	if err != nil {
		return err
	}
	if later {
		return fmt.Errorf("asset %s: %w", entry.AssetID, domain.ErrLaterPeriodExists)
	}

	asset, err := uc.assetRepo.GetByIDForUpdate(ctx, tx, entry.AssetID)
	if err != nil {
		return fmt.Errorf("asset %s: %w", entry.AssetID, err)
	}

	if !asset.BookValue.Equal(entry.BookValueAfter) {
		uc.logger.Warn().
			Str("asset_id", asset.ID).
			Str("entry_id", entry.ID).
			Str("book_value", asset.BookValue.String()).
			Str("entry_book_value_after", entry.BookValueAfter.String()).
			Msg("asset book value drifted from entry snapshot")
	}

	if err := uc.entryRepo.Delete(ctx, tx, entry.ID); err != nil {
		return err
	}

	lastDate, err := uc.entryRepo.LatestPeriodEnd(ctx, tx, entry.AssetID)
	if err != nil {
		return err
	}

	return uc.assetRepo.UpdateDepreciation(ctx, tx, AssetDepreciationUpdate{
		AssetID:                 entry.AssetID,
		AccumulatedDepreciation: entry.AccumulatedBefore,
		BookValue:               entry.BookValueBefore,
		LastDepreciationDate:    lastDate,
		UpdatedAt:               now,
	})
}
