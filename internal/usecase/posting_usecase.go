package usecase

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/iho/goasset/internal/domain"
)

// PostResult summarises a posting.
type PostResult struct {
	BusinessID  string
	Period      domain.Period
	Posted      int
	TotalAmount decimal.Decimal
	EntryIDs    []string
}

// PostDepreciation promotes every draft entry of the period to posted and
// records a depreciation.posted outbox event for the accounting ledger.
// Amounts are never recomputed.
func (uc *DepreciationUseCase) PostDepreciation(ctx context.Context, input PeriodInput) (*PostResult, error) {
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

	draft := domain.EntryStatusDraft
	entries, err := uc.entryRepo.ListByPeriodForUpdate(txCtx, tx, input.BusinessID, period.End, &draft)
	if err != nil {
		return nil, err
	}

	if len(entries) == 0 {
		total, err := uc.entryRepo.CountByPeriod(txCtx, tx, input.BusinessID, period.End)
		if err != nil {
			return nil, err
		}
		if total == 0 {
			return nil, fmt.Errorf("%w: %w", domain.ErrNoDraftEntries, domain.ErrPeriodNotFound)
		}
		return nil, domain.ErrNoDraftEntries
	}

	ids := make([]string, 0, len(entries))
	totalAmount := decimal.Zero
	for _, e := range entries {
		ids = append(ids, e.ID)
		totalAmount = totalAmount.Add(e.DepreciationAmount)
	}
	totalAmount = domain.RoundMoney(totalAmount)

	now := uc.now().UTC()
	posted, err := uc.entryRepo.MarkPosted(txCtx, tx, ids, now)
	if err != nil {
		return nil, err
	}
	if posted != int64(len(ids)) {
		return nil, fmt.Errorf("posted %d of %d draft entries: %w", posted, len(ids), domain.ErrInvalidEntryStatus)
	}

	event := domain.DepreciationPostedEvent{
		BusinessID:  input.BusinessID,
		PeriodStart: period.Start.Format(domain.DateLayout),
		PeriodEnd:   period.String(),
		EntryIDs:    ids,
		Posted:      len(ids),
		TotalAmount: totalAmount.StringFixed(domain.MoneyPlaces),
	}
	if err := uc.outboxRepo.Create(txCtx, tx, &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   period.Key(input.BusinessID),
		AggregateType: domain.AggregateTypeDepreciationPeriod,
		EventType:     domain.EventTypeDepreciationPosted,
		Payload:       event.Payload(),
		CreatedAt:     now,
	}); err != nil {
		return nil, err
	}

	if uc.auditRepo != nil {
		auditLog := uc.newAuditLog(ctx, domain.AuditActionDepreciationPost, input.BusinessID, period, domain.AuditStatusSuccess, domain.JSON{
			"posted":       len(ids),
			"total_amount": event.TotalAmount,
		})
		if err := uc.auditRepo.CreateTx(txCtx, tx, auditLog); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.EntriesPosted.Add(float64(len(ids)))
	}

	uc.logger.Info().
		Str("business_id", input.BusinessID).
		Str("period_end", period.String()).
		Int("posted", len(ids)).
		Str("total_amount", event.TotalAmount).
		Msg("depreciation posted")

	return &PostResult{
		BusinessID:  input.BusinessID,
		Period:      period,
		Posted:      len(ids),
		TotalAmount: totalAmount,
		EntryIDs:    ids,
	}, nil
}
