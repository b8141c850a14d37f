package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/goasset/internal/domain"
	"github.com/iho/goasset/internal/infrastructure/metrics"
)

// DepreciationUseCase runs, posts, reverses and reports periodic depreciation.
type DepreciationUseCase struct {
	txManager  TransactionManager
	assetRepo  AssetRepository
	entryRepo  EntryRepository
	outboxRepo OutboxRepository
	auditRepo  AuditRepository
	locker     RunLocker
	idGen      IDGenerator
	calculator *domain.Calculator
	retrier    Retrier
	metrics    *metrics.Metrics
	logger     zerolog.Logger
	now        Clock
	lockTTL    time.Duration

	allowPostedReversal bool
}

// NewDepreciationUseCase creates a new DepreciationUseCase.
func NewDepreciationUseCase(
	txManager TransactionManager,
	assetRepo AssetRepository,
	entryRepo EntryRepository,
	outboxRepo OutboxRepository,
	auditRepo AuditRepository,
	locker RunLocker,
	idGen IDGenerator,
	calculator *domain.Calculator,
) *DepreciationUseCase {
	if calculator == nil {
		calculator = domain.NewCalculator(domain.DefaultAccelerationFactor)
	}

	return &DepreciationUseCase{
		txManager:           txManager,
		assetRepo:           assetRepo,
		entryRepo:           entryRepo,
		outboxRepo:          outboxRepo,
		auditRepo:           auditRepo,
		locker:              locker,
		idGen:               idGen,
		calculator:          calculator,
		logger:              zerolog.Nop(),
		now:                 time.Now,
		lockTTL:             DefaultRunLockTTL,
		allowPostedReversal: true,
	}
}

// WithRetrier retries per-asset transactions on transient database errors.
func (uc *DepreciationUseCase) WithRetrier(retrier Retrier) *DepreciationUseCase {
	uc.retrier = retrier
	return uc
}

// WithMetrics records Prometheus metrics.
func (uc *DepreciationUseCase) WithMetrics(m *metrics.Metrics) *DepreciationUseCase {
	uc.metrics = m
	return uc
}

// WithLogger sets the logger.
func (uc *DepreciationUseCase) WithLogger(logger zerolog.Logger) *DepreciationUseCase {
	uc.logger = logger.With().Str("component", "depreciation").Logger()
	return uc
}

// WithClock overrides the time source.
func (uc *DepreciationUseCase) WithClock(now Clock) *DepreciationUseCase {
	uc.now = now
	return uc
}

// WithLockTTL sets how long a period lock is held at most.
func (uc *DepreciationUseCase) WithLockTTL(ttl time.Duration) *DepreciationUseCase {
	if ttl > 0 {
		uc.lockTTL = ttl
	}
	return uc
}

// WithPostedReversal controls whether posted entries may be reversed.
func (uc *DepreciationUseCase) WithPostedReversal(allow bool) *DepreciationUseCase {
	uc.allowPostedReversal = allow
	return uc
}

// PeriodInput identifies one business period.
type PeriodInput struct {
	BusinessID string
	PeriodEnd  time.Time
}

func (in PeriodInput) period() (domain.Period, error) {
	if in.BusinessID == "" {
		return domain.Period{}, domain.ErrInvalidBusinessID
	}
	return domain.NewPeriod(in.PeriodEnd)
}

// RunResult summarises one depreciation run.
type RunResult struct {
	BusinessID        string
	Period            domain.Period
	Processed         int
	Skipped           int
	TotalDepreciation decimal.Decimal
	Results           []RunResultRow
	SkippedAssets     []SkippedAsset
	Failed            []FailedAsset
}

// Partial reports whether some assets failed.
func (r *RunResult) Partial() bool {
	return len(r.Failed) > 0
}

// RunResultRow describes one processed asset.
type RunResultRow struct {
	AssetID           string
	AssetNumber       string
	AssetName         string
	EntryID           string
	Method            domain.DepreciationMethod
	Amount            decimal.Decimal
	BookValueBefore   decimal.Decimal
	BookValueAfter    decimal.Decimal
	AccumulatedBefore decimal.Decimal
	AccumulatedAfter  decimal.Decimal
}

// SkippedAsset is an asset left untouched by a run, with the reason.
type SkippedAsset struct {
	AssetID     string
	AssetNumber string
	Reason      string
}

// FailedAsset is an asset whose processing returned an error.
type FailedAsset struct {
	AssetID     string
	AssetNumber string
	Reason      string
}

// RunDepreciation depreciates every eligible asset of a business for one
// period. Each asset is handled in its own transaction; a failing asset is
// reported in Failed and the run continues with the next one.
func (uc *DepreciationUseCase) RunDepreciation(ctx context.Context, input PeriodInput) (*RunResult, error) {
	period, err := input.period()
	if err != nil {
		return nil, err
	}

	release, err := uc.lockPeriod(ctx, input.BusinessID, period)
	if err != nil {
		return nil, err
	}
	defer release()

	start := time.Now()
	log := uc.logger.With().
		Str("business_id", input.BusinessID).
		Str("period_end", period.String()).
		Logger()

	assets, err := uc.assetRepo.ListEligible(ctx, input.BusinessID)
	if err != nil {
		uc.observeRun(metrics.OutcomeError, start)
		return nil, err
	}

	result := &RunResult{
		BusinessID:        input.BusinessID,
		Period:            period,
		TotalDepreciation: decimal.Zero,
		Results:           make([]RunResultRow, 0, len(assets)),
	}

	for _, asset := range assets {
		if err := ctx.Err(); err != nil {
			uc.observeRun(metrics.OutcomeError, start)
			return result, err
		}

		row, skipReason, err := uc.processAsset(ctx, asset, period)
		switch {
		case err != nil:
			log.Error().Err(err).Str("asset_id", asset.ID).Msg("asset depreciation failed")
			result.Failed = append(result.Failed, FailedAsset{
				AssetID:     asset.ID,
				AssetNumber: asset.AssetNumber,
				Reason:      err.Error(),
			})
			uc.observeAsset(metrics.OutcomeFailed)
		case row == nil:
			result.Skipped++
			result.SkippedAssets = append(result.SkippedAssets, SkippedAsset{
				AssetID:     asset.ID,
				AssetNumber: asset.AssetNumber,
				Reason:      skipReason,
			})
			uc.observeAsset(metrics.OutcomeSkipped)
		default:
			result.Processed++
			result.Results = append(result.Results, *row)
			result.TotalDepreciation = result.TotalDepreciation.Add(row.Amount)
			uc.observeAsset(metrics.OutcomeProcessed)
		}
	}

	result.TotalDepreciation = domain.RoundMoney(result.TotalDepreciation)

	outcome := metrics.OutcomeSuccess
	auditStatus := domain.AuditStatusSuccess
	if result.Partial() {
		outcome = metrics.OutcomePartial
		auditStatus = domain.AuditStatusPartial
	}
	uc.observeRun(outcome, start)
	if uc.metrics != nil {
		uc.metrics.AmountDepreciated.Add(result.TotalDepreciation.InexactFloat64())
	}

	uc.audit(ctx, domain.AuditActionDepreciationRun, input.BusinessID, period, auditStatus, domain.JSON{
		"processed":          result.Processed,
		"skipped":            result.Skipped,
		"failed":             len(result.Failed),
		"total_depreciation": result.TotalDepreciation.StringFixed(domain.MoneyPlaces),
	})

	log.Info().
		Int("processed", result.Processed).
		Int("skipped", result.Skipped).
		Int("failed", len(result.Failed)).
		Str("total_depreciation", result.TotalDepreciation.StringFixed(domain.MoneyPlaces)).
		Dur("duration", time.Since(start)).
		Msg("depreciation run completed")

	return result, nil
}

// processAsset creates the period entry and moves the asset's aggregate in
// one transaction. It returns either a row, a skip reason or an error.
func (uc *DepreciationUseCase) processAsset(ctx context.Context, candidate *domain.Asset, period domain.Period) (*RunResultRow, string, error) {
	var (
		row        *RunResultRow
		skipReason string
	)

	operation := func() error {
		row, skipReason = nil, ""

		txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
		defer cancel()

		tx, err := uc.txManager.Begin(txCtx)
		if err != nil {
			return err
		}
		defer func() { _ = tx.Rollback(txCtx) }()

		// Re-read under lock; the listing may be stale.
		asset, err := uc.assetRepo.GetByIDForUpdate(txCtx, tx, candidate.ID)
		if err != nil {
			return err
		}
		if asset.BusinessID != candidate.BusinessID || !asset.IsEligible() {
			skipReason = SkipReasonNotEligible
			return nil
		}

		exists, err := uc.entryRepo.ExistsForPeriod(txCtx, tx, asset.ID, period.End)
		if err != nil {
			return err
		}
		if exists {
			skipReason = SkipReasonAlreadyProcessed
			return nil
		}

		if asset.IsFullyDepreciated() {
			skipReason = SkipReasonFullyDepreciated
			return nil
		}

		if !asset.InServiceBy(period.End) {
			skipReason = SkipReasonNotInService
			return nil
		}

		calc, err := uc.calculator.Compute(asset)
		if err != nil {
			return err
		}
		if !calc.Amount.IsPositive() {
			skipReason = SkipReasonFullyDepreciated
			return nil
		}

		now := uc.now().UTC()
		entry := domain.NewDraftEntry(uc.idGen.Generate(), asset, period, calc, now)
		if err := entry.Validate(asset.SalvageValue); err != nil {
			return err
		}

		if err := uc.entryRepo.Create(txCtx, tx, entry); err != nil {
			if errors.Is(err, domain.ErrEntryExists) {
				skipReason = SkipReasonAlreadyProcessed
				return nil
			}
			return err
		}

		periodEnd := period.End
		if err := uc.assetRepo.UpdateDepreciation(txCtx, tx, AssetDepreciationUpdate{
			AssetID:                 asset.ID,
			AccumulatedDepreciation: entry.AccumulatedAfter,
			BookValue:               entry.BookValueAfter,
			LastDepreciationDate:    &periodEnd,
			UpdatedAt:               now,
		}); err != nil {
			return err
		}

		if err := tx.Commit(txCtx); err != nil {
			return err
		}

		row = &RunResultRow{
			AssetID:           asset.ID,
			AssetNumber:       asset.AssetNumber,
			AssetName:         asset.Name,
			EntryID:           entry.ID,
			Method:            entry.Method,
			Amount:            entry.DepreciationAmount,
			BookValueBefore:   entry.BookValueBefore,
			BookValueAfter:    entry.BookValueAfter,
			AccumulatedBefore: entry.AccumulatedBefore,
			AccumulatedAfter:  entry.AccumulatedAfter,
		}

		return nil
	}

	if err := uc.retry(ctx, operation); err != nil {
		return nil, "", err
	}

	return row, skipReason, nil
}

func (uc *DepreciationUseCase) retry(ctx context.Context, operation func() error) error {
	if uc.retrier == nil {
		return operation()
	}
	return uc.retrier.Retry(ctx, operation)
}

// lockPeriod serialises work on one business period.
func (uc *DepreciationUseCase) lockPeriod(ctx context.Context, businessID string, period domain.Period) (func(), error) {
	if uc.locker == nil {
		return func() {}, nil
	}

	release, err := uc.locker.Acquire(ctx, "depreciation:"+period.Key(businessID), uc.lockTTL)
	if err != nil {
		if errors.Is(err, domain.ErrRunInProgress) && uc.metrics != nil {
			uc.metrics.LockContention.Inc()
		}
		return nil, err
	}

	acquired := uc.now()
	return func() {
		// The lease is not renewed; past its TTL another caller may already
		// hold the period.
		if held := uc.now().Sub(acquired); held > uc.lockTTL {
			uc.logger.Warn().
				Str("business_id", businessID).
				Str("period_end", period.String()).
				Dur("held", held).
				Dur("ttl", uc.lockTTL).
				Msg("period lock held past its TTL")
		}
		if err := release(context.WithoutCancel(ctx)); err != nil {
			uc.logger.Warn().Err(err).
				Str("business_id", businessID).
				Str("period_end", period.String()).
				Msg("failed to release period lock")
		}
	}, nil
}

// audit writes a best-effort audit record outside any transaction.
func (uc *DepreciationUseCase) audit(ctx context.Context, action domain.AuditAction, businessID string, period domain.Period, status domain.AuditStatus, after domain.JSON) {
	if uc.auditRepo == nil {
		return
	}

	if err := uc.auditRepo.Create(ctx, uc.newAuditLog(ctx, action, businessID, period, status, after)); err != nil {
		uc.logger.Warn().Err(err).Str("action", string(action)).Msg("failed to write audit log")
	}
}

func (uc *DepreciationUseCase) newAuditLog(ctx context.Context, action domain.AuditAction, businessID string, period domain.Period, status domain.AuditStatus, after domain.JSON) *domain.AuditLog {
	return &domain.AuditLog{
		ID:           uc.idGen.Generate(),
		UserID:       domain.ActorFromContext(ctx),
		BusinessID:   businessID,
		Action:       string(action),
		ResourceType: domain.AuditResourceDepreciationPeriod,
		ResourceID:   period.Key(businessID),
		AfterState:   after,
		Status:       string(status),
		CreatedAt:    uc.now().UTC(),
	}
}

func (uc *DepreciationUseCase) observeRun(outcome string, start time.Time) {
	if uc.metrics == nil {
		return
	}
	uc.metrics.RunsTotal.WithLabelValues(outcome).Inc()
	uc.metrics.RunDuration.Observe(time.Since(start).Seconds())
}

func (uc *DepreciationUseCase) observeAsset(outcome string) {
	if uc.metrics == nil {
		return
	}
	uc.metrics.AssetsTotal.WithLabelValues(outcome).Inc()
}
