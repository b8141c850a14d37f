package usecase_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/iho/goasset/internal/adapter/repository/memory"
	"github.com/iho/goasset/internal/domain"
	"github.com/iho/goasset/internal/usecase"
	"github.com/iho/goasset/internal/usecase/mocks"
)

const bizID = "biz-1"

var (
	jan31 = time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
	feb29 = time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)
)

type seqIDs struct{ n int }

func (s *seqIDs) Generate() string {
	s.n++
	return fmt.Sprintf("id-%04d", s.n)
}

type fixture struct {
	store  *memory.Store
	locker *memory.RunLocker
	uc     *usecase.DepreciationUseCase
}

func newFixture(t *testing.T, assets ...domain.Asset) *fixture {
	t.Helper()

	store := memory.NewStore()
	for _, a := range assets {
		store.PutAsset(a)
	}
	locker := memory.NewRunLocker()

	uc := usecase.NewDepreciationUseCase(
		store,
		memory.NewAssetRepository(store),
		memory.NewEntryRepository(store),
		memory.NewOutboxRepository(store),
		memory.NewAuditRepository(store),
		locker,
		&seqIDs{},
		domain.NewCalculator(domain.DefaultAccelerationFactor),
	).WithClock(func() time.Time { return time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC) })

	return &fixture{store: store, locker: locker, uc: uc}
}

func straightLine(id, number string, cost, salvage, book string) domain.Asset {
	acquired := time.Date(2023, 1, 15, 0, 0, 0, 0, time.UTC)
	c := decimal.RequireFromString(cost)
	b := decimal.RequireFromString(book)
	return domain.Asset{
		ID:                      id,
		BusinessID:              bizID,
		AssetNumber:             number,
		Name:                    "Asset " + number,
		CategoryID:              "cat-it",
		CategoryName:            "IT Equipment",
		Status:                  domain.AssetStatusActive,
		AcquisitionCost:         c,
		SalvageValue:            decimal.RequireFromString(salvage),
		UsefulLifeYears:         5,
		DepreciationMethod:      domain.MethodStraightLine,
		AcquisitionDate:         &acquired,
		BookValue:               b,
		AccumulatedDepreciation: c.Sub(b),
	}
}

func decliningBalance(id, number string) domain.Asset {
	a := straightLine(id, number, "10000", "1000", "10000")
	a.DepreciationMethod = domain.MethodDecliningBalance
	a.CategoryID = "cat-veh"
	a.CategoryName = "Vehicles"
	return a
}

func period(end time.Time) usecase.PeriodInput {
	return usecase.PeriodInput{BusinessID: bizID, PeriodEnd: end}
}

func TestRunDepreciation_StraightLine(t *testing.T) {
	f := newFixture(t, straightLine("A1", "FA-001", "6000", "0", "6000"))

	result, err := f.uc.RunDepreciation(context.Background(), period(jan31))
	require.NoError(t, err)

	require.Equal(t, 1, result.Processed)
	assert.Equal(t, "100.00", result.TotalDepreciation.StringFixed(2))
	assert.Equal(t, "5900.00", result.Results[0].BookValueAfter.StringFixed(2))

	asset, _ := f.store.Asset("A1")
	assert.True(t, asset.BookValue.Equal(decimal.NewFromInt(5900)))
	assert.True(t, asset.AccumulatedDepreciation.Equal(decimal.NewFromInt(100)))
	require.NotNil(t, asset.LastDepreciationDate)
	assert.True(t, asset.LastDepreciationDate.Equal(jan31))

	entries := f.store.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, domain.EntryStatusDraft, entries[0].Status)
	assert.True(t, entries[0].PeriodStart.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))
}

func TestRunDepreciation_DecliningBalance(t *testing.T) {
	f := newFixture(t, decliningBalance("A1", "FA-001"))

	result, err := f.uc.RunDepreciation(context.Background(), period(jan31))
	require.NoError(t, err)

	require.Len(t, result.Results, 1)
	assert.Equal(t, domain.MethodDecliningBalance, result.Results[0].Method)
	assert.Equal(t, "333.33", result.Results[0].Amount.StringFixed(2))
	assert.Equal(t, "9666.67", result.Results[0].BookValueAfter.StringFixed(2))
}

func TestRunDepreciation_MidMonthDateSelectsMonthEnd(t *testing.T) {
	f := newFixture(t, straightLine("A1", "FA-001", "6000", "0", "6000"))

	result, err := f.uc.RunDepreciation(context.Background(), period(time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)))
	require.NoError(t, err)
	assert.True(t, result.Period.End.Equal(jan31))
}

func TestRunDepreciation_IsIdempotent(t *testing.T) {
	f := newFixture(t,
		straightLine("A1", "FA-001", "6000", "0", "6000"),
		decliningBalance("A2", "FA-002"),
	)
	ctx := context.Background()

	_, err := f.uc.RunDepreciation(ctx, period(jan31))
	require.NoError(t, err)
	before := f.store.Entries()

	second, err := f.uc.RunDepreciation(ctx, period(jan31))
	require.NoError(t, err)

	assert.Equal(t, 0, second.Processed)
	assert.Equal(t, 2, second.Skipped)
	for _, s := range second.SkippedAssets {
		assert.Equal(t, usecase.SkipReasonAlreadyProcessed, s.Reason)
	}
	assert.ElementsMatch(t, before, f.store.Entries())

	a1, _ := f.store.Asset("A1")
	assert.True(t, a1.BookValue.Equal(decimal.NewFromInt(5900)))
}

func TestRunDepreciation_SalvageClampThenSkip(t *testing.T) {
	f := newFixture(t, straightLine("A1", "FA-001", "6000", "1000", "1050"))
	ctx := context.Background()

	first, err := f.uc.RunDepreciation(ctx, period(jan31))
	require.NoError(t, err)
	require.Len(t, first.Results, 1)
	assert.Equal(t, "50.00", first.Results[0].Amount.StringFixed(2))
	assert.Equal(t, "1000.00", first.Results[0].BookValueAfter.StringFixed(2))

	second, err := f.uc.RunDepreciation(ctx, period(feb29))
	require.NoError(t, err)
	assert.Equal(t, 0, second.Processed)
	require.Len(t, second.SkippedAssets, 1)
	assert.Equal(t, usecase.SkipReasonFullyDepreciated, second.SkippedAssets[0].Reason)
}

func TestRunDepreciation_SkipsAssetsNotYetInService(t *testing.T) {
	future := straightLine("A1", "FA-001", "6000", "0", "6000")
	acquired := time.Date(2024, 2, 5, 0, 0, 0, 0, time.UTC)
	future.AcquisitionDate = &acquired

	f := newFixture(t, future)

	result, err := f.uc.RunDepreciation(context.Background(), period(jan31))
	require.NoError(t, err)
	require.Len(t, result.SkippedAssets, 1)
	assert.Equal(t, usecase.SkipReasonNotInService, result.SkippedAssets[0].Reason)
}

func TestRunDepreciation_FailingAssetDoesNotStopRun(t *testing.T) {
	broken := straightLine("A1", "FA-001", "6000", "0", "6000")
	broken.UsefulLifeYears = 0

	f := newFixture(t, broken, straightLine("A2", "FA-002", "6000", "0", "6000"))

	result, err := f.uc.RunDepreciation(context.Background(), period(jan31))
	require.NoError(t, err)

	assert.True(t, result.Partial())
	assert.Equal(t, 1, result.Processed)
	require.Len(t, result.Failed, 1)
	assert.Equal(t, "A1", result.Failed[0].AssetID)

	a1, _ := f.store.Asset("A1")
	assert.True(t, a1.BookValue.Equal(decimal.NewFromInt(6000)))
	assert.Len(t, f.store.Entries(), 1)
}

func TestRunDepreciation_RejectsConcurrentRun(t *testing.T) {
	f := newFixture(t, straightLine("A1", "FA-001", "6000", "0", "6000"))
	ctx := context.Background()

	p, err := domain.NewPeriod(jan31)
	require.NoError(t, err)
	release, err := f.locker.Acquire(ctx, "depreciation:"+p.Key(bizID), time.Minute)
	require.NoError(t, err)

	_, err = f.uc.RunDepreciation(ctx, period(jan31))
	assert.ErrorIs(t, err, domain.ErrRunInProgress)

	require.NoError(t, release(ctx))
	_, err = f.uc.RunDepreciation(ctx, period(jan31))
	assert.NoError(t, err)
}

func TestRunDepreciation_WarnsWhenLockOutlivesTTL(t *testing.T) {
	f := newFixture(t, straightLine("A1", "FA-001", "6000", "0", "6000"))

	var buf bytes.Buffer
	clock := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	f.uc.WithLogger(zerolog.New(&buf)).
		WithLockTTL(time.Minute).
		WithClock(func() time.Time {
			clock = clock.Add(time.Minute)
			return clock
		})

	_, err := f.uc.RunDepreciation(context.Background(), period(jan31))
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "period lock held past its TTL")
	assert.Contains(t, buf.String(), `"period_end":"2024-01-31"`)
}

func TestRunDepreciation_NoLockWarningWithinTTL(t *testing.T) {
	f := newFixture(t, straightLine("A1", "FA-001", "6000", "0", "6000"))

	var buf bytes.Buffer
	f.uc.WithLogger(zerolog.New(&buf)).WithLockTTL(time.Minute)

	_, err := f.uc.RunDepreciation(context.Background(), period(jan31))
	require.NoError(t, err)

	assert.NotContains(t, buf.String(), "period lock held past its TTL")
}

func TestRunDepreciation_ValidatesInput(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.RunDepreciation(context.Background(), usecase.PeriodInput{PeriodEnd: jan31})
	assert.ErrorIs(t, err, domain.ErrInvalidBusinessID)

	_, err = f.uc.RunDepreciation(context.Background(), usecase.PeriodInput{BusinessID: bizID})
	assert.ErrorIs(t, err, domain.ErrInvalidPeriod)
}

func TestRunDepreciation_StopsOnCancelledContext(t *testing.T) {
	f := newFixture(t, straightLine("A1", "FA-001", "6000", "0", "6000"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := f.uc.RunDepreciation(ctx, period(jan31))
	assert.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, result)
	assert.Equal(t, 0, result.Processed)
	assert.Empty(t, f.store.Entries())
}

func TestRunDepreciation_IsolatesRepositoryFailures(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	txManager := mocks.NewMockTransactionManager(ctrl)
	tx := mocks.NewMockTransaction(ctrl)
	assetRepo := mocks.NewMockAssetRepository(ctrl)
	entryRepo := mocks.NewMockEntryRepository(ctrl)
	outboxRepo := mocks.NewMockOutboxRepository(ctrl)
	auditRepo := mocks.NewMockAuditRepository(ctrl)
	locker := mocks.NewMockRunLocker(ctrl)
	idGen := mocks.NewMockIDGenerator(ctrl)
	retrier := mocks.NewMockRetrier(ctrl)

	a1 := straightLine("A1", "FA-001", "6000", "0", "6000")
	a2 := straightLine("A2", "FA-002", "6000", "0", "6000")
	assets := map[string]*domain.Asset{"A1": &a1, "A2": &a2}

	locker.EXPECT().Acquire(gomock.Any(), "depreciation:biz-1:2024-01-31", gomock.Any()).
		Return(func(context.Context) error { return nil }, nil)
	assetRepo.EXPECT().ListEligible(gomock.Any(), bizID).Return([]*domain.Asset{&a1, &a2}, nil)
	retrier.EXPECT().Retry(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, op func() error) error { return op() }).Times(2)
	txManager.EXPECT().Begin(gomock.Any()).Return(tx, nil).Times(2)
	tx.EXPECT().Commit(gomock.Any()).Return(nil).Times(1)
	tx.EXPECT().Rollback(gomock.Any()).Return(nil).AnyTimes()
	assetRepo.EXPECT().GetByIDForUpdate(gomock.Any(), tx, gomock.Any()).
		DoAndReturn(func(ctx context.Context, _ usecase.Transaction, id string) (*domain.Asset, error) {
			a := *assets[id]
			return &a, nil
		}).Times(2)
	entryRepo.EXPECT().ExistsForPeriod(gomock.Any(), tx, gomock.Any(), jan31).Return(false, nil).Times(2)
	idGen.EXPECT().Generate().Return("id").AnyTimes()
	entryRepo.EXPECT().Create(gomock.Any(), tx, gomock.Any()).
		DoAndReturn(func(ctx context.Context, _ usecase.Transaction, e *domain.DepreciationEntry) error {
			if e.AssetID == "A1" {
				return errors.New("disk full")
			}
			return nil
		}).Times(2)
	assetRepo.EXPECT().UpdateDepreciation(gomock.Any(), tx, gomock.Any()).
		DoAndReturn(func(ctx context.Context, _ usecase.Transaction, u usecase.AssetDepreciationUpdate) error {
			assert.Equal(t, "A2", u.AssetID)
			assert.True(t, u.BookValue.Equal(decimal.NewFromInt(5900)))
			return nil
		}).Times(1)
	auditRepo.EXPECT().Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, log *domain.AuditLog) error {
			assert.Equal(t, string(domain.AuditStatusPartial), log.Status)
			return nil
		})

	uc := usecase.NewDepreciationUseCase(txManager, assetRepo, entryRepo, outboxRepo, auditRepo, locker, idGen, nil).
		WithRetrier(retrier)

	result, err := uc.RunDepreciation(context.Background(), period(jan31))
	require.NoError(t, err)

	assert.Equal(t, 1, result.Processed)
	require.Len(t, result.Failed, 1)
	assert.Equal(t, "A1", result.Failed[0].AssetID)
	assert.Contains(t, result.Failed[0].Reason, "disk full")
}
