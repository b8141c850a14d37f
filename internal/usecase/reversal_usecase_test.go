package usecase_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/goasset/internal/domain"
)

func TestReverseDepreciation_RoundTrip(t *testing.T) {
	f := newFixture(t,
		straightLine("A1", "FA-001", "6000", "0", "6000"),
		decliningBalance("A2", "FA-002"),
	)
	ctx := context.Background()

	_, err := f.uc.RunDepreciation(ctx, period(jan31))
	require.NoError(t, err)

	result, err := f.uc.ReverseDepreciation(ctx, period(jan31))
	require.NoError(t, err)
	assert.Equal(t, 2, result.Reversed)
	assert.Equal(t, 0, result.ReversedPosted)
	assert.Equal(t, "433.33", result.TotalAmount.StringFixed(2))

	a1, _ := f.store.Asset("A1")
	assert.True(t, a1.BookValue.Equal(decimal.NewFromInt(6000)))
	assert.True(t, a1.AccumulatedDepreciation.IsZero())
	assert.Nil(t, a1.LastDepreciationDate)

	a2, _ := f.store.Asset("A2")
	assert.True(t, a2.BookValue.Equal(decimal.NewFromInt(10000)))

	assert.Empty(t, f.store.Entries())

	_, err = f.uc.ReverseDepreciation(ctx, period(jan31))
	assert.ErrorIs(t, err, domain.ErrPeriodNotFound)

	// The period can be run again after reversal.
	rerun, err := f.uc.RunDepreciation(ctx, period(jan31))
	require.NoError(t, err)
	assert.Equal(t, 2, rerun.Processed)
}

func TestReverseDepreciation_RestoresPreviousPeriodDate(t *testing.T) {
	f := newFixture(t, straightLine("A1", "FA-001", "6000", "0", "6000"))
	ctx := context.Background()

	_, err := f.uc.RunDepreciation(ctx, period(jan31))
	require.NoError(t, err)
	_, err = f.uc.RunDepreciation(ctx, period(feb29))
	require.NoError(t, err)

	_, err = f.uc.ReverseDepreciation(ctx, period(feb29))
	require.NoError(t, err)

	a1, _ := f.store.Asset("A1")
	assert.True(t, a1.BookValue.Equal(decimal.NewFromInt(5900)))
	require.NotNil(t, a1.LastDepreciationDate)
	assert.True(t, a1.LastDepreciationDate.Equal(jan31))
}

func TestReverseDepreciation_BlockedByLaterPeriod(t *testing.T) {
	f := newFixture(t, straightLine("A1", "FA-001", "6000", "0", "6000"))
	ctx := context.Background()

	_, err := f.uc.RunDepreciation(ctx, period(jan31))
	require.NoError(t, err)
	_, err = f.uc.RunDepreciation(ctx, period(feb29))
	require.NoError(t, err)

	_, err = f.uc.ReverseDepreciation(ctx, period(jan31))
	assert.ErrorIs(t, err, domain.ErrLaterPeriodExists)

	assert.Len(t, f.store.Entries(), 2)
	a1, _ := f.store.Asset("A1")
	assert.True(t, a1.BookValue.Equal(decimal.NewFromInt(5800)))
	assert.Empty(t, f.store.OutboxEvents())
}

func TestReverseDepreciation_PostedEntriesAnnounced(t *testing.T) {
	f := newFixture(t, straightLine("A1", "FA-001", "6000", "0", "6000"))
	ctx := context.Background()

	_, err := f.uc.RunDepreciation(ctx, period(jan31))
	require.NoError(t, err)
	_, err = f.uc.PostDepreciation(ctx, period(jan31))
	require.NoError(t, err)

	result, err := f.uc.ReverseDepreciation(ctx, period(jan31))
	require.NoError(t, err)
	assert.Equal(t, 1, result.ReversedPosted)

	events := f.store.OutboxEvents()
	require.Len(t, events, 2)
	assert.Equal(t, domain.EventTypeDepreciationReversed, events[1].EventType)
	assert.Equal(t, 1, len(events[1].Payload["posted_entry_ids"].([]string)))
}

func TestReverseDepreciation_PostedReversalDisabled(t *testing.T) {
	f := newFixture(t, straightLine("A1", "FA-001", "6000", "0", "6000"))
	f.uc.WithPostedReversal(false)
	ctx := context.Background()

	_, err := f.uc.RunDepreciation(ctx, period(jan31))
	require.NoError(t, err)
	_, err = f.uc.PostDepreciation(ctx, period(jan31))
	require.NoError(t, err)

	_, err = f.uc.ReverseDepreciation(ctx, period(jan31))
	assert.ErrorIs(t, err, domain.ErrEntryPosted)

	entries := f.store.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, domain.EntryStatusPosted, entries[0].Status)
}
