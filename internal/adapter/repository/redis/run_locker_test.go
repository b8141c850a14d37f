package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/goasset/internal/domain"
)

func TestRunLockerAcquireAndRelease(t *testing.T) {
	client, mr := newTestRedisClient(t)

	locker := NewRunLocker(client)
	ctx := context.Background()

	release, err := locker.Acquire(ctx, "depreciation:biz-1:2024-01-31", time.Minute)
	require.NoError(t, err)
	assert.True(t, mr.Exists("goasset:lock:depreciation:biz-1:2024-01-31"))

	_, err = locker.Acquire(ctx, "depreciation:biz-1:2024-01-31", time.Minute)
	assert.ErrorIs(t, err, domain.ErrRunInProgress)

	// A different period is independent.
	_, err = locker.Acquire(ctx, "depreciation:biz-1:2024-02-29", time.Minute)
	require.NoError(t, err)

	require.NoError(t, release(ctx))
	assert.False(t, mr.Exists("goasset:lock:depreciation:biz-1:2024-01-31"))

	_, err = locker.Acquire(ctx, "depreciation:biz-1:2024-01-31", time.Minute)
	require.NoError(t, err)
}

func TestRunLockerReleaseKeepsForeignLease(t *testing.T) {
	client, mr := newTestRedisClient(t)

	locker := NewRunLocker(client)
	ctx := context.Background()

	release, err := locker.Acquire(ctx, "k", time.Second)
	require.NoError(t, err)

	// Lease expires and another instance takes the lock.
	mr.FastForward(2 * time.Second)
	_, err = locker.Acquire(ctx, "k", time.Minute)
	require.NoError(t, err)

	require.NoError(t, release(ctx))
	assert.True(t, mr.Exists("goasset:lock:k"), "stale release must not delete the new lease")
}

func TestRunLockerRedisDown(t *testing.T) {
	client, mr := newTestRedisClient(t)
	mr.Close()

	_, err := NewRunLocker(client).Acquire(context.Background(), "k", time.Minute)
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrRunInProgress)
}
