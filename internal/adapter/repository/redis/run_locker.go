package redis

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/iho/goasset/internal/domain"
)

// releaseScript deletes the lock only if it still holds our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RunLocker implements usecase.RunLocker with SET NX PX leases, so runs for
// the same business period are serialised across server instances.
type RunLocker struct {
	client redis.UniversalClient
	prefix string
}

// NewRunLocker creates a new RunLocker.
func NewRunLocker(client redis.UniversalClient) *RunLocker {
	return &RunLocker{client: client, prefix: "goasset:lock:"}
}

// Acquire takes key for ttl or returns domain.ErrRunInProgress.
func (l *RunLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (func(context.Context) error, error) {
	token, err := newToken()
	if err != nil {
		return nil, err
	}

	fullKey := l.prefix + key
	ok, err := l.client.SetNX(ctx, fullKey, token, ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("acquire lock %s: %w", key, err)
	}
	if !ok {
		return nil, domain.ErrRunInProgress
	}

	return func(ctx context.Context) error {
		return releaseScript.Run(ctx, l.client, []string{fullKey}, token).Err()
	}, nil
}

func newToken() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
