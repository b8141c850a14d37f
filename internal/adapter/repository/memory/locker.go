package memory

import (
	"context"
	"sync"
	"time"

	"github.com/iho/goasset/internal/domain"
)

// RunLocker implements usecase.RunLocker within one process.
type RunLocker struct {
	mu    sync.Mutex
	held  map[string]lease
	now   func() time.Time
	token uint64
}

type lease struct {
	token     uint64
	expiresAt time.Time
}

// NewRunLocker creates a new RunLocker.
func NewRunLocker() *RunLocker {
	return &RunLocker{held: make(map[string]lease), now: time.Now}
}

// Acquire takes key for ttl or returns domain.ErrRunInProgress.
func (l *RunLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (func(context.Context) error, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if current, ok := l.held[key]; ok && now.Before(current.expiresAt) {
		return nil, domain.ErrRunInProgress
	}

	l.token++
	token := l.token
	l.held[key] = lease{token: token, expiresAt: now.Add(ttl)}

	return func(context.Context) error {
		l.mu.Lock()
		defer l.mu.Unlock()

		// Only the holder may release; an expired lease may have been retaken.
		if current, ok := l.held[key]; ok && current.token == token {
			delete(l.held, key)
		}
		return nil
	}, nil
}
