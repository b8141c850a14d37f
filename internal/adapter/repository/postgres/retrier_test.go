package postgres

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
)

func fastRetrier(maxRetries int) *Retrier {
	r := NewRetrier(zerolog.Nop())
	r.maxRetries = maxRetries
	r.initialInterval = 1 * time.Millisecond
	r.maxInterval = 2 * time.Millisecond
	r.maxElapsedTime = 100 * time.Millisecond
	return r
}

func TestRetrierRetriesOnRetryableError(t *testing.T) {
	tests := []struct {
		name string
		code string
	}{
		{"deadlock", pgErrDeadlock},
		{"serialization failure", pgErrSerializationFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := fastRetrier(2)

			attempts := 0
			err := r.Retry(context.Background(), func() error {
				attempts++
				if attempts < 2 {
					return fmt.Errorf("asset tx: %w", &pgconn.PgError{Code: tt.code})
				}
				return nil
			})

			if err != nil {
				t.Fatalf("expected success after retry, got %v", err)
			}
			if attempts != 2 {
				t.Fatalf("expected 2 attempts, got %d", attempts)
			}
		})
	}
}

func TestRetrierGivesUpAfterMaxRetries(t *testing.T) {
	r := fastRetrier(1)

	attempts := 0
	err := r.Retry(context.Background(), func() error {
		attempts++
		return &pgconn.PgError{Code: pgErrDeadlock}
	})

	if !isRetryableError(err) {
		t.Fatalf("expected the deadlock error back, got %v", err)
	}
	if attempts != 2 {
		t.Fatalf("expected 2 attempts, got %d", attempts)
	}
}

func TestRetrierStopsOnPermanentError(t *testing.T) {
	r := fastRetrier(3)
	attempts := 0
	permanentErr := errors.New("permanent")

	err := r.Retry(context.Background(), func() error {
		attempts++
		return permanentErr
	})

	if !errors.Is(err, permanentErr) {
		t.Fatalf("expected permanent error, got %v", err)
	}
	if attempts != 1 {
		t.Fatalf("expected 1 attempt, got %d", attempts)
	}
}

func TestIsRetryableError(t *testing.T) {
	if !isRetryableError(&pgconn.PgError{Code: pgErrDeadlock}) {
		t.Fatalf("expected deadlock error to be retryable")
	}

	if isRetryableError(&pgconn.PgError{Code: pgErrUniqueViolation}) {
		t.Fatalf("expected unique violation to be non-retryable")
	}

	if isRetryableError(errors.New("other")) {
		t.Fatalf("expected generic error to be non-retryable")
	}
}
