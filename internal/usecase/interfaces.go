package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/goasset/internal/domain"
)

// AssetRepository is the engine's port onto the asset register.
type AssetRepository interface {
	ListEligible(ctx context.Context, businessID string) ([]*domain.Asset, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Asset, error)
	UpdateDepreciation(ctx context.Context, tx Transaction, update AssetDepreciationUpdate) error
}

// AssetDepreciationUpdate carries the aggregate fields the engine owns.
type AssetDepreciationUpdate struct {
	AssetID                 string
	AccumulatedDepreciation decimal.Decimal
	BookValue               decimal.Decimal
	LastDepreciationDate    *time.Time
	UpdatedAt               time.Time
}

// EntryRepository defines data access for depreciation entries.
type EntryRepository interface {
	Create(ctx context.Context, tx Transaction, entry *domain.DepreciationEntry) error
	ExistsForPeriod(ctx context.Context, tx Transaction, assetID string, periodEnd time.Time) (bool, error)
	HasLaterPeriod(ctx context.Context, tx Transaction, assetID string, periodEnd time.Time) (bool, error)
	LatestPeriodEnd(ctx context.Context, tx Transaction, assetID string) (*time.Time, error)
	ListByPeriodForUpdate(ctx context.Context, tx Transaction, businessID string, periodEnd time.Time, status *domain.EntryStatus) ([]*domain.DepreciationEntry, error)
	CountByPeriod(ctx context.Context, tx Transaction, businessID string, periodEnd time.Time) (int64, error)
	MarkPosted(ctx context.Context, tx Transaction, ids []string, postedAt time.Time) (int64, error)
	Delete(ctx context.Context, tx Transaction, id string) error
	ListDetailsByPeriod(ctx context.Context, businessID string, periodEnd time.Time) ([]*domain.EntryDetail, error)
	SummarizeByCategory(ctx context.Context, businessID string, periodEnd time.Time) ([]*domain.CategorySummary, error)
}

// OutboxRepository defines data access for outbox events.
type OutboxRepository interface {
	Create(ctx context.Context, tx Transaction, event *domain.OutboxEvent) error
	GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	MarkPublished(ctx context.Context, id string, publishedAt time.Time) error
}

// AuditRepository defines data access for audit logs.
type AuditRepository interface {
	Create(ctx context.Context, log *domain.AuditLog) error
	CreateTx(ctx context.Context, tx Transaction, log *domain.AuditLog) error
	List(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error)
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// Retrier re-runs an operation on transient storage errors.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// RunLocker serialises runs, postings and reversals per business period.
type RunLocker interface {
	// Acquire returns a release func, or domain.ErrRunInProgress when the
	// key is held elsewhere.
	Acquire(ctx context.Context, key string, ttl time.Duration) (release func(context.Context) error, err error)
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Clock returns the current time.
type Clock func() time.Time

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
	// Release drops a claimed key so a failed request can be retried.
	Release(ctx context.Context, key string) error
}
