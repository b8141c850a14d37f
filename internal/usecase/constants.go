package usecase

import "time"

const (
	// DefaultTransactionTimeout is the maximum duration for a database transaction
	// This prevents long-running transactions from blocking tables
	DefaultTransactionTimeout = 10 * time.Second

	// DefaultRunLockTTL bounds how long a crashed run can keep a period locked.
	DefaultRunLockTTL = 5 * time.Minute

	// IdempotencyKeyTTL is how long idempotency keys are cached
	IdempotencyKeyTTL = 24 * time.Hour
)

// Skip reasons reported by a depreciation run.
const (
	SkipReasonAlreadyProcessed = "already_processed"
	SkipReasonFullyDepreciated = "fully_depreciated"
	SkipReasonNotInService     = "not_in_service"
	SkipReasonNotEligible      = "not_eligible"
)
