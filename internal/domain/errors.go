package domain

import "errors"

var (
	// Asset errors
	ErrAssetNotFound = errors.New("asset not found")
	ErrInvalidAsset  = errors.New("asset has invalid depreciation parameters")

	// Period errors
	ErrInvalidPeriod     = errors.New("invalid depreciation period")
	ErrInvalidBusinessID = errors.New("business ID is required")
	ErrPeriodNotFound    = errors.New("no depreciation entries found for period")

	// Entry errors
	ErrEntryNotFound      = errors.New("depreciation entry not found")
	ErrEntryExists        = errors.New("depreciation entry already exists for asset and period")
	ErrEntryPosted        = errors.New("depreciation entry is already posted")
	ErrNoDraftEntries     = errors.New("no draft depreciation entries to post")
	ErrLaterPeriodExists  = errors.New("asset has depreciation entries for a later period")
	ErrInvalidEntryStatus = errors.New("invalid depreciation entry status")
	ErrInvalidAmount      = errors.New("depreciation entry amounts are inconsistent")

	// Run errors
	ErrRunInProgress = errors.New("depreciation run already in progress for business and period")
)
