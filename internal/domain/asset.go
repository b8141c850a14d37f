package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AssetStatus is the lifecycle status of an asset in the asset register.
type AssetStatus string

const (
	AssetStatusActive           AssetStatus = "active"
	AssetStatusInactive         AssetStatus = "inactive"
	AssetStatusUnderMaintenance AssetStatus = "under_maintenance"
	AssetStatusDisposed         AssetStatus = "disposed"
)

// DepreciationMethod selects the calculator used for an asset.
type DepreciationMethod string

const (
	MethodStraightLine     DepreciationMethod = "straight_line"
	MethodDecliningBalance DepreciationMethod = "declining_balance"
)

// Normalize maps unset or unknown methods to straight-line.
func (m DepreciationMethod) Normalize() DepreciationMethod {
	switch m {
	case MethodDecliningBalance:
		return MethodDecliningBalance
	default:
		return MethodStraightLine
	}
}

// Asset is the depreciation-relevant view of a fixed asset.
// Records are owned by the asset register; the engine only mutates
// BookValue, AccumulatedDepreciation and LastDepreciationDate.
type Asset struct {
	ID                      string
	BusinessID              string
	AssetNumber             string
	Name                    string
	CategoryID              string
	CategoryName            string
	Status                  AssetStatus
	IsDeleted               bool
	AcquisitionCost         decimal.Decimal
	SalvageValue            decimal.Decimal
	UsefulLifeYears         int
	DepreciationMethod      DepreciationMethod
	AccelerationFactor      decimal.Decimal // zero means the configured default
	AcquisitionDate         *time.Time
	BookValue               decimal.Decimal
	AccumulatedDepreciation decimal.Decimal
	LastDepreciationDate    *time.Time
	UpdatedAt               time.Time
}

// IsEligible reports whether the asset takes part in depreciation runs.
func (a *Asset) IsEligible() bool {
	return a.Status == AssetStatusActive && !a.IsDeleted && a.BookValue.IsPositive()
}

// IsFullyDepreciated reports whether the book value has reached salvage.
func (a *Asset) IsFullyDepreciated() bool {
	return a.BookValue.LessThanOrEqual(a.SalvageValue)
}

// InServiceBy reports whether the asset was acquired on or before t.
// Assets without an acquisition date are treated as in service.
func (a *Asset) InServiceBy(t time.Time) bool {
	if a.AcquisitionDate == nil {
		return true
	}
	return !a.AcquisitionDate.After(t)
}

// Validate checks the depreciation parameters.
func (a *Asset) Validate() error {
	if a.UsefulLifeYears <= 0 {
		return ErrInvalidAsset
	}
	if a.AcquisitionCost.IsNegative() || a.SalvageValue.IsNegative() {
		return ErrInvalidAsset
	}
	if a.SalvageValue.GreaterThan(a.AcquisitionCost) {
		return ErrInvalidAsset
	}
	if a.AccelerationFactor.IsNegative() {
		return ErrInvalidAsset
	}
	return nil
}
