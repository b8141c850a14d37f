package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryStatus is the posting state of a depreciation entry.
type EntryStatus string

const (
	EntryStatusDraft  EntryStatus = "draft"
	EntryStatusPosted EntryStatus = "posted"
)

// IsValid reports whether s is a known status.
func (s EntryStatus) IsValid() bool {
	return s == EntryStatusDraft || s == EntryStatusPosted
}

// DepreciationEntry records one period of depreciation for one asset
// together with the asset's aggregate values before and after it.
type DepreciationEntry struct {
	CreatedAt          time.Time
	PostedAt           *time.Time
	PeriodStart        time.Time
	PeriodEnd          time.Time
	ID                 string
	AssetID            string
	BusinessID         string
	Method             DepreciationMethod
	Status             EntryStatus
	DepreciationAmount decimal.Decimal
	AccumulatedBefore  decimal.Decimal
	AccumulatedAfter   decimal.Decimal
	BookValueBefore    decimal.Decimal
	BookValueAfter     decimal.Decimal
}

// NewDraftEntry snapshots the asset and applies amount to it.
func NewDraftEntry(id string, asset *Asset, period Period, calc Calculation, now time.Time) *DepreciationEntry {
	return &DepreciationEntry{
		ID:                 id,
		AssetID:            asset.ID,
		BusinessID:         asset.BusinessID,
		PeriodStart:        period.Start,
		PeriodEnd:          period.End,
		Method:             calc.Method,
		Status:             EntryStatusDraft,
		DepreciationAmount: calc.Amount,
		AccumulatedBefore:  asset.AccumulatedDepreciation,
		AccumulatedAfter:   asset.AccumulatedDepreciation.Add(calc.Amount),
		BookValueBefore:    asset.BookValue,
		BookValueAfter:     asset.BookValue.Sub(calc.Amount),
		CreatedAt:          now,
	}
}

// Validate checks the snapshot arithmetic and the salvage floor.
func (e *DepreciationEntry) Validate(salvage decimal.Decimal) error {
	if !e.DepreciationAmount.IsPositive() {
		return ErrInvalidAmount
	}
	if !e.BookValueAfter.Equal(e.BookValueBefore.Sub(e.DepreciationAmount)) {
		return ErrInvalidAmount
	}
	if !e.AccumulatedAfter.Equal(e.AccumulatedBefore.Add(e.DepreciationAmount)) {
		return ErrInvalidAmount
	}
	if e.BookValueAfter.LessThan(salvage) {
		return ErrInvalidAmount
	}
	return nil
}

// IsPosted reports whether the entry has been handed to the ledger.
func (e *DepreciationEntry) IsPosted() bool {
	return e.Status == EntryStatusPosted
}

// EntryDetail is an entry joined with its asset and category identity.
type EntryDetail struct {
	DepreciationEntry
	AssetNumber  string
	AssetName    string
	CategoryID   string
	CategoryName string
}

// CategorySummary aggregates a period's entries by asset category.
type CategorySummary struct {
	CategoryID        string
	CategoryName      string
	AssetCount        int64
	TotalDepreciation decimal.Decimal
	TotalAccumulated  decimal.Decimal
	TotalBookValue    decimal.Decimal
}
