package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/goasset/internal/domain"
	"github.com/iho/goasset/internal/usecase"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// RunResponse represents the outcome of a depreciation run.
type RunResponse struct {
	BusinessID        string                 `json:"business_id"`
	PeriodStart       string                 `json:"period_start"`
	PeriodEnd         string                 `json:"period_end"`
	Processed         int                    `json:"processed"`
	Skipped           int                    `json:"skipped"`
	TotalDepreciation string                 `json:"total_depreciation"`
	Results           []RunRowResponse       `json:"results"`
	SkippedAssets     []SkippedAssetResponse `json:"skipped_assets"`
	Failed            []FailedAssetResponse  `json:"failed"`
}

// RunRowResponse is one processed asset.
type RunRowResponse struct {
	AssetID           string `json:"asset_id"`
	AssetNumber       string `json:"asset_number"`
	AssetName         string `json:"asset_name"`
	EntryID           string `json:"entry_id"`
	Method            string `json:"method"`
	Amount            string `json:"amount"`
	BookValueBefore   string `json:"book_value_before"`
	BookValueAfter    string `json:"book_value_after"`
	AccumulatedBefore string `json:"accumulated_before"`
	AccumulatedAfter  string `json:"accumulated_after"`
}

// SkippedAssetResponse is an asset a run left untouched.
type SkippedAssetResponse struct {
	AssetID     string `json:"asset_id"`
	AssetNumber string `json:"asset_number"`
	Reason      string `json:"reason"`
}

// FailedAssetResponse is an asset whose processing failed.
type FailedAssetResponse struct {
	AssetID     string `json:"asset_id"`
	AssetNumber string `json:"asset_number"`
	Error       string `json:"error"`
}

// PostResponse represents the outcome of posting a period.
type PostResponse struct {
	BusinessID  string   `json:"business_id"`
	PeriodEnd   string   `json:"period_end"`
	Posted      int      `json:"posted"`
	TotalAmount string   `json:"total_amount"`
	EntryIDs    []string `json:"entry_ids"`
}

// ReverseResponse represents the outcome of reversing a period.
type ReverseResponse struct {
	BusinessID     string `json:"business_id"`
	PeriodEnd      string `json:"period_end"`
	Reversed       int    `json:"reversed"`
	ReversedPosted int    `json:"reversed_posted"`
	TotalAmount    string `json:"total_amount"`
}

// EntryResponse represents a depreciation entry with its asset identity.
type EntryResponse struct {
	ID                 string     `json:"id"`
	AssetID            string     `json:"asset_id"`
	AssetNumber        string     `json:"asset_number"`
	AssetName          string     `json:"asset_name"`
	CategoryID         string     `json:"category_id"`
	CategoryName       string     `json:"category_name"`
	PeriodStart        string     `json:"period_start"`
	PeriodEnd          string     `json:"period_end"`
	Method             string     `json:"method"`
	Status             string     `json:"status"`
	DepreciationAmount string     `json:"depreciation_amount"`
	AccumulatedBefore  string     `json:"accumulated_before"`
	AccumulatedAfter   string     `json:"accumulated_after"`
	BookValueBefore    string     `json:"book_value_before"`
	BookValueAfter     string     `json:"book_value_after"`
	CreatedAt          time.Time  `json:"created_at"`
	PostedAt           *time.Time `json:"posted_at,omitempty"`
}

// CategorySummaryResponse represents one category's totals for a period.
type CategorySummaryResponse struct {
	CategoryID        string `json:"category_id"`
	CategoryName      string `json:"category_name"`
	AssetCount        int64  `json:"asset_count"`
	TotalDepreciation string `json:"total_depreciation"`
	TotalAccumulated  string `json:"total_accumulated"`
	TotalBookValue    string `json:"total_book_value"`
}

func money(d decimal.Decimal) string {
	return d.StringFixed(domain.MoneyPlaces)
}

// RunResponseFromResult converts a run result to response.
func RunResponseFromResult(r *usecase.RunResult) RunResponse {
	resp := RunResponse{
		BusinessID:        r.BusinessID,
		PeriodStart:       r.Period.Start.Format(domain.DateLayout),
		PeriodEnd:         r.Period.String(),
		Processed:         r.Processed,
		Skipped:           r.Skipped,
		TotalDepreciation: money(r.TotalDepreciation),
		Results:           make([]RunRowResponse, 0, len(r.Results)),
		SkippedAssets:     make([]SkippedAssetResponse, 0, len(r.SkippedAssets)),
		Failed:            make([]FailedAssetResponse, 0, len(r.Failed)),
	}

	for _, row := range r.Results {
		resp.Results = append(resp.Results, RunRowResponse{
			AssetID:           row.AssetID,
			AssetNumber:       row.AssetNumber,
			AssetName:         row.AssetName,
			EntryID:           row.EntryID,
			Method:            string(row.Method),
			Amount:            money(row.Amount),
			BookValueBefore:   money(row.BookValueBefore),
			BookValueAfter:    money(row.BookValueAfter),
			AccumulatedBefore: money(row.AccumulatedBefore),
			AccumulatedAfter:  money(row.AccumulatedAfter),
		})
	}
	for _, s := range r.SkippedAssets {
		resp.SkippedAssets = append(resp.SkippedAssets, SkippedAssetResponse(s))
	}
	for _, f := range r.Failed {
		resp.Failed = append(resp.Failed, FailedAssetResponse{
			AssetID:     f.AssetID,
			AssetNumber: f.AssetNumber,
			Error:       f.Reason,
		})
	}

	return resp
}

// PostResponseFromResult converts a post result to response.
func PostResponseFromResult(r *usecase.PostResult) PostResponse {
	return PostResponse{
		BusinessID:  r.BusinessID,
		PeriodEnd:   r.Period.String(),
		Posted:      r.Posted,
		TotalAmount: money(r.TotalAmount),
		EntryIDs:    r.EntryIDs,
	}
}

// ReverseResponseFromResult converts a reverse result to response.
func ReverseResponseFromResult(r *usecase.ReverseResult) ReverseResponse {
	return ReverseResponse{
		BusinessID:     r.BusinessID,
		PeriodEnd:      r.Period.String(),
		Reversed:       r.Reversed,
		ReversedPosted: r.ReversedPosted,
		TotalAmount:    money(r.TotalAmount),
	}
}

// EntryFromDomain converts an entry detail to response.
func EntryFromDomain(e *domain.EntryDetail) EntryResponse {
	return EntryResponse{
		ID:                 e.ID,
		AssetID:            e.AssetID,
		AssetNumber:        e.AssetNumber,
		AssetName:          e.AssetName,
		CategoryID:         e.CategoryID,
		CategoryName:       e.CategoryName,
		PeriodStart:        e.PeriodStart.Format(domain.DateLayout),
		PeriodEnd:          e.PeriodEnd.Format(domain.DateLayout),
		Method:             string(e.Method),
		Status:             string(e.Status),
		DepreciationAmount: money(e.DepreciationAmount),
		AccumulatedBefore:  money(e.AccumulatedBefore),
		AccumulatedAfter:   money(e.AccumulatedAfter),
		BookValueBefore:    money(e.BookValueBefore),
		BookValueAfter:     money(e.BookValueAfter),
		CreatedAt:          e.CreatedAt,
		PostedAt:           e.PostedAt,
	}
}

// EntriesFromDomain converts entry details to responses.
func EntriesFromDomain(entries []*domain.EntryDetail) []EntryResponse {
	resp := make([]EntryResponse, len(entries))
	for i, e := range entries {
		resp[i] = EntryFromDomain(e)
	}
	return resp
}

// CategorySummariesFromDomain converts category summaries to responses.
func CategorySummariesFromDomain(summaries []*domain.CategorySummary) []CategorySummaryResponse {
	resp := make([]CategorySummaryResponse, len(summaries))
	for i, s := range summaries {
		resp[i] = CategorySummaryResponse{
			CategoryID:        s.CategoryID,
			CategoryName:      s.CategoryName,
			AssetCount:        s.AssetCount,
			TotalDepreciation: money(s.TotalDepreciation),
			TotalAccumulated:  money(s.TotalAccumulated),
			TotalBookValue:    money(s.TotalBookValue),
		}
	}
	return resp
}
