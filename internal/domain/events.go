package domain

import "time"

// Event types
const (
	EventTypeDepreciationPosted   = "depreciation.posted"
	EventTypeDepreciationReversed = "depreciation.reversed"
)

// Aggregate types
const (
	AggregateTypeDepreciationPeriod = "depreciation_period"
)

// OutboxEvent represents an event to be published
type OutboxEvent struct {
	ID            string
	AggregateID   string
	AggregateType string
	EventType     string
	Payload       map[string]any
	CreatedAt     time.Time
	PublishedAt   *time.Time
	Published     bool
}

// DepreciationPostedEvent payload. It is the contract consumed by the
// accounting system that books journal entries for the period.
type DepreciationPostedEvent struct {
	BusinessID  string   `json:"business_id"`
	PeriodStart string   `json:"period_start"`
	PeriodEnd   string   `json:"period_end"`
	EntryIDs    []string `json:"entry_ids"`
	Posted      int      `json:"posted"`
	TotalAmount string   `json:"total_amount"`
}

// DepreciationReversedEvent payload. PostedEntryIDs lists entries that had
// already been handed to the ledger and need an unwind there.
type DepreciationReversedEvent struct {
	BusinessID     string   `json:"business_id"`
	PeriodEnd      string   `json:"period_end"`
	EntryIDs       []string `json:"entry_ids"`
	PostedEntryIDs []string `json:"posted_entry_ids"`
	Reversed       int      `json:"reversed"`
	TotalAmount    string   `json:"total_amount"`
}

// Payload converts the event to the generic outbox payload.
func (e DepreciationPostedEvent) Payload() map[string]any {
	return map[string]any{
		"business_id":  e.BusinessID,
		"period_start": e.PeriodStart,
		"period_end":   e.PeriodEnd,
		"entry_ids":    e.EntryIDs,
		"posted":       e.Posted,
		"total_amount": e.TotalAmount,
	}
}

// Payload converts the event to the generic outbox payload.
func (e DepreciationReversedEvent) Payload() map[string]any {
	return map[string]any{
		"business_id":      e.BusinessID,
		"period_end":       e.PeriodEnd,
		"entry_ids":        e.EntryIDs,
		"posted_entry_ids": e.PostedEntryIDs,
		"reversed":         e.Reversed,
		"total_amount":     e.TotalAmount,
	}
}
