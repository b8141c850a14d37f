package domain

import (
	"encoding/json"
	"time"
)

// AuditLog represents an audit trail entry for compliance and debugging
type AuditLog struct {
	ID           string
	UserID       string // Who performed the action
	BusinessID   string
	Action       string // depreciation.run, depreciation.post, ...
	ResourceType string
	ResourceID   string // period key, e.g. biz-1:2024-01-31
	RequestID    string
	BeforeState  JSON
	AfterState   JSON
	Status       string
	ErrorMessage string
	CreatedAt    time.Time
}

// JSON is a type alias for JSON data
type JSON map[string]any

// AuditAction represents different types of auditable actions
type AuditAction string

const (
	AuditActionDepreciationRun     AuditAction = "depreciation.run"
	AuditActionDepreciationPost    AuditAction = "depreciation.post"
	AuditActionDepreciationReverse AuditAction = "depreciation.reverse"
)

// AuditResourceDepreciationPeriod is the resource type of period audits.
const AuditResourceDepreciationPeriod = "depreciation_period"

// AuditStatus represents the status of an audited action
type AuditStatus string

const (
	AuditStatusSuccess AuditStatus = "success"
	AuditStatusPartial AuditStatus = "partial"
	AuditStatusFailure AuditStatus = "failure"
)

// MarshalState converts a domain object to JSON for audit logging
func MarshalState(v any) JSON {
	if v == nil {
		return nil
	}

	data, err := json.Marshal(v)
	if err != nil {
		return JSON{"error": "failed to marshal state"}
	}

	var result JSON
	if err := json.Unmarshal(data, &result); err != nil {
		return JSON{"error": "failed to unmarshal state"}
	}

	return result
}

// AuditFilter defines filters for querying audit logs
type AuditFilter struct {
	BusinessID   string
	Action       string
	ResourceType string
	ResourceID   string
	Limit        int
	Offset       int
}
