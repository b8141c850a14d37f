package postgres

import (
	"context"
	"encoding/json"

	"github.com/iho/goasset/internal/domain"
	"github.com/iho/goasset/internal/infrastructure/postgres/generated"
	"github.com/iho/goasset/internal/usecase"
)

const defaultAuditListLimit = 50

// AuditRepository implements audit log persistence
type AuditRepository struct {
	queries *generated.Queries
}

// NewAuditRepository creates a new audit repository
func NewAuditRepository(db generated.DBTX) *AuditRepository {
	return &AuditRepository{queries: generated.New(db)}
}

// Create inserts a new audit log entry outside any transaction.
func (r *AuditRepository) Create(ctx context.Context, log *domain.AuditLog) error {
	return insertAuditLog(ctx, r.queries, log)
}

// CreateTx inserts a new audit log entry as part of tx.
func (r *AuditRepository) CreateTx(ctx context.Context, tx usecase.Transaction, log *domain.AuditLog) error {
	queries, err := queriesFor(tx)
	if err != nil {
		return err
	}
	return insertAuditLog(ctx, queries, log)
}

func insertAuditLog(ctx context.Context, queries *generated.Queries, log *domain.AuditLog) error {
	beforeStateJSON, err := marshalState(log.BeforeState)
	if err != nil {
		return err
	}

	afterStateJSON, err := marshalState(log.AfterState)
	if err != nil {
		return err
	}

	return queries.CreateAuditLog(ctx, generated.CreateAuditLogParams{
		ID:           log.ID,
		UserID:       log.UserID,
		BusinessID:   log.BusinessID,
		Action:       log.Action,
		ResourceType: log.ResourceType,
		ResourceID:   log.ResourceID,
		RequestID:    textToPg(log.RequestID),
		BeforeState:  beforeStateJSON,
		AfterState:   afterStateJSON,
		Status:       log.Status,
		ErrorMessage: textToPg(log.ErrorMessage),
		CreatedAt:    timeToPgTimestamptz(log.CreatedAt),
	})
}

// List retrieves audit logs with filtering, newest first.
func (r *AuditRepository) List(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = defaultAuditListLimit
	}

	rows, err := r.queries.ListAuditLogs(ctx, generated.ListAuditLogsParams{
		BusinessID:   filter.BusinessID,
		Action:       filter.Action,
		ResourceType: filter.ResourceType,
		ResourceID:   filter.ResourceID,
		Limit:        int32(limit),
		Offset:       int32(max(filter.Offset, 0)),
	})
	if err != nil {
		return nil, err
	}

	logs := make([]*domain.AuditLog, 0, len(rows))
	for _, row := range rows {
		log := &domain.AuditLog{
			ID:           row.ID,
			UserID:       row.UserID,
			BusinessID:   row.BusinessID,
			Action:       row.Action,
			ResourceType: row.ResourceType,
			ResourceID:   row.ResourceID,
			RequestID:    row.RequestID.String,
			Status:       row.Status,
			ErrorMessage: row.ErrorMessage.String,
			CreatedAt:    row.CreatedAt.Time,
		}

		if row.BeforeState != nil {
			_ = json.Unmarshal(row.BeforeState, &log.BeforeState)
		}

		if row.AfterState != nil {
			_ = json.Unmarshal(row.AfterState, &log.AfterState)
		}

		logs = append(logs, log)
	}

	return logs, nil
}

func marshalState(state domain.JSON) ([]byte, error) {
	if state == nil {
		return nil, nil
	}
	return json.Marshal(state)
}
