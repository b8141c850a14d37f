package memory

import (
	"context"

	"github.com/iho/goasset/internal/domain"
	"github.com/iho/goasset/internal/usecase"
)

// AuditRepository implements usecase.AuditRepository.
type AuditRepository struct {
	store *Store
}

// NewAuditRepository creates a new AuditRepository.
func NewAuditRepository(store *Store) *AuditRepository {
	return &AuditRepository{store: store}
}

// Create appends an audit log outside any transaction.
func (r *AuditRepository) Create(ctx context.Context, log *domain.AuditLog) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.audit = append(r.store.audit, *log)
	return nil
}

// CreateTx appends an audit log as part of tx.
func (r *AuditRepository) CreateTx(ctx context.Context, tx usecase.Transaction, log *domain.AuditLog) error {
	if err := r.store.check(tx); err != nil {
		return err
	}
	r.store.audit = append(r.store.audit, *log)
	return nil
}

// List returns matching logs, newest first.
func (r *AuditRepository) List(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	logs := make([]*domain.AuditLog, 0)
	for i := len(r.store.audit) - 1; i >= 0; i-- {
		l := r.store.audit[i]
		if filter.BusinessID != "" && l.BusinessID != filter.BusinessID {
			continue
		}
		if filter.Action != "" && l.Action != filter.Action {
			continue
		}
		if filter.ResourceType != "" && l.ResourceType != filter.ResourceType {
			continue
		}
		if filter.ResourceID != "" && l.ResourceID != filter.ResourceID {
			continue
		}
		logs = append(logs, &l)
	}

	if filter.Offset > 0 {
		if filter.Offset >= len(logs) {
			return []*domain.AuditLog{}, nil
		}
		logs = logs[filter.Offset:]
	}
	if filter.Limit > 0 && len(logs) > filter.Limit {
		logs = logs[:filter.Limit]
	}

	return logs, nil
}
