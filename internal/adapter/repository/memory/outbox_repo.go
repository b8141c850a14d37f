package memory

import (
	"context"
	"time"

	"github.com/iho/goasset/internal/domain"
	"github.com/iho/goasset/internal/usecase"
)

// OutboxRepository implements usecase.OutboxRepository.
type OutboxRepository struct {
	store *Store
}

// NewOutboxRepository creates a new OutboxRepository.
func NewOutboxRepository(store *Store) *OutboxRepository {
	return &OutboxRepository{store: store}
}

// Create appends an event as part of tx.
func (r *OutboxRepository) Create(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error {
	if err := r.store.check(tx); err != nil {
		return err
	}
	r.store.outbox = append(r.store.outbox, *event)
	return nil
}

// GetUnpublished returns up to limit unpublished events, oldest first.
func (r *OutboxRepository) GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	events := make([]*domain.OutboxEvent, 0)
	for _, e := range r.store.outbox {
		if e.Published {
			continue
		}
		event := e
		events = append(events, &event)
		if limit > 0 && len(events) == limit {
			break
		}
	}
	return events, nil
}

// MarkPublished marks an event as published.
func (r *OutboxRepository) MarkPublished(ctx context.Context, id string, publishedAt time.Time) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for i := range r.store.outbox {
		if r.store.outbox[i].ID == id {
			at := publishedAt
			r.store.outbox[i].Published = true
			r.store.outbox[i].PublishedAt = &at
			return nil
		}
	}
	return nil
}
