// Package memory provides in-process implementations of the use case ports.
// A Store serialises transactions with one mutex and restores a snapshot on
// rollback, which gives the same all-or-nothing behaviour per asset as the
// postgres adapters.
package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/iho/goasset/internal/domain"
	"github.com/iho/goasset/internal/usecase"
)

var errForeignTx = errors.New("memory: transaction does not belong to this store")

// Store holds assets, entries, outbox events and audit logs.
type Store struct {
	mu sync.Mutex

	assets  map[string]domain.Asset
	entries map[string]domain.DepreciationEntry
	outbox  []domain.OutboxEvent
	audit   []domain.AuditLog
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{
		assets:  make(map[string]domain.Asset),
		entries: make(map[string]domain.DepreciationEntry),
	}
}

// PutAsset inserts or replaces an asset of the register.
func (s *Store) PutAsset(asset domain.Asset) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.assets[asset.ID] = asset
}

// Asset returns a copy of the stored asset.
func (s *Store) Asset(id string) (domain.Asset, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.assets[id]
	return a, ok
}

// Entries returns copies of all stored entries.
func (s *Store) Entries() []domain.DepreciationEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.DepreciationEntry, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, e)
	}
	return out
}

// OutboxEvents returns copies of all outbox events in insertion order.
func (s *Store) OutboxEvents() []domain.OutboxEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.OutboxEvent(nil), s.outbox...)
}

// Begin implements usecase.TransactionManager. The store stays locked until
// the transaction commits or rolls back.
func (s *Store) Begin(ctx context.Context) (usecase.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()

	snap := snapshot{
		assets:    make(map[string]domain.Asset, len(s.assets)),
		entries:   make(map[string]domain.DepreciationEntry, len(s.entries)),
		outboxLen: len(s.outbox),
		auditLen:  len(s.audit),
	}
	for k, v := range s.assets {
		snap.assets[k] = v
	}
	for k, v := range s.entries {
		snap.entries[k] = v
	}

	return &Tx{store: s, snap: snap}, nil
}

type snapshot struct {
	assets    map[string]domain.Asset
	entries   map[string]domain.DepreciationEntry
	outboxLen int
	auditLen  int
}

// Tx is an open memory transaction.
type Tx struct {
	store *Store
	snap  snapshot
	done  bool
}

// Commit keeps the changes and unlocks the store.
func (t *Tx) Commit(ctx context.Context) error {
	if t.done {
		return errors.New("memory: transaction already finished")
	}
	t.done = true
	t.store.mu.Unlock()
	return nil
}

// Rollback restores the snapshot. It is a no-op after Commit.
func (t *Tx) Rollback(ctx context.Context) error {
	if t.done {
		return nil
	}
	t.done = true

	s := t.store
	s.assets = t.snap.assets
	s.entries = t.snap.entries
	s.outbox = s.outbox[:t.snap.outboxLen]
	s.audit = s.audit[:t.snap.auditLen]
	s.mu.Unlock()
	return nil
}

func (s *Store) check(tx usecase.Transaction) error {
	mtx, ok := tx.(*Tx)
	if !ok || mtx.store != s || mtx.done {
		return errForeignTx
	}
	return nil
}
