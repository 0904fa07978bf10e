package ledger

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"
)

// Snapshot is the persisted form of one user's ledger.
type Snapshot struct {
	Balance decimal.Decimal `json:"balance"`
	History []Transaction   `json:"history"`
}

// Store persists ledger snapshots keyed by user id. It is the external
// persistence collaborator behind the ledger; the core never talks to
// storage directly.
type Store interface {
	// Load returns the snapshot for a user; found is false when the user
	// has no persisted state.
	Load(ctx context.Context, userID string) (snapshot Snapshot, found bool, err error)
	// Save overwrites the snapshot for a user.
	Save(ctx context.Context, userID string, snapshot Snapshot) error
	// Delete removes the snapshot for a user.
	Delete(ctx context.Context, userID string) error
}

// MemoryStore is the in-process Store used when no durable backend is
// configured. Snapshots live for the process lifetime.
type MemoryStore struct {
	mu        sync.RWMutex
	snapshots map[string]Snapshot
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore builds an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{snapshots: make(map[string]Snapshot)}
}

// Load implements Store.
func (s *MemoryStore) Load(_ context.Context, userID string) (Snapshot, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot, found := s.snapshots[userID]

	return snapshot, found, nil
}

// Save implements Store.
func (s *MemoryStore) Save(_ context.Context, userID string, snapshot Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshots[userID] = snapshot

	return nil
}

// Delete implements Store.
func (s *MemoryStore) Delete(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.snapshots, userID)

	return nil
}
