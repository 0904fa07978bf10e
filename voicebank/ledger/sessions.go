package ledger

import (
	"context"
	"sync"

	"github.com/rragul902/voice-banking-assistant/voicebank/beneficiary"
)

// Sessions hands out one Ledger per user id, restoring persisted state from
// the store or starting a fresh account at the demo balance. The same
// *Ledger is returned for repeated calls with the same user id.
type Sessions struct {
	dir   *beneficiary.Directory
	store Store

	mu      sync.Mutex
	ledgers map[string]*Ledger
}

// NewSessions builds a session registry over a directory and a store.
func NewSessions(dir *beneficiary.Directory, store Store) *Sessions {
	return &Sessions{
		dir:     dir,
		store:   store,
		ledgers: make(map[string]*Ledger),
	}
}

// Ledger returns the user's ledger, loading persisted state on first access.
func (s *Sessions) Ledger(ctx context.Context, userID string) (*Ledger, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if led, ok := s.ledgers[userID]; ok {
		return led, nil
	}

	balance := StartingBalance

	var history []Transaction

	snapshot, found, err := s.store.Load(ctx, userID)
	if err != nil {
		return nil, err
	}

	if found {
		balance = snapshot.Balance
		history = snapshot.History
	}

	led := New(userID, s.dir, s.store, balance, history)
	s.ledgers[userID] = led

	return led, nil
}
