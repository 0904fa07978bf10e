package ledger

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rragul902/voice-banking-assistant/voicebank/beneficiary"
)

// StartingBalance is the fixed demo balance a fresh or reset account holds.
var StartingBalance = decimal.RequireFromString("25000.00")

// Status is the lifecycle state of a committed transaction. Only successful
// transfers reach the ledger, so SUCCESS is the only state.
type Status string

// StatusSuccess marks a committed transfer.
const StatusSuccess Status = "SUCCESS"

// Transaction is one committed transfer. It is immutable once created and
// appended to history, never removed or edited.
type Transaction struct {
	ID                string          `json:"id"`
	SenderID          string          `json:"senderId"`
	RecipientName     string          `json:"recipientName"`
	RecipientHandle   string          `json:"recipientHandle"`
	Amount            decimal.Decimal `json:"amount"`
	Currency          string          `json:"currency"`
	CreatedAt         time.Time       `json:"createdAt"`
	Status            Status          `json:"status"`
	VerificationScore float64         `json:"verificationScore"`
}

// Ledger holds one user's balance and ordered transaction history. All
// mutation happens under its mutex; reads return copies.
type Ledger struct {
	userID string
	dir    *beneficiary.Directory
	store  Store
	now    func() time.Time

	mu      sync.Mutex
	balance decimal.Decimal
	history []Transaction
}

// New builds a ledger with the given opening state.
func New(userID string, dir *beneficiary.Directory, store Store, balance decimal.Decimal, history []Transaction) *Ledger {
	return &Ledger{
		userID:  userID,
		dir:     dir,
		store:   store,
		now:     time.Now,
		balance: balance,
		history: append([]Transaction(nil), history...),
	}
}

// Balance returns the current balance.
func (l *Ledger) Balance() decimal.Decimal {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.balance
}

// History returns up to limit transactions, most recent first. A non-positive
// limit returns the full history.
func (l *Ledger) History(limit int) []Transaction {
	l.mu.Lock()
	defer l.mu.Unlock()

	n := len(l.history)
	if limit <= 0 || limit > n {
		limit = n
	}

	out := make([]Transaction, 0, limit)
	for i := n - 1; i >= n-limit; i-- {
		out = append(out, l.history[i])
	}

	return out
}

// Commit applies an already-validated, already-verified transfer: it appends
// the transaction and decrements the balance in one mutex hold, then persists
// the new snapshot. A persistence failure rolls the in-memory mutation back
// and returns an error, so balance and history never diverge.
//
// Commit performs no rejection checks; callers must run validation and
// verification first.
func (l *Ledger) Commit(ctx context.Context, senderID string, amount decimal.Decimal, recipientToken string, verificationScore float64) (Transaction, error) {
	record, ok := l.dir.Resolve(recipientToken)
	if !ok {
		// The validator rejects unknown recipients before Commit is
		// reachable; this fallback only synthesizes a handle if that
		// contract is ever broken.
		record = beneficiary.Record{
			Name:   recipientToken,
			Handle: strings.ReplaceAll(strings.ToLower(recipientToken), " ", "") + "@upi",
		}
	}

	createdAt := l.now()
	tx := Transaction{
		ID:                newTransactionID(createdAt),
		SenderID:          senderID,
		RecipientName:     record.Name,
		RecipientHandle:   record.Handle,
		Amount:            amount,
		Currency:          "INR",
		CreatedAt:         createdAt,
		Status:            StatusSuccess,
		VerificationScore: verificationScore,
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	previousBalance := l.balance
	l.balance = l.balance.Sub(amount)
	l.history = append(l.history, tx)

	if err := l.store.Save(ctx, l.userID, l.snapshotLocked()); err != nil {
		l.balance = previousBalance
		l.history = l.history[:len(l.history)-1]

		return Transaction{}, fmt.Errorf("persist ledger for %q: %w", l.userID, err)
	}

	return tx, nil
}

// Reset restores the starting balance and clears history.
func (l *Ledger) Reset(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	previousBalance := l.balance
	previousHistory := l.history
	l.balance = StartingBalance
	l.history = nil

	if err := l.store.Save(ctx, l.userID, l.snapshotLocked()); err != nil {
		l.balance = previousBalance
		l.history = previousHistory

		return fmt.Errorf("persist ledger reset for %q: %w", l.userID, err)
	}

	return nil
}

func (l *Ledger) snapshotLocked() Snapshot {
	return Snapshot{
		Balance: l.balance,
		History: append([]Transaction(nil), l.history...),
	}
}

// newTransactionID builds a date-stamped id with a UUID-derived suffix, so
// ids do not collide.
func newTransactionID(at time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:12]

	return "TXN" + at.Format("20060102") + suffix
}
