package pipeline

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/rragul902/voice-banking-assistant/voicebank/beneficiary"
	"github.com/rragul902/voice-banking-assistant/voicebank/ledger"
	"github.com/rragul902/voice-banking-assistant/voicebank/nlu"
	"github.com/rragul902/voice-banking-assistant/voicebank/transfer"
	"github.com/rragul902/voice-banking-assistant/voicebank/verify"
)

// DefaultVerifyTimeout bounds one verification attempt; exceeding it counts
// as a verification failure, not a system fault.
const DefaultVerifyTimeout = 5 * time.Second

const historyLimit = 10

const helpMessage = "I can help you send money, check your balance, or read your recent transactions. " +
	"Try: 'Send 1500 to John Doe', 'Check balance', or 'Show transaction history'."

// Config wires a pipeline. Zero fields get demo defaults.
type Config struct {
	Directory     *beneficiary.Directory
	Store         ledger.Store
	Verifier      verify.Verifier
	Limits        transfer.Limits
	VerifyTimeout time.Duration
	Logger        *zap.Logger
}

// Pipeline runs the command state machine per submitted command:
// Received -> Classified -> {Extracted -> Validated -> Verified -> Committed
// -> Succeeded} | Rejected | Unknown.
type Pipeline struct {
	dir           *beneficiary.Directory
	sessions      *ledger.Sessions
	verifier      verify.Verifier
	limits        transfer.Limits
	verifyTimeout time.Duration
	logger        *zap.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// New builds a pipeline, applying demo defaults for unset config fields.
func New(cfg Config) *Pipeline {
	dir := cfg.Directory
	if dir == nil {
		dir = beneficiary.Default()
	}

	store := cfg.Store
	if store == nil {
		store = ledger.NewMemoryStore()
	}

	verifier := cfg.Verifier
	if verifier == nil {
		verifier = verify.NewSimulator(verify.SimulatorConfig{DemoUserID: "demo_user"})
	}

	limits := cfg.Limits
	if limits.PerTransaction.IsZero() {
		limits = transfer.DefaultLimits()
	}

	timeout := cfg.VerifyTimeout
	if timeout <= 0 {
		timeout = DefaultVerifyTimeout
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Pipeline{
		dir:           dir,
		sessions:      ledger.NewSessions(dir, store),
		verifier:      verifier,
		limits:        limits,
		verifyTimeout: timeout,
		logger:        logger,
		locks:         make(map[string]*sync.Mutex),
	}
}

// sessionLock returns the mutex serializing command processing for one user.
// Holding it across validate and commit closes the check-then-act race two
// concurrent transfers would otherwise have against a stale balance.
func (p *Pipeline) sessionLock(userID string) *sync.Mutex {
	p.mu.Lock()
	defer p.mu.Unlock()

	lock, ok := p.locks[userID]
	if !ok {
		lock = &sync.Mutex{}
		p.locks[userID] = lock
	}

	return lock
}

// Submit processes one raw command for a user and returns the structured
// outcome. A non-nil error is a system fault (storage failure); every
// business rejection comes back as a Rejected result instead.
func (p *Pipeline) Submit(ctx context.Context, rawText, userID string) (Result, error) {
	lock := p.sessionLock(userID)
	lock.Lock()
	defer lock.Unlock()

	led, err := p.sessions.Ledger(ctx, userID)
	if err != nil {
		return Result{}, fmt.Errorf("open ledger session: %w", err)
	}

	text := strings.TrimSpace(rawText)
	if text == "" {
		return Result{
			Outcome: OutcomeRejected,
			Intent:  nlu.IntentUnknown,
			Message: "I didn't catch that. Please say a command.",
			Reasons: []string{"Empty command"},
			Balance: led.Balance(),
		}, nil
	}

	intent := nlu.Classify(text)
	p.logger.Info("command classified",
		zap.String("user_id", userID),
		zap.String("intent", string(intent)),
	)

	switch intent {
	case nlu.IntentCheckBalance:
		return p.balanceSnapshot(led), nil
	case nlu.IntentTransactionHistory:
		return p.historySnapshot(led), nil
	case nlu.IntentSendMoney:
		return p.processTransfer(ctx, led, text, userID)
	default:
		return Result{
			Outcome: OutcomeUnknown,
			Intent:  nlu.IntentUnknown,
			Message: helpMessage,
			Balance: led.Balance(),
		}, nil
	}
}

// Balance returns the user's current balance.
func (p *Pipeline) Balance(ctx context.Context, userID string) (decimal.Decimal, error) {
	led, err := p.sessions.Ledger(ctx, userID)
	if err != nil {
		return decimal.Zero, err
	}

	return led.Balance(), nil
}

// History returns up to limit of the user's transactions, most recent first.
func (p *Pipeline) History(ctx context.Context, userID string, limit int) ([]ledger.Transaction, error) {
	led, err := p.sessions.Ledger(ctx, userID)
	if err != nil {
		return nil, err
	}

	return led.History(limit), nil
}

// Reset restores the user's account to the starting balance with an empty
// history.
func (p *Pipeline) Reset(ctx context.Context, userID string) error {
	lock := p.sessionLock(userID)
	lock.Lock()
	defer lock.Unlock()

	led, err := p.sessions.Ledger(ctx, userID)
	if err != nil {
		return err
	}

	return led.Reset(ctx)
}

func (p *Pipeline) balanceSnapshot(led *ledger.Ledger) Result {
	balance := led.Balance()

	return Result{
		Outcome: OutcomeSucceeded,
		Intent:  nlu.IntentCheckBalance,
		Message: fmt.Sprintf("Your current balance is %s.", formatINR(balance)),
		Balance: balance,
	}
}

func (p *Pipeline) historySnapshot(led *ledger.Ledger) Result {
	history := led.History(historyLimit)
	result := Result{
		Outcome: OutcomeSucceeded,
		Intent:  nlu.IntentTransactionHistory,
		Balance: led.Balance(),
	}

	if len(history) == 0 {
		result.Message = "No transactions yet."

		return result
	}

	lines := make([]string, 0, len(history))
	for _, tx := range history {
		lines = append(lines, fmt.Sprintf("%s to %s (%s)", formatINR(tx.Amount), tx.RecipientName, tx.ID))
	}

	result.Message = "Recent transactions: " + strings.Join(lines, "; ") + "."

	return result
}

func (p *Pipeline) processTransfer(ctx context.Context, led *ledger.Ledger, text, userID string) (Result, error) {
	entities := nlu.Extract(text, p.dir)

	// Input completeness, amount first; both gaps are reported together.
	var missing []string
	if entities.Amount == nil {
		missing = append(missing, "Could not detect the amount. Please include a number, e.g. 'Send 1500 to John Doe'.")
	}

	if entities.Recipient == "" {
		missing = append(missing, "Could not detect the recipient. Please name a payee, e.g. 'Send 1500 to John Doe'.")
	}

	if len(missing) > 0 {
		return Result{
			Outcome: OutcomeRejected,
			Intent:  nlu.IntentSendMoney,
			Message: missing[0],
			Reasons: missing,
			Balance: led.Balance(),
		}, nil
	}

	amount := *entities.Amount

	validation := transfer.Validate(amount, entities.Recipient, led.Balance(), p.dir, p.limits)

	var warnings []string
	for _, w := range validation.Warnings {
		warnings = append(warnings, w.Message)
	}

	if !validation.Valid {
		reasons := validation.Reasons()
		p.logger.Info("transfer rejected",
			zap.String("user_id", userID),
			zap.Strings("reasons", reasons),
		)

		return Result{
			Outcome:  OutcomeRejected,
			Intent:   nlu.IntentSendMoney,
			Message:  "Transaction validation failed: " + strings.Join(reasons, "; "),
			Reasons:  reasons,
			Warnings: warnings,
			Balance:  led.Balance(),
		}, nil
	}

	verifyCtx, cancel := context.WithTimeout(ctx, p.verifyTimeout)
	defer cancel()

	verification, err := p.verifier.Verify(verifyCtx, userID)
	if err != nil {
		// Timeout or cancellation counts as a failed verification, framed
		// as a security rejection rather than a system fault.
		reason := "Voice verification did not complete in time. Please try again."
		p.logger.Warn("verification incomplete", zap.String("user_id", userID), zap.Error(err))

		return Result{
			Outcome:      OutcomeRejected,
			Intent:       nlu.IntentSendMoney,
			Message:      reason,
			Reasons:      []string{reason},
			Warnings:     warnings,
			Balance:      led.Balance(),
			Verification: &verification,
		}, nil
	}

	if !verification.Verified {
		reason := fmt.Sprintf("Voice verification failed: confidence %.2f below threshold %.2f.",
			verification.Score, verification.Threshold)

		return Result{
			Outcome:      OutcomeRejected,
			Intent:       nlu.IntentSendMoney,
			Message:      reason,
			Reasons:      []string{reason},
			Warnings:     warnings,
			Balance:      led.Balance(),
			Verification: &verification,
		}, nil
	}

	tx, err := led.Commit(ctx, userID, amount, entities.Recipient, verification.Score)
	if err != nil {
		return Result{}, fmt.Errorf("commit transfer: %w", err)
	}

	balance := led.Balance()
	p.logger.Info("transfer committed",
		zap.String("user_id", userID),
		zap.String("transaction_id", tx.ID),
		zap.String("amount", amount.StringFixed(2)),
		zap.String("recipient", tx.RecipientName),
	)

	return Result{
		Outcome: OutcomeSucceeded,
		Intent:  nlu.IntentSendMoney,
		Message: fmt.Sprintf("Transaction successful! Sent %s to %s. New balance: %s. Transaction ID: %s. Verification confidence: %.2f.",
			formatINR(tx.Amount), tx.RecipientName, formatINR(balance), tx.ID, verification.Score),
		Warnings:     warnings,
		Transaction:  &tx,
		Balance:      balance,
		Verification: &verification,
	}, nil
}
