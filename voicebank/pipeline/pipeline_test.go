package pipeline

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rragul902/voice-banking-assistant/voicebank/ledger"
	"github.com/rragul902/voice-banking-assistant/voicebank/nlu"
	"github.com/rragul902/voice-banking-assistant/voicebank/verify"
)

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

const testUser = "demo_user"

// newTestPipeline returns a pipeline whose verification always passes.
func newTestPipeline() *Pipeline {
	return New(Config{
		Verifier: verify.Static{Score: 0.95, Threshold: 0.82},
	})
}

func submit(t *testing.T, p *Pipeline, text string) Result {
	t.Helper()

	result, err := p.Submit(context.Background(), text, testUser)
	require.NoError(t, err)

	return result
}

// ---------------------------------------------------------------------------
// End-to-end flows
// ---------------------------------------------------------------------------

func TestSubmit_TransferSucceeds(t *testing.T) {
	t.Parallel()

	p := newTestPipeline()
	result := submit(t, p, "Send 1500 to John Doe")

	assert.Equal(t, OutcomeSucceeded, result.Outcome)
	assert.Equal(t, nlu.IntentSendMoney, result.Intent)

	require.NotNil(t, result.Transaction)
	assert.True(t, result.Transaction.Amount.Equal(decimal.RequireFromString("1500")))
	assert.Equal(t, "John Doe", result.Transaction.RecipientName)
	assert.Equal(t, "johndoe@paytm", result.Transaction.RecipientHandle)

	assert.True(t, result.Balance.Equal(decimal.RequireFromString("23500")),
		"balance = %s", result.Balance)

	history, err := p.History(context.Background(), testUser, 0)
	require.NoError(t, err)
	assert.Len(t, history, 1)

	assert.Contains(t, result.Message, "₹1,500.00")
	assert.Contains(t, result.Message, "₹23,500.00")
	assert.Contains(t, result.Message, result.Transaction.ID)
}

func TestSubmit_CheckBalance(t *testing.T) {
	t.Parallel()

	p := newTestPipeline()
	result := submit(t, p, "Check balance")

	assert.Equal(t, OutcomeSucceeded, result.Outcome)
	assert.Equal(t, nlu.IntentCheckBalance, result.Intent)
	assert.True(t, result.Balance.Equal(ledger.StartingBalance))
	assert.Contains(t, result.Message, "₹25,000.00")

	// Snapshot queries never mutate.
	history, err := p.History(context.Background(), testUser, 0)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestSubmit_TransactionHistory(t *testing.T) {
	t.Parallel()

	p := newTestPipeline()

	t.Run("empty history", func(t *testing.T) {
		result := submit(t, p, "show my transaction history")
		assert.Equal(t, OutcomeSucceeded, result.Outcome)
		assert.Equal(t, "No transactions yet.", result.Message)
	})

	t.Run("after a transfer", func(t *testing.T) {
		submit(t, p, "send 500 to bob")

		result := submit(t, p, "show my transaction history")
		assert.Equal(t, OutcomeSucceeded, result.Outcome)
		assert.Contains(t, result.Message, "Bob Wilson")
		assert.Contains(t, result.Message, "₹500.00")
	})
}

func TestSubmit_UnknownRecipientRejected(t *testing.T) {
	t.Parallel()

	p := newTestPipeline()
	result := submit(t, p, "Send 500 to Unknown Person")

	assert.Equal(t, OutcomeRejected, result.Outcome)
	require.NotEmpty(t, result.Reasons)
	assert.Contains(t, result.Reasons[0], "not found")

	// Balance and history untouched.
	assert.True(t, result.Balance.Equal(ledger.StartingBalance))

	history, err := p.History(context.Background(), testUser, 0)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestSubmit_EmptyCommand(t *testing.T) {
	t.Parallel()

	p := newTestPipeline()
	result := submit(t, p, "")

	assert.Equal(t, OutcomeRejected, result.Outcome)
	assert.Equal(t, []string{"Empty command"}, result.Reasons)
	assert.True(t, result.Balance.Equal(ledger.StartingBalance))
}

func TestSubmit_UnknownIntent(t *testing.T) {
	t.Parallel()

	p := newTestPipeline()
	result := submit(t, p, "sing me a song")

	assert.Equal(t, OutcomeUnknown, result.Outcome)
	assert.Contains(t, result.Message, "Send 1500 to John Doe")
}

// ---------------------------------------------------------------------------
// Input completeness
// ---------------------------------------------------------------------------

func TestSubmit_MissingEntities(t *testing.T) {
	t.Parallel()

	t.Run("missing amount", func(t *testing.T) {
		t.Parallel()

		p := newTestPipeline()
		result := submit(t, p, "send money to alice")

		assert.Equal(t, OutcomeRejected, result.Outcome)
		require.Len(t, result.Reasons, 1)
		assert.Contains(t, result.Reasons[0], "amount")
	})

	t.Run("missing recipient", func(t *testing.T) {
		t.Parallel()

		p := newTestPipeline()
		result := submit(t, p, "transfer 200")

		assert.Equal(t, OutcomeRejected, result.Outcome)
		require.Len(t, result.Reasons, 1)
		assert.Contains(t, result.Reasons[0], "recipient")
	})

	t.Run("both missing, amount reported first", func(t *testing.T) {
		t.Parallel()

		p := newTestPipeline()
		result := submit(t, p, "send")

		assert.Equal(t, OutcomeRejected, result.Outcome)
		require.Len(t, result.Reasons, 2)
		assert.Contains(t, result.Reasons[0], "amount")
		assert.Contains(t, result.Reasons[1], "recipient")
	})
}

// ---------------------------------------------------------------------------
// Validation and verification outcomes
// ---------------------------------------------------------------------------

func TestSubmit_ValidationReasonsSurfaced(t *testing.T) {
	t.Parallel()

	p := newTestPipeline()

	// 60,000 exceeds both the 50,000 ceiling and the 25,000 balance.
	result := submit(t, p, "send 60,000.00 to john doe")

	assert.Equal(t, OutcomeRejected, result.Outcome)
	require.Len(t, result.Reasons, 2)
	assert.Contains(t, result.Reasons[0], "limit")
	assert.Contains(t, result.Reasons[1], "Insufficient balance")
	assert.Equal(t, []string{"Large amount, extra verification recommended"}, result.Warnings)
}

func TestSubmit_LargeAmountWarningDoesNotBlock(t *testing.T) {
	t.Parallel()

	p := newTestPipeline()
	result := submit(t, p, "send 15000 to priya")

	assert.Equal(t, OutcomeSucceeded, result.Outcome)
	assert.Equal(t, []string{"Large amount, extra verification recommended"}, result.Warnings)
}

func TestSubmit_VerificationFailure(t *testing.T) {
	t.Parallel()

	p := New(Config{
		Verifier: verify.Static{Score: 0.70, Threshold: 0.82},
	})

	result := submit(t, p, "send 100 to bob")

	assert.Equal(t, OutcomeRejected, result.Outcome)
	require.Len(t, result.Reasons, 1)
	assert.Contains(t, result.Reasons[0], "0.70")
	assert.Contains(t, result.Reasons[0], "0.82")

	// The transaction was never created.
	assert.True(t, result.Balance.Equal(ledger.StartingBalance))
	assert.Nil(t, result.Transaction)
}

func TestSubmit_VerificationErrorTreatedAsFailure(t *testing.T) {
	t.Parallel()

	p := New(Config{
		Verifier: verify.Static{Err: context.DeadlineExceeded},
	})

	result := submit(t, p, "send 100 to bob")

	assert.Equal(t, OutcomeRejected, result.Outcome)
	assert.Contains(t, result.Message, "did not complete")
	assert.True(t, result.Balance.Equal(ledger.StartingBalance))
}

// ---------------------------------------------------------------------------
// System faults
// ---------------------------------------------------------------------------

type faultyStore struct {
	ledger.MemoryStore
	failSaves bool
}

func (f *faultyStore) Save(ctx context.Context, userID string, s ledger.Snapshot) error {
	if f.failSaves {
		return errors.New("backend down")
	}

	return f.MemoryStore.Save(ctx, userID, s)
}

func TestSubmit_StoreFailureIsSystemFault(t *testing.T) {
	t.Parallel()

	store := &faultyStore{failSaves: true}
	p := New(Config{
		Store:    store,
		Verifier: verify.Static{Score: 0.95, Threshold: 0.82},
	})

	_, err := p.Submit(context.Background(), "send 100 to bob", testUser)
	require.Error(t, err)

	// No partial state: the failed commit left everything unchanged.
	balance, balErr := p.Balance(context.Background(), testUser)
	require.NoError(t, balErr)
	assert.True(t, balance.Equal(ledger.StartingBalance))

	history, histErr := p.History(context.Background(), testUser, 0)
	require.NoError(t, histErr)
	assert.Empty(t, history)
}

// ---------------------------------------------------------------------------
// Queries and reset
// ---------------------------------------------------------------------------

func TestBalance_Idempotent(t *testing.T) {
	t.Parallel()

	p := newTestPipeline()

	first, err := p.Balance(context.Background(), testUser)
	require.NoError(t, err)

	second, err := p.Balance(context.Background(), testUser)
	require.NoError(t, err)

	assert.True(t, first.Equal(second))
}

func TestReset(t *testing.T) {
	t.Parallel()

	p := newTestPipeline()
	submit(t, p, "send 1000 to mike")

	require.NoError(t, p.Reset(context.Background(), testUser))

	balance, err := p.Balance(context.Background(), testUser)
	require.NoError(t, err)
	assert.True(t, balance.Equal(ledger.StartingBalance))

	history, err := p.History(context.Background(), testUser, 0)
	require.NoError(t, err)
	assert.Empty(t, history)
}

// ---------------------------------------------------------------------------
// Concurrency
// ---------------------------------------------------------------------------

// Concurrent transfers for one user must serialize: with a 25,000 balance and
// forty 1,000 transfers submitted in parallel, exactly 25 can pass validation
// and the balance lands on zero, never below.
func TestSubmit_ConcurrentTransfersNeverOverdraw(t *testing.T) {
	t.Parallel()

	p := newTestPipeline()

	var wg sync.WaitGroup

	succeeded := make(chan struct{}, 64)

	for i := 0; i < 40; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			result, err := p.Submit(context.Background(), "send 1000 to bob", testUser)
			if err == nil && result.Outcome == OutcomeSucceeded {
				succeeded <- struct{}{}
			}
		}()
	}

	wg.Wait()
	close(succeeded)

	assert.Equal(t, 25, len(succeeded))

	balance, err := p.Balance(context.Background(), testUser)
	require.NoError(t, err)
	assert.True(t, balance.Equal(decimal.Zero), "balance = %s", balance)
}

func TestFormatINR(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "₹0.00", formatINR(decimal.Zero))
	assert.Equal(t, "₹500.00", formatINR(decimal.NewFromInt(500)))
	assert.Equal(t, "₹1,500.00", formatINR(decimal.RequireFromString("1500")))
	assert.Equal(t, "₹25,000.00", formatINR(decimal.RequireFromString("25000")))
	assert.Equal(t, "₹1,234,567.89", formatINR(decimal.RequireFromString("1234567.89")))
	assert.Equal(t, "-₹42.50", formatINR(decimal.RequireFromString("-42.50")))
}
