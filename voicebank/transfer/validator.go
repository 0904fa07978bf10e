package transfer

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/rragul902/voice-banking-assistant/voicebank/beneficiary"
)

// RuleCode identifies the rule a violation refers to.
type RuleCode string

const (
	// CodeNonPositiveAmount indicates the amount is zero or negative.
	CodeNonPositiveAmount RuleCode = "non_positive_amount"
	// CodeExceedsLimit indicates the amount is above the per-transaction ceiling.
	CodeExceedsLimit RuleCode = "exceeds_limit"
	// CodeInsufficientBalance indicates the sender cannot cover the amount.
	CodeInsufficientBalance RuleCode = "insufficient_balance"
	// CodeRecipientNotFound indicates the recipient is not a known beneficiary.
	CodeRecipientNotFound RuleCode = "recipient_not_found"
	// CodeLargeAmount is the advisory warning for amounts above the advisory
	// threshold. It never blocks a transfer.
	CodeLargeAmount RuleCode = "large_amount"
)

// Violation is a single violated or advisory rule.
type Violation struct {
	Code    RuleCode `json:"code"`
	Message string   `json:"message"`
}

// Error returns the formatted violation string.
func (v Violation) Error() string {
	return v.Message
}

// Limits carries the varying rule constants as configuration, so one
// validator serves every deployment variant.
type Limits struct {
	// PerTransaction is the hard ceiling for a single transfer.
	PerTransaction decimal.Decimal
	// LargeAmountAdvisory is the threshold above which a non-blocking
	// warning recommends extra verification.
	LargeAmountAdvisory decimal.Decimal
}

// DefaultLimits returns the demo rule constants.
func DefaultLimits() Limits {
	return Limits{
		PerTransaction:      decimal.NewFromInt(50000),
		LargeAmountAdvisory: decimal.NewFromInt(10000),
	}
}

// Result is the outcome of validating one proposed transfer. Valid is true
// iff Errors is empty; Warnings never block.
type Result struct {
	Valid    bool        `json:"valid"`
	Errors   []Violation `json:"errors,omitempty"`
	Warnings []Violation `json:"warnings,omitempty"`
}

// Reasons returns the error messages in rule order.
func (r Result) Reasons() []string {
	reasons := make([]string, 0, len(r.Errors))
	for _, violation := range r.Errors {
		reasons = append(reasons, violation.Message)
	}

	return reasons
}

// Validate checks a proposed transfer against every rule and collects all
// violations instead of stopping at the first. It mutates nothing.
func Validate(amount decimal.Decimal, recipientToken string, senderBalance decimal.Decimal, dir *beneficiary.Directory, limits Limits) Result {
	result := Result{Valid: true}

	if !amount.IsPositive() {
		result.Errors = append(result.Errors, Violation{
			Code:    CodeNonPositiveAmount,
			Message: "Amount must be greater than zero",
		})
	}

	if amount.GreaterThan(limits.PerTransaction) {
		result.Errors = append(result.Errors, Violation{
			Code:    CodeExceedsLimit,
			Message: fmt.Sprintf("Amount exceeds per-transaction limit of ₹%s", limits.PerTransaction.StringFixed(2)),
		})
	}

	if amount.GreaterThan(senderBalance) {
		result.Errors = append(result.Errors, Violation{
			Code:    CodeInsufficientBalance,
			Message: fmt.Sprintf("Insufficient balance. Available: ₹%s", senderBalance.StringFixed(2)),
		})
	}

	if _, ok := dir.Resolve(recipientToken); !ok {
		result.Errors = append(result.Errors, Violation{
			Code:    CodeRecipientNotFound,
			Message: fmt.Sprintf("Recipient '%s' not found", recipientToken),
		})
	}

	if amount.GreaterThan(limits.LargeAmountAdvisory) {
		result.Warnings = append(result.Warnings, Violation{
			Code:    CodeLargeAmount,
			Message: "Large amount, extra verification recommended",
		})
	}

	result.Valid = len(result.Errors) == 0

	return result
}
