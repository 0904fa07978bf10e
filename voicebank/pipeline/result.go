package pipeline

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/rragul902/voice-banking-assistant/voicebank/ledger"
	"github.com/rragul902/voice-banking-assistant/voicebank/nlu"
	"github.com/rragul902/voice-banking-assistant/voicebank/verify"
)

// Outcome discriminates the three terminal states of one command.
type Outcome string

const (
	// OutcomeSucceeded means the command completed: a transfer committed or
	// a snapshot query answered.
	OutcomeSucceeded Outcome = "succeeded"
	// OutcomeRejected means the command was understood but refused; Reasons
	// carries every collected reason in order.
	OutcomeRejected Outcome = "rejected"
	// OutcomeUnknown means no intent matched; Message carries help text.
	OutcomeUnknown Outcome = "unknown"
)

// Result is the structured outcome returned to the caller for one command.
type Result struct {
	Outcome      Outcome             `json:"outcome"`
	Intent       nlu.Intent          `json:"intent"`
	Message      string              `json:"message"`
	Reasons      []string            `json:"reasons,omitempty"`
	Warnings     []string            `json:"warnings,omitempty"`
	Transaction  *ledger.Transaction `json:"transaction,omitempty"`
	Balance      decimal.Decimal     `json:"balance"`
	Verification *verify.Result      `json:"verification,omitempty"`
}

// formatINR renders an amount as "₹1,500.00" with thousands separators.
func formatINR(amount decimal.Decimal) string {
	fixed := amount.StringFixed(2)

	negative := strings.HasPrefix(fixed, "-")
	if negative {
		fixed = fixed[1:]
	}

	parts := strings.SplitN(fixed, ".", 2)
	grouped := groupThousands(parts[0])

	out := "₹" + grouped + "." + parts[1]
	if negative {
		out = "-" + out
	}

	return out
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}

	var b strings.Builder

	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}

	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}

		b.WriteString(digits[i : i+3])
	}

	return b.String()
}
