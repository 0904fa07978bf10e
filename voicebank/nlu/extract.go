package nlu

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/rragul902/voice-banking-assistant/voicebank/beneficiary"
)

// Currency is the fixed currency of every extracted amount.
const Currency = "INR"

// Entities is the structured output of a single extraction pass. A nil Amount
// or empty Recipient means the text did not contain that entity.
type Entities struct {
	Amount    *decimal.Decimal
	Recipient string
	Currency  string
}

// amountPattern matches a decimal number with optional thousands separators
// and an optional 2-digit fraction, e.g. "500", "1,500.00".
var amountPattern = regexp.MustCompile(`\b\d+(?:,\d{3})*(?:\.\d{2})?\b`)

// trailingAmountPattern strips an amount plus optional currency markers from
// the end of a recipient candidate ("bob 500 rupees" -> "bob").
var trailingAmountPattern = regexp.MustCompile(`(?i)\s*(?:rs\.?|rupees|₹)?\s*\d[\d,]*(?:\.\d+)?\s*(?:rs\.?|rupees|₹)?\s*$`)

// recipientTriggers are the tokens that introduce a recipient, in resolution
// order: "send 1500 to john" resolves via "to" before "send" gets a chance to
// capture the amount token.
var recipientTriggers = []string{"to", "for", "pay", "send", "transfer"}

// Extract parses free text into an amount and a candidate recipient.
//
// The amount is the first numeric token; its absence is a normal outcome.
// The recipient resolves in two stages: directory alias containment first,
// then the trigger-word heuristic, whose raw candidate is normalized against
// the directory by fuzzy match when possible and returned verbatim otherwise.
// Unknown recipients are not rejected here; that decision belongs to
// transaction validation.
func Extract(text string, dir *beneficiary.Directory) Entities {
	normalized := strings.ToLower(strings.TrimSpace(text))
	entities := Entities{Currency: Currency}

	if raw := amountPattern.FindString(normalized); raw != "" {
		if amount, err := decimal.NewFromString(strings.ReplaceAll(raw, ",", "")); err == nil {
			entities.Amount = &amount
		}
	}

	if alias, ok := dir.MatchSubstring(normalized); ok {
		entities.Recipient = alias

		return entities
	}

	if candidate := triggerCandidate(normalized); candidate != "" {
		if alias, ok := dir.FuzzyMatch(candidate, beneficiary.DefaultFuzzyCutoff); ok {
			entities.Recipient = alias
		} else {
			entities.Recipient = candidate
		}
	}

	return entities
}

// triggerCandidate scans whitespace tokens for a trigger word and takes the
// following one or two tokens as the recipient candidate, with any trailing
// amount/currency suffix stripped. Candidates of one character or less are
// rejected.
func triggerCandidate(normalized string) string {
	tokens := strings.Fields(normalized)

	for _, trigger := range recipientTriggers {
		for i, token := range tokens {
			if token != trigger || i+1 >= len(tokens) {
				continue
			}

			following := make([]string, 0, 2)

			for _, next := range tokens[i+1:] {
				if len(following) == 2 || isTrigger(next) {
					break
				}

				following = append(following, next)
			}

			candidate := strings.Join(following, " ")
			candidate = trailingAmountPattern.ReplaceAllString(candidate, "")
			candidate = strings.Trim(candidate, " .,!?")

			if utf8.RuneCountInString(candidate) > 1 {
				return candidate
			}
		}
	}

	return ""
}

func isTrigger(token string) bool {
	for _, trigger := range recipientTriggers {
		if token == trigger {
			return true
		}
	}

	return false
}
