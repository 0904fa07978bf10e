package nlu

import "strings"

// Intent is the coarse action a command requests.
type Intent string

const (
	// IntentSendMoney requests a money transfer.
	IntentSendMoney Intent = "send_money"
	// IntentCheckBalance requests the current account balance.
	IntentCheckBalance Intent = "check_balance"
	// IntentTransactionHistory requests recent transactions.
	IntentTransactionHistory Intent = "transaction_history"
	// IntentUnknown marks a command no rule matched.
	IntentUnknown Intent = "unknown"
)

// intentRule pairs an intent with the keywords that select it. Rules are
// evaluated in declaration order; the first rule with any keyword contained
// in the text wins, regardless of match length.
type intentRule struct {
	intent   Intent
	keywords []string
}

// intentRules is the declared tie-break order. Keeping it as an explicit
// ordered table makes the order a visible, testable configuration.
var intentRules = []intentRule{
	{intent: IntentSendMoney, keywords: []string{"send", "transfer", "pay", "give"}},
	{intent: IntentCheckBalance, keywords: []string{"balance", "how much"}},
	{intent: IntentTransactionHistory, keywords: []string{"history", "transactions", "recent", "statement"}},
}

// Classify maps free text to an intent by keyword containment against the
// trimmed, lowercased text. No keyword match means IntentUnknown.
func Classify(text string) Intent {
	normalized := strings.ToLower(strings.TrimSpace(text))
	if normalized == "" {
		return IntentUnknown
	}

	for _, rule := range intentRules {
		for _, keyword := range rule.keywords {
			if strings.Contains(normalized, keyword) {
				return rule.intent
			}
		}
	}

	return IntentUnknown
}
