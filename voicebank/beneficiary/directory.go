package beneficiary

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

// DefaultFuzzyCutoff is the minimum similarity an alias must reach before a
// fuzzy candidate is normalized to it.
const DefaultFuzzyCutoff = 0.6

// Record is a known payee with a resolvable payment handle.
type Record struct {
	Name     string `json:"name"`
	Handle   string `json:"handle"`
	Verified bool   `json:"verified"`
}

// Directory is an immutable alias-keyed catalog of payee records. Multiple
// aliases (full name, short name) may point at the same record.
type Directory struct {
	records map[string]Record
	aliases []string
}

// New builds a directory from an alias to record map. Aliases are normalized
// to lowercase; the stored match order is longest alias first, ties broken
// lexicographically.
func New(records map[string]Record) *Directory {
	normalized := make(map[string]Record, len(records))
	aliases := make([]string, 0, len(records))

	for alias, record := range records {
		key := strings.ToLower(strings.TrimSpace(alias))
		if key == "" {
			continue
		}

		normalized[key] = record
		aliases = append(aliases, key)
	}

	sort.Slice(aliases, func(i, j int) bool {
		if len(aliases[i]) != len(aliases[j]) {
			return len(aliases[i]) > len(aliases[j])
		}

		return aliases[i] < aliases[j]
	})

	return &Directory{records: normalized, aliases: aliases}
}

// Default returns the demo payee directory.
func Default() *Directory {
	return New(map[string]Record{
		"john doe":   {Name: "John Doe", Handle: "johndoe@paytm", Verified: true},
		"jane smith": {Name: "Jane Smith", Handle: "janesmith@gpay", Verified: true},
		"alice":      {Name: "Alice Johnson", Handle: "alice@phonepe", Verified: true},
		"bob":        {Name: "Bob Wilson", Handle: "bob@paytm", Verified: true},
		"mike":       {Name: "Mike Brown", Handle: "mike@gpay", Verified: true},
		"sarah":      {Name: "Sarah Davis", Handle: "sarah@phonepe", Verified: true},
		"amit":       {Name: "Amit Kumar", Handle: "amit@upi", Verified: true},
		"priya":      {Name: "Priya Sharma", Handle: "priya@gpay", Verified: true},
	})
}

// Len returns the number of aliases in the directory.
func (d *Directory) Len() int {
	return len(d.aliases)
}

// Aliases returns the aliases in match order (longest first, then
// lexicographic). The returned slice is a copy.
func (d *Directory) Aliases() []string {
	out := make([]string, len(d.aliases))
	copy(out, d.aliases)

	return out
}

// Resolve looks up the record for an alias, case-insensitively.
func (d *Directory) Resolve(alias string) (Record, bool) {
	record, ok := d.records[strings.ToLower(strings.TrimSpace(alias))]

	return record, ok
}

// MatchSubstring returns the first alias, in match order, that appears as a
// substring of text. The text is lowercased before comparison; containment is
// plain substring, not word-boundary.
func (d *Directory) MatchSubstring(text string) (string, bool) {
	lowered := strings.ToLower(text)

	for _, alias := range d.aliases {
		if strings.Contains(lowered, alias) {
			return alias, true
		}
	}

	return "", false
}

// FuzzyMatch returns the alias most similar to candidate when that similarity
// clears cutoff. Similarity is 1 - levenshtein/maxLen, so 1.0 is an exact
// match. On a tie, match order wins.
func (d *Directory) FuzzyMatch(candidate string, cutoff float64) (string, bool) {
	lowered := strings.ToLower(strings.TrimSpace(candidate))
	if lowered == "" {
		return "", false
	}

	best := ""
	bestScore := 0.0

	for _, alias := range d.aliases {
		score := similarity(lowered, alias)
		if score > bestScore {
			best = alias
			bestScore = score
		}
	}

	if bestScore >= cutoff {
		return best, true
	}

	return "", false
}

func similarity(a, b string) float64 {
	if a == b {
		return 1.0
	}

	longest := len(a)
	if len(b) > longest {
		longest = len(b)
	}

	if longest == 0 {
		return 0.0
	}

	distance := levenshtein.ComputeDistance(a, b)

	return 1.0 - float64(distance)/float64(longest)
}
