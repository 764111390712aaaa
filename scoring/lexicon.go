package scoring

import "strings"

// negativeTerms flag concerning conduct in action reports.
var negativeTerms = []string{
	"lawsuit", "fine", "penalty", "scandal", "violation", "illegal",
	"layoffs", "discrimination", "pollution", "breach", "fraud",
	"investigation", "charges", "misconduct", "abuse", "exploit",
}

// positiveTerms flag commitment language in promise documents.
var positiveTerms = []string{
	"commitment", "pledge", "promise", "value", "ethical", "responsible",
	"sustainable", "inclusive", "transparent", "integrity", "compliance",
}

// countSignals counts lexicon terms appearing in text. Matching is
// case-insensitive substring containment, so "fine" also matches "refined".
// That coarseness is intentional: scores stay comparable with the
// historical behavior of this analysis.
func countSignals(text string, terms []string) int {
	lower := strings.ToLower(text)

	count := 0
	for _, term := range terms {
		if strings.Contains(lower, term) {
			count++
		}
	}
	return count
}
