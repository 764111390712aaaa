package scoring

import "time"

// Level grades how strongly a company's actions contradict its stated
// commitments.
type Level string

const (
	LevelNone    Level = "NONE"
	LevelLow     Level = "LOW"
	LevelMedium  Level = "MEDIUM"
	LevelHigh    Level = "HIGH"
	LevelUnknown Level = "UNKNOWN"
)

// weight returns the risk weight used by Summary. Unknown weighs zero.
func (l Level) weight() float64 {
	switch l {
	case LevelLow:
		return 0.25
	case LevelMedium:
		return 0.5
	case LevelHigh:
		return 1.0
	default:
		return 0
	}
}

// excerptLimit caps the promises/actions excerpts carried on a Result.
const excerptLimit = 500

// maxKeyPoints caps the number of key contradiction points per Result.
const maxKeyPoints = 3

// Result is one contradiction analysis. It is immutable once returned.
type Result struct {
	Company         string    `json:"company"`
	Topic           string    `json:"topic"`
	Level           Level     `json:"contradiction_level"`
	Confidence      float64   `json:"confidence_score"`
	Rationale       string    `json:"analysis"`
	PromisesExcerpt string    `json:"promises_excerpt"`
	ActionsExcerpt  string    `json:"actions_excerpt"`
	KeyPoints       []string  `json:"key_contradictions"`
	Similarity      float64   `json:"similarity"`
	AnalyzedAt      time.Time `json:"analyzed_at"`
}

// truncate shortens text to max bytes, marking the cut with an ellipsis.
func truncate(text string, max int) string {
	if len(text) <= max {
		return text
	}
	return text[:max] + "..."
}
