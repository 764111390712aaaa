package scoring

import (
	"fmt"
	"math"
)

// RiskLevel aggregates multiple analyses into a single grade.
type RiskLevel string

const (
	RiskMinimal RiskLevel = "MINIMAL"
	RiskLow     RiskLevel = "LOW"
	RiskMedium  RiskLevel = "MEDIUM"
	RiskHigh    RiskLevel = "HIGH"
	RiskUnknown RiskLevel = "UNKNOWN"
)

// Summary is the risk roll-up over a batch of analyses.
type Summary struct {
	OverallScore    float64   `json:"overall_score"`
	RiskLevel       RiskLevel `json:"risk_level"`
	Text            string    `json:"summary"`
	TotalAnalyses   int       `json:"total_analyses"`
	HighRiskCount   int       `json:"high_risk_count"`
	MediumRiskCount int       `json:"medium_risk_count"`
}

// Summarize rolls a batch of results into one confidence-weighted risk
// score. An empty batch yields an Unknown summary.
func Summarize(results []Result) Summary {
	if len(results) == 0 {
		return Summary{RiskLevel: RiskUnknown, Text: "No data available"}
	}

	var total float64
	var high, medium int
	for _, r := range results {
		total += r.Level.weight() * r.Confidence
		switch r.Level {
		case LevelHigh:
			high++
		case LevelMedium:
			medium++
		}
	}
	overall := total / float64(len(results))

	var risk RiskLevel
	switch {
	case overall >= 0.7:
		risk = RiskHigh
	case overall >= 0.4:
		risk = RiskMedium
	case overall >= 0.2:
		risk = RiskLow
	default:
		risk = RiskMinimal
	}

	return Summary{
		OverallScore:    math.Round(overall*100) / 100,
		RiskLevel:       risk,
		Text:            fmt.Sprintf("Analysis of %d areas found %d high-risk and %d medium-risk contradictions.", len(results), high, medium),
		TotalAnalyses:   len(results),
		HighRiskCount:   high,
		MediumRiskCount: medium,
	}
}
