package scoring

import (
	"strings"

	"github.com/hupe1980/veridex/codec"
)

// parsedReply is the model's answer after both parsing stages.
type parsedReply struct {
	Level      Level
	Confidence float64
	Rationale  string
	KeyPoints  []string
}

// replySchema is the JSON contract the system prompt demands.
type replySchema struct {
	ContradictionLevel string   `json:"contradiction_level"`
	ConfidenceScore    *float64 `json:"confidence_score"`
	Analysis           string   `json:"analysis"`
	KeyContradictions  []string `json:"key_contradictions"`
}

// parseReply extracts an analysis from a model reply. Stage one decodes the
// JSON object between the first '{' and the last '}'; stage two is a
// heuristic reading of free-form prose. Parsing never fails: a reply that
// matches nothing comes back as Unknown.
func parseReply(reply string) parsedReply {
	start := strings.Index(reply, "{")
	end := strings.LastIndex(reply, "}")

	if start != -1 && end > start {
		var schema replySchema
		if err := codec.Default.Unmarshal([]byte(reply[start:end+1]), &schema); err == nil {
			return fromSchema(schema, reply)
		}
	}

	return parseProse(reply)
}

func fromSchema(schema replySchema, raw string) parsedReply {
	parsed := parsedReply{
		Level:      LevelUnknown,
		Confidence: 0.5,
		Rationale:  raw,
	}

	switch Level(strings.ToUpper(schema.ContradictionLevel)) {
	case LevelNone, LevelLow, LevelMedium, LevelHigh:
		parsed.Level = Level(strings.ToUpper(schema.ContradictionLevel))
	}
	if schema.ConfidenceScore != nil {
		parsed.Confidence = clamp01(*schema.ConfidenceScore)
	}
	if schema.Analysis != "" {
		parsed.Rationale = schema.Analysis
	}
	if len(schema.KeyContradictions) > maxKeyPoints {
		schema.KeyContradictions = schema.KeyContradictions[:maxKeyPoints]
	}
	parsed.KeyPoints = schema.KeyContradictions

	return parsed
}

// parseProse is the stage-two heuristic for replies that ignored the JSON
// contract: severity words co-occurring with "contradiction" set the level,
// and sentences naming a contradiction become key points.
func parseProse(reply string) parsedReply {
	lower := strings.ToLower(reply)

	var level Level
	var confidence float64
	switch {
	case strings.Contains(lower, "high") && (strings.Contains(lower, "contradiction") || strings.Contains(lower, "severe")):
		level, confidence = LevelHigh, 0.8
	case strings.Contains(lower, "medium") && strings.Contains(lower, "contradiction"):
		level, confidence = LevelMedium, 0.6
	case strings.Contains(lower, "low") && strings.Contains(lower, "contradiction"):
		level, confidence = LevelLow, 0.4
	case strings.Contains(lower, "none") || strings.Contains(lower, "no contradiction"):
		level, confidence = LevelNone, 0.2
	default:
		level, confidence = LevelUnknown, 0.3
	}

	var keyPoints []string
	for _, sentence := range strings.Split(reply, ".") {
		sentenceLower := strings.ToLower(sentence)
		for _, marker := range []string{"contradict", "inconsistent", "violate", "breach"} {
			if strings.Contains(sentenceLower, marker) {
				keyPoints = append(keyPoints, strings.TrimSpace(sentence))
				break
			}
		}
		if len(keyPoints) == maxKeyPoints {
			break
		}
	}

	return parsedReply{
		Level:      level,
		Confidence: confidence,
		Rationale:  reply,
		KeyPoints:  keyPoints,
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
