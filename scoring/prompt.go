package scoring

import "fmt"

// systemPrompt instructs the delegated model. The strict JSON contract is
// what parseReply expects on the happy path.
const systemPrompt = `You are an expert corporate analyst specializing in identifying contradictions between company statements and actions.

Your task is to:
1. Objectively compare company promises/commitments with recent actions
2. Identify contradictions or inconsistencies
3. Rate contradiction level: NONE, LOW, MEDIUM, HIGH
4. Provide confidence score (0.0 to 1.0)
5. List specific contradictions found
6. Be evidence-based and cite specific examples

Respond ONLY with valid JSON in this exact format:
{
    "contradiction_level": "HIGH",
    "confidence_score": 0.85,
    "analysis": "Detailed explanation of contradictions found...",
    "key_contradictions": ["contradiction 1", "contradiction 2"]
}`

// renderPrompt builds the per-analysis user prompt.
func renderPrompt(company, topic, promises, actions string) string {
	focus := topic
	if focus == "" {
		focus = "General corporate behavior"
	}

	return fmt.Sprintf(`Company: %s
Query Focus: %s

OFFICIAL COMMITMENTS:
%s

RECENT ACTIONS:
%s

Analyze for contradictions between stated values and actual behavior.`, company, focus, promises, actions)
}
