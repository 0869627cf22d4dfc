package prompt

import "fmt"

// GetSystemPrompt provides strict directions and the schema for JSON output.
func GetSystemPrompt() string {
	return `You are a cybersecurity expert specializing in password analysis. You must produce one valid JSON object only (no markdown, no commentary, no code fences) that follows the schema below.

Requirements:
- strength_score is an integer from 0 to 100.
- strength_level is one of: weak, moderate, strong.
- weaknesses and suggestions are arrays of short strings; use [] when empty.
- crack_time maps each attack method to a human-readable duration string. Use exactly the keys: online, offline_slow, offline_fast.
- explanation is one concise paragraph.

Consider length, character variety (uppercase, lowercase, digits, symbols), dictionary words, keyboard patterns, repeated characters and sequences.

Schema (example with empty values):
{
  "strength_score": 0,
  "strength_level": "<weak|moderate|strong>",
  "weaknesses": ["<string>"],
  "suggestions": ["<string>"],
  "crack_time": {"online": "<string>", "offline_slow": "<string>", "offline_fast": "<string>"},
  "explanation": "<string>"
}`
}

// GetUserPrompt builds a compact user message around the submitted password.
func GetUserPrompt(password string) string {
	return fmt.Sprintf("Analyze this password for security strength and respond with the JSON per schema: %q", password)
}
