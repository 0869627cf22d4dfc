package prompt

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/bryanwahyu/passintel/internal/domain/analysis"
)

// wireResult mirrors the loosely-typed JSON the model returns. Scores arrive
// as numbers of unknown shape, so they go through json.Number.
type wireResult struct {
	StrengthScore json.Number       `json:"strength_score"`
	StrengthLevel string            `json:"strength_level"`
	Weaknesses    []string          `json:"weaknesses"`
	Suggestions   []string          `json:"suggestions"`
	CrackTime     map[string]string `json:"crack_time"`
	Explanation   string            `json:"explanation"`
}

// ParseResult coerces a raw model response into a domain result. The returned
// result is not yet normalized; callers run Normalize with the heuristic
// crack-time fallback. The level field of the response is ignored entirely,
// it is always recomputed from the score.
func ParseResult(raw string) (*analysis.AnalysisResult, error) {
	cleaned := stripFences(raw)

	var w wireResult
	if err := json.Unmarshal([]byte(cleaned), &w); err != nil {
		return nil, fmt.Errorf("unparseable analysis response: %w", err)
	}

	score := 0
	if w.StrengthScore != "" {
		f, err := w.StrengthScore.Float64()
		if err != nil {
			return nil, fmt.Errorf("non-numeric strength_score %q", w.StrengthScore)
		}
		score = int(f)
	}

	return &analysis.AnalysisResult{
		StrengthScore: score,
		Weaknesses:    w.Weaknesses,
		Suggestions:   w.Suggestions,
		CrackTime:     w.CrackTime,
		Explanation:   w.Explanation,
	}, nil
}

// stripFences tolerates models that wrap the object in markdown fences
// despite the instructions.
func stripFences(raw string) string {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	return strings.TrimSpace(s)
}
