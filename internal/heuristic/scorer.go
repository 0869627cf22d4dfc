// Package heuristic computes password assessments locally, without network
// calls, as the fallback path when the AI analyzer is unavailable.
package heuristic

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/bryanwahyu/passintel/internal/domain/analysis"
)

// Scoring constants. The length reward saturates so very long passwords do
// not drown out pattern penalties, and each character class present widens
// the assumed search alphabet.
const (
	pointsPerChar  = 3
	lengthCap      = 48
	pointsPerClass = 8

	minLength = 8

	penaltyTooShort     = 15
	penaltySequential   = 10
	penaltyRepeated     = 10
	penaltyCommon       = 30
	penaltyKeyboard     = 15
	penaltyMissingClass = 5
)

// Scorer implements analysis.Scorer.
type Scorer struct{}

func NewScorer() *Scorer { return &Scorer{} }

type classes struct {
	lower, upper, digit, symbol bool
}

func classify(password string) classes {
	var c classes
	for _, r := range password {
		switch {
		case unicode.IsLower(r):
			c.lower = true
		case unicode.IsUpper(r):
			c.upper = true
		case unicode.IsDigit(r):
			c.digit = true
		default:
			c.symbol = true
		}
	}
	return c
}

func (c classes) count() int {
	n := 0
	for _, has := range []bool{c.lower, c.upper, c.digit, c.symbol} {
		if has {
			n++
		}
	}
	return n
}

// Score analyzes a password and always returns a complete result. Weaknesses
// are appended in detection order and each one carries a matching suggestion.
func (s *Scorer) Score(password string) *analysis.AnalysisResult {
	runes := []rune(password)
	c := classify(password)

	score := len(runes) * pointsPerChar
	if score > lengthCap {
		score = lengthCap
	}
	score += c.count() * pointsPerClass

	weaknesses := []string{}
	suggestions := []string{}
	flag := func(penalty int, weakness, suggestion string) {
		score -= penalty
		weaknesses = append(weaknesses, weakness)
		suggestions = append(suggestions, suggestion)
	}

	if len(runes) < minLength {
		flag(penaltyTooShort, "too short",
			fmt.Sprintf("use at least %d characters", minLength))
	}
	if isCommonPassword(password) {
		flag(penaltyCommon, "common password",
			"avoid dictionary words and well-known passwords")
	}
	if hasSequentialRun(runes) {
		flag(penaltySequential, "sequential characters",
			"avoid sequences like 'abc' or '123'")
	}
	if hasRepeatedRun(runes) {
		flag(penaltyRepeated, "repeated characters",
			"avoid repeating the same character")
	}
	if hasKeyboardPattern(password) {
		flag(penaltyKeyboard, "keyboard pattern",
			"avoid rows of adjacent keyboard keys")
	}
	if !c.upper {
		flag(penaltyMissingClass, "no uppercase letters", "add at least one uppercase letter")
	}
	if !c.lower {
		flag(penaltyMissingClass, "no lowercase letters", "add at least one lowercase letter")
	}
	if !c.digit {
		flag(penaltyMissingClass, "no digits", "add at least one digit")
	}
	if !c.symbol {
		flag(penaltyMissingClass, "no symbol characters", "add at least one symbol")
	}

	score = analysis.ClampScore(score)
	level := analysis.LevelForScore(score)

	return &analysis.AnalysisResult{
		StrengthScore: score,
		StrengthLevel: level,
		Weaknesses:    weaknesses,
		Suggestions:   suggestions,
		CrackTime:     CrackTimes(password),
		Explanation:   explanation(score, level, weaknesses),
	}
}

// hasSequentialRun reports a run of three or more consecutive ascending or
// descending code points ("abc", "321").
func hasSequentialRun(runes []rune) bool {
	for i := 0; i+2 < len(runes); i++ {
		if runes[i+1] == runes[i]+1 && runes[i+2] == runes[i]+2 {
			return true
		}
		if runes[i+1] == runes[i]-1 && runes[i+2] == runes[i]-2 {
			return true
		}
	}
	return false
}

// hasRepeatedRun reports three or more of the same rune in a row.
func hasRepeatedRun(runes []rune) bool {
	for i := 0; i+2 < len(runes); i++ {
		if runes[i] == runes[i+1] && runes[i] == runes[i+2] {
			return true
		}
	}
	return false
}

// Keyboard rows checked for four-key adjacent runs in either direction.
var keyboardRows = []string{
	"qwertyuiop",
	"asdfghjkl",
	"zxcvbnm",
}

func hasKeyboardPattern(password string) bool {
	lower := strings.ToLower(password)
	for _, row := range keyboardRows {
		for i := 0; i+4 <= len(row); i++ {
			run := row[i : i+4]
			if strings.Contains(lower, run) || strings.Contains(lower, reverse(run)) {
				return true
			}
		}
	}
	return false
}

func reverse(s string) string {
	b := []byte(s)
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
	return string(b)
}

func explanation(score int, level analysis.Level, weaknesses []string) string {
	if len(weaknesses) == 0 {
		return fmt.Sprintf(
			"This password scores %d/100 and is rated %s. No significant weaknesses were detected: its length and mix of character classes put it beyond practical guessing attacks.",
			score, level)
	}
	return fmt.Sprintf(
		"This password scores %d/100 and is rated %s. The dominant weakness detected was %q, with %d issue(s) found in total. Working through the suggestions, starting with the first, will raise the score the most.",
		score, level, weaknesses[0], len(weaknesses))
}
