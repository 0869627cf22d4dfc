package heuristic

import (
	"fmt"
	"math"
	"unicode"

	"github.com/bryanwahyu/passintel/internal/domain/analysis"
)

// Alphabet sizes per character class. The effective keyspace of a password is
// the sum of the used class sizes raised to its length.
const (
	alphabetLower  = 26
	alphabetUpper  = 26
	alphabetDigit  = 10
	alphabetSymbol = 33
)

// Guess rates per attack method, in guesses per second. Online assumes a
// throttled service, offline_slow a memory-hard hash, offline_fast a fast
// unsalted hash on GPU hardware.
const (
	rateOnline      = 1e2
	rateOfflineSlow = 1e4
	rateOfflineFast = 1e10
)

const (
	secondsPerMinute = 60
	secondsPerHour   = 3600
	secondsPerDay    = 86400
	secondsPerYear   = 365 * secondsPerDay

	// Estimates beyond this many years saturate to "centuries".
	centuriesCutoffYears = 100
)

// CrackTimes returns brute-force time estimates for the fixed method key set.
// The AI normalization boundary also uses this to fill keys the external
// response left out.
func CrackTimes(password string) map[string]string {
	runes := []rune(password)
	if len(runes) == 0 {
		return map[string]string{
			analysis.MethodOnline:      "instant",
			analysis.MethodOfflineSlow: "instant",
			analysis.MethodOfflineFast: "instant",
		}
	}

	alphabet := 0
	var lower, upper, digit, symbol bool
	for _, r := range runes {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		default:
			symbol = true
		}
	}
	if lower {
		alphabet += alphabetLower
	}
	if upper {
		alphabet += alphabetUpper
	}
	if digit {
		alphabet += alphabetDigit
	}
	if symbol {
		alphabet += alphabetSymbol
	}

	keyspace := math.Pow(float64(alphabet), float64(len(runes)))

	return map[string]string{
		analysis.MethodOnline:      FormatDuration(keyspace / rateOnline),
		analysis.MethodOfflineSlow: FormatDuration(keyspace / rateOfflineSlow),
		analysis.MethodOfflineFast: FormatDuration(keyspace / rateOfflineFast),
	}
}

// FormatDuration renders a second count as a human-readable duration,
// saturating to "centuries" beyond the cutoff.
func FormatDuration(seconds float64) string {
	switch {
	case seconds < 1:
		return "instant"
	case seconds < secondsPerMinute:
		return plural(seconds, "second")
	case seconds < secondsPerHour:
		return plural(seconds/secondsPerMinute, "minute")
	case seconds < secondsPerDay:
		return plural(seconds/secondsPerHour, "hour")
	case seconds < secondsPerYear:
		return plural(seconds/secondsPerDay, "day")
	case seconds < centuriesCutoffYears*secondsPerYear:
		return plural(seconds/secondsPerYear, "year")
	default:
		return "centuries"
	}
}

func plural(value float64, unit string) string {
	n := int64(value)
	if n == 1 {
		return fmt.Sprintf("1 %s", unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
