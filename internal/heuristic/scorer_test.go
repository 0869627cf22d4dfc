package heuristic

import (
	"testing"

	"github.com/bryanwahyu/passintel/internal/domain/analysis"
)

func hasWeakness(res *analysis.AnalysisResult, w string) bool {
	for _, got := range res.Weaknesses {
		if got == w {
			return true
		}
	}
	return false
}

func TestScore_CommonPassword(t *testing.T) {
	res := NewScorer().Score("password123")

	if res.StrengthScore >= analysis.ModerateFloor {
		t.Errorf("score = %d, want < %d", res.StrengthScore, analysis.ModerateFloor)
	}
	if res.StrengthLevel != analysis.LevelWeak {
		t.Errorf("level = %s, want weak", res.StrengthLevel)
	}
	if !hasWeakness(res, "common password") {
		t.Errorf("weaknesses = %v, want \"common password\"", res.Weaknesses)
	}
	if !hasWeakness(res, "no symbol characters") {
		t.Errorf("weaknesses = %v, want \"no symbol characters\"", res.Weaknesses)
	}
	if len(res.Suggestions) != len(res.Weaknesses) {
		t.Errorf("each weakness needs its suggestion: %d vs %d",
			len(res.Suggestions), len(res.Weaknesses))
	}
}

func TestScore_StrongPassword(t *testing.T) {
	res := NewScorer().Score("Tr0ub4dor&3xQz!9")

	if res.StrengthScore < analysis.StrongFloor {
		t.Errorf("score = %d, want >= %d", res.StrengthScore, analysis.StrongFloor)
	}
	if res.StrengthLevel != analysis.LevelStrong {
		t.Errorf("level = %s, want strong", res.StrengthLevel)
	}
	if len(res.Weaknesses) != 0 {
		t.Errorf("weaknesses = %v, want none", res.Weaknesses)
	}
}

func TestScore_BoundsAndInvariants(t *testing.T) {
	passwords := []string{
		"", "a", "ab", "1234567890", "aaaabbbb", "qwertyuiop",
		"P@ssw0rd!", "correct horse battery staple", "ADMIN", "...",
		"Tr0ub4dor&3xQz!9", "password", "zzzzzzzzzzzzzzzzzzzzzzzz",
	}
	s := NewScorer()
	for _, pw := range passwords {
		res := s.Score(pw)
		if res.StrengthScore < 0 || res.StrengthScore > 100 {
			t.Errorf("Score(%q) = %d, out of [0,100]", pw, res.StrengthScore)
		}
		if res.StrengthLevel != analysis.LevelForScore(res.StrengthScore) {
			t.Errorf("Score(%q): level %s does not match score %d",
				pw, res.StrengthLevel, res.StrengthScore)
		}
		for _, method := range analysis.CrackTimeMethods() {
			if res.CrackTime[method] == "" {
				t.Errorf("Score(%q): missing crack_time key %q", pw, method)
			}
		}
		if len(res.CrackTime) != 3 {
			t.Errorf("Score(%q): crack_time keys = %v", pw, res.CrackTime)
		}
		if res.Explanation == "" {
			t.Errorf("Score(%q): empty explanation", pw)
		}
	}
}

func TestScore_PatternDetection(t *testing.T) {
	cases := []struct {
		password string
		weakness string
	}{
		{"xkAbcdE&29", "sequential characters"},
		{"x54321&ZpQ", "sequential characters"},
		{"xaaaZ&29Qp", "repeated characters"},
		{"Zqwerty&29", "keyboard pattern"},
		{"aB1!", "too short"},
	}
	s := NewScorer()
	for _, c := range cases {
		res := s.Score(c.password)
		if !hasWeakness(res, c.weakness) {
			t.Errorf("Score(%q): weaknesses = %v, want %q",
				c.password, res.Weaknesses, c.weakness)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	cases := []struct {
		seconds float64
		want    string
	}{
		{0.2, "instant"},
		{1, "1 second"},
		{45, "45 seconds"},
		{90, "1 minute"},
		{7200, "2 hours"},
		{2 * secondsPerDay, "2 days"},
		{3 * secondsPerYear, "3 years"},
		{200 * secondsPerYear, "centuries"},
	}
	for _, c := range cases {
		if got := FormatDuration(c.seconds); got != c.want {
			t.Errorf("FormatDuration(%v) = %q, want %q", c.seconds, got, c.want)
		}
	}
}

func TestCrackTimes_Extremes(t *testing.T) {
	// A one-letter password is instant under every method.
	ct := CrackTimes("a")
	for _, method := range analysis.CrackTimeMethods() {
		if ct[method] != "instant" {
			t.Errorf("CrackTimes(\"a\")[%s] = %q, want instant", method, ct[method])
		}
	}

	long := CrackTimes("Tr0ub4dor&3xQz!9Tr0ub4dor&3xQz!9")
	if long[analysis.MethodOnline] != "centuries" {
		t.Errorf("32-char online estimate = %q, want centuries", long[analysis.MethodOnline])
	}
}
