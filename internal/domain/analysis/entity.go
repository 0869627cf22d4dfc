package analysis

import (
	"time"
)

// RecordID identifies one analysis. The history record and the audit record
// produced by the same request always share the same RecordID.
type RecordID string

// Level enum
type Level string

const (
	LevelWeak     Level = "weak"
	LevelModerate Level = "moderate"
	LevelStrong   Level = "strong"
)

// Score thresholds for deriving Level from StrengthScore. The level is never
// set independently of the score; every producer must go through LevelForScore.
const (
	ModerateFloor = 40
	StrongFloor   = 75
)

// LevelForScore maps a 0-100 score onto its level.
func LevelForScore(score int) Level {
	switch {
	case score >= StrongFloor:
		return LevelStrong
	case score >= ModerateFloor:
		return LevelModerate
	default:
		return LevelWeak
	}
}

// ClampScore bounds a score to the valid [0,100] range.
func ClampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// Crack-time method keys. Every AnalysisResult carries exactly this set so
// consumers never branch on which estimates are present.
const (
	MethodOnline      = "online"
	MethodOfflineSlow = "offline_slow"
	MethodOfflineFast = "offline_fast"
)

// CrackTimeMethods returns the fixed method key set.
func CrackTimeMethods() []string {
	return []string{MethodOnline, MethodOfflineSlow, MethodOfflineFast}
}

// AnalysisResult is the canonical assessment shape shared by the AI and
// heuristic paths.
type AnalysisResult struct {
	StrengthScore int               `json:"strength_score"`
	StrengthLevel Level             `json:"strength_level"`
	Weaknesses    []string          `json:"weaknesses"`
	Suggestions   []string          `json:"suggestions"`
	CrackTime     map[string]string `json:"crack_time"`
	Explanation   string            `json:"explanation"`
}

// Normalize coerces a result into the canonical shape: score clamped, level
// recomputed from the score, nil lists replaced with empty ones, and missing
// crack-time keys filled from fallback (the heuristic estimate for the same
// password). Keys outside the fixed set are dropped.
func (r *AnalysisResult) Normalize(fallback map[string]string) {
	r.StrengthScore = ClampScore(r.StrengthScore)
	r.StrengthLevel = LevelForScore(r.StrengthScore)
	if r.Weaknesses == nil {
		r.Weaknesses = []string{}
	}
	if r.Suggestions == nil {
		r.Suggestions = []string{}
	}
	ct := make(map[string]string, 3)
	for _, method := range CrackTimeMethods() {
		if v, ok := r.CrackTime[method]; ok && v != "" {
			ct[method] = v
		} else if fallback != nil {
			ct[method] = fallback[method]
		}
	}
	r.CrackTime = ct
}

// HistoryRecord is the user-visible persisted form of an analysis. It never
// carries the raw password.
type HistoryRecord struct {
	ID             RecordID `json:"analysis_id"`
	SessionID      string   `json:"session_id"`
	PasswordMasked string   `json:"password_masked"`
	AnalysisResult
	Timestamp time.Time `json:"timestamp"`
}

// AuditRecord is the privileged persisted form, retaining the raw password.
// It pairs 1:1 with a HistoryRecord through the shared ID.
type AuditRecord struct {
	ID          RecordID `json:"analysis_id"`
	SessionID   string   `json:"session_id"`
	PasswordRaw string   `json:"password_raw"`
	ClientIP    string   `json:"client_ip,omitempty"`
	AnalysisResult
	Timestamp time.Time `json:"timestamp"`
}

// WeaknessCount is one entry of a weakness frequency ranking.
type WeaknessCount struct {
	Weakness string `json:"weakness"`
	Count    int    `json:"count"`
}

// StatsSnapshot is computed on demand over the audit store; it is never
// persisted.
type StatsSnapshot struct {
	TotalAnalyses int             `json:"total_analyses"`
	ByLevel       map[Level]int   `json:"by_level"`
	TopWeaknesses []WeaknessCount `json:"top_weaknesses"`
}
