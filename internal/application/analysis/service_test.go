package analysis

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/bryanwahyu/passintel/internal/heuristic"

	domain "github.com/bryanwahyu/passintel/internal/domain/analysis"
)

type fixedClock struct{ at time.Time }

func (c fixedClock) Now() time.Time { return c.at }

type stubAnalyzer struct {
	result *domain.AnalysisResult
	err    error
	calls  int
}

func (a *stubAnalyzer) Analyze(ctx context.Context, password string) (*domain.AnalysisResult, error) {
	a.calls++
	return a.result, a.err
}

type fakeStore struct {
	audits    []*domain.AuditRecord
	histories []*domain.HistoryRecord
	writeErr  error
	cleared   []string
}

func (s *fakeStore) Write(ctx context.Context, audit *domain.AuditRecord, history *domain.HistoryRecord) error {
	if s.writeErr != nil {
		return s.writeErr
	}
	s.audits = append(s.audits, audit)
	s.histories = append(s.histories, history)
	return nil
}

func (s *fakeStore) History(ctx context.Context, sessionID string, limit int) ([]*domain.HistoryRecord, error) {
	var out []*domain.HistoryRecord
	for i := len(s.histories) - 1; i >= 0; i-- { // newest first
		if s.histories[i].SessionID == sessionID {
			out = append(out, s.histories[i])
		}
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (s *fakeStore) ClearHistory(ctx context.Context, sessionID string) error {
	s.cleared = append(s.cleared, sessionID)
	return nil
}

func (s *fakeStore) AuditPage(ctx context.Context, limit, skip int) ([]*domain.AuditRecord, error) {
	var out []*domain.AuditRecord
	for i := len(s.audits) - 1 - skip; i >= 0 && len(out) < limit; i-- {
		out = append(out, s.audits[i])
	}
	return out, nil
}

type fakeExporter struct {
	keys []string
	data [][]byte
}

func (e *fakeExporter) UploadJSON(ctx context.Context, key string, data []byte) (string, error) {
	e.keys = append(e.keys, key)
	e.data = append(e.data, data)
	return "http://minio.local/exports/" + key, nil
}

func newTestService(t *testing.T, ai domain.Analyzer, store *fakeStore) *Service {
	t.Helper()
	return &Service{
		AI:         ai,
		Heuristic:  heuristic.NewScorer(),
		Store:      store,
		Clock:      fixedClock{at: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)},
		AllowClear: true,
	}
}

func TestAnalyze_EmptyPassword(t *testing.T) {
	svc := newTestService(t, nil, &fakeStore{})

	_, err := svc.Analyze(context.Background(), Command{SessionID: "s1"})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
}

func TestAnalyze_DualWriteSharesIdentity(t *testing.T) {
	store := &fakeStore{}
	svc := newTestService(t, nil, store)

	rec, err := svc.Analyze(context.Background(), Command{
		Password:  "password123",
		SessionID: "s1",
		ClientIP:  "10.0.0.1",
	})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	if len(store.audits) != 1 || len(store.histories) != 1 {
		t.Fatalf("dual write produced %d audits / %d histories",
			len(store.audits), len(store.histories))
	}
	audit, history := store.audits[0], store.histories[0]
	if audit.ID != history.ID {
		t.Errorf("record ids diverge: %s vs %s", audit.ID, history.ID)
	}
	if rec.ID != history.ID {
		t.Errorf("response id %s differs from stored id %s", rec.ID, history.ID)
	}
	if audit.PasswordRaw != "password123" {
		t.Errorf("audit raw = %q", audit.PasswordRaw)
	}
	if history.PasswordMasked != "p*********3" {
		t.Errorf("history masked = %q", history.PasswordMasked)
	}
	if audit.ClientIP != "10.0.0.1" {
		t.Errorf("audit client ip = %q", audit.ClientIP)
	}
	if !audit.Timestamp.Equal(history.Timestamp) {
		t.Error("timestamps diverge between the two records")
	}
}

func TestAnalyze_FallsBackOnAIFailure(t *testing.T) {
	ai := &stubAnalyzer{err: domain.ErrExternalService}
	store := &fakeStore{}
	svc := newTestService(t, ai, store)

	rec, err := svc.Analyze(context.Background(), Command{
		Password:  "password123",
		SessionID: "s1",
	})
	if err != nil {
		t.Fatalf("AI failure must not surface, got %v", err)
	}
	if ai.calls != 1 {
		t.Errorf("analyzer called %d times", ai.calls)
	}
	if rec.StrengthLevel != "weak" {
		t.Errorf("fallback level = %s", rec.StrengthLevel)
	}
	for _, method := range []string{"online", "offline_slow", "offline_fast"} {
		if rec.CrackTime[method] == "" {
			t.Errorf("fallback result missing crack_time key %q", method)
		}
	}
	if !strings.Contains(rec.Explanation, "heuristic") {
		t.Errorf("fallback explanation not tagged: %q", rec.Explanation)
	}
}

func TestAnalyze_AIResultUsedWhenAvailable(t *testing.T) {
	ai := &stubAnalyzer{result: &domain.AnalysisResult{
		StrengthScore: 81,
		StrengthLevel: "strong",
		Weaknesses:    []string{},
		Suggestions:   []string{},
		CrackTime: map[string]string{
			"online": "centuries", "offline_slow": "centuries", "offline_fast": "4 years",
		},
		Explanation: "Long and varied.",
	}}
	svc := newTestService(t, ai, &fakeStore{})

	rec, err := svc.Analyze(context.Background(), Command{Password: "Tr0ub4dor&3xQz!9", SessionID: "s1"})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if rec.StrengthScore != 81 {
		t.Errorf("score = %d, want AI's 81", rec.StrengthScore)
	}
	if strings.Contains(rec.Explanation, "heuristic") {
		t.Errorf("AI-derived result wrongly tagged: %q", rec.Explanation)
	}
}

func TestAnalyze_PersistenceErrorSurfaces(t *testing.T) {
	store := &fakeStore{writeErr: domain.ErrPersistence}
	svc := newTestService(t, nil, store)

	_, err := svc.Analyze(context.Background(), Command{Password: "x1y2z3!A", SessionID: "s1"})
	if !errors.Is(err, domain.ErrPersistence) {
		t.Fatalf("err = %v, want ErrPersistence", err)
	}
}

func TestHistory_NewestFirstAndMaskedOnly(t *testing.T) {
	store := &fakeStore{}
	svc := newTestService(t, nil, store)

	ctx := context.Background()
	if _, err := svc.Analyze(ctx, Command{Password: "first-pass1", SessionID: "s1"}); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Analyze(ctx, Command{Password: "second-pass2", SessionID: "s1"}); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Analyze(ctx, Command{Password: "other", SessionID: "s2"}); err != nil {
		t.Fatal(err)
	}

	list, err := svc.History(ctx, "s1", 10)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("history length = %d, want 2", len(list))
	}
	if list[0].PasswordMasked != "s**********2" {
		t.Errorf("newest first violated: got %q at index 0", list[0].PasswordMasked)
	}
	for _, rec := range list {
		if strings.Contains(rec.PasswordMasked, "first-pass1") ||
			strings.Contains(rec.PasswordMasked, "second-pass2") {
			t.Errorf("raw password leaked into history: %q", rec.PasswordMasked)
		}
	}
}

func TestClearHistory_RespectsAllowClear(t *testing.T) {
	store := &fakeStore{}
	svc := newTestService(t, nil, store)
	svc.AllowClear = false

	if err := svc.ClearHistory(context.Background(), "s1"); err != nil {
		t.Fatalf("ClearHistory: %v", err)
	}
	if len(store.cleared) != 0 {
		t.Error("clear reached the store despite being disabled")
	}

	svc.AllowClear = true
	if err := svc.ClearHistory(context.Background(), "s1"); err != nil {
		t.Fatalf("ClearHistory: %v", err)
	}
	if len(store.cleared) != 1 || store.cleared[0] != "s1" {
		t.Errorf("cleared sessions = %v", store.cleared)
	}
}

func TestExportAudit(t *testing.T) {
	store := &fakeStore{}
	exp := &fakeExporter{}
	svc := newTestService(t, nil, store)
	svc.Exporter = exp

	ctx := context.Background()
	if _, err := svc.Analyze(ctx, Command{Password: "export-me1!", SessionID: "s1"}); err != nil {
		t.Fatal(err)
	}

	url, err := svc.ExportAudit(ctx)
	if err != nil {
		t.Fatalf("ExportAudit: %v", err)
	}
	if url == "" || len(exp.keys) != 1 {
		t.Fatalf("export not uploaded: url=%q keys=%v", url, exp.keys)
	}
	if !strings.HasPrefix(exp.keys[0], "exports/password-audit-") {
		t.Errorf("export key = %q", exp.keys[0])
	}
	if !strings.Contains(string(exp.data[0]), "export-me1!") {
		t.Error("export payload missing audit record")
	}
}

func TestExportAudit_Unconfigured(t *testing.T) {
	svc := newTestService(t, nil, &fakeStore{})
	if _, err := svc.ExportAudit(context.Background()); err == nil {
		t.Fatal("expected error when exporter is not configured")
	}
}
