package stats

import (
	"context"
	"testing"

	domain "github.com/bryanwahyu/passintel/internal/domain/analysis"
)

type pagedAudit struct {
	records []*domain.AuditRecord
	calls   int
}

func (p *pagedAudit) AuditPage(ctx context.Context, limit, skip int) ([]*domain.AuditRecord, error) {
	p.calls++
	if skip >= len(p.records) {
		return nil, nil
	}
	end := skip + limit
	if end > len(p.records) {
		end = len(p.records)
	}
	return p.records[skip:end], nil
}

func rec(level domain.Level, weaknesses ...string) *domain.AuditRecord {
	return &domain.AuditRecord{
		AnalysisResult: domain.AnalysisResult{
			StrengthLevel: level,
			Weaknesses:    weaknesses,
		},
	}
}

func TestCompute_EmptyStore(t *testing.T) {
	agg := &Aggregator{Audit: &pagedAudit{}}

	snap, err := agg.Compute(context.Background())
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if snap.TotalAnalyses != 0 {
		t.Errorf("total = %d, want 0", snap.TotalAnalyses)
	}
	for _, lvl := range []domain.Level{domain.LevelWeak, domain.LevelModerate, domain.LevelStrong} {
		if n, ok := snap.ByLevel[lvl]; !ok || n != 0 {
			t.Errorf("ByLevel[%s] = %d (present=%v), want explicit 0", lvl, n, ok)
		}
	}
	if snap.TopWeaknesses == nil || len(snap.TopWeaknesses) != 0 {
		t.Errorf("TopWeaknesses = %#v, want empty non-nil slice", snap.TopWeaknesses)
	}
}

func TestCompute_CountsAndFrequency(t *testing.T) {
	audit := &pagedAudit{records: []*domain.AuditRecord{
		rec(domain.LevelWeak, "too short", "no digits"),
		rec(domain.LevelWeak, "too short", "common password"),
		rec(domain.LevelModerate, "too short"),
		rec(domain.LevelStrong),
	}}
	agg := &Aggregator{Audit: audit}

	snap, err := agg.Compute(context.Background())
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if snap.TotalAnalyses != 4 {
		t.Errorf("total = %d, want 4", snap.TotalAnalyses)
	}
	if snap.ByLevel[domain.LevelWeak] != 2 ||
		snap.ByLevel[domain.LevelModerate] != 1 ||
		snap.ByLevel[domain.LevelStrong] != 1 {
		t.Errorf("ByLevel = %v", snap.ByLevel)
	}

	want := []domain.WeaknessCount{
		{Weakness: "too short", Count: 3},
		{Weakness: "no digits", Count: 1},
		{Weakness: "common password", Count: 1},
	}
	if len(snap.TopWeaknesses) != len(want) {
		t.Fatalf("TopWeaknesses = %v", snap.TopWeaknesses)
	}
	for i, w := range want {
		if snap.TopWeaknesses[i] != w {
			t.Errorf("TopWeaknesses[%d] = %v, want %v (ties keep first-seen order)",
				i, snap.TopWeaknesses[i], w)
		}
	}
}

func TestCompute_TruncatesToTopN(t *testing.T) {
	audit := &pagedAudit{records: []*domain.AuditRecord{
		rec(domain.LevelWeak, "a", "b", "c", "d"),
		rec(domain.LevelWeak, "a", "b"),
	}}
	agg := &Aggregator{Audit: audit, TopN: 2}

	snap, err := agg.Compute(context.Background())
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if len(snap.TopWeaknesses) != 2 {
		t.Fatalf("len(TopWeaknesses) = %d, want 2", len(snap.TopWeaknesses))
	}
	if snap.TopWeaknesses[0].Weakness != "a" || snap.TopWeaknesses[1].Weakness != "b" {
		t.Errorf("TopWeaknesses = %v", snap.TopWeaknesses)
	}
}

func TestCompute_PagesThroughStore(t *testing.T) {
	var records []*domain.AuditRecord
	for i := 0; i < 5; i++ {
		records = append(records, rec(domain.LevelModerate, "no symbol characters"))
	}
	audit := &pagedAudit{records: records}
	agg := &Aggregator{Audit: audit, PageSize: 2}

	snap, err := agg.Compute(context.Background())
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if snap.TotalAnalyses != 5 {
		t.Errorf("total = %d, want 5", snap.TotalAnalyses)
	}
	if audit.calls != 3 {
		t.Errorf("AuditPage called %d times, want 3", audit.calls)
	}
	if snap.TopWeaknesses[0].Count != 5 {
		t.Errorf("count = %d, want 5", snap.TopWeaknesses[0].Count)
	}
}
