package stats

import (
	"context"
	"sort"

	domain "github.com/bryanwahyu/passintel/internal/domain/analysis"
)

const (
	defaultPageSize = 200
	defaultTopN     = 10
)

// Aggregator computes distribution and frequency statistics over the audit
// store. Snapshots are computed on demand and never persisted.
type Aggregator struct {
	Audit domain.AuditReader

	// PageSize and TopN fall back to defaults when zero.
	PageSize int
	TopN     int
}

// Compute scans every audit record and returns totals, per-level counts and
// the most frequent weakness strings. An empty store yields zero counts and
// an empty top list. Frequency ties keep first-seen order, where "first seen"
// follows the store's newest-first read order.
func (a *Aggregator) Compute(ctx context.Context) (*domain.StatsSnapshot, error) {
	pageSize := a.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	topN := a.TopN
	if topN <= 0 {
		topN = defaultTopN
	}

	snap := &domain.StatsSnapshot{
		ByLevel: map[domain.Level]int{
			domain.LevelWeak:     0,
			domain.LevelModerate: 0,
			domain.LevelStrong:   0,
		},
		TopWeaknesses: []domain.WeaknessCount{},
	}

	freq := make(map[string]int)
	var seen []string

	skip := 0
	for {
		page, err := a.Audit.AuditPage(ctx, pageSize, skip)
		if err != nil {
			return nil, err
		}
		for _, rec := range page {
			snap.TotalAnalyses++
			snap.ByLevel[rec.StrengthLevel]++
			for _, w := range rec.Weaknesses {
				if freq[w] == 0 {
					seen = append(seen, w)
				}
				freq[w]++
			}
		}
		if len(page) < pageSize {
			break
		}
		skip += len(page)
	}

	// Stable sort over first-seen order: equal counts keep their order.
	sort.SliceStable(seen, func(i, j int) bool {
		return freq[seen[i]] > freq[seen[j]]
	})
	if len(seen) > topN {
		seen = seen[:topN]
	}
	for _, w := range seen {
		snap.TopWeaknesses = append(snap.TopWeaknesses, domain.WeaknessCount{
			Weakness: w,
			Count:    freq[w],
		})
	}
	return snap, nil
}
