package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	domain "github.com/bryanwahyu/passintel/internal/domain/analysis"
)

const defaultPageSize = 20

// Store is the Postgres implementation of the dual store. Semantics match
// the mysql implementation: audit row first, history row second, audit rows
// never deleted.
type Store struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewStore(db *sql.DB, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{db: db, logger: logger}
}

func (s *Store) Write(ctx context.Context, audit *domain.AuditRecord, history *domain.HistoryRecord) error {
	if audit.ID != history.ID {
		return fmt.Errorf("%w: mismatched record ids %s / %s", domain.ErrPersistence, audit.ID, history.ID)
	}

	const insertAudit = `
INSERT INTO password_audit
  (id, session_id, password_raw, client_ip,
   strength_score, strength_level, weaknesses, suggestions, crack_time, explanation,
   created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11);
`
	_, err := s.db.ExecContext(ctx, insertAudit,
		audit.ID, audit.SessionID, audit.PasswordRaw, audit.ClientIP,
		audit.StrengthScore, audit.StrengthLevel,
		encodeJSON(audit.Weaknesses), encodeJSON(audit.Suggestions), encodeJSON(audit.CrackTime),
		audit.Explanation, audit.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("%w: audit insert: %v", domain.ErrPersistence, err)
	}

	const insertHistory = `
INSERT INTO password_history
  (id, session_id, password_masked,
   strength_score, strength_level, weaknesses, suggestions, crack_time, explanation,
   created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10);
`
	_, err = s.db.ExecContext(ctx, insertHistory,
		history.ID, history.SessionID, history.PasswordMasked,
		history.StrengthScore, history.StrengthLevel,
		encodeJSON(history.Weaknesses), encodeJSON(history.Suggestions), encodeJSON(history.CrackTime),
		history.Explanation, history.Timestamp,
	)
	if err != nil {
		s.logger.Warn("audit record left without paired history record",
			zap.String("analysis_id", string(audit.ID)),
			zap.String("session_id", audit.SessionID),
			zap.Error(err))
		return fmt.Errorf("%w: history insert: %v", domain.ErrPersistence, err)
	}
	return nil
}

func (s *Store) History(ctx context.Context, sessionID string, limit int) ([]*domain.HistoryRecord, error) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	const q = `
SELECT id, session_id, password_masked,
       strength_score, strength_level, weaknesses, suggestions, crack_time, explanation,
       created_at
FROM password_history
WHERE session_id=$1
ORDER BY created_at DESC, id DESC
LIMIT $2;
`
	rows, err := s.db.QueryContext(ctx, q, sessionID, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: history query: %v", domain.ErrPersistence, err)
	}
	defer rows.Close()

	var out []*domain.HistoryRecord
	for rows.Next() {
		var (
			rec               domain.HistoryRecord
			weak, sugg, crack string
		)
		if err := rows.Scan(
			&rec.ID, &rec.SessionID, &rec.PasswordMasked,
			&rec.StrengthScore, &rec.StrengthLevel, &weak, &sugg, &crack, &rec.Explanation,
			&rec.Timestamp,
		); err != nil {
			return nil, fmt.Errorf("%w: history scan: %v", domain.ErrPersistence, err)
		}
		rec.Weaknesses = decodeStrings(weak)
		rec.Suggestions = decodeStrings(sugg)
		rec.CrackTime = decodeMap(crack)
		out = append(out, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: history rows: %v", domain.ErrPersistence, err)
	}
	return out, nil
}

func (s *Store) ClearHistory(ctx context.Context, sessionID string) error {
	const q = `DELETE FROM password_history WHERE session_id=$1;`
	if _, err := s.db.ExecContext(ctx, q, sessionID); err != nil {
		return fmt.Errorf("%w: history clear: %v", domain.ErrPersistence, err)
	}
	return nil
}

func (s *Store) AuditPage(ctx context.Context, limit, skip int) ([]*domain.AuditRecord, error) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	if skip < 0 {
		skip = 0
	}
	const q = `
SELECT id, session_id, password_raw, client_ip,
       strength_score, strength_level, weaknesses, suggestions, crack_time, explanation,
       created_at
FROM password_audit
ORDER BY created_at DESC, id DESC
LIMIT $1 OFFSET $2;
`
	rows, err := s.db.QueryContext(ctx, q, limit, skip)
	if err != nil {
		return nil, fmt.Errorf("%w: audit query: %v", domain.ErrPersistence, err)
	}
	defer rows.Close()

	var out []*domain.AuditRecord
	for rows.Next() {
		var (
			rec               domain.AuditRecord
			weak, sugg, crack string
		)
		if err := rows.Scan(
			&rec.ID, &rec.SessionID, &rec.PasswordRaw, &rec.ClientIP,
			&rec.StrengthScore, &rec.StrengthLevel, &weak, &sugg, &crack, &rec.Explanation,
			&rec.Timestamp,
		); err != nil {
			return nil, fmt.Errorf("%w: audit scan: %v", domain.ErrPersistence, err)
		}
		rec.Weaknesses = decodeStrings(weak)
		rec.Suggestions = decodeStrings(sugg)
		rec.CrackTime = decodeMap(crack)
		out = append(out, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: audit rows: %v", domain.ErrPersistence, err)
	}
	return out, nil
}

func encodeJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "null"
	}
	return string(b)
}

func decodeStrings(raw string) []string {
	var v []string
	if err := json.Unmarshal([]byte(raw), &v); err != nil || v == nil {
		return []string{}
	}
	return v
}

func decodeMap(raw string) map[string]string {
	var v map[string]string
	if err := json.Unmarshal([]byte(raw), &v); err != nil || v == nil {
		return map[string]string{}
	}
	return v
}
