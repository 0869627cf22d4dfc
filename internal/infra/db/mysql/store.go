package mysql

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	domain "github.com/bryanwahyu/passintel/internal/domain/analysis"
)

const defaultPageSize = 20

// Store persists analyses into the password_audit and password_history
// tables. The two rows of one analysis share the same id.
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

// Write inserts the audit row first and the history row second. There is no
// cross-table transaction: a failed history insert leaves the audit row in
// place (recoverable orphan, logged for operator attention) and fails the
// operation. The reverse orphan cannot occur with this ordering.
func (s *Store) Write(ctx context.Context, audit *domain.AuditRecord, history *domain.HistoryRecord) error {
	if audit.ID != history.ID {
		return fmt.Errorf("%w: mismatched record ids %s / %s", domain.ErrPersistence, audit.ID, history.ID)
	}

	const insertAudit = `
INSERT INTO password_audit
  (id, session_id, password_raw, client_ip,
   strength_score, strength_level, weaknesses, suggestions, crack_time, explanation,
   created_at)
VALUES (?,?,?,?,?,?,?,?,?,?,?);
`
	_, err := s.db.ExecContext(ctx, insertAudit,
		audit.ID, audit.SessionID, audit.PasswordRaw, audit.ClientIP,
		audit.StrengthScore, audit.StrengthLevel,
		encodeStrings(audit.Weaknesses), encodeStrings(audit.Suggestions), encodeMap(audit.CrackTime),
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
VALUES (?,?,?,?,?,?,?,?,?,?);
`
	_, err = s.db.ExecContext(ctx, insertHistory,
		history.ID, history.SessionID, history.PasswordMasked,
		history.StrengthScore, history.StrengthLevel,
		encodeStrings(history.Weaknesses), encodeStrings(history.Suggestions), encodeMap(history.CrackTime),
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

// History returns a session's records, newest first.
func (s *Store) History(ctx context.Context, sessionID string, limit int) ([]*domain.HistoryRecord, error) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	const q = `
SELECT id, session_id, password_masked,
       strength_score, strength_level, weaknesses, suggestions, crack_time, explanation,
       created_at
FROM password_history
WHERE session_id=?
ORDER BY created_at DESC, id DESC
LIMIT ?;
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

// ClearHistory deletes a session's history rows. Audit rows are retained
// permanently; no code path deletes them.
func (s *Store) ClearHistory(ctx context.Context, sessionID string) error {
	const q = `DELETE FROM password_history WHERE session_id=?;`
	if _, err := s.db.ExecContext(ctx, q, sessionID); err != nil {
		return fmt.Errorf("%w: history clear: %v", domain.ErrPersistence, err)
	}
	return nil
}

// AuditPage returns audit rows, newest first, with limit/skip pagination.
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
LIMIT ? OFFSET ?;
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
