package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bryanwahyu/passintel/internal/application"
	domain "github.com/bryanwahyu/passintel/internal/domain/analysis"
)

// Appended to the explanation when the heuristic path stood in for a failed
// AI call, so operators can tell data provenance apart. Advisory only; the
// response schema is identical on both paths.
const heuristicTag = " (derived from local heuristic analysis)"

// How many audit records one export page fetches.
const exportPageSize = 500

// Service implements the analysis use-cases: run an assessment with AI and
// heuristic fallback, dual-write it, and serve history/audit reads.
// Service is safe for concurrent use; all mutable state lives in the store.
type Service struct {
	AI        domain.Analyzer // optional; nil runs heuristic-only
	Heuristic domain.Scorer
	Store     domain.Store
	Exporter  domain.Exporter // optional; nil disables audit export
	Clock     application.Clock
	Logger    *zap.Logger

	// AllowClear gates server-side history deletion. Audit records are
	// never deleted regardless of this setting.
	AllowClear bool
}

// Command carries one analysis request.
type Command struct {
	Password  string
	SessionID string
	ClientIP  string
}

// Analyze validates the request, obtains an assessment (AI first, heuristic
// on failure), masks the password and writes both records. An AI failure is
// never visible to the caller; once input validation passes the only error
// source left is persistence.
func (s *Service) Analyze(ctx context.Context, cmd Command) (*domain.HistoryRecord, error) {
	if cmd.Password == "" {
		return nil, fmt.Errorf("%w: password is required", domain.ErrInvalidInput)
	}
	logger := s.logger()

	var result *domain.AnalysisResult
	if s.AI != nil {
		res, err := s.AI.Analyze(ctx, cmd.Password)
		if err != nil {
			logger.Warn("ai analysis failed, falling back to heuristic scorer",
				zap.String("session_id", cmd.SessionID),
				zap.Error(err))
		} else {
			result = res
		}
	}
	if result == nil {
		result = s.Heuristic.Score(cmd.Password)
		if s.AI != nil {
			result.Explanation += heuristicTag
		}
	}

	now := s.Clock.Now().UTC()
	id := domain.RecordID(uuid.New().String())

	audit := &domain.AuditRecord{
		ID:             id,
		SessionID:      cmd.SessionID,
		PasswordRaw:    cmd.Password,
		ClientIP:       cmd.ClientIP,
		AnalysisResult: *result,
		Timestamp:      now,
	}
	history := &domain.HistoryRecord{
		ID:             id,
		SessionID:      cmd.SessionID,
		PasswordMasked: domain.Mask(cmd.Password),
		AnalysisResult: *result,
		Timestamp:      now,
	}

	if err := s.Store.Write(ctx, audit, history); err != nil {
		return nil, err
	}
	return history, nil
}

// History returns a session's masked records, newest first.
func (s *Service) History(ctx context.Context, sessionID string, limit int) ([]*domain.HistoryRecord, error) {
	return s.Store.History(ctx, sessionID, limit)
}

// ClearHistory deletes a session's history records when clearing is enabled.
// It is a no-op otherwise; either way audit records stay untouched.
func (s *Service) ClearHistory(ctx context.Context, sessionID string) error {
	if !s.AllowClear {
		s.logger().Info("history clear requested but disabled by configuration",
			zap.String("session_id", sessionID))
		return nil
	}
	return s.Store.ClearHistory(ctx, sessionID)
}

// AuditPage returns raw audit records, newest first, paginated.
func (s *Service) AuditPage(ctx context.Context, limit, skip int) ([]*domain.AuditRecord, error) {
	return s.Store.AuditPage(ctx, limit, skip)
}

type auditExport struct {
	ExportedAt string                `json:"exported_at"`
	Total      int                   `json:"total"`
	Records    []*domain.AuditRecord `json:"records"`
}

// ExportAudit serializes the complete audit log and uploads it to object
// storage, returning the object URL.
func (s *Service) ExportAudit(ctx context.Context) (string, error) {
	if s.Exporter == nil {
		return "", errors.New("audit export is not configured")
	}

	records := make([]*domain.AuditRecord, 0, exportPageSize)
	skip := 0
	for {
		page, err := s.Store.AuditPage(ctx, exportPageSize, skip)
		if err != nil {
			return "", err
		}
		records = append(records, page...)
		if len(page) < exportPageSize {
			break
		}
		skip += len(page)
	}

	now := s.Clock.Now().UTC()
	payload, err := json.Marshal(auditExport{
		ExportedAt: now.Format("2006-01-02T15:04:05Z"),
		Total:      len(records),
		Records:    records,
	})
	if err != nil {
		return "", fmt.Errorf("marshaling audit export: %w", err)
	}

	key := fmt.Sprintf("exports/password-audit-%s.json", now.Format("20060102T150405Z"))
	url, err := s.Exporter.UploadJSON(ctx, key, payload)
	if err != nil {
		return "", err
	}
	s.logger().Info("audit export uploaded",
		zap.String("key", key),
		zap.Int("records", len(records)))
	return url, nil
}

func (s *Service) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}
