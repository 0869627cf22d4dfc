package analysis

import "context"

// Analyzer port: the external natural-language analysis capability. It either
// returns a normalized result or fails with ErrExternalService.
type Analyzer interface {
	Analyze(ctx context.Context, password string) (*AnalysisResult, error)
}

// Scorer port: local analysis that always succeeds without I/O.
type Scorer interface {
	Score(password string) *AnalysisResult
}

// AuditReader reads audit records newest first with limit/skip pagination.
type AuditReader interface {
	AuditPage(ctx context.Context, limit, skip int) ([]*AuditRecord, error)
}

// Store port for the dual persistence of analyses.
//
// Write must persist the audit record before the history record. A history
// write failure after a successful audit write is fatal for the operation but
// leaves the audit record in place: an audit record without a paired history
// record is a recoverable orphan, the reverse would break the audit trail and
// is never allowed to happen.
type Store interface {
	Write(ctx context.Context, audit *AuditRecord, history *HistoryRecord) error
	History(ctx context.Context, sessionID string, limit int) ([]*HistoryRecord, error)
	ClearHistory(ctx context.Context, sessionID string) error
	AuditReader
}

// Exporter uploads a serialized audit snapshot to object storage and returns
// the object URL.
type Exporter interface {
	UploadJSON(ctx context.Context, key string, data []byte) (string, error)
}
