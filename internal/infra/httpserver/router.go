package httpserver

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	appanalysis "github.com/bryanwahyu/passintel/internal/application/analysis"
	domain "github.com/bryanwahyu/passintel/internal/domain/analysis"
	"github.com/bryanwahyu/passintel/internal/middleware"
)

// AnalysisService is the slice of the application service the router needs.
type AnalysisService interface {
	Analyze(ctx context.Context, cmd appanalysis.Command) (*domain.HistoryRecord, error)
	History(ctx context.Context, sessionID string, limit int) ([]*domain.HistoryRecord, error)
	ClearHistory(ctx context.Context, sessionID string) error
	AuditPage(ctx context.Context, limit, skip int) ([]*domain.AuditRecord, error)
	ExportAudit(ctx context.Context) (string, error)
}

// StatsService computes the admin statistics snapshot.
type StatsService interface {
	Compute(ctx context.Context) (*domain.StatsSnapshot, error)
}

// Options configures the router.
type Options struct {
	Logger        *zap.Logger
	AdminUsername string
	AdminPassword string

	// Health checkers by name; typically the record store.
	Checkers map[string]middleware.HealthChecker

	// Token bucket for the analyze endpoint. Zero values disable limiting.
	RateCapacity int
	RateRefill   int
}

type Router struct {
	svc    AnalysisService
	stats  StatsService
	logger *zap.Logger
}

// NewRouter mounts the public analysis API and the admin surface.
func NewRouter(svc AnalysisService, stats StatsService, opts Options) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Router{svc: svc, stats: stats, logger: logger}

	mux := chi.NewRouter()
	mux.Use(middleware.RequestLogger(logger))
	mux.Use(middleware.MetricsMiddleware)
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
	}))

	mux.Route("/api", func(rt chi.Router) {
		rt.Get("/health", middleware.HealthHandler(opts.Checkers))

		analyze := rt.With()
		if opts.RateCapacity > 0 && opts.RateRefill > 0 {
			analyze = rt.With(middleware.RateLimitMiddleware(opts.RateCapacity, opts.RateRefill))
		}
		analyze.Post("/analyze-password", r.wrap(r.handleAnalyze))

		rt.Get("/analysis-history/{session_id}", r.wrap(r.handleHistory))
		rt.Delete("/analysis-history/{session_id}", r.wrap(r.handleClearHistory))

		rt.Route("/admin", func(ad chi.Router) {
			ad.Use(middleware.AdminBasicAuth(opts.AdminUsername, opts.AdminPassword))
			ad.Get("/password-logs", r.wrap(r.handleAuditLogs))
			ad.Get("/password-stats", r.wrap(r.handleStats))
			ad.Post("/export-audit", r.wrap(r.handleExportAudit))
			ad.Get("/metrics", middleware.MetricsHandler)
		})
	})

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

// wrap maps domain errors onto HTTP statuses in one place. Persistence and
// unexpected errors never leak internals to the caller.
func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		err := h(w, req)
		if err == nil {
			return
		}
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, domain.ErrUnauthorized):
			w.Header().Set("WWW-Authenticate", `Basic realm="admin"`)
			http.Error(w, "unauthorized", http.StatusUnauthorized)
		case errors.Is(err, sql.ErrNoRows):
			http.Error(w, "not found", http.StatusNotFound)
		case errors.Is(err, domain.ErrPersistence):
			r.logger.Error("persistence failure", zap.Error(err))
			http.Error(w, "storage error", http.StatusInternalServerError)
		default:
			r.logger.Error("request failed", zap.Error(err))
			http.Error(w, "internal error", http.StatusInternalServerError)
		}
	}
}

// POST /api/analyze-password
// Body: {"password": "...", "session_id": "..."}
func (r *Router) handleAnalyze(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		Password  string `json:"password"`
		SessionID string `json:"session_id"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	if err := middleware.ValidateSessionID(body.SessionID); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	if err := middleware.ValidatePasswordLength(body.Password); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	rec, err := r.svc.Analyze(req.Context(), appanalysis.Command{
		Password:  body.Password,
		SessionID: body.SessionID,
		ClientIP:  middleware.ClientIP(req),
	})
	if err != nil {
		return err
	}
	middleware.IncrementAnalyses()

	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(rec)
}

// GET /api/analysis-history/{session_id}?limit=20
func (r *Router) handleHistory(w http.ResponseWriter, req *http.Request) error {
	sessionID := chi.URLParam(req, "session_id")
	if err := middleware.ValidateSessionID(sessionID); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	limit, _ := strconv.Atoi(req.URL.Query().Get("limit"))
	limit = middleware.ValidateLimit(limit)

	list, err := r.svc.History(req.Context(), sessionID, limit)
	if err != nil {
		return err
	}
	if list == nil {
		list = []*domain.HistoryRecord{}
	}

	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(map[string]any{"analyses": list})
}

// DELETE /api/analysis-history/{session_id}
func (r *Router) handleClearHistory(w http.ResponseWriter, req *http.Request) error {
	sessionID := chi.URLParam(req, "session_id")
	if err := middleware.ValidateSessionID(sessionID); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	if err := r.svc.ClearHistory(req.Context(), sessionID); err != nil {
		return err
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

// GET /api/admin/password-logs?limit=20&skip=0
func (r *Router) handleAuditLogs(w http.ResponseWriter, req *http.Request) error {
	limit, _ := strconv.Atoi(req.URL.Query().Get("limit"))
	skip, _ := strconv.Atoi(req.URL.Query().Get("skip"))
	limit = middleware.ValidateLimit(limit)
	skip = middleware.ValidateSkip(skip)

	list, err := r.svc.AuditPage(req.Context(), limit, skip)
	if err != nil {
		return err
	}
	if list == nil {
		list = []*domain.AuditRecord{}
	}

	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(map[string]any{
		"logs":  list,
		"limit": limit,
		"skip":  skip,
	})
}

// GET /api/admin/password-stats
func (r *Router) handleStats(w http.ResponseWriter, req *http.Request) error {
	snap, err := r.stats.Compute(req.Context())
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(snap)
}

// POST /api/admin/export-audit
func (r *Router) handleExportAudit(w http.ResponseWriter, req *http.Request) error {
	url, err := r.svc.ExportAudit(req.Context())
	if err != nil {
		return err
	}
	middleware.IncrementAuditExports()

	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(map[string]string{"url": url})
}
