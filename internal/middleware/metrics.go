package middleware

import (
	"encoding/json"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"
)

// Metrics stores application counters.
type Metrics struct {
	RequestsTotal      uint64
	RequestsInProgress uint64
	RequestsSuccess    uint64
	RequestsFailed     uint64
	AnalysesTotal      uint64
	AuditExportsTotal  uint64
	StartTime          time.Time
}

var globalMetrics = &Metrics{
	StartTime: time.Now(),
}

// IncrementAnalyses counts one completed password analysis.
func IncrementAnalyses() {
	atomic.AddUint64(&globalMetrics.AnalysesTotal, 1)
}

// IncrementAuditExports counts one completed audit export.
func IncrementAuditExports() {
	atomic.AddUint64(&globalMetrics.AuditExportsTotal, 1)
}

// GetMetrics returns current counters plus runtime stats.
func GetMetrics() map[string]interface{} {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	return map[string]interface{}{
		"requests_total":       atomic.LoadUint64(&globalMetrics.RequestsTotal),
		"requests_in_progress": atomic.LoadUint64(&globalMetrics.RequestsInProgress),
		"requests_success":     atomic.LoadUint64(&globalMetrics.RequestsSuccess),
		"requests_failed":      atomic.LoadUint64(&globalMetrics.RequestsFailed),
		"analyses_total":       atomic.LoadUint64(&globalMetrics.AnalysesTotal),
		"audit_exports_total":  atomic.LoadUint64(&globalMetrics.AuditExportsTotal),
		"uptime_seconds":       time.Since(globalMetrics.StartTime).Seconds(),
		"memory": map[string]interface{}{
			"alloc_bytes":       m.Alloc,
			"total_alloc_bytes": m.TotalAlloc,
			"sys_bytes":         m.Sys,
			"num_gc":            m.NumGC,
		},
		"goroutines": runtime.NumGoroutine(),
	}
}

// MetricsMiddleware tracks request counters.
func MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddUint64(&globalMetrics.RequestsTotal, 1)
		atomic.AddUint64(&globalMetrics.RequestsInProgress, 1)
		defer atomic.AddUint64(&globalMetrics.RequestsInProgress, ^uint64(0))

		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapped, r)

		if wrapped.statusCode >= 200 && wrapped.statusCode < 400 {
			atomic.AddUint64(&globalMetrics.RequestsSuccess, 1)
		} else {
			atomic.AddUint64(&globalMetrics.RequestsFailed, 1)
		}
	})
}

// MetricsHandler returns counters as JSON.
func MetricsHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(GetMetrics())
}
