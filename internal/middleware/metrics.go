package middleware

import (
	"net/http"
	"runtime"
	"sync/atomic"
	"time"
)

// Metrics stores application metrics
type Metrics struct {
	RequestsTotal      atomic.Uint64
	RequestsInProgress atomic.Int64
	RequestsSuccess    atomic.Uint64
	RequestsFailed     atomic.Uint64

	VerificationsTotal    atomic.Uint64
	VerificationsOriginal atomic.Uint64
	VerificationsFake     atomic.Uint64
	VerificationsFallback atomic.Uint64
	ModelErrors           atomic.Uint64

	StartTime time.Time
}

func NewMetrics() *Metrics {
	return &Metrics{StartTime: time.Now()}
}

// ObserveVerdict counts one finished verification.
func (m *Metrics) ObserveVerdict(original, fallback bool) {
	m.VerificationsTotal.Add(1)
	if original {
		m.VerificationsOriginal.Add(1)
	} else {
		m.VerificationsFake.Add(1)
	}
	if fallback {
		m.VerificationsFallback.Add(1)
	}
}

// ObserveModelError counts a verification that never got a model reply.
func (m *Metrics) ObserveModelError() {
	m.VerificationsTotal.Add(1)
	m.ModelErrors.Add(1)
}

func (m *Metrics) Snapshot() map[string]any {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	return map[string]any{
		"requests_total":         m.RequestsTotal.Load(),
		"requests_in_progress":   m.RequestsInProgress.Load(),
		"requests_success":       m.RequestsSuccess.Load(),
		"requests_failed":        m.RequestsFailed.Load(),
		"verifications_total":    m.VerificationsTotal.Load(),
		"verifications_original": m.VerificationsOriginal.Load(),
		"verifications_fake":     m.VerificationsFake.Load(),
		"verifications_fallback": m.VerificationsFallback.Load(),
		"model_errors":           m.ModelErrors.Load(),
		"uptime_seconds":         time.Since(m.StartTime).Seconds(),
		"memory": map[string]any{
			"alloc_bytes":       mem.Alloc,
			"total_alloc_bytes": mem.TotalAlloc,
			"sys_bytes":         mem.Sys,
			"num_gc":            mem.NumGC,
		},
		"goroutines": runtime.NumGoroutine(),
	}
}

// Middleware tracks request counters.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m.RequestsTotal.Add(1)
		m.RequestsInProgress.Add(1)
		defer m.RequestsInProgress.Add(-1)

		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapped, r)

		if wrapped.statusCode >= 200 && wrapped.statusCode < 400 {
			m.RequestsSuccess.Add(1)
		} else {
			m.RequestsFailed.Add(1)
		}
	})
}

// Handler returns metrics as JSON
func (m *Metrics) Handler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, m.Snapshot())
}
