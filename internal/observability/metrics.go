package observability

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/yungbote/facefit-backend/internal/pkg/logger"
)

type Metrics struct {
	apiRequests *CounterVec
	apiLatency  *HistogramVec
	apiInflight *Gauge

	scanOutcomes *CounterVec
	scanDuration *HistogramVec

	sessions      *CounterVec
	substitutions *CounterVec
	plansBuilt    *CounterVec

	entitlementChecks *CounterVec
}

var (
	initOnce sync.Once
	instance *Metrics
)

// Current is the process-wide registry, or nil when metrics are disabled. Every method is nil-safe.
func Current() *Metrics {
	return instance
}

// Init builds the process-wide registry once. Disabled returns nil.
func Init(enabled bool) *Metrics {
	if !enabled {
		return nil
	}
	initOnce.Do(func() {
		instance = New()
	})
	return instance
}

// New returns a standalone registry.
func New() *Metrics {
	return &Metrics{
		apiRequests: NewCounterVec("facefit_api_requests_total", "Total API requests by method/route/status.", []string{"method", "route", "status"}),
		apiLatency: NewHistogramVec(
			"facefit_api_request_duration_seconds",
			"API request latency in seconds by method/route.",
			[]string{"method", "route"},
			[]float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		),
		apiInflight:  NewGauge("facefit_api_inflight_requests", "In-flight API requests."),
		scanOutcomes: NewCounterVec("facefit_scans_total", "Processed scans by status and failure reason.", []string{"status", "reason"}),
		scanDuration: NewHistogramVec(
			"facefit_scan_duration_seconds",
			"Scan pipeline latency in seconds by status.",
			[]string{"status"},
			[]float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		),
		sessions:          NewCounterVec("facefit_sessions_total", "Recorded workout sessions by whether the level rose.", []string{"level_increased"}),
		substitutions:     NewCounterVec("facefit_exercise_substitutions_total", "Exercise swaps at the progression ceiling by category.", []string{"category"}),
		plansBuilt:        NewCounterVec("facefit_plans_built_total", "Workout plans built by trigger.", []string{"trigger"}),
		entitlementChecks: NewCounterVec("facefit_entitlement_checks_total", "Entitlement answers by source and result.", []string{"source", "result"}),
	}
}

func (m *Metrics) StartServer(ctx context.Context, log *logger.Logger, addr string) {
	if m == nil {
		return
	}
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           http.HandlerFunc(m.WriteHTTP),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		_ = srv.Shutdown(shutdownCtx)
		cancel()
	}()
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			if log != nil {
				log.Error("metrics server failed", "error", err, "addr", addr)
			}
		}
	}()
}

func (m *Metrics) WriteHTTP(w http.ResponseWriter, r *http.Request) {
	if m == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	_ = m.WritePrometheus(w)
}

func (m *Metrics) WritePrometheus(w io.Writer) error {
	if m == nil {
		return nil
	}
	writers := []interface{ WritePrometheus(io.Writer) error }{
		m.apiRequests,
		m.apiLatency,
		m.apiInflight,
		m.scanOutcomes,
		m.scanDuration,
		m.sessions,
		m.substitutions,
		m.plansBuilt,
		m.entitlementChecks,
	}
	for _, wr := range writers {
		if err := wr.WritePrometheus(w); err != nil {
			return err
		}
	}
	return nil
}

func (m *Metrics) ObserveAPI(method, route string, status int, dur time.Duration) {
	if m == nil {
		return
	}
	if method == "" {
		method = "UNKNOWN"
	}
	if route == "" {
		route = "unknown"
	}
	m.apiRequests.Inc(method, route, strconv.Itoa(status))
	m.apiLatency.Observe(dur.Seconds(), method, route)
}

func (m *Metrics) ApiInflightInc() {
	if m == nil {
		return
	}
	m.apiInflight.Inc()
}

func (m *Metrics) ApiInflightDec() {
	if m == nil {
		return
	}
	m.apiInflight.Dec()
}

// ObserveScan records one pipeline run. reason is empty for completed scans.
func (m *Metrics) ObserveScan(status, reason string, dur time.Duration) {
	if m == nil {
		return
	}
	if reason == "" {
		reason = "none"
	}
	m.scanOutcomes.Inc(status, reason)
	m.scanDuration.Observe(dur.Seconds(), status)
}

func (m *Metrics) ScanCount(status, reason string) float64 {
	if m == nil {
		return 0
	}
	if reason == "" {
		reason = "none"
	}
	return m.scanOutcomes.Value(status, reason)
}

func (m *Metrics) ObserveSession(levelIncreased bool, substitutedCategories []string) {
	if m == nil {
		return
	}
	m.sessions.Inc(strconv.FormatBool(levelIncreased))
	for _, c := range substitutedCategories {
		m.substitutions.Inc(c)
	}
}

func (m *Metrics) IncPlanBuilt(trigger string) {
	if m == nil {
		return
	}
	m.plansBuilt.Inc(trigger)
}

func (m *Metrics) ObserveEntitlement(source string, active bool) {
	if m == nil {
		return
	}
	result := "denied"
	if active {
		result = "granted"
	}
	m.entitlementChecks.Inc(source, result)
}
