package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jetsales/jetsales/internal/normalize"
)

// Metrics mengumpulkan metrik Prometheus untuk aplikasi.
type Metrics struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	coercionsTotal  *prometheus.CounterVec
	snapshotLoads   prometheus.Counter
	snapshotErrors  prometheus.Counter
}

// NewMetrics menginisialisasi registry dan metrik dasar.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "jetsales_http_requests_total",
		Help: "Jumlah permintaan HTTP berdasarkan route dan status.",
	}, []string{"route", "code"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "jetsales_http_request_duration_seconds",
		Help:    "Durasi permintaan HTTP per route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})
	coercions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "jetsales_coercion_substitutions_total",
		Help: "Jumlah nilai mentah yang diganti default saat normalisasi.",
	}, []string{"class"})
	loads := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "jetsales_snapshot_loads_total",
		Help: "Jumlah snapshot yang berhasil dimuat dari sumber data.",
	})
	failures := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "jetsales_snapshot_failures_total",
		Help: "Jumlah kegagalan memuat snapshot.",
	})
	registry.MustRegister(requests, duration, coercions, loads, failures)
	return &Metrics{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestsTotal:   requests,
		requestDuration: duration,
		coercionsTotal:  coercions,
		snapshotLoads:   loads,
		snapshotErrors:  failures,
	}
}

// Handler mengembalikan http.Handler untuk endpoint /metrics.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// Middleware mencatat metrik untuk setiap permintaan HTTP.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(&recorder, r)
		route := routePattern(r)
		m.requestsTotal.WithLabelValues(route, strconv.Itoa(recorder.status)).Inc()
		m.requestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}

// SnapshotLoaded mencatat satu siklus muat beserta jumlah substitusi koersi.
func (m *Metrics) SnapshotLoaded(coercions normalize.Stats) {
	if m == nil {
		return
	}
	m.snapshotLoads.Inc()
	m.coercionsTotal.WithLabelValues("quantity").Add(float64(coercions.Quantity))
	m.coercionsTotal.WithLabelValues("money").Add(float64(coercions.Money))
	m.coercionsTotal.WithLabelValues("identifier").Add(float64(coercions.Identifier))
}

// SnapshotFailed mencatat kegagalan muat snapshot.
func (m *Metrics) SnapshotFailed() {
	if m == nil {
		return
	}
	m.snapshotErrors.Inc()
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func routePattern(r *http.Request) string {
	if routeCtx := chi.RouteContext(r.Context()); routeCtx != nil {
		if pattern := routeCtx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return "unknown"
}
