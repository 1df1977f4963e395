package rest

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	HttpRequestCounter   *prometheus.CounterVec
	HttpRequestDuration  *prometheus.HistogramVec
	RouteComputeDuration *prometheus.HistogramVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		HttpRequestCounter: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "roadpath",
			Name:      "http_requests_total",
			Help:      "number of http requests by status code, method and route.",
		}, []string{"code", "method", "path"}),
		HttpRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "roadpath",
			Name:      "http_request_duration_seconds",
			Help:      "duration of http requests.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "path"}),
		RouteComputeDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "roadpath",
			Name:      "route_compute_duration_seconds",
			Help:      "duration of shortest path & distance computations.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
		}, []string{"operation"}),
	}
	reg.MustRegister(m.HttpRequestCounter, m.HttpRequestDuration, m.RouteComputeDuration)
	return m
}

func (m *Metrics) observeRoute(operation string, start time.Time) {
	m.RouteComputeDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

// PromeHttpMiddleware. catat jumlah & durasi request per route pattern chi (bukan raw url, supaya label tidak meledak).
func PromeHttpMiddleware(m *Metrics) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			path := "unknown"
			if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
				path = rctx.RoutePattern()
			}
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			m.HttpRequestCounter.WithLabelValues(strconv.Itoa(status), r.Method, path).Inc()
			m.HttpRequestDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
		})
	}
}
