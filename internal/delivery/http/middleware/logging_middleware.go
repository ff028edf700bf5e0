package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/RouteClouds/Health-Care-Management-System/pkg/metrics"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// ObservabilityMiddleware logs every request and records HTTP metrics by route template.
type ObservabilityMiddleware struct {
	log     *logrus.Logger
	metrics *metrics.Collector
}

func NewObservabilityMiddleware(log *logrus.Logger, metrics *metrics.Collector) *ObservabilityMiddleware {
	return &ObservabilityMiddleware{log: log, metrics: metrics}
}

func (m *ObservabilityMiddleware) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		m.metrics.InFlightGauge.Inc()
		defer m.metrics.InFlightGauge.Dec()

		next.ServeHTTP(rec, r)

		duration := time.Since(start)
		path := routeTemplate(r)
		status := http.StatusText(rec.status)
		if status == "" {
			status = "unknown"
		}
		code := strconv.Itoa(rec.status)

		m.metrics.RequestsTotal.WithLabelValues(r.Method, path, code).Inc()
		m.metrics.RequestDuration.WithLabelValues(r.Method, path, code).Observe(duration.Seconds())

		m.log.WithFields(logrus.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   rec.status,
			"duration": duration.String(),
			"ip":       remoteHost(r),
		}).Info(status)
	})
}

// routeTemplate keeps metric label cardinality bounded.
func routeTemplate(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tpl, err := route.GetPathTemplate(); err == nil {
			return tpl
		}
	}
	return "unmatched"
}
