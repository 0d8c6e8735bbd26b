package core

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"morphcore/pkg/domain"
)

// PrometheusRecorder exports service metrics in the Prometheus data model.
type PrometheusRecorder struct {
	operations *prometheus.CounterVec
	durations  *prometheus.HistogramVec
	crosses    *prometheus.CounterVec
	cache      *prometheus.CounterVec
}

// NewPrometheusRecorder creates the collectors and registers them with reg.
func NewPrometheusRecorder(reg prometheus.Registerer) (*PrometheusRecorder, error) {
	r := &PrometheusRecorder{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "morphcore",
			Name:      "operations_total",
			Help:      "Service operations by outcome.",
		}, []string{"operation", "status"}),
		durations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "morphcore",
			Name:      "operation_duration_seconds",
			Help:      "Service operation latency.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
		}, []string{"operation"}),
		crosses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "morphcore",
			Name:      "crosses_total",
			Help:      "Crosses computed or served from cache, by species and outcome.",
		}, []string{"species", "status"}),
		cache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "morphcore",
			Name:      "cross_cache_total",
			Help:      "Cross cache lookups by result.",
		}, []string{"result"}),
	}
	for _, c := range []prometheus.Collector{r.operations, r.durations, r.crosses, r.cache} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Observe implements MetricsRecorder.
func (r *PrometheusRecorder) Observe(_ context.Context, operation string, success bool, duration time.Duration) {
	r.operations.WithLabelValues(operation, statusLabel(success)).Inc()
	r.durations.WithLabelValues(operation).Observe(duration.Seconds())
}

// ObserveCross implements CrossObserver.
func (r *PrometheusRecorder) ObserveCross(_ context.Context, species domain.Species, status string) {
	r.crosses.WithLabelValues(string(species), status).Inc()
}

// ObserveCache implements CrossObserver.
func (r *PrometheusRecorder) ObserveCache(_ context.Context, result string) {
	r.cache.WithLabelValues(result).Inc()
}
