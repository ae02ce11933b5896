package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	ResultSuccess  = "success"
	ResultFailure  = "failure"
	ResultTooSmall = "too_small"
)

var (
	// ConversionsTotal counts finished pipeline runs by outcome
	// (succeeded, rejected, acquisition_failed, publish_failed, error).
	ConversionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ytmp3_conversions_total",
		Help: "Total conversion requests by outcome",
	}, []string{"outcome"})

	ConversionDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ytmp3_conversion_duration_seconds",
		Help:    "End-to-end conversion time",
		Buckets: []float64{0.5, 1, 2, 5, 10, 20, 30, 60, 120},
	}, []string{"outcome"})

	ProviderAttemptsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ytmp3_provider_attempts_total",
		Help: "Audio provider attempts by provider and result",
	}, []string{"provider", "result"})

	PublishAttemptsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ytmp3_publish_attempts_total",
		Help: "Content store writes by backend, branch and result",
	}, []string{"backend", "branch", "result"})
)

func ObserveConversion(outcome string, duration time.Duration) {
	ConversionsTotal.WithLabelValues(outcome).Inc()
	ConversionDuration.WithLabelValues(outcome).Observe(duration.Seconds())
}

func RecordProviderAttempt(provider, result string) {
	ProviderAttemptsTotal.WithLabelValues(provider, result).Inc()
}

func RecordPublishAttempt(backend, branch, result string) {
	PublishAttemptsTotal.WithLabelValues(backend, branch, result).Inc()
}
