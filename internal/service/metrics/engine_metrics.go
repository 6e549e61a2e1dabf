package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	EngineLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "fluxfeed",
			Subsystem: "engine",
			Name:      "latency_seconds",
			Help:      "Latency of engine endpoints",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	EngineErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fluxfeed",
			Subsystem: "engine",
			Name:      "errors_total",
			Help:      "Errors by engine endpoint",
		},
		[]string{"endpoint"},
	)

	ProviderCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fluxfeed",
			Subsystem: "provider",
			Name:      "calls_total",
			Help:      "Upstream provider calls by provider and outcome",
		},
		[]string{"provider", "outcome"},
	)

	SentimentFallbacks = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "fluxfeed",
			Subsystem: "engine",
			Name:      "sentiment_fallbacks_total",
			Help:      "Signals resolved through the headline fallback path",
		},
	)
)

func Register() {
	once.Do(func() {
		prometheus.MustRegister(EngineLatency, EngineErrors, ProviderCalls, SentimentFallbacks)
	})
}
