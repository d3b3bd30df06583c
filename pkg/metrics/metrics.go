package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "keyword_research"

// Metrics wraps the engine's Prometheus collectors. A nil *Metrics is a no-op.
type Metrics struct {
	providerCalls   *prometheus.CounterVec
	providerLatency *prometheus.HistogramVec
	rateLimitWait   *prometheus.HistogramVec
	documents       *prometheus.CounterVec
	requestLatency  prometheus.Histogram
}

// Option allows customizing the metrics registry.
type Option func(*config)

type config struct {
	registerer prometheus.Registerer
	buckets    []float64
}

// WithRegisterer overrides the default Prometheus registerer.
func WithRegisterer(r prometheus.Registerer) Option {
	return func(cfg *config) {
		cfg.registerer = r
	}
}

// WithLatencyBuckets overrides the default latency histogram buckets (in ms).
func WithLatencyBuckets(buckets []float64) Option {
	return func(cfg *config) {
		cfg.buckets = buckets
	}
}

// New constructs Metrics and registers its collectors.
func New(opts ...Option) *Metrics {
	cfg := config{
		registerer: prometheus.DefaultRegisterer,
		buckets:    []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000, 30000},
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	m := &Metrics{
		providerCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "provider_calls_total",
			Help:      "Provider adapter fetches by provider and outcome (hit, ok, error).",
		}, []string{"provider", "outcome"}),
		providerLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "provider_latency_ms",
			Help:      "Provider adapter fetch latency in milliseconds, including rate limit waits.",
			Buckets:   cfg.buckets,
		}, []string{"provider"}),
		rateLimitWait: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "rate_limit_wait_ms",
			Help:      "Time spent waiting for a rate limit slot in milliseconds.",
			Buckets:   cfg.buckets,
		}, []string{"family"}),
		documents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "documents_total",
			Help:      "Research documents produced by profile and outcome.",
		}, []string{"profile", "outcome"}),
		requestLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "document_latency_ms",
			Help:      "Total time to build one research document in milliseconds.",
			Buckets:   cfg.buckets,
		}),
	}

	m.providerCalls = register(cfg.registerer, m.providerCalls)
	m.providerLatency = register(cfg.registerer, m.providerLatency)
	m.rateLimitWait = register(cfg.registerer, m.rateLimitWait)
	m.documents = register(cfg.registerer, m.documents)
	m.requestLatency = register(cfg.registerer, m.requestLatency)

	return m
}

// ObserveProviderCall records one adapter fetch.
func (m *Metrics) ObserveProviderCall(provider, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.providerCalls.WithLabelValues(provider, outcome).Inc()
	m.providerLatency.WithLabelValues(provider).Observe(millis(elapsed))
}

// ObserveRateLimitWait records a granted rate limit slot.
func (m *Metrics) ObserveRateLimitWait(family string, waited time.Duration) {
	if m == nil {
		return
	}
	m.rateLimitWait.WithLabelValues(family).Observe(millis(waited))
}

// ObserveDocument records one produced document.
func (m *Metrics) ObserveDocument(profile, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.documents.WithLabelValues(profile, outcome).Inc()
	m.requestLatency.Observe(millis(elapsed))
}

func millis(d time.Duration) float64 {
	ms := float64(d) / float64(time.Millisecond)
	if ms < 0 {
		return 0
	}
	return ms
}

func register[T prometheus.Collector](registerer prometheus.Registerer, collector T) T {
	if registerer == nil {
		return collector
	}
	if err := registerer.Register(collector); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing
			}
			return collector
		}
		panic(err)
	}
	return collector
}
