package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"keyword-research/pkg/api"
)

var (
	upstreamRequestsDesc = prometheus.NewDesc(
		namespace+"_upstream_requests_total",
		"Upstream HTTP requests by provider, retries collapsed into one request",
		[]string{"provider"}, nil,
	)
	upstreamFailuresDesc = prometheus.NewDesc(
		namespace+"_upstream_failures_total",
		"Upstream HTTP requests that failed after retries",
		[]string{"provider"}, nil,
	)
	upstreamLatencyDesc = prometheus.NewDesc(
		namespace+"_upstream_latency_ms_total",
		"Cumulative upstream request time in milliseconds",
		[]string{"provider"}, nil,
	)
)

// UpstreamCollector reads client request counters on each scrape.
type UpstreamCollector struct {
	clients []api.StatsReporter
}

func NewUpstreamCollector(clients ...api.StatsReporter) *UpstreamCollector {
	return &UpstreamCollector{clients: clients}
}

func (c *UpstreamCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- upstreamRequestsDesc
	ch <- upstreamFailuresDesc
	ch <- upstreamLatencyDesc
}

func (c *UpstreamCollector) Collect(ch chan<- prometheus.Metric) {
	for _, client := range c.clients {
		stats := client.Stats()
		ch <- prometheus.MustNewConstMetric(upstreamRequestsDesc, prometheus.CounterValue, float64(stats.TotalRequests), stats.Provider)
		ch <- prometheus.MustNewConstMetric(upstreamFailuresDesc, prometheus.CounterValue, float64(stats.FailedRequests), stats.Provider)
		ch <- prometheus.MustNewConstMetric(upstreamLatencyDesc, prometheus.CounterValue, float64(stats.TotalLatencyMs), stats.Provider)
	}
}

// RegisterUpstream registers an UpstreamCollector for clients. It is a no-op
// when no client is configured.
func RegisterUpstream(registerer prometheus.Registerer, clients ...api.StatsReporter) error {
	if len(clients) == 0 {
		return nil
	}
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	return registerer.Register(NewUpstreamCollector(clients...))
}
