package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"keyword-research/pkg/storage"
)

var (
	cacheEntriesDesc = prometheus.NewDesc(
		namespace+"_cache_entries",
		"Current number of request cache entries",
		nil, nil,
	)
	cacheCapacityDesc = prometheus.NewDesc(
		namespace+"_cache_capacity",
		"Maximum number of request cache entries",
		nil, nil,
	)
	cacheOpsDesc = prometheus.NewDesc(
		namespace+"_cache_operations_total",
		"Request cache lookups and evictions by result",
		[]string{"result"}, nil,
	)
)

// CacheStatsSource is anything exposing request cache statistics.
type CacheStatsSource interface {
	Stats() storage.CacheStats
}

// CacheCollector reads cache statistics on each scrape.
type CacheCollector struct {
	cache CacheStatsSource
}

func NewCacheCollector(cache CacheStatsSource) *CacheCollector {
	return &CacheCollector{cache: cache}
}

// Describe sends the metric descriptors to the channel.
func (c *CacheCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- cacheEntriesDesc
	ch <- cacheCapacityDesc
	ch <- cacheOpsDesc
}

// Collect emits the current cache statistics.
func (c *CacheCollector) Collect(ch chan<- prometheus.Metric) {
	stats := c.cache.Stats()
	ch <- prometheus.MustNewConstMetric(cacheEntriesDesc, prometheus.GaugeValue, float64(stats.Size))
	ch <- prometheus.MustNewConstMetric(cacheCapacityDesc, prometheus.GaugeValue, float64(stats.MaxSize))
	ch <- prometheus.MustNewConstMetric(cacheOpsDesc, prometheus.CounterValue, float64(stats.Hits), "hit")
	ch <- prometheus.MustNewConstMetric(cacheOpsDesc, prometheus.CounterValue, float64(stats.Misses), "miss")
	ch <- prometheus.MustNewConstMetric(cacheOpsDesc, prometheus.CounterValue, float64(stats.Evictions), "eviction")
}

// RegisterCache registers a CacheCollector for cache.
func RegisterCache(registerer prometheus.Registerer, cache CacheStatsSource) error {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	return registerer.Register(NewCacheCollector(cache))
}
