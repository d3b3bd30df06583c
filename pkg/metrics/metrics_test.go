package metrics

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"keyword-research/pkg/api"
	"keyword-research/pkg/storage"
)

func gather(t *testing.T, reg *prometheus.Registry) map[string]*dto.MetricFamily {
	t.Helper()
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather failed: %v", err)
	}
	out := make(map[string]*dto.MetricFamily, len(families))
	for _, f := range families {
		out[f.GetName()] = f
	}
	return out
}

func counterValue(f *dto.MetricFamily, labels map[string]string) float64 {
	for _, m := range f.GetMetric() {
		match := true
		for _, lp := range m.GetLabel() {
			if want, ok := labels[lp.GetName()]; ok && want != lp.GetValue() {
				match = false
			}
		}
		if match {
			return m.GetCounter().GetValue()
		}
	}
	return -1
}

func TestMetricsRecordsProviderCalls(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(WithRegisterer(reg))

	m.ObserveProviderCall("serp", "ok", 20*time.Millisecond)
	m.ObserveProviderCall("serp", "ok", 30*time.Millisecond)
	m.ObserveProviderCall("serp", "hit", time.Millisecond)
	m.ObserveRateLimitWait("serp", 5*time.Second)
	m.ObserveDocument("overview", "ok", 100*time.Millisecond)

	families := gather(t, reg)

	calls, ok := families["keyword_research_provider_calls_total"]
	if !ok {
		t.Fatal("Expected provider calls metric")
	}
	if v := counterValue(calls, map[string]string{"provider": "serp", "outcome": "ok"}); v != 2 {
		t.Errorf("Expected 2 ok calls, got %v", v)
	}

	docs := families["keyword_research_documents_total"]
	if v := counterValue(docs, map[string]string{"profile": "overview", "outcome": "ok"}); v != 1 {
		t.Errorf("Expected 1 document, got %v", v)
	}

	wait := families["keyword_research_rate_limit_wait_ms"]
	if wait == nil || wait.GetMetric()[0].GetHistogram().GetSampleCount() != 1 {
		t.Error("Expected one rate limit wait sample")
	}
}

func TestMetricsReuseRegisteredCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	first := New(WithRegisterer(reg))
	second := New(WithRegisterer(reg))

	first.ObserveDocument("ideas", "ok", time.Millisecond)
	second.ObserveDocument("ideas", "ok", time.Millisecond)

	docs := gather(t, reg)["keyword_research_documents_total"]
	if v := counterValue(docs, map[string]string{"profile": "ideas"}); v != 2 {
		t.Errorf("Expected shared counter value 2, got %v", v)
	}
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.ObserveProviderCall("serp", "ok", time.Millisecond)
	m.ObserveRateLimitWait("serp", time.Millisecond)
	m.ObserveDocument("overview", "ok", time.Millisecond)
}

func TestCacheCollector(t *testing.T) {
	reg := prometheus.NewRegistry()
	cache := storage.NewMemoryCache(2)
	if err := RegisterCache(reg, cache); err != nil {
		t.Fatalf("RegisterCache failed: %v", err)
	}

	cache.Set("a", 1)
	cache.Set("b", 2)
	cache.Set("c", 3)
	cache.Get("c")
	cache.Get("a")

	families := gather(t, reg)

	entries := families["keyword_research_cache_entries"]
	if entries == nil || entries.GetMetric()[0].GetGauge().GetValue() != 2 {
		t.Error("Expected 2 cache entries")
	}

	ops := families["keyword_research_cache_operations_total"]
	if ops == nil {
		t.Fatal("Expected cache operations metric")
	}
	want := map[string]float64{"hit": 1, "miss": 1, "eviction": 1}
	for result, v := range want {
		if got := counterValue(ops, map[string]string{"result": result}); got != v {
			t.Errorf("Expected %s=%v, got %v", result, v, got)
		}
	}

	if !strings.HasPrefix(entries.GetName(), namespace) {
		t.Errorf("Unexpected metric name %s", entries.GetName())
	}
}

type staticStats api.ClientStats

func (s staticStats) Stats() api.ClientStats { return api.ClientStats(s) }

func TestUpstreamCollector(t *testing.T) {
	reg := prometheus.NewRegistry()
	err := RegisterUpstream(reg,
		staticStats{Provider: "serp", TotalRequests: 4, FailedRequests: 1, TotalLatencyMs: 800},
		staticStats{Provider: "history", TotalRequests: 2},
	)
	if err != nil {
		t.Fatalf("RegisterUpstream failed: %v", err)
	}

	families := gather(t, reg)

	requests := families["keyword_research_upstream_requests_total"]
	if requests == nil {
		t.Fatal("Expected upstream requests metric")
	}
	if got := counterValue(requests, map[string]string{"provider": "serp"}); got != 4 {
		t.Errorf("Expected 4 serp requests, got %v", got)
	}
	if got := counterValue(requests, map[string]string{"provider": "history"}); got != 2 {
		t.Errorf("Expected 2 history requests, got %v", got)
	}

	failures := families["keyword_research_upstream_failures_total"]
	if got := counterValue(failures, map[string]string{"provider": "serp"}); got != 1 {
		t.Errorf("Expected 1 serp failure, got %v", got)
	}
	latency := families["keyword_research_upstream_latency_ms_total"]
	if got := counterValue(latency, map[string]string{"provider": "serp"}); got != 800 {
		t.Errorf("Expected 800ms serp latency, got %v", got)
	}
}

func TestRegisterUpstreamWithoutClients(t *testing.T) {
	reg := prometheus.NewRegistry()
	if err := RegisterUpstream(reg); err != nil {
		t.Fatalf("Expected no-op, got %v", err)
	}
	if families := gather(t, reg); len(families) != 0 {
		t.Errorf("Expected nothing registered, got %d families", len(families))
	}
}
