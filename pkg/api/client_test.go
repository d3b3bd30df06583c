package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func testConfig(endpoint string) ClientConfig {
	return ClientConfig{
		Endpoint:   endpoint,
		APIKey:     "secret",
		Timeout:    2 * time.Second,
		MaxRetries: 2,
		RetryDelay: time.Millisecond,
	}
}

func TestSERPClient_Search(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("q") != "seo tools country:us" || q.Get("num") != "10" || q.Get("api_key") != "secret" {
			t.Errorf("Unexpected query: %s", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"organic_results":[
			{"position":1,"link":"https://a.example.com/x","title":"A"},
			{"position":2,"link":"https://b.example.com/y","title":"B"}]}`))
	}))
	defer server.Close()

	client := NewSERPClient(testConfig(server.URL))
	items, err := client.Search(context.Background(), "seo tools country:us", 10)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(items) != 2 || items[1].Link != "https://b.example.com/y" || items[0].Title != "A" {
		t.Errorf("Unexpected items: %+v", items)
	}
}

func TestSERPClient_NoRetryOnAuthError(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"bad key"}`))
	}))
	defer server.Close()

	client := NewSERPClient(testConfig(server.URL))
	_, err := client.Search(context.Background(), "seo", 10)

	var statusErr *StatusError
	if !errors.As(err, &statusErr) || statusErr.Code != http.StatusUnauthorized {
		t.Fatalf("Expected 401 StatusError, got %v", err)
	}
	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Errorf("Expected 1 call, got %d", n)
	}
}

func TestSERPClient_RetriesServerErrors(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`{"organic_results":[]}`))
	}))
	defer server.Close()

	client := NewSERPClient(testConfig(server.URL))
	items, err := client.Search(context.Background(), "seo", 10)
	if err != nil {
		t.Fatalf("Expected success after retries, got %v", err)
	}
	if len(items) != 0 {
		t.Errorf("Expected no items, got %d", len(items))
	}
	if n := atomic.LoadInt32(&calls); n != 3 {
		t.Errorf("Expected 3 calls, got %d", n)
	}
}

func TestSERPClient_MissingEndpoint(t *testing.T) {
	client := NewSERPClient(ClientConfig{})
	if _, err := client.Search(context.Background(), "seo", 10); !errors.Is(err, ErrMissingEndpoint) {
		t.Errorf("Expected ErrMissingEndpoint, got %v", err)
	}
}

func TestTrendsClient(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-API-Key") != "secret" {
			t.Errorf("Missing api key header")
		}
		if r.URL.Query().Get("geo") != "US" {
			t.Errorf("Unexpected geo: %s", r.URL.Query().Get("geo"))
		}
		switch r.URL.Path {
		case "/related_queries":
			w.Write([]byte(`{"seo tools":{"top":[{"query":"free seo tools","value":100}],"rising":[{"query":"ai seo tools","value":250}]}}`))
		case "/interest_by_region":
			if r.URL.Query().Get("resolution") != "COUNTRY" {
				t.Errorf("Expected country resolution")
			}
			w.Write([]byte(`[{"geoName":"United States","value":100},{"geoName":"Canada","value":41}]`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	client := NewTrendsClient(testConfig(server.URL))
	ctx := context.Background()

	related, err := client.RelatedQueries(ctx, "seo tools", "US")
	if err != nil {
		t.Fatalf("RelatedQueries failed: %v", err)
	}
	tables, ok := related["seo tools"]
	if !ok || len(tables.Top) != 1 || tables.Rising[0].Value != 250 {
		t.Errorf("Unexpected related queries: %+v", related)
	}

	regions, err := client.InterestByRegion(ctx, "seo tools", "US")
	if err != nil {
		t.Fatalf("InterestByRegion failed: %v", err)
	}
	if len(regions) != 2 || regions[1].GeoName != "Canada" || regions[1].Value != 41 {
		t.Errorf("Unexpected regions: %+v", regions)
	}
}

func TestHistoryClient(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/seo tools" {
			t.Errorf("Unexpected path: %q", r.URL.Path)
		}
		if r.Header.Get("X-RapidAPI-Key") != "secret" || r.Header.Get("X-RapidAPI-Host") == "" {
			t.Errorf("Missing RapidAPI headers")
		}
		w.Write([]byte(`[{"Month_Date_Year":"Jan 2024","Search_Count":10},{"Search_Count":5}]`))
	}))
	defer server.Close()

	client := NewHistoryClient(testConfig(server.URL))
	items, err := client.History(context.Background(), "seo tools")
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("Expected 2 items, got %d", len(items))
	}

	var first map[string]interface{}
	if err := json.Unmarshal(items[0], &first); err != nil || first["Month_Date_Year"] != "Jan 2024" {
		t.Errorf("Unexpected first item: %s", items[0])
	}
}

func TestHistoryClient_EmptyBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	cfg := testConfig(server.URL)
	cfg.MaxRetries = 0
	client := NewHistoryClient(cfg)
	if _, err := client.History(context.Background(), "seo"); !errors.Is(err, ErrEmptyBody) {
		t.Errorf("Expected ErrEmptyBody, got %v", err)
	}
}

func TestCallTimeoutHonoursDeadline(t *testing.T) {
	c := newHTTPJSONClient("serp", ClientConfig{Timeout: time.Minute})

	if got := c.callTimeout(context.Background()); got != time.Minute {
		t.Errorf("Expected configured timeout, got %v", got)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if got := c.callTimeout(ctx); got > time.Second {
		t.Errorf("Expected timeout capped by deadline, got %v", got)
	}
}

func TestBuildURL(t *testing.T) {
	got, err := buildURL("https://api.example.com/v1?engine=google", "search", nil)
	if err != nil {
		t.Fatalf("buildURL failed: %v", err)
	}
	if got != "https://api.example.com/v1/search?engine=google" {
		t.Errorf("Unexpected url: %s", got)
	}
}

func TestClientStats(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.Write([]byte(`{"organic_results":[]}`))
			return
		}
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	client := NewSERPClient(testConfig(server.URL))
	reporter, ok := client.(StatsReporter)
	if !ok {
		t.Fatal("SERP client does not report stats")
	}

	if _, err := client.Search(context.Background(), "seo", 10); err != nil {
		t.Fatalf("First search failed: %v", err)
	}
	if _, err := client.Search(context.Background(), "seo", 10); err == nil {
		t.Fatal("Expected second search to fail")
	}

	stats := reporter.Stats()
	if stats.Provider != "serp" || stats.TotalRequests != 2 || stats.FailedRequests != 1 {
		t.Errorf("Unexpected stats: %+v", stats)
	}
}

func TestClientsReportStats(t *testing.T) {
	cfg := ClientConfig{Endpoint: "http://127.0.0.1:1"}
	for name, client := range map[string]interface{}{
		"serp":    NewSERPClient(cfg),
		"trends":  NewTrendsClient(cfg),
		"history": NewHistoryClient(cfg),
	} {
		reporter, ok := client.(StatsReporter)
		if !ok {
			t.Errorf("%s client does not report stats", name)
			continue
		}
		if got := reporter.Stats().Provider; got != name {
			t.Errorf("Expected provider %s, got %s", name, got)
		}
	}
}
