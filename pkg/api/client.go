package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sync/atomic"
	"time"

	"github.com/valyala/fasthttp"

	"keyword-research/pkg/logger"
)

// ClientConfig configures one upstream provider client.
type ClientConfig struct {
	Endpoint   string
	APIKey     string
	Timeout    time.Duration
	MaxRetries int
	RetryDelay time.Duration
	Connection ConnectionConfig
}

func (c ClientConfig) withDefaults() ClientConfig {
	if c.Connection == (ConnectionConfig{}) {
		c.Connection = DefaultConnectionConfig()
	}
	if c.Timeout <= 0 {
		c.Timeout = c.Connection.RequestTimeout
	}
	if c.MaxRetries < 0 {
		c.MaxRetries = 0
	}
	if c.RetryDelay <= 0 {
		c.RetryDelay = time.Second
	}
	return c
}

// httpJSONClient performs GET requests against one JSON upstream with bounded
// retries and a per-call timeout.
type httpJSONClient struct {
	name     string
	endpoint string
	timeout  time.Duration
	client   *fasthttp.Client
	retry    *SimpleRetry
	log      *logger.Logger

	totalRequests  uint64
	failedRequests uint64
	totalLatency   uint64
}

func newHTTPJSONClient(name string, cfg ClientConfig) *httpJSONClient {
	cfg = cfg.withDefaults()
	return &httpJSONClient{
		name:     name,
		endpoint: cfg.Endpoint,
		timeout:  cfg.Timeout,
		client:   NewFastHTTPClient(cfg.Connection),
		retry:    NewSimpleRetry(cfg.MaxRetries, cfg.RetryDelay),
		log:      logger.Component(name + "_client"),
	}
}

// getJSON issues GET uri with headers and decodes the body into out.
func (c *httpJSONClient) getJSON(ctx context.Context, uri string, headers map[string]string, out interface{}) error {
	atomic.AddUint64(&c.totalRequests, 1)
	start := time.Now()
	defer func() {
		atomic.AddUint64(&c.totalLatency, uint64(time.Since(start).Milliseconds()))
	}()

	err := c.retry.Execute(ctx, func() error {
		return c.doGet(ctx, uri, headers, out)
	})
	if err != nil {
		atomic.AddUint64(&c.failedRequests, 1)
		c.log.WithError(err).WithField("duration_ms", time.Since(start).Milliseconds()).Warn("Upstream request failed")
		return err
	}

	c.log.WithField("duration_ms", time.Since(start).Milliseconds()).Debug("Upstream request completed")
	return nil
}

func (c *httpJSONClient) doGet(ctx context.Context, uri string, headers map[string]string, out interface{}) error {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(uri)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Accept", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	if err := c.client.DoTimeout(req, resp, c.callTimeout(ctx)); err != nil {
		return fmt.Errorf("%s request failed: %w", c.name, err)
	}

	if resp.StatusCode() != fasthttp.StatusOK {
		return &StatusError{Provider: c.name, Code: resp.StatusCode(), Body: string(resp.Body())}
	}

	body := resp.Body()
	if len(body) == 0 {
		return fmt.Errorf("%s: %w", c.name, ErrEmptyBody)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", c.name, err)
	}
	return nil
}

// callTimeout is the configured timeout, shortened to the context deadline.
func (c *httpJSONClient) callTimeout(ctx context.Context) time.Duration {
	timeout := c.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}
	if timeout <= 0 {
		timeout = time.Millisecond
	}
	return timeout
}

// buildURL appends query parameters to base, keeping any it already has.
func buildURL(base, path string, params url.Values) (string, error) {
	if base == "" {
		return "", ErrMissingEndpoint
	}
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("invalid endpoint %q: %w", base, err)
	}
	if path != "" {
		u = u.JoinPath(path)
	}
	q := u.Query()
	for k, vs := range params {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// Stats returns request counters for the client
func (c *httpJSONClient) Stats() ClientStats {
	return ClientStats{
		Provider:       c.name,
		TotalRequests:  atomic.LoadUint64(&c.totalRequests),
		FailedRequests: atomic.LoadUint64(&c.failedRequests),
		TotalLatencyMs: atomic.LoadUint64(&c.totalLatency),
	}
}

// ClientStats holds request statistics for one upstream client
type ClientStats struct {
	Provider       string `json:"provider"`
	TotalRequests  uint64 `json:"total_requests"`
	FailedRequests uint64 `json:"failed_requests"`
	TotalLatencyMs uint64 `json:"total_latency_ms"`
}
