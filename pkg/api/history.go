package api

import (
	"context"
	"encoding/json"
	"net/url"
	"strings"
)

// DefaultHistoryHost is the RapidAPI host of the keyword trend service.
const DefaultHistoryHost = "targeted-keyword-trend.p.rapidapi.com"

type historyClient struct {
	*httpJSONClient
	apiKey string
	host   string
}

// NewHistoryClient creates a RapidAPI client: GET <endpoint>/<keyword> with
// X-RapidAPI-Key and X-RapidAPI-Host headers.
func NewHistoryClient(cfg ClientConfig) HistoryClient {
	host := DefaultHistoryHost
	if u, err := url.Parse(cfg.Endpoint); err == nil && u.Host != "" {
		host = u.Host
	}
	return &historyClient{
		httpJSONClient: newHTTPJSONClient("history", cfg),
		apiKey:         cfg.APIKey,
		host:           host,
	}
}

// History returns the raw records. Items are left undecoded so that malformed
// entries can be reported per item.
func (c *historyClient) History(ctx context.Context, keyword string) ([]json.RawMessage, error) {
	uri, err := buildURL(c.endpoint, url.PathEscape(strings.TrimSpace(keyword)), nil)
	if err != nil {
		return nil, err
	}

	headers := map[string]string{"X-RapidAPI-Host": c.host}
	if c.apiKey != "" {
		headers["X-RapidAPI-Key"] = c.apiKey
	}

	var resp []json.RawMessage
	if err := c.getJSON(ctx, uri, headers, &resp); err != nil {
		return nil, err
	}
	if resp == nil {
		resp = []json.RawMessage{}
	}
	return resp, nil
}
