package api

import (
	"context"
	"net/url"
	"strconv"
)

type serpClient struct {
	*httpJSONClient
	apiKey string
}

// NewSERPClient creates a client for a SerpAPI-style search endpoint:
// GET <endpoint>?engine=google&q=...&num=...&api_key=...
func NewSERPClient(cfg ClientConfig) SERPClient {
	return &serpClient{
		httpJSONClient: newHTTPJSONClient("serp", cfg),
		apiKey:         cfg.APIKey,
	}
}

func (c *serpClient) Search(ctx context.Context, query string, num int) ([]SERPItem, error) {
	params := url.Values{}
	params.Set("engine", "google")
	params.Set("q", query)
	if num > 0 {
		params.Set("num", strconv.Itoa(num))
	}
	if c.apiKey != "" {
		params.Set("api_key", c.apiKey)
	}

	uri, err := buildURL(c.endpoint, "", params)
	if err != nil {
		return nil, err
	}

	var resp struct {
		OrganicResults []SERPItem `json:"organic_results"`
	}
	if err := c.getJSON(ctx, uri, nil, &resp); err != nil {
		return nil, err
	}

	if resp.OrganicResults == nil {
		return []SERPItem{}, nil
	}
	return resp.OrganicResults, nil
}
