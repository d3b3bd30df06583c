package api

import (
	"context"
	"net/url"
)

type trendsClient struct {
	*httpJSONClient
	apiKey string
}

// NewTrendsClient creates a client for a trends gateway exposing
// /related_queries and /interest_by_region.
func NewTrendsClient(cfg ClientConfig) TrendsClient {
	return &trendsClient{
		httpJSONClient: newHTTPJSONClient("trends", cfg),
		apiKey:         cfg.APIKey,
	}
}

func (c *trendsClient) headers() map[string]string {
	if c.apiKey == "" {
		return nil
	}
	return map[string]string{"X-API-Key": c.apiKey}
}

// RelatedQueries returns the related-query tables keyed by keyword. A keyword
// missing from the map means the upstream had nothing for it.
func (c *trendsClient) RelatedQueries(ctx context.Context, keyword, geo string) (map[string]RelatedQueries, error) {
	params := url.Values{}
	params.Set("q", keyword)
	params.Set("geo", geo)
	params.Set("hl", "en-US")

	uri, err := buildURL(c.endpoint, "related_queries", params)
	if err != nil {
		return nil, err
	}

	var resp map[string]RelatedQueries
	if err := c.getJSON(ctx, uri, c.headers(), &resp); err != nil {
		return nil, err
	}
	if resp == nil {
		resp = map[string]RelatedQueries{}
	}
	return resp, nil
}

// InterestByRegion returns interest scores at country resolution.
func (c *trendsClient) InterestByRegion(ctx context.Context, keyword, geo string) ([]RegionValue, error) {
	params := url.Values{}
	params.Set("q", keyword)
	params.Set("geo", geo)
	params.Set("resolution", "COUNTRY")

	uri, err := buildURL(c.endpoint, "interest_by_region", params)
	if err != nil {
		return nil, err
	}

	var resp []RegionValue
	if err := c.getJSON(ctx, uri, c.headers(), &resp); err != nil {
		return nil, err
	}
	if resp == nil {
		resp = []RegionValue{}
	}
	return resp, nil
}
