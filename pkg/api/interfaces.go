package api

import (
	"context"
	"encoding/json"
)

// SERPItem is one organic search result as returned upstream.
type SERPItem struct {
	Link  string `json:"link"`
	Title string `json:"title"`
}

// RelatedQuery is one row of a related-queries table.
type RelatedQuery struct {
	Query string  `json:"query"`
	Value float64 `json:"value"`
}

// RelatedQueries holds the top and rising tables for one keyword.
type RelatedQueries struct {
	Top    []RelatedQuery `json:"top"`
	Rising []RelatedQuery `json:"rising"`
}

// RegionValue is the interest score of one region.
type RegionValue struct {
	GeoName string  `json:"geoName"`
	Value   float64 `json:"value"`
}

// SERPClient fetches organic search results.
type SERPClient interface {
	Search(ctx context.Context, query string, num int) ([]SERPItem, error)
}

// TrendsClient fetches related queries and interest by region.
type TrendsClient interface {
	RelatedQueries(ctx context.Context, keyword, geo string) (map[string]RelatedQueries, error)
	InterestByRegion(ctx context.Context, keyword, geo string) ([]RegionValue, error)
}

// HistoryClient fetches the raw volume history records for a keyword.
type HistoryClient interface {
	History(ctx context.Context, keyword string) ([]json.RawMessage, error)
}

// StatsReporter is implemented by every client returned from this package.
type StatsReporter interface {
	Stats() ClientStats
}
