package provider

import (
	"context"
	"encoding/json"
	"fmt"

	"keyword-research/pkg/api"
	"keyword-research/pkg/keyword"
	"keyword-research/pkg/ratelimit"
)

// Idea is one related-query row.
type Idea struct {
	KeywordIdea string `json:"keyword idea"`
	SearchValue int64  `json:"search value"`
}

// Interest holds the top and rising related-query tables for a keyword.
type Interest struct {
	Keyword string
	Top     []Idea
	Rising  []Idea
}

// MarshalJSON renders the related-queries payload keyed by keyword.
func (i Interest) MarshalJSON() ([]byte, error) {
	type tables struct {
		Top    []Idea `json:"top"`
		Rising []Idea `json:"rising"`
	}
	return json.Marshal([]map[string]map[string]tables{{
		"related keywords shown on Google Trends": {
			i.Keyword: {Top: nonNilIdeas(i.Top), Rising: nonNilIdeas(i.Rising)},
		},
	}})
}

func nonNilIdeas(ideas []Idea) []Idea {
	if ideas == nil {
		return []Idea{}
	}
	return ideas
}

// InterestAdapter fetches related queries.
type InterestAdapter struct {
	client api.TrendsClient
	f      *fetcher
}

func NewInterestAdapter(client api.TrendsClient, deps Deps) *InterestAdapter {
	return &InterestAdapter{
		client: client,
		f:      newFetcher("interest", ratelimit.FamilyTrends, deps),
	}
}

// InterestCacheKey is "<keyword>_<country>".
func InterestCacheKey(q keyword.Query) string {
	return q.Keyword + "_" + q.Country
}

// Fetch returns the related-query tables. A keyword absent from the upstream
// payload yields empty tables.
func (a *InterestAdapter) Fetch(ctx context.Context, q keyword.Query) (Interest, error) {
	v, err := a.f.fetch(ctx, InterestCacheKey(q), func(ctx context.Context) (interface{}, error) {
		related, err := a.client.RelatedQueries(ctx, q.Keyword, GeoCode(q.Country))
		if err != nil {
			return nil, err
		}
		return toInterest(q.Keyword, related), nil
	})
	if err != nil {
		return Interest{}, err
	}

	interest, ok := v.(Interest)
	if !ok {
		return Interest{}, fmt.Errorf("unexpected cached interest value %T", v)
	}
	return interest, nil
}

func toInterest(kw string, related map[string]api.RelatedQueries) Interest {
	out := Interest{Keyword: kw, Top: []Idea{}, Rising: []Idea{}}
	tables, ok := related[kw]
	if !ok {
		return out
	}
	for _, r := range tables.Top {
		out.Top = append(out.Top, Idea{KeywordIdea: r.Query, SearchValue: int64(r.Value)})
	}
	for _, r := range tables.Rising {
		out.Rising = append(out.Rising, Idea{KeywordIdea: r.Query, SearchValue: int64(r.Value)})
	}
	return out
}
