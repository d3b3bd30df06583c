package provider

import (
	"context"

	"keyword-research/pkg/api"
	"keyword-research/pkg/keyword"
	"keyword-research/pkg/ratelimit"
)

// RegionInterest is the interest score of one region.
type RegionInterest struct {
	Region        string `json:"region"`
	InterestScore int    `json:"interest"`
}

// RegionAdapter fetches interest by region at country resolution.
type RegionAdapter struct {
	client api.TrendsClient
	f      *fetcher
}

func NewRegionAdapter(client api.TrendsClient, deps Deps) *RegionAdapter {
	return &RegionAdapter{
		client: client,
		f:      newFetcher("region", ratelimit.FamilyTrends, deps),
	}
}

// RegionCacheKey is "region:<keyword>_<country>".
func RegionCacheKey(q keyword.Query) string {
	return "region:" + q.Keyword + "_" + q.Country
}

// Fetch never fails: any error is logged and an empty list returned.
func (a *RegionAdapter) Fetch(ctx context.Context, q keyword.Query) []RegionInterest {
	v, err := a.f.fetch(ctx, RegionCacheKey(q), func(ctx context.Context) (interface{}, error) {
		values, err := a.client.InterestByRegion(ctx, q.Keyword, GeoCode(q.Country))
		if err != nil {
			return nil, err
		}
		out := make([]RegionInterest, 0, len(values))
		for _, rv := range values {
			out = append(out, RegionInterest{Region: rv.GeoName, InterestScore: int(rv.Value)})
		}
		return out, nil
	})
	if err != nil {
		return []RegionInterest{}
	}

	regions, ok := v.([]RegionInterest)
	if !ok {
		a.f.log.Warn("Unexpected cached region value")
		return []RegionInterest{}
	}
	return regions
}
