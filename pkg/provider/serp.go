package provider

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"keyword-research/pkg/api"
	"keyword-research/pkg/keyword"
	"keyword-research/pkg/ratelimit"
)

// SERP window defaults.
const (
	DefaultSERPNum   = 10
	DefaultSERPStart = 1
	MaxSERPNum       = 100
)

// SERPOptions selects the window of organic results.
type SERPOptions struct {
	Num   int
	Start int
}

// Normalized fills defaults for non-positive values and caps Num at
// MaxSERPNum.
func (o SERPOptions) Normalized() SERPOptions {
	if o.Num <= 0 {
		o.Num = DefaultSERPNum
	}
	if o.Num > MaxSERPNum {
		o.Num = MaxSERPNum
	}
	if o.Start <= 0 {
		o.Start = DefaultSERPStart
	}
	return o
}

// SERPRow is one ranked result.
type SERPRow struct {
	Position int    `json:"position"`
	Link     string `json:"link"`
	Title    string `json:"title"`
	Domain   string `json:"domain"`
}

// SERPResult is the search results section payload.
type SERPResult struct {
	Date         string    `json:"Date"`
	TotalResults int       `json:"Number of SERP Results"`
	Results      []SERPRow `json:"SERP Results (Top 100)"`
}

// SERPAdapter fetches and windows organic search results.
type SERPAdapter struct {
	client api.SERPClient
	f      *fetcher
	now    func() time.Time
}

func NewSERPAdapter(client api.SERPClient, deps Deps) *SERPAdapter {
	return &SERPAdapter{
		client: client,
		f:      newFetcher("serp", ratelimit.FamilySERP, deps),
		now:    time.Now,
	}
}

// SERPCacheKey is "<keyword>_<num>_<country>".
func SERPCacheKey(q keyword.Query, num int) string {
	return fmt.Sprintf("%s_%d_%s", q.Keyword, num, q.Country)
}

// Fetch returns results [Start-1, Start-1+Num) clipped to what the upstream
// returned. The raw result list is cached, the window is cut per call.
func (a *SERPAdapter) Fetch(ctx context.Context, q keyword.Query, opts SERPOptions) (SERPResult, error) {
	opts = opts.Normalized()

	v, err := a.f.fetch(ctx, SERPCacheKey(q, opts.Num), func(ctx context.Context) (interface{}, error) {
		return a.client.Search(ctx, fmt.Sprintf("%s country:%s", q.Keyword, q.Country), opts.Num)
	})
	if err != nil {
		return SERPResult{}, err
	}

	items, ok := v.([]api.SERPItem)
	if !ok {
		return SERPResult{}, fmt.Errorf("unexpected cached serp value %T", v)
	}

	return SERPResult{
		Date:         a.now().Format(keyword.DateLayout),
		TotalResults: len(items),
		Results:      window(items, opts),
	}, nil
}

func window(items []api.SERPItem, opts SERPOptions) []SERPRow {
	from := opts.Start - 1
	if from < 0 || from >= len(items) || opts.Num <= 0 {
		return []SERPRow{}
	}
	to := from + min(opts.Num, len(items)-from)

	rows := make([]SERPRow, 0, to-from)
	for i := from; i < to; i++ {
		rows = append(rows, SERPRow{
			Position: i + 1,
			Link:     items[i].Link,
			Title:    items[i].Title,
			Domain:   domainOf(items[i].Link),
		})
	}
	return rows
}

func domainOf(link string) string {
	u, err := url.Parse(link)
	if err != nil {
		return ""
	}
	return u.Host
}
