package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"keyword-research/pkg/api"
	"keyword-research/pkg/keyword"
	"keyword-research/pkg/ratelimit"
)

// MissingDateMessage marks a history record without a date.
const MissingDateMessage = "Month_Date_Year is missing in the data."

// HistoryPoint is one month of search volume, or an error marker.
type HistoryPoint struct {
	Date        string
	SearchCount json.RawMessage
	Err         string
}

func (p HistoryPoint) MarshalJSON() ([]byte, error) {
	if p.Err != "" {
		return json.Marshal(map[string]string{"error": p.Err})
	}
	count := p.SearchCount
	if len(count) == 0 {
		count = json.RawMessage("null")
	}
	date, err := json.Marshal(p.Date)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.WriteString(`{"Month_Date_Year":`)
	buf.Write(date)
	buf.WriteString(`,"Search_Count":`)
	buf.Write(count)
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// HistoryAdapter fetches keyword volume history.
type HistoryAdapter struct {
	client api.HistoryClient
	f      *fetcher
}

func NewHistoryAdapter(client api.HistoryClient, deps Deps) *HistoryAdapter {
	return &HistoryAdapter{
		client: client,
		f:      newFetcher("history", ratelimit.FamilyHistory, deps),
	}
}

// HistoryCacheKey is "history:<keyword>".
func HistoryCacheKey(q keyword.Query) string {
	return "history:" + q.Keyword
}

// Fetch returns one point per upstream record, in upstream order.
func (a *HistoryAdapter) Fetch(ctx context.Context, q keyword.Query) ([]HistoryPoint, error) {
	v, err := a.f.fetch(ctx, HistoryCacheKey(q), func(ctx context.Context) (interface{}, error) {
		items, err := a.client.History(ctx, q.Keyword)
		if err != nil {
			return nil, err
		}
		return toHistory(items), nil
	})
	if err != nil {
		return nil, err
	}

	points, ok := v.([]HistoryPoint)
	if !ok {
		return nil, fmt.Errorf("unexpected cached history value %T", v)
	}
	return points, nil
}

func toHistory(items []json.RawMessage) []HistoryPoint {
	points := make([]HistoryPoint, 0, len(items))
	for _, item := range items {
		var record map[string]json.RawMessage
		if err := json.Unmarshal(item, &record); err != nil || record == nil {
			points = append(points, HistoryPoint{Err: MissingDateMessage})
			continue
		}

		date, ok := dateValue(record["Month_Date_Year"])
		if !ok {
			points = append(points, HistoryPoint{Err: MissingDateMessage})
			continue
		}
		points = append(points, HistoryPoint{Date: date, SearchCount: record["Search_Count"]})
	}
	return points
}

func dateValue(raw json.RawMessage) (string, bool) {
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, true
	}
	return string(raw), true
}
