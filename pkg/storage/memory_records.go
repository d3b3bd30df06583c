package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"keyword-research/pkg/keyword"
)

// MemoryRecordSource serves keyword rows held in memory, keyed by country.
// It backs the CLI's file dataset mode and tests.
type MemoryRecordSource struct {
	data  map[string][]keyword.Record
	mu    sync.RWMutex
	reads int
}

// NewMemoryRecordSource creates a new in-memory record source
func NewMemoryRecordSource() *MemoryRecordSource {
	return &MemoryRecordSource{
		data: make(map[string][]keyword.Record),
	}
}

// Put replaces the rows for a country, keeping the given order.
func (ms *MemoryRecordSource) Put(country string, records []keyword.Record) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	rows := make([]keyword.Record, len(records))
	copy(rows, records)
	ms.data[keyword.Normalize(country)] = rows
}

// Records returns a copy of the rows stored for country.
func (ms *MemoryRecordSource) Records(ctx context.Context, country string) ([]keyword.Record, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.reads++

	rows, exists := ms.data[keyword.Normalize(country)]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCountry, country)
	}

	out := make([]keyword.Record, len(rows))
	copy(out, rows)
	return out, nil
}

// Reads reports how many times Records was called.
func (ms *MemoryRecordSource) Reads() int {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	return ms.reads
}

type fileRecord struct {
	Keyword             string           `json:"keyword"`
	MonthlySearchVolume int64            `json:"avg_monthly_searches"`
	Competition         string           `json:"competition"`
	CompetitionIndex    float64          `json:"competition_indexed"`
	BidLow              float64          `json:"bid_low"`
	BidHigh             float64          `json:"bid_high"`
	Searches            []fileMonthCount `json:"searches"`
	LastUpdated         string           `json:"last_updated,omitempty"`
}

type fileMonthCount struct {
	Month string `json:"month"`
	Count int64  `json:"count"`
}

// LoadRecordsFile reads a JSON dataset of the form {"us": [rows...], ...}.
func LoadRecordsFile(path string) (*MemoryRecordSource, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset file: %w", err)
	}

	var byCountry map[string][]fileRecord
	if err := json.Unmarshal(raw, &byCountry); err != nil {
		return nil, fmt.Errorf("failed to decode dataset file: %w", err)
	}

	source := NewMemoryRecordSource()
	for country, rows := range byCountry {
		records := make([]keyword.Record, 0, len(rows))
		for _, row := range rows {
			rec := keyword.Record{
				Keyword:             row.Keyword,
				MonthlySearchVolume: row.MonthlySearchVolume,
				Competition:         row.Competition,
				CompetitionIndex:    row.CompetitionIndex,
				BidLow:              row.BidLow,
				BidHigh:             row.BidHigh,
			}
			for _, m := range row.Searches {
				rec.MonthlySeries = append(rec.MonthlySeries, keyword.MonthlyCount{Month: m.Month, Count: m.Count})
			}
			if row.LastUpdated != "" {
				if t, err := time.Parse("2006-01-02", row.LastUpdated); err == nil {
					rec.LastUpdated = t
				}
			}
			records = append(records, rec)
		}
		source.Put(country, records)
	}

	return source, nil
}

var _ RecordSource = (*MemoryRecordSource)(nil)
