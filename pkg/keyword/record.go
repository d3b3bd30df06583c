package keyword

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"
)

// MonthlyCount is one point of a record's trailing 12-month search series.
type MonthlyCount struct {
	Month string
	Count int64
}

// Record is one row of the per-country keyword dataset.
type Record struct {
	Keyword             string
	MonthlySearchVolume int64
	Competition         string
	CompetitionIndex    float64
	BidLow              float64
	BidHigh             float64
	MonthlySeries       []MonthlyCount
	LastUpdated         time.Time
}

// NormalizedKeyword is the comparison form used by exact and fuzzy matching.
func (r Record) NormalizedKeyword() string {
	return Normalize(r.Keyword)
}

// TrimmedLength is the length of the keyword without surrounding whitespace.
func (r Record) TrimmedLength() int {
	return len([]rune(strings.TrimSpace(r.Keyword)))
}

// RecordView renders a record with the dataset export labels, in column order,
// plus the "Updated" stamp.
type RecordView struct {
	Record  Record
	Updated string
}

func (v RecordView) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	first := true
	write := func(key string, value interface{}) error {
		if !first {
			buf.WriteByte(',')
		}
		first = false
		k, err := json.Marshal(key)
		if err != nil {
			return err
		}
		val, err := json.Marshal(value)
		if err != nil {
			return err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(val)
		return nil
	}

	r := v.Record
	fields := []struct {
		key   string
		value interface{}
	}{
		{"Keyword", r.Keyword},
		{"Avg. monthly searches", r.MonthlySearchVolume},
		{"Competition", r.Competition},
		{"Competition (indexed value)", r.CompetitionIndex},
		{"Top of page bid (low range)", r.BidLow},
		{"Top of page bid (high range)", r.BidHigh},
	}
	for _, f := range fields {
		if err := write(f.key, f.value); err != nil {
			return nil, err
		}
	}
	for _, m := range r.MonthlySeries {
		if err := write("Searches: "+m.Month, m.Count); err != nil {
			return nil, err
		}
	}
	if err := write("Updated", v.Updated); err != nil {
		return nil, err
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}
