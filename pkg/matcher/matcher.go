package matcher

import (
	"keyword-research/pkg/keyword"
)

// Options tunes related-keyword selection.
type Options struct {
	Threshold float64
	MinLength int
}

// DefaultOptions selects rows at least 80% similar with keywords longer than 3 characters.
var DefaultOptions = Options{Threshold: 0.8, MinLength: 3}

// FindExact returns the first record, in dataset order, whose normalized
// keyword equals query.
func FindExact(query string, records []keyword.Record) (keyword.Record, bool) {
	for _, r := range records {
		if r.NormalizedKeyword() == query {
			return r, true
		}
	}
	return keyword.Record{}, false
}

// FindRelated returns every record scoring at least opts.Threshold against
// query whose trimmed keyword is longer than opts.MinLength. Dataset order is
// kept; results are not sorted by score.
func FindRelated(query string, records []keyword.Record, opts Options) []keyword.Record {
	related := make([]keyword.Record, 0)
	for _, r := range records {
		if r.TrimmedLength() <= opts.MinLength {
			continue
		}
		if Ratio(query, r.NormalizedKeyword()) >= opts.Threshold {
			related = append(related, r)
		}
	}
	return related
}
