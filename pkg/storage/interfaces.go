package storage

import (
	"context"
	"errors"

	"keyword-research/pkg/keyword"
)

var (
	ErrUnknownCountry = errors.New("no keyword table for country")
)

// Cache is the request cache contract shared by the provider adapters.
type Cache interface {
	Set(key string, value interface{}) error
	Get(key string) (interface{}, bool)
	Delete(key string) error
	Clear() error
}

// RecordSource returns every dataset row for a country. The returned order is
// the canonical scan order for matching and must be stable across calls while
// the data is unchanged.
type RecordSource interface {
	Records(ctx context.Context, country string) ([]keyword.Record, error)
}

var _ Cache = (*MemoryCache)(nil)
