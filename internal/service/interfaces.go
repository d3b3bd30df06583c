package service

import (
	"context"

	"keyword-research/pkg/aggregator"
)

// ResearchService produces one research document per request.
type ResearchService interface {
	Research(ctx context.Context, req aggregator.Request) *aggregator.Document
}

var _ ResearchService = (*aggregator.Engine)(nil)
