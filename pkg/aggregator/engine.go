// Package aggregator composes one research document per request from the
// keyword dataset and the provider adapters.
package aggregator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"keyword-research/pkg/keyword"
	"keyword-research/pkg/logger"
	"keyword-research/pkg/matcher"
	"keyword-research/pkg/metrics"
	"keyword-research/pkg/provider"
	"keyword-research/pkg/storage"
)

// ErrProviderDisabled is reported for a section whose adapter is not configured.
var ErrProviderDisabled = errors.New("provider not configured")

type SERPFetcher interface {
	Fetch(ctx context.Context, q keyword.Query, opts provider.SERPOptions) (provider.SERPResult, error)
}

type InterestFetcher interface {
	Fetch(ctx context.Context, q keyword.Query) (provider.Interest, error)
}

type RegionFetcher interface {
	Fetch(ctx context.Context, q keyword.Query) []provider.RegionInterest
}

type HistoryFetcher interface {
	Fetch(ctx context.Context, q keyword.Query) ([]provider.HistoryPoint, error)
}

// Providers groups the adapters. A nil adapter yields its failure placeholder.
type Providers struct {
	SERP     SERPFetcher
	Interest InterestFetcher
	Region   RegionFetcher
	History  HistoryFetcher
}

// Options configures an Engine.
type Options struct {
	Matching        matcher.Options
	UpdatedBase     time.Time
	UpdatedInterval time.Duration
	Metrics         *metrics.Metrics
}

// DefaultOptions returns the default matching and "Updated" settings.
func DefaultOptions() Options {
	return Options{
		Matching:        matcher.DefaultOptions,
		UpdatedBase:     keyword.DefaultUpdatedBase,
		UpdatedInterval: keyword.DefaultUpdatedInterval,
	}
}

// Request is one research call. Query must come from keyword.Validator.
type Request struct {
	Query   keyword.Query
	Profile Profile
	SERP    provider.SERPOptions
}

// Engine runs the research pipeline. It is safe for concurrent use; all
// shared state lives in the injected cache and limiter.
type Engine struct {
	records   storage.RecordSource
	providers Providers
	matching  matcher.Options
	updated   string
	metrics   *metrics.Metrics
	log       *logger.Logger
}

func NewEngine(records storage.RecordSource, providers Providers, opts Options) *Engine {
	if opts.Matching.Threshold <= 0 {
		opts.Matching = matcher.DefaultOptions
	}
	if opts.UpdatedBase.IsZero() {
		opts.UpdatedBase = keyword.DefaultUpdatedBase
	}
	if opts.UpdatedInterval <= 0 {
		opts.UpdatedInterval = keyword.DefaultUpdatedInterval
	}
	return &Engine{
		records:   records,
		providers: providers,
		matching:  opts.Matching,
		updated:   keyword.FormatUpdated(opts.UpdatedBase, opts.UpdatedInterval),
		metrics:   opts.Metrics,
		log:       logger.Component("aggregator"),
	}
}

// Updated returns the "Updated" label stamped on record views.
func (e *Engine) Updated() string {
	return e.updated
}

// Research builds the document for req. It never returns an error: a
// datastore failure or panic yields a faulted document.
func (e *Engine) Research(ctx context.Context, req Request) (doc *Document) {
	start := time.Now()
	doc = &Document{RequestID: uuid.NewString(), Profile: req.Profile.Name}
	log := e.log.WithFields(map[string]interface{}{
		"request_id": doc.RequestID,
		"keyword":    req.Query.Keyword,
		"country":    req.Query.Country,
		"profile":    req.Profile.Name,
	})

	defer func() {
		if r := recover(); r != nil {
			log.WithField("panic", fmt.Sprint(r)).Error("Research panicked")
			doc.Sections = nil
			doc.Fault = true
		}
		outcome := "ok"
		if doc.Fault {
			outcome = "fault"
		}
		e.metrics.ObserveDocument(req.Profile.Name, outcome, time.Since(start))
	}()

	sections, err := e.compute(ctx, req, log)
	if err != nil {
		log.WithError(err).Error("Research failed")
		doc.Fault = true
		return doc
	}

	for _, id := range CanonicalOrder {
		if !req.Profile.Includes(id) {
			continue
		}
		if payload, ok := sections[id]; ok {
			doc.Sections = append(doc.Sections, Section{ID: id, Payload: payload})
		}
	}

	log.WithField("sections", len(doc.Sections)).Debug("Research completed")
	return doc
}

func (e *Engine) compute(ctx context.Context, req Request, log *logger.Logger) (map[SectionID]interface{}, error) {
	records, err := e.records.Records(ctx, req.Query.Country)
	if err != nil {
		return nil, fmt.Errorf("failed to load keyword records: %w", err)
	}

	sections := make(map[SectionID]interface{}, len(CanonicalOrder))

	if exact, ok := matcher.FindExact(req.Query.Keyword, records); ok {
		sections[SectionExact] = keyword.RecordView{Record: exact, Updated: e.updated}
	} else {
		sections[SectionExact] = ExactNotFound
	}

	related := matcher.FindRelated(req.Query.Keyword, records, e.matching)
	log.WithFields(map[string]interface{}{
		"records": len(records),
		"related": len(related),
	}).Debug("Matched keyword records")

	if len(related) == 0 {
		sections[SectionRelated] = RelatedNotFound
		sections[SectionHistory] = HistoryNotFound
		sections[SectionSERP] = SERPUnavailable
		return sections, nil
	}

	list := make([]interface{}, 0, len(related)+1)
	list = append(list, relatedCount(len(related)))
	for _, r := range related {
		list = append(list, keyword.RecordView{Record: r, Updated: e.updated})
	}
	sections[SectionRelated] = list

	if !req.Profile.UsesProviders() {
		return sections, nil
	}

	upstream, err := e.fetchProviders(ctx, req, log)
	if err != nil {
		return nil, err
	}
	for id, payload := range upstream {
		sections[id] = payload
	}
	sections[SectionSummary] = SummaryText

	return sections, nil
}

// fetchProviders calls every adapter concurrently. Adapter errors become
// placeholders; only a panic fails the group.
func (e *Engine) fetchProviders(ctx context.Context, req Request, log *logger.Logger) (map[SectionID]interface{}, error) {
	var (
		serp     interface{}
		history  interface{}
		region   interface{}
		interest interface{}
	)

	var g errgroup.Group
	g.Go(guard(func() {
		serp = e.fetchSERP(ctx, req, log)
	}))
	g.Go(guard(func() {
		history = e.fetchHistory(ctx, req, log)
	}))
	g.Go(guard(func() {
		region = e.fetchRegion(ctx, req)
	}))
	g.Go(guard(func() {
		interest = e.fetchInterest(ctx, req, log)
	}))

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return map[SectionID]interface{}{
		SectionSERP:     serp,
		SectionHistory:  history,
		SectionRegion:   region,
		SectionInterest: interest,
	}, nil
}

func (e *Engine) fetchSERP(ctx context.Context, req Request, log *logger.Logger) interface{} {
	if e.providers.SERP == nil {
		log.WithError(ErrProviderDisabled).Debug("SERP section unavailable")
		return SERPUnavailable
	}
	res, err := e.providers.SERP.Fetch(ctx, req.Query, req.SERP)
	if err != nil {
		log.WithError(err).Warn("SERP section unavailable")
		return SERPUnavailable
	}
	return res
}

func (e *Engine) fetchHistory(ctx context.Context, req Request, log *logger.Logger) interface{} {
	if e.providers.History == nil {
		log.WithError(ErrProviderDisabled).Debug("History section unavailable")
		return HistoryUnavailable
	}
	points, err := e.providers.History.Fetch(ctx, req.Query)
	if err != nil {
		log.WithError(err).Warn("History section unavailable")
		return HistoryUnavailable
	}
	return points
}

func (e *Engine) fetchRegion(ctx context.Context, req Request) interface{} {
	if e.providers.Region == nil {
		return []provider.RegionInterest{}
	}
	return e.providers.Region.Fetch(ctx, req.Query)
}

func (e *Engine) fetchInterest(ctx context.Context, req Request, log *logger.Logger) interface{} {
	if e.providers.Interest == nil {
		log.WithError(ErrProviderDisabled).Debug("Google Trends section unavailable")
		return InterestUnavailable
	}
	interest, err := e.providers.Interest.Fetch(ctx, req.Query)
	if err != nil {
		log.WithError(err).Warn("Google Trends section unavailable")
		return InterestUnavailable
	}
	return interest
}

// guard turns a panic inside fn into an error for the errgroup.
func guard(fn func()) func() error {
	return func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("provider panic: %v", r)
			}
		}()
		fn()
		return nil
	}
}
