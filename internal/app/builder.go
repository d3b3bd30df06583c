// Package app assembles the research engine and its collaborators from
// configuration.
package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"keyword-research/internal/config"
	"keyword-research/pkg/aggregator"
	"keyword-research/pkg/api"
	"keyword-research/pkg/keyword"
	"keyword-research/pkg/logger"
	"keyword-research/pkg/matcher"
	"keyword-research/pkg/metrics"
	"keyword-research/pkg/provider"
	"keyword-research/pkg/ratelimit"
	"keyword-research/pkg/storage"
)

var ErrNoDatastore = errors.New("no keyword datastore configured: set database.dsn or database.dataset_file")

// App is a fully wired research engine.
type App struct {
	Engine    *aggregator.Engine
	Validator *keyword.Validator
	Cache     *storage.MemoryCache
	Limiter   *ratelimit.SpacingLimiter
	Metrics   *metrics.Metrics
	Registry  *prometheus.Registry

	closers []func()
}

// Close releases the datastore connection, if any.
func (a *App) Close() {
	for _, fn := range a.closers {
		fn()
	}
}

// Builder collects configuration and overrides, then builds an App.
type Builder struct {
	cfg      *config.Config
	records  storage.RecordSource
	registry *prometheus.Registry
	errors   []error
}

func NewBuilder() *Builder {
	return &Builder{errors: make([]error, 0)}
}

// WithConfig sets the configuration, validating it first.
func (b *Builder) WithConfig(cfg *config.Config) *Builder {
	if cfg == nil {
		b.errors = append(b.errors, fmt.Errorf("config cannot be nil"))
		return b
	}
	if err := config.Validate(cfg); err != nil {
		b.errors = append(b.errors, err)
		return b
	}
	b.cfg = cfg
	return b
}

// WithRecordSource overrides the configured datastore.
func (b *Builder) WithRecordSource(src storage.RecordSource) *Builder {
	if src == nil {
		b.errors = append(b.errors, fmt.Errorf("record source cannot be nil"))
		return b
	}
	b.records = src
	return b
}

// WithRegistry sets the metrics registry. A fresh one is created otherwise.
func (b *Builder) WithRegistry(reg *prometheus.Registry) *Builder {
	b.registry = reg
	return b
}

// Validate returns the accumulated configuration errors.
func (b *Builder) Validate() error {
	if b.cfg == nil && len(b.errors) == 0 {
		b.errors = append(b.errors, fmt.Errorf("config is required"))
	}
	if len(b.errors) == 0 {
		return nil
	}

	var messages []string
	for _, err := range b.errors {
		messages = append(messages, err.Error())
	}
	return fmt.Errorf("configuration validation failed: %s", strings.Join(messages, "; "))
}

// Build wires every component. ctx bounds the datastore connection attempt.
func (b *Builder) Build(ctx context.Context) (*App, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	cfg := b.cfg
	log := logger.Component("app")

	a := &App{
		Validator: keyword.NewValidator(cfg.Countries),
		Registry:  b.registry,
	}
	if a.Registry == nil {
		a.Registry = prometheus.NewRegistry()
	}
	a.Metrics = metrics.New(metrics.WithRegisterer(a.Registry))

	records, err := b.recordSource(ctx, a)
	if err != nil {
		return nil, err
	}

	a.Cache = storage.NewMemoryCacheWithTTL(cfg.Cache.Capacity, cfg.Cache.TTL)
	if err := metrics.RegisterCache(a.Registry, a.Cache); err != nil {
		log.WithError(err).Warn("Cache collector not registered")
	}

	a.Limiter = ratelimit.NewSpacingLimiter(cfg.RateLimit.MinDelay, cfg.RateLimit.PerFamily())
	a.Limiter.SetObserver(a.Metrics.ObserveRateLimitWait)

	deps := provider.Deps{
		Cache:    a.Cache,
		Limiter:  a.Limiter,
		Observer: a.Metrics.ObserveProviderCall,
		Timeout:  cfg.Providers.CallTimeout,
	}
	providers, clients := buildProviders(cfg.Providers, deps)
	if err := metrics.RegisterUpstream(a.Registry, clients...); err != nil {
		log.WithError(err).Warn("Upstream collector not registered")
	}
	logProviders(cfg, a.Limiter)

	base, err := cfg.Updated.Base()
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("invalid updated.base_date: %w", err)
	}

	a.Engine = aggregator.NewEngine(records, providers, aggregator.Options{
		Matching: matcher.Options{
			Threshold: cfg.Matching.Threshold,
			MinLength: cfg.Matching.MinLength,
		},
		UpdatedBase:     base,
		UpdatedInterval: cfg.Updated.Interval(),
		Metrics:         a.Metrics,
	})

	log.WithFields(map[string]interface{}{
		"countries":      cfg.Countries,
		"cache_capacity": cfg.Cache.Capacity,
		"updated":        a.Engine.Updated(),
	}).Info("Research engine ready")

	return a, nil
}

func (b *Builder) recordSource(ctx context.Context, a *App) (storage.RecordSource, error) {
	if b.records != nil {
		return b.records, nil
	}

	db := b.cfg.Database
	switch {
	case db.DSN != "":
		src, err := storage.NewPostgresRecordSource(ctx, db.DSN, b.cfg.Countries, db.OrderBy)
		if err != nil {
			return nil, fmt.Errorf("failed to connect keyword datastore: %w", err)
		}
		a.closers = append(a.closers, src.Close)
		return src, nil
	case db.DatasetFile != "":
		src, err := storage.LoadRecordsFile(db.DatasetFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load dataset file: %w", err)
		}
		return src, nil
	default:
		return nil, ErrNoDatastore
	}
}

func clientConfig(p config.ProviderConfig) api.ClientConfig {
	return api.ClientConfig{
		Endpoint:   p.Endpoint,
		APIKey:     p.APIKey,
		Timeout:    p.Timeout,
		MaxRetries: p.MaxRetries,
		RetryDelay: p.RetryDelay,
	}
}

// buildProviders creates adapters for configured endpoints only. A missing
// endpoint leaves the adapter nil so its section renders the placeholder.
// The returned clients feed the upstream metrics.
func buildProviders(cfg config.ProvidersConfig, deps provider.Deps) (aggregator.Providers, []api.StatsReporter) {
	var (
		providers aggregator.Providers
		clients   []api.StatsReporter
	)
	track := func(client interface{}) {
		if r, ok := client.(api.StatsReporter); ok {
			clients = append(clients, r)
		}
	}

	if cfg.SERP.Enabled() {
		serp := api.NewSERPClient(clientConfig(cfg.SERP))
		track(serp)
		providers.SERP = provider.NewSERPAdapter(serp, deps)
	}
	if cfg.Trends.Enabled() {
		trends := api.NewTrendsClient(clientConfig(cfg.Trends))
		track(trends)
		providers.Interest = provider.NewInterestAdapter(trends, deps)
		providers.Region = provider.NewRegionAdapter(trends, deps)
	}
	if cfg.History.Enabled() {
		history := api.NewHistoryClient(clientConfig(cfg.History))
		track(history)
		providers.History = provider.NewHistoryAdapter(history, deps)
	}

	return providers, clients
}

// logProviders reports the wiring with credentials masked.
func logProviders(cfg *config.Config, limiter *ratelimit.SpacingLimiter) {
	sl := logger.NewSecurityLogger(logger.Component("app"))
	sl.SafeInfo("Datastore configured", map[string]interface{}{
		"dsn":          cfg.Database.DSN,
		"dataset_file": cfg.Database.DatasetFile,
	})
	for name, p := range map[string]config.ProviderConfig{
		ratelimit.FamilySERP:    cfg.Providers.SERP,
		ratelimit.FamilyTrends:  cfg.Providers.Trends,
		ratelimit.FamilyHistory: cfg.Providers.History,
	} {
		sl.SafeInfo("Provider configured", map[string]interface{}{
			"provider":   name,
			"enabled":    p.Enabled(),
			"endpoint":   p.Endpoint,
			"api_key":    p.APIKey,
			"rate_delay": limiter.Delay(name).String(),
		})
	}
}
