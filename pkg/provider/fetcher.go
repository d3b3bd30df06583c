// Package provider adapts the upstream clients into cached, rate-limited
// section sources. Each adapter fails independently.
package provider

import (
	"context"
	"time"

	"golang.org/x/sync/singleflight"

	"keyword-research/pkg/logger"
	"keyword-research/pkg/storage"
)

// Call outcomes reported to a CallObserver.
const (
	OutcomeHit   = "hit"
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// Limiter spaces outbound calls per upstream family.
type Limiter interface {
	Wait(ctx context.Context, family string) error
}

// CallObserver receives one event per Fetch.
type CallObserver func(provider, outcome string, elapsed time.Duration)

// Deps are the shared collaborators injected into every adapter. Timeout
// bounds one upstream fetch including its limiter wait and retries; zero
// means no bound beyond the caller's context.
type Deps struct {
	Cache    storage.Cache
	Limiter  Limiter
	Observer CallObserver
	Timeout  time.Duration
}

// fetcher implements the common cache → limiter → call → cache path.
// Concurrent misses on one key collapse into a single upstream call.
type fetcher struct {
	name    string
	family  string
	cache   storage.Cache
	limiter Limiter
	observe CallObserver
	timeout time.Duration
	group   singleflight.Group
	log     *logger.Logger
}

func newFetcher(name, family string, deps Deps) *fetcher {
	return &fetcher{
		name:    name,
		family:  family,
		cache:   deps.Cache,
		limiter: deps.Limiter,
		observe: deps.Observer,
		timeout: deps.Timeout,
		log:     logger.Component(name + "_adapter"),
	}
}

func (f *fetcher) fetch(ctx context.Context, key string, call func(context.Context) (interface{}, error)) (interface{}, error) {
	start := time.Now()

	if v, ok := f.cache.Get(key); ok {
		f.report(OutcomeHit, start)
		f.log.WithField("key", key).Debug("Using cached data")
		return v, nil
	}

	v, err, shared := f.group.Do(key, func() (interface{}, error) {
		ctx, cancel := f.budget(ctx)
		defer cancel()

		if err := f.limiter.Wait(ctx, f.family); err != nil {
			return nil, err
		}
		v, err := call(ctx)
		if err != nil {
			return nil, err
		}
		f.cache.Set(key, v)
		return v, nil
	})

	if err != nil {
		f.report(OutcomeError, start)
		f.log.WithError(err).WithField("key", key).Warn("Upstream fetch failed")
		return nil, err
	}

	if shared {
		f.log.WithField("key", key).Debug("Shared in-flight fetch")
	}
	f.report(OutcomeOK, start)
	return v, nil
}

func (f *fetcher) budget(ctx context.Context) (context.Context, context.CancelFunc) {
	if f.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, f.timeout)
}

func (f *fetcher) report(outcome string, start time.Time) {
	if f.observe != nil {
		f.observe(f.name, outcome, time.Since(start))
	}
}
