package ratelimit

import (
	"context"
	"sync"
	"time"

	"keyword-research/pkg/logger"
)

// Upstream families. Each family keeps its own schedule.
const (
	FamilySERP    = "serp"
	FamilyTrends  = "trends"
	FamilyHistory = "history"
)

// Families lists the upstream families in display order.
var Families = []string{FamilySERP, FamilyTrends, FamilyHistory}

// DefaultMinDelay is the minimum spacing between two calls of one family.
const DefaultMinDelay = 5 * time.Second

// SpacingLimiter enforces a minimum delay between consecutive outbound calls
// of the same family, across all goroutines. Callers reserve a slot under the
// lock and sleep outside it, so concurrent callers queue one delay apart.
type SpacingLimiter struct {
	mu     sync.Mutex
	delays map[string]time.Duration
	last   map[string]time.Time
	def    time.Duration
	now    func() time.Time
	log    *logger.Logger

	observe func(family string, waited time.Duration)

	waits     map[string]int64
	totalWait map[string]time.Duration
}

// NewSpacingLimiter creates a limiter with defaultDelay for every family not
// listed in perFamily.
func NewSpacingLimiter(defaultDelay time.Duration, perFamily map[string]time.Duration) *SpacingLimiter {
	if defaultDelay < 0 {
		defaultDelay = 0
	}
	delays := make(map[string]time.Duration, len(perFamily))
	for family, d := range perFamily {
		if d >= 0 {
			delays[family] = d
		}
	}
	return &SpacingLimiter{
		delays:    delays,
		last:      make(map[string]time.Time),
		def:       defaultDelay,
		now:       time.Now,
		log:       logger.Component("spacing_limiter"),
		waits:     make(map[string]int64),
		totalWait: make(map[string]time.Duration),
	}
}

// SetObserver registers a callback invoked after every granted slot.
func (sl *SpacingLimiter) SetObserver(fn func(family string, waited time.Duration)) {
	sl.mu.Lock()
	defer sl.mu.Unlock()
	sl.observe = fn
}

// Delay returns the spacing configured for family.
func (sl *SpacingLimiter) Delay(family string) time.Duration {
	sl.mu.Lock()
	defer sl.mu.Unlock()
	return sl.delayLocked(family)
}

func (sl *SpacingLimiter) delayLocked(family string) time.Duration {
	if d, ok := sl.delays[family]; ok {
		return d
	}
	return sl.def
}

// Wait blocks until the family's next slot. On cancellation the reserved slot
// is released if no later caller has queued behind it.
func (sl *SpacingLimiter) Wait(ctx context.Context, family string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	sl.mu.Lock()
	now := sl.now()
	prev, seen := sl.last[family]
	slot := now
	if seen {
		if next := prev.Add(sl.delayLocked(family)); next.After(now) {
			slot = next
		}
	}
	sl.last[family] = slot
	sl.mu.Unlock()

	waited := slot.Sub(now)
	if waited > 0 {
		timer := time.NewTimer(waited)
		defer timer.Stop()

		select {
		case <-ctx.Done():
			sl.release(family, slot, prev, seen)
			return ctx.Err()
		case <-timer.C:
		}
	}

	sl.mu.Lock()
	sl.waits[family]++
	sl.totalWait[family] += waited
	observe := sl.observe
	sl.mu.Unlock()

	if waited > 0 {
		sl.log.WithFields(map[string]interface{}{
			"family": family,
			"waited": waited.String(),
		}).Debug("Rate limit wait completed")
	}
	if observe != nil {
		observe(family, waited)
	}

	return nil
}

func (sl *SpacingLimiter) release(family string, slot, prev time.Time, seen bool) {
	sl.mu.Lock()
	defer sl.mu.Unlock()

	if !sl.last[family].Equal(slot) {
		return
	}
	if seen {
		sl.last[family] = prev
	} else {
		delete(sl.last, family)
	}
}

// Stats returns per-family wait counters. Known families are always present.
func (sl *SpacingLimiter) Stats() map[string]FamilyStats {
	sl.mu.Lock()
	defer sl.mu.Unlock()

	stats := make(map[string]FamilyStats, len(Families)+len(sl.waits))
	for _, family := range Families {
		stats[family] = FamilyStats{Delay: sl.delayLocked(family)}
	}
	for family, n := range sl.waits {
		stats[family] = FamilyStats{
			Calls:     n,
			TotalWait: sl.totalWait[family],
			Delay:     sl.delayLocked(family),
		}
	}
	return stats
}

// FamilyStats holds wait statistics for one upstream family
type FamilyStats struct {
	Calls     int64         `json:"calls"`
	TotalWait time.Duration `json:"total_wait"`
	Delay     time.Duration `json:"delay"`
}
