package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"keyword-research/pkg/ratelimit"
)

// RateLimitReporter exposes outbound spacing counters per upstream family.
type RateLimitReporter interface {
	Stats() map[string]ratelimit.FamilyStats
}

// RegisterHealth mounts /healthz. When limits is set the body carries the
// limiter counters under rate_limits.
func RegisterHealth(app fiber.Router, limits RateLimitReporter) {
	app.Get("/healthz", func(c *fiber.Ctx) error {
		body := fiber.Map{"status": "ok"}
		if limits != nil {
			families := make(fiber.Map)
			for family, st := range limits.Stats() {
				families[family] = fiber.Map{
					"calls":         st.Calls,
					"total_wait_ms": st.TotalWait.Milliseconds(),
					"delay_ms":      st.Delay.Milliseconds(),
				}
			}
			body["rate_limits"] = families
		}
		return c.JSON(body)
	})
}

// RegisterMetrics mounts /metrics serving gatherer.
func RegisterMetrics(app fiber.Router, gatherer prometheus.Gatherer) {
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
}
