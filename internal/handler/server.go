package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"

	"keyword-research/internal/service"
	"keyword-research/pkg/keyword"
)

// ServerConfig tunes the fiber app. RateLimits is optional.
type ServerConfig struct {
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	RateLimits   RateLimitReporter
}

// NewApp builds the fiber app with every route mounted.
func NewApp(cfg ServerConfig, svc service.ResearchService, validator *keyword.Validator, gatherer prometheus.Gatherer) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "keyword-research",
		DisableStartupMessage: true,
		ReadTimeout:           cfg.ReadTimeout,
		WriteTimeout:          cfg.WriteTimeout,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			message := "Internal Server Error"

			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
				message = e.Message
			}

			return jsonError(c, code, message)
		},
	})

	app.Use(recover.New())

	RegisterHealth(app, cfg.RateLimits)
	RegisterMetrics(app, gatherer)
	NewResearchHandler(svc, validator).Register(app)

	return app
}
