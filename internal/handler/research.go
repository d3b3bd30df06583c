package handler

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"keyword-research/internal/service"
	"keyword-research/pkg/aggregator"
	"keyword-research/pkg/keyword"
	"keyword-research/pkg/logger"
	"keyword-research/pkg/provider"
)

// ResearchHandler serves the keyword research routes.
type ResearchHandler struct {
	svc       service.ResearchService
	validator *keyword.Validator
	log       *logger.Logger
}

func NewResearchHandler(svc service.ResearchService, validator *keyword.Validator) *ResearchHandler {
	return &ResearchHandler{
		svc:       svc,
		validator: validator,
		log:       logger.Component("research_handler"),
	}
}

// Register mounts the research routes on app.
func (h *ResearchHandler) Register(app fiber.Router) {
	app.Get("/keyword_overview_Data", h.handle(aggregator.ProfileOverview))
	app.Get("/google_keyword_overview", h.handle(aggregator.ProfileOverview))
	app.Get("/keyword_ideas", h.handle(aggregator.ProfileIdeas))
	app.Get("/google_keyword_ideas", h.handle(aggregator.ProfileIdeas))
}

func (h *ResearchHandler) handle(profile aggregator.Profile) fiber.Handler {
	return func(c *fiber.Ctx) error {
		q, err := h.validator.NewQuery(c.Query("keyword"), c.Query("country"))
		if err != nil {
			if errors.Is(err, keyword.ErrInvalidCountry) {
				return jsonError(c, fiber.StatusBadRequest, msgInvalidCountry)
			}
			return jsonError(c, fiber.StatusBadRequest, msgInvalidParams)
		}

		start := time.Now()
		doc := h.svc.Research(c.UserContext(), aggregator.Request{
			Query:   q,
			Profile: profile,
			SERP: provider.SERPOptions{
				Start: c.QueryInt("start", provider.DefaultSERPStart),
				Num:   c.QueryInt("num", provider.DefaultSERPNum),
			},
		})

		h.log.WithFields(map[string]interface{}{
			"request_id":  doc.RequestID,
			"route":       c.Path(),
			"query":       q.String(),
			"fault":       doc.Fault,
			"duration_ms": time.Since(start).Milliseconds(),
		}).Info("Research request served")

		c.Set("X-Request-ID", doc.RequestID)
		return c.Status(fiber.StatusOK).JSON(doc)
	}
}
