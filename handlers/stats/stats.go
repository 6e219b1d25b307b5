package stats

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sportscamp/sportscamp-api/services"
	"github.com/sportscamp/sportscamp-api/utils/middleware"
	"github.com/sportscamp/sportscamp-api/utils/response"
)

// StatsHandler handles dashboard statistics requests
type StatsHandler struct {
	stats *services.StatsService
}

// NewStatsHandler creates a new stats handler
func NewStatsHandler(stats *services.StatsService) *StatsHandler {
	return &StatsHandler{stats: stats}
}

// Admin handles GET /admin-stats
func (h *StatsHandler) Admin(c *fiber.Ctx) error {
	stats, err := h.stats.Admin(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to compute stats")
	}
	return response.Success(c, stats)
}

// Instructor handles GET /instructor-stat for the caller.
func (h *StatsHandler) Instructor(c *fiber.Ctx) error {
	email, ok := middleware.GetUserEmail(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	stats, err := h.stats.Instructor(c.Context(), email)
	if err != nil {
		return response.InternalServerError(c, "Failed to compute stats")
	}
	return response.Success(c, stats)
}

// Student handles GET /student-stat for the caller.
func (h *StatsHandler) Student(c *fiber.Ctx) error {
	email, ok := middleware.GetUserEmail(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	stats, err := h.stats.Student(c.Context(), email)
	if err != nil {
		return response.InternalServerError(c, "Failed to compute stats")
	}
	return response.Success(c, stats)
}
