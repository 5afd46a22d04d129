package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"salesdash/utils"
)

// HandleGetDailyReport assembles the report for ?date= (default today).
// GET /api/v1/reports/daily?date=YYYY-MM-DD
func (h *Handler) HandleGetDailyReport(c *fiber.Ctx) error {
	today := h.analytics.Today()
	day, err := utils.ParseDay(c.Query("date"), h.analytics.Location(), today)
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "date must be formatted as YYYY-MM-DD")
	}

	report := h.analytics.GenerateDailyReport(c.UserContext(), day.Format(time.DateOnly))
	if report.Error != "" {
		return c.Status(fiber.StatusInternalServerError).JSON(report)
	}
	return c.JSON(report)
}
