package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"salesdash/analytics"
	"salesdash/insights"
	"salesdash/models"
)

func (h *Handler) forecast(c *fiber.Ctx) (models.ForecastResult, error) {
	item := strings.TrimSpace(c.Params("itemNumber"))
	if item == "" {
		return models.ForecastResult{}, fiber.NewError(fiber.StatusBadRequest, "item number is required")
	}
	days, err := daysParam(c, analytics.DefaultHistoryDays)
	if err != nil {
		return models.ForecastResult{}, err
	}
	return h.analytics.CalculateDemandForecast(c.UserContext(), item, days), nil
}

// HandleGetDemandForecast computes the demand forecast of one item.
// GET /api/v1/demand/forecast/:itemNumber
func (h *Handler) HandleGetDemandForecast(c *fiber.Ctx) error {
	result, err := h.forecast(c)
	if err != nil {
		return err
	}
	if result.Error != "" {
		return c.Status(fiber.StatusInternalServerError).JSON(result)
	}
	return c.JSON(result)
}

// HandleGetForecastInsight explains an item's forecast in plain language.
// GET /api/v1/demand/forecast/:itemNumber/insight
func (h *Handler) HandleGetForecastInsight(c *fiber.Ctx) error {
	if h.narrator == nil {
		return errorResponse(c, fiber.StatusServiceUnavailable, "AI insights are not configured")
	}

	result, err := h.forecast(c)
	if err != nil {
		return err
	}
	if result.Error != "" {
		return c.Status(fiber.StatusInternalServerError).JSON(result)
	}

	insight, err := h.narrator.Explain(c.UserContext(), result)
	switch {
	case errors.Is(err, insights.ErrNoForecast):
		return c.Status(fiber.StatusNotFound).JSON(result)
	case err != nil:
		return errorResponse(c, fiber.StatusBadGateway, "Failed to generate insight from AI")
	}
	return c.JSON(insight)
}
