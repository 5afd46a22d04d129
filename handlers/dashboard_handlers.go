package handlers

import (
	"github.com/gofiber/fiber/v2"

	"salesdash/analytics"
	"salesdash/models"
)

// HandleGetDashboardSummary returns live sales metrics for yesterday and today,
// the number of inventory alerts and the five best selling items.
// GET /api/v1/dashboard/summary
func (h *Handler) HandleGetDashboardSummary(c *fiber.Ctx) error {
	if !h.vendor.Configured() {
		return errorResponse(c, fiber.StatusServiceUnavailable, "Vendor API is not configured")
	}
	ctx := c.UserContext()

	today := h.analytics.Today()
	sales, err := h.vendor.DailySales(ctx, today.AddDate(0, 0, -1), today)
	if err != nil {
		h.logger.WithError(err).Error("Error in dashboard summary")
		return errorResponse(c, fiber.StatusBadGateway, "Failed to fetch sales from vendor")
	}

	alerts, err := h.vendor.InventoryAlerts(ctx, h.lowInventory)
	if err != nil {
		h.logger.WithError(err).Error("Error in dashboard summary")
		return errorResponse(c, fiber.StatusBadGateway, "Failed to fetch inventory from vendor")
	}

	return c.JSON(analytics.Summarize(sales, len(alerts), h.now()))
}

// HandleGetInventoryAlerts lists tracked items below the low-stock threshold.
// GET /api/v1/inventory/alerts
func (h *Handler) HandleGetInventoryAlerts(c *fiber.Ctx) error {
	if !h.vendor.Configured() {
		return errorResponse(c, fiber.StatusServiceUnavailable, "Vendor API is not configured")
	}

	alerts, err := h.vendor.InventoryAlerts(c.UserContext(), h.lowInventory)
	if err != nil {
		h.logger.WithError(err).Error("Error getting inventory alerts")
		return errorResponse(c, fiber.StatusBadGateway, "Failed to fetch inventory from vendor")
	}
	if alerts == nil {
		alerts = []models.InventoryAlert{}
	}
	return c.JSON(alerts)
}
