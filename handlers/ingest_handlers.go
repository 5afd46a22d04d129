package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"salesdash/database"
	"salesdash/models"
	"salesdash/utils"
)

func (h *Handler) ingestError(c *fiber.Ctx, err error) error {
	if errors.Is(err, database.ErrInvalidRecord) {
		return errorResponse(c, fiber.StatusBadRequest, err.Error())
	}
	return errorResponse(c, fiber.StatusInternalServerError, "Failed to store batch")
}

// HandleIngestSales stores a pushed batch of sale line items.
// POST /api/v1/ingest/sales
func (h *Handler) HandleIngestSales(c *fiber.Ctx) error {
	var records []models.SaleRecord
	if err := c.BodyParser(&records); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body")
	}

	res, err := h.ingest.StoreSales(c.UserContext(), records)
	if err != nil {
		return h.ingestError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"status": "success", "data": res})
}

// HandleIngestInventory upserts a pushed batch of inventory levels.
// POST /api/v1/ingest/inventory
func (h *Handler) HandleIngestInventory(c *fiber.Ctx) error {
	var levels []models.InventoryLevel
	if err := c.BodyParser(&levels); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body")
	}

	res, err := h.ingest.StoreInventory(c.UserContext(), levels)
	if err != nil {
		return h.ingestError(c, err)
	}
	return c.JSON(fiber.Map{"status": "success", "data": res})
}

// HandleRunCollection pulls one day (default yesterday) from the vendor API.
// POST /api/v1/ingest/run?date=YYYY-MM-DD
func (h *Handler) HandleRunCollection(c *fiber.Ctx) error {
	if !h.vendor.Configured() {
		return errorResponse(c, fiber.StatusServiceUnavailable, "Vendor API is not configured")
	}

	yesterday := h.analytics.Today().AddDate(0, 0, -1)
	day, err := utils.ParseDay(c.Query("date"), h.analytics.Location(), yesterday)
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "date must be formatted as YYYY-MM-DD")
	}

	res, err := h.ingest.Collect(c.UserContext(), day)
	if err != nil {
		if errors.Is(err, database.ErrInvalidRecord) {
			return errorResponse(c, fiber.StatusUnprocessableEntity, err.Error())
		}
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"status": "error", "message": "Data collection failed", "data": res})
	}
	return c.JSON(fiber.Map{"status": "success", "data": res})
}
