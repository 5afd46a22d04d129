package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"salesdash/analytics"
	"salesdash/models"
)

const defaultLookbackDays = 30

// HandleGetSalesByCustomer returns a customer's purchases over the last ?days=.
// GET /api/v1/sales/by-customer?account_number=&days=30
func (h *Handler) HandleGetSalesByCustomer(c *fiber.Ctx) error {
	account := strings.TrimSpace(c.Query("account_number"))
	if account == "" {
		return errorResponse(c, fiber.StatusBadRequest, "account_number is required")
	}
	days, err := daysParam(c, defaultLookbackDays)
	if err != nil {
		return err
	}
	if !h.vendor.Configured() {
		return errorResponse(c, fiber.StatusServiceUnavailable, "Vendor API is not configured")
	}

	end := h.analytics.Today()
	start := end.AddDate(0, 0, -days)
	sales, err := h.vendor.CustomerSales(c.UserContext(), account, start, end)
	if err != nil {
		h.logger.WithError(err).Error("Error getting customer sales", "accountNumber", account)
		return errorResponse(c, fiber.StatusBadGateway, "Failed to fetch customer sales from vendor")
	}
	return c.JSON(sales)
}

// HandleGetSalesByBrand rolls up stored sales by vendor over the last ?days=.
// GET /api/v1/sales/by-brand?days=30
func (h *Handler) HandleGetSalesByBrand(c *fiber.Ctx) error {
	days, err := daysParam(c, defaultLookbackDays)
	if err != nil {
		return err
	}

	end := h.analytics.Today()
	start := end.AddDate(0, 0, -days)
	return c.JSON(h.analytics.SalesByBrand(c.UserContext(), start, end))
}

// HandleGetItemSalesHistory returns an item's individual sales from the vendor
// over the last ?days=, oldest first.
// GET /api/v1/sales/items/:itemNumber/history?days=365
func (h *Handler) HandleGetItemSalesHistory(c *fiber.Ctx) error {
	item := strings.TrimSpace(c.Params("itemNumber"))
	if item == "" {
		return errorResponse(c, fiber.StatusBadRequest, "item number is required")
	}
	days, err := daysParam(c, analytics.DefaultHistoryDays)
	if err != nil {
		return err
	}
	if !h.vendor.Configured() {
		return errorResponse(c, fiber.StatusServiceUnavailable, "Vendor API is not configured")
	}

	points, err := h.vendor.ItemSalesHistory(c.UserContext(), item, days)
	if err != nil {
		h.logger.WithError(err).Error("Error getting item sales history", "itemNumber", item)
		return errorResponse(c, fiber.StatusBadGateway, "Failed to fetch item history from vendor")
	}
	if points == nil {
		points = []models.SalePoint{}
	}
	return c.JSON(fiber.Map{"item_number": item, "days": days, "sales": points})
}
