package handlers

import (
	"context"
	"runtime/debug"
	"time"

	"github.com/gofiber/fiber/v2"
)

const healthTimeout = 2 * time.Second

// HandleHealth reports whether the record store is reachable.
// GET /health
func (h *Handler) HandleHealth(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), healthTimeout)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		h.logger.WithError(err).Warn("Database ping failed")
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "error", "database": "unreachable"})
	}
	return c.JSON(fiber.Map{"status": "ok", "database": "ok", "vendor_configured": h.vendor.Configured()})
}

// HandleVersion returns the build information of the running binary.
// GET /version
func (h *Handler) HandleVersion(c *fiber.Ctx) error {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return errorResponse(c, fiber.StatusInternalServerError, "no build information available")
	}
	return c.JSON(fiber.Map{
		"version":    h.version,
		"go_version": info.GoVersion,
		"module":     info.Main.Path,
	})
}
