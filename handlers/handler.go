package handlers

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"salesdash/ingest"
	"salesdash/logging"
	"salesdash/models"
)

// Analytics is the reporting side of the dashboard.
type Analytics interface {
	SalesByBrand(ctx context.Context, start, end time.Time) []models.BrandSales
	CalculateDemandForecast(ctx context.Context, itemNumber string, daysHistory int) models.ForecastResult
	GenerateDailyReport(ctx context.Context, reportDate string) models.DailyReport
	Today() time.Time
	Location() *time.Location
}

// Vendor serves live figures straight from the vendor API.
type Vendor interface {
	Configured() bool
	DailySales(ctx context.Context, start, end time.Time) ([]models.SaleRecord, error)
	CustomerSales(ctx context.Context, accountNumber string, start, end time.Time) (models.CustomerSales, error)
	ItemSalesHistory(ctx context.Context, itemNumber string, days int) ([]models.SalePoint, error)
	InventoryAlerts(ctx context.Context, threshold float64) ([]models.InventoryAlert, error)
}

type Ingestor interface {
	Collect(ctx context.Context, day time.Time) (ingest.Result, error)
	StoreSales(ctx context.Context, records []models.SaleRecord) (ingest.Result, error)
	StoreInventory(ctx context.Context, levels []models.InventoryLevel) (ingest.Result, error)
}

type Narrator interface {
	Explain(ctx context.Context, forecast models.ForecastResult) (*models.ForecastInsight, error)
}

type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps are the collaborators of the HTTP handlers. Narrator may be nil.
type Deps struct {
	Analytics             Analytics
	Vendor                Vendor
	Ingest                Ingestor
	Narrator              Narrator
	DB                    Pinger
	Logger                *logging.Logger
	LowInventoryThreshold float64
	Version               string
}

type Handler struct {
	analytics    Analytics
	vendor       Vendor
	ingest       Ingestor
	narrator     Narrator
	db           Pinger
	logger       *logging.Logger
	lowInventory float64
	version      string
	now          func() time.Time
}

func New(d Deps) *Handler {
	threshold := d.LowInventoryThreshold
	if threshold <= 0 {
		threshold = models.DefaultReorderPoint
	}
	return &Handler{
		analytics:    d.Analytics,
		vendor:       d.Vendor,
		ingest:       d.Ingest,
		narrator:     d.Narrator,
		db:           d.DB,
		logger:       d.Logger.WithComponent("http"),
		lowInventory: threshold,
		version:      d.Version,
		now:          time.Now,
	}
}

func errorResponse(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"status": "error", "message": message})
}

// ErrorHandler renders unhandled errors as JSON.
func ErrorHandler(logger *logging.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := "Internal server error"

		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
			message = fe.Message
			if code == fiber.StatusNotFound {
				message = "Not found"
			}
		}
		if code >= fiber.StatusInternalServerError {
			logger.WithError(err).Error("Request failed", "method", c.Method(), "path", c.Path())
		}
		return errorResponse(c, code, message)
	}
}

// daysParam reads the ?days= look-back window.
func daysParam(c *fiber.Ctx, fallback int) (int, error) {
	days := c.QueryInt("days", fallback)
	if days <= 0 || days > 3650 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "days must be between 1 and 3650")
	}
	return days, nil
}
