package routes

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cache"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"

	"salesdash/handlers"
	"salesdash/logging"
	"salesdash/middleware"
)

// Options configures the route table.
type Options struct {
	JWTSecret       []byte
	SummaryCacheTTL time.Duration
	BrandCacheTTL   time.Duration
	Metrics         http.Handler
	Logger          *logging.Logger
}

// cached serves repeated GETs of the same URL, query string included, from
// memory. Only 200 responses are stored.
func cached(ttl time.Duration) fiber.Handler {
	return cache.New(cache.Config{
		Next: func(c *fiber.Ctx) bool {
			return c.Response().StatusCode() != fiber.StatusOK
		},
		Expiration:   ttl,
		CacheControl: true,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.Path() + "?" + string(c.Request().URI().QueryString())
		},
	})
}

// SetupRoutes defines all the routes for the application.
func SetupRoutes(app *fiber.App, h *handlers.Handler, opts Options) {
	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(middleware.RequestLogger(opts.Logger))
	app.Use(cors.New())

	app.Get("/health", h.HandleHealth)
	app.Get("/version", h.HandleVersion)
	if opts.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(opts.Metrics))
	}

	api := app.Group("/api/v1")

	// --- Dashboard ---
	api.Get("/dashboard/summary", cached(opts.SummaryCacheTTL), h.HandleGetDashboardSummary)
	api.Get("/inventory/alerts", cached(opts.SummaryCacheTTL), h.HandleGetInventoryAlerts)

	// --- Sales ---
	sales := api.Group("/sales")
	sales.Get("/by-customer", h.HandleGetSalesByCustomer)
	sales.Get("/by-brand", cached(opts.BrandCacheTTL), h.HandleGetSalesByBrand)
	sales.Get("/items/:itemNumber/history", h.HandleGetItemSalesHistory)

	// --- Demand ---
	demand := api.Group("/demand")
	demand.Get("/forecast/:itemNumber", h.HandleGetDemandForecast)
	demand.Get("/forecast/:itemNumber/insight", h.HandleGetForecastInsight)

	// --- Reports ---
	api.Get("/reports/daily", h.HandleGetDailyReport)

	// --- Ingestion (admin only) ---
	ingest := api.Group("/ingest", middleware.JWTMiddleware(opts.JWTSecret), middleware.AdminRequired)
	ingest.Post("/sales", h.HandleIngestSales)
	ingest.Post("/inventory", h.HandleIngestInventory)
	ingest.Post("/run", h.HandleRunCollection)
}
