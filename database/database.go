package database

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"salesdash/logging"
	"salesdash/models"
)

var (
	// ErrUnsupportedDriver is returned by Open for a DATABASE_URL scheme with no store.
	ErrUnsupportedDriver = errors.New("unsupported database driver")
	// ErrInvalidRecord rejects a whole write batch before anything is written.
	ErrInvalidRecord = errors.New("invalid record")
)

// lowInventoryWindow is the lookback used to estimate days of supply.
const lowInventoryWindow = 30 * 24 * time.Hour

// Store is the sales record store: the read queries behind the analytics
// engines and the batch writes used by ingestion.
type Store interface {
	ItemSalesHistory(ctx context.Context, itemNumber string, since time.Time) ([]models.SalePoint, error)
	DailySales(ctx context.Context, day time.Time) ([]models.SaleRecord, error)
	SalesByVendor(ctx context.Context, start, end time.Time) ([]models.SaleRecord, error)
	LowInventoryItems(ctx context.Context, threshold float64) ([]models.InventoryAlert, error)
	TopCustomersByDate(ctx context.Context, day time.Time, limit int) ([]models.CustomerRevenue, error)

	StoreSales(ctx context.Context, records []models.SaleRecord) (int, error)
	UpdateInventoryLevels(ctx context.Context, levels []models.InventoryLevel) (int, error)

	Ping(ctx context.Context) error
	Close() error
}

// Open connects to the store named by databaseURL and runs the schema
// migrations. postgres:// and postgresql:// use pgx, sqlite:// uses SQLite.
func Open(ctx context.Context, databaseURL string, logger *logging.Logger) (Store, error) {
	log := logger.WithComponent("database")

	scheme, _, ok := strings.Cut(databaseURL, "://")
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDriver, databaseURL)
	}

	switch strings.ToLower(scheme) {
	case "postgres", "postgresql":
		store, err := ConnectPostgres(ctx, databaseURL, log)
		if err != nil {
			return nil, err
		}
		if err := store.Migrate(ctx); err != nil {
			store.Close()
			return nil, err
		}
		log.Info("Successfully connected to the database", "driver", "postgres")
		return store, nil
	case "sqlite":
		store, err := ConnectSQLite(strings.TrimPrefix(databaseURL, scheme+"://"), log)
		if err != nil {
			return nil, err
		}
		if err := store.Migrate(ctx); err != nil {
			store.Close()
			return nil, err
		}
		log.Info("Successfully connected to the database", "driver", "sqlite")
		return store, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDriver, scheme)
	}
}

func validateSales(records []models.SaleRecord) error {
	for i, r := range records {
		switch {
		case strings.TrimSpace(r.InvoiceID) == "":
			return fmt.Errorf("%w: sale %d has no invoice id", ErrInvalidRecord, i)
		case strings.TrimSpace(r.ItemNumber) == "":
			return fmt.Errorf("%w: sale %d (invoice %s) has no item number", ErrInvalidRecord, i, r.InvoiceID)
		case r.InvoiceDate.IsZero():
			return fmt.Errorf("%w: sale %s/%s has no invoice date", ErrInvalidRecord, r.InvoiceID, r.ItemNumber)
		case !finite(r.Quantity) || r.Quantity < 0:
			return fmt.Errorf("%w: sale %s/%s has quantity %v", ErrInvalidRecord, r.InvoiceID, r.ItemNumber, r.Quantity)
		case !finite(r.UnitPrice) || !finite(r.ExtendedPrice):
			return fmt.Errorf("%w: sale %s/%s has a non-finite price", ErrInvalidRecord, r.InvoiceID, r.ItemNumber)
		}
	}
	return nil
}

func validateInventory(levels []models.InventoryLevel) error {
	for i, l := range levels {
		switch {
		case strings.TrimSpace(l.ItemNumber) == "":
			return fmt.Errorf("%w: inventory level %d has no item number", ErrInvalidRecord, i)
		case !finite(l.QtyAvailable) || !finite(l.QtyOnHand) || !finite(l.OnOrder) || !finite(l.LastCost):
			return fmt.Errorf("%w: inventory level %s has a non-finite quantity", ErrInvalidRecord, l.ItemNumber)
		}
	}
	return nil
}

// withInventoryDefaults fills the reorder point and lead time of a first sighting.
func withInventoryDefaults(l models.InventoryLevel) models.InventoryLevel {
	if l.ReorderPoint == 0 {
		l.ReorderPoint = models.DefaultReorderPoint
	}
	if l.LeadTime == 0 {
		l.LeadTime = models.DefaultLeadTimeDays
	}
	return l
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// dayBounds returns [midnight, next midnight) of day's calendar day in its location.
func dayBounds(day time.Time) (time.Time, time.Time) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	return start, start.AddDate(0, 0, 1)
}
