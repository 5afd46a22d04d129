package analytics

import (
	"context"
	"errors"
	"fmt"
	"time"

	"salesdash/logging"
	"salesdash/metrics"
	"salesdash/models"
)

const (
	DefaultHistoryDays           = 365
	DefaultTopItemsLimit         = 10
	DefaultLowInventoryThreshold = 10
	reportListLimit              = 10
)

var (
	// ErrMalformedHistory is returned when a sale point cannot be placed on the daily series.
	ErrMalformedHistory = errors.New("malformed sales history")
	// ErrComputation wraps a panic recovered at an operation boundary.
	ErrComputation = errors.New("analytics computation failed")
)

// Store is the read side of the sales record store used by the engines.
type Store interface {
	// ItemSalesHistory returns the item's sales at or after since, oldest first.
	ItemSalesHistory(ctx context.Context, itemNumber string, since time.Time) ([]models.SalePoint, error)
	// DailySales returns every line item invoiced on the calendar day of day.
	DailySales(ctx context.Context, day time.Time) ([]models.SaleRecord, error)
	// SalesByVendor returns vendor-tagged line items invoiced between the calendar
	// days of start and end, both inclusive.
	SalesByVendor(ctx context.Context, start, end time.Time) ([]models.SaleRecord, error)
	LowInventoryItems(ctx context.Context, threshold float64) ([]models.InventoryAlert, error)
	TopCustomersByDate(ctx context.Context, day time.Time, limit int) ([]models.CustomerRevenue, error)
}

// Service runs the aggregation, forecasting and report operations against a Store.
type Service struct {
	store        Store
	logger       *logging.Logger
	metrics      *metrics.Registry
	loc          *time.Location
	now          func() time.Time
	lowInventory float64
}

type Option func(*Service)

// WithLocation sets the time zone that defines calendar days.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.loc = loc
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithMetrics(m *metrics.Registry) Option {
	return func(s *Service) { s.metrics = m }
}

func WithLowInventoryThreshold(threshold float64) Option {
	return func(s *Service) {
		if threshold > 0 {
			s.lowInventory = threshold
		}
	}
}

// NewService creates the analytics service.
func NewService(store Store, logger *logging.Logger, opts ...Option) *Service {
	s := &Service{
		store:        store,
		logger:       logger.WithComponent("analytics"),
		loc:          time.UTC,
		now:          time.Now,
		lowInventory: DefaultLowInventoryThreshold,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Today returns midnight of the current calendar day in the service location.
func (s *Service) Today() time.Time {
	return startOfDay(s.now(), s.loc)
}

// Location returns the time zone that defines calendar days.
func (s *Service) Location() *time.Location {
	return s.loc
}

func startOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

func recovered(r any) error {
	if err, ok := r.(error); ok {
		return fmt.Errorf("%w: %w", ErrComputation, err)
	}
	return fmt.Errorf("%w: %v", ErrComputation, r)
}
