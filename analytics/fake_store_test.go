package analytics

import (
	"context"
	"time"

	"salesdash/models"
)

type fakeStore struct {
	history    []models.SalePoint
	historyErr error
	lastSince  time.Time

	byDay    map[string][]models.SaleRecord
	dailyErr error

	vendor    []models.SaleRecord
	vendorErr error

	alerts    []models.InventoryAlert
	alertsErr error

	customers    []models.CustomerRevenue
	customersErr error

	panicOnHistory bool
}

func (f *fakeStore) ItemSalesHistory(ctx context.Context, itemNumber string, since time.Time) ([]models.SalePoint, error) {
	if f.panicOnHistory {
		panic("history exploded")
	}
	f.lastSince = since
	return f.history, f.historyErr
}

func (f *fakeStore) DailySales(ctx context.Context, day time.Time) ([]models.SaleRecord, error) {
	if f.dailyErr != nil {
		return nil, f.dailyErr
	}
	return f.byDay[day.Format(time.DateOnly)], nil
}

func (f *fakeStore) SalesByVendor(ctx context.Context, start, end time.Time) ([]models.SaleRecord, error) {
	return f.vendor, f.vendorErr
}

func (f *fakeStore) LowInventoryItems(ctx context.Context, threshold float64) ([]models.InventoryAlert, error) {
	return f.alerts, f.alertsErr
}

func (f *fakeStore) TopCustomersByDate(ctx context.Context, day time.Time, limit int) ([]models.CustomerRevenue, error) {
	return f.customers, f.customersErr
}

var fixedNow = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

func day(offset int) time.Time {
	return time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC).AddDate(0, 0, offset)
}
