package analytics

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salesdash/models"
)

func TestGenerateDailyReport(t *testing.T) {
	var alerts []models.InventoryAlert
	for i := 0; i < 12; i++ {
		alerts = append(alerts, models.InventoryAlert{ItemNumber: fmt.Sprintf("LOW-%d", i), QtyAvailable: float64(i)})
	}
	store := &fakeStore{
		byDay: map[string][]models.SaleRecord{
			"2024-03-15": {
				sale("INV-1", "A", "Widget", 2, 200),
				sale("INV-2", "B", "Gadget", 1, 100),
			},
			"2024-03-14": {
				sale("INV-0", "A", "Widget", 2, 200),
			},
		},
		alerts:    alerts,
		customers: []models.CustomerRevenue{{AccountNumber: "ACC-1", TotalRevenue: 300, Transactions: 2}},
	}
	svc := newTestService(store)

	report := svc.GenerateDailyReport(context.Background(), "2024-03-15")

	require.Empty(t, report.Error)
	assert.Equal(t, "2024-03-15", report.ReportDate)
	require.NotNil(t, report.Summary)
	assert.Equal(t, 300.0, report.Summary.TotalRevenue)
	assert.Equal(t, 2, report.Summary.TotalTransactions)
	assert.Equal(t, 150.0, report.Summary.AverageTransaction)
	assert.Equal(t, 3, report.Summary.ItemsSold)
	assert.Equal(t, 50.0, report.Summary.RevenueChangePercentage)
	require.Len(t, report.TopSellingItems, 2)
	assert.Equal(t, "A", report.TopSellingItems[0].ItemNumber)
	assert.Len(t, report.InventoryAlerts, 10)
	assert.Equal(t, store.customers, report.TopCustomers)
	assert.Len(t, report.CategoryBreakdown, 2)
}

func TestGenerateDailyReport_NoPriorRevenue(t *testing.T) {
	store := &fakeStore{byDay: map[string][]models.SaleRecord{
		"2024-03-15": {sale("INV-1", "A", "Widget", 1, 99)},
	}}
	svc := newTestService(store)

	report := svc.GenerateDailyReport(context.Background(), "2024-03-15")

	require.NotNil(t, report.Summary)
	assert.Equal(t, 0.0, report.Summary.RevenueChangePercentage)
}

func TestGenerateDailyReport_EmptyDay(t *testing.T) {
	svc := newTestService(&fakeStore{})

	report := svc.GenerateDailyReport(context.Background(), "2024-03-15")

	require.Empty(t, report.Error)
	assert.Equal(t, models.DailySales{}, report.Summary.DailySales)
	assert.Equal(t, 0.0, report.Summary.RevenueChangePercentage)
}

func TestGenerateDailyReport_Failures(t *testing.T) {
	svc := newTestService(&fakeStore{})
	report := svc.GenerateDailyReport(context.Background(), "15/03/2024")
	assert.Nil(t, report.Summary)
	assert.Contains(t, report.Error, "invalid report date")

	failing := newTestService(&fakeStore{alertsErr: errors.New("relation does not exist")})
	report = failing.GenerateDailyReport(context.Background(), "2024-03-15")
	assert.Nil(t, report.Summary)
	assert.Contains(t, report.Error, "relation does not exist")
}

func TestRevenueChange(t *testing.T) {
	assert.Equal(t, 0.0, RevenueChange(100, 0))
	assert.Equal(t, 100.0, RevenueChange(200, 100))
	assert.Equal(t, -50.0, RevenueChange(50, 100))
}

func TestSummarize(t *testing.T) {
	var records []models.SaleRecord
	for i := 0; i < 8; i++ {
		records = append(records, sale(fmt.Sprintf("INV-%d", i), fmt.Sprintf("I-%d", i), "", 1, float64(i+1)))
	}

	got := Summarize(records, 3, fixedNow)

	assert.Equal(t, 3, got.InventoryAlerts)
	assert.Len(t, got.TopSellingItems, 5)
	assert.Equal(t, 8, got.TodaySales.TotalTransactions)
	assert.Equal(t, fixedNow, got.LastUpdated)
}
