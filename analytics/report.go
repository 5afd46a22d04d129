package analytics

import (
	"context"
	"fmt"
	"time"

	"salesdash/models"
)

// GenerateDailyReport assembles the report for reportDate (YYYY-MM-DD). Any
// failure yields a report carrying only Error.
func (s *Service) GenerateDailyReport(ctx context.Context, reportDate string) (report models.DailyReport) {
	defer s.metrics.ObserveSince("daily_report", time.Now())
	log := s.logger.WithOperation("daily_report").WithFields(map[string]any{"reportDate": reportDate})

	defer func() {
		if r := recover(); r != nil {
			err := recovered(r)
			log.WithError(err).Error("Error generating daily report")
			report = models.DailyReport{Error: err.Error()}
		}
	}()

	report, err := s.assembleDailyReport(ctx, reportDate)
	if err != nil {
		log.WithError(err).Error("Error generating daily report")
		return models.DailyReport{Error: err.Error()}
	}
	return report
}

func (s *Service) assembleDailyReport(ctx context.Context, reportDate string) (models.DailyReport, error) {
	day, err := time.ParseInLocation(time.DateOnly, reportDate, s.loc)
	if err != nil {
		return models.DailyReport{}, fmt.Errorf("invalid report date %q: %w", reportDate, err)
	}

	sales, err := s.store.DailySales(ctx, day)
	if err != nil {
		return models.DailyReport{}, fmt.Errorf("load sales for %s: %w", reportDate, err)
	}
	alerts, err := s.store.LowInventoryItems(ctx, s.lowInventory)
	if err != nil {
		return models.DailyReport{}, fmt.Errorf("load inventory alerts: %w", err)
	}
	customers, err := s.store.TopCustomersByDate(ctx, day, reportListLimit)
	if err != nil {
		return models.DailyReport{}, fmt.Errorf("load top customers for %s: %w", reportDate, err)
	}

	prevDay := day.AddDate(0, 0, -1)
	prevSales, err := s.store.DailySales(ctx, prevDay)
	if err != nil {
		return models.DailyReport{}, fmt.Errorf("load sales for %s: %w", prevDay.Format(time.DateOnly), err)
	}

	current := CalculateDailySales(sales)
	previous := CalculateDailySales(prevSales)

	if len(alerts) > reportListLimit {
		alerts = alerts[:reportListLimit]
	}

	return models.DailyReport{
		ReportDate: reportDate,
		Summary: &models.ReportSummary{
			DailySales:              current,
			RevenueChangePercentage: round2(RevenueChange(current.TotalRevenue, previous.TotalRevenue)),
		},
		TopSellingItems:   TopItems(sales, DefaultTopItemsLimit),
		InventoryAlerts:   alerts,
		TopCustomers:      customers,
		HourlySales:       HourlyRevenue(sales, s.loc),
		CategoryBreakdown: CategoryBreakdown(sales),
	}, nil
}

// RevenueChange is the percentage change from previous to current, or 0 when
// there was no previous revenue.
func RevenueChange(current, previous float64) float64 {
	if previous <= 0 {
		return 0
	}
	return (current - previous) / previous * 100
}

// Summarize builds the dashboard landing payload from live sales and the
// number of open inventory alerts.
func Summarize(sales []models.SaleRecord, alertCount int, now time.Time) models.DashboardSummary {
	return models.DashboardSummary{
		TodaySales:      CalculateDailySales(sales),
		InventoryAlerts: alertCount,
		TopSellingItems: TopItems(sales, 5),
		LastUpdated:     now,
	}
}
