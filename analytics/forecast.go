package analytics

import (
	"context"
	"fmt"
	"time"

	"salesdash/logging"
	"salesdash/models"
)

const (
	shortWindow  = 7
	mediumWindow = 30
	longWindow   = 90

	// trendDamping scales the trend slope applied to the 30-day projection.
	trendDamping   = 0.1
	trendThreshold = 0.1

	leadTimeDays    = 7
	safetyStockDays = 3

	TrendIncreasing = "increasing"
	TrendDecreasing = "decreasing"
	TrendStable     = "stable"

	insufficientHistoryMessage = "Insufficient historical data"
)

// DemandSeries is the smoothed view of an item's daily demand.
type DemandSeries struct {
	Daily DailySeries
	MA7   []float64
	MA30  []float64
	MA90  []float64
	Slope float64
}

// AnalyzeDemand computes the moving averages and trend of a daily series.
func AnalyzeDemand(series DailySeries) DemandSeries {
	return DemandSeries{
		Daily: series,
		MA7:   MovingAverage(series.Values, shortWindow),
		MA30:  MovingAverage(series.Values, mediumWindow),
		MA90:  MovingAverage(series.Values, longWindow),
		Slope: TrendSlope(series.Values),
	}
}

// ClassifyTrend buckets a slope into increasing, decreasing or stable.
func ClassifyTrend(slope float64) string {
	switch {
	case slope > trendThreshold:
		return TrendIncreasing
	case slope < -trendThreshold:
		return TrendDecreasing
	default:
		return TrendStable
	}
}

// BuildForecast turns an analyzed series into the rounded forecast result.
func BuildForecast(itemNumber string, d DemandSeries) models.ForecastResult {
	avgDaily := latest(d.MA7)
	avgMonthly := latest(d.MA30) * mediumWindow

	next30 := avgDaily * 30 * (1 + d.Slope*trendDamping)

	leadTimeDemand := avgDaily * leadTimeDays
	safetyStock := avgDaily * safetyStockDays
	reorderPoint := leadTimeDemand + safetyStock

	pattern := WeekdayPattern(d.Daily)
	for wd, v := range pattern {
		pattern[wd] = round2(v)
	}

	return models.ForecastResult{
		ItemNumber: itemNumber,
		CurrentMetrics: &models.CurrentDemand{
			AvgDailyDemand:   round2(avgDaily),
			AvgWeeklyDemand:  round2(avgDaily * 7),
			AvgMonthlyDemand: round2(avgMonthly),
		},
		Forecast: &models.DemandForecast{
			Next7Days:       round2(avgDaily * 7),
			Next30Days:      round2(next30),
			Trend:           ClassifyTrend(d.Slope),
			TrendPercentage: round2(d.Slope * 100),
		},
		InventoryPlanning: &models.InventoryPlanning{
			ReorderPoint:   round(reorderPoint, 0),
			SafetyStock:    round(safetyStock, 0),
			LeadTimeDemand: round(leadTimeDemand, 0),
		},
		Seasonality: &models.Seasonality{DayOfWeekPattern: pattern},
	}
}

// CalculateDemandForecast forecasts an item's demand from its trailing
// daysHistory days of sales, ending today. It never returns an error: missing
// history is reported in Message and failures in Error.
func (s *Service) CalculateDemandForecast(ctx context.Context, itemNumber string, daysHistory int) (result models.ForecastResult) {
	start := time.Now()
	defer s.metrics.ObserveSince("demand_forecast", start)

	if daysHistory <= 0 {
		daysHistory = DefaultHistoryDays
	}
	log := s.logger.WithOperation("demand_forecast").WithFields(map[string]any{
		"itemNumber":  itemNumber,
		"daysHistory": daysHistory,
	})

	defer func() {
		if r := recover(); r != nil {
			err := recovered(r)
			log.WithError(err).Error("Demand forecast panicked")
			s.metrics.ForecastOutcome("error")
			result = models.ForecastResult{ItemNumber: itemNumber, Error: err.Error()}
		}
	}()

	last := s.Today()
	first := last.AddDate(0, 0, -(daysHistory - 1))

	history, err := s.store.ItemSalesHistory(ctx, itemNumber, first)
	if err != nil {
		return s.forecastFailure(log, itemNumber, fmt.Errorf("load sales history: %w", err))
	}
	if len(history) == 0 {
		s.metrics.ForecastOutcome("insufficient")
		return models.ForecastResult{ItemNumber: itemNumber, Message: insufficientHistoryMessage}
	}

	series, err := BuildDailySeries(history, first, last, s.loc)
	if err != nil {
		return s.forecastFailure(log, itemNumber, err)
	}

	s.metrics.ForecastOutcome("ok")
	return BuildForecast(itemNumber, AnalyzeDemand(series))
}

func (s *Service) forecastFailure(log *logging.Logger, itemNumber string, err error) models.ForecastResult {
	log.WithError(err).Error("Error calculating demand forecast")
	s.metrics.ForecastOutcome("error")
	return models.ForecastResult{ItemNumber: itemNumber, Error: err.Error()}
}
