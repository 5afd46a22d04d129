package analytics

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salesdash/logging"
	"salesdash/models"
)

func newTestService(store Store) *Service {
	return NewService(store, logging.Discard(), WithClock(func() time.Time { return fixedNow }))
}

func TestCalculateDemandForecast_FlatDemand(t *testing.T) {
	var history []models.SalePoint
	for offset := -34; offset <= 0; offset++ {
		if offset == -34 || offset == -32 {
			continue
		}
		history = append(history, models.SalePoint{Date: day(offset), Quantity: 5})
	}
	svc := newTestService(&fakeStore{history: history})

	result := svc.CalculateDemandForecast(context.Background(), "ITEM-1", 365)

	require.Empty(t, result.Error)
	require.NotNil(t, result.Forecast)
	assert.Equal(t, "ITEM-1", result.ItemNumber)
	assert.Equal(t, 5.0, result.CurrentMetrics.AvgDailyDemand)
	assert.Equal(t, 35.0, result.CurrentMetrics.AvgWeeklyDemand)
	assert.Equal(t, 150.0, result.CurrentMetrics.AvgMonthlyDemand)
	assert.Equal(t, 35.0, result.Forecast.Next7Days)
	assert.Equal(t, 150.0, result.Forecast.Next30Days)
	assert.Equal(t, TrendStable, result.Forecast.Trend)
	assert.Equal(t, 0.0, result.Forecast.TrendPercentage)
	assert.Equal(t, 50.0, result.InventoryPlanning.ReorderPoint)
	assert.Equal(t, 15.0, result.InventoryPlanning.SafetyStock)
	assert.Equal(t, 35.0, result.InventoryPlanning.LeadTimeDemand)
	assert.Len(t, result.Seasonality.DayOfWeekPattern, 7)
}

func TestCalculateDemandForecast_QueriesTrailingWindow(t *testing.T) {
	store := &fakeStore{history: []models.SalePoint{{Date: day(0), Quantity: 1}}}
	svc := newTestService(store)

	svc.CalculateDemandForecast(context.Background(), "ITEM-1", 0)

	assert.Equal(t, time.Date(2023, 3, 17, 0, 0, 0, 0, time.UTC), store.lastSince)
}

func TestCalculateDemandForecast_IncreasingTrend(t *testing.T) {
	var history []models.SalePoint
	for k := 0; k < 40; k++ {
		history = append(history, models.SalePoint{Date: day(k - 39), Quantity: 1 + 0.5*float64(k)})
	}
	svc := newTestService(&fakeStore{history: history})

	result := svc.CalculateDemandForecast(context.Background(), "ITEM-2", 365)

	require.NotNil(t, result.Forecast)
	assert.Equal(t, TrendIncreasing, result.Forecast.Trend)
	assert.Equal(t, 50.0, result.Forecast.TrendPercentage)
	assert.Equal(t, 19.0, result.CurrentMetrics.AvgDailyDemand)
	assert.InDelta(t, 19*30*1.05, result.Forecast.Next30Days, 1e-9)
	assert.Equal(t, 190.0, result.InventoryPlanning.ReorderPoint)
}

func TestCalculateDemandForecast_DecreasingTrend(t *testing.T) {
	var history []models.SalePoint
	for k := 0; k < 40; k++ {
		history = append(history, models.SalePoint{Date: day(k - 39), Quantity: 30 - 0.5*float64(k)})
	}
	svc := newTestService(&fakeStore{history: history})

	result := svc.CalculateDemandForecast(context.Background(), "ITEM-3", 365)

	require.NotNil(t, result.Forecast)
	assert.Equal(t, TrendDecreasing, result.Forecast.Trend)
	assert.Equal(t, -50.0, result.Forecast.TrendPercentage)
}

func TestCalculateDemandForecast_ShortWindowHasNoDemand(t *testing.T) {
	var history []models.SalePoint
	for offset := -4; offset <= 0; offset++ {
		history = append(history, models.SalePoint{Date: day(offset), Quantity: 4})
	}
	svc := newTestService(&fakeStore{history: history})

	result := svc.CalculateDemandForecast(context.Background(), "ITEM-4", 5)

	require.NotNil(t, result.Forecast)
	assert.Equal(t, 0.0, result.CurrentMetrics.AvgDailyDemand)
	assert.Equal(t, 0.0, result.CurrentMetrics.AvgMonthlyDemand)
	assert.Equal(t, 0.0, result.InventoryPlanning.ReorderPoint)
	assert.Equal(t, TrendStable, result.Forecast.Trend)
}

func TestCalculateDemandForecast_InsufficientHistory(t *testing.T) {
	svc := newTestService(&fakeStore{})

	result := svc.CalculateDemandForecast(context.Background(), "ITEM-5", 365)

	assert.Nil(t, result.Forecast)
	assert.Equal(t, "Insufficient historical data", result.Message)
	assert.Empty(t, result.Error)
}

func TestCalculateDemandForecast_StoreFailure(t *testing.T) {
	svc := newTestService(&fakeStore{historyErr: errors.New("connection reset")})

	result := svc.CalculateDemandForecast(context.Background(), "ITEM-6", 365)

	assert.Nil(t, result.Forecast)
	assert.Contains(t, result.Error, "connection reset")
}

func TestCalculateDemandForecast_MalformedHistory(t *testing.T) {
	svc := newTestService(&fakeStore{history: []models.SalePoint{{Date: day(0), Quantity: math.Inf(1)}}})

	result := svc.CalculateDemandForecast(context.Background(), "ITEM-7", 365)

	assert.Nil(t, result.Forecast)
	assert.Contains(t, result.Error, ErrMalformedHistory.Error())
}

func TestCalculateDemandForecast_RecoversPanics(t *testing.T) {
	svc := newTestService(&fakeStore{panicOnHistory: true})

	result := svc.CalculateDemandForecast(context.Background(), "ITEM-8", 365)

	assert.Nil(t, result.Forecast)
	assert.Contains(t, result.Error, "history exploded")
}

func TestBuildForecast_ThirtyDayScalesWithDailyDemandWithoutTrend(t *testing.T) {
	for _, level := range []float64{1, 2.5, 8} {
		values := make([]float64, 14)
		for i := range values {
			values[i] = level
		}
		d := AnalyzeDemand(DailySeries{Start: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), Values: values})

		result := BuildForecast("X", d)

		assert.Equal(t, 0.0, d.Slope)
		assert.InDelta(t, result.CurrentMetrics.AvgDailyDemand*30, result.Forecast.Next30Days, 1e-9)
		assert.Equal(t, round(level*10, 0), result.InventoryPlanning.ReorderPoint)
	}
}

func TestClassifyTrend(t *testing.T) {
	cases := []struct {
		slope float64
		want  string
	}{
		{0.11, TrendIncreasing},
		{0.1, TrendStable},
		{0, TrendStable},
		{-0.1, TrendStable},
		{-0.11, TrendDecreasing},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, ClassifyTrend(c.slope), "slope %v", c.slope)
	}
}
