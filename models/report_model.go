package models

import (
	"encoding/json"
	"time"
)

// DailySales holds the summary metrics for an arbitrary set of sale records.
type DailySales struct {
	TotalRevenue       float64 `json:"total_revenue"`
	TotalTransactions  int     `json:"total_transactions"`
	AverageTransaction float64 `json:"average_transaction"`
	ItemsSold          int     `json:"items_sold"`
}

// TopItem is one entry of the top-items ranking.
type TopItem struct {
	ItemNumber   string  `json:"item_number"`
	Description  string  `json:"description"`
	QuantitySold float64 `json:"quantity_sold"`
	Revenue      float64 `json:"revenue"`
	Transactions int     `json:"transactions"`
}

// BrandSales is the vendor/brand rollup over a date range.
type BrandSales struct {
	Brand             string  `json:"brand"`
	UnitsSold         float64 `json:"units_sold"`
	Revenue           float64 `json:"revenue"`
	UniqueItems       int     `json:"unique_items"`
	Transactions      int     `json:"transactions"`
	RevenuePercentage float64 `json:"revenue_percentage"`
}

// CustomerItemSales is one item bought by a customer over a period.
type CustomerItemSales struct {
	ItemNumber   string  `json:"item_number"`
	Description  string  `json:"description"`
	Quantity     float64 `json:"quantity"`
	Revenue      float64 `json:"revenue"`
	Transactions int     `json:"transactions"`
}

// CustomerSales summarizes a customer's purchases over a period.
type CustomerSales struct {
	AccountNumber string              `json:"account_number"`
	Period        string              `json:"period"`
	TotalRevenue  float64             `json:"total_revenue"`
	TotalItems    int                 `json:"total_items"`
	TopItems      []CustomerItemSales `json:"top_items"`
}

// CurrentDemand holds the latest smoothed demand figures of an item.
type CurrentDemand struct {
	AvgDailyDemand   float64 `json:"avg_daily_demand"`
	AvgWeeklyDemand  float64 `json:"avg_weekly_demand"`
	AvgMonthlyDemand float64 `json:"avg_monthly_demand"`
}

// DemandForecast is the projected demand and its trend classification.
type DemandForecast struct {
	Next7Days       float64 `json:"next_7_days"`
	Next30Days      float64 `json:"next_30_days"`
	Trend           string  `json:"trend"`
	TrendPercentage float64 `json:"trend_percentage"`
}

// InventoryPlanning holds whole-unit replenishment figures.
type InventoryPlanning struct {
	ReorderPoint   float64 `json:"reorder_point"`
	SafetyStock    float64 `json:"safety_stock"`
	LeadTimeDemand float64 `json:"lead_time_demand"`
}

// Seasonality maps weekday (Monday=0 ... Sunday=6) to mean daily quantity.
type Seasonality struct {
	DayOfWeekPattern map[int]float64 `json:"day_of_week_pattern"`
}

// ForecastResult is the outcome of a demand forecast. Forecast is nil when the
// item has no history (Message set) or the computation failed (Error set).
type ForecastResult struct {
	ItemNumber        string             `json:"item_number"`
	CurrentMetrics    *CurrentDemand     `json:"current_metrics,omitempty"`
	Forecast          *DemandForecast    `json:"forecast"`
	InventoryPlanning *InventoryPlanning `json:"inventory_planning,omitempty"`
	Seasonality       *Seasonality       `json:"seasonality,omitempty"`
	Message           string             `json:"message,omitempty"`
	Error             string             `json:"error,omitempty"`
}

// ReportSummary is the headline block of the daily report.
type ReportSummary struct {
	DailySales
	RevenueChangePercentage float64 `json:"revenue_change_percentage"`
}

// HourlySales is the revenue booked during one hour of the day.
type HourlySales struct {
	Hour    int     `json:"hour"`
	Revenue float64 `json:"revenue"`
}

// CategorySales is the revenue of one description bucket.
type CategorySales struct {
	Description string  `json:"description"`
	Revenue     float64 `json:"revenue"`
}

// DailyReport is the assembled report for one calendar day. Only Error is set
// when assembly failed.
type DailyReport struct {
	ReportDate        string            `json:"report_date"`
	Summary           *ReportSummary    `json:"summary"`
	TopSellingItems   []TopItem         `json:"top_selling_items"`
	InventoryAlerts   []InventoryAlert  `json:"inventory_alerts"`
	TopCustomers      []CustomerRevenue `json:"top_customers"`
	HourlySales       []HourlySales     `json:"hourly_sales"`
	CategoryBreakdown []CategorySales   `json:"category_breakdown"`
	Error             string            `json:"error,omitempty"`
}

// MarshalJSON renders a failed report as {"error": ...} and a successful one
// with every section present, empty lists as [].
func (r DailyReport) MarshalJSON() ([]byte, error) {
	if r.Error != "" {
		return json.Marshal(struct {
			Error string `json:"error"`
		}{r.Error})
	}

	type report DailyReport
	out := report(r)
	if out.Summary == nil {
		out.Summary = &ReportSummary{}
	}
	if out.TopSellingItems == nil {
		out.TopSellingItems = []TopItem{}
	}
	if out.InventoryAlerts == nil {
		out.InventoryAlerts = []InventoryAlert{}
	}
	if out.TopCustomers == nil {
		out.TopCustomers = []CustomerRevenue{}
	}
	if out.HourlySales == nil {
		out.HourlySales = []HourlySales{}
	}
	if out.CategoryBreakdown == nil {
		out.CategoryBreakdown = []CategorySales{}
	}
	return json.Marshal(out)
}

// DashboardSummary is the landing-page payload.
type DashboardSummary struct {
	TodaySales      DailySales `json:"today_sales"`
	InventoryAlerts int        `json:"inventory_alerts"`
	TopSellingItems []TopItem  `json:"top_selling_items"`
	LastUpdated     time.Time  `json:"last_updated"`
}

// ForecastInsight is the narrative produced for a forecast by the AI model.
type ForecastInsight struct {
	ItemNumber      string         `json:"item_number"`
	GeneratedAt     time.Time      `json:"generated_at"`
	Forecast        ForecastResult `json:"forecast"`
	Summary         string         `json:"summary"`
	PositiveFactors []string       `json:"positive_factors"`
	NegativeFactors []string       `json:"negative_factors"`
}
