package models

import "time"

const (
	DefaultReorderPoint = 10
	DefaultLeadTimeDays = 7

	// NoRecentSalesDaysOfSupply is reported when an item sold nothing in the last 30 days.
	NoRecentSalesDaysOfSupply = 999
)

// InventoryLevel is the current stock snapshot of one item, upserted by ItemNumber.
type InventoryLevel struct {
	ItemNumber   string    `json:"item_number" db:"item_number"`
	Description  string    `json:"description" db:"description"`
	QtyAvailable float64   `json:"qty_available" db:"qty_available"`
	QtyOnHand    float64   `json:"qty_on_hand" db:"qty_on_hand"`
	OnOrder      float64   `json:"on_order" db:"on_order"`
	ReorderPoint float64   `json:"reorder_point" db:"reorder_point"`
	LeadTime     int       `json:"lead_time" db:"lead_time"`
	LastCost     float64   `json:"last_cost" db:"last_cost"`
	Price        float64   `json:"price,omitempty" db:"-"`
	LastUpdated  time.Time `json:"last_updated" db:"last_updated"`
}

// InventoryAlert is a low-stock item with its estimated days of supply.
type InventoryAlert struct {
	ItemNumber   string     `json:"item_number"`
	Description  string     `json:"description"`
	QtyAvailable float64    `json:"qty_available"`
	QtyOnHand    float64    `json:"qty_on_hand"`
	OnOrder      float64    `json:"on_order"`
	ReorderPoint float64    `json:"reorder_point,omitempty"`
	LeadTime     int        `json:"lead_time"`
	DaysOfSupply int        `json:"days_of_supply"`
	LastModified *time.Time `json:"last_modified,omitempty"`
}

// DaysOfSupply converts the units sold over the last 30 days into the number of
// days the available quantity will last.
func DaysOfSupply(qtyAvailable, soldLast30Days float64) int {
	if soldLast30Days <= 0 {
		return NoRecentSalesDaysOfSupply
	}
	avgDaily := soldLast30Days / 30
	return int(qtyAvailable / avgDaily)
}
