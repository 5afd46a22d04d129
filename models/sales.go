package models

import "time"

// SaleRecord is one sold line item on one invoice.
// (InvoiceID, ItemNumber) is unique in the record store.
type SaleRecord struct {
	InvoiceID     string    `json:"invoice_id" db:"invoice_id"`
	InvoiceDate   time.Time `json:"invoice_date" db:"invoice_date"`
	AccountNumber string    `json:"account_number" db:"account_number"`
	ItemNumber    string    `json:"item_number" db:"item_number"`
	Description   string    `json:"description" db:"description"`
	Quantity      float64   `json:"quantity" db:"quantity"`
	UnitPrice     float64   `json:"unit_price" db:"unit_price"`
	ExtendedPrice float64   `json:"extended_price" db:"extended_price"`
	Branch        string    `json:"branch,omitempty" db:"branch"`
	VendorCode    string    `json:"vendor_code,omitempty" db:"vendor_code"`
}

// SalePoint is a single historical sale of an item, used for forecasting.
type SalePoint struct {
	Date          time.Time `json:"date"`
	Quantity      float64   `json:"quantity"`
	UnitPrice     float64   `json:"unit_price"`
	ExtendedPrice float64   `json:"extended_price"`
	AccountNumber string    `json:"account_number"`
}

// CustomerRevenue is one row of the top-customers ranking for a day.
type CustomerRevenue struct {
	AccountNumber string  `json:"account_number" db:"account_number"`
	TotalRevenue  float64 `json:"total_revenue" db:"total_revenue"`
	Transactions  int     `json:"transactions" db:"transactions"`
}
