package analytics

import (
	"context"
	"fmt"
	"sort"
	"time"

	"salesdash/models"
)

const unknownBrand = "Unknown"

// CalculateDailySales summarizes a set of sale records. The average transaction
// is the mean of the per-invoice revenue totals.
func CalculateDailySales(records []models.SaleRecord) models.DailySales {
	if len(records) == 0 {
		return models.DailySales{}
	}

	var revenue, quantity float64
	perInvoice := make(map[string]float64)
	for _, r := range records {
		revenue += r.ExtendedPrice
		quantity += r.Quantity
		perInvoice[r.InvoiceID] += r.ExtendedPrice
	}

	var invoiceSum float64
	for _, v := range perInvoice {
		invoiceSum += v
	}

	return models.DailySales{
		TotalRevenue:       revenue,
		TotalTransactions:  len(perInvoice),
		AverageTransaction: invoiceSum / float64(len(perInvoice)),
		ItemsSold:          int(quantity),
	}
}

type itemKey struct {
	itemNumber  string
	description string
}

type itemTotals struct {
	quantity float64
	revenue  float64
	invoices map[string]struct{}
}

// TopItems ranks (item, description) groups by revenue, highest first, and
// returns at most limit of them. Equal revenues keep first-seen order.
func TopItems(records []models.SaleRecord, limit int) []models.TopItem {
	if limit <= 0 {
		limit = DefaultTopItemsLimit
	}
	if len(records) == 0 {
		return []models.TopItem{}
	}

	var order []itemKey
	groups := make(map[itemKey]*itemTotals)
	for _, r := range records {
		k := itemKey{r.ItemNumber, r.Description}
		g, ok := groups[k]
		if !ok {
			g = &itemTotals{invoices: make(map[string]struct{})}
			groups[k] = g
			order = append(order, k)
		}
		g.quantity += r.Quantity
		g.revenue += r.ExtendedPrice
		g.invoices[r.InvoiceID] = struct{}{}
	}

	items := make([]models.TopItem, 0, len(order))
	for _, k := range order {
		g := groups[k]
		items = append(items, models.TopItem{
			ItemNumber:   k.itemNumber,
			Description:  k.description,
			QuantitySold: g.quantity,
			Revenue:      g.revenue,
			Transactions: len(g.invoices),
		})
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].Revenue > items[j].Revenue })

	if len(items) > limit {
		items = items[:limit]
	}
	return items
}

// BrandRollup groups vendor-tagged records by vendor code. Records without a
// vendor code are grouped under "Unknown". Sorted by revenue, highest first,
// ties by brand name.
func BrandRollup(records []models.SaleRecord) []models.BrandSales {
	type brandTotals struct {
		units    float64
		revenue  float64
		items    map[string]struct{}
		invoices map[string]struct{}
	}

	groups := make(map[string]*brandTotals)
	var total float64
	for _, r := range records {
		brand := r.VendorCode
		if brand == "" {
			brand = unknownBrand
		}
		g, ok := groups[brand]
		if !ok {
			g = &brandTotals{items: make(map[string]struct{}), invoices: make(map[string]struct{})}
			groups[brand] = g
		}
		g.units += r.Quantity
		g.revenue += r.ExtendedPrice
		g.items[r.ItemNumber] = struct{}{}
		g.invoices[r.InvoiceID] = struct{}{}
		total += r.ExtendedPrice
	}

	brands := make([]models.BrandSales, 0, len(groups))
	for brand, g := range groups {
		var pct float64
		if total != 0 {
			pct = round2(g.revenue / total * 100)
		}
		brands = append(brands, models.BrandSales{
			Brand:             brand,
			UnitsSold:         g.units,
			Revenue:           g.revenue,
			UniqueItems:       len(g.items),
			Transactions:      len(g.invoices),
			RevenuePercentage: pct,
		})
	}
	sort.Slice(brands, func(i, j int) bool {
		if brands[i].Revenue != brands[j].Revenue {
			return brands[i].Revenue > brands[j].Revenue
		}
		return brands[i].Brand < brands[j].Brand
	})
	return brands
}

// SalesByBrand rolls up vendor sales between start and end, both inclusive.
// Retrieval failures are logged and yield an empty list.
func (s *Service) SalesByBrand(ctx context.Context, start, end time.Time) (brands []models.BrandSales) {
	defer s.metrics.ObserveSince("sales_by_brand", time.Now())
	log := s.logger.WithOperation("sales_by_brand").WithFields(map[string]any{
		"start": start.Format(time.DateOnly),
		"end":   end.Format(time.DateOnly),
	})

	defer func() {
		if r := recover(); r != nil {
			log.WithError(recovered(r)).Error("Error getting sales by brand")
			brands = []models.BrandSales{}
		}
	}()

	records, err := s.store.SalesByVendor(ctx, start, end)
	if err != nil {
		log.WithError(err).Error("Error getting sales by brand")
		return []models.BrandSales{}
	}
	if len(records) == 0 {
		return []models.BrandSales{}
	}
	return BrandRollup(records)
}

// CustomerSales summarizes one customer's line items over a period: total
// revenue, distinct items and the ten items with the most revenue.
// Transactions count line items.
func CustomerSales(accountNumber string, start, end time.Time, records []models.SaleRecord) models.CustomerSales {
	var order []string
	byItem := make(map[string]*models.CustomerItemSales)
	var total float64
	for _, r := range records {
		it, ok := byItem[r.ItemNumber]
		if !ok {
			it = &models.CustomerItemSales{ItemNumber: r.ItemNumber, Description: r.Description}
			byItem[r.ItemNumber] = it
			order = append(order, r.ItemNumber)
		}
		it.Quantity += r.Quantity
		it.Revenue += r.ExtendedPrice
		it.Transactions++
		total += r.ExtendedPrice
	}

	items := make([]models.CustomerItemSales, 0, len(order))
	for _, n := range order {
		items = append(items, *byItem[n])
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].Revenue > items[j].Revenue })
	if len(items) > DefaultTopItemsLimit {
		items = items[:DefaultTopItemsLimit]
	}

	return models.CustomerSales{
		AccountNumber: accountNumber,
		Period:        fmt.Sprintf("%s to %s", start.Format(time.DateOnly), end.Format(time.DateOnly)),
		TotalRevenue:  total,
		TotalItems:    len(byItem),
		TopItems:      items,
	}
}

// HourlyRevenue buckets revenue by hour of the invoice time in loc.
func HourlyRevenue(records []models.SaleRecord, loc *time.Location) []models.HourlySales {
	var byHour [24]float64
	var seen [24]bool
	for _, r := range records {
		h := r.InvoiceDate.In(loc).Hour()
		byHour[h] += r.ExtendedPrice
		seen[h] = true
	}

	out := make([]models.HourlySales, 0, 24)
	for h := 0; h < 24; h++ {
		if seen[h] {
			out = append(out, models.HourlySales{Hour: h, Revenue: byHour[h]})
		}
	}
	return out
}

// CategoryBreakdown returns the ten descriptions with the most revenue.
func CategoryBreakdown(records []models.SaleRecord) []models.CategorySales {
	var order []string
	totals := make(map[string]float64)
	for _, r := range records {
		if _, ok := totals[r.Description]; !ok {
			order = append(order, r.Description)
		}
		totals[r.Description] += r.ExtendedPrice
	}

	out := make([]models.CategorySales, 0, len(order))
	for _, d := range order {
		out = append(out, models.CategorySales{Description: d, Revenue: totals[d]})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Revenue > out[j].Revenue })
	if len(out) > reportListLimit {
		out = out[:reportListLimit]
	}
	return out
}
