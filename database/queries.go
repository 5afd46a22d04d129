package database

// Queries are written with ? placeholders and rebound per driver.
const (
	insertSaleQuery = `
		INSERT INTO sales_data (invoice_id, invoice_date, account_number, item_number, description,
		                        quantity, unit_price, extended_price, branch, vendor_code)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, NULLIF(?, ''))
		ON CONFLICT (invoice_id, item_number) DO NOTHING`

	upsertInventoryQuery = `
		INSERT INTO inventory_levels (item_number, description, qty_available, qty_on_hand, on_order,
		                              reorder_point, lead_time, last_cost, last_updated)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (item_number) DO UPDATE SET
			qty_available = excluded.qty_available,
			qty_on_hand = excluded.qty_on_hand,
			on_order = excluded.on_order,
			last_cost = excluded.last_cost,
			last_updated = excluded.last_updated`

	itemHistoryQuery = `
		SELECT invoice_date, quantity, unit_price, extended_price, account_number
		FROM sales_data
		WHERE item_number = ? AND invoice_date >= ?
		ORDER BY invoice_date, id`

	salesBetweenQuery = `
		SELECT invoice_id, invoice_date, account_number, item_number, description, quantity,
		       unit_price, extended_price, branch, COALESCE(vendor_code, '') AS vendor_code
		FROM sales_data
		WHERE invoice_date >= ? AND invoice_date < ?
		ORDER BY invoice_date, id`

	vendorSalesQuery = `
		SELECT invoice_id, invoice_date, account_number, item_number, description, quantity,
		       unit_price, extended_price, branch, vendor_code
		FROM sales_data
		WHERE invoice_date >= ? AND invoice_date < ? AND vendor_code IS NOT NULL
		ORDER BY invoice_date, id`

	lowInventoryQuery = `
		SELECT i.item_number, i.description, i.qty_available, i.qty_on_hand, i.on_order,
		       i.reorder_point, i.lead_time, i.last_updated,
		       COALESCE((SELECT SUM(s.quantity) FROM sales_data s
		                 WHERE s.item_number = i.item_number AND s.invoice_date >= ?), 0.0) AS sold_recently
		FROM inventory_levels i
		WHERE i.qty_available < ?
		ORDER BY i.qty_available, i.item_number`

	topCustomersQuery = `
		SELECT account_number, SUM(extended_price) AS total_revenue,
		       COUNT(DISTINCT invoice_id) AS transactions
		FROM sales_data
		WHERE invoice_date >= ? AND invoice_date < ?
		GROUP BY account_number
		ORDER BY total_revenue DESC, account_number
		LIMIT ?`
)
