package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"salesdash/logging"
	"salesdash/models"
)

const sqliteTimeLayout = "2006-01-02T15:04:05Z"

var _ Store = (*SQLiteStore)(nil)

// SQLiteStore is the default single-file record store.
type SQLiteStore struct {
	db     *sqlx.DB
	logger *logging.Logger
	now    func() time.Time
}

// ConnectSQLite opens a SQLite database using the provided DSN (a file path or ":memory:").
func ConnectSQLite(dsn string, logger *logging.Logger) (*SQLiteStore, error) {
	db, err := sqlx.Connect("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	db.SetMaxOpenConns(1)
	return &SQLiteStore{db: db, logger: logger, now: time.Now}, nil
}

// Migrate creates the schema if it does not exist.
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	for _, stmt := range sqliteSchema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

func (s *SQLiteStore) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

func (s *SQLiteStore) Close() error { return s.db.Close() }

func sqliteTime(t time.Time) string {
	return t.UTC().Format(sqliteTimeLayout)
}

func parseSQLiteTime(v string) (time.Time, error) {
	t, err := time.Parse(sqliteTimeLayout, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("bad timestamp %q: %w", v, err)
	}
	return t, nil
}

type sqliteSaleRow struct {
	InvoiceID     string  `db:"invoice_id"`
	InvoiceDate   string  `db:"invoice_date"`
	AccountNumber string  `db:"account_number"`
	ItemNumber    string  `db:"item_number"`
	Description   string  `db:"description"`
	Quantity      float64 `db:"quantity"`
	UnitPrice     float64 `db:"unit_price"`
	ExtendedPrice float64 `db:"extended_price"`
	Branch        string  `db:"branch"`
	VendorCode    string  `db:"vendor_code"`
}

func (r sqliteSaleRow) record() (models.SaleRecord, error) {
	date, err := parseSQLiteTime(r.InvoiceDate)
	if err != nil {
		return models.SaleRecord{}, err
	}
	return models.SaleRecord{
		InvoiceID:     r.InvoiceID,
		InvoiceDate:   date,
		AccountNumber: r.AccountNumber,
		ItemNumber:    r.ItemNumber,
		Description:   r.Description,
		Quantity:      r.Quantity,
		UnitPrice:     r.UnitPrice,
		ExtendedPrice: r.ExtendedPrice,
		Branch:        r.Branch,
		VendorCode:    r.VendorCode,
	}, nil
}

// StoreSales inserts a batch of sale records in one transaction, skipping
// (invoice, item) pairs that already exist. It returns the number inserted.
func (s *SQLiteStore) StoreSales(ctx context.Context, records []models.SaleRecord) (int, error) {
	if err := validateSales(records); err != nil {
		return 0, err
	}
	if len(records) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin sales batch: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PreparexContext(ctx, insertSaleQuery)
	if err != nil {
		return 0, fmt.Errorf("prepare sales insert: %w", err)
	}
	defer stmt.Close()

	inserted := 0
	for _, r := range records {
		res, err := stmt.ExecContext(ctx,
			r.InvoiceID, sqliteTime(r.InvoiceDate), r.AccountNumber, r.ItemNumber, r.Description,
			r.Quantity, r.UnitPrice, r.ExtendedPrice, r.Branch, r.VendorCode,
		)
		if err != nil {
			return 0, fmt.Errorf("insert sale %s/%s: %w", r.InvoiceID, r.ItemNumber, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("insert sale %s/%s: %w", r.InvoiceID, r.ItemNumber, err)
		}
		inserted += int(n)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit sales batch: %w", err)
	}
	return inserted, nil
}

// UpdateInventoryLevels upserts a batch of inventory snapshots by item number.
func (s *SQLiteStore) UpdateInventoryLevels(ctx context.Context, levels []models.InventoryLevel) (int, error) {
	if err := validateInventory(levels); err != nil {
		return 0, err
	}
	if len(levels) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin inventory batch: %w", err)
	}
	defer tx.Rollback()

	updated := sqliteTime(s.now())
	for _, l := range levels {
		l = withInventoryDefaults(l)
		if _, err := tx.ExecContext(ctx, upsertInventoryQuery,
			l.ItemNumber, l.Description, l.QtyAvailable, l.QtyOnHand, l.OnOrder,
			l.ReorderPoint, l.LeadTime, l.LastCost, updated,
		); err != nil {
			return 0, fmt.Errorf("upsert inventory %s: %w", l.ItemNumber, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit inventory batch: %w", err)
	}
	return len(levels), nil
}

func (s *SQLiteStore) ItemSalesHistory(ctx context.Context, itemNumber string, since time.Time) ([]models.SalePoint, error) {
	var rows []struct {
		InvoiceDate   string  `db:"invoice_date"`
		Quantity      float64 `db:"quantity"`
		UnitPrice     float64 `db:"unit_price"`
		ExtendedPrice float64 `db:"extended_price"`
		AccountNumber string  `db:"account_number"`
	}
	if err := s.db.SelectContext(ctx, &rows, itemHistoryQuery, itemNumber, sqliteTime(since)); err != nil {
		return nil, fmt.Errorf("item sales history for %s: %w", itemNumber, err)
	}

	points := make([]models.SalePoint, 0, len(rows))
	for _, r := range rows {
		date, err := parseSQLiteTime(r.InvoiceDate)
		if err != nil {
			return nil, fmt.Errorf("item sales history for %s: %w", itemNumber, err)
		}
		points = append(points, models.SalePoint{
			Date:          date,
			Quantity:      r.Quantity,
			UnitPrice:     r.UnitPrice,
			ExtendedPrice: r.ExtendedPrice,
			AccountNumber: r.AccountNumber,
		})
	}
	return points, nil
}

func (s *SQLiteStore) DailySales(ctx context.Context, day time.Time) ([]models.SaleRecord, error) {
	start, end := dayBounds(day)
	records, err := s.selectSales(ctx, salesBetweenQuery, start, end)
	if err != nil {
		return nil, fmt.Errorf("daily sales for %s: %w", day.Format(time.DateOnly), err)
	}
	return records, nil
}

func (s *SQLiteStore) SalesByVendor(ctx context.Context, start, end time.Time) ([]models.SaleRecord, error) {
	from, _ := dayBounds(start)
	_, to := dayBounds(end)
	records, err := s.selectSales(ctx, vendorSalesQuery, from, to)
	if err != nil {
		return nil, fmt.Errorf("sales by vendor: %w", err)
	}
	return records, nil
}

func (s *SQLiteStore) selectSales(ctx context.Context, query string, from, to time.Time) ([]models.SaleRecord, error) {
	var rows []sqliteSaleRow
	if err := s.db.SelectContext(ctx, &rows, query, sqliteTime(from), sqliteTime(to)); err != nil {
		return nil, err
	}
	records := make([]models.SaleRecord, 0, len(rows))
	for _, r := range rows {
		rec, err := r.record()
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

// LowInventoryItems returns items with less than threshold available, lowest
// first, with days of supply estimated from the last 30 days of sales.
func (s *SQLiteStore) LowInventoryItems(ctx context.Context, threshold float64) ([]models.InventoryAlert, error) {
	var rows []struct {
		ItemNumber   string  `db:"item_number"`
		Description  string  `db:"description"`
		QtyAvailable float64 `db:"qty_available"`
		QtyOnHand    float64 `db:"qty_on_hand"`
		OnOrder      float64 `db:"on_order"`
		ReorderPoint float64 `db:"reorder_point"`
		LeadTime     int     `db:"lead_time"`
		LastUpdated  string  `db:"last_updated"`
		SoldRecently float64 `db:"sold_recently"`
	}
	since := s.now().Add(-lowInventoryWindow)
	if err := s.db.SelectContext(ctx, &rows, lowInventoryQuery, sqliteTime(since), threshold); err != nil {
		return nil, fmt.Errorf("low inventory items: %w", err)
	}

	alerts := make([]models.InventoryAlert, 0, len(rows))
	for _, r := range rows {
		alert := models.InventoryAlert{
			ItemNumber:   r.ItemNumber,
			Description:  r.Description,
			QtyAvailable: r.QtyAvailable,
			QtyOnHand:    r.QtyOnHand,
			OnOrder:      r.OnOrder,
			ReorderPoint: r.ReorderPoint,
			LeadTime:     r.LeadTime,
			DaysOfSupply: models.DaysOfSupply(r.QtyAvailable, r.SoldRecently),
		}
		if t, err := parseSQLiteTime(r.LastUpdated); err == nil {
			alert.LastModified = &t
		}
		alerts = append(alerts, alert)
	}
	return alerts, nil
}

func (s *SQLiteStore) TopCustomersByDate(ctx context.Context, day time.Time, limit int) ([]models.CustomerRevenue, error) {
	start, end := dayBounds(day)
	customers := []models.CustomerRevenue{}
	if err := s.db.SelectContext(ctx, &customers, topCustomersQuery, sqliteTime(start), sqliteTime(end), limit); err != nil {
		return nil, fmt.Errorf("top customers for %s: %w", day.Format(time.DateOnly), err)
	}
	return customers, nil
}
