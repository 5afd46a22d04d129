package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/jmoiron/sqlx"

	"salesdash/logging"
	"salesdash/models"
)

var _ Store = (*PostgresStore)(nil)

// PostgresStore is the record store backed by a pgx connection pool.
type PostgresStore struct {
	pool   *pgxpool.Pool
	logger *logging.Logger
	now    func() time.Time
}

// ConnectPostgres sets up the database connection pool and checks it with a ping.
func ConnectPostgres(ctx context.Context, databaseURL string, logger *logging.Logger) (*PostgresStore, error) {
	pool, err := pgxpool.Connect(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}
	return &PostgresStore{pool: pool, logger: logger, now: time.Now}, nil
}

func pg(query string) string {
	return sqlx.Rebind(sqlx.DOLLAR, query)
}

func (p *PostgresStore) Migrate(ctx context.Context) error {
	for _, stmt := range postgresSchema {
		if _, err := p.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

func (p *PostgresStore) Ping(ctx context.Context) error { return p.pool.Ping(ctx) }

func (p *PostgresStore) Close() error {
	p.pool.Close()
	p.logger.Info("Database connection pool closed")
	return nil
}

func (p *PostgresStore) StoreSales(ctx context.Context, records []models.SaleRecord) (int, error) {
	if err := validateSales(records); err != nil {
		return 0, err
	}
	if len(records) == 0 {
		return 0, nil
	}

	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin sales batch: %w", err)
	}
	defer tx.Rollback(ctx)

	query := pg(insertSaleQuery)
	inserted := 0
	for _, r := range records {
		tag, err := tx.Exec(ctx, query,
			r.InvoiceID, r.InvoiceDate.UTC(), r.AccountNumber, r.ItemNumber, r.Description,
			r.Quantity, r.UnitPrice, r.ExtendedPrice, r.Branch, r.VendorCode,
		)
		if err != nil {
			return 0, fmt.Errorf("insert sale %s/%s: %w", r.InvoiceID, r.ItemNumber, err)
		}
		inserted += int(tag.RowsAffected())
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit sales batch: %w", err)
	}
	return inserted, nil
}

func (p *PostgresStore) UpdateInventoryLevels(ctx context.Context, levels []models.InventoryLevel) (int, error) {
	if err := validateInventory(levels); err != nil {
		return 0, err
	}
	if len(levels) == 0 {
		return 0, nil
	}

	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin inventory batch: %w", err)
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	updated := p.now().UTC()
	for _, l := range levels {
		l = withInventoryDefaults(l)
		batch.Queue(pg(upsertInventoryQuery),
			l.ItemNumber, l.Description, l.QtyAvailable, l.QtyOnHand, l.OnOrder,
			l.ReorderPoint, l.LeadTime, l.LastCost, updated,
		)
	}

	br := tx.SendBatch(ctx, batch)
	for _, l := range levels {
		if _, err := br.Exec(); err != nil {
			br.Close()
			return 0, fmt.Errorf("upsert inventory %s: %w", l.ItemNumber, err)
		}
	}
	if err := br.Close(); err != nil {
		return 0, fmt.Errorf("upsert inventory: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit inventory batch: %w", err)
	}
	return len(levels), nil
}

func (p *PostgresStore) ItemSalesHistory(ctx context.Context, itemNumber string, since time.Time) ([]models.SalePoint, error) {
	rows, err := p.pool.Query(ctx, pg(itemHistoryQuery), itemNumber, since.UTC())
	if err != nil {
		return nil, fmt.Errorf("item sales history for %s: %w", itemNumber, err)
	}
	defer rows.Close()

	points := []models.SalePoint{}
	for rows.Next() {
		var sp models.SalePoint
		if err := rows.Scan(&sp.Date, &sp.Quantity, &sp.UnitPrice, &sp.ExtendedPrice, &sp.AccountNumber); err != nil {
			return nil, fmt.Errorf("item sales history for %s: %w", itemNumber, err)
		}
		sp.Date = sp.Date.UTC()
		points = append(points, sp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("item sales history for %s: %w", itemNumber, err)
	}
	return points, nil
}

func (p *PostgresStore) DailySales(ctx context.Context, day time.Time) ([]models.SaleRecord, error) {
	start, end := dayBounds(day)
	records, err := p.selectSales(ctx, salesBetweenQuery, start, end)
	if err != nil {
		return nil, fmt.Errorf("daily sales for %s: %w", day.Format(time.DateOnly), err)
	}
	return records, nil
}

func (p *PostgresStore) SalesByVendor(ctx context.Context, start, end time.Time) ([]models.SaleRecord, error) {
	from, _ := dayBounds(start)
	_, to := dayBounds(end)
	records, err := p.selectSales(ctx, vendorSalesQuery, from, to)
	if err != nil {
		return nil, fmt.Errorf("sales by vendor: %w", err)
	}
	return records, nil
}

func (p *PostgresStore) selectSales(ctx context.Context, query string, from, to time.Time) ([]models.SaleRecord, error) {
	rows, err := p.pool.Query(ctx, pg(query), from.UTC(), to.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []models.SaleRecord{}
	for rows.Next() {
		var r models.SaleRecord
		if err := rows.Scan(
			&r.InvoiceID, &r.InvoiceDate, &r.AccountNumber, &r.ItemNumber, &r.Description,
			&r.Quantity, &r.UnitPrice, &r.ExtendedPrice, &r.Branch, &r.VendorCode,
		); err != nil {
			return nil, err
		}
		r.InvoiceDate = r.InvoiceDate.UTC()
		records = append(records, r)
	}
	return records, rows.Err()
}

func (p *PostgresStore) LowInventoryItems(ctx context.Context, threshold float64) ([]models.InventoryAlert, error) {
	since := p.now().Add(-lowInventoryWindow).UTC()
	rows, err := p.pool.Query(ctx, pg(lowInventoryQuery), since, threshold)
	if err != nil {
		return nil, fmt.Errorf("low inventory items: %w", err)
	}
	defer rows.Close()

	alerts := []models.InventoryAlert{}
	for rows.Next() {
		var (
			a            models.InventoryAlert
			lastUpdated  time.Time
			soldRecently float64
		)
		if err := rows.Scan(
			&a.ItemNumber, &a.Description, &a.QtyAvailable, &a.QtyOnHand, &a.OnOrder,
			&a.ReorderPoint, &a.LeadTime, &lastUpdated, &soldRecently,
		); err != nil {
			return nil, fmt.Errorf("low inventory items: %w", err)
		}
		lastUpdated = lastUpdated.UTC()
		a.LastModified = &lastUpdated
		a.DaysOfSupply = models.DaysOfSupply(a.QtyAvailable, soldRecently)
		alerts = append(alerts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("low inventory items: %w", err)
	}
	return alerts, nil
}

func (p *PostgresStore) TopCustomersByDate(ctx context.Context, day time.Time, limit int) ([]models.CustomerRevenue, error) {
	start, end := dayBounds(day)
	rows, err := p.pool.Query(ctx, pg(topCustomersQuery), start.UTC(), end.UTC(), limit)
	if err != nil {
		return nil, fmt.Errorf("top customers for %s: %w", day.Format(time.DateOnly), err)
	}
	defer rows.Close()

	customers := []models.CustomerRevenue{}
	for rows.Next() {
		var c models.CustomerRevenue
		if err := rows.Scan(&c.AccountNumber, &c.TotalRevenue, &c.Transactions); err != nil {
			return nil, fmt.Errorf("top customers for %s: %w", day.Format(time.DateOnly), err)
		}
		customers = append(customers, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("top customers for %s: %w", day.Format(time.DateOnly), err)
	}
	return customers, nil
}
