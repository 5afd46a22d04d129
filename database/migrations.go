package database

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS sales_data (
            id BIGSERIAL PRIMARY KEY,
            invoice_id VARCHAR(50) NOT NULL,
            invoice_date TIMESTAMPTZ NOT NULL,
            account_number VARCHAR(50) NOT NULL DEFAULT '',
            item_number VARCHAR(50) NOT NULL,
            description VARCHAR(255) NOT NULL DEFAULT '',
            quantity DOUBLE PRECISION NOT NULL,
            unit_price DOUBLE PRECISION NOT NULL DEFAULT 0,
            extended_price DOUBLE PRECISION NOT NULL,
            branch VARCHAR(10) NOT NULL DEFAULT '',
            vendor_code VARCHAR(50),
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        );`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_sales_invoice_item ON sales_data (invoice_id, item_number);`,
	`CREATE INDEX IF NOT EXISTS idx_sales_date_item ON sales_data (invoice_date, item_number);`,
	`CREATE INDEX IF NOT EXISTS idx_sales_account_date ON sales_data (account_number, invoice_date);`,
	`CREATE INDEX IF NOT EXISTS idx_sales_item ON sales_data (item_number);`,
	`CREATE TABLE IF NOT EXISTS inventory_levels (
            id BIGSERIAL PRIMARY KEY,
            item_number VARCHAR(50) NOT NULL UNIQUE,
            description VARCHAR(255) NOT NULL DEFAULT '',
            qty_available DOUBLE PRECISION NOT NULL DEFAULT 0,
            qty_on_hand DOUBLE PRECISION NOT NULL DEFAULT 0,
            on_order DOUBLE PRECISION NOT NULL DEFAULT 0,
            reorder_point DOUBLE PRECISION NOT NULL DEFAULT 10,
            lead_time INTEGER NOT NULL DEFAULT 7,
            last_cost DOUBLE PRECISION NOT NULL DEFAULT 0,
            last_updated TIMESTAMPTZ NOT NULL DEFAULT NOW()
        );`,
}

// SQLite keeps timestamps as fixed-width UTC text (sqliteTimeLayout) so that
// string comparison orders them chronologically.
var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS sales_data (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            invoice_id TEXT NOT NULL,
            invoice_date TEXT NOT NULL,
            account_number TEXT NOT NULL DEFAULT '',
            item_number TEXT NOT NULL,
            description TEXT NOT NULL DEFAULT '',
            quantity REAL NOT NULL,
            unit_price REAL NOT NULL DEFAULT 0,
            extended_price REAL NOT NULL,
            branch TEXT NOT NULL DEFAULT '',
            vendor_code TEXT,
            created_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
        );`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_sales_invoice_item ON sales_data (invoice_id, item_number);`,
	`CREATE INDEX IF NOT EXISTS idx_sales_date_item ON sales_data (invoice_date, item_number);`,
	`CREATE INDEX IF NOT EXISTS idx_sales_account_date ON sales_data (account_number, invoice_date);`,
	`CREATE INDEX IF NOT EXISTS idx_sales_item ON sales_data (item_number);`,
	`CREATE TABLE IF NOT EXISTS inventory_levels (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            item_number TEXT NOT NULL UNIQUE,
            description TEXT NOT NULL DEFAULT '',
            qty_available REAL NOT NULL DEFAULT 0,
            qty_on_hand REAL NOT NULL DEFAULT 0,
            on_order REAL NOT NULL DEFAULT 0,
            reorder_point REAL NOT NULL DEFAULT 10,
            lead_time INTEGER NOT NULL DEFAULT 7,
            last_cost REAL NOT NULL DEFAULT 0,
            last_updated TEXT NOT NULL
        );`,
}
