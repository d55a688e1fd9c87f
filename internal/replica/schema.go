package replica

import (
	"database/sql"
	"fmt"
)

// Schema DDL, kept in lockstep with internal/replica/migrations. Column names
// follow the remote schema; most columns are nullable because the replication
// service forwards remote nulls untouched.
const schemaDDL = `
CREATE TABLE IF NOT EXISTS products (
	id                TEXT PRIMARY KEY,
	sku               TEXT NOT NULL,
	product_name      TEXT,
	brand_name        TEXT,
	channel_code      INTEGER,
	unit_price_cents  INTEGER,
	unit_cost_cents   INTEGER,
	qty_available     INTEGER,
	qty_reserved      INTEGER,
	is_archived       INTEGER NOT NULL DEFAULT 0,
	updated_at        TEXT
);

CREATE TABLE IF NOT EXISTS orders (
	id            TEXT PRIMARY KEY,
	order_number  TEXT NOT NULL,
	customer_id   TEXT REFERENCES customers(id),
	status_code   INTEGER,
	channel_code  INTEGER,
	total_cents   INTEGER,
	item_count    INTEGER,
	picker_name   TEXT,
	placed_at     TEXT
);

CREATE TABLE IF NOT EXISTS customers (
	id              TEXT PRIMARY KEY,
	display_name    TEXT,
	email           TEXT,
	phone           TEXT,
	channel_code    INTEGER,
	order_count     INTEGER,
	lifetime_cents  INTEGER,
	last_order_at   TEXT,
	tags            TEXT
);

CREATE INDEX IF NOT EXISTS idx_products_brand ON products(brand_name);
CREATE INDEX IF NOT EXISTS idx_orders_status ON orders(status_code);
CREATE INDEX IF NOT EXISTS idx_orders_placed ON orders(placed_at);
CREATE INDEX IF NOT EXISTS idx_customers_name ON customers(display_name);
`

// EnsureSchema creates the replica tables directly, bypassing golang-migrate.
// Used for in-memory stores (tests, demo seeding) where there is no db file
// for the migrate driver to own.
func EnsureSchema(db *sql.DB) error {
	if _, err := db.Exec(schemaDDL); err != nil {
		return fmt.Errorf("create replica schema: %w", err)
	}
	return nil
}
