package database

import "fmt"

// Migrate creates the schema when it does not exist yet. Statements are
// idempotent so the call is safe on every startup.
func (db *DB) Migrate() error {
	db.logger.Info("Running database migrations")

	for i, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			db.logger.Error("Migration statement failed", "statement", i, "error", err)
			return fmt.Errorf("migration statement %d failed: %w", i, err)
		}
	}

	db.logger.Info("Database migrations complete", "statements", len(schema))
	return nil
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS subscriptions (
		id UUID PRIMARY KEY,
		owner_id UUID,
		business_name TEXT NOT NULL DEFAULT '',
		tier TEXT NOT NULL DEFAULT 'basic' CHECK (tier IN ('basic', 'premium', 'enterprise')),
		active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		expires_at TIMESTAMPTZ NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		first_name TEXT NOT NULL DEFAULT '',
		last_name TEXT NOT NULL DEFAULT '',
		role TEXT NOT NULL DEFAULT 'cashier' CHECK (role IN ('owner', 'admin', 'cashier')),
		subscription_id UUID REFERENCES subscriptions(id) ON DELETE SET NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,

	`CREATE TABLE IF NOT EXISTS customers (
		id UUID PRIMARY KEY,
		subscription_id UUID REFERENCES subscriptions(id) ON DELETE CASCADE,
		name TEXT NOT NULL,
		email TEXT NOT NULL DEFAULT '',
		phone TEXT NOT NULL DEFAULT '',
		address TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,

	`CREATE TABLE IF NOT EXISTS products (
		id UUID PRIMARY KEY,
		subscription_id UUID REFERENCES subscriptions(id) ON DELETE CASCADE,
		name TEXT NOT NULL,
		sku TEXT NOT NULL UNIQUE,
		description TEXT NOT NULL DEFAULT '',
		price NUMERIC(10,2) NOT NULL CHECK (price >= 0.01),
		cost_price NUMERIC(10,2) NOT NULL DEFAULT 0 CHECK (cost_price >= 0),
		stock INTEGER NOT NULL DEFAULT 0 CHECK (stock >= 0),
		reorder_level INTEGER NOT NULL DEFAULT 5 CHECK (reorder_level >= 0),
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		created_by UUID,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,

	`CREATE INDEX IF NOT EXISTS idx_products_subscription ON products (subscription_id)`,
	`CREATE INDEX IF NOT EXISTS idx_products_sku ON products (sku)`,

	`CREATE TABLE IF NOT EXISTS restock_history (
		id UUID PRIMARY KEY,
		product_id UUID NOT NULL REFERENCES products(id) ON DELETE CASCADE,
		quantity INTEGER NOT NULL CHECK (quantity > 0),
		restocked_by UUID,
		restocked_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		note TEXT NOT NULL DEFAULT ''
	)`,

	`CREATE TABLE IF NOT EXISTS orders (
		id UUID PRIMARY KEY,
		subscription_id UUID REFERENCES subscriptions(id) ON DELETE CASCADE,
		user_id UUID REFERENCES users(id) ON DELETE SET NULL,
		customer_id UUID REFERENCES customers(id) ON DELETE SET NULL,
		status TEXT NOT NULL DEFAULT 'draft' CHECK (status IN ('draft', 'completed', 'canceled')),
		payment_method TEXT NOT NULL DEFAULT 'cash' CHECK (payment_method IN ('cash', 'card', 'transfer', 'mobile')),
		tax_rate NUMERIC(5,2) NOT NULL DEFAULT 8,
		discount NUMERIC(5,2) NOT NULL DEFAULT 0,
		total NUMERIC(12,2) NOT NULL DEFAULT 0,
		amount_paid NUMERIC(12,2) NOT NULL DEFAULT 0,
		change_given NUMERIC(12,2) NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,

	`CREATE INDEX IF NOT EXISTS idx_orders_subscription ON orders (subscription_id)`,
	`CREATE INDEX IF NOT EXISTS idx_orders_status ON orders (status)`,
	`CREATE INDEX IF NOT EXISTS idx_orders_created_at ON orders (created_at)`,

	`CREATE TABLE IF NOT EXISTS order_items (
		id UUID PRIMARY KEY,
		order_id UUID NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
		product_id UUID NOT NULL REFERENCES products(id) ON DELETE RESTRICT,
		quantity INTEGER NOT NULL CHECK (quantity > 0),
		price NUMERIC(10,2) NOT NULL,
		UNIQUE (order_id, product_id)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_order_items_order ON order_items (order_id)`,
	`CREATE INDEX IF NOT EXISTS idx_order_items_product ON order_items (product_id)`,

	`CREATE TABLE IF NOT EXISTS sales_reports (
		id UUID PRIMARY KEY,
		subscription_id UUID REFERENCES subscriptions(id) ON DELETE CASCADE,
		report_date DATE NOT NULL DEFAULT CURRENT_DATE,
		start_date DATE NOT NULL,
		end_date DATE NOT NULL,
		total_sales NUMERIC(12,2) NOT NULL DEFAULT 0,
		total_orders INTEGER NOT NULL DEFAULT 0,
		total_items_sold INTEGER NOT NULL DEFAULT 0,
		average_order_value NUMERIC(10,2) NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,

	`CREATE INDEX IF NOT EXISTS idx_sales_reports_subscription_date ON sales_reports (subscription_id, report_date)`,
}
