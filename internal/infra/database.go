package infra

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase opens a GORM connection and brings the schema up to date.
// TranslateError maps driver unique-violation errors to gorm.ErrDuplicatedKey
// so services can detect barcode collisions without parsing SQLSTATE codes.
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := RunMigrations(db); err != nil {
		return nil, fmt.Errorf("migrations: %w", err)
	}
	return db, nil
}

// migration is one versioned schema step. Steps are applied in order and
// recorded in schema_migrations; a step that has already run is skipped.
type migration struct {
	version int
	descr   string
	sql     string
}

// Schema is managed exclusively through these SQL migrations — GORM
// AutoMigrate is not used, so decimal precision, CHECK constraints, and FK
// delete rules stay exactly as written.
var migrations = []migration{
	{1, "products table", `
CREATE TABLE IF NOT EXISTS products (
	id                  UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	barcode             TEXT NOT NULL UNIQUE,
	name                TEXT NOT NULL,
	category            TEXT NOT NULL CHECK (category IN (
		'Beverages','Biscuits','Dairy','Snacks','Ice Creams',
		'Frozen Foods','Bakery','Fruits & Vegetables','Meat & Seafood',
		'Instant Food','Cooking Oil','Spices & Masala','Rice & Grains',
		'Pulses & Dals','Sauces & Condiments','Health Drinks','Confectionery',
		'Personal Care','Health & Wellness','Baby Care','Cleaning Supplies',
		'Detergents','Household Items','Stationery','Pet Care','Other')),
	buy_price           DECIMAL(10,2) NOT NULL CHECK (buy_price >= 0),
	sell_price          DECIMAL(10,2) NOT NULL CHECK (sell_price >= buy_price),
	quantity            INT NOT NULL DEFAULT 0 CHECK (quantity >= 0),
	low_stock_threshold INT NOT NULL DEFAULT 4 CHECK (low_stock_threshold >= 0),
	active              BOOLEAN NOT NULL DEFAULT TRUE,
	created_at          TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at          TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_products_name ON products (name);
CREATE INDEX IF NOT EXISTS idx_products_category ON products (category)`},

	{2, "sales and sale_items tables", `
CREATE TABLE IF NOT EXISTS sales (
	id              UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	bill_number     TEXT NOT NULL UNIQUE,
	total_amount    DECIMAL(10,2) NOT NULL CHECK (total_amount >= 0),
	discount_amount DECIMAL(10,2) NOT NULL DEFAULT 0 CHECK (discount_amount >= 0),
	final_amount    DECIMAL(10,2) NOT NULL CHECK (final_amount >= 0),
	customer_phone  TEXT,
	payment_method  VARCHAR(10) NOT NULL CHECK (payment_method IN ('cash','card','upi','other')),
	whatsapp_sent   BOOLEAN NOT NULL DEFAULT FALSE,
	sale_date       TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_sales_sale_date ON sales (sale_date);

CREATE TABLE IF NOT EXISTS sale_items (
	id           UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	sale_id      UUID NOT NULL REFERENCES sales(id) ON DELETE CASCADE,
	product_id   UUID NOT NULL REFERENCES products(id) ON DELETE RESTRICT,
	barcode      TEXT NOT NULL,
	product_name TEXT NOT NULL,
	quantity     INT NOT NULL CHECK (quantity > 0),
	unit_price   DECIMAL(10,2) NOT NULL CHECK (unit_price >= 0),
	total_price  DECIMAL(10,2) NOT NULL CHECK (total_price >= 0)
);
CREATE INDEX IF NOT EXISTS idx_sale_items_sale ON sale_items (sale_id);
CREATE INDEX IF NOT EXISTS idx_sale_items_product ON sale_items (product_id)`},

	{3, "stock_in table", `
CREATE TABLE IF NOT EXISTS stock_in (
	id             UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	product_id     UUID NOT NULL REFERENCES products(id) ON DELETE CASCADE,
	quantity_added INT NOT NULL CHECK (quantity_added > 0),
	purchase_price DECIMAL(10,2) CHECK (purchase_price >= 0),
	notes          TEXT NOT NULL DEFAULT '',
	created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_stock_in_product ON stock_in (product_id);
CREATE INDEX IF NOT EXISTS idx_stock_in_created ON stock_in (created_at)`},

	{4, "users table", `
CREATE TABLE IF NOT EXISTS users (
	id            UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	username      TEXT NOT NULL UNIQUE,
	name          TEXT NOT NULL,
	email         TEXT,
	password_hash TEXT NOT NULL,
	role          VARCHAR(20) NOT NULL CHECK (role IN ('admin','cashier')),
	active        BOOLEAN NOT NULL DEFAULT TRUE,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`},
}

// RunMigrations applies every pending migration in order. Safe to run at each
// startup and from integration tests.
func RunMigrations(db *gorm.DB) error {
	if err := db.Exec(`
CREATE TABLE IF NOT EXISTS schema_migrations (
	version    INT PRIMARY KEY,
	applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`).Error; err != nil {
		return fmt.Errorf("schema_migrations table: %w", err)
	}

	for _, m := range migrations {
		var applied int64
		if err := db.Table("schema_migrations").
			Where("version = ?", m.version).
			Count(&applied).Error; err != nil {
			return fmt.Errorf("check version %d: %w", m.version, err)
		}
		if applied > 0 {
			continue
		}
		err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Exec(m.sql).Error; err != nil {
				return err
			}
			return tx.Exec(`INSERT INTO schema_migrations (version) VALUES (?)`, m.version).Error
		})
		if err != nil {
			return fmt.Errorf("migration %d (%s): %w", m.version, m.descr, err)
		}
	}
	return nil
}
