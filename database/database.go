package database

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"diner-pos-server/models"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"
)

type DB struct {
	*sql.DB
}

// Connect opens a pool with the named driver ("postgres" for lib/pq, "pgx"
// for pgx/v5) and verifies it with a ping.
func Connect(ctx context.Context, driver, databaseURL string, maxOpenConns int) (*DB, error) {
	db, err := sql.Open(driver, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if maxOpenConns > 0 {
		db.SetMaxOpenConns(maxOpenConns)
		db.SetMaxIdleConns(maxOpenConns / 2)
	}
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", Classify(err))
	}

	return &DB{db}, nil
}

type tableModel interface {
	TableName() string
	CreateTableSQL() string
}

// Tables in creation order (foreign keys point backwards).
var tables = []tableModel{
	models.User{},
	models.Employee{},
	models.Shift{},
	models.MenuCategory{},
	models.MenuItem{},
	models.Modifier{},
	models.ModifierOption{},
	models.ItemModifier{},
	models.Combo{},
	models.ComboItem{},
	models.InventoryItem{},
	models.InventoryTransaction{},
	models.DiningTable{},
	models.Customer{},
	models.Order{},
	models.OrderItem{},
	models.LoyaltyTransaction{},
	models.Payment{},
	models.SplitPayment{},
	models.Receipt{},
	models.CashDrawer{},
	models.DailySales{},
	models.TopItem{},
}

// InitializeTables creates all tables if they don't exist
func (db *DB) InitializeTables(ctx context.Context) error {
	for _, model := range tables {
		log.Printf("Creating table: %s", model.TableName())
		if _, err := db.ExecContext(ctx, model.CreateTableSQL()); err != nil {
			return fmt.Errorf("failed to create table %s: %w", model.TableName(), Classify(err))
		}
	}

	db.runMigrations(ctx)

	log.Println("All tables created successfully!")
	return nil
}

// migrations bring databases created by older builds up to date. Each one
// must be safe to run repeatedly.
var migrations = []string{
	`ALTER TABLE users ADD COLUMN IF NOT EXISTS push_token TEXT;`,
	`ALTER TABLE users ADD COLUMN IF NOT EXISTS last_signed_in TIMESTAMP WITH TIME ZONE;`,
	`ALTER TABLE cash_drawers ADD COLUMN IF NOT EXISTS notes TEXT;`,
	`ALTER TABLE orders ADD COLUMN IF NOT EXISTS loyalty_points_used NUMERIC(15,2) NOT NULL DEFAULT 0;`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_cash_drawers_one_open ON cash_drawers(employee_id) WHERE status = 'open';`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_shifts_one_running ON shifts(employee_id) WHERE end_time IS NULL;`,
	`CREATE INDEX IF NOT EXISTS idx_inventory_low_stock ON inventory(quantity, minimum_level);`,
	`CREATE INDEX IF NOT EXISTS idx_payments_created_at ON payments(created_at);`,
	`ALTER TABLE daily_sales ADD COLUMN IF NOT EXISTS source VARCHAR(10) NOT NULL DEFAULT 'manual';`,
	`ALTER TABLE top_items ADD COLUMN IF NOT EXISTS source VARCHAR(10) NOT NULL DEFAULT 'manual';`,
}

// runMigrations handles schema updates for existing tables. A failing
// migration is logged and the rest still run.
func (db *DB) runMigrations(ctx context.Context) {
	for i, migration := range migrations {
		if _, err := db.ExecContext(ctx, migration); err != nil {
			log.Printf("Warning: Migration %d failed: %v", i+1, err)
		}
	}
	log.Println("Migrations completed!")
}

// HealthCheck pings the database and classifies a failure.
func (db *DB) HealthCheck(ctx context.Context) error {
	if err := db.PingContext(ctx); err != nil {
		return Classify(err)
	}
	return nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.DB.Close()
}
