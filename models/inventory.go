package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// InventoryItem is a stocked ingredient or supply.
type InventoryItem struct {
	ID              int64               `json:"id" db:"id"`
	Name            string              `json:"name" db:"name"`
	SKU             string              `json:"sku" db:"sku"`
	Description     *string             `json:"description" db:"description"`
	Unit            string              `json:"unit" db:"unit"` // pieces, kg, liters
	Quantity        decimal.Decimal     `json:"quantity" db:"quantity"`
	MinimumLevel    decimal.Decimal     `json:"minimum_level" db:"minimum_level"`
	MaximumLevel    decimal.NullDecimal `json:"maximum_level" db:"maximum_level"`
	UnitCost        decimal.NullDecimal `json:"unit_cost" db:"unit_cost"`
	ReorderPoint    decimal.NullDecimal `json:"reorder_point" db:"reorder_point"`
	ReorderQuantity decimal.NullDecimal `json:"reorder_quantity" db:"reorder_quantity"`
	LastRestockDate *time.Time          `json:"last_restock_date" db:"last_restock_date"`
	CreatedAt       time.Time           `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at" db:"updated_at"`
}

func (InventoryItem) TableName() string {
	return "inventory"
}

func (InventoryItem) CreateTableSQL() string {
	return `
	CREATE TABLE IF NOT EXISTS inventory (
		id BIGSERIAL PRIMARY KEY,
		name VARCHAR(150) NOT NULL,
		sku VARCHAR(50) NOT NULL UNIQUE,
		description TEXT,
		unit VARCHAR(50) NOT NULL,
		quantity NUMERIC(15,2) NOT NULL DEFAULT 0,
		minimum_level NUMERIC(15,2) NOT NULL DEFAULT 0,
		maximum_level NUMERIC(15,2),
		unit_cost NUMERIC(10,2),
		reorder_point NUMERIC(15,2),
		reorder_quantity NUMERIC(15,2),
		last_restock_date TIMESTAMP WITH TIME ZONE,
		created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT now(),
		updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT now()
	);`
}

// IsLowStock reports whether the item is at or below its minimum level.
func (i InventoryItem) IsLowStock() bool {
	return i.Quantity.LessThanOrEqual(i.MinimumLevel)
}

const (
	InventoryUsage      = "usage"
	InventoryAdjustment = "adjustment"
	InventoryRestock    = "restock"
	InventoryReturn     = "return"
	InventoryDamage     = "damage"
)

type InventoryTransaction struct {
	ID          int64           `json:"id" db:"id"`
	InventoryID int64           `json:"inventory_id" db:"inventory_id"`
	Type        string          `json:"type" db:"type"`
	Quantity    decimal.Decimal `json:"quantity" db:"quantity"` // signed delta applied
	Reason      *string         `json:"reason" db:"reason"`
	EmployeeID  *int64          `json:"employee_id" db:"employee_id"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
}

func (InventoryTransaction) TableName() string {
	return "inventory_transactions"
}

func (InventoryTransaction) CreateTableSQL() string {
	return `
	CREATE TABLE IF NOT EXISTS inventory_transactions (
		id BIGSERIAL PRIMARY KEY,
		inventory_id BIGINT NOT NULL REFERENCES inventory(id) ON DELETE CASCADE,
		type VARCHAR(20) NOT NULL CHECK (type IN ('usage', 'adjustment', 'restock', 'return', 'damage')),
		quantity NUMERIC(15,2) NOT NULL,
		reason TEXT,
		employee_id BIGINT REFERENCES employees(id) ON DELETE SET NULL,
		created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT now()
	);

	CREATE INDEX IF NOT EXISTS idx_inventory_transactions_inventory_id ON inventory_transactions(inventory_id);
	`
}

// SignedDelta converts a transaction quantity into the change applied to stock.
// Usage and damage always remove stock; restock and return always add it;
// adjustment is taken as given.
func SignedDelta(txType string, quantity decimal.Decimal) (decimal.Decimal, bool) {
	switch txType {
	case InventoryUsage, InventoryDamage:
		return quantity.Abs().Neg(), true
	case InventoryRestock, InventoryReturn:
		return quantity.Abs(), true
	case InventoryAdjustment:
		return quantity, true
	}
	return decimal.Zero, false
}
