package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderConfirmed OrderStatus = "confirmed"
	OrderPreparing OrderStatus = "preparing"
	OrderReady     OrderStatus = "ready"
	OrderCompleted OrderStatus = "completed"
	OrderCancelled OrderStatus = "cancelled"
)

// ActiveOrderStatuses are the statuses shown on the kitchen and floor screens.
var ActiveOrderStatuses = []OrderStatus{OrderPending, OrderConfirmed, OrderPreparing, OrderReady}

var orderStatusRank = map[OrderStatus]int{
	OrderPending:   1,
	OrderConfirmed: 2,
	OrderPreparing: 3,
	OrderReady:     4,
	OrderCompleted: 5,
}

func (s OrderStatus) Valid() bool {
	_, ok := orderStatusRank[s]
	return ok || s == OrderCancelled
}

func (s OrderStatus) Terminal() bool {
	return s == OrderCompleted || s == OrderCancelled
}

// CanTransitionTo allows only forward moves; cancellation is allowed from
// any non-terminal status.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	if s.Terminal() || !next.Valid() {
		return false
	}
	if next == OrderCancelled {
		return true
	}
	return orderStatusRank[next] > orderStatusRank[s]
}

const (
	OrderTypeDineIn   = "dine_in"
	OrderTypeTakeout  = "takeout"
	OrderTypeDelivery = "delivery"
)

func ValidOrderType(t string) bool {
	switch t {
	case OrderTypeDineIn, OrderTypeTakeout, OrderTypeDelivery:
		return true
	}
	return false
}

type Order struct {
	ID                  int64           `json:"id" db:"id"`
	OrderNumber         string          `json:"order_number" db:"order_number"`
	CustomerID          *int64          `json:"customer_id" db:"customer_id"`
	EmployeeID          *int64          `json:"employee_id" db:"employee_id"`
	TableID             *int64          `json:"table_id" db:"table_id"`
	OrderType           string          `json:"order_type" db:"order_type"`
	Status              OrderStatus     `json:"status" db:"status"`
	Subtotal            decimal.Decimal `json:"subtotal" db:"subtotal"`
	Tax                 decimal.Decimal `json:"tax" db:"tax"`
	Discount            decimal.Decimal `json:"discount" db:"discount"`
	Total               decimal.Decimal `json:"total" db:"total"`
	LoyaltyPointsEarned decimal.Decimal `json:"loyalty_points_earned" db:"loyalty_points_earned"`
	LoyaltyPointsUsed   decimal.Decimal `json:"loyalty_points_used" db:"loyalty_points_used"`
	Notes               *string         `json:"notes" db:"notes"`
	CreatedAt           time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at" db:"updated_at"`
	CompletedAt         *time.Time      `json:"completed_at" db:"completed_at"`
	Items               []OrderItem     `json:"items,omitempty"`
}

func (Order) TableName() string {
	return "orders"
}

func (Order) CreateTableSQL() string {
	return `
	CREATE TABLE IF NOT EXISTS orders (
		id BIGSERIAL PRIMARY KEY,
		order_number VARCHAR(50) NOT NULL UNIQUE,
		customer_id BIGINT REFERENCES customers(id) ON DELETE SET NULL,
		employee_id BIGINT REFERENCES employees(id) ON DELETE SET NULL,
		table_id BIGINT REFERENCES dining_tables(id) ON DELETE SET NULL,
		order_type VARCHAR(20) NOT NULL CHECK (order_type IN ('dine_in', 'takeout', 'delivery')),
		status VARCHAR(20) NOT NULL DEFAULT 'pending' CHECK (status IN ('pending', 'confirmed', 'preparing', 'ready', 'completed', 'cancelled')),
		subtotal NUMERIC(10,2) NOT NULL,
		tax NUMERIC(10,2) NOT NULL DEFAULT 0,
		discount NUMERIC(10,2) NOT NULL DEFAULT 0,
		total NUMERIC(10,2) NOT NULL,
		loyalty_points_earned NUMERIC(15,2) NOT NULL DEFAULT 0,
		loyalty_points_used NUMERIC(15,2) NOT NULL DEFAULT 0,
		notes TEXT,
		created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT now(),
		updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT now(),
		completed_at TIMESTAMP WITH TIME ZONE
	);

	CREATE INDEX IF NOT EXISTS idx_orders_status ON orders(status);
	CREATE INDEX IF NOT EXISTS idx_orders_created_at ON orders(created_at);
	`
}

// SelectedModifier is a modifier option chosen for an order line.
type SelectedModifier struct {
	ModifierID      int64           `json:"modifier_id"`
	OptionID        int64           `json:"option_id"`
	Name            string          `json:"name"`
	PriceAdjustment decimal.Decimal `json:"price_adjustment"`
}

// Modifiers is stored as a JSONB array. Value returns a string so lib/pq
// does not send it as bytea.
type Modifiers []SelectedModifier

func (m Modifiers) Value() (driver.Value, error) {
	if m == nil {
		return "[]", nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (m *Modifiers) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*m = nil
		return nil
	case []byte:
		return json.Unmarshal(v, m)
	case string:
		return json.Unmarshal([]byte(v), m)
	}
	return fmt.Errorf("cannot scan %T into Modifiers", src)
}

type OrderItem struct {
	ID         int64           `json:"id" db:"id"`
	OrderID    int64           `json:"order_id" db:"order_id"`
	MenuItemID *int64          `json:"menu_item_id" db:"menu_item_id"`
	ComboID    *int64          `json:"combo_id" db:"combo_id"`
	Quantity   int             `json:"quantity" db:"quantity"`
	Price      decimal.Decimal `json:"price" db:"price"` // unit price captured when ordered
	Modifiers  Modifiers       `json:"modifiers" db:"modifiers"`
	Notes      *string         `json:"notes" db:"notes"`
	Status     string          `json:"status" db:"status"`
	CreatedAt  time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at" db:"updated_at"`
}

// LineTotal is price times quantity.
func (i OrderItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

func (OrderItem) TableName() string {
	return "order_items"
}

func (OrderItem) CreateTableSQL() string {
	return `
	CREATE TABLE IF NOT EXISTS order_items (
		id BIGSERIAL PRIMARY KEY,
		order_id BIGINT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
		menu_item_id BIGINT REFERENCES menu_items(id),
		combo_id BIGINT REFERENCES combos(id),
		quantity INT NOT NULL DEFAULT 1 CHECK (quantity >= 1),
		price NUMERIC(10,2) NOT NULL CHECK (price >= 0),
		modifiers JSONB NOT NULL DEFAULT '[]',
		notes TEXT,
		status VARCHAR(20) NOT NULL DEFAULT 'pending' CHECK (status IN ('pending', 'preparing', 'ready', 'served', 'cancelled')),
		created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT now(),
		updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT now(),
		CHECK ((menu_item_id IS NULL) <> (combo_id IS NULL))
	);

	CREATE INDEX IF NOT EXISTS idx_order_items_order_id ON order_items(order_id);
	`
}
