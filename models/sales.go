package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Who wrote a daily_sales or top_items row. The scheduled rollup only ever
// replaces rows it wrote itself.
const (
	SalesSourceManual = "manual"
	SalesSourceRollup = "rollup"
)

// DailySales holds one calendar day's totals. SalesDate is the local
// midnight that starts the day.
type DailySales struct {
	ID                  int64           `json:"id" db:"id"`
	SalesDate           time.Time       `json:"sales_date" db:"sales_date"`
	TotalOrders         int             `json:"total_orders" db:"total_orders"`
	TotalRevenue        decimal.Decimal `json:"total_revenue" db:"total_revenue"`
	TotalTax            decimal.Decimal `json:"total_tax" db:"total_tax"`
	TotalDiscount       decimal.Decimal `json:"total_discount" db:"total_discount"`
	CashSales           decimal.Decimal `json:"cash_sales" db:"cash_sales"`
	CardSales           decimal.Decimal `json:"card_sales" db:"card_sales"`
	LoyaltyPointsIssued decimal.Decimal `json:"loyalty_points_issued" db:"loyalty_points_issued"`
	Source              string          `json:"source" db:"source"`
	CreatedAt           time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at" db:"updated_at"`
}

func (DailySales) TableName() string {
	return "daily_sales"
}

func (DailySales) CreateTableSQL() string {
	return `
	CREATE TABLE IF NOT EXISTS daily_sales (
		id BIGSERIAL PRIMARY KEY,
		sales_date DATE NOT NULL UNIQUE,
		total_orders INT NOT NULL DEFAULT 0,
		total_revenue NUMERIC(10,2) NOT NULL DEFAULT 0,
		total_tax NUMERIC(10,2) NOT NULL DEFAULT 0,
		total_discount NUMERIC(10,2) NOT NULL DEFAULT 0,
		cash_sales NUMERIC(10,2) NOT NULL DEFAULT 0,
		card_sales NUMERIC(10,2) NOT NULL DEFAULT 0,
		loyalty_points_issued NUMERIC(15,2) NOT NULL DEFAULT 0,
		source VARCHAR(10) NOT NULL DEFAULT 'manual' CHECK (source IN ('manual', 'rollup')),
		created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT now(),
		updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT now()
	);`
}

type TopItem struct {
	ID         int64           `json:"id" db:"id"`
	SalesDate  time.Time       `json:"sales_date" db:"sales_date"`
	MenuItemID *int64          `json:"menu_item_id" db:"menu_item_id"`
	ComboID    *int64          `json:"combo_id" db:"combo_id"`
	Quantity   int             `json:"quantity" db:"quantity"`
	Revenue    decimal.Decimal `json:"revenue" db:"revenue"`
	Source     string          `json:"source" db:"source"`
	CreatedAt  time.Time       `json:"created_at" db:"created_at"`
}

func (TopItem) TableName() string {
	return "top_items"
}

func (TopItem) CreateTableSQL() string {
	return `
	CREATE TABLE IF NOT EXISTS top_items (
		id BIGSERIAL PRIMARY KEY,
		sales_date DATE NOT NULL,
		menu_item_id BIGINT REFERENCES menu_items(id) ON DELETE SET NULL,
		combo_id BIGINT REFERENCES combos(id) ON DELETE SET NULL,
		quantity INT NOT NULL DEFAULT 0,
		revenue NUMERIC(10,2) NOT NULL DEFAULT 0,
		source VARCHAR(10) NOT NULL DEFAULT 'manual' CHECK (source IN ('manual', 'rollup')),
		created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT now()
	);

	CREATE INDEX IF NOT EXISTS idx_top_items_sales_date ON top_items(sales_date);
	`
}

// DayBounds returns [start, end) of the calendar day containing t in loc.
func DayBounds(t time.Time, loc *time.Location) (time.Time, time.Time) {
	local := t.In(loc)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 0, 1)
}
