package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	DrawerOpen       = "open"
	DrawerReconciled = "reconciled"
	DrawerClosed     = "closed"
)

// CashDrawer is one till session for an employee.
type CashDrawer struct {
	ID             int64               `json:"id" db:"id"`
	EmployeeID     int64               `json:"employee_id" db:"employee_id"`
	OpeningBalance decimal.Decimal     `json:"opening_balance" db:"opening_balance"`
	ClosingBalance decimal.NullDecimal `json:"closing_balance" db:"closing_balance"`
	ExpectedTotal  decimal.NullDecimal `json:"expected_total" db:"expected_total"`
	Variance       decimal.NullDecimal `json:"variance" db:"variance"`
	Status         string              `json:"status" db:"status"`
	Notes          *string             `json:"notes" db:"notes"`
	OpenedAt       time.Time           `json:"opened_at" db:"opened_at"`
	ClosedAt       *time.Time          `json:"closed_at" db:"closed_at"`
	CreatedAt      time.Time           `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at" db:"updated_at"`
}

func (CashDrawer) TableName() string {
	return "cash_drawers"
}

// The partial unique index keeps at most one open drawer per employee.
func (CashDrawer) CreateTableSQL() string {
	return `
	CREATE TABLE IF NOT EXISTS cash_drawers (
		id BIGSERIAL PRIMARY KEY,
		employee_id BIGINT NOT NULL REFERENCES employees(id) ON DELETE CASCADE,
		opening_balance NUMERIC(10,2) NOT NULL DEFAULT 0 CHECK (opening_balance >= 0),
		closing_balance NUMERIC(10,2),
		expected_total NUMERIC(10,2),
		variance NUMERIC(10,2),
		status VARCHAR(20) NOT NULL DEFAULT 'open' CHECK (status IN ('open', 'reconciled', 'closed')),
		notes TEXT,
		opened_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT now(),
		closed_at TIMESTAMP WITH TIME ZONE,
		created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT now(),
		updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT now()
	);

	CREATE UNIQUE INDEX IF NOT EXISTS idx_cash_drawers_one_open ON cash_drawers(employee_id) WHERE status = 'open';
	`
}
