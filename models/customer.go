package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Customer is a loyalty profile keyed by phone number.
type Customer struct {
	ID            int64           `json:"id" db:"id"`
	Phone         string          `json:"phone" db:"phone"`
	FirstName     *string         `json:"first_name" db:"first_name"`
	LastName      *string         `json:"last_name" db:"last_name"`
	Email         *string         `json:"email" db:"email"`
	LoyaltyPoints decimal.Decimal `json:"loyalty_points" db:"loyalty_points"`
	TotalSpent    decimal.Decimal `json:"total_spent" db:"total_spent"`
	VisitCount    int             `json:"visit_count" db:"visit_count"`
	LastVisit     *time.Time      `json:"last_visit" db:"last_visit"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at" db:"updated_at"`
}

func (Customer) TableName() string {
	return "customers"
}

func (Customer) CreateTableSQL() string {
	return `
	CREATE TABLE IF NOT EXISTS customers (
		id BIGSERIAL PRIMARY KEY,
		phone VARCHAR(20) NOT NULL UNIQUE,
		first_name VARCHAR(100),
		last_name VARCHAR(100),
		email VARCHAR(320),
		loyalty_points NUMERIC(15,2) NOT NULL DEFAULT 0 CHECK (loyalty_points >= 0),
		total_spent NUMERIC(15,2) NOT NULL DEFAULT 0 CHECK (total_spent >= 0),
		visit_count INT NOT NULL DEFAULT 0 CHECK (visit_count >= 0),
		last_visit TIMESTAMP WITH TIME ZONE,
		created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT now(),
		updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT now()
	);

	CREATE INDEX IF NOT EXISTS idx_customers_email ON customers(email);
	`
}
