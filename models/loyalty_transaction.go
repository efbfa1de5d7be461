package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// LoyaltyTransaction is one change to a customer's point balance.
type LoyaltyTransaction struct {
	ID         int64           `json:"id" db:"id"`
	CustomerID int64           `json:"customer_id" db:"customer_id"`
	OrderID    *int64          `json:"order_id" db:"order_id"`
	Delta      decimal.Decimal `json:"delta" db:"delta"`
	Reason     *string         `json:"reason" db:"reason"`
	CreatedAt  time.Time       `json:"created_at" db:"created_at"`
}

func (LoyaltyTransaction) TableName() string {
	return "loyalty_transactions"
}

func (LoyaltyTransaction) CreateTableSQL() string {
	return `
	CREATE TABLE IF NOT EXISTS loyalty_transactions (
		id BIGSERIAL PRIMARY KEY,
		customer_id BIGINT NOT NULL REFERENCES customers(id) ON DELETE CASCADE,
		order_id BIGINT REFERENCES orders(id) ON DELETE SET NULL,
		delta NUMERIC(15,2) NOT NULL,
		reason TEXT,
		created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT now()
	);

	CREATE INDEX IF NOT EXISTS idx_loyalty_transactions_customer_id ON loyalty_transactions(customer_id);
	`
}
