package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	PaymentCash          = "cash"
	PaymentCard          = "card"
	PaymentDigitalWallet = "digital_wallet"
	PaymentSplit         = "split"
)

// ValidPaymentMethod reports whether method is accepted for a payment.
// Split lines may not themselves be split.
func ValidPaymentMethod(method string, splitLine bool) bool {
	switch method {
	case PaymentCash, PaymentCard, PaymentDigitalWallet:
		return true
	case PaymentSplit:
		return !splitLine
	}
	return false
}

type Payment struct {
	ID         int64           `json:"id" db:"id"`
	OrderID    int64           `json:"order_id" db:"order_id"`
	Amount     decimal.Decimal `json:"amount" db:"amount"`
	Method     string          `json:"method" db:"method"`
	Status     string          `json:"status" db:"status"` // pending, completed, failed, refunded
	Reference  *string         `json:"reference" db:"reference"`
	EmployeeID *int64          `json:"employee_id" db:"employee_id"`
	Notes      *string         `json:"notes" db:"notes"`
	CreatedAt  time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at" db:"updated_at"`
	Splits     []SplitPayment  `json:"splits,omitempty"`
}

func (Payment) TableName() string {
	return "payments"
}

func (Payment) CreateTableSQL() string {
	return `
	CREATE TABLE IF NOT EXISTS payments (
		id BIGSERIAL PRIMARY KEY,
		order_id BIGINT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
		amount NUMERIC(10,2) NOT NULL CHECK (amount > 0),
		method VARCHAR(20) NOT NULL CHECK (method IN ('cash', 'card', 'digital_wallet', 'split')),
		status VARCHAR(20) NOT NULL DEFAULT 'pending' CHECK (status IN ('pending', 'completed', 'failed', 'refunded')),
		reference VARCHAR(100),
		employee_id BIGINT REFERENCES employees(id) ON DELETE SET NULL,
		notes TEXT,
		created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT now(),
		updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT now()
	);

	CREATE INDEX IF NOT EXISTS idx_payments_order_id ON payments(order_id);
	`
}

type SplitPayment struct {
	ID           int64           `json:"id" db:"id"`
	PaymentID    int64           `json:"payment_id" db:"payment_id"`
	OrderID      int64           `json:"order_id" db:"order_id"`
	PaymentIndex int             `json:"payment_index" db:"payment_index"`
	Amount       decimal.Decimal `json:"amount" db:"amount"`
	Method       string          `json:"method" db:"method"`
	Status       string          `json:"status" db:"status"`
	CreatedAt    time.Time       `json:"created_at" db:"created_at"`
}

func (SplitPayment) TableName() string {
	return "split_payments"
}

func (SplitPayment) CreateTableSQL() string {
	return `
	CREATE TABLE IF NOT EXISTS split_payments (
		id BIGSERIAL PRIMARY KEY,
		payment_id BIGINT NOT NULL REFERENCES payments(id) ON DELETE CASCADE,
		order_id BIGINT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
		payment_index INT NOT NULL,
		amount NUMERIC(10,2) NOT NULL CHECK (amount > 0),
		method VARCHAR(20) NOT NULL CHECK (method IN ('cash', 'card', 'digital_wallet')),
		status VARCHAR(20) NOT NULL DEFAULT 'pending' CHECK (status IN ('pending', 'completed', 'failed')),
		created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT now(),
		updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT now(),
		UNIQUE (payment_id, payment_index)
	);`
}

type Receipt struct {
	ID            int64      `json:"id" db:"id"`
	OrderID       int64      `json:"order_id" db:"order_id"`
	ReceiptNumber string     `json:"receipt_number" db:"receipt_number"`
	PdfURL        *string    `json:"pdf_url" db:"pdf_url"`
	EmailSent     bool       `json:"email_sent" db:"email_sent"`
	EmailSentAt   *time.Time `json:"email_sent_at" db:"email_sent_at"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
}

func (Receipt) TableName() string {
	return "receipts"
}

func (Receipt) CreateTableSQL() string {
	return `
	CREATE TABLE IF NOT EXISTS receipts (
		id BIGSERIAL PRIMARY KEY,
		order_id BIGINT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
		receipt_number VARCHAR(50) NOT NULL UNIQUE,
		pdf_url TEXT,
		email_sent BOOLEAN NOT NULL DEFAULT FALSE,
		email_sent_at TIMESTAMP WITH TIME ZONE,
		created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT now()
	);`
}
