package services

import (
	"context"
	"fmt"

	"diner-pos-server/apperrors"
	"diner-pos-server/models"

	"github.com/shopspring/decimal"
)

type PaymentStore interface {
	GetOrderByID(ctx context.Context, orderID int64) (*models.Order, error)
	CreatePayment(ctx context.Context, p *models.Payment) error
	GetPaymentsByOrder(ctx context.Context, orderID int64) ([]models.Payment, error)
}

type PaymentService struct {
	store  PaymentStore
	events Publisher
}

func NewPaymentService(s PaymentStore, events Publisher) *PaymentService {
	return &PaymentService{store: s, events: events}
}

type SplitInput struct {
	Method string          `json:"method"`
	Amount decimal.Decimal `json:"amount"`
}

type RecordPaymentInput struct {
	OrderID    int64           `json:"-"`
	Method     string          `json:"method"`
	Amount     decimal.Decimal `json:"amount"`
	Reference  *string         `json:"reference"`
	Notes      *string         `json:"notes"`
	Splits     []SplitInput    `json:"splits"`
	EmployeeID *int64          `json:"-"`
}

func (in RecordPaymentInput) validate() error {
	if !models.ValidPaymentMethod(in.Method, false) {
		return apperrors.Validation("method", "must be one of cash, card, digital_wallet, split")
	}
	if !in.Amount.IsPositive() {
		return apperrors.Validation("amount", "must be greater than zero")
	}

	if in.Method != models.PaymentSplit {
		if len(in.Splits) > 0 {
			return apperrors.Validation("splits", "only split payments take split lines")
		}
		return nil
	}

	if len(in.Splits) < 2 {
		return apperrors.Validation("splits", "a split payment needs at least two lines")
	}
	sum := decimal.Zero
	for i, sp := range in.Splits {
		field := fmt.Sprintf("splits[%d]", i)
		if !models.ValidPaymentMethod(sp.Method, true) {
			return apperrors.Validation(field+".method", "must be one of cash, card, digital_wallet")
		}
		if !sp.Amount.IsPositive() {
			return apperrors.Validation(field+".amount", "must be greater than zero")
		}
		sum = sum.Add(sp.Amount)
	}
	if !sum.Equal(in.Amount) {
		return apperrors.Validation("splits", fmt.Sprintf("split lines add up to %s, not %s",
			sum.StringFixed(2), in.Amount.StringFixed(2)))
	}
	return nil
}

// Record stores a completed payment against an order.
func (s *PaymentService) Record(ctx context.Context, in RecordPaymentInput) (*models.Payment, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	p := &models.Payment{
		OrderID:    in.OrderID,
		Amount:     in.Amount.Round(2),
		Method:     in.Method,
		Status:     "completed",
		Reference:  in.Reference,
		EmployeeID: in.EmployeeID,
		Notes:      in.Notes,
	}
	for _, sp := range in.Splits {
		p.Splits = append(p.Splits, models.SplitPayment{
			Amount: sp.Amount.Round(2),
			Method: sp.Method,
			Status: "completed",
		})
	}

	if err := s.store.CreatePayment(ctx, p); err != nil {
		return nil, err
	}

	publish(ctx, s.events, EventPaymentRecorded, map[string]interface{}{
		"payment_id": p.ID,
		"order_id":   p.OrderID,
		"method":     p.Method,
		"amount":     p.Amount,
	})
	return p, nil
}

// ListByOrder returns the payments of an existing order.
func (s *PaymentService) ListByOrder(ctx context.Context, orderID int64) ([]models.Payment, error) {
	if _, err := s.store.GetOrderByID(ctx, orderID); err != nil {
		return nil, err
	}
	return s.store.GetPaymentsByOrder(ctx, orderID)
}
