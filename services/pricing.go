package services

import (
	"diner-pos-server/apperrors"
	"diner-pos-server/models"

	"github.com/shopspring/decimal"
)

// Totals are the money figures fixed on an order when it is created.
type Totals struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Tax      decimal.Decimal `json:"tax"`
	Discount decimal.Decimal `json:"discount"`
	Total    decimal.Decimal `json:"total"`
}

// CalculateTotals prices a list of order lines. The subtotal is the sum of
// price times quantity, tax is the subtotal times taxRate rounded to cents,
// and total = subtotal + tax - discount.
func CalculateTotals(items []models.OrderItem, taxRate, discount decimal.Decimal) (Totals, error) {
	if discount.IsNegative() {
		return Totals{}, apperrors.Validation("discount", "must not be negative")
	}

	subtotal := decimal.Zero
	for _, it := range items {
		subtotal = subtotal.Add(it.LineTotal())
	}
	subtotal = subtotal.Round(2)
	tax := subtotal.Mul(taxRate).Round(2)

	if discount.GreaterThan(subtotal.Add(tax)) {
		return Totals{}, apperrors.Validation("discount", "must not exceed the order total")
	}

	return Totals{
		Subtotal: subtotal,
		Tax:      tax,
		Discount: discount.Round(2),
		Total:    subtotal.Add(tax).Sub(discount).Round(2),
	}, nil
}
