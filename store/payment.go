package store

import (
	"context"
	"database/sql"

	"diner-pos-server/apperrors"
	"diner-pos-server/models"
)

const paymentColumns = `id, order_id, amount, method, status, reference, employee_id, notes, created_at, updated_at`

// CreatePayment stores a payment and its split lines. The order row is
// locked first so a payment cannot race a cancellation.
func (s *Store) CreatePayment(ctx context.Context, p *models.Payment) error {
	db, err := s.handle()
	if err != nil {
		return err
	}

	err = db.WithTx(ctx, func(tx *sql.Tx) error {
		var status string
		err := tx.QueryRowContext(ctx, `SELECT status FROM orders WHERE id = $1 FOR UPDATE`, p.OrderID).Scan(&status)
		if err != nil {
			if isNoRows(err) {
				return apperrors.NotFound("order", p.OrderID)
			}
			return err
		}
		if status == string(models.OrderCancelled) {
			return apperrors.Conflict("order %d is cancelled", p.OrderID)
		}

		err = tx.QueryRowContext(ctx, `
			INSERT INTO payments (order_id, amount, method, status, reference, employee_id, notes)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id, created_at, updated_at`,
			p.OrderID, p.Amount, p.Method, p.Status, p.Reference, p.EmployeeID, p.Notes,
		).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
		if err != nil {
			return err
		}

		for i := range p.Splits {
			sp := &p.Splits[i]
			sp.PaymentID = p.ID
			sp.OrderID = p.OrderID
			sp.PaymentIndex = i + 1
			if sp.Status == "" {
				sp.Status = p.Status
			}
			err := tx.QueryRowContext(ctx, `
				INSERT INTO split_payments (payment_id, order_id, payment_index, amount, method, status)
				VALUES ($1, $2, $3, $4, $5, $6)
				RETURNING id, created_at`,
				sp.PaymentID, sp.OrderID, sp.PaymentIndex, sp.Amount, sp.Method, sp.Status,
			).Scan(&sp.ID, &sp.CreatedAt)
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fail("create payment", err)
	}
	return nil
}

// GetPaymentsByOrder returns an order's payments, each with its split lines.
func (s *Store) GetPaymentsByOrder(ctx context.Context, orderID int64) ([]models.Payment, error) {
	db, err := s.handle()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `SELECT `+paymentColumns+` FROM payments WHERE order_id = $1 ORDER BY id`, orderID)
	if err != nil {
		return nil, fail("get payments", err)
	}
	defer rows.Close()

	payments := []models.Payment{}
	index := map[int64]int{}
	for rows.Next() {
		var p models.Payment
		if err := rows.Scan(&p.ID, &p.OrderID, &p.Amount, &p.Method, &p.Status, &p.Reference,
			&p.EmployeeID, &p.Notes, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fail("scan payment", err)
		}
		index[p.ID] = len(payments)
		payments = append(payments, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fail("get payments", err)
	}
	if len(payments) == 0 {
		return payments, nil
	}

	splitRows, err := db.QueryContext(ctx, `
		SELECT id, payment_id, order_id, payment_index, amount, method, status, created_at
		FROM split_payments
		WHERE order_id = $1
		ORDER BY payment_id, payment_index`, orderID)
	if err != nil {
		return nil, fail("get split payments", err)
	}
	defer splitRows.Close()

	for splitRows.Next() {
		var sp models.SplitPayment
		if err := splitRows.Scan(&sp.ID, &sp.PaymentID, &sp.OrderID, &sp.PaymentIndex, &sp.Amount,
			&sp.Method, &sp.Status, &sp.CreatedAt); err != nil {
			return nil, fail("scan split payment", err)
		}
		if i, ok := index[sp.PaymentID]; ok {
			payments[i].Splits = append(payments[i].Splits, sp)
		}
	}
	if err := splitRows.Err(); err != nil {
		return nil, fail("get split payments", err)
	}
	return payments, nil
}
