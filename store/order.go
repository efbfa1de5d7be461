package store

import (
	"context"
	"database/sql"

	"diner-pos-server/apperrors"
	"diner-pos-server/models"

	"github.com/shopspring/decimal"
)

const orderColumns = `id, order_number, customer_id, employee_id, table_id, order_type, status, subtotal,
	tax, discount, total, loyalty_points_earned, loyalty_points_used, notes, created_at, updated_at, completed_at`

const orderItemColumns = `id, order_id, menu_item_id, combo_id, quantity, price, modifiers, notes, status,
	created_at, updated_at`

func scanOrder(row scanner, o *models.Order) error {
	return row.Scan(&o.ID, &o.OrderNumber, &o.CustomerID, &o.EmployeeID, &o.TableID, &o.OrderType,
		&o.Status, &o.Subtotal, &o.Tax, &o.Discount, &o.Total, &o.LoyaltyPointsEarned,
		&o.LoyaltyPointsUsed, &o.Notes, &o.CreatedAt, &o.UpdatedAt, &o.CompletedAt)
}

func scanOrderItem(row scanner, it *models.OrderItem) error {
	return row.Scan(&it.ID, &it.OrderID, &it.MenuItemID, &it.ComboID, &it.Quantity, &it.Price,
		&it.Modifiers, &it.Notes, &it.Status, &it.CreatedAt, &it.UpdatedAt)
}

// CreateOrder inserts the order and all of its items in one transaction and
// fills in the generated ids and timestamps.
func (s *Store) CreateOrder(ctx context.Context, o *models.Order) error {
	db, err := s.handle()
	if err != nil {
		return err
	}

	err = db.WithTx(ctx, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx, `
			INSERT INTO orders (order_number, customer_id, employee_id, table_id, order_type, status,
				subtotal, tax, discount, total, notes)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
			RETURNING id, created_at, updated_at`,
			o.OrderNumber, o.CustomerID, o.EmployeeID, o.TableID, o.OrderType, string(o.Status),
			o.Subtotal, o.Tax, o.Discount, o.Total, o.Notes,
		).Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt)
		if err != nil {
			return err
		}

		for i := range o.Items {
			it := &o.Items[i]
			it.OrderID = o.ID
			if it.Status == "" {
				it.Status = "pending"
			}
			err := tx.QueryRowContext(ctx, `
				INSERT INTO order_items (order_id, menu_item_id, combo_id, quantity, price, modifiers, notes, status)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
				RETURNING id, created_at, updated_at`,
				o.ID, it.MenuItemID, it.ComboID, it.Quantity, it.Price, it.Modifiers, it.Notes, it.Status,
			).Scan(&it.ID, &it.CreatedAt, &it.UpdatedAt)
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fail("create order", err)
	}
	return nil
}

// GetOrderByID returns the order with its items.
func (s *Store) GetOrderByID(ctx context.Context, orderID int64) (*models.Order, error) {
	db, err := s.handle()
	if err != nil {
		return nil, err
	}

	var o models.Order
	row := db.QueryRowContext(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, orderID)
	if err := scanOrder(row, &o); err != nil {
		if isNoRows(err) {
			return nil, apperrors.NotFound("order", orderID)
		}
		return nil, fail("get order", err)
	}

	rows, err := db.QueryContext(ctx, `SELECT `+orderItemColumns+` FROM order_items WHERE order_id = $1 ORDER BY id`, orderID)
	if err != nil {
		return nil, fail("get order items", err)
	}
	defer rows.Close()

	o.Items = []models.OrderItem{}
	for rows.Next() {
		var it models.OrderItem
		if err := scanOrderItem(rows, &it); err != nil {
			return nil, fail("scan order item", err)
		}
		o.Items = append(o.Items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fail("get order items", err)
	}
	return &o, nil
}

// GetActiveOrders returns orders that are pending, confirmed, preparing or
// ready, oldest first.
func (s *Store) GetActiveOrders(ctx context.Context) ([]models.Order, error) {
	db, err := s.handle()
	if err != nil {
		return nil, err
	}

	args := make([]any, len(models.ActiveOrderStatuses))
	for i, st := range models.ActiveOrderStatuses {
		args[i] = string(st)
	}
	rows, err := db.QueryContext(ctx, `
		SELECT `+orderColumns+`
		FROM orders
		WHERE status IN (`+placeholders(1, len(args))+`)
		ORDER BY created_at, id`, args...)
	if err != nil {
		return nil, fail("get active orders", err)
	}
	defer rows.Close()

	orders := []models.Order{}
	for rows.Next() {
		var o models.Order
		if err := scanOrder(rows, &o); err != nil {
			return nil, fail("scan order", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fail("get active orders", err)
	}
	return orders, nil
}

type UpdateOrderStatusParams struct {
	OrderID int64
	Status  models.OrderStatus
	// LoyaltyPointsPerUnit is applied to floor(total) when the order completes.
	LoyaltyPointsPerUnit decimal.Decimal
}

// UpdateOrderStatus moves an order forward. Completing an order stamps
// completed_at and credits the customer's spend, visits and loyalty points
// in the same transaction.
func (s *Store) UpdateOrderStatus(ctx context.Context, p UpdateOrderStatusParams) (*models.Order, error) {
	db, err := s.handle()
	if err != nil {
		return nil, err
	}

	err = db.WithTx(ctx, func(tx *sql.Tx) error {
		var (
			current    models.OrderStatus
			customerID *int64
			total      decimal.Decimal
		)
		err := tx.QueryRowContext(ctx, `SELECT status, customer_id, total FROM orders WHERE id = $1 FOR UPDATE`, p.OrderID).
			Scan(&current, &customerID, &total)
		if err != nil {
			if isNoRows(err) {
				return apperrors.NotFound("order", p.OrderID)
			}
			return err
		}
		if !current.CanTransitionTo(p.Status) {
			return apperrors.Conflict("order %d cannot move from %s to %s", p.OrderID, current, p.Status)
		}

		switch p.Status {
		case models.OrderCompleted:
			points := total.Floor().Mul(p.LoyaltyPointsPerUnit)
			if points.IsNegative() {
				points = decimal.Zero
			}
			if _, err := tx.ExecContext(ctx, `
				UPDATE orders SET status = $2, completed_at = now(), loyalty_points_earned = $3, updated_at = now()
				WHERE id = $1`, p.OrderID, string(p.Status), points); err != nil {
				return err
			}
			if customerID == nil {
				return nil
			}
			if _, err := tx.ExecContext(ctx, `
				UPDATE customers
				SET total_spent = total_spent + $2, visit_count = visit_count + 1,
					loyalty_points = loyalty_points + $3, last_visit = now(), updated_at = now()
				WHERE id = $1`, *customerID, total, points); err != nil {
				return err
			}
			if points.IsPositive() {
				_, err := tx.ExecContext(ctx, `
					INSERT INTO loyalty_transactions (customer_id, order_id, delta, reason)
					VALUES ($1, $2, $3, 'order completed')`, *customerID, p.OrderID, points)
				return err
			}
			return nil

		case models.OrderCancelled:
			if _, err := tx.ExecContext(ctx, `UPDATE orders SET status = $2, updated_at = now() WHERE id = $1`,
				p.OrderID, string(p.Status)); err != nil {
				return err
			}
			_, err := tx.ExecContext(ctx, `UPDATE order_items SET status = 'cancelled', updated_at = now() WHERE order_id = $1`, p.OrderID)
			return err

		default:
			_, err := tx.ExecContext(ctx, `UPDATE orders SET status = $2, updated_at = now() WHERE id = $1`,
				p.OrderID, string(p.Status))
			return err
		}
	})
	if err != nil {
		return nil, fail("update order status", err)
	}
	return s.GetOrderByID(ctx, p.OrderID)
}
