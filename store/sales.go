package store

import (
	"context"
	"database/sql"
	"time"

	"diner-pos-server/apperrors"
	"diner-pos-server/models"

	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

const dailySalesColumns = `id, sales_date, total_orders, total_revenue, total_tax, total_discount,
	cash_sales, card_sales, loyalty_points_issued, source, created_at, updated_at`

const topItemColumns = `id, sales_date, menu_item_id, combo_id, quantity, revenue, source, created_at`

func scanDailySales(row scanner, d *models.DailySales) error {
	return row.Scan(&d.ID, &d.SalesDate, &d.TotalOrders, &d.TotalRevenue, &d.TotalTax, &d.TotalDiscount,
		&d.CashSales, &d.CardSales, &d.LoyaltyPointsIssued, &d.Source, &d.CreatedAt, &d.UpdatedAt)
}

func scanTopItem(row scanner, t *models.TopItem) error {
	return row.Scan(&t.ID, &t.SalesDate, &t.MenuItemID, &t.ComboID, &t.Quantity, &t.Revenue, &t.Source, &t.CreatedAt)
}

// GetDailySales returns the stored totals for the calendar day of day.
func (s *Store) GetDailySales(ctx context.Context, day time.Time) (*models.DailySales, error) {
	db, err := s.handle()
	if err != nil {
		return nil, err
	}

	var d models.DailySales
	row := db.QueryRowContext(ctx, `SELECT `+dailySalesColumns+` FROM daily_sales WHERE sales_date = $1`,
		day.Format(dateLayout))
	if err := scanDailySales(row, &d); err != nil {
		if isNoRows(err) {
			return nil, apperrors.NotFound("daily sales", day.Format(dateLayout))
		}
		return nil, fail("get daily sales", err)
	}
	return &d, nil
}

const upsertDailySales = `
	INSERT INTO daily_sales (sales_date, total_orders, total_revenue, total_tax, total_discount,
		cash_sales, card_sales, loyalty_points_issued, source)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	ON CONFLICT (sales_date) DO UPDATE SET
		total_orders = EXCLUDED.total_orders,
		total_revenue = EXCLUDED.total_revenue,
		total_tax = EXCLUDED.total_tax,
		total_discount = EXCLUDED.total_discount,
		cash_sales = EXCLUDED.cash_sales,
		card_sales = EXCLUDED.card_sales,
		loyalty_points_issued = EXCLUDED.loyalty_points_issued,
		source = EXCLUDED.source,
		updated_at = now()`

func dailySalesArgs(d *models.DailySales, source string) []any {
	return []any{d.SalesDate.Format(dateLayout), d.TotalOrders, d.TotalRevenue, d.TotalTax, d.TotalDiscount,
		d.CashSales, d.CardSales, d.LoyaltyPointsIssued, source}
}

// UpsertDailySales writes the totals for d.SalesDate. An existing row for the
// date is overwritten field by field; nothing is accumulated. An empty
// d.Source is stored as manual.
func (s *Store) UpsertDailySales(ctx context.Context, d *models.DailySales) (*models.DailySales, error) {
	db, err := s.handle()
	if err != nil {
		return nil, err
	}

	source := d.Source
	if source == "" {
		source = models.SalesSourceManual
	}

	var out models.DailySales
	row := db.QueryRowContext(ctx, upsertDailySales+`
		RETURNING `+dailySalesColumns, dailySalesArgs(d, source)...)
	if err := scanDailySales(row, &out); err != nil {
		return nil, fail("upsert daily sales", err)
	}
	return &out, nil
}

// RefreshDailySales stores rolled-up totals for d.SalesDate unless the day
// already holds totals written by a caller. Either way the row now stored
// for the day is returned; its Source tells which one won.
func (s *Store) RefreshDailySales(ctx context.Context, d *models.DailySales) (*models.DailySales, error) {
	db, err := s.handle()
	if err != nil {
		return nil, err
	}

	var out models.DailySales
	row := db.QueryRowContext(ctx, upsertDailySales+`
		WHERE daily_sales.source = 'rollup'
		RETURNING `+dailySalesColumns, dailySalesArgs(d, models.SalesSourceRollup)...)
	err = scanDailySales(row, &out)
	if isNoRows(err) {
		return s.GetDailySales(ctx, d.SalesDate)
	}
	if err != nil {
		return nil, fail("refresh daily sales", err)
	}
	return &out, nil
}

func (s *Store) RecordTopItem(ctx context.Context, t *models.TopItem) (*models.TopItem, error) {
	db, err := s.handle()
	if err != nil {
		return nil, err
	}

	var out models.TopItem
	row := db.QueryRowContext(ctx, `
		INSERT INTO top_items (sales_date, menu_item_id, combo_id, quantity, revenue, source)
		VALUES ($1, $2, $3, $4, $5, 'manual')
		RETURNING `+topItemColumns,
		t.SalesDate.Format(dateLayout), t.MenuItemID, t.ComboID, t.Quantity, t.Revenue)
	if err := scanTopItem(row, &out); err != nil {
		return nil, fail("record top item", err)
	}
	return &out, nil
}

// GetTopItems returns the day's recorded top items, best sellers first.
func (s *Store) GetTopItems(ctx context.Context, day time.Time, limit int) ([]models.TopItem, error) {
	db, err := s.handle()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `
		SELECT `+topItemColumns+`
		FROM top_items
		WHERE sales_date = $1
		ORDER BY quantity DESC, revenue DESC, id
		LIMIT $2`, day.Format(dateLayout), limit)
	if err != nil {
		return nil, fail("get top items", err)
	}
	defer rows.Close()

	items := []models.TopItem{}
	for rows.Next() {
		var t models.TopItem
		if err := scanTopItem(rows, &t); err != nil {
			return nil, fail("scan top item", err)
		}
		items = append(items, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fail("get top items", err)
	}
	return items, nil
}

// DaySummary is what the rollup computes from orders and payments.
type DaySummary struct {
	TotalOrders         int
	TotalRevenue        decimal.Decimal
	TotalTax            decimal.Decimal
	TotalDiscount       decimal.Decimal
	CashSales           decimal.Decimal
	CardSales           decimal.Decimal
	LoyaltyPointsIssued decimal.Decimal
}

// SummarizeDay totals the non-cancelled orders created in [start, end) and
// their completed payments. Split payments count under each line's method.
// Digital wallet payments are reported with card sales.
func (s *Store) SummarizeDay(ctx context.Context, start, end time.Time) (*DaySummary, error) {
	db, err := s.handle()
	if err != nil {
		return nil, err
	}

	sum := &DaySummary{}
	err = db.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(SUM(total), 0), COALESCE(SUM(tax), 0), COALESCE(SUM(discount), 0),
			COALESCE(SUM(loyalty_points_earned), 0)
		FROM orders
		WHERE created_at >= $1 AND created_at < $2 AND status <> 'cancelled'`, start, end).
		Scan(&sum.TotalOrders, &sum.TotalRevenue, &sum.TotalTax, &sum.TotalDiscount, &sum.LoyaltyPointsIssued)
	if err != nil {
		return nil, fail("summarize orders", err)
	}

	rows, err := db.QueryContext(ctx, `
		SELECT method, COALESCE(SUM(amount), 0)
		FROM (
			SELECT p.method, p.amount
			FROM payments p
			JOIN orders o ON o.id = p.order_id
			WHERE p.method <> 'split' AND p.status = 'completed'
				AND o.created_at >= $1 AND o.created_at < $2 AND o.status <> 'cancelled'
			UNION ALL
			SELECT sp.method, sp.amount
			FROM split_payments sp
			JOIN orders o ON o.id = sp.order_id
			WHERE sp.status = 'completed'
				AND o.created_at >= $1 AND o.created_at < $2 AND o.status <> 'cancelled'
		) paid
		GROUP BY method`, start, end)
	if err != nil {
		return nil, fail("summarize payments", err)
	}
	defer rows.Close()

	sum.CashSales = decimal.Zero
	sum.CardSales = decimal.Zero
	for rows.Next() {
		var (
			method string
			amount decimal.Decimal
		)
		if err := rows.Scan(&method, &amount); err != nil {
			return nil, fail("scan payment total", err)
		}
		switch method {
		case models.PaymentCash:
			sum.CashSales = sum.CashSales.Add(amount)
		case models.PaymentCard, models.PaymentDigitalWallet:
			sum.CardSales = sum.CardSales.Add(amount)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fail("summarize payments", err)
	}
	return sum, nil
}

// TopItemsForDay ranks the menu items and combos sold in [start, end) by
// quantity. Cancelled orders and cancelled lines are ignored.
func (s *Store) TopItemsForDay(ctx context.Context, start, end time.Time, limit int) ([]models.TopItem, error) {
	db, err := s.handle()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `
		SELECT oi.menu_item_id, oi.combo_id, SUM(oi.quantity) AS qty, SUM(oi.price * oi.quantity) AS revenue
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		WHERE o.created_at >= $1 AND o.created_at < $2
			AND o.status <> 'cancelled' AND oi.status <> 'cancelled'
		GROUP BY oi.menu_item_id, oi.combo_id
		ORDER BY qty DESC, revenue DESC
		LIMIT $3`, start, end, limit)
	if err != nil {
		return nil, fail("rank top items", err)
	}
	defer rows.Close()

	items := []models.TopItem{}
	for rows.Next() {
		t := models.TopItem{SalesDate: start, Source: models.SalesSourceRollup}
		if err := rows.Scan(&t.MenuItemID, &t.ComboID, &t.Quantity, &t.Revenue); err != nil {
			return nil, fail("scan top item", err)
		}
		items = append(items, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fail("rank top items", err)
	}
	return items, nil
}

// ReplaceTopItems swaps the day's rolled-up top items for items. Rows recorded
// by callers are kept.
func (s *Store) ReplaceTopItems(ctx context.Context, day time.Time, items []models.TopItem) error {
	db, err := s.handle()
	if err != nil {
		return err
	}

	date := day.Format(dateLayout)
	err = db.WithTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM top_items WHERE sales_date = $1 AND source = 'rollup'`, date); err != nil {
			return err
		}
		for _, t := range items {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO top_items (sales_date, menu_item_id, combo_id, quantity, revenue, source)
				VALUES ($1, $2, $3, $4, $5, 'rollup')`,
				date, t.MenuItemID, t.ComboID, t.Quantity, t.Revenue); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fail("replace top items", err)
	}
	return nil
}
