package store

import (
	"context"

	"diner-pos-server/apperrors"
	"diner-pos-server/models"

	"github.com/shopspring/decimal"
)

const drawerColumns = `id, employee_id, opening_balance, closing_balance, expected_total, variance, status,
	notes, opened_at, closed_at, created_at, updated_at`

func scanDrawer(row scanner, d *models.CashDrawer) error {
	return row.Scan(&d.ID, &d.EmployeeID, &d.OpeningBalance, &d.ClosingBalance, &d.ExpectedTotal,
		&d.Variance, &d.Status, &d.Notes, &d.OpenedAt, &d.ClosedAt, &d.CreatedAt, &d.UpdatedAt)
}

// OpenCashDrawer inserts an open drawer. The partial unique index on
// (employee_id) WHERE status = 'open' turns a second open into a ConflictError.
func (s *Store) OpenCashDrawer(ctx context.Context, employeeID int64, openingBalance decimal.Decimal) (*models.CashDrawer, error) {
	db, err := s.handle()
	if err != nil {
		return nil, err
	}

	var d models.CashDrawer
	row := db.QueryRowContext(ctx, `
		INSERT INTO cash_drawers (employee_id, opening_balance, status, opened_at)
		VALUES ($1, $2, 'open', now())
		RETURNING `+drawerColumns, employeeID, openingBalance)
	if err := scanDrawer(row, &d); err != nil {
		return nil, fail("open cash drawer", err)
	}
	return &d, nil
}

// GetOpenCashDrawer returns the employee's open drawer or a NotFoundError.
func (s *Store) GetOpenCashDrawer(ctx context.Context, employeeID int64) (*models.CashDrawer, error) {
	db, err := s.handle()
	if err != nil {
		return nil, err
	}

	var d models.CashDrawer
	row := db.QueryRowContext(ctx, `
		SELECT `+drawerColumns+`
		FROM cash_drawers
		WHERE employee_id = $1 AND status = 'open'
		ORDER BY opened_at DESC
		LIMIT 1`, employeeID)
	if err := scanDrawer(row, &d); err != nil {
		if isNoRows(err) {
			return nil, apperrors.NotFound("open cash drawer", nil)
		}
		return nil, fail("get open cash drawer", err)
	}
	return &d, nil
}

func (s *Store) GetCashDrawer(ctx context.Context, drawerID int64) (*models.CashDrawer, error) {
	db, err := s.handle()
	if err != nil {
		return nil, err
	}

	var d models.CashDrawer
	row := db.QueryRowContext(ctx, `SELECT `+drawerColumns+` FROM cash_drawers WHERE id = $1`, drawerID)
	if err := scanDrawer(row, &d); err != nil {
		if isNoRows(err) {
			return nil, apperrors.NotFound("cash drawer", drawerID)
		}
		return nil, fail("get cash drawer", err)
	}
	return &d, nil
}

type CloseCashDrawerParams struct {
	DrawerID       int64
	ClosingBalance decimal.Decimal
	ExpectedTotal  decimal.Decimal
	Variance       decimal.Decimal
	Notes          *string
}

// CloseCashDrawer reconciles an open drawer. Only a drawer that is still
// open is updated; anything else is NotFound or Conflict.
func (s *Store) CloseCashDrawer(ctx context.Context, p CloseCashDrawerParams) (*models.CashDrawer, error) {
	db, err := s.handle()
	if err != nil {
		return nil, err
	}

	var d models.CashDrawer
	row := db.QueryRowContext(ctx, `
		UPDATE cash_drawers
		SET closing_balance = $2, expected_total = $3, variance = $4, status = 'reconciled',
			notes = COALESCE($5, notes), closed_at = now(), updated_at = now()
		WHERE id = $1 AND status = 'open'
		RETURNING `+drawerColumns,
		p.DrawerID, p.ClosingBalance, p.ExpectedTotal, p.Variance, p.Notes)
	err = scanDrawer(row, &d)
	if err == nil {
		return &d, nil
	}
	if !isNoRows(err) {
		return nil, fail("close cash drawer", err)
	}

	var status string
	err = db.QueryRowContext(ctx, `SELECT status FROM cash_drawers WHERE id = $1`, p.DrawerID).Scan(&status)
	if err != nil {
		if isNoRows(err) {
			return nil, apperrors.NotFound("cash drawer", p.DrawerID)
		}
		return nil, fail("close cash drawer", err)
	}
	return nil, apperrors.Conflict("cash drawer %d is already %s", p.DrawerID, status)
}
