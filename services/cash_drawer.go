package services

import (
	"context"

	"diner-pos-server/apperrors"
	"diner-pos-server/models"
	"diner-pos-server/store"

	"github.com/shopspring/decimal"
)

type DrawerStore interface {
	OpenCashDrawer(ctx context.Context, employeeID int64, openingBalance decimal.Decimal) (*models.CashDrawer, error)
	GetOpenCashDrawer(ctx context.Context, employeeID int64) (*models.CashDrawer, error)
	GetCashDrawer(ctx context.Context, drawerID int64) (*models.CashDrawer, error)
	CloseCashDrawer(ctx context.Context, p store.CloseCashDrawerParams) (*models.CashDrawer, error)
}

// ManagerAlerts pushes operational alerts to managers. Implementations log
// their own failures.
type ManagerAlerts interface {
	SendVarianceAlert(ctx context.Context, d *models.CashDrawer)
	SendLowStockAlert(ctx context.Context, item *models.InventoryItem)
}

type DrawerService struct {
	store  DrawerStore
	events Publisher
	alerts ManagerAlerts
}

func NewDrawerService(s DrawerStore, events Publisher, alerts ManagerAlerts) *DrawerService {
	return &DrawerService{store: s, events: events, alerts: alerts}
}

// Open starts a drawer for the employee. A second open drawer is refused
// here and, for concurrent opens, by the store's unique index.
func (s *DrawerService) Open(ctx context.Context, employeeID int64, openingBalance decimal.Decimal) (*models.CashDrawer, error) {
	if employeeID <= 0 {
		return nil, apperrors.Validation("employeeId", "employee is required")
	}
	if openingBalance.IsNegative() {
		return nil, apperrors.Validation("openingBalance", "must not be negative")
	}

	existing, err := s.store.GetOpenCashDrawer(ctx, employeeID)
	switch {
	case err == nil:
		return nil, apperrors.Conflict("employee already has an open cash drawer (#%d)", existing.ID)
	case !apperrors.IsNotFound(err):
		return nil, err
	}

	return s.store.OpenCashDrawer(ctx, employeeID, openingBalance.Round(2))
}

// GetOpen returns the employee's open drawer, or nil when there is none.
func (s *DrawerService) GetOpen(ctx context.Context, employeeID int64) (*models.CashDrawer, error) {
	d, err := s.store.GetOpenCashDrawer(ctx, employeeID)
	if apperrors.IsNotFound(err) {
		return nil, nil
	}
	return d, err
}

type CloseDrawerInput struct {
	DrawerID       int64
	EmployeeID     int64
	AnyDrawer      bool // managers may close drawers they do not own
	ClosingBalance decimal.Decimal
	ExpectedTotal  decimal.Decimal
	Notes          *string
}

// Close reconciles a drawer: variance = closing - expected, stored once.
func (s *DrawerService) Close(ctx context.Context, in CloseDrawerInput) (*models.CashDrawer, error) {
	if in.ClosingBalance.IsNegative() {
		return nil, apperrors.Validation("closingBalance", "must not be negative")
	}
	if in.ExpectedTotal.IsNegative() {
		return nil, apperrors.Validation("expectedTotal", "must not be negative")
	}

	d, err := s.store.GetCashDrawer(ctx, in.DrawerID)
	if err != nil {
		return nil, err
	}
	if !in.AnyDrawer && d.EmployeeID != in.EmployeeID {
		return nil, apperrors.NotFound("cash drawer", in.DrawerID)
	}
	if d.Status != models.DrawerOpen {
		return nil, apperrors.Conflict("cash drawer %d is already %s", d.ID, d.Status)
	}

	closing := in.ClosingBalance.Round(2)
	expected := in.ExpectedTotal.Round(2)
	closed, err := s.store.CloseCashDrawer(ctx, store.CloseCashDrawerParams{
		DrawerID:       in.DrawerID,
		ClosingBalance: closing,
		ExpectedTotal:  expected,
		Variance:       closing.Sub(expected),
		Notes:          in.Notes,
	})
	if err != nil {
		return nil, err
	}

	publish(ctx, s.events, EventCashDrawerReconciled, map[string]interface{}{
		"drawer_id":   closed.ID,
		"employee_id": closed.EmployeeID,
		"variance":    closed.Variance,
	})
	if closed.Variance.Valid && !closed.Variance.Decimal.IsZero() && s.alerts != nil {
		s.alerts.SendVarianceAlert(ctx, closed)
	}
	return closed, nil
}
