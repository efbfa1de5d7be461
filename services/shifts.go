package services

import (
	"context"
	"time"

	"diner-pos-server/apperrors"
	"diner-pos-server/models"
	"diner-pos-server/store"
)

type ShiftStore interface {
	StartShift(ctx context.Context, employeeID int64, start time.Time) (*models.Shift, error)
	EndShift(ctx context.Context, p store.EndShiftParams) (*models.Shift, error)
}

type ShiftService struct {
	store ShiftStore
	now   func() time.Time
}

func NewShiftService(s ShiftStore) *ShiftService {
	return &ShiftService{store: s, now: time.Now}
}

func (s *ShiftService) Start(ctx context.Context, employeeID int64) (*models.Shift, error) {
	if employeeID <= 0 {
		return nil, apperrors.Validation("employeeId", "employee is required")
	}
	return s.store.StartShift(ctx, employeeID, s.now())
}

type EndShiftInput struct {
	ShiftID      int64
	EmployeeID   int64
	AnyShift     bool // managers may end shifts they do not own
	BreakMinutes int
}

// End closes the shift now; total hours are (elapsed minutes - break) / 60.
func (s *ShiftService) End(ctx context.Context, in EndShiftInput) (*models.Shift, error) {
	if in.BreakMinutes < 0 {
		return nil, apperrors.Validation("breakMinutes", "must not be negative")
	}
	if in.BreakMinutes > models.MaxBreakMinutes {
		return nil, apperrors.Validation("breakMinutes", "must be at most one day")
	}
	p := store.EndShiftParams{ShiftID: in.ShiftID, BreakMinutes: in.BreakMinutes, End: s.now()}
	if !in.AnyShift {
		if in.EmployeeID <= 0 {
			return nil, apperrors.Validation("employeeId", "employee is required")
		}
		p.EmployeeID = in.EmployeeID
	}
	return s.store.EndShift(ctx, p)
}
