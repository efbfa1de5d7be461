package services

import (
	"context"
	"math"
	"testing"
	"time"

	"diner-pos-server/apperrors"
	"diner-pos-server/models"
	"diner-pos-server/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeShifts struct {
	shifts map[int64]*models.Shift
}

func (f *fakeShifts) StartShift(_ context.Context, employeeID int64, start time.Time) (*models.Shift, error) {
	for _, sh := range f.shifts {
		if sh.EmployeeID == employeeID && sh.EndTime == nil {
			return nil, apperrors.Conflict("employee already has a running shift")
		}
	}
	sh := &models.Shift{ID: int64(len(f.shifts) + 1), EmployeeID: employeeID, StartTime: start}
	f.shifts[sh.ID] = sh
	return sh, nil
}

func (f *fakeShifts) EndShift(_ context.Context, p store.EndShiftParams) (*models.Shift, error) {
	shiftID, breakMinutes, end := p.ShiftID, p.BreakMinutes, p.End
	sh, ok := f.shifts[shiftID]
	if !ok || (p.EmployeeID != 0 && sh.EmployeeID != p.EmployeeID) {
		return nil, apperrors.NotFound("shift", shiftID)
	}
	if sh.EndTime != nil {
		return nil, apperrors.Conflict("shift %d has already ended", shiftID)
	}
	sh.EndTime = &end
	sh.BreakMinutes = breakMinutes
	sh.TotalHours.Decimal = models.ShiftHours(sh.StartTime, end, breakMinutes)
	sh.TotalHours.Valid = true
	return sh, nil
}

func TestShiftLifecycle(t *testing.T) {
	st := &fakeShifts{shifts: map[int64]*models.Shift{}}
	s := NewShiftService(st)
	clock := time.Date(2024, 3, 9, 9, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return clock }
	ctx := context.Background()

	sh, err := s.Start(ctx, 7)
	require.NoError(t, err)

	_, err = s.Start(ctx, 7)
	assert.True(t, apperrors.IsConflict(err))

	clock = clock.Add(8*time.Hour + 20*time.Minute)
	ended, err := s.End(ctx, EndShiftInput{ShiftID: sh.ID, EmployeeID: 7, BreakMinutes: 20})
	require.NoError(t, err)
	assert.Equal(t, "8.00", ended.TotalHours.Decimal.StringFixed(2))

	_, err = s.End(ctx, EndShiftInput{ShiftID: sh.ID, EmployeeID: 7})
	assert.True(t, apperrors.IsConflict(err))
	_, err = s.End(ctx, EndShiftInput{ShiftID: sh.ID, EmployeeID: 7, BreakMinutes: -5})
	assert.True(t, apperrors.IsValidation(err))
}

func TestEndShiftOnlyByOwnerOrManager(t *testing.T) {
	st := &fakeShifts{shifts: map[int64]*models.Shift{}}
	s := NewShiftService(st)
	ctx := context.Background()

	sh, err := s.Start(ctx, 7)
	require.NoError(t, err)

	_, err = s.End(ctx, EndShiftInput{ShiftID: sh.ID, EmployeeID: 8})
	assert.True(t, apperrors.IsNotFound(err))
	assert.Nil(t, sh.EndTime)

	_, err = s.End(ctx, EndShiftInput{ShiftID: sh.ID})
	assert.True(t, apperrors.IsValidation(err))

	ended, err := s.End(ctx, EndShiftInput{ShiftID: sh.ID, AnyShift: true})
	require.NoError(t, err)
	assert.NotNil(t, ended.EndTime)
}

func TestEndShiftRejectsOversizedBreak(t *testing.T) {
	st := &fakeShifts{shifts: map[int64]*models.Shift{}}
	s := NewShiftService(st)
	ctx := context.Background()

	sh, err := s.Start(ctx, 7)
	require.NoError(t, err)

	_, err = s.End(ctx, EndShiftInput{ShiftID: sh.ID, EmployeeID: 7, BreakMinutes: math.MaxInt})
	assert.True(t, apperrors.IsValidation(err))
	_, err = s.End(ctx, EndShiftInput{ShiftID: sh.ID, EmployeeID: 7, BreakMinutes: models.MaxBreakMinutes + 1})
	assert.True(t, apperrors.IsValidation(err))
	assert.Nil(t, st.shifts[sh.ID].EndTime)
}
