package store

import (
	"context"
	"math"
	"testing"
	"time"

	"diner-pos-server/apperrors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var shiftCols = []string{"id", "employee_id", "start_time", "end_time", "break_minutes", "total_hours",
	"created_at", "updated_at"}

func TestStartShiftWhileRunningIsConflict(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery("INSERT INTO shifts").
		WithArgs(int64(7), now).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "idx_shifts_one_running"})

	_, err := s.StartShift(context.Background(), 7, now)
	assert.True(t, apperrors.IsConflict(err))
}

func TestEndShiftComputesHours(t *testing.T) {
	s, mock := newMockStore(t)
	start := now.Add(-8 * time.Hour)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT employee_id, start_time, end_time FROM shifts").
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"employee_id", "start_time", "end_time"}).AddRow(int64(7), start, nil))
	mock.ExpectQuery("UPDATE shifts SET end_time").
		WithArgs(int64(5), now, 30, "7.5").
		WillReturnRows(sqlmock.NewRows(shiftCols).AddRow(int64(5), int64(7), start, now, 30, "7.50", now, now))
	mock.ExpectCommit()

	sh, err := s.EndShift(context.Background(), EndShiftParams{ShiftID: 5, EmployeeID: 7, BreakMinutes: 30, End: now})
	require.NoError(t, err)
	require.True(t, sh.TotalHours.Valid)
	assert.Equal(t, "7.5", sh.TotalHours.Decimal.String())
}

func TestEndShiftAlreadyEnded(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT employee_id, start_time, end_time FROM shifts").
		WillReturnRows(sqlmock.NewRows([]string{"employee_id", "start_time", "end_time"}).AddRow(int64(7), now.Add(-time.Hour), now))
	mock.ExpectRollback()

	_, err := s.EndShift(context.Background(), EndShiftParams{ShiftID: 5, End: now})
	assert.True(t, apperrors.IsConflict(err))
}

func TestEndShiftBreakLongerThanShift(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT employee_id, start_time, end_time FROM shifts").
		WillReturnRows(sqlmock.NewRows([]string{"employee_id", "start_time", "end_time"}).AddRow(int64(7), now.Add(-time.Hour), nil))
	mock.ExpectRollback()

	_, err := s.EndShift(context.Background(), EndShiftParams{ShiftID: 5, BreakMinutes: 61, End: now})
	assert.True(t, apperrors.IsValidation(err))
}

func TestEndShiftNegativeBreak(t *testing.T) {
	s, _ := newMockStore(t)

	_, err := s.EndShift(context.Background(), EndShiftParams{ShiftID: 5, BreakMinutes: -1, End: now})
	assert.True(t, apperrors.IsValidation(err))

	_, err = s.EndShift(context.Background(), EndShiftParams{ShiftID: 5, BreakMinutes: math.MaxInt, End: now})
	assert.True(t, apperrors.IsValidation(err))
}

func TestEndShiftOfAnotherEmployeeIsNotFound(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT employee_id, start_time, end_time FROM shifts").
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"employee_id", "start_time", "end_time"}).AddRow(int64(9), now.Add(-time.Hour), nil))
	mock.ExpectRollback()

	_, err := s.EndShift(context.Background(), EndShiftParams{ShiftID: 5, EmployeeID: 7, End: now})
	assert.True(t, apperrors.IsNotFound(err))
}

func TestGetEmployeeByUserIDMissing(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery("FROM employees WHERE user_id").
		WithArgs(int64(12)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := s.GetEmployeeByUserID(context.Background(), 12)
	require.True(t, apperrors.IsNotFound(err))
	assert.Equal(t, "employee not found", err.Error())
}
