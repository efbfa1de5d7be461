package store

import (
	"context"
	"database/sql"
	"time"

	"diner-pos-server/apperrors"
	"diner-pos-server/models"
)

const employeeColumns = `id, user_id, employee_code, first_name, last_name, phone, email, position,
	hourly_rate, is_active, hire_date, created_at, updated_at`

const shiftColumns = `id, employee_id, start_time, end_time, break_minutes, total_hours, created_at, updated_at`

func scanShift(row scanner, sh *models.Shift) error {
	return row.Scan(&sh.ID, &sh.EmployeeID, &sh.StartTime, &sh.EndTime, &sh.BreakMinutes, &sh.TotalHours,
		&sh.CreatedAt, &sh.UpdatedAt)
}

// GetEmployeeByUserID resolves the staff profile behind a login.
func (s *Store) GetEmployeeByUserID(ctx context.Context, userID int64) (*models.Employee, error) {
	db, err := s.handle()
	if err != nil {
		return nil, err
	}

	var e models.Employee
	err = db.QueryRowContext(ctx, `SELECT `+employeeColumns+` FROM employees WHERE user_id = $1`, userID).
		Scan(&e.ID, &e.UserID, &e.EmployeeCode, &e.FirstName, &e.LastName, &e.Phone, &e.Email, &e.Position,
			&e.HourlyRate, &e.IsActive, &e.HireDate, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, apperrors.NotFound("employee", nil)
		}
		return nil, fail("get employee", err)
	}
	return &e, nil
}

// StartShift opens a running shift. A second running shift for the same
// employee is rejected by the idx_shifts_one_running index.
func (s *Store) StartShift(ctx context.Context, employeeID int64, start time.Time) (*models.Shift, error) {
	db, err := s.handle()
	if err != nil {
		return nil, err
	}

	var sh models.Shift
	row := db.QueryRowContext(ctx, `
		INSERT INTO shifts (employee_id, start_time)
		VALUES ($1, $2)
		RETURNING `+shiftColumns, employeeID, start)
	if err := scanShift(row, &sh); err != nil {
		return nil, fail("start shift", err)
	}
	return &sh, nil
}

type EndShiftParams struct {
	ShiftID      int64
	EmployeeID   int64 // 0 ends the shift whoever owns it
	BreakMinutes int
	End          time.Time
}

// EndShift closes a running shift and stores its worked hours. A shift owned
// by someone other than p.EmployeeID reads as missing.
func (s *Store) EndShift(ctx context.Context, p EndShiftParams) (*models.Shift, error) {
	shiftID, breakMinutes, end := p.ShiftID, p.BreakMinutes, p.End
	if breakMinutes < 0 {
		return nil, apperrors.Validation("break_minutes", "must not be negative")
	}
	if breakMinutes > models.MaxBreakMinutes {
		return nil, apperrors.Validation("break_minutes", "must be at most one day")
	}

	db, err := s.handle()
	if err != nil {
		return nil, err
	}

	var sh models.Shift
	err = db.WithTx(ctx, func(tx *sql.Tx) error {
		var (
			owner int64
			start time.Time
			ended *time.Time
		)
		err := tx.QueryRowContext(ctx, `SELECT employee_id, start_time, end_time FROM shifts WHERE id = $1 FOR UPDATE`, shiftID).
			Scan(&owner, &start, &ended)
		if err != nil {
			if isNoRows(err) {
				return apperrors.NotFound("shift", shiftID)
			}
			return err
		}
		if p.EmployeeID != 0 && owner != p.EmployeeID {
			return apperrors.NotFound("shift", shiftID)
		}
		if ended != nil {
			return apperrors.Conflict("shift %d has already ended", shiftID)
		}
		if end.Sub(start) < time.Duration(breakMinutes)*time.Minute {
			return apperrors.Validation("break_minutes", "break is longer than the shift")
		}

		hours := models.ShiftHours(start, end, breakMinutes)
		row := tx.QueryRowContext(ctx, `
			UPDATE shifts SET end_time = $2, break_minutes = $3, total_hours = $4, updated_at = now()
			WHERE id = $1
			RETURNING `+shiftColumns, shiftID, end, breakMinutes, hours)
		return scanShift(row, &sh)
	})
	if err != nil {
		return nil, fail("end shift", err)
	}
	return &sh, nil
}
