package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Employee is the staff profile linked to a login user.
type Employee struct {
	ID           int64               `json:"id" db:"id"`
	UserID       int64               `json:"user_id" db:"user_id"`
	EmployeeCode string              `json:"employee_code" db:"employee_code"`
	FirstName    string              `json:"first_name" db:"first_name"`
	LastName     string              `json:"last_name" db:"last_name"`
	Phone        *string             `json:"phone" db:"phone"`
	Email        *string             `json:"email" db:"email"`
	Position     string              `json:"position" db:"position"` // cashier, kitchen_staff, manager, owner
	HourlyRate   decimal.NullDecimal `json:"hourly_rate" db:"hourly_rate"`
	IsActive     bool                `json:"is_active" db:"is_active"`
	HireDate     time.Time           `json:"hire_date" db:"hire_date"`
	CreatedAt    time.Time           `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at" db:"updated_at"`
}

func (Employee) TableName() string {
	return "employees"
}

func (Employee) CreateTableSQL() string {
	return `
	CREATE TABLE IF NOT EXISTS employees (
		id BIGSERIAL PRIMARY KEY,
		user_id BIGINT NOT NULL UNIQUE REFERENCES users(id) ON DELETE CASCADE,
		employee_code VARCHAR(50) NOT NULL UNIQUE,
		first_name VARCHAR(100) NOT NULL,
		last_name VARCHAR(100) NOT NULL,
		phone VARCHAR(20),
		email VARCHAR(320),
		position VARCHAR(20) NOT NULL CHECK (position IN ('cashier', 'kitchen_staff', 'manager', 'owner')),
		hourly_rate NUMERIC(10,2),
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		hire_date TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT now(),
		created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT now(),
		updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT now()
	);`
}

// Shift is running while EndTime is nil.
type Shift struct {
	ID           int64               `json:"id" db:"id"`
	EmployeeID   int64               `json:"employee_id" db:"employee_id"`
	StartTime    time.Time           `json:"start_time" db:"start_time"`
	EndTime      *time.Time          `json:"end_time" db:"end_time"`
	BreakMinutes int                 `json:"break_minutes" db:"break_minutes"`
	TotalHours   decimal.NullDecimal `json:"total_hours" db:"total_hours"`
	CreatedAt    time.Time           `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at" db:"updated_at"`
}

func (Shift) TableName() string {
	return "shifts"
}

func (Shift) CreateTableSQL() string {
	return `
	CREATE TABLE IF NOT EXISTS shifts (
		id BIGSERIAL PRIMARY KEY,
		employee_id BIGINT NOT NULL REFERENCES employees(id) ON DELETE CASCADE,
		start_time TIMESTAMP WITH TIME ZONE NOT NULL,
		end_time TIMESTAMP WITH TIME ZONE,
		break_minutes INT NOT NULL DEFAULT 0 CHECK (break_minutes >= 0),
		total_hours NUMERIC(5,2),
		created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT now(),
		updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT now()
	);

	CREATE UNIQUE INDEX IF NOT EXISTS idx_shifts_one_running ON shifts(employee_id) WHERE end_time IS NULL;
	`
}

// MaxBreakMinutes caps the break recorded on one shift.
const MaxBreakMinutes = 24 * 60

// ShiftHours returns worked hours between start and end minus the break,
// rounded to two decimals.
func ShiftHours(start, end time.Time, breakMinutes int) decimal.Decimal {
	minutes := decimal.NewFromInt(int64(end.Sub(start))).Div(decimal.NewFromInt(int64(time.Minute)))
	worked := minutes.Sub(decimal.NewFromInt(int64(breakMinutes)))
	return worked.Div(decimal.NewFromInt(60)).Round(2)
}
