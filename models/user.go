package models

import (
	"time"
)

const (
	RoleUser    = "user"
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleCashier = "cashier"
	RoleKitchen = "kitchen"
)

// StaffRoles may use the POS procedures.
var StaffRoles = []string{RoleAdmin, RoleManager, RoleCashier, RoleKitchen}

type User struct {
	ID           int64      `json:"id" db:"id"`
	Phone        string     `json:"phone" db:"phone"`
	Name         *string    `json:"name" db:"name"`
	Email        *string    `json:"email" db:"email"`
	PasswordHash *string    `json:"-" db:"password_hash"`
	Role         string     `json:"role" db:"role"`
	IsActive     bool       `json:"is_active" db:"is_active"`
	PushToken    *string    `json:"-" db:"push_token"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
	LastSignedIn *time.Time `json:"last_signed_in" db:"last_signed_in"`
}

func (User) TableName() string {
	return "users"
}

func (User) CreateTableSQL() string {
	return `
	CREATE TABLE IF NOT EXISTS users (
		id BIGSERIAL PRIMARY KEY,
		phone VARCHAR(20) NOT NULL UNIQUE,
		name TEXT,
		email VARCHAR(320),
		password_hash TEXT,
		role VARCHAR(20) NOT NULL DEFAULT 'user' CHECK (role IN ('user', 'admin', 'manager', 'cashier', 'kitchen')),
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		push_token TEXT,
		created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT now(),
		updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT now(),
		last_signed_in TIMESTAMP WITH TIME ZONE
	);`
}
