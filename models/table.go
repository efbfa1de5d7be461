package models

import (
	"time"
)

type DiningTable struct {
	ID          int64     `json:"id" db:"id"`
	TableNumber string    `json:"table_number" db:"table_number"`
	Capacity    int       `json:"capacity" db:"capacity"`
	Location    *string   `json:"location" db:"location"`
	Status      string    `json:"status" db:"status"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

const (
	TableAvailable = "available"
	TableOccupied  = "occupied"
	TableReserved  = "reserved"
	TableDirty     = "dirty"
)

func ValidTableStatus(status string) bool {
	switch status {
	case TableAvailable, TableOccupied, TableReserved, TableDirty:
		return true
	}
	return false
}

func (DiningTable) TableName() string {
	return "dining_tables"
}

func (DiningTable) CreateTableSQL() string {
	return `
	CREATE TABLE IF NOT EXISTS dining_tables (
		id BIGSERIAL PRIMARY KEY,
		table_number VARCHAR(50) NOT NULL UNIQUE,
		capacity INT NOT NULL CHECK (capacity > 0),
		location VARCHAR(100),
		status VARCHAR(20) NOT NULL DEFAULT 'available' CHECK (status IN ('available', 'occupied', 'reserved', 'dirty')),
		created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT now(),
		updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT now()
	);`
}
