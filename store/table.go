package store

import (
	"context"

	"diner-pos-server/apperrors"
	"diner-pos-server/models"
)

const tableColumns = `id, table_number, capacity, location, status, created_at, updated_at`

func scanTable(row scanner, t *models.DiningTable) error {
	return row.Scan(&t.ID, &t.TableNumber, &t.Capacity, &t.Location, &t.Status, &t.CreatedAt, &t.UpdatedAt)
}

func (s *Store) GetAvailableTables(ctx context.Context) ([]models.DiningTable, error) {
	db, err := s.handle()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `
		SELECT `+tableColumns+`
		FROM dining_tables
		WHERE status = 'available'
		ORDER BY table_number`)
	if err != nil {
		return nil, fail("get available tables", err)
	}
	defer rows.Close()

	tables := []models.DiningTable{}
	for rows.Next() {
		var t models.DiningTable
		if err := scanTable(rows, &t); err != nil {
			return nil, fail("scan table", err)
		}
		tables = append(tables, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fail("get available tables", err)
	}
	return tables, nil
}

func (s *Store) UpdateTableStatus(ctx context.Context, tableID int64, status string) (*models.DiningTable, error) {
	if !models.ValidTableStatus(status) {
		return nil, apperrors.Validation("status", "must be one of available, occupied, reserved, dirty")
	}

	db, err := s.handle()
	if err != nil {
		return nil, err
	}

	var t models.DiningTable
	row := db.QueryRowContext(ctx, `
		UPDATE dining_tables SET status = $2, updated_at = now()
		WHERE id = $1
		RETURNING `+tableColumns, tableID, status)
	if err := scanTable(row, &t); err != nil {
		if isNoRows(err) {
			return nil, apperrors.NotFound("table", tableID)
		}
		return nil, fail("update table status", err)
	}
	return &t, nil
}
