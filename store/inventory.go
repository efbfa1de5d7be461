package store

import (
	"context"
	"database/sql"

	"diner-pos-server/apperrors"
	"diner-pos-server/models"

	"github.com/shopspring/decimal"
)

const inventoryColumns = `id, name, sku, description, unit, quantity, minimum_level, maximum_level,
	unit_cost, reorder_point, reorder_quantity, last_restock_date, created_at, updated_at`

func scanInventory(row scanner, i *models.InventoryItem) error {
	return row.Scan(&i.ID, &i.Name, &i.SKU, &i.Description, &i.Unit, &i.Quantity, &i.MinimumLevel,
		&i.MaximumLevel, &i.UnitCost, &i.ReorderPoint, &i.ReorderQuantity, &i.LastRestockDate,
		&i.CreatedAt, &i.UpdatedAt)
}

// GetLowStockItems returns items whose quantity is at or below the minimum level.
func (s *Store) GetLowStockItems(ctx context.Context) ([]models.InventoryItem, error) {
	db, err := s.handle()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `
		SELECT `+inventoryColumns+`
		FROM inventory
		WHERE quantity <= minimum_level
		ORDER BY name`)
	if err != nil {
		return nil, fail("get low stock items", err)
	}
	defer rows.Close()

	items := []models.InventoryItem{}
	for rows.Next() {
		var it models.InventoryItem
		if err := scanInventory(rows, &it); err != nil {
			return nil, fail("scan inventory item", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fail("get low stock items", err)
	}
	return items, nil
}

func (s *Store) GetInventoryItemBySKU(ctx context.Context, sku string) (*models.InventoryItem, error) {
	db, err := s.handle()
	if err != nil {
		return nil, err
	}

	var it models.InventoryItem
	row := db.QueryRowContext(ctx, `SELECT `+inventoryColumns+` FROM inventory WHERE sku = $1`, sku)
	if err := scanInventory(row, &it); err != nil {
		if isNoRows(err) {
			return nil, apperrors.NotFound("inventory item", sku)
		}
		return nil, fail("get inventory item", err)
	}
	return &it, nil
}

type AdjustInventoryParams struct {
	InventoryID int64
	Type        string
	Delta       decimal.Decimal // signed change to apply
	Reason      *string
	EmployeeID  *int64
}

// AdjustInventory applies a stock change and logs it in one transaction.
// A change that would leave negative stock is rejected.
func (s *Store) AdjustInventory(ctx context.Context, p AdjustInventoryParams) (*models.InventoryItem, error) {
	db, err := s.handle()
	if err != nil {
		return nil, err
	}

	var it models.InventoryItem
	err = db.WithTx(ctx, func(tx *sql.Tx) error {
		row := tx.QueryRowContext(ctx, `
			UPDATE inventory
			SET quantity = quantity + $2,
				last_restock_date = CASE WHEN $3 THEN now() ELSE last_restock_date END,
				updated_at = now()
			WHERE id = $1
			RETURNING `+inventoryColumns,
			p.InventoryID, p.Delta, p.Type == models.InventoryRestock)
		if err := scanInventory(row, &it); err != nil {
			if isNoRows(err) {
				return apperrors.NotFound("inventory item", p.InventoryID)
			}
			return err
		}
		if it.Quantity.IsNegative() {
			return apperrors.Validation("quantity", "adjustment would leave negative stock")
		}

		_, err := tx.ExecContext(ctx, `
			INSERT INTO inventory_transactions (inventory_id, type, quantity, reason, employee_id)
			VALUES ($1, $2, $3, $4, $5)`,
			p.InventoryID, p.Type, p.Delta, p.Reason, p.EmployeeID)
		return err
	})
	if err != nil {
		return nil, fail("adjust inventory", err)
	}
	return &it, nil
}
