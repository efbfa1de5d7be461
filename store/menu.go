package store

import (
	"context"

	"diner-pos-server/apperrors"
	"diner-pos-server/models"
)

const menuItemColumns = `id, category_id, name, description, price, cost, image_url, is_available,
	prep_time_seconds, display_order, created_at, updated_at`

const comboColumns = `id, name, description, price, image_url, is_available, display_order, created_at, updated_at`

func scanMenuItem(row scanner, it *models.MenuItem) error {
	return row.Scan(&it.ID, &it.CategoryID, &it.Name, &it.Description, &it.Price, &it.Cost,
		&it.ImageURL, &it.IsAvailable, &it.PrepTimeSeconds, &it.DisplayOrder, &it.CreatedAt, &it.UpdatedAt)
}

func scanCombo(row scanner, c *models.Combo) error {
	return row.Scan(&c.ID, &c.Name, &c.Description, &c.Price, &c.ImageURL, &c.IsAvailable,
		&c.DisplayOrder, &c.CreatedAt, &c.UpdatedAt)
}

// GetMenuCategories returns active categories in display order.
func (s *Store) GetMenuCategories(ctx context.Context) ([]models.MenuCategory, error) {
	db, err := s.handle()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `
		SELECT id, name, description, display_order, is_active, created_at, updated_at
		FROM menu_categories
		WHERE is_active = TRUE
		ORDER BY display_order, name`)
	if err != nil {
		return nil, fail("get menu categories", err)
	}
	defer rows.Close()

	categories := []models.MenuCategory{}
	for rows.Next() {
		var c models.MenuCategory
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.DisplayOrder, &c.IsActive, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fail("scan menu category", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fail("get menu categories", err)
	}
	return categories, nil
}

// GetMenuItemsByCategory returns the available items of one category.
func (s *Store) GetMenuItemsByCategory(ctx context.Context, categoryID int64) ([]models.MenuItem, error) {
	db, err := s.handle()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `
		SELECT `+menuItemColumns+`
		FROM menu_items
		WHERE category_id = $1 AND is_available = TRUE
		ORDER BY display_order, name`, categoryID)
	if err != nil {
		return nil, fail("get menu items", err)
	}
	defer rows.Close()

	items := []models.MenuItem{}
	for rows.Next() {
		var it models.MenuItem
		if err := scanMenuItem(rows, &it); err != nil {
			return nil, fail("scan menu item", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fail("get menu items", err)
	}
	return items, nil
}

// GetMenuItemWithModifiers loads an item, its modifier groups and every
// option of those groups.
func (s *Store) GetMenuItemWithModifiers(ctx context.Context, itemID int64) (*models.MenuItemDetail, error) {
	db, err := s.handle()
	if err != nil {
		return nil, err
	}

	detail := &models.MenuItemDetail{Modifiers: []models.Modifier{}}
	row := db.QueryRowContext(ctx, `SELECT `+menuItemColumns+` FROM menu_items WHERE id = $1`, itemID)
	if err := scanMenuItem(row, &detail.MenuItem); err != nil {
		if isNoRows(err) {
			return nil, apperrors.NotFound("menu item", itemID)
		}
		return nil, fail("get menu item", err)
	}

	rows, err := db.QueryContext(ctx, `
		SELECT m.id, m.name, m.description, m.is_required, m.display_order, m.created_at, m.updated_at
		FROM modifiers m
		JOIN item_modifiers im ON im.modifier_id = m.id
		WHERE im.menu_item_id = $1
		ORDER BY im.display_order, m.display_order, m.name`, itemID)
	if err != nil {
		return nil, fail("get item modifiers", err)
	}
	defer rows.Close()

	index := map[int64]int{}
	for rows.Next() {
		m := models.Modifier{Options: []models.ModifierOption{}}
		if err := rows.Scan(&m.ID, &m.Name, &m.Description, &m.IsRequired, &m.DisplayOrder, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, fail("scan modifier", err)
		}
		index[m.ID] = len(detail.Modifiers)
		detail.Modifiers = append(detail.Modifiers, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fail("get item modifiers", err)
	}
	if len(detail.Modifiers) == 0 {
		return detail, nil
	}

	optRows, err := db.QueryContext(ctx, `
		SELECT o.id, o.modifier_id, o.name, o.price_adjustment, o.display_order
		FROM modifier_options o
		JOIN item_modifiers im ON im.modifier_id = o.modifier_id
		WHERE im.menu_item_id = $1
		ORDER BY o.modifier_id, o.display_order, o.name`, itemID)
	if err != nil {
		return nil, fail("get modifier options", err)
	}
	defer optRows.Close()

	for optRows.Next() {
		var o models.ModifierOption
		if err := optRows.Scan(&o.ID, &o.ModifierID, &o.Name, &o.PriceAdjustment, &o.DisplayOrder); err != nil {
			return nil, fail("scan modifier option", err)
		}
		if i, ok := index[o.ModifierID]; ok {
			detail.Modifiers[i].Options = append(detail.Modifiers[i].Options, o)
		}
	}
	if err := optRows.Err(); err != nil {
		return nil, fail("get modifier options", err)
	}
	return detail, nil
}

// GetCombos returns the available combos.
func (s *Store) GetCombos(ctx context.Context) ([]models.Combo, error) {
	db, err := s.handle()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `
		SELECT `+comboColumns+`
		FROM combos
		WHERE is_available = TRUE
		ORDER BY display_order, name`)
	if err != nil {
		return nil, fail("get combos", err)
	}
	defer rows.Close()

	combos := []models.Combo{}
	for rows.Next() {
		var c models.Combo
		if err := scanCombo(rows, &c); err != nil {
			return nil, fail("scan combo", err)
		}
		combos = append(combos, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fail("get combos", err)
	}
	return combos, nil
}

func (s *Store) GetComboWithItems(ctx context.Context, comboID int64) (*models.ComboDetail, error) {
	db, err := s.handle()
	if err != nil {
		return nil, err
	}

	detail := &models.ComboDetail{Items: []models.ComboItem{}}
	row := db.QueryRowContext(ctx, `SELECT `+comboColumns+` FROM combos WHERE id = $1`, comboID)
	if err := scanCombo(row, &detail.Combo); err != nil {
		if isNoRows(err) {
			return nil, apperrors.NotFound("combo", comboID)
		}
		return nil, fail("get combo", err)
	}

	rows, err := db.QueryContext(ctx, `
		SELECT ci.id, ci.combo_id, ci.menu_item_id, ci.quantity, ci.display_order, mi.name
		FROM combo_items ci
		JOIN menu_items mi ON mi.id = ci.menu_item_id
		WHERE ci.combo_id = $1
		ORDER BY ci.display_order, ci.id`, comboID)
	if err != nil {
		return nil, fail("get combo items", err)
	}
	defer rows.Close()

	for rows.Next() {
		var ci models.ComboItem
		if err := rows.Scan(&ci.ID, &ci.ComboID, &ci.MenuItemID, &ci.Quantity, &ci.DisplayOrder, &ci.MenuItemName); err != nil {
			return nil, fail("scan combo item", err)
		}
		detail.Items = append(detail.Items, ci)
	}
	if err := rows.Err(); err != nil {
		return nil, fail("get combo items", err)
	}
	return detail, nil
}
