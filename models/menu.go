package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type MenuCategory struct {
	ID           int64     `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Description  *string   `json:"description" db:"description"`
	DisplayOrder int       `json:"display_order" db:"display_order"`
	IsActive     bool      `json:"is_active" db:"is_active"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

func (MenuCategory) TableName() string {
	return "menu_categories"
}

func (MenuCategory) CreateTableSQL() string {
	return `
	CREATE TABLE IF NOT EXISTS menu_categories (
		id BIGSERIAL PRIMARY KEY,
		name VARCHAR(100) NOT NULL UNIQUE,
		description TEXT,
		display_order INT NOT NULL DEFAULT 0,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT now(),
		updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT now()
	);`
}

type MenuItem struct {
	ID              int64               `json:"id" db:"id"`
	CategoryID      int64               `json:"category_id" db:"category_id"`
	Name            string              `json:"name" db:"name"`
	Description     *string             `json:"description" db:"description"`
	Price           decimal.Decimal     `json:"price" db:"price"`
	Cost            decimal.NullDecimal `json:"cost" db:"cost"`
	ImageURL        *string             `json:"image_url" db:"image_url"`
	IsAvailable     bool                `json:"is_available" db:"is_available"`
	PrepTimeSeconds int                 `json:"prep_time_seconds" db:"prep_time_seconds"`
	DisplayOrder    int                 `json:"display_order" db:"display_order"`
	CreatedAt       time.Time           `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at" db:"updated_at"`
}

func (MenuItem) TableName() string {
	return "menu_items"
}

func (MenuItem) CreateTableSQL() string {
	return `
	CREATE TABLE IF NOT EXISTS menu_items (
		id BIGSERIAL PRIMARY KEY,
		category_id BIGINT NOT NULL REFERENCES menu_categories(id) ON DELETE CASCADE,
		name VARCHAR(150) NOT NULL,
		description TEXT,
		price NUMERIC(10,2) NOT NULL CHECK (price >= 0),
		cost NUMERIC(10,2),
		image_url TEXT,
		is_available BOOLEAN NOT NULL DEFAULT TRUE,
		prep_time_seconds INT NOT NULL DEFAULT 0,
		display_order INT NOT NULL DEFAULT 0,
		created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT now(),
		updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT now(),
		UNIQUE (category_id, name)
	);

	CREATE INDEX IF NOT EXISTS idx_menu_items_category_id ON menu_items(category_id);
	`
}

// Modifier is a customization group such as spice level.
type Modifier struct {
	ID           int64            `json:"id" db:"id"`
	Name         string           `json:"name" db:"name"`
	Description  *string          `json:"description" db:"description"`
	IsRequired   bool             `json:"is_required" db:"is_required"`
	DisplayOrder int              `json:"display_order" db:"display_order"`
	CreatedAt    time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at" db:"updated_at"`
	Options      []ModifierOption `json:"options"`
}

func (Modifier) TableName() string {
	return "modifiers"
}

func (Modifier) CreateTableSQL() string {
	return `
	CREATE TABLE IF NOT EXISTS modifiers (
		id BIGSERIAL PRIMARY KEY,
		name VARCHAR(100) NOT NULL UNIQUE,
		description TEXT,
		is_required BOOLEAN NOT NULL DEFAULT FALSE,
		display_order INT NOT NULL DEFAULT 0,
		created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT now(),
		updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT now()
	);`
}

type ModifierOption struct {
	ID              int64           `json:"id" db:"id"`
	ModifierID      int64           `json:"modifier_id" db:"modifier_id"`
	Name            string          `json:"name" db:"name"`
	PriceAdjustment decimal.Decimal `json:"price_adjustment" db:"price_adjustment"`
	DisplayOrder    int             `json:"display_order" db:"display_order"`
}

func (ModifierOption) TableName() string {
	return "modifier_options"
}

func (ModifierOption) CreateTableSQL() string {
	return `
	CREATE TABLE IF NOT EXISTS modifier_options (
		id BIGSERIAL PRIMARY KEY,
		modifier_id BIGINT NOT NULL REFERENCES modifiers(id) ON DELETE CASCADE,
		name VARCHAR(100) NOT NULL,
		price_adjustment NUMERIC(10,2) NOT NULL DEFAULT 0,
		display_order INT NOT NULL DEFAULT 0,
		created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT now(),
		updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT now(),
		UNIQUE (modifier_id, name)
	);`
}

type ItemModifier struct {
	ID           int64 `json:"id" db:"id"`
	MenuItemID   int64 `json:"menu_item_id" db:"menu_item_id"`
	ModifierID   int64 `json:"modifier_id" db:"modifier_id"`
	DisplayOrder int   `json:"display_order" db:"display_order"`
}

func (ItemModifier) TableName() string {
	return "item_modifiers"
}

func (ItemModifier) CreateTableSQL() string {
	return `
	CREATE TABLE IF NOT EXISTS item_modifiers (
		id BIGSERIAL PRIMARY KEY,
		menu_item_id BIGINT NOT NULL REFERENCES menu_items(id) ON DELETE CASCADE,
		modifier_id BIGINT NOT NULL REFERENCES modifiers(id) ON DELETE CASCADE,
		display_order INT NOT NULL DEFAULT 0,
		created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT now(),
		UNIQUE (menu_item_id, modifier_id)
	);`
}

// MenuItemDetail is a menu item with its modifier groups and their options.
type MenuItemDetail struct {
	MenuItem
	Modifiers []Modifier `json:"modifiers"`
}

// Combo is a fixed bundle of menu items sold under one price.
type Combo struct {
	ID           int64           `json:"id" db:"id"`
	Name         string          `json:"name" db:"name"`
	Description  *string         `json:"description" db:"description"`
	Price        decimal.Decimal `json:"price" db:"price"`
	ImageURL     *string         `json:"image_url" db:"image_url"`
	IsAvailable  bool            `json:"is_available" db:"is_available"`
	DisplayOrder int             `json:"display_order" db:"display_order"`
	CreatedAt    time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at" db:"updated_at"`
}

func (Combo) TableName() string {
	return "combos"
}

func (Combo) CreateTableSQL() string {
	return `
	CREATE TABLE IF NOT EXISTS combos (
		id BIGSERIAL PRIMARY KEY,
		name VARCHAR(150) NOT NULL UNIQUE,
		description TEXT,
		price NUMERIC(10,2) NOT NULL CHECK (price >= 0),
		image_url TEXT,
		is_available BOOLEAN NOT NULL DEFAULT TRUE,
		display_order INT NOT NULL DEFAULT 0,
		created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT now(),
		updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT now()
	);`
}

type ComboItem struct {
	ID           int64 `json:"id" db:"id"`
	ComboID      int64 `json:"combo_id" db:"combo_id"`
	MenuItemID   int64 `json:"menu_item_id" db:"menu_item_id"`
	Quantity     int   `json:"quantity" db:"quantity"`
	DisplayOrder int   `json:"display_order" db:"display_order"`
	// Joined from menu_items for display
	MenuItemName string `json:"menu_item_name,omitempty"`
}

func (ComboItem) TableName() string {
	return "combo_items"
}

func (ComboItem) CreateTableSQL() string {
	return `
	CREATE TABLE IF NOT EXISTS combo_items (
		id BIGSERIAL PRIMARY KEY,
		combo_id BIGINT NOT NULL REFERENCES combos(id) ON DELETE CASCADE,
		menu_item_id BIGINT NOT NULL REFERENCES menu_items(id) ON DELETE CASCADE,
		quantity INT NOT NULL DEFAULT 1 CHECK (quantity > 0),
		display_order INT NOT NULL DEFAULT 0,
		created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT now(),
		UNIQUE (combo_id, menu_item_id)
	);`
}

type ComboDetail struct {
	Combo
	Items []ComboItem `json:"items"`
}
