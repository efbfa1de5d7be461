package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"

	"diner-pos-server/config"
	"diner-pos-server/database"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
)

type seedData struct {
	Staff      []seedStaff    `yaml:"staff"`
	Modifiers  []seedModifier `yaml:"modifiers"`
	Categories []seedCategory `yaml:"categories"`
	Combos     []seedCombo    `yaml:"combos"`
	Tables     []seedTable    `yaml:"tables"`
	Inventory  []seedStock    `yaml:"inventory"`
}

type seedStaff struct {
	Phone     string `yaml:"phone"`
	Password  string `yaml:"password"`
	Role      string `yaml:"role"`
	Code      string `yaml:"code"`
	FirstName string `yaml:"first_name"`
	LastName  string `yaml:"last_name"`
	Position  string `yaml:"position"`
}

type seedModifier struct {
	Name     string `yaml:"name"`
	Required bool   `yaml:"required"`
	Options  []struct {
		Name            string          `yaml:"name"`
		PriceAdjustment decimal.Decimal `yaml:"price_adjustment"`
	} `yaml:"options"`
}

type seedCategory struct {
	Name  string     `yaml:"name"`
	Items []seedItem `yaml:"items"`
}

type seedItem struct {
	Name            string          `yaml:"name"`
	Price           decimal.Decimal `yaml:"price"`
	PrepTimeSeconds int             `yaml:"prep_time_seconds"`
	Modifiers       []string        `yaml:"modifiers"`
}

type seedCombo struct {
	Name  string          `yaml:"name"`
	Price decimal.Decimal `yaml:"price"`
	Items []struct {
		Item     string `yaml:"item"`
		Quantity int    `yaml:"quantity"`
	} `yaml:"items"`
}

type seedTable struct {
	Number   string `yaml:"number"`
	Capacity int    `yaml:"capacity"`
}

type seedStock struct {
	SKU          string          `yaml:"sku"`
	Name         string          `yaml:"name"`
	Unit         string          `yaml:"unit"`
	Quantity     decimal.Decimal `yaml:"quantity"`
	MinimumLevel decimal.Decimal `yaml:"minimum_level"`
}

func loadSeed(path string) (*seedData, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var data seedData
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &data, nil
}

func main() {
	file := flag.String("file", "seed.yaml", "seed data file")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}
	data, err := loadSeed(*file)
	if err != nil {
		log.Fatal("Failed to read seed data:", err)
	}

	ctx := context.Background()
	db, err := database.Connect(ctx, cfg.DatabaseDriver, cfg.DatabaseURL, 2)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := db.InitializeTables(ctx); err != nil {
		log.Fatal("Failed to initialize tables:", err)
	}
	if err := seed(ctx, db, data); err != nil {
		log.Fatal("Seeding failed:", err)
	}
	fmt.Println("Data insertion completed!")
}

// seed writes everything in one transaction. Existing rows are left alone,
// so the command can be rerun.
func seed(ctx context.Context, db *database.DB, data *seedData) error {
	return db.WithTx(ctx, func(tx *sql.Tx) error {
		for _, s := range data.Staff {
			hash, err := bcrypt.GenerateFromPassword([]byte(s.Password), bcrypt.DefaultCost)
			if err != nil {
				return err
			}
			var userID int64
			err = tx.QueryRowContext(ctx, `
				INSERT INTO users (phone, name, password_hash, role)
				VALUES ($1, $2, $3, $4)
				ON CONFLICT (phone) DO UPDATE SET phone = EXCLUDED.phone
				RETURNING id`,
				s.Phone, s.FirstName+" "+s.LastName, string(hash), s.Role).Scan(&userID)
			if err != nil {
				return fmt.Errorf("user %s: %w", s.Phone, err)
			}
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO employees (user_id, employee_code, first_name, last_name, position)
				VALUES ($1, $2, $3, $4, $5)
				ON CONFLICT DO NOTHING`,
				userID, s.Code, s.FirstName, s.LastName, s.Position); err != nil {
				return fmt.Errorf("employee %s: %w", s.Code, err)
			}
			fmt.Printf("Inserted staff: %s (%s)\n", s.Code, s.Role)
		}

		modifierIDs := make(map[string]int64)
		itemIDs := make(map[string]int64)
		for _, m := range data.Modifiers {
			var id int64
			err := tx.QueryRowContext(ctx, `
				INSERT INTO modifiers (name, is_required)
				VALUES ($1, $2)
				ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
				RETURNING id`, m.Name, m.Required).Scan(&id)
			if err != nil {
				return fmt.Errorf("modifier %s: %w", m.Name, err)
			}
			modifierIDs[m.Name] = id
			for i, o := range m.Options {
				if _, err := tx.ExecContext(ctx, `
					INSERT INTO modifier_options (modifier_id, name, price_adjustment, display_order)
					VALUES ($1, $2, $3, $4)
					ON CONFLICT DO NOTHING`, id, o.Name, o.PriceAdjustment, i); err != nil {
					return fmt.Errorf("modifier option %s: %w", o.Name, err)
				}
			}
		}

		for ci, cat := range data.Categories {
			var categoryID int64
			err := tx.QueryRowContext(ctx, `
				INSERT INTO menu_categories (name, display_order)
				VALUES ($1, $2)
				ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
				RETURNING id`, cat.Name, ci).Scan(&categoryID)
			if err != nil {
				return fmt.Errorf("category %s: %w", cat.Name, err)
			}

			for ii, item := range cat.Items {
				var itemID int64
				err := tx.QueryRowContext(ctx, `
					INSERT INTO menu_items (category_id, name, price, prep_time_seconds, display_order)
					VALUES ($1, $2, $3, $4, $5)
					ON CONFLICT (category_id, name) DO UPDATE SET name = EXCLUDED.name
					RETURNING id`, categoryID, item.Name, item.Price, item.PrepTimeSeconds, ii).Scan(&itemID)
				if err != nil {
					return fmt.Errorf("menu item %s: %w", item.Name, err)
				}
				itemIDs[item.Name] = itemID
				for mi, name := range item.Modifiers {
					modifierID, ok := modifierIDs[name]
					if !ok {
						return fmt.Errorf("menu item %s: unknown modifier %q", item.Name, name)
					}
					if _, err := tx.ExecContext(ctx, `
						INSERT INTO item_modifiers (menu_item_id, modifier_id, display_order)
						VALUES ($1, $2, $3)
						ON CONFLICT DO NOTHING`, itemID, modifierID, mi); err != nil {
						return fmt.Errorf("menu item %s: %w", item.Name, err)
					}
				}
			}
			fmt.Printf("Inserted category: %s (%d items)\n", cat.Name, len(cat.Items))
		}

		for co, combo := range data.Combos {
			var comboID int64
			err := tx.QueryRowContext(ctx, `
				INSERT INTO combos (name, price, display_order)
				VALUES ($1, $2, $3)
				ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
				RETURNING id`, combo.Name, combo.Price, co).Scan(&comboID)
			if err != nil {
				return fmt.Errorf("combo %s: %w", combo.Name, err)
			}
			for i, part := range combo.Items {
				itemID, ok := itemIDs[part.Item]
				if !ok {
					return fmt.Errorf("combo %s: unknown menu item %q", combo.Name, part.Item)
				}
				quantity := part.Quantity
				if quantity < 1 {
					quantity = 1
				}
				if _, err := tx.ExecContext(ctx, `
					INSERT INTO combo_items (combo_id, menu_item_id, quantity, display_order)
					VALUES ($1, $2, $3, $4)
					ON CONFLICT DO NOTHING`, comboID, itemID, quantity, i); err != nil {
					return fmt.Errorf("combo %s: %w", combo.Name, err)
				}
			}
		}

		for _, t := range data.Tables {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO dining_tables (table_number, capacity)
				VALUES ($1, $2)
				ON CONFLICT DO NOTHING`, t.Number, t.Capacity); err != nil {
				return fmt.Errorf("table %s: %w", t.Number, err)
			}
		}

		for _, s := range data.Inventory {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO inventory (sku, name, unit, quantity, minimum_level)
				VALUES ($1, $2, $3, $4, $5)
				ON CONFLICT DO NOTHING`, s.SKU, s.Name, s.Unit, s.Quantity, s.MinimumLevel); err != nil {
				return fmt.Errorf("inventory %s: %w", s.SKU, err)
			}
		}
		return nil
	})
}
