package store

import (
	"context"
	"strings"

	"diner-pos-server/apperrors"
	"diner-pos-server/models"
)

const customerColumns = `id, phone, first_name, last_name, email, loyalty_points, total_spent,
	visit_count, last_visit, created_at, updated_at`

func scanCustomer(row scanner, c *models.Customer) error {
	return row.Scan(&c.ID, &c.Phone, &c.FirstName, &c.LastName, &c.Email, &c.LoyaltyPoints,
		&c.TotalSpent, &c.VisitCount, &c.LastVisit, &c.CreatedAt, &c.UpdatedAt)
}

func (s *Store) GetCustomerByPhone(ctx context.Context, phone string) (*models.Customer, error) {
	db, err := s.handle()
	if err != nil {
		return nil, err
	}

	var c models.Customer
	row := db.QueryRowContext(ctx, `SELECT `+customerColumns+` FROM customers WHERE phone = $1`, strings.TrimSpace(phone))
	if err := scanCustomer(row, &c); err != nil {
		if isNoRows(err) {
			return nil, apperrors.NotFound("customer", phone)
		}
		return nil, fail("get customer", err)
	}
	return &c, nil
}

type CustomerInput struct {
	Phone     string
	FirstName string
	LastName  string
	Email     string
}

// UpsertCustomer creates the customer for a phone number or updates the
// existing one. Empty fields never overwrite stored values. The write is a
// single INSERT .. ON CONFLICT so concurrent calls for one phone cannot race.
func (s *Store) UpsertCustomer(ctx context.Context, in CustomerInput) (*models.Customer, error) {
	phone := strings.TrimSpace(in.Phone)
	if phone == "" {
		return nil, apperrors.Validation("phone", "phone is required")
	}

	db, err := s.handle()
	if err != nil {
		return nil, err
	}

	var c models.Customer
	row := db.QueryRowContext(ctx, `
		INSERT INTO customers (phone, first_name, last_name, email)
		VALUES ($1, NULLIF($2, ''), NULLIF($3, ''), NULLIF($4, ''))
		ON CONFLICT (phone) DO UPDATE SET
			first_name = COALESCE(EXCLUDED.first_name, customers.first_name),
			last_name = COALESCE(EXCLUDED.last_name, customers.last_name),
			email = COALESCE(EXCLUDED.email, customers.email),
			updated_at = now()
		RETURNING `+customerColumns,
		phone, strings.TrimSpace(in.FirstName), strings.TrimSpace(in.LastName), strings.TrimSpace(in.Email))
	if err := scanCustomer(row, &c); err != nil {
		return nil, fail("upsert customer", err)
	}
	return &c, nil
}
