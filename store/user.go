package store

import (
	"context"
	"strings"

	"diner-pos-server/apperrors"
	"diner-pos-server/models"
)

const userColumns = `id, phone, name, email, password_hash, role, is_active, push_token,
	created_at, updated_at, last_signed_in`

func scanUser(row scanner, u *models.User) error {
	return row.Scan(&u.ID, &u.Phone, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.IsActive,
		&u.PushToken, &u.CreatedAt, &u.UpdatedAt, &u.LastSignedIn)
}

func (s *Store) GetUserByPhone(ctx context.Context, phone string) (*models.User, error) {
	db, err := s.handle()
	if err != nil {
		return nil, err
	}

	var u models.User
	row := db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE phone = $1`, strings.TrimSpace(phone))
	if err := scanUser(row, &u); err != nil {
		if isNoRows(err) {
			return nil, apperrors.NotFound("user", nil)
		}
		return nil, fail("get user", err)
	}
	return &u, nil
}

func (s *Store) GetUserByID(ctx context.Context, userID int64) (*models.User, error) {
	db, err := s.handle()
	if err != nil {
		return nil, err
	}

	var u models.User
	row := db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, userID)
	if err := scanUser(row, &u); err != nil {
		if isNoRows(err) {
			return nil, apperrors.NotFound("user", userID)
		}
		return nil, fail("get user", err)
	}
	return &u, nil
}

func (s *Store) TouchLastSignedIn(ctx context.Context, userID int64) error {
	db, err := s.handle()
	if err != nil {
		return err
	}

	if _, err := db.ExecContext(ctx, `UPDATE users SET last_signed_in = now() WHERE id = $1`, userID); err != nil {
		return fail("touch last signed in", err)
	}
	return nil
}

// GetManagerPushTokens returns the push tokens of active managers and admins.
func (s *Store) GetManagerPushTokens(ctx context.Context) ([]string, error) {
	db, err := s.handle()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `
		SELECT push_token
		FROM users
		WHERE role IN ('admin', 'manager') AND is_active = TRUE
			AND push_token IS NOT NULL AND push_token <> ''`)
	if err != nil {
		return nil, fail("get manager push tokens", err)
	}
	defer rows.Close()

	var tokens []string
	for rows.Next() {
		var token string
		if err := rows.Scan(&token); err != nil {
			return nil, fail("scan push token", err)
		}
		tokens = append(tokens, token)
	}
	if err := rows.Err(); err != nil {
		return nil, fail("get manager push tokens", err)
	}
	return tokens, nil
}
