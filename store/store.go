// Package store is the data-access layer. Every operation takes a context,
// runs one query or one short transaction, and returns plain records or an
// apperrors kind.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"diner-pos-server/apperrors"
	"diner-pos-server/database"
)

var errNoDatabase = errors.New("no database handle configured")

// Store is the injected handle the services and handlers share. The caller
// owns the underlying database and closes it.
type Store struct {
	db *database.DB
}

func New(db *database.DB) *Store {
	return &Store{db: db}
}

func (s *Store) handle() (*database.DB, error) {
	if s == nil || s.db == nil {
		return nil, apperrors.Unavailable(errNoDatabase)
	}
	return s.db, nil
}

// Ping reports whether the store can reach the database.
func (s *Store) Ping(ctx context.Context) error {
	db, err := s.handle()
	if err != nil {
		return err
	}
	return db.HealthCheck(ctx)
}

type scanner interface {
	Scan(dest ...any) error
}

// fail classifies err and adds the operation name. sql.ErrNoRows should be
// handled by the caller before reaching here.
func fail(op string, err error) error {
	return fmt.Errorf("%s: %w", op, database.Classify(err))
}

// placeholders returns "$start, $start+1, ..." for n parameters.
func placeholders(start, n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = "$" + strconv.Itoa(start+i)
	}
	return strings.Join(parts, ", ")
}

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
