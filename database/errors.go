package database

import (
	"database/sql"
	"database/sql/driver"
	"errors"
	"net"
	"strings"

	"diner-pos-server/apperrors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

// Foreign keys whose violation means the caller referenced a missing row.
var referenceNames = map[string]string{
	"orders_customer_id_fkey":                 "customer",
	"orders_employee_id_fkey":                 "employee",
	"orders_table_id_fkey":                    "table",
	"order_items_menu_item_id_fkey":           "menu item",
	"order_items_combo_id_fkey":               "combo",
	"top_items_menu_item_id_fkey":             "menu item",
	"top_items_combo_id_fkey":                 "combo",
	"shifts_employee_id_fkey":                 "employee",
	"cash_drawers_employee_id_fkey":           "employee",
	"payments_order_id_fkey":                  "order",
	"receipts_order_id_fkey":                  "order",
	"inventory_transactions_employee_id_fkey": "employee",
}

// Constraint names with a friendlier conflict message.
var conflictMessages = map[string]string{
	"orders_order_number_key":     "order number already exists",
	"customers_phone_key":         "a customer with this phone already exists",
	"idx_cash_drawers_one_open":   "employee already has an open cash drawer",
	"idx_shifts_one_running":      "employee already has a running shift",
	"receipts_receipt_number_key": "receipt number already exists",
	"inventory_sku_key":           "inventory sku already exists",
}

// Classify maps driver errors from lib/pq or pgx onto the apperrors kinds.
// Unique violations become conflicts, foreign key violations become NotFound
// and connection failures become StoreUnavailable. sql.ErrNoRows and unknown
// errors pass through unchanged.
func Classify(err error) error {
	if err == nil || errors.Is(err, sql.ErrNoRows) {
		return err
	}
	if apperrors.IsConflict(err) || apperrors.IsStoreUnavailable(err) ||
		apperrors.IsValidation(err) || apperrors.IsNotFound(err) {
		return err
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch string(pqErr.Code) {
		case uniqueViolation:
			return conflict(pqErr.Constraint, err)
		case foreignKeyViolation:
			return missingReference(pqErr.Constraint)
		}
		if pqErr.Code.Class() == "08" {
			return apperrors.Unavailable(err)
		}
		return err
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolation:
			return conflict(pgErr.ConstraintName, err)
		case foreignKeyViolation:
			return missingReference(pgErr.ConstraintName)
		}
		if strings.HasPrefix(pgErr.Code, "08") {
			return apperrors.Unavailable(err)
		}
		return err
	}

	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) {
		return apperrors.Unavailable(err)
	}
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) {
		return apperrors.Unavailable(err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return apperrors.Unavailable(err)
	}

	return err
}

func conflict(constraint string, err error) error {
	msg, ok := conflictMessages[constraint]
	if !ok {
		msg = "duplicate value violates " + constraint
	}
	return &apperrors.ConflictError{Message: msg, Constraint: constraint, Err: err}
}

func missingReference(constraint string) error {
	entity, ok := referenceNames[constraint]
	if !ok {
		entity = "referenced record"
	}
	return apperrors.NotFound(entity, nil)
}
