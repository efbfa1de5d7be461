package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"diner-pos-server/apperrors"
	"diner-pos-server/database"
	"diner-pos-server/services"
	"diner-pos-server/store"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "test-secret"

var (
	now      = time.Date(2024, 3, 9, 12, 30, 0, 0, time.UTC)
	userCols = []string{"id", "phone", "name", "email", "password_hash", "role", "is_active", "push_token",
		"created_at", "updated_at", "last_signed_in"}
	employeeCols = []string{"id", "user_id", "employee_code", "first_name", "last_name", "phone", "email",
		"position", "hourly_rate", "is_active", "hire_date", "created_at", "updated_at"}
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestHandler(s *store.Store) *Handler {
	return New(Deps{
		Store:     s,
		Orders:    services.NewOrderService(s, nil, decimal.RequireFromString("0.08"), decimal.NewFromInt(1)),
		Payments:  services.NewPaymentService(s, nil),
		Receipts:  services.NewReceiptService(s, nil),
		Drawers:   services.NewDrawerService(s, nil, nil),
		Shifts:    services.NewShiftService(s),
		Inventory: services.NewInventoryService(s, nil, nil),
		Sales:     services.NewSalesService(s, time.UTC),
		JWTSecret: testSecret,
	})
}

func newTestRouter(t *testing.T) (*gin.Engine, sqlmock.Sqlmock) {
	t.Helper()
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		conn.Close()
	})

	router := gin.New()
	newTestHandler(store.New(&database.DB{DB: conn})).RegisterRoutes(router)
	return router, mock
}

func bearer(t *testing.T, userID int64) string {
	t.Helper()
	token, err := generateJWT(testSecret, userID, "555-0100")
	require.NoError(t, err)
	return "Bearer " + token
}

func expectUser(mock sqlmock.Sqlmock, userID int64, role string) {
	mock.ExpectQuery("FROM users WHERE id").
		WithArgs(userID).
		WillReturnRows(sqlmock.NewRows(userCols).
			AddRow(userID, "555-0100", "Sam", nil, nil, role, true, nil, now, now, nil))
}

func expectEmployee(mock sqlmock.Sqlmock, userID, employeeID int64) {
	mock.ExpectQuery("FROM employees WHERE user_id").
		WithArgs(userID).
		WillReturnRows(sqlmock.NewRows(employeeCols).
			AddRow(employeeID, userID, "E-7", "Sam", "Lee", nil, nil, "cashier", nil, true, now, now, now))
}

func do(router http.Handler, method, path, auth, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{apperrors.Validation("quantity", "must be positive"), http.StatusBadRequest},
		{apperrors.NotFound("order", 9), http.StatusNotFound},
		{apperrors.Conflict("order %d cannot move", 9), http.StatusConflict},
		{apperrors.Unavailable(nil), http.StatusServiceUnavailable},
		{assert.AnError, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, statusFor(tc.err), tc.err.Error())
	}
}

func TestRespondErrorHidesStoreDetails(t *testing.T) {
	router := gin.New()
	router.GET("/boom", func(c *gin.Context) {
		respondError(c, apperrors.Unavailable(errors.New("dial tcp 10.0.0.5:5432: connect: connection refused")))
	})

	w := do(router, http.MethodGet, "/boom", "", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "Service temporarily unavailable", decodeBody(t, w)["error"])
	assert.NotContains(t, w.Body.String(), "10.0.0.5")
}

func TestHealth(t *testing.T) {
	router, _ := newTestRouter(t)
	w := do(router, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decodeBody(t, w)["status"])
}

func TestHealthWithoutDatabase(t *testing.T) {
	router := gin.New()
	newTestHandler(store.New(nil)).RegisterRoutes(router)

	w := do(router, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, map[string]interface{}{"status": "unavailable"}, decodeBody(t, w))
}

func TestAuthMiddlewareRejectsBadTokens(t *testing.T) {
	router, _ := newTestRouter(t)

	w := do(router, http.MethodGet, "/api/v1/menu/categories", "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(router, http.MethodGet, "/api/v1/menu/categories", "Token abc", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{UserID: 1}).SignedString([]byte("other"))
	require.NoError(t, err)
	w = do(router, http.MethodGet, "/api/v1/menu/categories", "Bearer "+forged, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogin(t *testing.T) {
	router, mock := newTestRouter(t)
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)

	mock.ExpectQuery("FROM users WHERE phone").
		WithArgs("555-0100").
		WillReturnRows(sqlmock.NewRows(userCols).
			AddRow(int64(4), "555-0100", "Sam", nil, string(hash), "cashier", true, nil, now, now, nil))
	mock.ExpectExec("UPDATE users SET last_signed_in").
		WithArgs(int64(4)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	w := do(router, http.MethodPost, "/api/v1/auth/login", "", `{"phone":"555-0100","password":"s3cret"}`)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	claims := &Claims{}
	_, err = jwt.ParseWithClaims(body["token"].(string), claims, func(*jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	})
	require.NoError(t, err)
	assert.Equal(t, int64(4), claims.UserID)
	assert.NotContains(t, w.Body.String(), "password_hash")
}

func TestLoginWrongPassword(t *testing.T) {
	router, mock := newTestRouter(t)
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)

	mock.ExpectQuery("FROM users WHERE phone").
		WillReturnRows(sqlmock.NewRows(userCols).
			AddRow(int64(4), "555-0100", "Sam", nil, string(hash), "cashier", true, nil, now, now, nil))

	w := do(router, http.MethodPost, "/api/v1/auth/login", "", `{"phone":"555-0100","password":"nope"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireRolesRejectsCustomers(t *testing.T) {
	router, mock := newTestRouter(t)
	expectUser(mock, 4, "user")

	w := do(router, http.MethodGet, "/api/v1/menu/categories", bearer(t, 4), "")
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestManagerRoutesRejectCashiers(t *testing.T) {
	router, mock := newTestRouter(t)
	expectUser(mock, 4, "cashier")

	w := do(router, http.MethodPost, "/api/v1/sales/rollup", bearer(t, 4), "")
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestGetMenuCategories(t *testing.T) {
	router, mock := newTestRouter(t)
	expectUser(mock, 4, "kitchen")
	mock.ExpectQuery("FROM menu_categories").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "description", "display_order", "is_active", "created_at", "updated_at"}).
			AddRow(int64(1), "Burgers", nil, 1, true, now, now))

	w := do(router, http.MethodGet, "/api/v1/menu/categories", bearer(t, 4), "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"Burgers"`)
}

func TestGetOrderRejectsMalformedID(t *testing.T) {
	router, mock := newTestRouter(t)
	expectUser(mock, 4, "cashier")

	w := do(router, http.MethodGet, "/api/v1/orders/abc", bearer(t, 4), "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateOrderWithoutItemsIsBadRequest(t *testing.T) {
	router, mock := newTestRouter(t)
	expectUser(mock, 4, "cashier")
	expectEmployee(mock, 4, 7)

	w := do(router, http.MethodPost, "/api/v1/orders", bearer(t, 4), `{"orderType":"dine_in","items":[]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "items", decodeBody(t, w)["field"])
}

func TestGetOpenCashDrawerNone(t *testing.T) {
	router, mock := newTestRouter(t)
	expectUser(mock, 4, "cashier")
	expectEmployee(mock, 4, 7)
	mock.ExpectQuery("FROM cash_drawers").
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	w := do(router, http.MethodGet, "/api/v1/cash-drawers/open", bearer(t, 4), "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "null", w.Body.String())
}

func TestStartShiftWithoutEmployeeProfile(t *testing.T) {
	router, mock := newTestRouter(t)
	expectUser(mock, 4, "admin")
	mock.ExpectQuery("FROM employees WHERE user_id").
		WithArgs(int64(4)).
		WillReturnRows(sqlmock.NewRows(employeeCols))

	w := do(router, http.MethodPost, "/api/v1/shifts/start", bearer(t, 4), "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "employee not found", decodeBody(t, w)["error"])
}

func TestEndShiftOfAnotherEmployee(t *testing.T) {
	router, mock := newTestRouter(t)
	expectUser(mock, 4, "cashier")
	expectEmployee(mock, 4, 7)
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT employee_id, start_time, end_time FROM shifts").
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"employee_id", "start_time", "end_time"}).
			AddRow(int64(9), now.Add(-time.Hour), nil))
	mock.ExpectRollback()

	w := do(router, http.MethodPost, "/api/v1/shifts/5/end", bearer(t, 4), `{"breakMinutes":0}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestEndShiftRejectsHugeBreak(t *testing.T) {
	router, mock := newTestRouter(t)
	expectUser(mock, 4, "manager")

	w := do(router, http.MethodPost, "/api/v1/shifts/5/end", bearer(t, 4), `{"breakMinutes":9223372036854775807}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "breakMinutes", decodeBody(t, w)["field"])
}

func TestGetDailySalesRejectsBadDate(t *testing.T) {
	router, mock := newTestRouter(t)
	expectUser(mock, 4, "manager")

	w := do(router, http.MethodGet, "/api/v1/sales/daily?date=09-03-2024", bearer(t, 4), "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRequestID(t *testing.T) {
	router := gin.New()
	router.Use(RequestID())
	router.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, c.GetString("request_id")) })

	w := do(router, http.MethodGet, "/ping", "", "")
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	assert.Equal(t, w.Header().Get("X-Request-ID"), w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get("X-Request-ID"))
}
