package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fintrack/fintrack-be/internal/api"
	"github.com/fintrack/fintrack-be/internal/database"
	"github.com/fintrack/fintrack-be/internal/services"
)

// newTestRouter wires the full router against a fresh in-memory database.
func newTestRouter(t *testing.T) *chi.Mux {
	t.Helper()

	db, err := database.New(":memory:")
	require.NoError(t, err, "failed to create test database")
	db.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() { db.Close() })

	events := services.NewEventService(db)
	return api.NewRouter(
		services.NewCategoryService(db, events),
		services.NewExpenseService(db, events),
		services.NewUserService(db, events),
		events,
		"http://localhost:3000",
	)
}

func doJSON(t *testing.T, router http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestRegisterAndLogin(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/register", map[string]interface{}{
		"first_name": "Ivan",
		"last_name":  "Ivic",
		"age":        25,
		"email":      "ivan@example.com",
		"password":   "tajna123",
	})
	assert.Equal(t, http.StatusCreated, rec.Code)

	// Missing password
	rec = doJSON(t, router, http.MethodPost, "/api/v1/register", map[string]interface{}{
		"email": "second@example.com",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Duplicate email
	rec = doJSON(t, router, http.MethodPost, "/api/v1/register", map[string]interface{}{
		"email":    "ivan@example.com",
		"password": "different",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)

	// Successful login greets by first name
	rec = doJSON(t, router, http.MethodPost, "/api/v1/login", map[string]interface{}{
		"email":    "ivan@example.com",
		"password": "tajna123",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Welcome Ivan", decodeBody(t, rec)["message"])

	// Wrong password and unknown email get the same rejection
	wrongPassword := doJSON(t, router, http.MethodPost, "/api/v1/login", map[string]interface{}{
		"email":    "ivan@example.com",
		"password": "nope",
	})
	unknownEmail := doJSON(t, router, http.MethodPost, "/api/v1/login", map[string]interface{}{
		"email":    "ghost@example.com",
		"password": "tajna123",
	})
	assert.Equal(t, http.StatusUnauthorized, wrongPassword.Code)
	assert.Equal(t, http.StatusUnauthorized, unknownEmail.Code)
	assert.Equal(t, wrongPassword.Body.String(), unknownEmail.Body.String())
}

func TestListUsersOmitsPassword(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/register", map[string]interface{}{
		"first_name": "Ivan",
		"email":      "ivan@example.com",
		"password":   "tajna123",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/v1/users", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "password")
	assert.Contains(t, rec.Body.String(), "ivan@example.com")
	assert.Contains(t, rec.Body.String(), `"account_balance":1000`)
}

func TestCategoryLifecycle(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/categories", map[string]string{
		"type_of_category": "Food",
	})
	assert.Equal(t, http.StatusCreated, rec.Code)

	// Duplicate label
	rec = doJSON(t, router, http.MethodPost, "/api/v1/categories", map[string]string{
		"type_of_category": "Food",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)

	// Missing label
	rec = doJSON(t, router, http.MethodPost, "/api/v1/categories", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Listing projects the label only
	rec = doJSON(t, router, http.MethodGet, "/api/v1/categories", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"Categories":[{"type_of_category":"Food"}]}`, rec.Body.String())

	// Patch an unknown id
	rec = doJSON(t, router, http.MethodPatch, "/api/v1/categories/999", map[string]string{
		"type_of_category": "Groceries",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, router, http.MethodPatch, "/api/v1/categories/1", map[string]string{
		"type_of_category": "Groceries",
	})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodDelete, "/api/v1/categories/999", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, router, http.MethodDelete, "/api/v1/categories/1", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestExpenseRoundTrip(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/categories", map[string]string{
		"type_of_category": "Food",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	// Missing fields
	rec = doJSON(t, router, http.MethodPost, "/api/v1/expenses", map[string]interface{}{
		"payed_with": "Card",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Unknown category label
	rec = doJSON(t, router, http.MethodPost, "/api/v1/expenses", map[string]interface{}{
		"payed_with": "Card",
		"category":   "Nope",
		"amount":     100,
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/api/v1/expenses", map[string]interface{}{
		"payed_with": "Card",
		"category":   "Food",
		"amount":     100,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	body := decodeBody(t, rec)
	expense := body["expense"].(map[string]interface{})
	assert.Equal(t, "Card", expense["payed_with"])
	assert.Equal(t, "Food", expense["category"])
	assert.Equal(t, float64(100), expense["amount"])

	// Filter by category returns exactly that expense with the label joined
	rec = doJSON(t, router, http.MethodGet, "/api/v1/expenses/filter?category=Food", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var matches []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &matches))
	require.Len(t, matches, 1)
	assert.Equal(t, "Card", matches[0]["payed_with"])
	assert.Equal(t, "Food", matches[0]["category"])
}

func TestExpenseFilterValidation(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/api/v1/expenses/filter?date_from=2024-01-01", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code, "dates use DD-MM-YYYY")

	rec = doJSON(t, router, http.MethodGet, "/api/v1/expenses/filter?date_to=bogus", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/v1/expenses/filter?category=Nope", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/v1/expenses/filter?date_from=01-01-2024", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestExpenseDeleteTargetsExpenseTable(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/categories", map[string]string{
		"type_of_category": "Food",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = doJSON(t, router, http.MethodPost, "/api/v1/expenses", map[string]interface{}{
		"payed_with": "Card",
		"category":   "Food",
		"amount":     100,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, router, http.MethodDelete, "/api/v1/expenses/1", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodDelete, "/api/v1/expenses/1", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// The category must still exist after deleting its expense.
	rec = doJSON(t, router, http.MethodGet, "/api/v1/categories", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Food")
}

func TestCategoryTotals(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/categories", map[string]string{
		"type_of_category": "Food",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	for _, amount := range []int{100, 50, 25} {
		rec = doJSON(t, router, http.MethodPost, "/api/v1/expenses", map[string]interface{}{
			"payed_with": "Card",
			"category":   "Food",
			"amount":     amount,
		})
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec = doJSON(t, router, http.MethodGet, "/api/v1/expenses/category-totals", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"Food":175}`, rec.Body.String())
}

func TestRecentEvents(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/categories", map[string]string{
		"type_of_category": "Food",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/v1/events", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "category.create")
}
