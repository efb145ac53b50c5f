package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/fintrack/fintrack-be/internal/services"
	"github.com/rs/zerolog/log"
)

// Query dates use day-month-year, e.g. 01-01-2024.
const dateLayout = "02-01-2006"

// ExpenseHandler handles HTTP requests for expense management.
type ExpenseHandler struct {
	service services.ExpenseServiceProvider
}

// NewExpenseHandler creates a new ExpenseHandler.
func NewExpenseHandler(service services.ExpenseServiceProvider) *ExpenseHandler {
	return &ExpenseHandler{service: service}
}

// CreateExpensePayload defines the body for expense creation. The category
// is referenced by label.
type CreateExpensePayload struct {
	PayedWith *string `json:"payed_with"`
	Category  *string `json:"category"`
	Amount    *int64  `json:"amount"`
}

// UpdateExpensePayload defines the body for expense updates. The category
// of an expense cannot be changed.
type UpdateExpensePayload struct {
	PayedWith *string `json:"payed_with"`
	Amount    *int64  `json:"amount"`
}

// GetAll handles the request to list all expenses, projecting the payment
// method and category id.
func (h *ExpenseHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	expenses, err := h.service.GetAllExpenses(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to retrieve expenses")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve expenses")
		return
	}

	type expenseListing struct {
		PayedWith  string `json:"payed_with"`
		CategoryID int64  `json:"category_id"`
	}
	listing := make([]expenseListing, 0, len(expenses))
	for _, e := range expenses {
		listing = append(listing, expenseListing{PayedWith: e.PayedWith, CategoryID: e.CategoryID})
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"Expenses": listing})
}

// Create handles the request to record a new expense against an existing
// category.
func (h *ExpenseHandler) Create(w http.ResponseWriter, r *http.Request) {
	var payload CreateExpensePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil ||
		payload.PayedWith == nil || payload.Category == nil || payload.Amount == nil {
		respondError(w, http.StatusBadRequest, "Missing 'payed_with' or 'category' or 'amount'")
		return
	}

	expense, err := h.service.CreateExpense(r.Context(), *payload.PayedWith, *payload.Category, *payload.Amount)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Category '"+*payload.Category+"' not found")
			return
		}
		log.Error().Err(err).Str("category", *payload.Category).Msg("Failed to create expense")
		respondError(w, http.StatusInternalServerError, "Failed to create expense")
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Expense added successfully",
		"expense": map[string]interface{}{
			"payed_with": expense.PayedWith,
			"category":   expense.Category,
			"amount":     expense.Amount,
		},
	})
}

// Update handles the request to change an expense's payment method and/or
// amount.
func (h *ExpenseHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid expense id")
		return
	}

	var payload UpdateExpensePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "No data provided")
		return
	}

	expense, err := h.service.UpdateExpense(r.Context(), id, payload.PayedWith, payload.Amount)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Expense not found")
			return
		}
		log.Error().Err(err).Int64("expense_id", id).Msg("Failed to update expense")
		respondError(w, http.StatusInternalServerError, "Failed to update expense")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Expense updated",
		"expense": map[string]interface{}{
			"payed_with": expense.PayedWith,
			"amount":     expense.Amount,
		},
	})
}

// Delete handles the request to delete an expense.
func (h *ExpenseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid expense id")
		return
	}

	if err := h.service.DeleteExpense(r.Context(), id); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Expense not found")
			return
		}
		log.Error().Err(err).Int64("expense_id", id).Msg("Failed to delete expense")
		respondError(w, http.StatusInternalServerError, "Failed to delete expense")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Expense successfully deleted"})
}

// Filter handles the request to query expenses by category, amount range
// and date range. Predicates combine conjunctively.
func (h *ExpenseHandler) Filter(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := services.ExpenseFilter{CategoryName: query.Get("category")}

	if v := query.Get("amount_min"); v != "" {
		if amount, err := strconv.ParseInt(v, 10, 64); err == nil {
			filter.AmountMin = &amount
		}
	}
	if v := query.Get("amount_max"); v != "" {
		if amount, err := strconv.ParseInt(v, 10, 64); err == nil {
			filter.AmountMax = &amount
		}
	}
	if v := query.Get("date_from"); v != "" {
		date, err := time.Parse(dateLayout, v)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid date_from format.")
			return
		}
		filter.DateFrom = &date
	}
	if v := query.Get("date_to"); v != "" {
		date, err := time.Parse(dateLayout, v)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid date_to format.")
			return
		}
		filter.DateTo = &date
	}

	expenses, err := h.service.FilterExpenses(r.Context(), filter)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Category '"+filter.CategoryName+"' not found")
			return
		}
		log.Error().Err(err).Msg("Failed to filter expenses")
		respondError(w, http.StatusInternalServerError, "Failed to filter expenses")
		return
	}

	respondJSON(w, http.StatusOK, expenses)
}

// CategoryTotals handles the request for the total amount spent per
// category.
func (h *ExpenseHandler) CategoryTotals(w http.ResponseWriter, r *http.Request) {
	totals, err := h.service.CategoryTotals(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to compute category totals")
		respondError(w, http.StatusInternalServerError, "Failed to compute category totals")
		return
	}
	respondJSON(w, http.StatusOK, totals)
}
