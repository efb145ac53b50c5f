package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/fintrack/fintrack-be/internal/services"
	"github.com/rs/zerolog/log"
)

// CategoryHandler handles HTTP requests for category management.
type CategoryHandler struct {
	service services.CategoryServiceProvider
}

// NewCategoryHandler creates a new CategoryHandler.
func NewCategoryHandler(service services.CategoryServiceProvider) *CategoryHandler {
	return &CategoryHandler{service: service}
}

// CategoryPayload defines the body for create and update requests.
type CategoryPayload struct {
	Name *string `json:"type_of_category"`
}

// GetAll handles the request to list all categories. The listing projects
// the label only.
func (h *CategoryHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.GetAllCategories(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to retrieve categories")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve categories")
		return
	}

	type categoryLabel struct {
		Name string `json:"type_of_category"`
	}
	labels := make([]categoryLabel, 0, len(categories))
	for _, c := range categories {
		labels = append(labels, categoryLabel{Name: c.Name})
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"Categories": labels})
}

// Create handles the request to add a new category.
func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var payload CategoryPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.Name == nil {
		respondError(w, http.StatusBadRequest, "Missing 'type_of_category'")
		return
	}

	category, err := h.service.CreateCategory(r.Context(), *payload.Name)
	if err != nil {
		if errors.Is(err, services.ErrDuplicate) {
			respondError(w, http.StatusConflict, "Category already exists")
			return
		}
		log.Error().Err(err).Str("category", *payload.Name).Msg("Failed to create category")
		respondError(w, http.StatusInternalServerError, "Failed to create category")
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"message":  "Category successfully added!",
		"category": category,
	})
}

// Update handles the request to replace a category's label.
func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid category id")
		return
	}

	var payload CategoryPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "No data provided")
		return
	}

	category, err := h.service.UpdateCategory(r.Context(), id, payload.Name)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Category not found")
			return
		}
		log.Error().Err(err).Int64("category_id", id).Msg("Failed to update category")
		respondError(w, http.StatusInternalServerError, "Failed to update category")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message":  "Category updated",
		"category": category,
	})
}

// Delete handles the request to delete a category. Owned expenses are
// removed by the cascade rule.
func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid category id")
		return
	}

	if err := h.service.DeleteCategory(r.Context(), id); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Category not found")
			return
		}
		log.Error().Err(err).Int64("category_id", id).Msg("Failed to delete category")
		respondError(w, http.StatusInternalServerError, "Failed to delete category")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Category successfully deleted"})
}
