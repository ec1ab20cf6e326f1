package api

import (
	"net/http"
	"time"

	"github.com/ltgt/portal-gateway/internal/schema"
)

// HandleListBrands returns all brands.
// GET /brands
func (h *Handler) HandleListBrands(w http.ResponseWriter, r *http.Request) {
	brands, err := h.store.ListBrands(r.Context())
	if err != nil {
		h.logger.Error("brand list failed", "error", err)
		WriteError(w, http.StatusInternalServerError, "Internal Server Error", "Internal server error")
		return
	}

	out := make([]schema.Brand, len(brands))
	for i, b := range brands {
		out[i] = schema.Brand{
			ID:          b.ID,
			Name:        b.Name,
			Description: b.Description,
			CreatedAt:   b.CreatedAt.UTC().Format(time.RFC3339),
			UpdatedAt:   b.UpdatedAt.UTC().Format(time.RFC3339),
		}
	}
	WriteJSON(w, http.StatusOK, out)
}

// HandleListCategories returns all categories.
// GET /categories
func (h *Handler) HandleListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.store.ListCategories(r.Context())
	if err != nil {
		h.logger.Error("category list failed", "error", err)
		WriteError(w, http.StatusInternalServerError, "Internal Server Error", "Internal server error")
		return
	}

	out := make([]schema.Category, len(categories))
	for i, c := range categories {
		out[i] = schema.Category{ID: c.ID, Name: c.Name, Description: c.Description}
	}
	WriteJSON(w, http.StatusOK, out)
}

// HandleHealth reports liveness.
// GET /health
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
