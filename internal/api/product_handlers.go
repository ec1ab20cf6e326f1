package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/ltgt/portal-gateway/internal/schema"
	"github.com/ltgt/portal-gateway/internal/store"
)

const (
	defaultPage  = 1
	defaultLimit = 20
	maxLimit     = 100
)

// HandleListProducts runs the catalog query.
// GET /products/list
func (h *Handler) HandleListProducts(w http.ResponseWriter, r *http.Request) {
	q := schema.ParseProductQuery(r.URL.Query())
	if fieldErrs := q.Validate(); len(fieldErrs) > 0 {
		WriteValidationError(w, errorMessages(fieldErrs))
		return
	}
	if q.Page == 0 {
		q.Page = defaultPage
	}
	if q.Limit == 0 {
		q.Limit = defaultLimit
	}
	if q.Limit > maxLimit {
		q.Limit = maxLimit
	}

	result, err := h.store.ListProducts(r.Context(), store.QuerySpec{
		Search:    q.Search,
		Category:  q.Category,
		Status:    q.Status,
		BrandID:   q.BrandID,
		Page:      q.Page,
		PerPage:   q.Limit,
		SortBy:    q.SortBy,
		SortOrder: q.SortOrder,
	})
	if err != nil {
		h.logger.Error("product list failed", "error", err)
		WriteError(w, http.StatusInternalServerError, "Internal Server Error", "Internal server error")
		return
	}

	data := make([]schema.BackendProduct, len(result.Products))
	for i, p := range result.Products {
		data[i] = productDTO(p)
	}
	WriteJSON(w, http.StatusOK, schema.PaginatedProducts{
		Data: data,
		Meta: schema.PaginationMeta{
			Page:        result.Page,
			Limit:       result.PerPage,
			Total:       result.Total,
			TotalPages:  result.TotalPages(),
			HasPrevPage: result.HasPrev(),
			HasNextPage: result.HasNext(),
		},
	})
}

// HandleGetProduct fetches one product.
// GET /products/detail/{id}
func (h *Handler) HandleGetProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.store.GetProduct(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			WriteError(w, http.StatusNotFound, "Not Found", "Product not found")
			return
		}
		h.logger.Error("product get failed", "error", err)
		WriteError(w, http.StatusInternalServerError, "Internal Server Error", "Internal server error")
		return
	}
	WriteJSON(w, http.StatusOK, productDTO(product))
}

// HandleCreateProduct creates a catalog item.
// POST /products/create
func (h *Handler) HandleCreateProduct(w http.ResponseWriter, r *http.Request) {
	var req schema.CreateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Bad Request", "Invalid JSON body")
		return
	}
	if fieldErrs := req.Validate(); len(fieldErrs) > 0 {
		WriteValidationError(w, errorMessages(fieldErrs))
		return
	}

	product := &store.Product{
		Name:        req.Name,
		Description: req.Description,
		SKU:         req.SKU,
		Price:       decimal.NewFromFloat(req.Price),
		Stock:       req.Stock,
		Status:      req.Status,
		BrandID:     req.BrandID,
	}
	if err := h.store.CreateProduct(r.Context(), product, req.CategoryIDs); err != nil {
		h.writeProductStoreError(w, err)
		return
	}

	h.logger.Info("product created", "product_id", product.ID, "sku", product.SKU)
	WriteJSON(w, http.StatusCreated, productDTO(product))
}

// HandleUpdateProduct applies a partial update.
// PATCH /products/update/{id}
func (h *Handler) HandleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	var req schema.UpdateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Bad Request", "Invalid JSON body")
		return
	}
	if fieldErrs := req.Validate(); len(fieldErrs) > 0 {
		WriteValidationError(w, errorMessages(fieldErrs))
		return
	}

	patch := store.ProductPatch{
		Name:        req.Name,
		Description: req.Description,
		SKU:         req.SKU,
		Stock:       req.Stock,
		Status:      req.Status,
		BrandID:     req.BrandID,
		CategoryIDs: req.CategoryIDs,
	}
	if req.Price != nil {
		price := decimal.NewFromFloat(*req.Price)
		patch.Price = &price
	}

	product, err := h.store.UpdateProduct(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		h.writeProductStoreError(w, err)
		return
	}

	h.logger.Info("product updated", "product_id", product.ID)
	WriteJSON(w, http.StatusOK, productDTO(product))
}

// HandleDeleteProduct removes a catalog item.
// DELETE /products/delete/{id}
func (h *Handler) HandleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.store.DeleteProduct(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			WriteError(w, http.StatusNotFound, "Not Found", "Product not found")
			return
		}
		h.logger.Error("product delete failed", "error", err)
		WriteError(w, http.StatusInternalServerError, "Internal Server Error", "Internal server error")
		return
	}

	h.logger.Info("product deleted", "product_id", id)
	WriteJSON(w, http.StatusOK, map[string]string{"message": "Product deleted"})
}

func (h *Handler) writeProductStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		WriteError(w, http.StatusNotFound, "Not Found", "Product not found")
	case errors.Is(err, store.ErrDuplicate):
		WriteError(w, http.StatusConflict, "Conflict", "SKU already in use")
	case errors.Is(err, store.ErrBadReference):
		WriteError(w, http.StatusBadRequest, "Bad Request", "Unknown brand or category")
	default:
		h.logger.Error("product write failed", "error", err)
		WriteError(w, http.StatusInternalServerError, "Internal Server Error", "Internal server error")
	}
}
