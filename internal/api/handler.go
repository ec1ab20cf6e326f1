// Package api implements the backend portal API: authentication,
// the product catalog and its reference data.
package api

import (
	"log/slog"
	"time"

	"github.com/ltgt/portal-gateway/internal/auth"
	"github.com/ltgt/portal-gateway/internal/schema"
	"github.com/ltgt/portal-gateway/internal/store"
)

// Handler carries the dependencies for all backend API endpoints.
type Handler struct {
	store    store.Store
	tokens   *auth.TokenService
	logger   *slog.Logger
	logLevel *slog.LevelVar
}

// NewHandler creates a Handler.
func NewHandler(st store.Store, tokens *auth.TokenService, logger *slog.Logger, logLevel *slog.LevelVar) *Handler {
	return &Handler{store: st, tokens: tokens, logger: logger, logLevel: logLevel}
}

func userDTO(u *store.User) schema.BackendUser {
	return schema.BackendUser{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      u.Role,
		CreatedAt: u.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// productDTO converts a stored product to its wire shape. This is the
// single point where the exact decimal price becomes a float.
func productDTO(p *store.Product) schema.BackendProduct {
	dto := schema.BackendProduct{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		SKU:         p.SKU,
		Price:       p.Price.InexactFloat64(),
		Stock:       p.Stock,
		Status:      p.Status,
		BrandID:     p.BrandID,
		CreatedAt:   p.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:   p.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if p.Brand != nil {
		dto.Brand = schema.BrandRef{ID: p.Brand.ID, Name: p.Brand.Name}
	}
	dto.Categories = make([]schema.CategoryRef, 0, len(p.Categories))
	for _, c := range p.Categories {
		dto.Categories = append(dto.Categories, schema.CategoryRef{ID: c.ID, Name: c.Name})
	}
	return dto
}
