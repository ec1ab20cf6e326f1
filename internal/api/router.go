package api

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/ltgt/portal-gateway/internal/metrics"
	"github.com/ltgt/portal-gateway/internal/middleware"
	"github.com/ltgt/portal-gateway/internal/rbac"
)

const maxBodyBytes = 1 << 20

// NewRouter builds the backend API router. Reads on the catalog are
// open to both roles; writes and user management are admin only.
func (h *Handler) NewRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(metrics.Middleware)
	r.Use(middleware.MaxBodySize(maxBodyBytes))
	r.Use(middleware.HTTPLogging(h.logger))

	r.Get("/health", h.HandleHealth)
	r.Post("/auth/login", h.HandleLogin)

	r.Group(func(r chi.Router) {
		r.Use(h.RequireAuth)

		r.Get("/auth/me", h.HandleMe)
		r.With(h.RequirePermission(rbac.ResourceUsers, rbac.ActionCreate)).
			Post("/auth/register", h.HandleRegister)

		r.Route("/products", func(r chi.Router) {
			r.With(h.RequirePermission(rbac.ResourceProducts, rbac.ActionView)).
				Get("/list", h.HandleListProducts)
			r.With(h.RequirePermission(rbac.ResourceProducts, rbac.ActionViewDetails)).
				Get("/detail/{id}", h.HandleGetProduct)
			r.With(h.RequirePermission(rbac.ResourceProducts, rbac.ActionCreate)).
				Post("/create", h.HandleCreateProduct)
			r.With(h.RequirePermission(rbac.ResourceProducts, rbac.ActionEdit)).
				Patch("/update/{id}", h.HandleUpdateProduct)
			r.With(h.RequirePermission(rbac.ResourceProducts, rbac.ActionDelete)).
				Delete("/delete/{id}", h.HandleDeleteProduct)
		})

		r.With(h.RequirePermission(rbac.ResourceProducts, rbac.ActionView)).
			Get("/brands", h.HandleListBrands)
		r.With(h.RequirePermission(rbac.ResourceProducts, rbac.ActionView)).
			Get("/categories", h.HandleListCategories)
	})

	return r
}
