package gateway

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/ltgt/portal-gateway/internal/metrics"
	"github.com/ltgt/portal-gateway/internal/middleware"
	"github.com/ltgt/portal-gateway/internal/rbac"
)

const maxBodyBytes = 1 << 20

// NewRouter builds the client-facing router.
func (h *Handler) NewRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(metrics.Middleware)
	r.Use(middleware.MaxBodySize(maxBodyBytes))
	r.Use(middleware.HTTPLogging(h.logger))

	r.Get("/health", h.HandleHealth)
	r.Post("/auth/login", h.HandleLogin)
	r.Post("/auth/logout", h.HandleLogout)

	r.Group(func(r chi.Router) {
		r.Use(h.RequireAuth)

		r.Get("/auth/me", h.HandleMe)
		r.With(h.RequirePermission(rbac.ResourceUsers, rbac.ActionCreate)).
			Post("/auth/register", h.HandleRegister)

		r.Route("/products", func(r chi.Router) {
			r.With(h.RequirePermission(rbac.ResourceProducts, rbac.ActionView)).
				Get("/", h.HandleListProducts)
			r.With(h.RequirePermission(rbac.ResourceProducts, rbac.ActionViewDetails)).
				Get("/{id}", h.HandleGetProduct)
			r.With(h.RequirePermission(rbac.ResourceProducts, rbac.ActionCreate)).
				Post("/", h.HandleCreateProduct)
			r.With(h.RequirePermission(rbac.ResourceProducts, rbac.ActionEdit)).
				Patch("/{id}", h.HandleUpdateProduct)
			r.With(h.RequirePermission(rbac.ResourceProducts, rbac.ActionDelete)).
				Delete("/{id}", h.HandleDeleteProduct)
		})

		r.With(h.RequirePermission(rbac.ResourceProducts, rbac.ActionView)).
			Get("/brands", h.HandleListBrands)
		r.With(h.RequirePermission(rbac.ResourceProducts, rbac.ActionView)).
			Get("/categories", h.HandleListCategories)
	})

	return r
}
