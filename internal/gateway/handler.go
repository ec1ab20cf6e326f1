// Package gateway implements the client-facing boundary service. Each
// request runs a fixed pipeline: authenticate, check permissions,
// validate the request shape, forward to the backend with the same
// bearer token, contract-check the response, translate role fields,
// respond. The order never changes.
package gateway

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ltgt/portal-gateway/internal/auth"
	"github.com/ltgt/portal-gateway/internal/roles"
	"github.com/ltgt/portal-gateway/internal/schema"
	"github.com/ltgt/portal-gateway/internal/upstream"
)

// Handler carries the dependencies for all gateway endpoints.
type Handler struct {
	client   *upstream.Client
	tokens   *auth.TokenService
	logger   *slog.Logger
	logLevel *slog.LevelVar
}

// NewHandler creates a Handler.
func NewHandler(client *upstream.Client, tokens *auth.TokenService, logger *slog.Logger, logLevel *slog.LevelVar) *Handler {
	return &Handler{client: client, tokens: tokens, logger: logger, logLevel: logLevel}
}

// HandleLogin validates credentials locally for shape only, forwards
// them, and translates the role in the response. The login response is
// a hard contract: drift here fails the request.
// POST /auth/login
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req schema.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeValidation, "Invalid JSON body")
		return
	}
	if fieldErrs := req.Validate(); len(fieldErrs) > 0 {
		writeValidationError(w, fieldErrs)
		return
	}

	body, err := h.client.Login(r.Context(), req)
	if err != nil {
		writeUpstreamError(w, h.logger, err)
		return
	}

	resp, issues := schema.CheckLoginResponse(body)
	if len(issues) > 0 {
		h.logger.Error("login response failed contract check", "issues", issues)
		writeError(w, http.StatusInternalServerError, CodeInvalidResponse, "Backend returned an invalid response")
		return
	}

	writeJSON(w, http.StatusCreated, struct {
		AccessToken string              `json:"accessToken"`
		User        schema.ExternalUser `json:"user"`
	}{
		AccessToken: resp.AccessToken,
		User:        externalUser(resp.User),
	})
}

// HandleLogout acknowledges the logout without calling the backend;
// tokens are stateless and simply discarded by the client.
// POST /auth/logout
func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out"})
}

// HandleMe forwards the profile lookup. Strict contract, like login.
// GET /auth/me
func (h *Handler) HandleMe(w http.ResponseWriter, r *http.Request) {
	body, err := h.client.Me(r.Context(), auth.ExtractBearer(r))
	if err != nil {
		writeUpstreamError(w, h.logger, err)
		return
	}

	user, issues := schema.CheckUser(body)
	if len(issues) > 0 {
		h.logger.Error("profile response failed contract check", "issues", issues)
		writeError(w, http.StatusInternalServerError, CodeInvalidResponse, "Backend returned an invalid response")
		return
	}
	writeJSON(w, http.StatusOK, externalUser(user))
}

// registerRequest is the client-facing registration payload; the role
// arrives in the external vocabulary.
type registerRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// HandleRegister translates the external role to the authoritative
// vocabulary and forwards. Admin only, enforced by the route guard.
// POST /auth/register
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeValidation, "Invalid JSON body")
		return
	}

	role, ok := roles.ToAuthoritative(req.Role)
	if !ok {
		writeValidationError(w, []schema.FieldError{{Field: "role", Message: "must be one of: admin, empleado"}})
		return
	}
	forward := schema.RegisterRequest{
		Email:    req.Email,
		Name:     req.Name,
		Password: req.Password,
		Role:     string(role),
	}
	if fieldErrs := forward.Validate(); len(fieldErrs) > 0 {
		writeValidationError(w, fieldErrs)
		return
	}

	body, err := h.client.Register(r.Context(), auth.ExtractBearer(r), forward)
	if err != nil {
		writeUpstreamError(w, h.logger, err)
		return
	}

	user, issues := schema.CheckUser(body)
	if len(issues) > 0 {
		h.logger.Error("register response failed contract check", "issues", issues)
		writeError(w, http.StatusInternalServerError, CodeInvalidResponse, "Backend returned an invalid response")
		return
	}
	writeJSON(w, http.StatusCreated, externalUser(user))
}

// HandleListProducts validates the query, forwards it, and passes the
// backend body through. The listing fails open: contract drift is
// logged, never fatal.
// GET /products
func (h *Handler) HandleListProducts(w http.ResponseWriter, r *http.Request) {
	q := schema.ParseProductQuery(r.URL.Query())
	if fieldErrs := q.Validate(); len(fieldErrs) > 0 {
		writeValidationError(w, fieldErrs)
		return
	}

	body, err := h.client.ListProducts(r.Context(), auth.ExtractBearer(r), q)
	if err != nil {
		writeUpstreamError(w, h.logger, err)
		return
	}

	if _, issues := schema.CheckProductList(body); len(issues) > 0 {
		h.logger.Warn("product list drifted from contract, passing through raw",
			"issues", issues)
		writeRaw(w, http.StatusOK, body)
		return
	}
	writeRaw(w, http.StatusOK, TranslateRolesJSON(body))
}

// HandleGetProduct forwards a detail lookup. Fail-open passthrough.
// GET /products/{id}
func (h *Handler) HandleGetProduct(w http.ResponseWriter, r *http.Request) {
	body, err := h.client.GetProduct(r.Context(), auth.ExtractBearer(r), chi.URLParam(r, "id"))
	if err != nil {
		writeUpstreamError(w, h.logger, err)
		return
	}
	writeRaw(w, http.StatusOK, body)
}

// HandleCreateProduct validates and forwards a creation.
// POST /products
func (h *Handler) HandleCreateProduct(w http.ResponseWriter, r *http.Request) {
	var req schema.CreateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeValidation, "Invalid JSON body")
		return
	}
	if fieldErrs := req.Validate(); len(fieldErrs) > 0 {
		writeValidationError(w, fieldErrs)
		return
	}

	body, err := h.client.CreateProduct(r.Context(), auth.ExtractBearer(r), req)
	if err != nil {
		writeUpstreamError(w, h.logger, err)
		return
	}
	writeRaw(w, http.StatusCreated, body)
}

// HandleUpdateProduct validates and forwards a partial update.
// PATCH /products/{id}
func (h *Handler) HandleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	var req schema.UpdateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeValidation, "Invalid JSON body")
		return
	}
	if fieldErrs := req.Validate(); len(fieldErrs) > 0 {
		writeValidationError(w, fieldErrs)
		return
	}

	body, err := h.client.UpdateProduct(r.Context(), auth.ExtractBearer(r), chi.URLParam(r, "id"), req)
	if err != nil {
		writeUpstreamError(w, h.logger, err)
		return
	}
	writeRaw(w, http.StatusOK, body)
}

// HandleDeleteProduct forwards a deletion.
// DELETE /products/{id}
func (h *Handler) HandleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	body, err := h.client.DeleteProduct(r.Context(), auth.ExtractBearer(r), chi.URLParam(r, "id"))
	if err != nil {
		writeUpstreamError(w, h.logger, err)
		return
	}
	writeRaw(w, http.StatusOK, body)
}

// HandleListBrands forwards the brand reference listing.
// GET /brands
func (h *Handler) HandleListBrands(w http.ResponseWriter, r *http.Request) {
	body, err := h.client.ListBrands(r.Context(), auth.ExtractBearer(r))
	if err != nil {
		writeUpstreamError(w, h.logger, err)
		return
	}
	writeRaw(w, http.StatusOK, body)
}

// HandleListCategories forwards the category reference listing.
// GET /categories
func (h *Handler) HandleListCategories(w http.ResponseWriter, r *http.Request) {
	body, err := h.client.ListCategories(r.Context(), auth.ExtractBearer(r))
	if err != nil {
		writeUpstreamError(w, h.logger, err)
		return
	}
	writeRaw(w, http.StatusOK, body)
}

// HandleHealth reports liveness without touching the backend.
// GET /health
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func externalUser(u schema.BackendUser) schema.ExternalUser {
	return schema.ExternalUser{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      string(roles.ToExternal(u.Role)),
		CreatedAt: u.CreatedAt,
	}
}
