package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/ltgt/portal-gateway/internal/auth"
	"github.com/ltgt/portal-gateway/internal/schema"
	"github.com/ltgt/portal-gateway/internal/store"
)

// HandleLogin exchanges credentials for an access token.
// POST /auth/login
//
// Unknown email and wrong password produce byte-identical responses so
// the endpoint cannot be used to probe which emails are registered.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req schema.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Bad Request", "Invalid JSON body")
		return
	}
	if fieldErrs := req.Validate(); len(fieldErrs) > 0 {
		WriteValidationError(w, errorMessages(fieldErrs))
		return
	}

	user, err := h.store.GetUserByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			WriteError(w, http.StatusUnauthorized, "Unauthorized", "Invalid credentials")
			return
		}
		h.logger.Error("login lookup failed", "error", err)
		WriteError(w, http.StatusInternalServerError, "Internal Server Error", "Internal server error")
		return
	}
	if !auth.VerifyPassword(req.Password, user.PasswordHash) {
		WriteError(w, http.StatusUnauthorized, "Unauthorized", "Invalid credentials")
		return
	}

	token, err := h.tokens.Issue(user.ID, user.Role, user.Email, user.Name)
	if err != nil {
		h.logger.Error("token issue failed", "error", err)
		WriteError(w, http.StatusInternalServerError, "Internal Server Error", "Internal server error")
		return
	}

	h.logger.Info("user logged in", "user_id", user.ID, "role", user.Role)
	WriteJSON(w, http.StatusCreated, schema.LoginResponse{
		AccessToken: token,
		User:        userDTO(user),
	})
}

// HandleRegister creates a new portal user. Only administrators may
// call it; the route guard enforces that.
// POST /auth/register
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req schema.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Bad Request", "Invalid JSON body")
		return
	}
	if fieldErrs := req.Validate(); len(fieldErrs) > 0 {
		WriteValidationError(w, errorMessages(fieldErrs))
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		h.logger.Error("password hash failed", "error", err)
		WriteError(w, http.StatusInternalServerError, "Internal Server Error", "Internal server error")
		return
	}

	user := &store.User{
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: hash,
		Role:         strings.ToUpper(req.Role),
	}
	if err := h.store.CreateUser(r.Context(), user); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			WriteError(w, http.StatusConflict, "Conflict", "Email already registered")
			return
		}
		h.logger.Error("user create failed", "error", err)
		WriteError(w, http.StatusInternalServerError, "Internal Server Error", "Internal server error")
		return
	}

	h.logger.Info("user registered", "user_id", user.ID, "role", user.Role)
	WriteJSON(w, http.StatusCreated, userDTO(user))
}

// HandleMe returns the profile behind the presented token.
// GET /auth/me
func (h *Handler) HandleMe(w http.ResponseWriter, r *http.Request) {
	claims := auth.ClaimsFromContext(r.Context())
	if claims == nil {
		WriteError(w, http.StatusUnauthorized, "Unauthorized", "Missing or invalid authorization header")
		return
	}

	user, err := h.store.GetUserByID(r.Context(), claims.UserID())
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// token outlived the account
			WriteError(w, http.StatusUnauthorized, "Unauthorized", "Invalid or expired token")
			return
		}
		h.logger.Error("me lookup failed", "error", err)
		WriteError(w, http.StatusInternalServerError, "Internal Server Error", "Internal server error")
		return
	}
	WriteJSON(w, http.StatusOK, userDTO(user))
}

func errorMessages(fieldErrs []schema.FieldError) []string {
	msgs := make([]string, len(fieldErrs))
	for i, fe := range fieldErrs {
		msgs[i] = fe.Error()
	}
	return msgs
}
