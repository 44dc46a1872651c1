package handler

import (
	"errors"
	"net/http"

	"github.com/k-javaman/my-practices/internal/http/middleware"
	"github.com/k-javaman/my-practices/internal/http/response"
	"github.com/k-javaman/my-practices/internal/logging"
	"github.com/k-javaman/my-practices/internal/observability"
	"github.com/k-javaman/my-practices/internal/service"
)

type registerRequest struct {
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

type authenticateRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthHandler struct {
	auth service.AuthServiceInterface
}

func NewAuthHandler(auth service.AuthServiceInterface) *AuthHandler {
	return &AuthHandler{auth: auth}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := response.DecodeJSON(w, r, &req); err != nil {
		response.Error(w, r, http.StatusBadRequest, "INVALID_INPUT", "invalid request body", nil)
		return
	}
	result, err := h.auth.Register(r.Context(), service.RegisterInput{
		Firstname: req.Firstname,
		Lastname:  req.Lastname,
		Email:     req.Email,
		Password:  req.Password,
	})
	if err != nil {
		h.writeAuthError(w, r, "register", err)
		return
	}
	observability.Audit(r, "auth.register", "user_id", result.User.ID)
	response.JSON(w, r, http.StatusOK, response.TokenPayload{Token: result.Token})
}

func (h *AuthHandler) Authenticate(w http.ResponseWriter, r *http.Request) {
	var req authenticateRequest
	if err := response.DecodeJSON(w, r, &req); err != nil {
		response.Error(w, r, http.StatusBadRequest, "INVALID_INPUT", "invalid request body", nil)
		return
	}
	result, err := h.auth.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		h.writeAuthError(w, r, "authenticate", err)
		return
	}
	observability.Audit(r, "auth.authenticate", "user_id", result.User.ID)
	response.JSON(w, r, http.StatusOK, response.TokenPayload{Token: result.Token})
}

// Logout revokes the presented bearer token. It answers 200 even when the
// token is absent or unknown.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	raw, _ := middleware.BearerToken(r)
	if err := h.auth.Logout(r.Context(), raw); err != nil {
		logging.FromContext(r.Context()).ErrorContext(r.Context(), "logout failed", "error", err.Error())
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "logout failed", nil)
		return
	}
	observability.Audit(r, "auth.logout")
	response.JSON(w, r, http.StatusOK, map[string]string{"status": "logged_out"})
}

func (h *AuthHandler) writeAuthError(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		response.Error(w, r, http.StatusBadRequest, "INVALID_INPUT", err.Error(), nil)
	case errors.Is(err, service.ErrEmailAlreadyExists):
		response.Error(w, r, http.StatusConflict, "EMAIL_ALREADY_EXISTS", "email already registered", nil)
	case errors.Is(err, service.ErrInvalidCredentials):
		response.Error(w, r, http.StatusUnauthorized, "INVALID_CREDENTIALS", "invalid credentials", nil)
	default:
		logging.FromContext(r.Context()).ErrorContext(r.Context(), "auth operation failed", "operation", op, "error", err.Error())
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "internal error", nil)
	}
}
