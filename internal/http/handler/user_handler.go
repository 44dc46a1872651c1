package handler

import (
	"errors"
	"net/http"

	"github.com/k-javaman/my-practices/internal/http/middleware"
	"github.com/k-javaman/my-practices/internal/http/response"
	"github.com/k-javaman/my-practices/internal/repository"
	"github.com/k-javaman/my-practices/internal/service"
)

type UserHandler struct {
	users service.UserServiceInterface
}

func NewUserHandler(users service.UserServiceInterface) *UserHandler {
	return &UserHandler{users: users}
}

func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required", nil)
		return
	}
	user, err := h.users.GetByID(r.Context(), id.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			response.Error(w, r, http.StatusNotFound, "NOT_FOUND", "user not found", nil)
			return
		}
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "could not load user", nil)
		return
	}
	response.JSON(w, r, http.StatusOK, user)
}
