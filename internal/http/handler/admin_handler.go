package handler

import (
	"net/http"
	"strings"

	"github.com/k-javaman/my-practices/internal/domain"
	"github.com/k-javaman/my-practices/internal/http/response"
	"github.com/k-javaman/my-practices/internal/logging"
	"github.com/k-javaman/my-practices/internal/repository"
	"github.com/k-javaman/my-practices/internal/service"
)

type AdminHandler struct {
	users service.UserServiceInterface
}

func NewAdminHandler(users service.UserServiceInterface) *AdminHandler {
	return &AdminHandler{users: users}
}

// ListUsers supports ?page, ?page_size, ?sort_order, ?email and ?role.
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	page, err := parsePageRequest(r)
	if err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", err.Error(), nil)
		return
	}
	q := r.URL.Query()
	query := repository.UserListQuery{
		PageRequest: page,
		SortOrder:   q.Get("sort_order"),
		Email:       strings.TrimSpace(q.Get("email")),
	}
	if role := strings.ToUpper(strings.TrimSpace(q.Get("role"))); role != "" {
		query.Role = domain.Role(role)
		if !query.Role.Valid() {
			response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "unknown role", nil)
			return
		}
	}
	result, err := h.users.ListPaged(r.Context(), query)
	if err != nil {
		logging.FromContext(r.Context()).ErrorContext(r.Context(), "list users failed", "error", err.Error())
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "could not list users", nil)
		return
	}
	response.JSON(w, r, http.StatusOK, result)
}
