package handler

import (
	"errors"
	"net/http"

	"github.com/k-javaman/my-practices/internal/http/response"
	"github.com/k-javaman/my-practices/internal/logging"
	"github.com/k-javaman/my-practices/internal/repository"
	"github.com/k-javaman/my-practices/internal/service"
)

type PersonHandler struct {
	people service.PersonServiceInterface
}

func NewPersonHandler(people service.PersonServiceInterface) *PersonHandler {
	return &PersonHandler{people: people}
}

func (h *PersonHandler) List(w http.ResponseWriter, r *http.Request) {
	page, err := parsePageRequest(r)
	if err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", err.Error(), nil)
		return
	}
	q := r.URL.Query()
	result, err := h.people.ListPaged(r.Context(), repository.PersonListQuery{
		PageRequest: page,
		SortBy:      q.Get("sort_by"),
		SortOrder:   q.Get("sort_order"),
	})
	if err != nil {
		if errors.Is(err, repository.ErrInvalidSortField) {
			response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "unsupported sort_by", map[string]any{"allowed": repository.SortablePersonFields()})
			return
		}
		logging.FromContext(r.Context()).ErrorContext(r.Context(), "list people failed", "error", err.Error())
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "could not list people", nil)
		return
	}
	response.JSON(w, r, http.StatusOK, result)
}
