package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/k-javaman/my-practices/internal/repository"
)

// parsePageRequest reads page and page_size. Missing values fall back to the
// repository defaults; malformed ones are rejected.
func parsePageRequest(r *http.Request) (repository.PageRequest, error) {
	q := r.URL.Query()
	var req repository.PageRequest
	if v := q.Get("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return req, errors.New("page must be a positive integer")
		}
		req.Page = n
	}
	if v := q.Get("page_size"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return req, errors.New("page_size must be a positive integer")
		}
		req.PageSize = n
	}
	return req, nil
}
