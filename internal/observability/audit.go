package observability

import (
	"net/http"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/k-javaman/my-practices/internal/logging"
)

// Audit writes one structured line per security relevant event. Callers
// never pass passwords or raw tokens.
func Audit(r *http.Request, event string, attrs ...any) {
	base := []any{
		"event", event,
		"method", r.Method,
		"path", r.URL.Path,
		"request_id", chimiddleware.GetReqID(r.Context()),
	}
	base = append(base, attrs...)
	logging.FromContext(r.Context()).InfoContext(r.Context(), "audit", base...)
}
