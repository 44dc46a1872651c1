package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/k-javaman/my-practices/internal/domain"
	"github.com/k-javaman/my-practices/internal/health"
	"github.com/k-javaman/my-practices/internal/http/handler"
	"github.com/k-javaman/my-practices/internal/http/middleware"
	"github.com/k-javaman/my-practices/internal/http/response"
	"github.com/k-javaman/my-practices/internal/security"
)

type Dependencies struct {
	AuthHandler   *handler.AuthHandler
	UserHandler   *handler.UserHandler
	PersonHandler *handler.PersonHandler
	AdminHandler  *handler.AdminHandler

	Codec  *security.TokenCodec
	Users  middleware.UserLookup
	Tokens middleware.TokenChecker

	Limiter           middleware.Limiter
	RateLimitFailMode middleware.FailureMode
	AuthRateLimitRPM  int
	APIRateLimitRPM   int

	CORSOrigins []string
	Readiness   *health.ProbeRunner
	Logger      RequestLogger

	// Registry is scraped at /metrics when set.
	Registry       *prometheus.Registry
	EnableOTelHTTP bool
}

type RequestLogger func(http.Handler) http.Handler

func NewRouter(dep Dependencies) http.Handler {
	limiter := dep.Limiter
	if limiter == nil {
		limiter = middleware.NewLocalLimiter()
	}
	authLimiter := middleware.NewRateLimiter(limiter, middleware.PerMinute(dep.AuthRateLimitRPM), dep.RateLimitFailMode, "auth").Middleware()
	apiLimiter := middleware.NewRateLimiter(limiter, middleware.PerMinute(dep.APIRateLimitRPM), dep.RateLimitFailMode, "api").Middleware()

	r := chi.NewRouter()
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	if dep.Logger != nil {
		r.Use(dep.Logger)
	}
	r.Use(chimiddleware.Recoverer)
	if dep.Registry != nil {
		r.Use(middleware.NewHTTPMetrics(dep.Registry).Middleware)
	}
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.CORS(dep.CORSOrigins))
	r.Use(middleware.BodyLimit(1 << 20))
	r.Use(middleware.Authenticate(dep.Codec, dep.Users, dep.Tokens))

	r.Get("/health/live", func(w http.ResponseWriter, r *http.Request) {
		response.JSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		if dep.Readiness == nil {
			response.JSON(w, r, http.StatusOK, map[string]any{"status": "ready", "checks": []any{}})
			return
		}
		ready, results := dep.Readiness.Ready(r.Context())
		if ready {
			response.JSON(w, r, http.StatusOK, map[string]any{"status": "ready", "checks": results})
			return
		}
		response.Error(w, r, http.StatusServiceUnavailable, "DEPENDENCY_UNREADY", "dependencies are not ready", map[string]any{"checks": results})
	})
	if dep.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(dep.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Use(authLimiter)
			r.Post("/register", dep.AuthHandler.Register)
			r.Post("/authenticate", dep.AuthHandler.Authenticate)
			r.Post("/logout", dep.AuthHandler.Logout)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Use(apiLimiter)
			r.Get("/me", dep.UserHandler.Me)
			r.Get("/people", dep.PersonHandler.List)
			r.With(middleware.RequireRole(domain.RoleAdmin)).Get("/admin/users", dep.AdminHandler.ListUsers)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.Error(w, r, http.StatusNotFound, "NOT_FOUND", "route not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		response.Error(w, r, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed", nil)
	})

	var h http.Handler = r
	if dep.EnableOTelHTTP {
		h = otelhttp.NewHandler(r, "http.server")
	}
	return h
}
