package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/k-javaman/my-practices/internal/domain"
	"github.com/k-javaman/my-practices/internal/http/response"
	"github.com/k-javaman/my-practices/internal/logging"
	"github.com/k-javaman/my-practices/internal/observability"
	"github.com/k-javaman/my-practices/internal/security"
)

type UserLookup interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
}

type TokenChecker interface {
	IsUsable(ctx context.Context, raw string) (bool, error)
}

// Authenticate establishes an Identity for requests carrying a usable bearer
// token. It never rejects a request; RequireAuth does that downstream.
func Authenticate(codec *security.TokenCodec, users UserLookup, tokens TokenChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			raw, ok := BearerToken(r)
			if !ok {
				observability.RecordGateDecision(ctx, "no_token")
				next.ServeHTTP(w, r)
				return
			}
			subject, err := codec.ExtractSubject(raw)
			if err != nil {
				observability.RecordGateDecision(ctx, "unreadable")
				next.ServeHTTP(w, r)
				return
			}
			if _, ok := IdentityFromContext(ctx); ok {
				observability.RecordGateDecision(ctx, "already_authenticated")
				next.ServeHTTP(w, r)
				return
			}
			user, err := users.FindByEmail(ctx, subject)
			if err != nil {
				observability.RecordGateDecision(ctx, "unknown_subject")
				next.ServeHTTP(w, r)
				return
			}
			usable, err := tokens.IsUsable(ctx, raw)
			if err != nil {
				logging.FromContext(ctx).WarnContext(ctx, "token store lookup failed", "error", err.Error())
				observability.RecordGateDecision(ctx, "store_error")
				next.ServeHTTP(w, r)
				return
			}
			if !usable {
				observability.RecordGateDecision(ctx, "revoked")
				next.ServeHTTP(w, r)
				return
			}
			claims, err := codec.Verify(raw)
			if err != nil || claims.Subject != user.Email {
				observability.RecordGateDecision(ctx, "invalid")
				next.ServeHTTP(w, r)
				return
			}
			observability.RecordGateDecision(ctx, "authenticated")
			ctx = WithIdentity(ctx, Identity{UserID: user.ID, Email: user.Email, Role: user.Role, Token: raw})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// BearerToken returns the token from an "Authorization: Bearer <token>"
// header. The scheme is matched case-insensitively.
func BearerToken(r *http.Request) (string, bool) {
	auth := r.Header.Get("Authorization")
	if len(auth) < 7 || !strings.EqualFold(auth[:7], "bearer ") {
		return "", false
	}
	raw := strings.TrimSpace(auth[7:])
	return raw, raw != ""
}

func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := IdentityFromContext(r.Context()); !ok {
			response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func RequireRole(role domain.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := IdentityFromContext(r.Context())
			if !ok {
				response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required", nil)
				return
			}
			if id.Role != role {
				response.Error(w, r, http.StatusForbidden, "FORBIDDEN", "insufficient role", map[string]string{"required": string(role)})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
