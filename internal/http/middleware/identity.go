package middleware

import (
	"context"

	"github.com/k-javaman/my-practices/internal/domain"
)

type contextKey string

const identityContextKey contextKey = "identity"

// Identity is the authenticated caller established by the request gate.
type Identity struct {
	UserID uint
	Email  string
	Role   domain.Role
	Token  string
}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityContextKey, id)
}

func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityContextKey).(Identity)
	return id, ok
}
