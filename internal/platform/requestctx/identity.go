// Package requestctx propagates per-request identity through context.
package requestctx

import "context"

// Identity describes the authenticated caller of a request.
//
// A zero Identity means the request is anonymous.
type Identity struct {
	UserID string
	Email  string
}

// IsAnonymous reports whether no authenticated user is attached.
func (i Identity) IsAnonymous() bool {
	return i.UserID == ""
}

// identityContextKey is the context key for authenticated identity.
type identityContextKey struct{}

// WithIdentity stores a caller identity in context.
func WithIdentity(ctx context.Context, identity Identity) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, identityContextKey{}, identity)
}

// IdentityFromContext returns the caller identity stored in context.
func IdentityFromContext(ctx context.Context) Identity {
	if ctx == nil {
		return Identity{}
	}
	value, _ := ctx.Value(identityContextKey{}).(Identity)
	return value
}
