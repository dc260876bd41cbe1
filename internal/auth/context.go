package auth

import "context"

type contextKey struct{}

// WithUser returns a context carrying the authenticated principal.
// The credential is stripped before it is stored.
func WithUser(ctx context.Context, u *User) context.Context {
	if u == nil {
		return ctx
	}
	return context.WithValue(ctx, contextKey{}, u.Principal())
}

// UserFromContext returns the principal attached by the authentication
// middleware, or nil.
func UserFromContext(ctx context.Context) *User {
	u, _ := ctx.Value(contextKey{}).(*User)
	return u
}
