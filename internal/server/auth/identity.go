package auth

import "context"

// Identity is the validated subject of an authenticated request. It lives
// only for the lifetime of one request and is never persisted.
type Identity struct {
	UserID int64
}

type identityCtxKey struct{}

// ContextWithIdentity returns a child context carrying the validated identity.
func ContextWithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityCtxKey{}, id)
}

// IdentityFromContext extracts the identity placed by the auth middleware.
// The second return is false on requests that never passed the guard.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityCtxKey{}).(Identity)
	return id, ok
}
