// Package sessions implements the server-side registry of active session
// tokens, keyed by subject id. The registry holds at most one token per
// subject; a newer login overwrites the previous token, which is what makes
// server-side revocation possible independent of token expiry.
package sessions

import "context"

// Store is the revocable session registry.
//
// Set unconditionally replaces the subject's current token. Get returns
// common.ErrorNotFound when the subject has no registered session (never
// logged in, expired out of the registry, or revoked).
type Store interface {
	Set(ctx context.Context, userID int64, token string) error
	Get(ctx context.Context, userID int64) (string, error)
}
