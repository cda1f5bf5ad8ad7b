package identity

import "context"

// userIDKey is the key used to store the acting user's ID in a context.
// Using a custom type prevents collisions.
type contextKey string

const userIDKey = contextKey("userID")

// WithUserID returns a context carrying the acting user's identifier
// (the CurrentUserProvider contract).
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// CurrentUser retrieves the acting user ID from the context. It fails open
// to the empty (anonymous) id rather than blocking the core: audit rows for
// unattributed mutations are still better than no audit rows.
func CurrentUser(ctx context.Context) string {
	if v, ok := ctx.Value(userIDKey).(string); ok {
		return v
	}
	return ""
}
