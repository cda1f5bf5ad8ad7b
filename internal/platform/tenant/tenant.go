package tenant

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/finledger/ledger-core/internal/apperrors"
)

// Namespace is a resolved, validated tenant persistence namespace. Its value
// is used directly as the Postgres schema name, so it is only ever produced
// by Resolve.
type Namespace string

// Public is the reserved default namespace. It is assumed pre-existing and is
// never provisioned at runtime.
const Public Namespace = "public"

// Schema returns the Postgres schema name for the namespace.
func (n Namespace) Schema() string { return string(n) }

// IsPublic reports whether n is the reserved default namespace.
func (n Namespace) IsPublic() bool { return n == Public }

// Schema names are interpolated into DDL and query text, so the identifier
// grammar is enforced strictly rather than relying on quoting alone.
var validNamespace = regexp.MustCompile(`^[a-z][a-z0-9_]{0,62}$`)

// Resolve normalizes a raw tenant identifier into a Namespace: trimmed,
// lowercased, defaulting to Public when absent. Identifiers that are not
// valid schema names are rejected.
func Resolve(raw string) (Namespace, error) {
	id := strings.ToLower(strings.TrimSpace(raw))
	if id == "" {
		return Public, nil
	}
	if !validNamespace.MatchString(id) {
		return "", fmt.Errorf("%w: invalid tenant identifier %q", apperrors.ErrValidation, raw)
	}
	return Namespace(id), nil
}

// tenantIDKey is the key used to store the raw tenant identifier in a
// context. Using a custom type prevents collisions.
type contextKey string

const tenantIDKey = contextKey("tenantID")

// WithTenantID returns a context carrying the raw tenant identifier supplied
// by the calling environment (the TenantProvider contract).
func WithTenantID(ctx context.Context, raw string) context.Context {
	return context.WithValue(ctx, tenantIDKey, raw)
}

// FromContext retrieves the raw tenant identifier from the context. An
// absent value resolves to the public namespace downstream.
func FromContext(ctx context.Context) string {
	if v, ok := ctx.Value(tenantIDKey).(string); ok {
		return v
	}
	return ""
}
