package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/OSMA-D/osma-server/internal/model"
)

// Identity is a resolved, verified session identity. The absence of an
// Identity in the request context means the request is anonymous — there is
// no sentinel "none" role.
type Identity struct {
	Name string
	Role model.Role
}

// In reports whether the identity's role is a member of the given
// capability set.
func (id Identity) In(roles ...model.Role) bool {
	for _, r := range roles {
		if id.Role == r {
			return true
		}
	}
	return false
}

// contextKey is an unexported type for context keys in this package, so no
// other package can read or shadow the identity value.
type contextKey struct{}

var identityKey contextKey

// ResolveIdentity is the identity-resolution middleware for the /api scope.
//
// FAIL-OPEN GATE:
// The gate never rejects a request. A present, valid bearer token puts an
// Identity into the context; a missing or invalid one leaves the request
// anonymous and lets it through. The accept/deny decision belongs to each
// operation, which checks the resolved role against its own capability set —
// that split is what lets some operations stay public while others require a
// role.
func ResolveIdentity(tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token := bearerToken(r); token != "" {
				if id, err := tokens.Verify(token); err == nil {
					r = r.WithContext(context.WithValue(r.Context(), identityKey, id))
				}
				// Invalid token: proceed anonymous. Deliberately
				// indistinguishable from no token at all.
			}
			next.ServeHTTP(w, r)
		})
	}
}

// IdentityFromContext retrieves the verified identity for this request.
// Returns (zero, false) for anonymous requests.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey).(Identity)
	return id, ok
}

// bearerToken extracts the token from "Authorization: Bearer <token>".
// Returns "" when the header is absent or not a bearer scheme.
func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(h) <= len(prefix) || !strings.EqualFold(h[:len(prefix)], prefix) {
		return ""
	}
	return h[len(prefix):]
}
