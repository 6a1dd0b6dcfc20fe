package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/nahuelmendez6/int-com-back/internal/common"
	"github.com/nahuelmendez6/int-com-back/internal/domain/user"
	"github.com/nahuelmendez6/int-com-back/internal/http/response"
)

type contextKey string

const ContextIdentityKey contextKey = "identity"

// IdentityMiddleware trusts the identity headers set by the API gateway,
// which terminates authentication. X-User-Id carries the authenticated user
// id; the middleware resolves it to the user's provider or customer profile
// before the handler runs.
type IdentityMiddleware struct {
	users user.Repository
}

func NewIdentityMiddleware(users user.Repository) *IdentityMiddleware {
	return &IdentityMiddleware{users: users}
}

func (m *IdentityMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := r.Header.Get("X-User-Id")
		if raw == "" {
			response.Error(w, common.NewError(common.CodeUnauthorized, "missing identity header", nil))
			return
		}
		userID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || userID <= 0 {
			response.Error(w, common.NewError(common.CodeUnauthorized, "invalid user id", err))
			return
		}
		identity, err := m.users.ResolveIdentity(r.Context(), userID)
		if err != nil {
			if common.Is(err, common.CodeNotFound) {
				response.Error(w, common.NewError(common.CodeForbidden, "user has no marketplace profile", nil))
				return
			}
			response.Error(w, err)
			return
		}
		ctx := context.WithValue(r.Context(), ContextIdentityKey, *identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func RequireRole(role user.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := IdentityFromContext(r.Context())
			if !ok {
				response.Error(w, common.NewError(common.CodeForbidden, "identity not resolved", nil))
				return
			}
			if identity.Role != role {
				response.Error(w, common.NewError(common.CodeForbidden, "insufficient role", nil))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func IdentityFromContext(ctx context.Context) (user.Identity, bool) {
	identity, ok := ctx.Value(ContextIdentityKey).(user.Identity)
	return identity, ok
}
