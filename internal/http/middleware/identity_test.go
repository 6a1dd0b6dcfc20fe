package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nahuelmendez6/int-com-back/internal/common"
	"github.com/nahuelmendez6/int-com-back/internal/domain/user"
)

type stubUserRepo struct {
	identities map[int64]user.Identity
}

func (r *stubUserRepo) GetByID(ctx context.Context, id int64) (*user.User, error) {
	if _, ok := r.identities[id]; !ok {
		return nil, common.NewError(common.CodeNotFound, "user not found", nil)
	}
	return &user.User{ID: id, Active: true}, nil
}

func (r *stubUserRepo) ResolveIdentity(ctx context.Context, userID int64) (*user.Identity, error) {
	identity, ok := r.identities[userID]
	if !ok {
		return nil, common.NewError(common.CodeNotFound, "user has no profile", nil)
	}
	return &identity, nil
}

func TestIdentityMiddleware(t *testing.T) {
	repo := &stubUserRepo{identities: map[int64]user.Identity{
		7: {UserID: 7, Role: user.RoleProvider, ProviderID: 3},
	}}
	mw := NewIdentityMiddleware(repo)

	var captured user.Identity
	handler := mw.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := IdentityFromContext(r.Context())
		require.True(t, ok)
		captured = identity
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/petitions", nil)
	req.Header.Set("X-User-Id", "7")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, int64(7), captured.UserID)
	require.Equal(t, user.RoleProvider, captured.Role)
	require.Equal(t, int64(3), captured.ProviderID)
}

func TestIdentityMiddleware_MissingHeader(t *testing.T) {
	mw := NewIdentityMiddleware(&stubUserRepo{})
	handler := mw.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	req := httptest.NewRequest(http.MethodGet, "/petitions", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestIdentityMiddleware_UnknownUserForbidden(t *testing.T) {
	mw := NewIdentityMiddleware(&stubUserRepo{identities: map[int64]user.Identity{}})
	handler := mw.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	req := httptest.NewRequest(http.MethodGet, "/petitions", nil)
	req.Header.Set("X-User-Id", "99")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireRole(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := RequireRole(user.RoleCustomer)(next)

	req := httptest.NewRequest(http.MethodPost, "/petitions", nil)
	ctx := context.WithValue(req.Context(), ContextIdentityKey, user.Identity{UserID: 7, Role: user.RoleProvider, ProviderID: 3})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req.WithContext(ctx))
	require.Equal(t, http.StatusForbidden, rec.Code)

	ctx = context.WithValue(req.Context(), ContextIdentityKey, user.Identity{UserID: 8, Role: user.RoleCustomer, CustomerID: 4})
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req.WithContext(ctx))
	require.Equal(t, http.StatusOK, rec.Code)
}
