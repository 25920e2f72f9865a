package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hashperks/loyalty-service/internal/domain"
)

type stubVerifier struct {
	claims *domain.TokenClaims
	err    error
}

func (s stubVerifier) Verify(string) (*domain.TokenClaims, error) {
	return s.claims, s.err
}

func TestResolveIdentity(t *testing.T) {
	tests := []struct {
		name       string
		credential string
		verifier   stubVerifier
		wantKind   domain.ErrorKind
		want       domain.Principal
	}{
		{
			name:     "missing",
			wantKind: domain.KindAuthMissing,
		},
		{
			name:       "expired",
			credential: "tok",
			verifier:   stubVerifier{err: domain.ErrTokenExpired},
			wantKind:   domain.KindAuthExpired,
		},
		{
			name:       "bad signature",
			credential: "tok",
			verifier:   stubVerifier{err: domain.ErrTokenInvalid},
			wantKind:   domain.KindAuthInvalid,
		},
		{
			name:       "unknown role",
			credential: "tok",
			verifier:   stubVerifier{claims: &domain.TokenClaims{UserID: "u1", Role: "superuser"}},
			wantKind:   domain.KindAuthInvalid,
		},
		{
			name:       "no subject",
			credential: "tok",
			verifier:   stubVerifier{claims: &domain.TokenClaims{Role: "member"}},
			wantKind:   domain.KindAuthInvalid,
		},
		{
			name:       "valid",
			credential: "  tok ",
			verifier:   stubVerifier{claims: &domain.TokenClaims{UserID: "u1", Role: "store_owner"}},
			want:       domain.Principal{UserID: "u1", Role: domain.RoleStoreOwner},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewDefaultGuard(tt.verifier)
			p, err := g.ResolveIdentity(tt.credential)
			if tt.wantKind != "" {
				require.Error(t, err)
				assert.Equal(t, tt.wantKind, domain.KindOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, p)
		})
	}
}

func TestRequireRole(t *testing.T) {
	g := NewDefaultGuard(nil)
	owner := domain.Principal{UserID: "u1", Role: domain.RoleStoreOwner}

	assert.NoError(t, g.RequireRole(owner, domain.RoleStoreOwner, domain.RoleAdmin))
	err := g.RequireRole(owner, domain.RoleAdmin)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.ErrorIs(t, g.RequireRole(domain.Principal{}), domain.ErrForbidden)
}

func TestRequireOwnership(t *testing.T) {
	g := NewDefaultGuard(nil)
	p := domain.Principal{UserID: "u1", Role: domain.RoleStoreOwner}

	assert.NoError(t, g.RequireOwnership(p, "u1"))
	assert.ErrorIs(t, g.RequireOwnership(p, "u2"), domain.ErrForbidden)
	assert.ErrorIs(t, g.RequireOwnership(domain.Principal{}, ""), domain.ErrForbidden)
	// admins do not own stores they did not create
	assert.ErrorIs(t, g.RequireOwnership(domain.Principal{UserID: "a", Role: domain.RoleAdmin}, "u1"), domain.ErrForbidden)
}
