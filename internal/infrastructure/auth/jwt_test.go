package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hashperks/loyalty-service/internal/domain"
)

const testSecret = "test-secret-0123456789"

func TestIssueAndVerify(t *testing.T) {
	svc := NewTokenService(testSecret, time.Hour)

	token, err := svc.Issue("user-1", domain.RoleStoreOwner)
	require.NoError(t, err)

	claims, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "store_owner", claims.Role)
}

func TestVerifyExpired(t *testing.T) {
	svc := NewTokenService(testSecret, time.Minute)
	issuedAt := time.Now().Add(-time.Hour)
	svc.now = func() time.Time { return issuedAt }
	token, err := svc.Issue("user-1", domain.RoleMember)
	require.NoError(t, err)

	svc.now = time.Now
	_, err = svc.Verify(token)
	assert.True(t, errors.Is(err, domain.ErrTokenExpired))
}

func TestVerifyRejectsForeignSignature(t *testing.T) {
	other := NewTokenService("another-secret-0123456789", time.Hour)
	token, err := other.Issue("user-1", domain.RoleAdmin)
	require.NoError(t, err)

	_, err = NewTokenService(testSecret, time.Hour).Verify(token)
	assert.True(t, errors.Is(err, domain.ErrTokenInvalid))
}

func TestVerifyRejectsNoneAlgorithmAndGarbage(t *testing.T) {
	svc := NewTokenService(testSecret, time.Hour)

	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		Role: "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	token, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = svc.Verify(token)
	assert.True(t, errors.Is(err, domain.ErrTokenInvalid))

	_, err = svc.Verify("not-a-token")
	assert.True(t, errors.Is(err, domain.ErrTokenInvalid))
}
