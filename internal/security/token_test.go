package security

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	manager := NewTokenManager("secret", "daily-coding-api")

	raw, err := manager.Issue(Identity{ID: 7, Role: "admin", Email: "root@example.com"}, time.Hour)
	require.NoError(t, err)

	claims, err := manager.Verify(raw)
	require.NoError(t, err)
	require.Equal(t, uint(7), claims.UserID)
	require.Equal(t, "admin", claims.Role)
	require.Equal(t, "root@example.com", claims.Email)
	require.Equal(t, "7", claims.Subject)
}

func TestTokenExpiryIsExact(t *testing.T) {
	manager := NewTokenManager("secret", "daily-coding-api")
	issuedAt := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	manager.now = func() time.Time { return issuedAt }

	raw, err := manager.Issue(Identity{ID: 1, Role: "student"}, 24*time.Hour)
	require.NoError(t, err)

	manager.now = func() time.Time { return issuedAt.Add(24*time.Hour - time.Second) }
	_, err = manager.Verify(raw)
	require.NoError(t, err)

	manager.now = func() time.Time { return issuedAt.Add(24*time.Hour + time.Second) }
	_, err = manager.Verify(raw)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenRejectsForeignSignature(t *testing.T) {
	issuer := NewTokenManager("other-secret", "daily-coding-api")
	raw, err := issuer.Issue(Identity{ID: 3, Role: "student"}, time.Hour)
	require.NoError(t, err)

	_, err = NewTokenManager("secret", "daily-coding-api").Verify(raw)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenRejectsMalformedAndEmpty(t *testing.T) {
	manager := NewTokenManager("secret", "daily-coding-api")

	_, err := manager.Verify("")
	require.ErrorIs(t, err, ErrInvalidToken)

	_, err = manager.Verify("not.a.jwt")
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenRejectsUnsignedAlgorithm(t *testing.T) {
	claims := Claims{UserID: 4, Role: "admin", RegisteredClaims: jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewTokenManager("secret", "daily-coding-api").Verify(raw)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenRequiresExpiry(t *testing.T) {
	claims := Claims{UserID: 4, Role: "admin"}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = NewTokenManager("secret", "daily-coding-api").Verify(raw)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("secret", 4)
	require.NoError(t, err)
	require.NoError(t, CheckPassword(hash, "secret"))
	require.Error(t, CheckPassword(hash, "wrong"))
}
