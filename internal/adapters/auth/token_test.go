package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func TestJWTCodec_RoundTrip(t *testing.T) {
	issuer, verifier := NewJWTCodec("test-secret")

	token, err := issuer.Issue("user-1", "alice", time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, err := verifier.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "user-1", userID)
}

func TestJWTCodec_Verify(t *testing.T) {
	issuer, verifier := NewJWTCodec("test-secret")

	t.Run("expired token", func(t *testing.T) {
		token, err := issuer.Issue("user-1", "alice", -time.Minute)
		require.NoError(t, err)

		_, err = verifier.Verify(token)
		require.Error(t, err)
	})

	t.Run("wrong secret", func(t *testing.T) {
		otherIssuer, _ := NewJWTCodec("other-secret")
		token, err := otherIssuer.Issue("user-1", "alice", time.Hour)
		require.NoError(t, err)

		_, err = verifier.Verify(token)
		require.Error(t, err)
	})

	t.Run("garbage token", func(t *testing.T) {
		_, err := verifier.Verify("not.a.jwt")
		require.Error(t, err)
	})

	t.Run("wrong signing method", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{Subject: "user-1"})
		signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = verifier.Verify(signed)
		require.Error(t, err)
	})

	t.Run("missing subject", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		})
		signed, err := token.SignedString([]byte("test-secret"))
		require.NoError(t, err)

		_, err = verifier.Verify(signed)
		require.Error(t, err)
	})
}
