package jwtutil

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestUtil(key string) *JWTUtil {
	return NewJWTUtil(&JWTConfig{
		SigningKey:      key,
		ExpirationHours: 1,
	})
}

func TestTokenRoundTrip(t *testing.T) {
	util := newTestUtil("test-signing-key")

	token, err := util.GenerateToken("user@acme.com", 42, "acme", "crm-app")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := util.ValidateToken(token)
	require.NoError(t, err)
	require.Equal(t, "user@acme.com", claims.Email)
	require.Equal(t, uint(42), claims.UserID)
	require.Equal(t, "acme", claims.ClientID)
	require.Equal(t, "crm-app", claims.AppID)
	require.Empty(t, claims.Scope)
}

func TestAdminTokenCarriesScope(t *testing.T) {
	util := newTestUtil("test-signing-key")

	token, err := util.GenerateAdminToken("ops@acme.com", 1)
	require.NoError(t, err)

	claims, err := util.ValidateToken(token)
	require.NoError(t, err)
	require.Equal(t, "admin", claims.Scope)
	require.Empty(t, claims.ClientID)
	require.Empty(t, claims.AppID)
}

func TestValidateRejectsWrongKey(t *testing.T) {
	token, err := newTestUtil("key-one").GenerateToken("user@acme.com", 42, "acme", "crm-app")
	require.NoError(t, err)

	_, err = newTestUtil("key-two").ValidateToken(token)
	require.Error(t, err)
}

func TestValidateRejectsGarbage(t *testing.T) {
	_, err := newTestUtil("key").ValidateToken("not.a.token")
	require.Error(t, err)
}
