package helpers

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTManager_RoundTrip(t *testing.T) {
	m := NewJWTManager("secret", time.Hour)

	tok, exp, err := m.GenerateAccessToken("u1", "a@x.io")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	claims, err := m.ParseAccessToken(tok)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "a@x.io", claims.Email)
}

func TestJWTManager_Rejects(t *testing.T) {
	m := NewJWTManager("secret", time.Hour)
	tok, _, err := m.GenerateAccessToken("u1", "a@x.io")
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
		mgr   *JWTManager
	}{
		{name: "garbage", token: "not-a-token", mgr: m},
		{name: "wrong secret", token: tok, mgr: NewJWTManager("other", time.Hour)},
		{name: "tampered", token: tok + "x", mgr: m},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.mgr.ParseAccessToken(tt.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestJWTManager_Expired(t *testing.T) {
	m := NewJWTManager("secret", -time.Minute)
	tok, _, err := m.GenerateAccessToken("u1", "a@x.io")
	require.NoError(t, err)

	_, err = m.ParseAccessToken(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestJWTManager_RejectsNoneAlg(t *testing.T) {
	m := NewJWTManager("secret", time.Hour)
	claims := &Claims{UserID: "u1", RegisteredClaims: jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = m.ParseAccessToken(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
