package tokenizer

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openquest/zklogin/core"
)

func mintToken(t *testing.T, claims IDTokenClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return signed
}

func validClaims(now time.Time) IDTokenClaims {
	return IDTokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-42",
			Issuer:    "https://accounts.example.com",
			Audience:  jwt.ClaimStrings{"client-id"},
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		Nonce: "abc123",
		Email: "user@example.com",
	}
}

func TestExtractToken(t *testing.T) {
	assert.Equal(t, "tok", ExtractToken("id_token=tok&state=foo"))
	assert.Equal(t, "", ExtractToken("state=foo"))
	assert.Equal(t, "", ExtractToken(""))
	assert.Equal(t, "", ExtractToken("%zz=bad"))
}

func TestDecodeIDToken(t *testing.T) {
	now := time.Now()
	raw := mintToken(t, validClaims(now))

	claims, err := DecodeIDToken(raw, now)
	require.NoError(t, err)
	assert.Equal(t, "user-42", claims.Subject)
	assert.Equal(t, "https://accounts.example.com", claims.Issuer)
	assert.Equal(t, "client-id", claims.Audience)
	assert.Equal(t, "abc123", claims.Nonce)
	assert.Equal(t, "user@example.com", claims.Email)
}

func TestDecodeIDTokenMissingClaims(t *testing.T) {
	now := time.Now()

	cases := []struct {
		name   string
		mutate func(*IDTokenClaims)
	}{
		{"sub", func(c *IDTokenClaims) { c.Subject = "" }},
		{"iss", func(c *IDTokenClaims) { c.Issuer = "" }},
		{"nonce", func(c *IDTokenClaims) { c.Nonce = "" }},
		{"exp", func(c *IDTokenClaims) { c.ExpiresAt = nil }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			claims := validClaims(now)
			tc.mutate(&claims)
			_, err := DecodeIDToken(mintToken(t, claims), now)
			require.Error(t, err)
			assert.ErrorIs(t, err, core.ErrMissingClaim)
			assert.Contains(t, err.Error(), tc.name)
		})
	}
}

func TestDecodeIDTokenExpired(t *testing.T) {
	now := time.Now()
	claims := validClaims(now)
	claims.ExpiresAt = jwt.NewNumericDate(now.Add(-time.Minute))

	_, err := DecodeIDToken(mintToken(t, claims), now)
	assert.ErrorIs(t, err, core.ErrTokenExpired)
}

func TestDecodeIDTokenGarbage(t *testing.T) {
	_, err := DecodeIDToken("not.a.jwt", time.Now())
	assert.Error(t, err)
}

func TestDecodeSubjectIgnoresExpiry(t *testing.T) {
	now := time.Now()
	claims := validClaims(now)
	claims.ExpiresAt = jwt.NewNumericDate(now.Add(-time.Hour))

	sub, err := DecodeSubject(mintToken(t, claims))
	require.NoError(t, err)
	assert.Equal(t, "user-42", sub)
}
