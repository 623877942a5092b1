package auth

import (
	"testing"
	"time"

	"github.com/shopfront/storefront-api/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Issuer:             "storefront-test",
		AccessSecret:       "access-secret",
		AccessTokenExpiry:  15 * time.Minute,
		RefreshSecret:      "refresh-secret",
		RefreshTokenExpiry: time.Hour,
	}
}

func TestAccessTokenRoundTrip(t *testing.T) {
	m := NewJWTManager(testJWTConfig())

	token, err := m.GenerateAccessToken(AccessIdentity{
		UserID: "u-1", Email: "jane@example.com", Username: "jane", FullName: "Jane Doe",
	})
	require.NoError(t, err)

	claims, err := m.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, "jane@example.com", claims.Email)
	assert.Equal(t, "jane", claims.Username)
	assert.Equal(t, "Jane Doe", claims.FullName)
	assert.Equal(t, TokenTypeAccess, claims.TokenType)
}

func TestRefreshTokenCarriesOnlyID(t *testing.T) {
	m := NewJWTManager(testJWTConfig())

	token, err := m.GenerateRefreshToken("u-1")
	require.NoError(t, err)

	claims, err := m.ValidateRefreshToken(token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Empty(t, claims.Email)
	assert.Empty(t, claims.Username)
}

func TestTokensAreNotInterchangeable(t *testing.T) {
	m := NewJWTManager(testJWTConfig())

	access, err := m.GenerateAccessToken(AccessIdentity{UserID: "u-1"})
	require.NoError(t, err)
	refresh, err := m.GenerateRefreshToken("u-1")
	require.NoError(t, err)

	_, err = m.ValidateRefreshToken(access)
	assert.ErrorIs(t, err, ErrInvalidToken)
	_, err = m.ValidateAccessToken(refresh)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestExpiredTokenRejected(t *testing.T) {
	m := NewJWTManager(testJWTConfig())
	m.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	token, err := m.GenerateAccessToken(AccessIdentity{UserID: "u-1"})
	require.NoError(t, err)

	m.now = time.Now
	_, err = m.ValidateAccessToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRefreshTokensAreUnique(t *testing.T) {
	m := NewJWTManager(testJWTConfig())

	a, err := m.GenerateRefreshToken("u-1")
	require.NoError(t, err)
	b, err := m.GenerateRefreshToken("u-1")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestExtractToken(t *testing.T) {
	assert.Equal(t, "abc", ExtractToken("Bearer abc", "cookie"))
	assert.Equal(t, "abc", ExtractToken("bearer abc", ""))
	assert.Equal(t, "cookie", ExtractToken("", "cookie"))
	assert.Equal(t, "cookie", ExtractToken("Basic xyz", "cookie"))
	assert.Empty(t, ExtractToken("", ""))
}

func TestPasswordManager(t *testing.T) {
	p := NewPasswordManager(bcrypt.MinCost)

	_, err := p.HashPassword("12345")
	require.Error(t, err)

	hash, err := p.HashPassword("secret1")
	require.NoError(t, err)
	assert.NoError(t, p.VerifyPassword("secret1", hash))
	assert.Error(t, p.VerifyPassword("secret2", hash))
}

func TestPrincipalIsAdmin(t *testing.T) {
	assert.True(t, Principal{Role: RoleAdmin}.IsAdmin())
	assert.False(t, Principal{Role: RoleUser}.IsAdmin())
}
