package auth_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/mudita/visita-api/internal/auth"
	"github.com/mudita/visita-api/internal/config"
	"github.com/mudita/visita-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTokenManager() *auth.TokenManager {
	return auth.NewTokenManager(&config.AuthConfig{
		JWTSecret:     "unit-test-secret",
		TokenTTLHours: 1,
	})
}

func testUser(role domain.UserRole) *domain.User {
	user := &domain.User{
		Name:  "Test User",
		Email: "test@example.com",
		Role:  role,
	}
	user.ID = uuid.New()
	return user
}

func TestTokenManager_IssueAndValidate(t *testing.T) {
	manager := testTokenManager()
	user := testUser(domain.RoleSales)

	token, err := manager.IssueToken(user)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userCtx, err := manager.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, userCtx.UserID)
	assert.Equal(t, user.Name, userCtx.Name)
	assert.Equal(t, user.Email, userCtx.Email)
	assert.Equal(t, domain.RoleSales, userCtx.Role)
	assert.False(t, userCtx.IsAdmin())
}

func TestTokenManager_ValidateToken_Rejections(t *testing.T) {
	manager := testTokenManager()

	t.Run("garbage token", func(t *testing.T) {
		_, err := manager.ValidateToken("not-a-token")
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := auth.NewTokenManager(&config.AuthConfig{JWTSecret: "different-secret", TokenTTLHours: 1})
		token, err := other.IssueToken(testUser(domain.RoleSales))
		require.NoError(t, err)

		_, err = manager.ValidateToken(token)
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("expired token", func(t *testing.T) {
		now := time.Now().UTC()
		claims := jwt.MapClaims{
			"sub":   uuid.New().String(),
			"name":  "Expired User",
			"email": "expired@example.com",
			"role":  string(domain.RoleSales),
			"iat":   now.Add(-2 * time.Hour).Unix(),
			"exp":   now.Add(-time.Hour).Unix(),
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("unit-test-secret"))
		require.NoError(t, err)

		_, err = manager.ValidateToken(token)
		assert.ErrorIs(t, err, auth.ErrExpiredToken)
	})

	t.Run("unexpected signing method", func(t *testing.T) {
		token, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
			"sub": uuid.New().String(),
		}).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = manager.ValidateToken(token)
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("invalid role claim", func(t *testing.T) {
		now := time.Now().UTC()
		claims := jwt.MapClaims{
			"sub":   uuid.New().String(),
			"name":  "Odd Role",
			"email": "odd@example.com",
			"role":  "SUPERUSER",
			"iat":   now.Unix(),
			"exp":   now.Add(time.Hour).Unix(),
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("unit-test-secret"))
		require.NoError(t, err)

		_, err = manager.ValidateToken(token)
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("non-uuid subject", func(t *testing.T) {
		now := time.Now().UTC()
		claims := jwt.MapClaims{
			"sub":   "user-42",
			"name":  "Bad Subject",
			"email": "bad@example.com",
			"role":  string(domain.RoleAdmin),
			"iat":   now.Unix(),
			"exp":   now.Add(time.Hour).Unix(),
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("unit-test-secret"))
		require.NoError(t, err)

		_, err = manager.ValidateToken(token)
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})
}
