package service_test

import (
	"context"
	"testing"

	"github.com/mudita/visita-api/internal/auth"
	"github.com/mudita/visita-api/internal/config"
	"github.com/mudita/visita-api/internal/domain"
	"github.com/mudita/visita-api/internal/repository"
	"github.com/mudita/visita-api/internal/service"
	"github.com/mudita/visita-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func createAuthService(db *gorm.DB) *service.AuthService {
	logger := zap.NewNop()
	authCfg := &config.AuthConfig{
		JWTSecret:      "test-secret",
		TokenTTLHours:  24,
		InviteTTLHours: 72,
		ResetTTLHours:  2,
	}
	return service.NewAuthService(
		repository.NewUserRepository(db),
		repository.NewAuthTokenRepository(db),
		repository.NewAllowlistRepository(db),
		repository.NewAuthLogRepository(db),
		auth.NewTokenManager(authCfg),
		authCfg,
		logger,
	)
}

func createCredentialedUser(t *testing.T, db *gorm.DB, email, password string, active bool) *domain.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	user := &domain.User{
		Name:         "Credentialed User",
		Email:        email,
		PasswordHash: string(hash),
		Role:         domain.RoleSales,
		IsActive:     active,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func TestAuthService_Login(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createAuthService(db)
	ctx := context.Background()

	user := createCredentialedUser(t, db, "joana@example.com", "hunter2pass", true)
	createCredentialedUser(t, db, "inactive@example.com", "hunter2pass", false)

	t.Run("valid credentials issue a token", func(t *testing.T) {
		result, err := svc.Login(ctx, &domain.LoginRequest{Email: "joana@example.com", Password: "hunter2pass"})
		require.NoError(t, err)
		assert.NotEmpty(t, result.Token)
		assert.Equal(t, user.ID, result.User.ID)

		var stored domain.User
		require.NoError(t, db.First(&stored, "id = ?", user.ID).Error)
		assert.NotNil(t, stored.LastLoginAt)
	})

	t.Run("email lookup is case and whitespace insensitive", func(t *testing.T) {
		result, err := svc.Login(ctx, &domain.LoginRequest{Email: "  Joana@Example.COM ", Password: "hunter2pass"})
		require.NoError(t, err)
		assert.Equal(t, user.ID, result.User.ID)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(ctx, &domain.LoginRequest{Email: "joana@example.com", Password: "wrong"})
		assert.ErrorIs(t, err, service.ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := svc.Login(ctx, &domain.LoginRequest{Email: "ghost@example.com", Password: "hunter2pass"})
		assert.ErrorIs(t, err, service.ErrInvalidCredentials)
	})

	t.Run("inactive account", func(t *testing.T) {
		// Guards against the create silently flipping the flag back on
		var stored domain.User
		require.NoError(t, db.First(&stored, "email = ?", "inactive@example.com").Error)
		require.False(t, stored.IsActive)

		_, err := svc.Login(ctx, &domain.LoginRequest{Email: "inactive@example.com", Password: "hunter2pass"})
		assert.ErrorIs(t, err, service.ErrAccountInactive)
	})

	t.Run("login attempts are recorded", func(t *testing.T) {
		var logs int64
		require.NoError(t, db.Model(&domain.AuthLog{}).
			Where("email = ? AND action = ?", "joana@example.com", "login").Count(&logs).Error)
		assert.GreaterOrEqual(t, logs, int64(2))
	})
}

func TestAuthService_RequestAccessAndActivate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createAuthService(db)
	ctx := context.Background()

	require.NoError(t, db.Create(&domain.AllowlistEntry{
		Email:  "invited@example.com",
		Role:   domain.RoleSales,
		Status: domain.AllowlistActive,
	}).Error)
	require.NoError(t, db.Create(&domain.AllowlistEntry{
		Email:  "blocked@example.com",
		Role:   domain.RoleSales,
		Status: domain.AllowlistInactive,
	}).Error)

	t.Run("non-allowlisted email is rejected", func(t *testing.T) {
		_, err := svc.RequestAccess(ctx, "stranger@example.com")
		assert.ErrorIs(t, err, service.ErrEmailNotAllowed)
	})

	t.Run("inactive allowlist entry is rejected", func(t *testing.T) {
		_, err := svc.RequestAccess(ctx, "blocked@example.com")
		assert.ErrorIs(t, err, service.ErrEmailNotAllowed)
	})

	t.Run("full invite to activation flow", func(t *testing.T) {
		result, err := svc.RequestAccess(ctx, "invited@example.com")
		require.NoError(t, err)
		require.NotEmpty(t, result.Token)

		// The plain token value is never stored
		var stored domain.AuthToken
		require.NoError(t, db.Where("email = ?", "invited@example.com").First(&stored).Error)
		assert.NotEqual(t, result.Token, stored.TokenHash)

		activated, err := svc.ActivateUser(ctx, &domain.ActivateUserRequest{
			Token:    result.Token,
			Password: "a-strong-password",
			Name:     "Invited User",
		})
		require.NoError(t, err)
		assert.True(t, activated.Success)

		login, err := svc.Login(ctx, &domain.LoginRequest{Email: "invited@example.com", Password: "a-strong-password"})
		require.NoError(t, err)
		assert.Equal(t, domain.RoleSales, login.User.Role)

		t.Run("token is single use", func(t *testing.T) {
			_, err := svc.ActivateUser(ctx, &domain.ActivateUserRequest{
				Token:    result.Token,
				Password: "another-password",
				Name:     "Replay",
			})
			assert.Error(t, err)
		})

		t.Run("registered email cannot request access again", func(t *testing.T) {
			_, err := svc.RequestAccess(ctx, "invited@example.com")
			assert.ErrorIs(t, err, service.ErrEmailAlreadyRegistered)
		})
	})
}

func TestAuthService_InviteLifecycle(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createAuthService(db)
	ctx := context.Background()

	first, err := svc.GenerateInvite(ctx, &domain.GenerateInviteRequest{Email: "admin-pick@example.com", Role: domain.RoleAdmin})
	require.NoError(t, err)
	require.NotEmpty(t, first.Token)

	t.Run("a newer invite invalidates the older one", func(t *testing.T) {
		second, err := svc.GenerateInvite(ctx, &domain.GenerateInviteRequest{Email: "admin-pick@example.com", Role: domain.RoleAdmin})
		require.NoError(t, err)

		_, err = svc.ActivateUser(ctx, &domain.ActivateUserRequest{Token: first.Token, Password: "some-password", Name: "Late"})
		assert.ErrorIs(t, err, service.ErrInvalidOrExpiredToken)

		activated, err := svc.ActivateUser(ctx, &domain.ActivateUserRequest{Token: second.Token, Password: "some-password", Name: "On Time"})
		require.NoError(t, err)
		assert.True(t, activated.Success)

		// The invite role carries into the account
		login, err := svc.Login(ctx, &domain.LoginRequest{Email: "admin-pick@example.com", Password: "some-password"})
		require.NoError(t, err)
		assert.Equal(t, domain.RoleAdmin, login.User.Role)
	})

	t.Run("revoking kills pending invites", func(t *testing.T) {
		invite, err := svc.GenerateInvite(ctx, &domain.GenerateInviteRequest{Email: "revoked@example.com", Role: domain.RoleSales})
		require.NoError(t, err)

		_, err = svc.RevokeInvite(ctx, "revoked@example.com")
		require.NoError(t, err)

		_, err = svc.ActivateUser(ctx, &domain.ActivateUserRequest{Token: invite.Token, Password: "some-password", Name: "Too Late"})
		assert.ErrorIs(t, err, service.ErrInvalidOrExpiredToken)
	})
}

func TestAuthService_PasswordReset(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createAuthService(db)
	ctx := context.Background()

	createCredentialedUser(t, db, "reset-me@example.com", "old-password", true)

	t.Run("unknown email does not disclose account existence", func(t *testing.T) {
		result, err := svc.RequestReset(ctx, "nobody@example.com")
		require.NoError(t, err)
		assert.True(t, result.Success)
		assert.Empty(t, result.Token)
	})

	t.Run("reset replaces the password once", func(t *testing.T) {
		result, err := svc.RequestReset(ctx, "reset-me@example.com")
		require.NoError(t, err)
		require.NotEmpty(t, result.Token)

		_, err = svc.ResetPassword(ctx, &domain.ResetPasswordRequest{Token: result.Token, Password: "new-password"})
		require.NoError(t, err)

		_, err = svc.Login(ctx, &domain.LoginRequest{Email: "reset-me@example.com", Password: "old-password"})
		assert.ErrorIs(t, err, service.ErrInvalidCredentials)

		_, err = svc.Login(ctx, &domain.LoginRequest{Email: "reset-me@example.com", Password: "new-password"})
		require.NoError(t, err)

		_, err = svc.ResetPassword(ctx, &domain.ResetPasswordRequest{Token: result.Token, Password: "sneaky-password"})
		assert.ErrorIs(t, err, service.ErrInvalidOrExpiredToken)
	})
}
