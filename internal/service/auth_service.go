package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mudita/visita-api/internal/auth"
	"github.com/mudita/visita-api/internal/config"
	"github.com/mudita/visita-api/internal/domain"
	"github.com/mudita/visita-api/internal/mapper"
	"github.com/mudita/visita-api/internal/repository"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	// ErrInvalidCredentials is returned when email or password do not match
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrAccountInactive is returned when a deactivated user tries to log in
	ErrAccountInactive = errors.New("account is inactive")

	// ErrEmailNotAllowed is returned when a non-allowlisted email requests access
	ErrEmailNotAllowed = errors.New("email is not on the access allowlist")

	// ErrInvalidOrExpiredToken is returned when an invite or reset token
	// cannot be matched, is expired or was already consumed
	ErrInvalidOrExpiredToken = errors.New("invalid or expired token")

	// ErrEmailAlreadyRegistered is returned when activating an email that has an account
	ErrEmailAlreadyRegistered = errors.New("email is already registered")
)

// AuthService implements login, access requests, activation, invitations
// and password resets
type AuthService struct {
	userRepo      *repository.UserRepository
	tokenRepo     *repository.AuthTokenRepository
	allowlistRepo *repository.AllowlistRepository
	authLogRepo   *repository.AuthLogRepository
	tokens        *auth.TokenManager
	cfg           *config.AuthConfig
	logger        *zap.Logger
}

// NewAuthService creates a new AuthService instance
func NewAuthService(
	userRepo *repository.UserRepository,
	tokenRepo *repository.AuthTokenRepository,
	allowlistRepo *repository.AllowlistRepository,
	authLogRepo *repository.AuthLogRepository,
	tokens *auth.TokenManager,
	cfg *config.AuthConfig,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		userRepo:      userRepo,
		tokenRepo:     tokenRepo,
		allowlistRepo: allowlistRepo,
		authLogRepo:   authLogRepo,
		tokens:        tokens,
		cfg:           cfg,
		logger:        logger,
	}
}

// Login authenticates a user and issues a session token
func (s *AuthService) Login(ctx context.Context, req *domain.LoginRequest) (*domain.LoginResponse, error) {
	email := normalizeEmail(req.Email)

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.logAuth(ctx, email, "login", domain.AuthLogFailure, "unknown email")
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if !user.IsActive {
		s.logAuth(ctx, email, "login", domain.AuthLogFailure, "inactive account")
		return nil, ErrAccountInactive
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		s.logAuth(ctx, email, "login", domain.AuthLogFailure, "bad password")
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.IssueToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to issue session token: %w", err)
	}

	if err := s.userRepo.TouchLastLogin(ctx, user.ID); err != nil {
		s.logger.Warn("failed to update last login", zap.Error(err))
	}
	s.logAuth(ctx, email, "login", domain.AuthLogSuccess, "")

	return &domain.LoginResponse{
		Token: token,
		User:  mapper.ToUserDTO(user),
	}, nil
}

// RequestAccess creates an activation token for an allowlisted email.
// The token value is returned once and only its hash is stored.
func (s *AuthService) RequestAccess(ctx context.Context, email string) (*domain.AuthResultDTO, error) {
	email = normalizeEmail(email)

	entry, err := s.allowlistRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.logAuth(ctx, email, "request_access", domain.AuthLogFailure, "not allowlisted")
			return nil, ErrEmailNotAllowed
		}
		return nil, fmt.Errorf("failed to check allowlist: %w", err)
	}
	if entry.Status != domain.AllowlistActive {
		s.logAuth(ctx, email, "request_access", domain.AuthLogFailure, "allowlist entry inactive")
		return nil, ErrEmailNotAllowed
	}

	if _, err := s.userRepo.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailAlreadyRegistered
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	token, err := s.issueToken(ctx, email, domain.TokenTypeActivation, entry.Role, s.cfg.InviteTTL())
	if err != nil {
		return nil, err
	}

	s.logAuth(ctx, email, "request_access", domain.AuthLogSuccess, "")
	return &domain.AuthResultDTO{Success: true, Message: "activation token issued", Token: token}, nil
}

// ActivateUser consumes an activation token and creates the account
func (s *AuthService) ActivateUser(ctx context.Context, req *domain.ActivateUserRequest) (*domain.AuthResultDTO, error) {
	match, err := s.matchToken(ctx, domain.TokenTypeActivation, req.Token)
	if err != nil {
		return nil, err
	}

	if _, err := s.userRepo.GetByEmail(ctx, match.Email); err == nil {
		return nil, ErrEmailAlreadyRegistered
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	role := match.Role
	if !role.IsValid() {
		role = domain.RoleSales
	}
	user := &domain.User{
		Name:         req.Name,
		Email:        match.Email,
		PasswordHash: string(hash),
		Role:         role,
		IsActive:     true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if err := s.tokenRepo.MarkUsed(ctx, match.ID); err != nil {
		s.logger.Warn("failed to mark activation token used", zap.Error(err))
	}

	s.logAuth(ctx, match.Email, "activate", domain.AuthLogSuccess, "")
	s.logger.Info("user activated",
		zap.String("userID", user.ID.String()),
		zap.String("role", string(user.Role)),
	)

	return &domain.AuthResultDTO{Success: true, Message: "account activated"}, nil
}

// GenerateInvite creates an activation token for an email on behalf of an
// admin. Prior unused invites for the email are invalidated first.
func (s *AuthService) GenerateInvite(ctx context.Context, req *domain.GenerateInviteRequest) (*domain.AuthResultDTO, error) {
	email := normalizeEmail(req.Email)

	if err := s.tokenRepo.InvalidateByEmail(ctx, email, domain.TokenTypeActivation); err != nil {
		return nil, fmt.Errorf("failed to invalidate prior invites: %w", err)
	}

	token, err := s.issueToken(ctx, email, domain.TokenTypeActivation, req.Role, s.cfg.InviteTTL())
	if err != nil {
		return nil, err
	}

	s.logAuth(ctx, email, "generate_invite", domain.AuthLogSuccess, string(req.Role))
	return &domain.AuthResultDTO{Success: true, Message: "invite issued", Token: token}, nil
}

// RevokeInvite invalidates every pending activation token for an email
func (s *AuthService) RevokeInvite(ctx context.Context, email string) (*domain.AuthResultDTO, error) {
	email = normalizeEmail(email)

	if err := s.tokenRepo.InvalidateByEmail(ctx, email, domain.TokenTypeActivation); err != nil {
		return nil, fmt.Errorf("failed to revoke invites: %w", err)
	}

	s.logAuth(ctx, email, "revoke_invite", domain.AuthLogSuccess, "")
	return &domain.AuthResultDTO{Success: true, Message: "invites revoked"}, nil
}

// RequestReset issues a password reset token. The response does not
// reveal whether the email has an account.
func (s *AuthService) RequestReset(ctx context.Context, email string) (*domain.AuthResultDTO, error) {
	email = normalizeEmail(email)

	if _, err := s.userRepo.GetByEmail(ctx, email); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.logAuth(ctx, email, "request_reset", domain.AuthLogFailure, "unknown email")
			return &domain.AuthResultDTO{Success: true, Message: "if the account exists, a reset token was issued"}, nil
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	token, err := s.issueToken(ctx, email, domain.TokenTypeReset, "", s.cfg.ResetTTL())
	if err != nil {
		return nil, err
	}

	s.logAuth(ctx, email, "request_reset", domain.AuthLogSuccess, "")
	return &domain.AuthResultDTO{Success: true, Message: "if the account exists, a reset token was issued", Token: token}, nil
}

// ResetPassword consumes a reset token and replaces the user's password
func (s *AuthService) ResetPassword(ctx context.Context, req *domain.ResetPasswordRequest) (*domain.AuthResultDTO, error) {
	match, err := s.matchToken(ctx, domain.TokenTypeReset, req.Token)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByEmail(ctx, match.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidOrExpiredToken
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	user.PasswordHash = string(hash)

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update password: %w", err)
	}

	if err := s.tokenRepo.MarkUsed(ctx, match.ID); err != nil {
		s.logger.Warn("failed to mark reset token used", zap.Error(err))
	}

	s.logAuth(ctx, match.Email, "reset_password", domain.AuthLogSuccess, "")
	return &domain.AuthResultDTO{Success: true, Message: "password updated"}, nil
}

// issueToken stores a hashed single-use token and returns its plain value
func (s *AuthService) issueToken(ctx context.Context, email string, tokenType domain.TokenType, role domain.UserRole, ttl time.Duration) (string, error) {
	value := uuid.New().String()

	hash, err := bcrypt.GenerateFromPassword([]byte(value), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash token: %w", err)
	}

	token := &domain.AuthToken{
		Email:     email,
		TokenHash: string(hash),
		Type:      tokenType,
		Role:      role,
		ExpiresAt: time.Now().UTC().Add(ttl),
	}
	if err := s.tokenRepo.Create(ctx, token); err != nil {
		return "", fmt.Errorf("failed to store token: %w", err)
	}
	return value, nil
}

// matchToken finds the live stored token whose hash matches the plain value
func (s *AuthService) matchToken(ctx context.Context, tokenType domain.TokenType, value string) (*domain.AuthToken, error) {
	candidates, err := s.tokenRepo.ListUsableByType(ctx, tokenType)
	if err != nil {
		return nil, fmt.Errorf("failed to list tokens: %w", err)
	}

	for i := range candidates {
		if bcrypt.CompareHashAndPassword([]byte(candidates[i].TokenHash), []byte(value)) == nil {
			return &candidates[i], nil
		}
	}
	return nil, ErrInvalidOrExpiredToken
}

// logAuth records an authentication event, best-effort
func (s *AuthService) logAuth(ctx context.Context, email, action string, outcome domain.AuthLogOutcome, detail string) {
	entry := &domain.AuthLog{
		Email:   email,
		Action:  action,
		Outcome: outcome,
		Detail:  detail,
	}
	if err := s.authLogRepo.Create(ctx, entry); err != nil {
		s.logger.Warn("failed to write auth log", zap.Error(err))
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
