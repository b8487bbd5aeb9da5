package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/mudita/visita-api/internal/domain"
	"gorm.io/gorm"
)

type AuthTokenRepository struct {
	db *gorm.DB
}

func NewAuthTokenRepository(db *gorm.DB) *AuthTokenRepository {
	return &AuthTokenRepository{db: db}
}

func (r *AuthTokenRepository) Create(ctx context.Context, token *domain.AuthToken) error {
	return r.db.WithContext(ctx).Create(token).Error
}

// ListUsable returns unexpired, unused tokens of a type for an email.
// Token values are stored hashed, so callers match candidates with bcrypt.
func (r *AuthTokenRepository) ListUsable(ctx context.Context, email string, tokenType domain.TokenType) ([]domain.AuthToken, error) {
	var tokens []domain.AuthToken
	err := r.db.WithContext(ctx).
		Where("email = ? AND type = ? AND used = ? AND expires_at > CURRENT_TIMESTAMP", email, tokenType, false).
		Order("created_at DESC").
		Find(&tokens).Error
	return tokens, err
}

// ListUsableByType returns every live token of a type, for flows where
// the email is not known until the token is matched
func (r *AuthTokenRepository) ListUsableByType(ctx context.Context, tokenType domain.TokenType) ([]domain.AuthToken, error) {
	var tokens []domain.AuthToken
	err := r.db.WithContext(ctx).
		Where("type = ? AND used = ? AND expires_at > CURRENT_TIMESTAMP", tokenType, false).
		Order("created_at DESC").
		Find(&tokens).Error
	return tokens, err
}

// MarkUsed consumes a token. Single-use is enforced here.
func (r *AuthTokenRepository) MarkUsed(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&domain.AuthToken{}).
		Where("id = ?", id).
		Update("used", true).Error
}

// InvalidateByEmail marks every live token of a type for an email as used
func (r *AuthTokenRepository) InvalidateByEmail(ctx context.Context, email string, tokenType domain.TokenType) error {
	return r.db.WithContext(ctx).
		Model(&domain.AuthToken{}).
		Where("email = ? AND type = ? AND used = ?", email, tokenType, false).
		Update("used", true).Error
}
