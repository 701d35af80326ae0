package repository

import (
	"context"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/invest-marketplace/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/invest-marketplace/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm/clause"
)

func (s *GormStore) CreateUser(ctx context.Context, user *models.User) error {
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	return translate(s.db.WithContext(ctx).Create(user).Error, "user")
}

func (s *GormStore) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, translate(err, "user")
	}
	return &user, nil
}

func (s *GormStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&user).Error
	if err != nil {
		return nil, translate(err, "user")
	}
	return &user, nil
}

func (s *GormStore) UpdateUserName(ctx context.Context, id uuid.UUID, fullName string) (*models.User, error) {
	var user models.User
	result := s.db.WithContext(ctx).Model(&user).
		Clauses(clause.Returning{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"full_name":  fullName,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return nil, translate(result.Error, "user")
	}
	if result.RowsAffected == 0 {
		return nil, apperr.NotFound("user not found")
	}
	return &user, nil
}

func (s *GormStore) CreateRefreshToken(ctx context.Context, token *models.RefreshToken) error {
	return translate(s.db.WithContext(ctx).Create(token).Error, "refresh token")
}

func (s *GormStore) ConsumeRefreshToken(ctx context.Context, tokenHash string, now time.Time) (*models.RefreshToken, error) {
	var token models.RefreshToken
	result := s.db.WithContext(ctx).Model(&token).
		Clauses(clause.Returning{}).
		Where("token_hash = ? AND revoked = false AND expires_at > ?", tokenHash, now).
		Update("revoked", true)
	if result.Error != nil {
		return nil, translate(result.Error, "refresh token")
	}
	if result.RowsAffected == 0 {
		return nil, apperr.NotFound("refresh token not found")
	}
	return &token, nil
}

func (s *GormStore) RevokeRefreshToken(ctx context.Context, tokenHash string) error {
	return translate(s.db.WithContext(ctx).
		Model(&models.RefreshToken{}).
		Where("token_hash = ?", tokenHash).
		Update("revoked", true).Error, "refresh token")
}
