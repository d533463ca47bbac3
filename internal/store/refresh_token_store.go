package store

import (
	"context"
	"errors"
	"time"

	"github.com/taskforge-dev/taskforge/internal/apperr"
	"github.com/taskforge-dev/taskforge/internal/models"
	"gorm.io/gorm"
)

type RefreshTokenStore struct {
	db *gorm.DB
}

func NewRefreshTokenStore(db *gorm.DB) *RefreshTokenStore {
	return &RefreshTokenStore{db: db}
}

func (s *RefreshTokenStore) Create(ctx context.Context, token *models.RefreshToken) error {
	return s.db.WithContext(ctx).Create(token).Error
}

// Get resolves an unexpired refresh token by value.
func (s *RefreshTokenStore) Get(ctx context.Context, value string) (*models.RefreshToken, error) {
	var token models.RefreshToken

	err := s.db.WithContext(ctx).
		Where("token = ? AND expires_at > ?", value, time.Now()).
		First(&token).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFoundf("refresh token")
		}
		return nil, err
	}

	return &token, nil
}

func (s *RefreshTokenStore) Delete(ctx context.Context, value string) error {
	return s.db.WithContext(ctx).
		Where("token = ?", value).
		Delete(&models.RefreshToken{}).Error
}

// DeleteForUser revokes every refresh token issued to the user.
func (s *RefreshTokenStore) DeleteForUser(ctx context.Context, userID uint) error {
	return s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&models.RefreshToken{}).Error
}
