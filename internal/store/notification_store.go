package store

import (
	"context"

	"github.com/taskforge-dev/taskforge/internal/apperr"
	"github.com/taskforge-dev/taskforge/internal/models"
	"gorm.io/gorm"
)

type NotificationStore struct {
	db *gorm.DB
}

func NewNotificationStore(db *gorm.DB) *NotificationStore {
	return &NotificationStore{db: db}
}

func (s *NotificationStore) Create(ctx context.Context, n *models.Notification) error {
	return s.db.WithContext(ctx).Create(n).Error
}

// CreateBatch persists one notification row per recipient in a single insert.
func (s *NotificationStore) CreateBatch(ctx context.Context, ns []models.Notification) error {
	if len(ns) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Create(&ns).Error
}

// ListUnread returns the user's unread notifications, newest first.
func (s *NotificationStore) ListUnread(ctx context.Context, userID uint) ([]models.Notification, error) {
	var notifications []models.Notification

	err := s.db.WithContext(ctx).
		Where("user_id = ? AND is_read = ?", userID, false).
		Order("created_at DESC").
		Find(&notifications).Error
	if err != nil {
		return nil, err
	}

	return notifications, nil
}

// MarkRead flags the notification as read, but only for its own recipient.
func (s *NotificationStore) MarkRead(ctx context.Context, id, userID uint) error {
	result := s.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("is_read", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperr.NotFoundf("notification %d", id)
	}

	return nil
}
