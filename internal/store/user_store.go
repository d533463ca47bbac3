package store

import (
	"context"
	"errors"

	"github.com/taskforge-dev/taskforge/internal/apperr"
	"github.com/taskforge-dev/taskforge/internal/models"
	"github.com/taskforge-dev/taskforge/internal/types"
	"gorm.io/gorm"
)

type UserStore struct {
	db *gorm.DB
}

func NewUserStore(db *gorm.DB) *UserStore {
	return &UserStore{db: db}
}

func (s *UserStore) List(ctx context.Context, f UserFilter, opts ListOptions) ([]models.User, Pagination, error) {
	base := f.apply(s.db.WithContext(ctx).Model(&models.User{}))

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, Pagination{}, err
	}

	var users []models.User
	err := base.
		Order(opts.orderClause(userSortColumns)).
		Offset(opts.offset()).
		Limit(opts.normalized().Limit).
		Find(&users).Error
	if err != nil {
		return nil, Pagination{}, err
	}

	return users, newPagination(total, opts), nil
}

// Get resolves a live user; soft-deleted rows are treated as missing.
func (s *UserStore) Get(ctx context.Context, id uint) (*models.User, error) {
	var user models.User

	err := s.db.WithContext(ctx).
		Where("id = ? AND is_deleted = ?", id, false).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFoundf("user %d", id)
		}
		return nil, err
	}

	return &user, nil
}

// GetByEmail resolves a live user by email, independent of verification state.
func (s *UserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User

	err := s.db.WithContext(ctx).
		Where("email = ? AND is_deleted = ?", email, false).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFoundf("user %q", email)
		}
		return nil, err
	}

	return &user, nil
}

func (s *UserStore) EmailTaken(ctx context.Context, email string) (bool, error) {
	var count int64

	err := s.db.WithContext(ctx).
		Model(&models.User{}).
		Where("email = ?", email).
		Count(&count).Error
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

func (s *UserStore) Create(ctx context.Context, user *models.User) error {
	return s.db.WithContext(ctx).Create(user).Error
}

func (s *UserStore) Save(ctx context.Context, user *models.User) error {
	return s.db.WithContext(ctx).Save(user).Error
}

// ListAdmins returns every live admin, for system-alert fan-out.
func (s *UserStore) ListAdmins(ctx context.Context) ([]models.User, error) {
	var admins []models.User

	err := s.db.WithContext(ctx).
		Where("role = ? AND is_deleted = ?", types.RoleAdmin, false).
		Find(&admins).Error
	if err != nil {
		return nil, err
	}

	return admins, nil
}

func (s *UserStore) SoftDelete(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Update("is_deleted", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperr.NotFoundf("user %d", id)
	}

	return nil
}

// HardDelete physically removes the user, the tasks they were assigned or
// created, and their membership in project developer lists, in one
// transaction.
func (s *UserStore) HardDelete(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("assigned_to = ? OR created_by = ?", id, id).
			Delete(&models.Task{}).Error; err != nil {
			return err
		}

		if err := tx.Exec("DELETE FROM project_developers WHERE user_id = ?", id).Error; err != nil {
			return err
		}

		result := tx.Delete(&models.User{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return apperr.NotFoundf("user %d", id)
		}

		return nil
	})
}
