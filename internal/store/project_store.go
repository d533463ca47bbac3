package store

import (
	"context"
	"errors"

	"github.com/taskforge-dev/taskforge/internal/apperr"
	"github.com/taskforge-dev/taskforge/internal/models"
	"gorm.io/gorm"
)

type ProjectStore struct {
	db *gorm.DB
}

func NewProjectStore(db *gorm.DB) *ProjectStore {
	return &ProjectStore{db: db}
}

func (s *ProjectStore) List(ctx context.Context, f ProjectFilter, opts ListOptions) ([]models.Project, Pagination, error) {
	base := f.apply(s.db.WithContext(ctx).Model(&models.Project{}))

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, Pagination{}, err
	}

	var projects []models.Project
	err := base.
		Order(opts.orderClause(projectSortColumns)).
		Offset(opts.offset()).
		Limit(opts.normalized().Limit).
		Find(&projects).Error
	if err != nil {
		return nil, Pagination{}, err
	}

	return projects, newPagination(total, opts), nil
}

// Get resolves a live project with its developer list loaded, so callers see
// the membership as of this lookup.
func (s *ProjectStore) Get(ctx context.Context, id uint) (*models.Project, error) {
	var project models.Project

	err := s.db.WithContext(ctx).
		Preload("Developers").
		Where("id = ? AND is_deleted = ?", id, false).
		First(&project).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFoundf("project %d", id)
		}
		return nil, err
	}

	return &project, nil
}

func (s *ProjectStore) Create(ctx context.Context, project *models.Project) error {
	return s.db.WithContext(ctx).Create(project).Error
}

func (s *ProjectStore) Save(ctx context.Context, project *models.Project) error {
	return s.db.WithContext(ctx).Save(project).Error
}

// ReplaceDevelopers swaps the project's developer list for the given users.
func (s *ProjectStore) ReplaceDevelopers(ctx context.Context, project *models.Project, developers []models.User) error {
	return s.db.WithContext(ctx).
		Model(project).
		Association("Developers").
		Replace(developers)
}

func (s *ProjectStore) SoftDelete(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).
		Model(&models.Project{}).
		Where("id = ?", id).
		Update("is_deleted", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperr.NotFoundf("project %d", id)
	}

	return nil
}

// HardDelete physically removes the project, its tasks and its developer
// membership rows in one transaction.
func (s *ProjectStore) HardDelete(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", id).Delete(&models.Task{}).Error; err != nil {
			return err
		}

		if err := tx.Exec("DELETE FROM project_developers WHERE project_id = ?", id).Error; err != nil {
			return err
		}

		result := tx.Delete(&models.Project{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return apperr.NotFoundf("project %d", id)
		}

		return nil
	})
}

// ManagedProjectIDs lists the ids of live projects managed by the given user.
func (s *ProjectStore) ManagedProjectIDs(ctx context.Context, managerID uint) ([]uint, error) {
	var ids []uint

	err := s.db.WithContext(ctx).
		Model(&models.Project{}).
		Where("manager_id = ? AND is_deleted = ?", managerID, false).
		Pluck("id", &ids).Error
	if err != nil {
		return nil, err
	}

	return ids, nil
}
