package store

import (
	"context"
	"errors"

	"github.com/taskforge-dev/taskforge/internal/apperr"
	"github.com/taskforge-dev/taskforge/internal/models"
	"gorm.io/gorm"
)

type TaskStore struct {
	db *gorm.DB
}

func NewTaskStore(db *gorm.DB) *TaskStore {
	return &TaskStore{db: db}
}

func (s *TaskStore) List(ctx context.Context, f TaskFilter, opts ListOptions) ([]models.Task, Pagination, error) {
	base := f.apply(s.db.WithContext(ctx).Model(&models.Task{}))

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, Pagination{}, err
	}

	var tasks []models.Task
	err := base.
		Preload("Assignee").
		Preload("Creator").
		Order(opts.orderClause(taskSortColumns)).
		Offset(opts.offset()).
		Limit(opts.normalized().Limit).
		Find(&tasks).Error
	if err != nil {
		return nil, Pagination{}, err
	}

	return tasks, newPagination(total, opts), nil
}

// ListByProject returns every live task of the project, unpaginated.
func (s *TaskStore) ListByProject(ctx context.Context, projectID uint) ([]models.Task, error) {
	var tasks []models.Task

	err := s.db.WithContext(ctx).
		Where("project_id = ? AND is_deleted = ?", projectID, false).
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}

	return tasks, nil
}

func (s *TaskStore) Get(ctx context.Context, id uint) (*models.Task, error) {
	var task models.Task

	err := s.db.WithContext(ctx).
		Where("id = ? AND is_deleted = ?", id, false).
		First(&task).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFoundf("task %d", id)
		}
		return nil, err
	}

	return &task, nil
}

func (s *TaskStore) Create(ctx context.Context, task *models.Task) error {
	return s.db.WithContext(ctx).Create(task).Error
}

func (s *TaskStore) Save(ctx context.Context, task *models.Task) error {
	return s.db.WithContext(ctx).Save(task).Error
}

func (s *TaskStore) SoftDelete(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).
		Model(&models.Task{}).
		Where("id = ?", id).
		Update("is_deleted", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperr.NotFoundf("task %d", id)
	}

	return nil
}

func (s *TaskStore) HardDelete(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Delete(&models.Task{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperr.NotFoundf("task %d", id)
	}

	return nil
}
