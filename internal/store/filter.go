package store

import (
	"time"

	"github.com/taskforge-dev/taskforge/internal/types"
	"gorm.io/gorm"
)

const (
	defaultPage  = 1
	defaultLimit = 10
)

// ListOptions carries pagination and sorting shared by every list endpoint.
// Zero values fall back to page 1, limit 10, createdAt descending.
type ListOptions struct {
	Page      int
	Limit     int
	SortBy    string
	SortOrder string
}

func (o ListOptions) normalized() ListOptions {
	if o.Page < 1 {
		o.Page = defaultPage
	}
	if o.Limit < 1 {
		o.Limit = defaultLimit
	}
	return o
}

func (o ListOptions) offset() int {
	n := o.normalized()
	return (n.Page - 1) * n.Limit
}

// orderClause resolves SortBy through the entity's column map. Unknown fields
// fall back to created_at rather than being interpolated into the query.
func (o ListOptions) orderClause(columns map[string]string) string {
	column, ok := columns[o.SortBy]
	if !ok {
		column = "created_at"
	}

	if o.SortOrder == "asc" {
		return column + " ASC"
	}
	return column + " DESC"
}

type Pagination struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"totalPages"`
}

func newPagination(total int64, o ListOptions) Pagination {
	n := o.normalized()

	totalPages := int(total) / n.Limit
	if int(total)%n.Limit != 0 {
		totalPages++
	}

	return Pagination{
		Total:      total,
		Page:       n.Page,
		Limit:      n.Limit,
		TotalPages: totalPages,
	}
}

var taskSortColumns = map[string]string{
	"createdAt":      "created_at",
	"updatedAt":      "updated_at",
	"title":          "title",
	"status":         "status",
	"priority":       "priority",
	"dueDate":        "due_date",
	"estimatedHours": "estimated_hours",
	"actualHours":    "actual_hours",
}

var projectSortColumns = map[string]string{
	"createdAt": "created_at",
	"updatedAt": "updated_at",
	"name":      "name",
	"status":    "status",
	"priority":  "priority",
	"startDate": "start_date",
	"endDate":   "end_date",
}

var userSortColumns = map[string]string{
	"createdAt": "created_at",
	"updatedAt": "updated_at",
	"name":      "name",
	"email":     "email",
	"role":      "role",
}

// TaskFilter holds the optional constraints of a task list query. Absent
// fields impose no constraint.
type TaskFilter struct {
	Search            string
	Status            types.TaskStatus
	Priority          types.Priority
	AssignedTo        uint
	ProjectID         uint
	CreatedBy         uint
	EstimatedHoursMin *float64
	EstimatedHoursMax *float64
	ActualHoursMin    *float64
	ActualHoursMax    *float64
	DueDateStart      *time.Time
	DueDateEnd        *time.Time
}

func (f TaskFilter) apply(q *gorm.DB) *gorm.DB {
	q = q.Where("tasks.is_deleted = ?", false)

	if f.Search != "" {
		pattern := "%" + f.Search + "%"
		q = q.Where("(tasks.title ILIKE ? OR tasks.description ILIKE ?)", pattern, pattern)
	}

	if f.Status != "" {
		q = q.Where("tasks.status = ?", f.Status)
	}
	if f.Priority != "" {
		q = q.Where("tasks.priority = ?", f.Priority)
	}
	if f.AssignedTo != 0 {
		q = q.Where("tasks.assigned_to = ?", f.AssignedTo)
	}
	if f.ProjectID != 0 {
		q = q.Where("tasks.project_id = ?", f.ProjectID)
	}
	if f.CreatedBy != 0 {
		q = q.Where("tasks.created_by = ?", f.CreatedBy)
	}

	if f.EstimatedHoursMin != nil {
		q = q.Where("tasks.estimated_hours >= ?", *f.EstimatedHoursMin)
	}
	if f.EstimatedHoursMax != nil {
		q = q.Where("tasks.estimated_hours <= ?", *f.EstimatedHoursMax)
	}
	if f.ActualHoursMin != nil {
		q = q.Where("tasks.actual_hours >= ?", *f.ActualHoursMin)
	}
	if f.ActualHoursMax != nil {
		q = q.Where("tasks.actual_hours <= ?", *f.ActualHoursMax)
	}

	if f.DueDateStart != nil {
		q = q.Where("tasks.due_date >= ?", *f.DueDateStart)
	}
	if f.DueDateEnd != nil {
		q = q.Where("tasks.due_date <= ?", *f.DueDateEnd)
	}

	return q
}

// ProjectFilter holds the optional constraints of a project list query.
// StartDate and EndDate both bound the project's start date.
type ProjectFilter struct {
	Search      string
	Status      types.ProjectStatus
	Priority    types.Priority
	ManagerID   uint
	DeveloperID uint
	StartDate   *time.Time
	EndDate     *time.Time
}

func (f ProjectFilter) apply(q *gorm.DB) *gorm.DB {
	q = q.Where("projects.is_deleted = ?", false)

	if f.Search != "" {
		pattern := "%" + f.Search + "%"
		q = q.Where("(projects.name ILIKE ? OR projects.description ILIKE ?)", pattern, pattern)
	}

	if f.Status != "" {
		q = q.Where("projects.status = ?", f.Status)
	}
	if f.Priority != "" {
		q = q.Where("projects.priority = ?", f.Priority)
	}
	if f.ManagerID != 0 {
		q = q.Where("projects.manager_id = ?", f.ManagerID)
	}
	if f.DeveloperID != 0 {
		q = q.Joins("JOIN project_developers ON project_developers.project_id = projects.id").
			Where("project_developers.user_id = ?", f.DeveloperID)
	}

	if f.StartDate != nil {
		q = q.Where("projects.start_date >= ?", *f.StartDate)
	}
	if f.EndDate != nil {
		q = q.Where("projects.start_date <= ?", *f.EndDate)
	}

	return q
}

// UserFilter holds the optional constraints of a user list query.
type UserFilter struct {
	Search     string
	Role       types.Role
	IsVerified *bool
}

func (f UserFilter) apply(q *gorm.DB) *gorm.DB {
	q = q.Where("users.is_deleted = ?", false)

	if f.Search != "" {
		pattern := "%" + f.Search + "%"
		q = q.Where("(users.name ILIKE ? OR users.email ILIKE ?)", pattern, pattern)
	}

	if f.Role != "" {
		q = q.Where("users.role = ?", f.Role)
	}
	if f.IsVerified != nil {
		q = q.Where("users.is_verified = ?", *f.IsVerified)
	}

	return q
}
