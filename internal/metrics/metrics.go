// Package metrics computes the fixed-shape dashboard and project reports.
// Reports always contain one entry per canonical status/priority, no matter
// how sparse the underlying data is, and every query excludes soft-deleted
// rows.
package metrics

import (
	"context"
	"math"
	"time"

	"github.com/taskforge-dev/taskforge/internal/models"
	"github.com/taskforge-dev/taskforge/internal/types"
	"gorm.io/gorm"
)

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

type StatusCount struct {
	Status string `gorm:"column:status" json:"status"`
	Count  int64  `gorm:"column:count" json:"count"`
}

type PriorityCount struct {
	Priority string `gorm:"column:priority" json:"priority"`
	Count    int64  `gorm:"column:count" json:"count"`
}

type HoursComparison struct {
	Estimated float64 `gorm:"column:estimated" json:"estimated"`
	Actual    float64 `gorm:"column:actual" json:"actual"`
}

type ProjectHoursComparison struct {
	Estimated  float64 `json:"estimated"`
	Actual     float64 `json:"actual"`
	Difference float64 `json:"difference"`
}

type UserStats struct {
	TotalTasks     int64 `gorm:"column:total_tasks" json:"totalTasks"`
	CompletedTasks int64 `gorm:"column:completed_tasks" json:"completedTasks"`
	OverdueTasks   int64 `gorm:"column:overdue_tasks" json:"overdueTasks"`
	CompletionRate int   `gorm:"-" json:"completionRate"`
}

type TeamMemberStats struct {
	UserID         uint   `gorm:"column:user_id" json:"userId"`
	Name           string `gorm:"column:name" json:"name"`
	Avatar         string `gorm:"column:avatar" json:"avatar"`
	TotalTasks     int64  `gorm:"column:total_tasks" json:"totalTasks"`
	CompletedTasks int64  `gorm:"column:completed_tasks" json:"completedTasks"`
	OverdueTasks   int64  `gorm:"column:overdue_tasks" json:"overdueTasks"`
	CompletionRate int    `gorm:"-" json:"completionRate"`
}

type DashboardReport struct {
	ProjectsByStatus []StatusCount   `json:"projectsByStatus"`
	TasksByStatus    []StatusCount   `json:"tasksByStatus"`
	TasksByPriority  []PriorityCount `json:"tasksByPriority"`
	HoursComparison  HoursComparison `json:"hoursComparison"`
	OverdueTasks     int64           `json:"overdueTasks"`
	UserStats        *UserStats      `json:"userStats"`
}

type ProjectReport struct {
	TasksByStatus   []StatusCount          `json:"tasksByStatus"`
	TasksByPriority []PriorityCount        `json:"tasksByPriority"`
	HoursComparison ProjectHoursComparison `json:"hoursComparison"`
	OverdueTasks    int64                  `json:"overdueTasks"`
	TeamPerformance []TeamMemberStats      `json:"teamPerformance"`
}

// Entity selects the canonical status list a report is shaped against.
type Entity string

const (
	EntityProjects Entity = "projects"
	EntityTasks    Entity = "tasks"
)

// FormatStatusData returns one entry per canonical status for the entity
// kind, in canonical order. Missing statuses count 0; unknown statuses in the
// input are ignored.
func FormatStatusData(rows []StatusCount, kind Entity) []StatusCount {
	var canonical []string
	if kind == EntityProjects {
		for _, s := range types.ProjectStatuses {
			canonical = append(canonical, string(s))
		}
	} else {
		for _, s := range types.TaskStatuses {
			canonical = append(canonical, string(s))
		}
	}

	result := make([]StatusCount, len(canonical))
	for i, status := range canonical {
		result[i] = StatusCount{Status: status}
	}

	for _, row := range rows {
		for i := range result {
			if result[i].Status == row.Status {
				result[i].Count = row.Count
			}
		}
	}

	return result
}

// FormatPriorityData returns one entry per canonical priority in canonical
// order, count 0 when absent.
func FormatPriorityData(rows []PriorityCount) []PriorityCount {
	result := make([]PriorityCount, len(types.Priorities))
	for i, p := range types.Priorities {
		result[i] = PriorityCount{Priority: string(p)}
	}

	for _, row := range rows {
		for i := range result {
			if result[i].Priority == row.Priority {
				result[i].Count = row.Count
			}
		}
	}

	return result
}

// CompletionRate is round(completed/total*100), 0 when total is 0. The same
// rule applies to dashboard user stats and project team performance.
func CompletionRate(completed, total int64) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(completed) / float64(total) * 100))
}

// Dashboard builds the role-scoped dashboard report. Admins see everything,
// managers the tasks of projects they manage, developers their own
// assignments plus a personal stats block.
func (s *Service) Dashboard(ctx context.Context, userID uint, role types.Role) (*DashboardReport, error) {
	tasks := s.scopedTasks(ctx, userID, role)

	projectsByStatus, err := s.projectsByStatus(ctx, userID, role)
	if err != nil {
		return nil, err
	}

	var tasksByStatus []StatusCount
	if err := tasks().
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&tasksByStatus).Error; err != nil {
		return nil, err
	}

	var tasksByPriority []PriorityCount
	if err := tasks().
		Select("priority, COUNT(*) AS count").
		Group("priority").
		Scan(&tasksByPriority).Error; err != nil {
		return nil, err
	}

	var hours HoursComparison
	if err := tasks().
		Select("COALESCE(SUM(estimated_hours), 0) AS estimated, COALESCE(SUM(actual_hours), 0) AS actual").
		Scan(&hours).Error; err != nil {
		return nil, err
	}

	overdue, err := s.overdueCount(tasks())
	if err != nil {
		return nil, err
	}

	report := &DashboardReport{
		ProjectsByStatus: FormatStatusData(projectsByStatus, EntityProjects),
		TasksByStatus:    FormatStatusData(tasksByStatus, EntityTasks),
		TasksByPriority:  FormatPriorityData(tasksByPriority),
		HoursComparison:  hours,
		OverdueTasks:     overdue,
	}

	if role == types.RoleDeveloper {
		stats, err := s.userStats(ctx, userID)
		if err != nil {
			return nil, err
		}
		report.UserStats = stats
	}

	return report, nil
}

// ProjectMetrics builds the project-level report. Access is the caller's
// concern; no role filter applies here.
func (s *Service) ProjectMetrics(ctx context.Context, projectID uint) (*ProjectReport, error) {
	tasks := func() *gorm.DB {
		return s.db.WithContext(ctx).
			Model(&models.Task{}).
			Where("project_id = ? AND is_deleted = ?", projectID, false)
	}

	var byStatus []StatusCount
	if err := tasks().
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&byStatus).Error; err != nil {
		return nil, err
	}

	var byPriority []PriorityCount
	if err := tasks().
		Select("priority, COUNT(*) AS count").
		Group("priority").
		Scan(&byPriority).Error; err != nil {
		return nil, err
	}

	var hours HoursComparison
	if err := tasks().
		Select("COALESCE(SUM(estimated_hours), 0) AS estimated, COALESCE(SUM(actual_hours), 0) AS actual").
		Scan(&hours).Error; err != nil {
		return nil, err
	}

	overdue, err := s.overdueCount(tasks())
	if err != nil {
		return nil, err
	}

	team, err := s.teamPerformance(ctx, projectID)
	if err != nil {
		return nil, err
	}

	return &ProjectReport{
		TasksByStatus:   FormatStatusData(byStatus, EntityTasks),
		TasksByPriority: FormatPriorityData(byPriority),
		HoursComparison: ProjectHoursComparison{
			Estimated:  hours.Estimated,
			Actual:     hours.Actual,
			Difference: hours.Estimated - hours.Actual,
		},
		OverdueTasks:    overdue,
		TeamPerformance: team,
	}, nil
}

// scopedTasks returns a fresh task query restricted by the caller's role.
func (s *Service) scopedTasks(ctx context.Context, userID uint, role types.Role) func() *gorm.DB {
	return func() *gorm.DB {
		q := s.db.WithContext(ctx).
			Model(&models.Task{}).
			Where("tasks.is_deleted = ?", false)

		switch role {
		case types.RoleAdmin:
			return q
		case types.RoleManager:
			managed := s.db.Model(&models.Project{}).
				Select("id").
				Where("manager_id = ? AND is_deleted = ?", userID, false)
			return q.Where("tasks.project_id IN (?)", managed)
		case types.RoleDeveloper:
			return q.Where("tasks.assigned_to = ?", userID)
		default:
			// Unknown roles see nothing.
			return q.Where("1 = 0")
		}
	}
}

func (s *Service) projectsByStatus(ctx context.Context, userID uint, role types.Role) ([]StatusCount, error) {
	q := s.db.WithContext(ctx).
		Model(&models.Project{}).
		Where("projects.is_deleted = ?", false)

	switch role {
	case types.RoleAdmin:
	case types.RoleManager:
		q = q.Where("projects.manager_id = ?", userID)
	case types.RoleDeveloper:
		q = q.Joins("JOIN project_developers ON project_developers.project_id = projects.id").
			Where("project_developers.user_id = ?", userID)
	default:
		q = q.Where("1 = 0")
	}

	var rows []StatusCount
	if err := q.
		Select("projects.status, COUNT(*) AS count").
		Group("projects.status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	return rows, nil
}

// overdueCount counts tasks past their due date that are neither done nor
// cancelled. Tasks without a due date never count.
func (s *Service) overdueCount(q *gorm.DB) (int64, error) {
	var count int64

	err := q.
		Where("tasks.due_date IS NOT NULL AND tasks.due_date < ?", time.Now()).
		Where("tasks.status NOT IN ?", []string{"done", "cancelled"}).
		Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}

func (s *Service) userStats(ctx context.Context, userID uint) (*UserStats, error) {
	var stats UserStats

	err := s.db.WithContext(ctx).
		Model(&models.Task{}).
		Select(`COUNT(*) AS total_tasks,
			COALESCE(SUM(CASE WHEN status = 'done' THEN 1 ELSE 0 END), 0) AS completed_tasks,
			COALESCE(SUM(CASE WHEN due_date IS NOT NULL AND due_date < ? AND status NOT IN ('done', 'cancelled') THEN 1 ELSE 0 END), 0) AS overdue_tasks`,
			time.Now()).
		Where("assigned_to = ? AND is_deleted = ?", userID, false).
		Scan(&stats).Error
	if err != nil {
		return nil, err
	}

	stats.CompletionRate = CompletionRate(stats.CompletedTasks, stats.TotalTasks)
	return &stats, nil
}

// teamPerformance groups the project's live tasks by assignee, one row per
// distinct assignee.
func (s *Service) teamPerformance(ctx context.Context, projectID uint) ([]TeamMemberStats, error) {
	var rows []TeamMemberStats

	err := s.db.WithContext(ctx).
		Model(&models.Task{}).
		Select(`tasks.assigned_to AS user_id, users.name AS name, users.avatar AS avatar,
			COUNT(*) AS total_tasks,
			COALESCE(SUM(CASE WHEN tasks.status = 'done' THEN 1 ELSE 0 END), 0) AS completed_tasks,
			COALESCE(SUM(CASE WHEN tasks.due_date IS NOT NULL AND tasks.due_date < ? AND tasks.status NOT IN ('done', 'cancelled') THEN 1 ELSE 0 END), 0) AS overdue_tasks`,
			time.Now()).
		Joins("JOIN users ON users.id = tasks.assigned_to").
		Where("tasks.project_id = ? AND tasks.is_deleted = ?", projectID, false).
		Group("tasks.assigned_to, users.name, users.avatar").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for i := range rows {
		rows[i].CompletionRate = CompletionRate(rows[i].CompletedTasks, rows[i].TotalTasks)
	}

	return rows, nil
}
