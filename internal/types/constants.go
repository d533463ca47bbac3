package types

const ContextUserKey = "user"

// Role determines visibility and authorization scope for every request.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleManager   Role = "manager"
	RoleDeveloper Role = "developer"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleDeveloper:
		return true
	}
	return false
}

type ProjectStatus string

const (
	ProjectPlanning   ProjectStatus = "planning"
	ProjectInProgress ProjectStatus = "in_progress"
	ProjectCompleted  ProjectStatus = "completed"
	ProjectCancelled  ProjectStatus = "cancelled"
)

// ProjectStatuses is the canonical ordering used by metric reports.
var ProjectStatuses = []ProjectStatus{
	ProjectPlanning,
	ProjectInProgress,
	ProjectCompleted,
	ProjectCancelled,
}

func (s ProjectStatus) Valid() bool {
	switch s {
	case ProjectPlanning, ProjectInProgress, ProjectCompleted, ProjectCancelled:
		return true
	}
	return false
}

type TaskStatus string

const (
	TaskTodo       TaskStatus = "todo"
	TaskInProgress TaskStatus = "in_progress"
	TaskReview     TaskStatus = "review"
	TaskDone       TaskStatus = "done"
)

var TaskStatuses = []TaskStatus{
	TaskTodo,
	TaskInProgress,
	TaskReview,
	TaskDone,
}

func (s TaskStatus) Valid() bool {
	switch s {
	case TaskTodo, TaskInProgress, TaskReview, TaskDone:
		return true
	}
	return false
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

var Priorities = []Priority{
	PriorityLow,
	PriorityMedium,
	PriorityHigh,
}

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

type NotificationType string

const (
	NotificationTaskAssigned   NotificationType = "TASK_ASSIGNED"
	NotificationTaskUpdated    NotificationType = "TASK_UPDATED"
	NotificationProjectUpdated NotificationType = "PROJECT_UPDATED"
	NotificationSystemAlert    NotificationType = "SYSTEM_ALERT"
)

// DeleteMode selects between flagging a record and physically removing it.
type DeleteMode string

const (
	DeleteSoft DeleteMode = "soft"
	DeleteHard DeleteMode = "hard"
)

func (m DeleteMode) Valid() bool {
	return m == DeleteSoft || m == DeleteHard
}
