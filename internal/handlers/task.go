package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/taskforge-dev/taskforge/internal/apperr"
	"github.com/taskforge-dev/taskforge/internal/models"
	"github.com/taskforge-dev/taskforge/internal/notify"
	"github.com/taskforge-dev/taskforge/internal/store"
	"github.com/taskforge-dev/taskforge/internal/types"
	"github.com/taskforge-dev/taskforge/internal/utils"
	"go.uber.org/zap"
)

type CreateTaskRequest struct {
	Title          string     `json:"title" binding:"required"`
	Description    string     `json:"description"`
	Priority       string     `json:"priority"`
	ProjectID      uint       `json:"projectId" binding:"required"`
	AssignedTo     uint       `json:"assignedTo" binding:"required"`
	EstimatedHours float64    `json:"estimatedHours"`
	DueDate        *time.Time `json:"dueDate"`
}

// UpdateTaskRequest enumerates the mutable task fields. The project and
// creator of a task are fixed at creation time.
type UpdateTaskRequest struct {
	Title          *string    `json:"title"`
	Description    *string    `json:"description"`
	Status         *string    `json:"status"`
	Priority       *string    `json:"priority"`
	AssignedTo     *uint      `json:"assignedTo"`
	EstimatedHours *float64   `json:"estimatedHours"`
	ActualHours    *float64   `json:"actualHours"`
	DueDate        *time.Time `json:"dueDate"`
}

type UpdateTaskStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type AssignTaskRequest struct {
	AssignedTo uint `json:"assignedTo" binding:"required"`
}

// buildTask maps a creation request onto a fresh task record. New tasks
// always start in the todo column with no hours logged, whatever the
// caller sent.
func buildTask(body CreateTaskRequest, createdBy uint, now time.Time) (models.Task, error) {
	priority := types.PriorityMedium
	if body.Priority != "" {
		priority = types.Priority(body.Priority)
		if !priority.Valid() {
			return models.Task{}, apperr.Validationf("invalid priority %q", body.Priority)
		}
	}

	if body.DueDate != nil && body.DueDate.Before(now) {
		return models.Task{}, apperr.Validationf("due date cannot be in the past")
	}

	return models.Task{
		Title:          body.Title,
		Description:    body.Description,
		Status:         types.TaskTodo,
		Priority:       priority,
		ProjectID:      body.ProjectID,
		AssignedTo:     body.AssignedTo,
		CreatedBy:      createdBy,
		EstimatedHours: body.EstimatedHours,
		ActualHours:    0,
		DueDate:        body.DueDate,
	}, nil
}

func (h *Handler) ListTasks(ctx *gin.Context) {
	filter := store.TaskFilter{
		Search:            ctx.Query("search"),
		Status:            types.TaskStatus(ctx.Query("status")),
		Priority:          types.Priority(ctx.Query("priority")),
		AssignedTo:        queryUint(ctx, "assignedTo"),
		ProjectID:         queryUint(ctx, "projectId"),
		CreatedBy:         queryUint(ctx, "createdBy"),
		EstimatedHoursMin: queryFloat(ctx, "estimatedHoursMin"),
		EstimatedHoursMax: queryFloat(ctx, "estimatedHoursMax"),
		ActualHoursMin:    queryFloat(ctx, "actualHoursMin"),
		ActualHoursMax:    queryFloat(ctx, "actualHoursMax"),
		DueDateStart:      queryTime(ctx, "dueDateStart"),
		DueDateEnd:        queryTime(ctx, "dueDateEnd"),
	}

	tasks, pagination, err := h.store.Tasks.List(ctx.Request.Context(), filter, parseListOptions(ctx))
	if err != nil {
		h.fail(ctx, err, "failed to list tasks")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"data":       tasks,
		"pagination": pagination,
	})
}

func (h *Handler) GetTask(ctx *gin.Context) {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		h.fail(ctx, err, "")
		return
	}

	task, err := h.store.Tasks.Get(ctx.Request.Context(), id)
	if err != nil {
		h.fail(ctx, err, "failed to fetch task")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"data": task})
}

func (h *Handler) CreateTask(ctx *gin.Context) {
	var body CreateTaskRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	currentUser, err := utils.GetCurrentUser(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	if _, err := h.store.Projects.Get(ctx.Request.Context(), body.ProjectID); err != nil {
		h.fail(ctx, err, "failed to resolve project")
		return
	}
	if _, err := h.store.Users.Get(ctx.Request.Context(), body.AssignedTo); err != nil {
		h.fail(ctx, err, "failed to resolve assignee")
		return
	}

	task, err := buildTask(body, currentUser.ID, time.Now())
	if err != nil {
		h.fail(ctx, err, "")
		return
	}

	if err := h.store.Tasks.Create(ctx.Request.Context(), &task); err != nil {
		h.fail(ctx, err, "failed to create task")
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"data": task})
}

func (h *Handler) UpdateTask(ctx *gin.Context) {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		h.fail(ctx, err, "")
		return
	}

	var body UpdateTaskRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	task, err := h.store.Tasks.Get(ctx.Request.Context(), id)
	if err != nil {
		h.fail(ctx, err, "failed to fetch task")
		return
	}

	if body.Title != nil {
		task.Title = *body.Title
	}
	if body.Description != nil {
		task.Description = *body.Description
	}
	if body.Status != nil {
		status := types.TaskStatus(*body.Status)
		if !status.Valid() {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
			return
		}
		task.Status = status
	}
	if body.Priority != nil {
		priority := types.Priority(*body.Priority)
		if !priority.Valid() {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid priority"})
			return
		}
		task.Priority = priority
	}
	if body.AssignedTo != nil {
		if _, err := h.store.Users.Get(ctx.Request.Context(), *body.AssignedTo); err != nil {
			h.fail(ctx, err, "failed to resolve assignee")
			return
		}
		task.AssignedTo = *body.AssignedTo
	}
	if body.EstimatedHours != nil {
		task.EstimatedHours = *body.EstimatedHours
	}
	if body.ActualHours != nil {
		task.ActualHours = *body.ActualHours
	}
	if body.DueDate != nil {
		task.DueDate = body.DueDate
	}

	if err := h.store.Tasks.Save(ctx.Request.Context(), task); err != nil {
		h.fail(ctx, err, "failed to update task")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"data": task})
}

// UpdateTaskStatus moves a task between columns and tells the project team.
func (h *Handler) UpdateTaskStatus(ctx *gin.Context) {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		h.fail(ctx, err, "")
		return
	}

	var body UpdateTaskStatusRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	status := types.TaskStatus(body.Status)
	if !status.Valid() {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
		return
	}

	task, err := h.store.Tasks.Get(ctx.Request.Context(), id)
	if err != nil {
		h.fail(ctx, err, "failed to fetch task")
		return
	}

	oldStatus := task.Status
	task.Status = status

	if err := h.store.Tasks.Save(ctx.Request.Context(), task); err != nil {
		h.fail(ctx, err, "failed to update task status")
		return
	}

	taskID := task.ID
	projectID := task.ProjectID
	if err := h.dispatcher.NotifyProjectTeam(ctx.Request.Context(), projectID, notify.Payload{
		Type:           types.NotificationTaskUpdated,
		Message:        fmt.Sprintf("Task %q changed from %s to %s", task.Title, oldStatus, status),
		RelatedTask:    &taskID,
		RelatedProject: &projectID,
		Metadata: map[string]any{
			"oldStatus": oldStatus,
			"newStatus": status,
		},
	}); err != nil {
		h.logger.Warn("failed to notify project team", zap.Uint("task_id", taskID), zap.Error(err))
	}

	ctx.JSON(http.StatusOK, gin.H{"data": task})
}

// AssignTask hands a task to another user and notifies only that user.
func (h *Handler) AssignTask(ctx *gin.Context) {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		h.fail(ctx, err, "")
		return
	}

	var body AssignTaskRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	task, err := h.store.Tasks.Get(ctx.Request.Context(), id)
	if err != nil {
		h.fail(ctx, err, "failed to fetch task")
		return
	}

	assignee, err := h.store.Users.Get(ctx.Request.Context(), body.AssignedTo)
	if err != nil {
		h.fail(ctx, err, "failed to resolve assignee")
		return
	}

	task.AssignedTo = assignee.ID

	if err := h.store.Tasks.Save(ctx.Request.Context(), task); err != nil {
		h.fail(ctx, err, "failed to assign task")
		return
	}

	taskID := task.ID
	projectID := task.ProjectID
	if err := h.dispatcher.NotifyUser(ctx.Request.Context(), assignee.ID, notify.Payload{
		Type:           types.NotificationTaskAssigned,
		Message:        fmt.Sprintf("You have been assigned the task %q", task.Title),
		RelatedTask:    &taskID,
		RelatedProject: &projectID,
	}); err != nil {
		h.logger.Warn("failed to notify assignee", zap.Uint("task_id", taskID), zap.Error(err))
	}

	ctx.JSON(http.StatusOK, gin.H{"data": task})
}

func (h *Handler) DeleteTask(ctx *gin.Context) {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		h.fail(ctx, err, "")
		return
	}

	mode := types.DeleteMode(ctx.DefaultQuery("type", string(types.DeleteSoft)))
	if !mode.Valid() {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": `delete type must be "soft" or "hard"`})
		return
	}

	if _, err := h.store.Tasks.Get(ctx.Request.Context(), id); err != nil {
		h.fail(ctx, err, "failed to fetch task")
		return
	}

	if mode == types.DeleteHard {
		err = h.store.Tasks.HardDelete(ctx.Request.Context(), id)
	} else {
		err = h.store.Tasks.SoftDelete(ctx.Request.Context(), id)
	}
	if err != nil {
		h.fail(ctx, err, "failed to delete task")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Task deleted", "method": mode})
}
