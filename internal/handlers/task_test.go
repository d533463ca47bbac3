package handlers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskforge-dev/taskforge/internal/apperr"
	"github.com/taskforge-dev/taskforge/internal/types"
)

func TestBuildTaskForcesInitialState(t *testing.T) {
	now := time.Now()
	due := now.Add(48 * time.Hour)

	task, err := buildTask(CreateTaskRequest{
		Title:          "Write release notes",
		ProjectID:      3,
		AssignedTo:     7,
		EstimatedHours: 4,
		DueDate:        &due,
	}, 12, now)

	require.NoError(t, err)
	assert.Equal(t, types.TaskTodo, task.Status)
	assert.Equal(t, float64(0), task.ActualHours)
	assert.Equal(t, types.PriorityMedium, task.Priority)
	assert.Equal(t, uint(12), task.CreatedBy)
	assert.Equal(t, uint(3), task.ProjectID)
	assert.Equal(t, uint(7), task.AssignedTo)
}

func TestBuildTaskRejectsPastDueDate(t *testing.T) {
	now := time.Now()
	due := now.Add(-time.Hour)

	_, err := buildTask(CreateTaskRequest{
		Title:      "Late task",
		ProjectID:  3,
		AssignedTo: 7,
		DueDate:    &due,
	}, 12, now)

	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestBuildTaskRejectsUnknownPriority(t *testing.T) {
	_, err := buildTask(CreateTaskRequest{
		Title:      "Task",
		Priority:   "urgent",
		ProjectID:  3,
		AssignedTo: 7,
	}, 12, time.Now())

	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestBuildTaskAllowsMissingDueDate(t *testing.T) {
	task, err := buildTask(CreateTaskRequest{
		Title:      "Open ended",
		Priority:   "high",
		ProjectID:  3,
		AssignedTo: 7,
	}, 12, time.Now())

	require.NoError(t, err)
	assert.Nil(t, task.DueDate)
	assert.Equal(t, types.PriorityHigh, task.Priority)
}
