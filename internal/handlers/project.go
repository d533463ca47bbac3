package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/taskforge-dev/taskforge/internal/models"
	"github.com/taskforge-dev/taskforge/internal/notify"
	"github.com/taskforge-dev/taskforge/internal/store"
	"github.com/taskforge-dev/taskforge/internal/types"
	"github.com/taskforge-dev/taskforge/internal/utils"
	"go.uber.org/zap"
)

type CreateProjectRequest struct {
	Name         string     `json:"name" binding:"required"`
	Description  string     `json:"description"`
	Status       string     `json:"status"`
	Priority     string     `json:"priority"`
	StartDate    *time.Time `json:"startDate"`
	EndDate      *time.Time `json:"endDate"`
	ManagerID    uint       `json:"managerId"`
	DeveloperIDs []uint     `json:"developerIds"`
}

// UpdateProjectRequest enumerates the mutable project fields.
type UpdateProjectRequest struct {
	Name         *string    `json:"name"`
	Description  *string    `json:"description"`
	Status       *string    `json:"status"`
	Priority     *string    `json:"priority"`
	StartDate    *time.Time `json:"startDate"`
	EndDate      *time.Time `json:"endDate"`
	ManagerID    *uint      `json:"managerId"`
	DeveloperIDs *[]uint    `json:"developerIds"`
}

type UpdateDeadlineRequest struct {
	EndDate time.Time `json:"endDate" binding:"required"`
}

func (h *Handler) ListProjects(ctx *gin.Context) {
	filter := store.ProjectFilter{
		Search:      ctx.Query("search"),
		Status:      types.ProjectStatus(ctx.Query("status")),
		Priority:    types.Priority(ctx.Query("priority")),
		ManagerID:   queryUint(ctx, "managerId"),
		DeveloperID: queryUint(ctx, "developerId"),
		StartDate:   queryTime(ctx, "startDate"),
		EndDate:     queryTime(ctx, "endDate"),
	}

	projects, pagination, err := h.store.Projects.List(ctx.Request.Context(), filter, parseListOptions(ctx))
	if err != nil {
		h.fail(ctx, err, "failed to list projects")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"data":       projects,
		"pagination": pagination,
	})
}

func (h *Handler) GetProject(ctx *gin.Context) {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		h.fail(ctx, err, "")
		return
	}

	project, err := h.store.Projects.Get(ctx.Request.Context(), id)
	if err != nil {
		h.fail(ctx, err, "failed to fetch project")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"data": project})
}

func (h *Handler) CreateProject(ctx *gin.Context) {
	var body CreateProjectRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	currentUser, err := utils.GetCurrentUser(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	status := types.ProjectPlanning
	if body.Status != "" {
		status = types.ProjectStatus(body.Status)
		if !status.Valid() {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
			return
		}
	}

	priority := types.PriorityMedium
	if body.Priority != "" {
		priority = types.Priority(body.Priority)
		if !priority.Valid() {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid priority"})
			return
		}
	}

	managerID := body.ManagerID
	if managerID == 0 {
		managerID = currentUser.ID
	}

	if _, err := h.store.Users.Get(ctx.Request.Context(), managerID); err != nil {
		h.fail(ctx, err, "failed to resolve manager")
		return
	}

	developers, err := h.resolveDevelopers(ctx, body.DeveloperIDs)
	if err != nil {
		h.fail(ctx, err, "failed to resolve developers")
		return
	}

	project := models.Project{
		Name:        body.Name,
		Description: body.Description,
		Status:      status,
		Priority:    priority,
		StartDate:   body.StartDate,
		EndDate:     body.EndDate,
		ManagerID:   managerID,
		Developers:  developers,
	}

	if err := h.store.Projects.Create(ctx.Request.Context(), &project); err != nil {
		h.fail(ctx, err, "failed to create project")
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"data": project})
}

func (h *Handler) UpdateProject(ctx *gin.Context) {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		h.fail(ctx, err, "")
		return
	}

	var body UpdateProjectRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	project, err := h.store.Projects.Get(ctx.Request.Context(), id)
	if err != nil {
		h.fail(ctx, err, "failed to fetch project")
		return
	}

	if body.Name != nil {
		project.Name = *body.Name
	}
	if body.Description != nil {
		project.Description = *body.Description
	}
	if body.Status != nil {
		status := types.ProjectStatus(*body.Status)
		if !status.Valid() {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
			return
		}
		project.Status = status
	}
	if body.Priority != nil {
		priority := types.Priority(*body.Priority)
		if !priority.Valid() {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid priority"})
			return
		}
		project.Priority = priority
	}
	if body.StartDate != nil {
		project.StartDate = body.StartDate
	}
	if body.EndDate != nil {
		project.EndDate = body.EndDate
	}
	if body.ManagerID != nil {
		if _, err := h.store.Users.Get(ctx.Request.Context(), *body.ManagerID); err != nil {
			h.fail(ctx, err, "failed to resolve manager")
			return
		}
		project.ManagerID = *body.ManagerID
	}

	if body.DeveloperIDs != nil {
		developers, err := h.resolveDevelopers(ctx, *body.DeveloperIDs)
		if err != nil {
			h.fail(ctx, err, "failed to resolve developers")
			return
		}
		if err := h.store.Projects.ReplaceDevelopers(ctx.Request.Context(), project, developers); err != nil {
			h.fail(ctx, err, "failed to update developers")
			return
		}
		project.Developers = developers
	}

	if err := h.store.Projects.Save(ctx.Request.Context(), project); err != nil {
		h.fail(ctx, err, "failed to update project")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"data": project})
}

// UpdateProjectDeadline moves the project end date and notifies the team.
// Admins additionally get a system alert when fewer than 3 days remain.
func (h *Handler) UpdateProjectDeadline(ctx *gin.Context) {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		h.fail(ctx, err, "")
		return
	}

	var body UpdateDeadlineRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	project, err := h.store.Projects.Get(ctx.Request.Context(), id)
	if err != nil {
		h.fail(ctx, err, "failed to fetch project")
		return
	}

	project.EndDate = &body.EndDate

	if err := h.store.Projects.Save(ctx.Request.Context(), project); err != nil {
		h.fail(ctx, err, "failed to update deadline")
		return
	}

	projectID := project.ID
	if err := h.dispatcher.NotifyProjectTeam(ctx.Request.Context(), projectID, notify.Payload{
		Type:           types.NotificationProjectUpdated,
		Message:        fmt.Sprintf("Project deadline updated to %s", body.EndDate.Format("2006-01-02")),
		RelatedProject: &projectID,
	}); err != nil {
		h.logger.Warn("failed to notify project team", zap.Uint("project_id", projectID), zap.Error(err))
	}

	if time.Until(body.EndDate) < 3*24*time.Hour {
		if err := h.dispatcher.NotifyAdmins(ctx.Request.Context(), notify.Payload{
			Type:           types.NotificationSystemAlert,
			Message:        fmt.Sprintf("Project %q has less than 3 days to its deadline", project.Name),
			RelatedProject: &projectID,
		}); err != nil {
			h.logger.Warn("failed to notify admins", zap.Uint("project_id", projectID), zap.Error(err))
		}
	}

	ctx.JSON(http.StatusOK, gin.H{"data": project})
}

func (h *Handler) DeleteProject(ctx *gin.Context) {
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

	if _, err := h.store.Projects.Get(ctx.Request.Context(), id); err != nil {
		h.fail(ctx, err, "failed to fetch project")
		return
	}

	if mode == types.DeleteHard {
		err = h.store.Projects.HardDelete(ctx.Request.Context(), id)
	} else {
		err = h.store.Projects.SoftDelete(ctx.Request.Context(), id)
	}
	if err != nil {
		h.fail(ctx, err, "failed to delete project")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Project deleted", "method": mode})
}

// ListProjectTasks returns every live task of one project, unpaginated.
func (h *Handler) ListProjectTasks(ctx *gin.Context) {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		h.fail(ctx, err, "")
		return
	}

	if _, err := h.store.Projects.Get(ctx.Request.Context(), id); err != nil {
		h.fail(ctx, err, "failed to fetch project")
		return
	}

	tasks, err := h.store.Tasks.ListByProject(ctx.Request.Context(), id)
	if err != nil {
		h.fail(ctx, err, "failed to list project tasks")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"data": tasks})
}

func (h *Handler) resolveDevelopers(ctx *gin.Context, ids []uint) ([]models.User, error) {
	developers := make([]models.User, 0, len(ids))
	for _, id := range ids {
		user, err := h.store.Users.Get(ctx.Request.Context(), id)
		if err != nil {
			return nil, err
		}
		developers = append(developers, *user)
	}
	return developers, nil
}
