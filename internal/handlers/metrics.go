package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/taskforge-dev/taskforge/internal/access"
	"github.com/taskforge-dev/taskforge/internal/utils"
)

// DashboardMetrics reports workload figures scoped to the caller's role.
func (h *Handler) DashboardMetrics(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	report, err := h.metrics.Dashboard(ctx.Request.Context(), currentUser.ID, currentUser.Role)
	if err != nil {
		h.fail(ctx, err, "failed to build dashboard metrics")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"data": report})
}

// ProjectMetrics reports per-project figures for members of the project.
func (h *Handler) ProjectMetrics(ctx *gin.Context) {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		h.fail(ctx, err, "")
		return
	}

	currentUser, err := utils.GetCurrentUser(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	allowed, err := access.CanAccessProject(ctx.Request.Context(), h.store.Projects, id, currentUser.ID, currentUser.Role)
	if err != nil {
		h.fail(ctx, err, "failed to check project access")
		return
	}
	if !allowed {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Access to this project denied"})
		return
	}

	report, err := h.metrics.ProjectMetrics(ctx.Request.Context(), id)
	if err != nil {
		h.fail(ctx, err, "failed to build project metrics")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"data": report})
}
