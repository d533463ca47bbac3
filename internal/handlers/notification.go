package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/taskforge-dev/taskforge/internal/utils"
)

// ListNotifications returns the caller's unread notifications, newest first.
func (h *Handler) ListNotifications(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	notifications, err := h.store.Notifications.ListUnread(ctx.Request.Context(), currentUser.ID)
	if err != nil {
		h.fail(ctx, err, "failed to list notifications")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"data": notifications})
}

// MarkNotificationRead flags one of the caller's notifications as read.
// Notifications belonging to other users are reported as not found.
func (h *Handler) MarkNotificationRead(ctx *gin.Context) {
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

	if err := h.store.Notifications.MarkRead(ctx.Request.Context(), id, currentUser.ID); err != nil {
		h.fail(ctx, err, "failed to mark notification read")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Notification marked as read"})
}
