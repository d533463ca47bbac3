package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/taskforge-dev/taskforge/internal/apperr"
	"github.com/taskforge-dev/taskforge/internal/auth"
	"github.com/taskforge-dev/taskforge/internal/config"
	"github.com/taskforge-dev/taskforge/internal/mailer"
	"github.com/taskforge-dev/taskforge/internal/metrics"
	"github.com/taskforge-dev/taskforge/internal/notify"
	"github.com/taskforge-dev/taskforge/internal/store"
	"go.uber.org/zap"
)

// Handler carries every injected dependency the HTTP layer needs. No
// package-level state.
type Handler struct {
	store      *store.Store
	metrics    *metrics.Service
	dispatcher *notify.Dispatcher
	hub        *notify.Hub
	auth       *auth.Manager
	mailer     mailer.Mailer
	cfg        *config.Config
	logger     *zap.Logger
}

func New(
	st *store.Store,
	ms *metrics.Service,
	dispatcher *notify.Dispatcher,
	hub *notify.Hub,
	authManager *auth.Manager,
	ml mailer.Mailer,
	cfg *config.Config,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		store:      st,
		metrics:    ms,
		dispatcher: dispatcher,
		hub:        hub,
		auth:       authManager,
		mailer:     ml,
		cfg:        cfg,
		logger:     logger.Named("handlers"),
	}
}

// fail maps the error taxonomy onto status codes. Unexpected errors are
// logged and masked.
func (h *Handler) fail(ctx *gin.Context, err error, logMsg string) {
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, apperr.ErrValidation):
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperr.ErrAccessDenied):
		ctx.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	default:
		h.logger.Error(logMsg, zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

func parseListOptions(ctx *gin.Context) store.ListOptions {
	page, _ := strconv.Atoi(ctx.Query("page"))
	limit, _ := strconv.Atoi(ctx.Query("limit"))

	return store.ListOptions{
		Page:      page,
		Limit:     limit,
		SortBy:    ctx.Query("sortBy"),
		SortOrder: ctx.Query("sortOrder"),
	}
}

func parseIDParam(ctx *gin.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(ctx.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, apperr.Validationf("invalid %s", name)
	}
	return uint(id), nil
}

func queryUint(ctx *gin.Context, name string) uint {
	value, err := strconv.ParseUint(ctx.Query(name), 10, 64)
	if err != nil {
		return 0
	}
	return uint(value)
}

func queryFloat(ctx *gin.Context, name string) *float64 {
	raw := ctx.Query(name)
	if raw == "" {
		return nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &value
}

// queryTime accepts RFC 3339 timestamps or bare dates.
func queryTime(ctx *gin.Context, name string) *time.Time {
	raw := ctx.Query(name)
	if raw == "" {
		return nil
	}

	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return &t
	}
	return nil
}
