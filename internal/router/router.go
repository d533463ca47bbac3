package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/taskforge-dev/taskforge/internal/auth"
	"github.com/taskforge-dev/taskforge/internal/config"
	"github.com/taskforge-dev/taskforge/internal/handlers"
	"github.com/taskforge-dev/taskforge/internal/middleware"
	"github.com/taskforge-dev/taskforge/internal/store"
	"github.com/taskforge-dev/taskforge/internal/types"
)

func NewRouter(h *handlers.Handler, authManager *auth.Manager, st *store.Store, cfg *config.Config) *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.HTTP.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	requireAuth := middleware.RequireAuth(authManager, st.Users)

	api := r.Group("/api")
	{
		api.GET("/health", h.HealthCheck)
		api.GET("/ws", requireAuth, h.WebSocket)

		authn := api.Group("/auth")
		{
			authn.POST("/register", h.Register)
			authn.POST("/verify-email", h.VerifyEmail)
			authn.POST("/login", h.Login)
			authn.POST("/refresh", h.Refresh)
			authn.GET("/me", requireAuth, h.Me)
			authn.POST("/password-reset/request", h.RequestPasswordReset)
			authn.POST("/password-reset/verify", h.VerifyResetCode)
			authn.POST("/password-reset", h.ResetPassword)
		}

		users := api.Group("/users", requireAuth)
		{
			users.GET("", middleware.RequireRoles(types.RoleAdmin, types.RoleManager), h.ListUsers)
			users.POST("", middleware.RequireRoles(types.RoleAdmin), h.CreateUser)
			users.GET("/:id", h.GetUser)
			users.PATCH("/:id", h.UpdateUser)
			users.DELETE("/:id", middleware.RequireRoles(types.RoleAdmin), h.DeleteUser)
		}

		projects := api.Group("/projects", requireAuth)
		{
			projects.GET("", h.ListProjects)
			projects.POST("", middleware.RequireRoles(types.RoleAdmin, types.RoleManager), h.CreateProject)
			projects.GET("/:id", h.GetProject)
			projects.PATCH("/:id", middleware.RequireRoles(types.RoleAdmin, types.RoleManager), h.UpdateProject)
			projects.PATCH("/:id/deadline", middleware.RequireRoles(types.RoleAdmin, types.RoleManager), h.UpdateProjectDeadline)
			projects.DELETE("/:id", middleware.RequireRoles(types.RoleAdmin, types.RoleManager), h.DeleteProject)
			projects.GET("/:id/tasks", h.ListProjectTasks)
		}

		tasks := api.Group("/tasks", requireAuth)
		{
			tasks.GET("", h.ListTasks)
			tasks.POST("", h.CreateTask)
			tasks.GET("/:id", h.GetTask)
			tasks.PATCH("/:id", h.UpdateTask)
			tasks.PATCH("/:id/status", h.UpdateTaskStatus)
			tasks.PATCH("/:id/assign", h.AssignTask)
			tasks.DELETE("/:id", middleware.RequireRoles(types.RoleAdmin, types.RoleManager), h.DeleteTask)
		}

		notifications := api.Group("/notifications", requireAuth)
		{
			notifications.GET("", h.ListNotifications)
			notifications.PATCH("/:id/read", h.MarkNotificationRead)
		}

		metrics := api.Group("/metrics", requireAuth)
		{
			metrics.GET("/dashboard", h.DashboardMetrics)
			metrics.GET("/projects/:id", h.ProjectMetrics)
		}
	}

	return r
}
