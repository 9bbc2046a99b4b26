// Package api exposes the core over HTTP for the host web UI.
package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/stanfish/kids-todo/internal/service"
	"github.com/stanfish/kids-todo/internal/store"
)

// Handler bundles the services behind the HTTP surface.
type Handler struct {
	kids         *service.KidService
	tasks        *service.TaskService
	recurring    *service.RecurringService
	achievements *service.AchievementService
	summaries    *service.SummaryService
}

func NewHandler(
	kids *service.KidService,
	tasks *service.TaskService,
	recurring *service.RecurringService,
	achievements *service.AchievementService,
	summaries *service.SummaryService,
) *Handler {
	return &Handler{
		kids:         kids,
		tasks:        tasks,
		recurring:    recurring,
		achievements: achievements,
		summaries:    summaries,
	}
}

// NewRouter builds the gin engine with all routes registered.
func NewRouter(h *Handler) *gin.Engine {
	r := gin.Default()

	// Ping endpoint for health check
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	v1 := r.Group("/v1")
	{
		v1.GET("/kids", h.ListKids)
		v1.POST("/kids", h.CreateKid)
		v1.PUT("/kids/:id", h.UpdateKid)
		v1.DELETE("/kids/:id", h.DeleteKid)

		v1.GET("/kids/:id/tasks", h.ListTasks)
		v1.POST("/kids/:id/tasks", h.CreateTask)
		v1.GET("/kids/:id/summary", h.DaySummary)
		v1.POST("/kids/:id/sweep", h.Sweep)

		v1.GET("/kids/:id/achievements", h.ListAchievements)
		v1.POST("/kids/:id/achievements", h.AwardAchievement)

		v1.PUT("/tasks/:id", h.UpdateTask)
		v1.PATCH("/tasks/:id/completion", h.SetTaskCompletion)
		v1.DELETE("/tasks/:id", h.DeleteTask)
	}

	return r
}

// respondError maps core errors onto HTTP statuses: validation failures are
// the caller's to fix, missing records are 404, everything else is a store
// error passed through unchanged.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
