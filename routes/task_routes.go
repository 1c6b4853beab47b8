package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/JBE10/lifeops/handlers"
	"github.com/JBE10/lifeops/middleware"
)

func RegisterTaskRoutes(api *gin.RouterGroup, d Deps) {
	h := handlers.NewTaskHandler(d.Tasks, d.Logger, d.Metrics)
	cached := middleware.CacheMiddleware(d.Cache, d.Logger, d.Config.CacheTTL)

	projects := api.Group("/projects")
	projects.Use(cached)
	{
		projects.GET("", h.GetProjects)
		projects.POST("", h.CreateProject)
		projects.GET("/:id", h.GetProject)
		projects.PUT("/:id", h.UpdateProject)
		projects.DELETE("/:id", h.DeleteProject)
	}

	tasks := api.Group("/tasks")
	tasks.Use(cached)
	{
		tasks.GET("", h.GetTasks)
		tasks.POST("", h.CreateTask)
		tasks.GET("/:id", h.GetTask)
		tasks.PUT("/:id", h.UpdateTask)
		tasks.PATCH("/:id/status", h.UpdateTaskStatus)
		tasks.DELETE("/:id", h.DeleteTask)
	}

	sprints := api.Group("/sprints")
	sprints.Use(cached)
	{
		sprints.GET("", h.GetSprints)
		sprints.POST("", h.CreateSprint)
		sprints.GET("/active", h.GetActiveSprint)
		sprints.GET("/:id", h.GetSprint)
		sprints.PUT("/:id", h.UpdateSprint)
		sprints.DELETE("/:id", h.DeleteSprint)
	}
}
