package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/JBE10/lifeops/handlers"
	"github.com/JBE10/lifeops/middleware"
)

func RegisterFitnessRoutes(api *gin.RouterGroup, d Deps) {
	h := handlers.NewFitnessHandler(d.Fitness, d.Logger, d.Metrics)

	fitness := api.Group("/fitness")
	fitness.Use(middleware.CacheMiddleware(d.Cache, d.Logger, d.Config.CacheTTL))
	{
		fitness.GET("", h.GetWorkouts)
		fitness.POST("", h.CreateWorkout)
		fitness.GET("/stats", h.GetStats)
		fitness.GET("/:id", h.GetWorkout)
		fitness.PUT("/:id", h.UpdateWorkout)
		fitness.DELETE("/:id", h.DeleteWorkout)
	}
}
