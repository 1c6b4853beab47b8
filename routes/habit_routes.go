package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/JBE10/lifeops/handlers"
	"github.com/JBE10/lifeops/middleware"
)

func RegisterHabitRoutes(api *gin.RouterGroup, d Deps) {
	h := handlers.NewHabitHandler(d.Habits, d.Ledger, d.Stats, d.Logger, d.Metrics)

	habits := api.Group("/habits")
	habits.Use(middleware.CacheMiddleware(d.Cache, d.Logger, d.Config.CacheTTL))
	{
		habits.GET("", h.GetHabits)
		habits.POST("", h.CreateHabit)
		habits.GET("/stats", h.GetStats)
		habits.PATCH("/active", h.SetActive)
		habits.GET("/:id", h.GetHabit)
		habits.PUT("/:id", h.UpdateHabit)
		habits.DELETE("/:id", h.DeleteHabit)
		habits.POST("/:id/toggle", h.ToggleHabit)
	}
}
