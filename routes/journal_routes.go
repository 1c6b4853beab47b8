package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/JBE10/lifeops/handlers"
	"github.com/JBE10/lifeops/middleware"
)

func RegisterJournalRoutes(api *gin.RouterGroup, d Deps) {
	h := handlers.NewJournalHandler(d.Journal, d.Logger, d.Metrics)

	journal := api.Group("/journal")
	journal.Use(middleware.CacheMiddleware(d.Cache, d.Logger, d.Config.CacheTTL))
	{
		journal.GET("", h.GetJournal)
		journal.POST("", h.CreateEntry)
		journal.GET("/:id", h.GetEntry)
		journal.PUT("/:id", h.UpdateEntry)
		journal.DELETE("/:id", h.DeleteEntry)
	}
}
