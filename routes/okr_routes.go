package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/JBE10/lifeops/handlers"
	"github.com/JBE10/lifeops/middleware"
)

func RegisterOKRRoutes(api *gin.RouterGroup, d Deps) {
	h := handlers.NewOKRHandler(d.OKRs, d.Logger, d.Metrics)

	okrs := api.Group("/okrs")
	okrs.Use(middleware.CacheMiddleware(d.Cache, d.Logger, d.Config.CacheTTL))
	{
		okrs.GET("", h.GetOKRs)
		okrs.POST("", h.CreateOKR)
		okrs.GET("/:id", h.GetOKR)
		okrs.PUT("/:id", h.UpdateOKR)
		okrs.DELETE("/:id", h.DeleteOKR)
		okrs.PATCH("/:id/key-results/:krId", h.UpdateKeyResult)
	}
}
