package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/JBE10/lifeops/handlers"
	"github.com/JBE10/lifeops/middleware"
)

func RegisterAuthRoutes(api *gin.RouterGroup, d Deps) {
	h := handlers.NewAuthHandler(d.Accounts, d.Logger, d.Metrics)

	auth := api.Group("/auth")
	auth.POST("/register", h.Register)
	auth.POST("/login",
		middleware.RateLimitMiddleware(d.Cache, d.Logger, d.Config.RateLimit, d.Config.RateWindow),
		h.Login,
	)
}
