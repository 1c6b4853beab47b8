package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/JBE10/lifeops/handlers"
	"github.com/JBE10/lifeops/middleware"
)

func RegisterFinanceRoutes(api *gin.RouterGroup, d Deps) {
	h := handlers.NewFinanceHandler(d.Finance, d.Portfolio, d.Logger, d.Metrics)

	finance := api.Group("/finance")
	finance.Use(middleware.CacheMiddleware(d.Cache, d.Logger, d.Config.CacheTTL))
	{
		finance.GET("/stats", h.GetStats)

		finance.GET("/transactions", h.GetTransactions)
		finance.POST("/transactions", h.CreateTransaction)
		finance.GET("/transactions/:id", h.GetTransaction)
		finance.PUT("/transactions/:id", h.UpdateTransaction)
		finance.DELETE("/transactions/:id", h.DeleteTransaction)

		finance.GET("/budgets", h.GetBudgets)
		finance.POST("/budgets", h.UpsertBudget)
		finance.DELETE("/budgets/:id", h.DeleteBudget)

		finance.GET("/assets", h.GetAssets)
		finance.POST("/assets", h.AddAsset)
		finance.POST("/assets/valuation", h.ValuePortfolio)
		finance.GET("/assets/:id", h.GetAsset)
		finance.PUT("/assets/:id", h.UpdateAsset)
		finance.DELETE("/assets/:id", h.DeleteAsset)
	}
}
