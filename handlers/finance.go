package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/JBE10/lifeops/middleware"
	"github.com/JBE10/lifeops/services"
	"github.com/JBE10/lifeops/utils"
)

// FinanceHandler serves transactions, budgets, monthly stats and the
// asset portfolio.
type FinanceHandler struct {
	finance   *services.FinanceService
	portfolio *services.PortfolioService
	logger    *zap.Logger
	metrics   *utils.Metrics
}

func NewFinanceHandler(finance *services.FinanceService, portfolio *services.PortfolioService, logger *zap.Logger, metrics *utils.Metrics) *FinanceHandler {
	return &FinanceHandler{finance: finance, portfolio: portfolio, logger: logger, metrics: metrics}
}

// GetTransactions lists transactions with optional ?page, ?limit, ?type,
// ?category and ?month=YYYY-MM.
func (h *FinanceHandler) GetTransactions(c *gin.Context) {
	var q services.TransactionQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, h.metrics, "get_transactions", "invalid query parameters")
		return
	}

	page, err := h.finance.ListTransactions(c.Request.Context(), middleware.OwnerID(c), q)
	if err != nil {
		respondError(c, h.logger, h.metrics, "get_transactions", err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *FinanceHandler) GetTransaction(c *gin.Context) {
	t, err := h.finance.GetTransaction(c.Request.Context(), middleware.OwnerID(c), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, h.metrics, "get_transaction", err)
		return
	}
	c.JSON(http.StatusOK, t)
}

func (h *FinanceHandler) CreateTransaction(c *gin.Context) {
	var input services.TransactionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, h.metrics, "create_transaction", "invalid request body")
		return
	}

	t, err := h.finance.CreateTransaction(c.Request.Context(), middleware.OwnerID(c), input)
	if err != nil {
		respondError(c, h.logger, h.metrics, "create_transaction", err)
		return
	}
	c.JSON(http.StatusCreated, t)
}

func (h *FinanceHandler) UpdateTransaction(c *gin.Context) {
	var patch services.TransactionPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		badRequest(c, h.metrics, "update_transaction", "invalid request body")
		return
	}

	t, err := h.finance.UpdateTransaction(c.Request.Context(), middleware.OwnerID(c), c.Param("id"), patch)
	if err != nil {
		respondError(c, h.logger, h.metrics, "update_transaction", err)
		return
	}
	c.JSON(http.StatusOK, t)
}

func (h *FinanceHandler) DeleteTransaction(c *gin.Context) {
	if err := h.finance.DeleteTransaction(c.Request.Context(), middleware.OwnerID(c), c.Param("id")); err != nil {
		respondError(c, h.logger, h.metrics, "delete_transaction", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "transaction deleted"})
}

// GetBudgets lists budgets with optional ?year and ?month.
func (h *FinanceHandler) GetBudgets(c *gin.Context) {
	var q services.BudgetQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, h.metrics, "get_budgets", "invalid query parameters")
		return
	}

	budgets, err := h.finance.ListBudgets(c.Request.Context(), middleware.OwnerID(c), q)
	if err != nil {
		respondError(c, h.logger, h.metrics, "get_budgets", err)
		return
	}
	c.JSON(http.StatusOK, budgets)
}

// UpsertBudget always answers 201, whether the budget was new or replaced.
func (h *FinanceHandler) UpsertBudget(c *gin.Context) {
	var input services.BudgetInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, h.metrics, "upsert_budget", "invalid request body")
		return
	}

	budget, err := h.finance.UpsertBudget(c.Request.Context(), middleware.OwnerID(c), input)
	if err != nil {
		respondError(c, h.logger, h.metrics, "upsert_budget", err)
		return
	}
	c.JSON(http.StatusCreated, budget)
}

func (h *FinanceHandler) DeleteBudget(c *gin.Context) {
	if err := h.finance.DeleteBudget(c.Request.Context(), middleware.OwnerID(c), c.Param("id")); err != nil {
		respondError(c, h.logger, h.metrics, "delete_budget", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "budget deleted"})
}

// GetStats reports ?month=YYYY-MM, defaulting to the current month.
func (h *FinanceHandler) GetStats(c *gin.Context) {
	stats, err := h.finance.MonthlyStats(c.Request.Context(), middleware.OwnerID(c), c.Query("month"))
	if err != nil {
		respondError(c, h.logger, h.metrics, "get_finance_stats", err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *FinanceHandler) GetAssets(c *gin.Context) {
	assets, err := h.portfolio.ListAssets(c.Request.Context(), middleware.OwnerID(c))
	if err != nil {
		respondError(c, h.logger, h.metrics, "get_assets", err)
		return
	}
	c.JSON(http.StatusOK, assets)
}

func (h *FinanceHandler) GetAsset(c *gin.Context) {
	asset, err := h.portfolio.GetAsset(c.Request.Context(), middleware.OwnerID(c), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, h.metrics, "get_asset", err)
		return
	}
	c.JSON(http.StatusOK, asset)
}

// AddAsset answers 201 for a new position and 200 when the buy was merged
// into an existing one.
func (h *FinanceHandler) AddAsset(c *gin.Context) {
	var input services.AssetInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, h.metrics, "add_asset", "invalid request body")
		return
	}

	asset, created, err := h.portfolio.AddAsset(c.Request.Context(), middleware.OwnerID(c), input)
	if err != nil {
		respondError(c, h.logger, h.metrics, "add_asset", err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, asset)
}

func (h *FinanceHandler) UpdateAsset(c *gin.Context) {
	var patch services.AssetPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		badRequest(c, h.metrics, "update_asset", "invalid request body")
		return
	}

	asset, err := h.portfolio.UpdateAsset(c.Request.Context(), middleware.OwnerID(c), c.Param("id"), patch)
	if err != nil {
		respondError(c, h.logger, h.metrics, "update_asset", err)
		return
	}
	c.JSON(http.StatusOK, asset)
}

func (h *FinanceHandler) DeleteAsset(c *gin.Context) {
	if err := h.portfolio.DeleteAsset(c.Request.Context(), middleware.OwnerID(c), c.Param("id")); err != nil {
		respondError(c, h.logger, h.metrics, "delete_asset", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "asset deleted"})
}

// ValuePortfolio prices the holdings with {"prices": {"BTC": {"price": n}}}.
func (h *FinanceHandler) ValuePortfolio(c *gin.Context) {
	var req services.ValuationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.metrics, "value_portfolio", "invalid request body")
		return
	}

	portfolio, err := h.portfolio.Valuation(c.Request.Context(), middleware.OwnerID(c), req)
	if err != nil {
		respondError(c, h.logger, h.metrics, "value_portfolio", err)
		return
	}
	c.JSON(http.StatusOK, portfolio)
}
