package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/JBE10/lifeops/middleware"
	"github.com/JBE10/lifeops/services"
	"github.com/JBE10/lifeops/utils"
)

type OKRHandler struct {
	okrs    *services.OKRService
	logger  *zap.Logger
	metrics *utils.Metrics
}

func NewOKRHandler(okrs *services.OKRService, logger *zap.Logger, metrics *utils.Metrics) *OKRHandler {
	return &OKRHandler{okrs: okrs, logger: logger, metrics: metrics}
}

// GetOKRs lists OKRs with optional ?quarter, ?year and ?status.
func (h *OKRHandler) GetOKRs(c *gin.Context) {
	var q services.OKRQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, h.metrics, "get_okrs", "invalid query parameters")
		return
	}

	okrs, err := h.okrs.List(c.Request.Context(), middleware.OwnerID(c), q)
	if err != nil {
		respondError(c, h.logger, h.metrics, "get_okrs", err)
		return
	}
	c.JSON(http.StatusOK, okrs)
}

func (h *OKRHandler) GetOKR(c *gin.Context) {
	okr, err := h.okrs.Get(c.Request.Context(), middleware.OwnerID(c), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, h.metrics, "get_okr", err)
		return
	}
	c.JSON(http.StatusOK, okr)
}

func (h *OKRHandler) CreateOKR(c *gin.Context) {
	var input services.OKRInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, h.metrics, "create_okr", "invalid request body")
		return
	}

	okr, err := h.okrs.Create(c.Request.Context(), middleware.OwnerID(c), input)
	if err != nil {
		respondError(c, h.logger, h.metrics, "create_okr", err)
		return
	}
	c.JSON(http.StatusCreated, okr)
}

func (h *OKRHandler) UpdateOKR(c *gin.Context) {
	var patch services.OKRPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		badRequest(c, h.metrics, "update_okr", "invalid request body")
		return
	}

	okr, err := h.okrs.Update(c.Request.Context(), middleware.OwnerID(c), c.Param("id"), patch)
	if err != nil {
		respondError(c, h.logger, h.metrics, "update_okr", err)
		return
	}
	c.JSON(http.StatusOK, okr)
}

// UpdateKeyResult takes {"current_value": n}.
func (h *OKRHandler) UpdateKeyResult(c *gin.Context) {
	var body struct {
		CurrentValue *float64 `json:"current_value"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.CurrentValue == nil {
		badRequest(c, h.metrics, "update_key_result", "current_value is required")
		return
	}

	okr, err := h.okrs.UpdateKeyResult(c.Request.Context(), middleware.OwnerID(c), c.Param("id"), c.Param("krId"), *body.CurrentValue)
	if err != nil {
		respondError(c, h.logger, h.metrics, "update_key_result", err)
		return
	}
	c.JSON(http.StatusOK, okr)
}

func (h *OKRHandler) DeleteOKR(c *gin.Context) {
	if err := h.okrs.Delete(c.Request.Context(), middleware.OwnerID(c), c.Param("id")); err != nil {
		respondError(c, h.logger, h.metrics, "delete_okr", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "okr deleted"})
}
