package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/JBE10/lifeops/middleware"
	"github.com/JBE10/lifeops/services"
	"github.com/JBE10/lifeops/utils"
)

type JournalHandler struct {
	journal *services.JournalService
	logger  *zap.Logger
	metrics *utils.Metrics
}

func NewJournalHandler(journal *services.JournalService, logger *zap.Logger, metrics *utils.Metrics) *JournalHandler {
	return &JournalHandler{journal: journal, logger: logger, metrics: metrics}
}

// GetJournal lists entries with optional ?page, ?limit, ?tag and ?mood.
func (h *JournalHandler) GetJournal(c *gin.Context) {
	var q services.JournalQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, h.metrics, "get_journal", "invalid query parameters")
		return
	}

	page, err := h.journal.List(c.Request.Context(), middleware.OwnerID(c), q)
	if err != nil {
		respondError(c, h.logger, h.metrics, "get_journal", err)
		return
	}

	c.JSON(http.StatusOK, page)
}

func (h *JournalHandler) GetEntry(c *gin.Context) {
	entry, err := h.journal.Get(c.Request.Context(), middleware.OwnerID(c), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, h.metrics, "get_entry", err)
		return
	}

	c.JSON(http.StatusOK, entry)
}

func (h *JournalHandler) CreateEntry(c *gin.Context) {
	var input services.JournalInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, h.metrics, "create_entry", "invalid request body")
		return
	}

	entry, err := h.journal.Create(c.Request.Context(), middleware.OwnerID(c), input)
	if err != nil {
		respondError(c, h.logger, h.metrics, "create_entry", err)
		return
	}

	c.JSON(http.StatusCreated, entry)
}

func (h *JournalHandler) UpdateEntry(c *gin.Context) {
	var patch services.JournalPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		badRequest(c, h.metrics, "update_entry", "invalid request body")
		return
	}

	entry, err := h.journal.Update(c.Request.Context(), middleware.OwnerID(c), c.Param("id"), patch)
	if err != nil {
		respondError(c, h.logger, h.metrics, "update_entry", err)
		return
	}

	c.JSON(http.StatusOK, entry)
}

func (h *JournalHandler) DeleteEntry(c *gin.Context) {
	if err := h.journal.Delete(c.Request.Context(), middleware.OwnerID(c), c.Param("id")); err != nil {
		respondError(c, h.logger, h.metrics, "delete_entry", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "entry deleted"})
}
