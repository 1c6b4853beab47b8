package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/JBE10/lifeops/middleware"
	"github.com/JBE10/lifeops/services"
	"github.com/JBE10/lifeops/utils"
)

type HabitHandler struct {
	habits  *services.HabitService
	ledger  *services.HabitLedger
	stats   *services.StatsService
	logger  *zap.Logger
	metrics *utils.Metrics
}

func NewHabitHandler(habits *services.HabitService, ledger *services.HabitLedger, stats *services.StatsService, logger *zap.Logger, metrics *utils.Metrics) *HabitHandler {
	return &HabitHandler{
		habits:  habits,
		ledger:  ledger,
		stats:   stats,
		logger:  logger,
		metrics: metrics,
	}
}

func (h *HabitHandler) CreateHabit(c *gin.Context) {
	var input services.HabitInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, h.metrics, "create_habit", "invalid request body")
		return
	}

	habit, err := h.habits.Create(c.Request.Context(), middleware.OwnerID(c), input)
	if err != nil {
		respondError(c, h.logger, h.metrics, "create_habit", err)
		return
	}

	c.JSON(http.StatusCreated, habit)
}

func (h *HabitHandler) GetHabits(c *gin.Context) {
	habits, err := h.habits.List(c.Request.Context(), middleware.OwnerID(c))
	if err != nil {
		respondError(c, h.logger, h.metrics, "get_habits", err)
		return
	}

	c.JSON(http.StatusOK, habits)
}

func (h *HabitHandler) GetHabit(c *gin.Context) {
	detail, err := h.habits.Get(c.Request.Context(), middleware.OwnerID(c), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, h.metrics, "get_habit", err)
		return
	}

	c.JSON(http.StatusOK, detail)
}

func (h *HabitHandler) UpdateHabit(c *gin.Context) {
	var patch services.HabitPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		badRequest(c, h.metrics, "update_habit", "invalid request body")
		return
	}

	habit, err := h.habits.Update(c.Request.Context(), middleware.OwnerID(c), c.Param("id"), patch)
	if err != nil {
		respondError(c, h.logger, h.metrics, "update_habit", err)
		return
	}

	c.JSON(http.StatusOK, habit)
}

func (h *HabitHandler) DeleteHabit(c *gin.Context) {
	if err := h.habits.Delete(c.Request.Context(), middleware.OwnerID(c), c.Param("id")); err != nil {
		respondError(c, h.logger, h.metrics, "delete_habit", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "habit deleted"})
}

// ToggleHabit flips today's completion for the habit.
func (h *HabitHandler) ToggleHabit(c *gin.Context) {
	result, err := h.ledger.ToggleToday(c.Request.Context(), c.Param("id"), middleware.OwnerID(c))
	if err != nil {
		respondError(c, h.logger, h.metrics, "toggle_habit", err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *HabitHandler) GetStats(c *gin.Context) {
	stats, err := h.stats.OwnerStats(c.Request.Context(), middleware.OwnerID(c))
	if err != nil {
		respondError(c, h.logger, h.metrics, "get_stats", err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

func (h *HabitHandler) SetActive(c *gin.Context) {
	var input struct {
		IDs      []string `json:"ids" binding:"required"`
		IsActive *bool    `json:"is_active" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, h.metrics, "set_active", "ids and is_active are required")
		return
	}

	if err := h.stats.SetActive(c.Request.Context(), middleware.OwnerID(c), input.IDs, *input.IsActive); err != nil {
		respondError(c, h.logger, h.metrics, "set_active", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"updated": len(input.IDs)})
}
