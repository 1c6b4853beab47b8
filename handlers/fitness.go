package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/JBE10/lifeops/middleware"
	"github.com/JBE10/lifeops/services"
	"github.com/JBE10/lifeops/utils"
)

type FitnessHandler struct {
	fitness *services.FitnessService
	logger  *zap.Logger
	metrics *utils.Metrics
}

func NewFitnessHandler(fitness *services.FitnessService, logger *zap.Logger, metrics *utils.Metrics) *FitnessHandler {
	return &FitnessHandler{fitness: fitness, logger: logger, metrics: metrics}
}

// GetWorkouts lists workouts with optional ?page, ?limit and ?type.
func (h *FitnessHandler) GetWorkouts(c *gin.Context) {
	var q services.WorkoutQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, h.metrics, "get_workouts", "invalid query parameters")
		return
	}

	page, err := h.fitness.List(c.Request.Context(), middleware.OwnerID(c), q)
	if err != nil {
		respondError(c, h.logger, h.metrics, "get_workouts", err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *FitnessHandler) GetWorkout(c *gin.Context) {
	workout, err := h.fitness.Get(c.Request.Context(), middleware.OwnerID(c), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, h.metrics, "get_workout", err)
		return
	}
	c.JSON(http.StatusOK, workout)
}

func (h *FitnessHandler) CreateWorkout(c *gin.Context) {
	var input services.WorkoutInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, h.metrics, "create_workout", "invalid request body")
		return
	}

	workout, err := h.fitness.Create(c.Request.Context(), middleware.OwnerID(c), input)
	if err != nil {
		respondError(c, h.logger, h.metrics, "create_workout", err)
		return
	}
	c.JSON(http.StatusCreated, workout)
}

func (h *FitnessHandler) UpdateWorkout(c *gin.Context) {
	var patch services.WorkoutPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		badRequest(c, h.metrics, "update_workout", "invalid request body")
		return
	}

	workout, err := h.fitness.Update(c.Request.Context(), middleware.OwnerID(c), c.Param("id"), patch)
	if err != nil {
		respondError(c, h.logger, h.metrics, "update_workout", err)
		return
	}
	c.JSON(http.StatusOK, workout)
}

func (h *FitnessHandler) DeleteWorkout(c *gin.Context) {
	if err := h.fitness.Delete(c.Request.Context(), middleware.OwnerID(c), c.Param("id")); err != nil {
		respondError(c, h.logger, h.metrics, "delete_workout", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "workout deleted"})
}

// GetStats summarises the last ?days days, 30 by default.
func (h *FitnessHandler) GetStats(c *gin.Context) {
	days := 0
	if raw := c.Query("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			badRequest(c, h.metrics, "get_fitness_stats", "days must be a number")
			return
		}
		days = n
	}

	stats, err := h.fitness.Stats(c.Request.Context(), middleware.OwnerID(c), days)
	if err != nil {
		respondError(c, h.logger, h.metrics, "get_fitness_stats", err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
