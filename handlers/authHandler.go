package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/JBE10/lifeops/middleware"
	"github.com/JBE10/lifeops/services"
	"github.com/JBE10/lifeops/utils"
)

type AuthHandler struct {
	accounts *services.AccountService
	logger   *zap.Logger
	metrics  *utils.Metrics
}

func NewAuthHandler(accounts *services.AccountService, logger *zap.Logger, metrics *utils.Metrics) *AuthHandler {
	return &AuthHandler{accounts: accounts, logger: logger, metrics: metrics}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var input services.RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.logger.Warn("invalid_register_request", zap.Error(err))
		badRequest(c, h.metrics, "register", "invalid request body")
		return
	}

	user, err := h.accounts.Register(c.Request.Context(), input)
	if err != nil {
		respondError(c, h.logger, h.metrics, "register", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":    user.ID,
		"email": user.Email,
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var input services.LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.logger.Warn("invalid_login_request", zap.Error(err))
		badRequest(c, h.metrics, "login", "invalid request body")
		return
	}

	token, user, err := h.accounts.Login(c.Request.Context(), input)
	if err != nil {
		respondError(c, h.logger, h.metrics, "login", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user": gin.H{
			"id":    user.ID,
			"email": user.Email,
			"name":  user.Name,
		},
	})
}

func (h *AuthHandler) Profile(c *gin.Context) {
	user, err := h.accounts.Profile(c.Request.Context(), middleware.OwnerID(c))
	if err != nil {
		respondError(c, h.logger, h.metrics, "profile", err)
		return
	}

	c.JSON(http.StatusOK, user)
}
