package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/JBE10/lifeops/services"
	"github.com/JBE10/lifeops/utils"
)

const (
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeNotFound           = "NOT_FOUND"
	CodeValidation         = "VALIDATION"
	CodeConflict           = "CONFLICT"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeInternal           = "INTERNAL"
)

// respondError maps a service error onto a status and error code. Anything
// unrecognised is logged and reported as an opaque 500.
func respondError(c *gin.Context, logger *zap.Logger, metrics *utils.Metrics, handler string, err error) {
	status, code := http.StatusInternalServerError, CodeInternal
	switch {
	case errors.Is(err, services.ErrNotFound):
		status, code = http.StatusNotFound, CodeNotFound
	case errors.Is(err, services.ErrValidation):
		status, code = http.StatusBadRequest, CodeValidation
	case errors.Is(err, services.ErrConflict):
		status, code = http.StatusConflict, CodeConflict
	case errors.Is(err, services.ErrInvalidCredentials):
		status, code = http.StatusUnauthorized, CodeInvalidCredentials
	case errors.Is(err, services.ErrUnauthorized):
		status, code = http.StatusUnauthorized, CodeUnauthorized
	}

	metrics.ErrorCount.WithLabelValues(handler, code).Inc()

	if status == http.StatusInternalServerError {
		logger.Error("request_failed",
			zap.String("handler", handler),
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		c.JSON(status, gin.H{"error": "internal server error", "code": code})
		return
	}

	c.JSON(status, gin.H{"error": err.Error(), "code": code})
}

func badRequest(c *gin.Context, metrics *utils.Metrics, handler, msg string) {
	metrics.ErrorCount.WithLabelValues(handler, CodeValidation).Inc()
	c.JSON(http.StatusBadRequest, gin.H{"error": msg, "code": CodeValidation})
}
