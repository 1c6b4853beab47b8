package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/JBE10/lifeops/services"
)

const ownerKey = "owner_id"

// Authenticator resolves a bearer token to the id of the calling user.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (string, error)
}

func AuthMiddleware(auth Authenticator, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			abortJSON(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing token")
			return
		}

		ownerID, err := auth.Authenticate(c.Request.Context(), strings.TrimPrefix(header, "Bearer "))
		if errors.Is(err, services.ErrUnauthorized) {
			abortJSON(c, http.StatusUnauthorized, "UNAUTHORIZED", "invalid or expired token")
			return
		} else if err != nil {
			logger.Error("authenticate_failed", zap.Error(err))
			abortJSON(c, http.StatusInternalServerError, "INTERNAL", "internal server error")
			return
		}

		c.Set(ownerKey, ownerID)
		c.Next()
	}
}

// OwnerID returns the authenticated user id, or "" outside AuthMiddleware.
func OwnerID(c *gin.Context) string {
	return c.GetString(ownerKey)
}

func abortJSON(c *gin.Context, status int, code, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"error": msg, "code": code})
}
