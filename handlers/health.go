package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/JBE10/lifeops/cache"
	"github.com/JBE10/lifeops/db"
)

type HealthHandler struct {
	store        *db.Store
	cache        cache.Cache
	cacheEnabled bool
}

func NewHealthHandler(store *db.Store, c cache.Cache, cacheEnabled bool) *HealthHandler {
	return &HealthHandler{store: store, cache: c, cacheEnabled: cacheEnabled}
}

// Health reports 503 when the database is unreachable and "degraded" when
// only the cache is.
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status, code := "ok", http.StatusOK
	database := "connected"
	if err := h.store.Ping(ctx); err != nil {
		database = "unreachable"
		status, code = "unavailable", http.StatusServiceUnavailable
	}

	cacheState := "disabled"
	if h.cacheEnabled {
		cacheState = "connected"
		if err := h.cache.Ping(ctx); err != nil {
			cacheState = "unreachable"
			if code == http.StatusOK {
				status = "degraded"
			}
		}
	}

	c.JSON(code, gin.H{
		"status":    status,
		"database":  database,
		"cache":     cacheState,
		"timestamp": time.Now().UTC(),
	})
}
