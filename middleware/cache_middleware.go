package middleware

import (
	"bytes"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/JBE10/lifeops/cache"
)

type CachedResponse struct {
	Status      int         `json:"status"`
	ContentType string      `json:"content_type"`
	Body        []byte      `json:"body"`
	Headers     http.Header `json:"headers"`
}

// CacheMiddleware caches successful GET responses per owner. It must run
// after AuthMiddleware; services drop the owner's entries on every write.
func CacheMiddleware(store cache.Cache, logger *zap.Logger, duration time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		ownerID := OwnerID(c)
		if ownerID == "" {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		cacheKey := cache.ResponseKey(ownerID, c.Request.URL.Path, c.Request.URL.RawQuery)

		var cached CachedResponse
		if err := store.Get(ctx, cacheKey, &cached); err == nil {
			logger.Debug("cache_hit", zap.String("key", cacheKey))

			for key, values := range cached.Headers {
				for _, value := range values {
					c.Header(key, value)
				}
			}
			c.Header("X-Cache", "HIT")
			c.Data(cached.Status, cached.ContentType, cached.Body)
			c.Abort()
			return
		}

		logger.Debug("cache_miss", zap.String("key", cacheKey))

		blw := &bodyLogWriter{body: &bytes.Buffer{}, ResponseWriter: c.Writer}
		c.Writer = blw
		c.Header("X-Cache", "MISS")

		c.Next()

		if blw.Status() != http.StatusOK {
			return
		}

		headers := blw.Header().Clone()
		headers.Del("X-Cache")
		headers.Del("Content-Length")
		resp := CachedResponse{
			Status:      blw.Status(),
			ContentType: blw.Header().Get("Content-Type"),
			Body:        blw.body.Bytes(),
			Headers:     headers,
		}
		if err := store.Set(ctx, cacheKey, resp, duration); err != nil {
			logger.Warn("cache_set_failed",
				zap.Error(err),
				zap.String("key", cacheKey),
			)
		}
	}
}

type bodyLogWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *bodyLogWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *bodyLogWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// RateLimitMiddleware allows maxRequests per client IP per window. If the
// counter store fails the request is let through.
func RateLimitMiddleware(store cache.Cache, logger *zap.Logger, maxRequests int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		clientIP := c.ClientIP()

		count, err := store.IncrementCounter(c.Request.Context(), cache.RateLimitKey(clientIP), window)
		if err != nil {
			logger.Error("rate_limit_error", zap.Error(err))
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(maxRequests))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(max(0, maxRequests-int(count))))

		if count > int64(maxRequests) {
			logger.Warn("rate_limit_exceeded",
				zap.String("ip", clientIP),
				zap.Int64("count", count),
			)
			c.Header("Retry-After", strconv.Itoa(int(window.Seconds())))
			abortJSON(c, http.StatusTooManyRequests, "RATE_LIMITED", "too many requests, try again later")
			return
		}

		c.Next()
	}
}
