package middleware

import (
	"crypto/rand"
	"encoding/hex"
	"time"

	"assist_backend/internal/logger"

	"github.com/gin-gonic/gin"
)

const requestIDHeader = "X-Request-ID"

// RequestLogger attaches a request-scoped slog logger to the request context
// and writes one access line per request.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		reqID := c.GetHeader(requestIDHeader)
		if reqID == "" {
			reqID = newRequestID()
		}
		c.Header(requestIDHeader, reqID)

		l := logger.With("request_id", reqID)
		c.Request = c.Request.WithContext(logger.NewContext(c.Request.Context(), l))

		c.Next()

		args := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
			"ip", c.ClientIP(),
		}
		if uid, ok := c.Get(CtxUserID); ok {
			args = append(args, "user_id", uid)
		}
		switch status := c.Writer.Status(); {
		case status >= 500:
			l.Error("request", args...)
		case status >= 400:
			l.Warn("request", args...)
		default:
			l.Info("request", args...)
		}
	}
}

func newRequestID() string {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "unknown"
	}
	return hex.EncodeToString(b[:])
}
