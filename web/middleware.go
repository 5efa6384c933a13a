package web

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/skekre98/wirebox/logging"
)

const requestIDKey = "request_id"

type Handler = gin.HandlerFunc
type Router = gin.IRouter

// RequestIDMiddleware sets/propagates a request ID. Scope exposes it to the
// request container as RequestID.
func RequestIDMiddleware() Handler {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Writer.Header().Set("X-Request-ID", id)
		c.Set(requestIDKey, id)
		c.Next()
	}
}

// AccessLog writes a structured access log after the request completes.
func AccessLog(l *slog.Logger) Handler {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		dur := time.Since(start)
		l.Info("http_access",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration_ms", dur.Milliseconds(),
			"ip", c.ClientIP(),
			"req_id", c.GetString(requestIDKey),
		)
	}
}

// RecoveryProblem converts panics to RFC7807 "problem+json". Fatal
// injection errors keep their kind in the detail.
func RecoveryProblem(l *slog.Logger) Handler {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			detail := "unexpected server error"
			if fatal, ok := rec.(*logging.FatalError); ok {
				l.Error("dependency resolution failed",
					"kind", fatal.Kind,
					"error", fatal.Message,
					"req_id", c.GetString(requestIDKey),
				)
				detail = "dependency resolution failed: " + string(fatal.Kind)
			} else {
				l.Error("panic", "error", rec, "req_id", c.GetString(requestIDKey))
			}
			c.Header("Content-Type", "application/problem+json")
			c.AbortWithStatusJSON(http.StatusInternalServerError, map[string]any{
				"type":   "about:blank",
				"title":  "Internal Server Error",
				"status": http.StatusInternalServerError,
				"detail": detail,
			})
		}()
		c.Next()
	}
}
