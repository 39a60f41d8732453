package server

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"gamehub/internal/logging"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	requestIDHeader   = "X-Request-ID"
	maxRequestIDBytes = 64
)

// requestContext tags every request with an id, puts a request-scoped logger
// on the context and records the access log line and HTTP metrics.
func (s *Server) requestContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(requestIDHeader))
		if id == "" || len(id) > maxRequestIDBytes {
			id = uuid.NewString()
		}
		c.Header(requestIDHeader, id)

		logger := s.logger.With(logging.FieldRequestID, id)
		c.Request = c.Request.WithContext(logging.WithLogger(c.Request.Context(), logger))

		started := time.Now()
		c.Next()
		elapsed := time.Since(started)

		route := c.FullPath()
		status := c.Writer.Status()
		s.metrics.RecordHTTPRequest(c.Request.Method, route, status, elapsed)

		level := slog.LevelInfo
		if status >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		logger.Log(c.Request.Context(), level, "request handled",
			logging.FieldMethod, c.Request.Method,
			logging.FieldRoute, route,
			logging.FieldStatusCode, status,
			logging.FieldDurationMS, elapsed.Milliseconds(),
		)
	}
}

func (s *Server) recoverPanics() gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(nil, func(c *gin.Context, recovered any) {
		logger := logging.FromContext(c.Request.Context(), s.logger)
		logger.Error("panic while handling request", "panic", recovered)
		writeError(c, http.StatusInternalServerError, "internal error")
	})
}
