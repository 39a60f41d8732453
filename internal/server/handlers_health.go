package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const healthPingTimeout = 2 * time.Second

// handleHealth reports whether the database answers. Without a database the
// service still serves private games from memory, so it reports "memory".
func (s *Server) handleHealth(c *gin.Context) {
	if s.db == nil {
		writeJSON(c, http.StatusOK, gin.H{"status": "ok", "storage": "memory"})
		return
	}
	sqlDB, err := s.db.DB()
	if err == nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), healthPingTimeout)
		defer cancel()
		err = sqlDB.PingContext(ctx)
	}
	if err != nil {
		writeJSON(c, http.StatusServiceUnavailable, gin.H{"status": "unavailable", "storage": "database"})
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"status": "ok", "storage": "database"})
}
