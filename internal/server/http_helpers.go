package server

import (
	"github.com/gin-gonic/gin"
)

func writeJSON(c *gin.Context, status int, payload any) {
	c.JSON(status, payload)
}

// writeError aborts the handler chain with a JSON error body.
func writeError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"error": message})
}
