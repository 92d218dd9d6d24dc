package handler

import (
	"log/slog"
	"net/http"

	"portfolio/site/internal/database"

	"github.com/gin-gonic/gin"
)

// Ping is the liveness probe.
func Ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "pong",
	})
}

// Healthz is the readiness probe. It fails with 503 while the database is
// unreachable.
func Healthz(c *gin.Context) {
	if err := database.Ping(database.DB); err != nil {
		slog.Warn("health check failed", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
