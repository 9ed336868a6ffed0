package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"metapos/internal/infrastructure/storage/postgres"
)

// Pinger checks store connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// statsReporter is implemented by stores that expose pool statistics.
type statsReporter interface {
	Stats() postgres.PoolStats
}

// HealthHandler provides health check endpoints.
type HealthHandler struct {
	db      Pinger
	version string
}

// NewHealthHandler creates a health handler. A nil db means in-memory mode.
func NewHealthHandler(db Pinger, version string) *HealthHandler {
	return &HealthHandler{db: db, version: version}
}

func (h *HealthHandler) mode() string {
	if h.db == nil {
		return "memory"
	}
	return "postgres"
}

// Live handles GET /health/live.
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Ready handles GET /health/ready.
func (h *HealthHandler) Ready(c *gin.Context) {
	if h.db != nil {
		if err := h.db.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "error",
				"checks": map[string]string{"database": "unhealthy: " + err.Error()},
			})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"mode":   h.mode(),
	})
}

// Info handles GET /health/info.
func (h *HealthHandler) Info(c *gin.Context) {
	info := gin.H{
		"app":     "metapos",
		"version": h.version,
		"mode":    h.mode(),
	}
	if sr, ok := h.db.(statsReporter); ok {
		info["pool"] = sr.Stats()
	}
	c.JSON(http.StatusOK, info)
}
