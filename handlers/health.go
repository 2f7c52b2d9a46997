package handlers

import (
	"net/http"

	"sailsmart/utils"

	"github.com/gin-gonic/gin"
)

// HealthHandler reports the last snapshot taken by the health monitor.
type HealthHandler struct {
	Snapshot func() utils.HealthStatus
}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{Snapshot: utils.GetHealthStatus}
}

// Health handles GET /health.
func (h *HealthHandler) Health(c *gin.Context) {
	status := h.Snapshot()
	healthy := status.Mongo && status.Postgres
	for _, ok := range status.Redis {
		healthy = healthy && ok
	}
	if !healthy {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "services": status})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "services": status})
}
