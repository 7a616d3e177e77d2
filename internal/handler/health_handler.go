package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/GTDGit/gtd_market/internal/repository"
	"github.com/GTDGit/gtd_market/internal/utils"
)

var startTime = time.Now()

// HealthHandler provides health endpoint.
type HealthHandler struct {
	store  repository.RegistryStore
	driver string
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(store repository.RegistryStore, driver string) *HealthHandler {
	return &HealthHandler{store: store, driver: driver}
}

// GetHealth responds with service and registry store status.
func (h *HealthHandler) GetHealth(c *gin.Context) {
	storeStatus := "connected"
	if _, err := h.store.Load(c.Request.Context()); err != nil {
		storeStatus = "unavailable"
	}

	code, status := 200, "healthy"
	if storeStatus != "connected" {
		code, status = 503, "degraded"
	}

	utils.Success(c, code, "Service is "+status, gin.H{
		"status":  status,
		"version": "1.0.0",
		"uptime":  int(time.Since(startTime).Seconds()),
		"store": gin.H{
			"driver": h.driver,
			"status": storeStatus,
		},
	})
}
