package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Version is the reported build version; overridden at build time via
// -ldflags "-X .../internal/api/handler.Version=<tag>".
var Version = "dev"

// HealthHandler reports service liveness.
type HealthHandler struct {
	service string
}

// NewHealthHandler creates a health handler reporting the given service name.
func NewHealthHandler(service string) *HealthHandler {
	return &HealthHandler{service: service}
}

// Health handles GET /health.
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": h.service,
		"version": Version,
	})
}
