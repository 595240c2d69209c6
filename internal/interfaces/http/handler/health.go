package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/guardia/backend/internal/interfaces/http/dto"
)

// HealthHandler exposes the liveness probe
type HealthHandler struct {
	serviceName string
}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler(serviceName string) *HealthHandler {
	return &HealthHandler{serviceName: serviceName}
}

// Check handles GET /health
func (h *HealthHandler) Check(c *gin.Context) {
	c.JSON(http.StatusOK, dto.HealthResponse{
		Status:  "ok",
		Service: h.serviceName,
	})
}
