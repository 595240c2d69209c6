package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	appreport "github.com/guardia/backend/internal/application/report"
	"github.com/guardia/backend/internal/infrastructure/logger"
	"github.com/guardia/backend/internal/interfaces/http/dto"
)

// ReportHandler exposes the report generation endpoint
type ReportHandler struct {
	BaseHandler
	service *appreport.Service
	auth    gin.HandlerFunc
}

// NewReportHandler creates a new ReportHandler. The auth middleware gates
// every route this handler registers.
func NewReportHandler(service *appreport.Service, auth gin.HandlerFunc) *ReportHandler {
	return &ReportHandler{service: service, auth: auth}
}

// RegisterRoutes registers the report routes
func (h *ReportHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/report", h.auth, h.Generate)
}

// Generate handles POST /api/v1/report. It accepts one shift report
// submission, renders it to PDF and emails the artifact to the submitter.
func (h *ReportHandler) Generate(c *gin.Context) {
	var req appreport.GenerateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "request body is not valid JSON")
		return
	}

	result, err := h.service.Generate(c.Request.Context(), &req)
	if err != nil {
		logger.GetGinLogger(c).Warn("report generation rejected", zap.Error(err))
		h.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.GenerateReportResponse{
		OK:        true,
		MessageID: result.MessageID,
	})
}
