// Package handler contains the gin HTTP handlers.
package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/guardia/backend/internal/domain/shared"
	"github.com/guardia/backend/internal/infrastructure/logger"
	"github.com/guardia/backend/internal/infrastructure/mail"
	"github.com/guardia/backend/internal/infrastructure/printing"
	"github.com/guardia/backend/internal/interfaces/http/dto"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// BadRequest sends a 400 response with the rejection reason
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, dto.NewErrorResponse(message))
}

// InternalError sends a 500 response. The error text stays generic; details
// carry the operator-facing context.
func (h *BaseHandler) InternalError(c *gin.Context, message, details string) {
	c.JSON(http.StatusInternalServerError, dto.NewErrorResponseWithDetails(message, details))
}

// HandleError maps pipeline errors onto HTTP responses. Client rejections
// return the reason verbatim; server failures return a category plus a
// diagnostic detail and are logged with their cause.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		status := dto.GetHTTPStatus(domainErr.Code)
		if status < http.StatusInternalServerError {
			c.JSON(status, dto.NewErrorResponse(domainErr.Message))
			return
		}
		c.JSON(status, dto.NewErrorResponseWithDetails("report generation failed", domainErr.Message))
		return
	}

	var cfgErr *mail.ConfigError
	if errors.As(err, &cfgErr) {
		h.InternalError(c, "mail transport is not configured", cfgErr.Error())
		return
	}

	var renderErr *printing.RenderError
	if errors.As(err, &renderErr) {
		message := "report rendering failed"
		if renderErr.Code == printing.ErrCodeRenderTimeout {
			message = "report rendering timed out"
		}
		h.InternalError(c, message, renderErr.Message)
		return
	}

	var deliveryErr *mail.DeliveryError
	if errors.As(err, &deliveryErr) {
		h.InternalError(c, "report delivery failed", deliveryErr.Message)
		return
	}

	logger.GetGinLogger(c).Error("unhandled pipeline error", zap.Error(err))
	h.InternalError(c, "an unexpected error occurred", "")
}
