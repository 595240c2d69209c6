// Package report orchestrates the shift report pipeline: normalize the
// submitted fields, sanitize the incidents markup, compose the printable
// document, render it to PDF and hand the artifact to the mail transport.
package report

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	domain "github.com/guardia/backend/internal/domain/report"
	"github.com/guardia/backend/internal/domain/shared"
	"github.com/guardia/backend/internal/infrastructure/mail"
	"github.com/guardia/backend/internal/infrastructure/markup"
	"github.com/guardia/backend/internal/infrastructure/printing"
)

const (
	defaultRequestTimeout = 60 * time.Second

	// emptyIncidentsPlaceholder fills the incidents section when the
	// clinician submitted nothing, so the printed layout never collapses.
	emptyIncidentsPlaceholder = "<p>Sin incidencias</p>"

	documentTitle = "Informe de Guardia"
)

// Service handles shift report generation and delivery
type Service struct {
	composer       *printing.Composer
	renderer       printing.PDFRenderer
	dispatcher     mail.Dispatcher
	mailConfig     mail.Config
	logoDataURI    string
	requestTimeout time.Duration
	logger         *zap.Logger
}

// ServiceConfig wires the pipeline dependencies
type ServiceConfig struct {
	Composer   *printing.Composer
	Renderer   printing.PDFRenderer
	Dispatcher mail.Dispatcher
	MailConfig mail.Config
	// LogoPath points at the optional header logo asset
	LogoPath string
	// RequestTimeout bounds the whole render-and-send pipeline
	RequestTimeout time.Duration
	Logger         *zap.Logger
}

// NewService creates a new report Service. The logo asset is read once here;
// a missing logo is non-fatal and the document renders without it.
func NewService(cfg ServiceConfig) *Service {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.RequestTimeout == 0 {
		cfg.RequestTimeout = defaultRequestTimeout
	}
	return &Service{
		composer:       cfg.Composer,
		renderer:       cfg.Renderer,
		dispatcher:     cfg.Dispatcher,
		mailConfig:     cfg.MailConfig,
		logoDataURI:    printing.LoadLogoDataURI(cfg.LogoPath, cfg.Logger),
		requestTimeout: cfg.RequestTimeout,
		logger:         cfg.Logger,
	}
}

// Generate runs the full pipeline for one report submission. The transport
// configuration is checked before any rendering starts, so a misconfigured
// deployment fails fast instead of wasting a browser launch.
func (s *Service) Generate(ctx context.Context, req *GenerateReportRequest) (*GenerateReportResult, error) {
	if req == nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "request body is required")
	}

	normalized, err := domain.Normalize(req.toRaw())
	if err != nil {
		return nil, err
	}

	if err := s.mailConfig.Validate(); err != nil {
		s.logger.Error("mail transport not configured", zap.Error(err))
		return nil, err
	}

	normalized.Incidents = s.sanitizeIncidents(req)

	doc, err := s.composer.Compose(normalized, s.logoDataURI)
	if err != nil {
		s.logger.Error("document composition failed", zap.Error(err))
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.requestTimeout)
	defer cancel()

	start := time.Now()
	artifact, err := s.renderer.Render(ctx, &printing.RenderRequest{
		HTML:  doc,
		Title: documentTitle,
	})
	if err != nil {
		s.logger.Error("report rendering failed",
			zap.String("recipient", normalized.Email),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
		return nil, err
	}

	receipt, err := s.dispatcher.Send(ctx, artifact, normalized.Email)
	if err != nil {
		return nil, err
	}

	s.logger.Info("shift report generated",
		zap.String("recipient", normalized.Email),
		zap.String("date", normalized.Date),
		zap.String("message_id", receipt.MessageID),
		zap.Int("page_count", artifact.PageCount),
		zap.Duration("elapsed", time.Since(start)))

	return &GenerateReportResult{
		MessageID: receipt.MessageID,
		PageCount: artifact.PageCount,
	}, nil
}

// sanitizeIncidents picks the rich-text field when present, falls back to the
// plain-text one, and always returns safe markup.
func (s *Service) sanitizeIncidents(req *GenerateReportRequest) string {
	source := req.IncidentsHTML
	if strings.TrimSpace(source) == "" {
		source = req.Incidents
	}
	sanitized := markup.Sanitize(source)
	if markup.IsEmpty(sanitized) {
		return emptyIncidentsPlaceholder
	}
	return sanitized
}
