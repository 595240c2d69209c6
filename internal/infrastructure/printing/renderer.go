package printing

import (
	"context"
	"time"
)

// RenderRequest contains the parameters for rendering a composed document
type RenderRequest struct {
	// HTML is the complete composed document to render
	HTML string
	// Title for the PDF document metadata
	Title string
	// Timeout overrides the default content-load timeout
	Timeout time.Duration
}

// RenderedArtifact is the transient output of one render call. It is handed
// to the delivery dispatcher and discarded; nothing is written to disk.
type RenderedArtifact struct {
	// Data is the raw PDF file content
	Data []byte
	// ContentType of the artifact
	ContentType string
	// PageCount is the number of pages in the PDF
	PageCount int
	// RenderDuration is how long the rendering took
	RenderDuration time.Duration
}

// PDFRenderer defines the interface for rendering a composed document to PDF
type PDFRenderer interface {
	// Render converts a composed document to a PDF artifact
	Render(ctx context.Context, req *RenderRequest) (*RenderedArtifact, error)
}

// RenderError represents an error during PDF rendering
type RenderError struct {
	Code    string
	Message string
	Cause   error
}

func (e *RenderError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *RenderError) Unwrap() error {
	return e.Cause
}

// Error codes for rendering failures
const (
	ErrCodeRenderTimeout  = "RENDER_TIMEOUT"
	ErrCodeRenderFailed   = "RENDER_FAILED"
	ErrCodeInvalidHTML    = "INVALID_HTML"
	ErrCodeEngineNotFound = "ENGINE_NOT_FOUND"
)

// NewRenderError creates a new RenderError
func NewRenderError(code, message string, cause error) *RenderError {
	return &RenderError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}
