package printing

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

const (
	defaultLoadTimeout = 30 * time.Second

	// A4 portrait with 20mm margins on every side
	paperWidthMM  = 210
	paperHeightMM = 297
	pageMarginMM  = 20

	// A4 at CSS pixel size, doubled density for crisp print output
	viewportWidth  = 794
	viewportHeight = 1123
	viewportScale  = 2.0
)

// ChromedpConfig contains configuration for the chromedp renderer
type ChromedpConfig struct {
	// Locator resolves the engine executable before each render
	Locator *EngineLocator
	// LoadTimeout bounds the content-load phase (default: 30s). Exceeding
	// it is a hard failure, never a retry.
	LoadTimeout time.Duration
	// NoSandbox runs the engine without sandbox (required for Docker/root)
	NoSandbox bool
	// Logger for debug output
	Logger *zap.Logger
}

// ChromedpRenderer renders composed documents to PDF by driving a headless
// Chrome subprocess over the DevTools protocol. One subprocess is launched
// per Render call and torn down on every exit path; nothing is pooled, so a
// cancelled caller context kills the subprocess with it.
type ChromedpRenderer struct {
	config *ChromedpConfig
	logger *zap.Logger
}

// NewChromedpRenderer creates a new chromedp-based PDF renderer
func NewChromedpRenderer(config *ChromedpConfig) *ChromedpRenderer {
	if config == nil {
		config = &ChromedpConfig{}
	}
	if config.LoadTimeout == 0 {
		config.LoadTimeout = defaultLoadTimeout
	}
	if config.Locator == nil {
		config.Locator = NewEngineLocator(LocatorConfig{})
	}
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChromedpRenderer{
		config: config,
		logger: logger,
	}
}

// Render converts a composed document to a fixed-page-size PDF artifact.
// A single attempt is made; on failure the caller may resubmit.
func (r *ChromedpRenderer) Render(ctx context.Context, req *RenderRequest) (*RenderedArtifact, error) {
	if req == nil {
		return nil, NewRenderError(ErrCodeInvalidHTML, "render request is nil", nil)
	}
	if strings.TrimSpace(req.HTML) == "" {
		return nil, NewRenderError(ErrCodeInvalidHTML, "document content is empty", nil)
	}

	execPath, err := r.config.Locator.Resolve()
	if err != nil {
		return nil, err
	}

	startTime := time.Now()

	timeout := req.Timeout
	if timeout == 0 {
		timeout = r.config.LoadTimeout
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.ExecPath(execPath),
		chromedp.Flag("no-first-run", true),
		chromedp.Flag("disable-default-apps", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-dev-shm-usage", true), // Important for Docker
		chromedp.Flag("disable-background-networking", true),
		chromedp.Flag("disable-sync", true),
		chromedp.Flag("font-render-hinting", "none"),
	)
	if r.config.NoSandbox {
		opts = append(opts, chromedp.Flag("no-sandbox", true))
	}

	// Deriving the allocator from the caller's context ties the subprocess
	// lifetime to the request: cancellation or the deferred cancels below
	// terminate it on every exit path.
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	defer allocCancel()

	browserCtx, browserCancel := chromedp.NewContext(allocCtx,
		chromedp.WithLogf(func(format string, args ...interface{}) {
			r.logger.Debug(fmt.Sprintf(format, args...))
		}),
	)
	defer browserCancel()

	// Phase 1: open the page, set content, wait for readiness. This phase
	// carries its own hard deadline.
	loadCtx, loadCancel := context.WithTimeout(browserCtx, timeout)
	defer loadCancel()

	err = chromedp.Run(loadCtx,
		chromedp.EmulateViewport(viewportWidth, viewportHeight, chromedp.EmulateScale(viewportScale)),
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, req.HTML).Do(ctx)
		}),
		chromedp.WaitReady("body", chromedp.ByQuery),
	)
	if err != nil {
		if errors.Is(loadCtx.Err(), context.DeadlineExceeded) {
			return nil, NewRenderError(ErrCodeRenderTimeout,
				fmt.Sprintf("document load timed out after %v", timeout), err)
		}
		if errors.Is(ctx.Err(), context.Canceled) {
			return nil, NewRenderError(ErrCodeRenderTimeout, "rendering was cancelled", err)
		}
		r.logger.Error("document load failed", zap.Error(err))
		return nil, NewRenderError(ErrCodeRenderFailed, "document load failed", err)
	}

	// Phase 2: capture. No deadline of its own beyond the caller's context.
	var pdfData []byte
	err = chromedp.Run(browserCtx,
		chromedp.ActionFunc(func(ctx context.Context) error {
			data, _, err := page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(mmToInches(paperWidthMM)).
				WithPaperHeight(mmToInches(paperHeightMM)).
				WithMarginTop(mmToInches(pageMarginMM)).
				WithMarginRight(mmToInches(pageMarginMM)).
				WithMarginBottom(mmToInches(pageMarginMM)).
				WithMarginLeft(mmToInches(pageMarginMM)).
				Do(ctx)
			if err != nil {
				return err
			}
			pdfData = data
			return nil
		}),
	)
	if err != nil {
		if errors.Is(ctx.Err(), context.Canceled) {
			return nil, NewRenderError(ErrCodeRenderTimeout, "rendering was cancelled", err)
		}
		r.logger.Error("PDF capture failed", zap.Error(err))
		return nil, NewRenderError(ErrCodeRenderFailed, "PDF capture failed", err)
	}

	if len(pdfData) == 0 {
		return nil, NewRenderError(ErrCodeRenderFailed, "generated PDF is empty", nil)
	}

	pageCount := estimatePageCount(pdfData)
	renderDuration := time.Since(startTime)

	r.logger.Info("PDF rendered successfully",
		zap.Int("bytes", len(pdfData)),
		zap.Int("pages", pageCount),
		zap.Duration("duration", renderDuration))

	return &RenderedArtifact{
		Data:           pdfData,
		ContentType:    "application/pdf",
		PageCount:      pageCount,
		RenderDuration: renderDuration,
	}, nil
}

// mmToInches converts millimeters to inches
func mmToInches(mm float64) float64 {
	return mm / 25.4
}

// estimatePageCount estimates the page count from PDF data
// This is a simple heuristic that counts "/Type /Page" occurrences
func estimatePageCount(pdfData []byte) int {
	count := bytes.Count(pdfData, []byte("/Type /Page"))
	// Each page has one "/Type /Page" but the count also includes "/Type /Pages"
	// So we subtract the parent Pages object occurrences
	parentCount := bytes.Count(pdfData, []byte("/Type /Pages"))
	count = count - parentCount
	return max(count, 1)
}

// Ensure ChromedpRenderer implements PDFRenderer
var _ PDFRenderer = (*ChromedpRenderer)(nil)
