package printing

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	// The orchestrator must never leak the goroutines that supervise its
	// rendering subprocess.
	goleak.VerifyTestMain(m)
}

func TestChromedpRenderer_Defaults(t *testing.T) {
	r := NewChromedpRenderer(nil)
	assert.Equal(t, 30*time.Second, r.config.LoadTimeout)
	assert.NotNil(t, r.config.Locator)
	assert.NotNil(t, r.logger)
}

func TestChromedpRenderer_RejectsInvalidRequests(t *testing.T) {
	r := NewChromedpRenderer(nil)

	t.Run("nil request", func(t *testing.T) {
		_, err := r.Render(context.Background(), nil)
		var renderErr *RenderError
		require.ErrorAs(t, err, &renderErr)
		assert.Equal(t, ErrCodeInvalidHTML, renderErr.Code)
	})

	t.Run("empty document", func(t *testing.T) {
		_, err := r.Render(context.Background(), &RenderRequest{HTML: "  \n "})
		var renderErr *RenderError
		require.ErrorAs(t, err, &renderErr)
		assert.Equal(t, ErrCodeInvalidHTML, renderErr.Code)
	})
}

func TestChromedpRenderer_LocatorFailureShortCircuits(t *testing.T) {
	locator := NewEngineLocator(LocatorConfig{})
	locator.stat = failingStat
	locator.lookPath = failingLookPath

	r := NewChromedpRenderer(&ChromedpConfig{Locator: locator})

	// No subprocess may be launched when no engine can be resolved.
	_, err := r.Render(context.Background(), &RenderRequest{HTML: "<html><body>x</body></html>"})
	var renderErr *RenderError
	require.ErrorAs(t, err, &renderErr)
	assert.Equal(t, ErrCodeEngineNotFound, renderErr.Code)
}

func TestMMToInches(t *testing.T) {
	assert.InDelta(t, 0.787, mmToInches(20), 0.001)
	assert.InDelta(t, 8.267, mmToInches(210), 0.001)
}

func TestEstimatePageCount(t *testing.T) {
	pdf := []byte("%PDF-1.4 /Type /Pages /Type /Page /Type /Page trailer")
	assert.Equal(t, 2, estimatePageCount(pdf))
	assert.Equal(t, 1, estimatePageCount([]byte("not a pdf")))
}
