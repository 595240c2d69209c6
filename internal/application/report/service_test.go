package report

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guardia/backend/internal/domain/shared"
	"github.com/guardia/backend/internal/infrastructure/mail"
	"github.com/guardia/backend/internal/infrastructure/printing"
)

type fakeRenderer struct {
	artifact *printing.RenderedArtifact
	err      error
	calls    int
	lastHTML string
}

func (f *fakeRenderer) Render(_ context.Context, req *printing.RenderRequest) (*printing.RenderedArtifact, error) {
	f.calls++
	if req != nil {
		f.lastHTML = req.HTML
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.artifact, nil
}

type fakeDispatcher struct {
	receipt       *mail.DeliveryReceipt
	err           error
	calls         int
	lastRecipient string
	lastArtifact  *printing.RenderedArtifact
}

func (f *fakeDispatcher) Send(_ context.Context, artifact *printing.RenderedArtifact, recipient string) (*mail.DeliveryReceipt, error) {
	f.calls++
	f.lastRecipient = recipient
	f.lastArtifact = artifact
	if f.err != nil {
		return nil, f.err
	}
	return f.receipt, nil
}

func completeMailConfig() mail.Config {
	return mail.Config{
		Host:     "smtp.hospital.org",
		Port:     465,
		Username: "guardia",
		Password: "secret",
		From:     "guardia@hospital.org",
	}
}

func validRequest() *GenerateReportRequest {
	return &GenerateReportRequest{
		Email:     "medico@hospital.org",
		Date:      "2026-03-05",
		ShiftLead: "Dra. Serrano",
		Tests: []any{
			map[string]any{"tipo": "TAC", "cantidad": float64(2)},
		},
		PendingAdmissions: float64(4),
		IncidentsHTML:     "<p>Paciente <b>estable</b></p>",
	}
}

func newTestService(t *testing.T, renderer *fakeRenderer, dispatcher *fakeDispatcher, mailCfg mail.Config) *Service {
	t.Helper()
	composer, err := printing.NewComposer()
	require.NoError(t, err)
	return NewService(ServiceConfig{
		Composer:   composer,
		Renderer:   renderer,
		Dispatcher: dispatcher,
		MailConfig: mailCfg,
	})
}

func TestService_Generate(t *testing.T) {
	renderer := &fakeRenderer{artifact: &printing.RenderedArtifact{
		Data:        []byte("%PDF-1.4 fake"),
		ContentType: "application/pdf",
		PageCount:   1,
	}}
	dispatcher := &fakeDispatcher{receipt: &mail.DeliveryReceipt{
		Accepted:  []string{"medico@hospital.org"},
		MessageID: "abc@smtp.hospital.org",
	}}
	svc := newTestService(t, renderer, dispatcher, completeMailConfig())

	result, err := svc.Generate(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, "abc@smtp.hospital.org", result.MessageID)
	assert.Equal(t, 1, result.PageCount)
	assert.Equal(t, 1, renderer.calls)
	assert.Equal(t, 1, dispatcher.calls)
	assert.Equal(t, "medico@hospital.org", dispatcher.lastRecipient)
	assert.Same(t, renderer.artifact, dispatcher.lastArtifact)

	// The composed document carries the normalized date, the sanitized
	// incidents and the pending item summary.
	assert.Contains(t, renderer.lastHTML, "05/03/2026")
	assert.Contains(t, renderer.lastHTML, "<p>Paciente <b>estable</b></p>")
	assert.Contains(t, renderer.lastHTML, "TAC: 2")
}

func TestService_Generate_ValidationStopsPipeline(t *testing.T) {
	renderer := &fakeRenderer{}
	dispatcher := &fakeDispatcher{}
	svc := newTestService(t, renderer, dispatcher, completeMailConfig())

	req := validRequest()
	req.Email = "not-an-address"
	_, err := svc.Generate(context.Background(), req)

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "VALIDATION_ERROR", domainErr.Code)
	assert.Zero(t, renderer.calls)
	assert.Zero(t, dispatcher.calls)
}

func TestService_Generate_NilRequest(t *testing.T) {
	svc := newTestService(t, &fakeRenderer{}, &fakeDispatcher{}, completeMailConfig())

	_, err := svc.Generate(context.Background(), nil)

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "VALIDATION_ERROR", domainErr.Code)
}

func TestService_Generate_TransportConfigCheckedBeforeRender(t *testing.T) {
	renderer := &fakeRenderer{}
	dispatcher := &fakeDispatcher{}
	svc := newTestService(t, renderer, dispatcher, mail.Config{Host: "smtp.hospital.org"})

	_, err := svc.Generate(context.Background(), validRequest())

	var cfgErr *mail.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Zero(t, renderer.calls, "no render may start with an unusable transport")
	assert.Zero(t, dispatcher.calls)
}

func TestService_Generate_RenderFailureSkipsDispatch(t *testing.T) {
	renderer := &fakeRenderer{err: printing.NewRenderError(
		printing.ErrCodeRenderTimeout, "content load timed out", context.DeadlineExceeded)}
	dispatcher := &fakeDispatcher{}
	svc := newTestService(t, renderer, dispatcher, completeMailConfig())

	_, err := svc.Generate(context.Background(), validRequest())

	var renderErr *printing.RenderError
	require.ErrorAs(t, err, &renderErr)
	assert.Equal(t, printing.ErrCodeRenderTimeout, renderErr.Code)
	assert.Zero(t, dispatcher.calls)
}

func TestService_Generate_DeliveryFailureSurfaces(t *testing.T) {
	renderer := &fakeRenderer{artifact: &printing.RenderedArtifact{Data: []byte("%PDF-1.4")}}
	dispatcher := &fakeDispatcher{err: &mail.DeliveryError{
		Message: "mail transport rejected the send",
		Cause:   errors.New("550 mailbox unavailable"),
	}}
	svc := newTestService(t, renderer, dispatcher, completeMailConfig())

	_, err := svc.Generate(context.Background(), validRequest())

	var deliveryErr *mail.DeliveryError
	assert.ErrorAs(t, err, &deliveryErr)
}

func TestService_SanitizeIncidents(t *testing.T) {
	svc := newTestService(t, &fakeRenderer{}, &fakeDispatcher{}, completeMailConfig())

	t.Run("rich text preferred over plain text", func(t *testing.T) {
		got := svc.sanitizeIncidents(&GenerateReportRequest{
			Incidents:     "plain",
			IncidentsHTML: "<p>rich</p>",
		})
		assert.Equal(t, "<p>rich</p>", got)
	})

	t.Run("plain text fallback is escaped", func(t *testing.T) {
		got := svc.sanitizeIncidents(&GenerateReportRequest{
			Incidents: "fiebre > 39",
		})
		assert.Equal(t, "fiebre &gt; 39", got)
	})

	t.Run("scripts are stripped", func(t *testing.T) {
		got := svc.sanitizeIncidents(&GenerateReportRequest{
			IncidentsHTML: `<p>ok</p><script>alert(1)</script>`,
		})
		assert.Equal(t, "<p>ok</p>", got)
	})

	t.Run("empty input becomes the placeholder", func(t *testing.T) {
		assert.Equal(t, emptyIncidentsPlaceholder, svc.sanitizeIncidents(&GenerateReportRequest{}))
		assert.Equal(t, emptyIncidentsPlaceholder, svc.sanitizeIncidents(&GenerateReportRequest{
			IncidentsHTML: "<p>&nbsp;</p>",
		}))
	})
}
