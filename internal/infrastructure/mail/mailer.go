// Package mail implements the outbound delivery of rendered shift reports
// over SMTP.
package mail

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/guardia/backend/internal/infrastructure/printing"
	"github.com/wneessen/go-mail"
	"go.uber.org/zap"
)

const (
	// fixed message content for every report delivery
	messageSubject = "Informe de guardia"
	messageBody    = "Se adjunta el informe de guardia en formato PDF."
	attachmentName = "informe-guardia.pdf"

	// implicitTLSPort is the standard secure SMTP submission port; the
	// transport uses implicit TLS there and opportunistic STARTTLS elsewhere
	implicitTLSPort = 465

	dialTimeout = 30 * time.Second
)

// Config holds the outbound mail transport settings
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Validate reports whether the transport configuration is complete. It names
// the missing settings but never echoes their values.
func (c Config) Validate() error {
	var missing []string
	if c.Host == "" {
		missing = append(missing, "host")
	}
	if c.Port == 0 {
		missing = append(missing, "port")
	}
	if c.Username == "" {
		missing = append(missing, "user")
	}
	if c.Password == "" {
		missing = append(missing, "password")
	}
	if c.From == "" {
		missing = append(missing, "from")
	}
	if len(missing) > 0 {
		return &ConfigError{Missing: missing}
	}
	return nil
}

// ConfigError indicates an incomplete transport configuration. It is raised
// before any network I/O is attempted.
type ConfigError struct {
	Missing []string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("mail transport is not configured (missing: %v)", e.Missing)
}

// DeliveryError indicates that the transport rejected or failed the send
type DeliveryError struct {
	Message string
	Cause   error
}

func (e *DeliveryError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *DeliveryError) Unwrap() error {
	return e.Cause
}

// DeliveryReceipt is the structured result of one transport submission
type DeliveryReceipt struct {
	Accepted  []string `json:"accepted"`
	Rejected  []string `json:"rejected"`
	MessageID string   `json:"messageId"`
}

// Dispatcher hands a rendered artifact to the outbound transport
type Dispatcher interface {
	Send(ctx context.Context, artifact *printing.RenderedArtifact, recipient string) (*DeliveryReceipt, error)
}

// SMTPDispatcher delivers reports through a configured SMTP transport. One
// message per call, no retries; the caller resubmits on failure.
type SMTPDispatcher struct {
	config Config
	logger *zap.Logger
}

// NewSMTPDispatcher creates a new SMTPDispatcher
func NewSMTPDispatcher(config Config, logger *zap.Logger) *SMTPDispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SMTPDispatcher{
		config: config,
		logger: logger,
	}
}

// Send submits one email with the artifact attached. Configuration is
// checked before any network I/O.
func (d *SMTPDispatcher) Send(ctx context.Context, artifact *printing.RenderedArtifact, recipient string) (*DeliveryReceipt, error) {
	if err := d.config.Validate(); err != nil {
		return nil, err
	}

	msg, messageID, err := d.buildMessage(artifact, recipient)
	if err != nil {
		return nil, err
	}

	opts := []mail.Option{
		mail.WithPort(d.config.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(d.config.Username),
		mail.WithPassword(d.config.Password),
		mail.WithTimeout(dialTimeout),
	}
	if d.config.Port == implicitTLSPort {
		opts = append(opts, mail.WithSSL())
	} else {
		opts = append(opts, mail.WithTLSPolicy(mail.TLSOpportunistic))
	}

	client, err := mail.NewClient(d.config.Host, opts...)
	if err != nil {
		return nil, &DeliveryError{Message: "failed to initialize mail transport", Cause: err}
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		d.logger.Error("report delivery failed",
			zap.String("recipient", recipient),
			zap.Error(err))
		return nil, &DeliveryError{Message: "mail transport rejected the send", Cause: err}
	}

	d.logger.Info("report delivered",
		zap.String("recipient", recipient),
		zap.String("message_id", messageID),
		zap.Int("attachment_bytes", len(artifact.Data)))

	return &DeliveryReceipt{
		Accepted:  []string{recipient},
		Rejected:  []string{},
		MessageID: messageID,
	}, nil
}

// buildMessage assembles the fixed-subject message with the PDF attachment
func (d *SMTPDispatcher) buildMessage(artifact *printing.RenderedArtifact, recipient string) (*mail.Msg, string, error) {
	msg := mail.NewMsg()
	if err := msg.From(d.config.From); err != nil {
		return nil, "", &ConfigError{Missing: []string{"from"}}
	}
	if err := msg.To(recipient); err != nil {
		return nil, "", &DeliveryError{Message: "invalid recipient address", Cause: err}
	}

	messageID := fmt.Sprintf("%s@%s", uuid.NewString(), d.config.Host)
	msg.SetMessageIDWithValue(messageID)
	msg.Subject(messageSubject)
	msg.SetBodyString(mail.TypeTextPlain, messageBody)
	if err := msg.AttachReader(attachmentName, bytes.NewReader(artifact.Data),
		mail.WithFileContentType(mail.ContentType(artifact.ContentType))); err != nil {
		return nil, "", &DeliveryError{Message: "failed to attach report", Cause: err}
	}

	return msg, messageID, nil
}

// Ensure SMTPDispatcher implements Dispatcher
var _ Dispatcher = (*SMTPDispatcher)(nil)
