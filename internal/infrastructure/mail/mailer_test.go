package mail

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guardia/backend/internal/infrastructure/printing"
)

func completeConfig() Config {
	return Config{
		Host:     "smtp.hospital.org",
		Port:     465,
		Username: "guardia",
		Password: "secret",
		From:     "guardia@hospital.org",
	}
}

func testArtifact() *printing.RenderedArtifact {
	return &printing.RenderedArtifact{
		Data:        []byte("%PDF-1.4 fake"),
		ContentType: "application/pdf",
		PageCount:   1,
	}
}

func TestConfig_Validate(t *testing.T) {
	t.Run("complete config passes", func(t *testing.T) {
		assert.NoError(t, completeConfig().Validate())
	})

	t.Run("names every missing setting", func(t *testing.T) {
		err := Config{}.Validate()
		require.Error(t, err)

		var cfgErr *ConfigError
		require.ErrorAs(t, err, &cfgErr)
		assert.ElementsMatch(t, []string{"host", "port", "user", "password", "from"}, cfgErr.Missing)
	})

	t.Run("never echoes credential values", func(t *testing.T) {
		cfg := completeConfig()
		cfg.Host = ""
		err := cfg.Validate()
		require.Error(t, err)
		assert.NotContains(t, err.Error(), "secret")
		assert.NotContains(t, err.Error(), "guardia@hospital.org")
	})
}

func TestSMTPDispatcher_RefusesIncompleteConfigBeforeAnyIO(t *testing.T) {
	d := NewSMTPDispatcher(Config{Host: "smtp.hospital.org"}, nil)

	_, err := d.Send(context.Background(), testArtifact(), "medico@hospital.org")
	require.Error(t, err)

	var cfgErr *ConfigError
	assert.ErrorAs(t, err, &cfgErr)
}

func TestSMTPDispatcher_BuildMessage(t *testing.T) {
	d := NewSMTPDispatcher(completeConfig(), nil)

	msg, messageID, err := d.buildMessage(testArtifact(), "medico@hospital.org")
	require.NoError(t, err)
	require.NotNil(t, msg)

	assert.True(t, strings.HasSuffix(messageID, "@smtp.hospital.org"), messageID)

	attachments := msg.GetAttachments()
	require.Len(t, attachments, 1)
	assert.Equal(t, "informe-guardia.pdf", attachments[0].Name)
}

func TestSMTPDispatcher_BuildMessageRejectsBadAddresses(t *testing.T) {
	t.Run("invalid recipient", func(t *testing.T) {
		d := NewSMTPDispatcher(completeConfig(), nil)
		_, _, err := d.buildMessage(testArtifact(), "not an address")
		require.Error(t, err)

		var deliveryErr *DeliveryError
		assert.ErrorAs(t, err, &deliveryErr)
	})

	t.Run("invalid sender", func(t *testing.T) {
		cfg := completeConfig()
		cfg.From = "broken sender"
		d := NewSMTPDispatcher(cfg, nil)
		_, _, err := d.buildMessage(testArtifact(), "medico@hospital.org")
		require.Error(t, err)

		var cfgErr *ConfigError
		assert.ErrorAs(t, err, &cfgErr)
	})
}
