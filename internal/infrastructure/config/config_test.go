package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "guardia-backend", cfg.App.Name)
	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, "stdout", cfg.Log.Output)
	assert.Equal(t, 465, cfg.Mail.Port)
	assert.Equal(t, 30*time.Second, cfg.Render.LoadTimeout)
	assert.Equal(t, 60*time.Second, cfg.Render.RequestTimeout)
	assert.Greater(t, cfg.HTTP.WriteTimeout, cfg.Render.RequestTimeout)
	assert.Empty(t, cfg.HTTP.CORSAllowOrigins)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("GUARDIA_APP_PORT", "9090")
	t.Setenv("GUARDIA_MAIL_HOST", "smtp.hospital.org")
	t.Setenv("GUARDIA_RENDER_CHROME_PATH", "/opt/headless-shell/headless-shell")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.App.Port)
	assert.Equal(t, "smtp.hospital.org", cfg.Mail.Host)
	assert.Equal(t, "/opt/headless-shell/headless-shell", cfg.Render.ChromePath)
}

func TestValidate_TimeoutOrdering(t *testing.T) {
	cfg := &Config{}
	applyDefaults(cfg)
	cfg.Render.LoadTimeout = 2 * time.Minute
	cfg.Render.RequestTimeout = time.Minute

	err := cfg.validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load_timeout")
}

func TestValidate_Production(t *testing.T) {
	base := func() *Config {
		cfg := &Config{}
		applyDefaults(cfg)
		cfg.App.Env = "production"
		cfg.JWT.Secret = "0123456789abcdef0123456789abcdef"
		return cfg
	}

	t.Run("valid production config", func(t *testing.T) {
		assert.NoError(t, base().validate())
	})

	t.Run("missing jwt secret", func(t *testing.T) {
		cfg := base()
		cfg.JWT.Secret = ""
		require.Error(t, cfg.validate())
	})

	t.Run("short jwt secret", func(t *testing.T) {
		cfg := base()
		cfg.JWT.Secret = "short"
		require.Error(t, cfg.validate())
	})

	t.Run("wildcard cors origin", func(t *testing.T) {
		cfg := base()
		cfg.HTTP.CORSAllowOrigins = []string{"*"}
		require.Error(t, cfg.validate())
	})
}
