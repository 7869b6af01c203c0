package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.AppPort)
	assert.Equal(t, "expertcall", cfg.DatabaseName)
	assert.Equal(t, 30, cfg.SlotStepMinutes)
	assert.Equal(t, "00:00", cfg.DefaultWorkEnd)
	assert.Equal(t, "/metrics", cfg.MetricsPath)
	assert.Empty(t, cfg.TrustedProxies)
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	t.Setenv("APP_PORT", "9090")
	t.Setenv("PAYMENT_HOLD_MINUTES", "5")
	t.Setenv("DEFAULT_WORK_START", "8am")
	t.Setenv("TRUSTED_PROXIES", "10.0.0.0/8,192.168.1.1")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.AppPort)
	assert.Equal(t, 5, cfg.PaymentHoldMinutes)
	assert.Equal(t, "8am", cfg.DefaultWorkStart)
	assert.Equal(t, []string{"10.0.0.0/8", "192.168.1.1"}, cfg.TrustedProxies)
}

func TestIsProduction(t *testing.T) {
	prev := AppConfig
	t.Cleanup(func() { AppConfig = prev })

	AppConfig.Env = "production"
	assert.True(t, IsProduction())
	AppConfig.Env = "development"
	assert.False(t, IsProduction())
}
