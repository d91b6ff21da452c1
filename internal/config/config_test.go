package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("AWS_REGION", "eu-central-1")
}

func TestLoadRequiresRegion(t *testing.T) {
	t.Setenv("AWS_REGION", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "AWS_REGION")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.AppPort)
	assert.Equal(t, "development", cfg.AppEnv)
	assert.False(t, cfg.IsProduction())
	assert.Equal(t, "otp", cfg.DynamoTables.OTP)
	assert.Equal(t, "leads", cfg.DynamoTables.Leads)
	assert.Equal(t, 60*time.Second, cfg.OTPTTL)
	assert.Equal(t, "magfa", cfg.SMSProvider)
	assert.Equal(t, "systemgroup.net", cfg.AllowedEmailDomain)
}

func TestLoadRejectsMalformedTTL(t *testing.T) {
	setRequired(t)
	t.Setenv("OTP_TTL_MS", "sixty")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRejectsNonPositiveTTL(t *testing.T) {
	setRequired(t)
	t.Setenv("OTP_TTL_MS", "0")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRejectsUnknownSMSProvider(t *testing.T) {
	setRequired(t)
	t.Setenv("SMS_PROVIDER", "carrier-pigeon")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadCustomTTL(t *testing.T) {
	setRequired(t)
	t.Setenv("OTP_TTL_MS", "120000")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 2*time.Minute, cfg.OTPTTL)
}
