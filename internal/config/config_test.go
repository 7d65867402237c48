package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "")
	t.Setenv("OTP_TTL", "")
	t.Setenv("UPLOAD_MAX_BYTES", "")

	cfg := Load()
	assert.Equal(t, "3000", cfg.AppPort)
	assert.Equal(t, "development", cfg.AppEnv)
	assert.Equal(t, int64(50<<20), cfg.UploadMaxBytes)
	assert.Equal(t, 10*time.Minute, cfg.OTPTTL)
	assert.Equal(t, 5, cfg.OTPMaxAttempts)
	assert.Equal(t, "memory", cfg.OTPStore)
	assert.False(t, cfg.SMSEnabled)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("APP_ENV", "Production")
	t.Setenv("OTP_TTL", "90s")
	t.Setenv("OTP_MAX_ATTEMPTS", "3")
	t.Setenv("UPLOAD_MAX_BYTES", "1024")
	t.Setenv("DYNAMO_ENABLED", "false")
	t.Setenv("ALLOWED_ORIGINS", "https://addisnest.com,https://admin.addisnest.com")

	cfg := Load()
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 90*time.Second, cfg.OTPTTL)
	assert.Equal(t, 3, cfg.OTPMaxAttempts)
	assert.Equal(t, int64(1024), cfg.UploadMaxBytes)
	assert.False(t, cfg.DynamoEnabled)
	assert.Equal(t, []string{"https://addisnest.com", "https://admin.addisnest.com"}, cfg.AllowedOrigins)
}

func TestLoad_MalformedValuesFallBack(t *testing.T) {
	t.Setenv("OTP_TTL", "ten minutes")
	t.Setenv("OTP_MAX_ATTEMPTS", "five")

	cfg := Load()
	assert.Equal(t, 10*time.Minute, cfg.OTPTTL)
	assert.Equal(t, 5, cfg.OTPMaxAttempts)
}
