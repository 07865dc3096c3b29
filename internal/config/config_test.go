package config_test

import (
	"testing"
	"time"

	"portfolio/internal/apperrors"
	"portfolio/internal/config"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("MAIL_DEFAULT_SENDER", "me@example.com")

	cfg := config.Load(config.New())

	assert.Equal(t, ":8080", cfg.AppPort)
	assert.Equal(t, "sqlite:///portfolio.db", cfg.DatabaseURL)
	assert.Equal(t, "smtp.gmail.com", cfg.Mail.Server)
	assert.Equal(t, 587, cfg.Mail.Port)
	assert.True(t, cfg.Mail.UseTLS)
	assert.Equal(t, "me@example.com", cfg.Mail.Recipient, "recipient falls back to the default sender")
	assert.Equal(t, 24*time.Hour, cfg.Session.TTL)
	assert.Equal(t, 10*time.Second, cfg.Mail.Timeout)
	assert.Equal(t, "smtp.gmail.com:587", cfg.Mail.Addr())
	assert.True(t, cfg.Session.CookieSecure)
}

func TestLoad_CookieSecureIsIndependentOfDebug(t *testing.T) {
	t.Setenv("DEBUG", "false")
	t.Setenv("SESSION_COOKIE_SECURE", "false")

	cfg := config.Load(config.New())
	assert.False(t, cfg.Debug)
	assert.False(t, cfg.Session.CookieSecure)
}

func TestValidate_MissingRequired(t *testing.T) {
	t.Setenv("MAIL_USERNAME", "")
	t.Setenv("MAIL_PASSWORD", "")
	t.Setenv("MAIL_DEFAULT_SENDER", "")
	t.Setenv("SECRET_KEY", "")

	err := config.Load(config.New()).Validate()
	assert.ErrorIs(t, err, apperrors.ErrConfiguration)
	assert.Contains(t, err.Error(), "MAIL_USERNAME")
	assert.Contains(t, err.Error(), "SECRET_KEY")
}

func TestValidate_Complete(t *testing.T) {
	t.Setenv("MAIL_USERNAME", "user")
	t.Setenv("MAIL_PASSWORD", "pass")
	t.Setenv("MAIL_DEFAULT_SENDER", "me@example.com")
	t.Setenv("SECRET_KEY", "secret")
	t.Setenv("MAIL_USE_TLS", "false")

	cfg := config.Load(config.New())
	assert.NoError(t, cfg.Validate())
	assert.False(t, cfg.Mail.UseTLS)
}

func TestAdminConfig_Configured(t *testing.T) {
	assert.False(t, config.AdminConfig{Username: "root"}.Configured())
	assert.False(t, config.AdminConfig{Password: "hunter2"}.Configured())
	assert.True(t, config.AdminConfig{Username: "root", Password: "hunter2"}.Configured())
}
