// Package config loads service configuration from the environment.
package config

import (
	"fmt"
	"strings"
	"time"

	"portfolio/internal/apperrors"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	AppPort     string
	DatabaseURL string
	Debug       bool
	LogLevel    string
	Mail        MailConfig
	Session     SessionConfig
	Admin       AdminConfig
	RabbitMQURL string
}

// MailConfig holds SMTP settings for the contact relay.
type MailConfig struct {
	Server        string
	Port          int
	UseTLS        bool
	Username      string
	Password      string
	DefaultSender string
	Recipient     string
	Timeout       time.Duration
}

// Addr returns the host:port of the SMTP server.
func (m MailConfig) Addr() string {
	return fmt.Sprintf("%s:%d", m.Server, m.Port)
}

// SessionConfig holds session signing and lifetime settings.
type SessionConfig struct {
	Secret        string
	TTL           time.Duration
	PruneSchedule string
	CookieSecure  bool // send cookies over HTTPS only
}

// AdminConfig holds the provisioning credentials. Both may be empty.
type AdminConfig struct {
	Username string
	Password string
}

// Configured reports whether both provisioning credentials are present.
func (a AdminConfig) Configured() bool {
	return a.Username != "" && a.Password != ""
}

// New returns a viper instance with defaults set and environment binding
// enabled. An optional .env file in the working directory is loaded first.
func New() *viper.Viper {
	// Missing .env is the normal production case.
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("APP_PORT", ":8080")
	v.SetDefault("DATABASE_URL", "sqlite:///portfolio.db")
	v.SetDefault("DEBUG", false)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("MAIL_SERVER", "smtp.gmail.com")
	v.SetDefault("MAIL_PORT", 587)
	v.SetDefault("MAIL_USE_TLS", true)
	v.SetDefault("MAIL_TIMEOUT", "10s")
	v.SetDefault("SESSION_TTL", "24h")
	v.SetDefault("SESSION_PRUNE_SCHEDULE", "@hourly")
	v.SetDefault("SESSION_COOKIE_SECURE", true)
	v.AutomaticEnv()
	return v
}

// Load reads the configuration from v. It does not check required keys; see
// Validate.
func Load(v *viper.Viper) *Config {
	cfg := &Config{
		AppPort:     v.GetString("APP_PORT"),
		DatabaseURL: v.GetString("DATABASE_URL"),
		Debug:       v.GetBool("DEBUG"),
		LogLevel:    v.GetString("LOG_LEVEL"),
		Mail: MailConfig{
			Server:        v.GetString("MAIL_SERVER"),
			Port:          v.GetInt("MAIL_PORT"),
			UseTLS:        v.GetBool("MAIL_USE_TLS"),
			Username:      v.GetString("MAIL_USERNAME"),
			Password:      v.GetString("MAIL_PASSWORD"),
			DefaultSender: v.GetString("MAIL_DEFAULT_SENDER"),
			Recipient:     v.GetString("MAIL_RECIPIENT"),
			Timeout:       v.GetDuration("MAIL_TIMEOUT"),
		},
		Session: SessionConfig{
			Secret:        v.GetString("SECRET_KEY"),
			TTL:           v.GetDuration("SESSION_TTL"),
			PruneSchedule: v.GetString("SESSION_PRUNE_SCHEDULE"),
			CookieSecure:  v.GetBool("SESSION_COOKIE_SECURE"),
		},
		Admin: AdminConfig{
			Username: strings.TrimSpace(v.GetString("ADMIN_USERNAME")),
			Password: v.GetString("ADMIN_PASSWORD"),
		},
		RabbitMQURL: v.GetString("RABBITMQ_URL"),
	}
	if cfg.Mail.Recipient == "" {
		cfg.Mail.Recipient = cfg.Mail.DefaultSender
	}
	return cfg
}

// Validate checks the keys the HTTP server cannot start without.
func (c *Config) Validate() error {
	required := []struct {
		key   string
		value string
	}{
		{"MAIL_USERNAME", c.Mail.Username},
		{"MAIL_PASSWORD", c.Mail.Password},
		{"MAIL_DEFAULT_SENDER", c.Mail.DefaultSender},
		{"SECRET_KEY", c.Session.Secret},
	}
	var missing []string
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			missing = append(missing, r.key)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing required environment variable(s): %s",
			apperrors.ErrConfiguration, strings.Join(missing, ", "))
	}
	if c.Session.TTL <= 0 {
		return fmt.Errorf("%w: SESSION_TTL must be positive", apperrors.ErrConfiguration)
	}
	if c.Mail.Timeout <= 0 {
		return fmt.Errorf("%w: MAIL_TIMEOUT must be positive", apperrors.ErrConfiguration)
	}
	return nil
}
