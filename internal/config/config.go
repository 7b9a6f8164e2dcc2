package config

import (
	"fmt"
	"log"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Provider exposes the settings other packages depend on, so tests can pass a
// small stub instead of a full Config.
type Provider interface {
	GetAppAddr() string
	GetAppBaseURL() string
	GetSessionSecret() string
	GetSessionIdleTTL() time.Duration
	GetSubmitWait() time.Duration
	GetAuthProvider() string
	GetTokenSecret() string
	GetTokenTTL() time.Duration
	GetDBUrl() string
	GetDBUser() string
	GetDBPass() string
	GetDBNs() string
	GetDBDb() string
	GetDBAccess() string
	GetEmailProvider() string
	GetEmailAPIKey() string
	GetEmailSender() string
	GetEmailOutboxDir() string
}

// Config holds all configuration for the application.
type Config struct {
	AppAddr        string        `env:"APP_ADDR" envDefault:":8080"`
	AppBaseURL     string        `env:"APP_BASE_URL" envDefault:"http://localhost:8080" validate:"required,url"`
	SessionSecret  string        `env:"SESSION_SECRET" validate:"required,min=16"`
	SessionIdleTTL time.Duration `env:"SESSION_IDLE_TTL" envDefault:"30m" validate:"gt=0"`
	SubmitWait     time.Duration `env:"SUBMIT_WAIT" envDefault:"10s" validate:"gt=0"`

	LogFormat string `env:"LOG_FORMAT" envDefault:"text" validate:"oneof=text json"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"debug" validate:"oneof=debug info warn error"`

	AuthProvider string        `env:"AUTH_PROVIDER" envDefault:"memory" validate:"oneof=memory surreal"`
	TokenSecret  string        `env:"TOKEN_SECRET" validate:"required_if=AuthProvider memory"`
	TokenTTL     time.Duration `env:"TOKEN_TTL" envDefault:"24h" validate:"gt=0"`

	DBUrl    string `env:"SURREAL_URL" validate:"required_if=AuthProvider surreal"`
	DBUser   string `env:"SURREAL_USER"`
	DBPass   string `env:"SURREAL_PASS"`
	DBNs     string `env:"SURREAL_NS" validate:"required_if=AuthProvider surreal"`
	DBDb     string `env:"SURREAL_DB" validate:"required_if=AuthProvider surreal"`
	DBAccess string `env:"SURREAL_ACCESS" envDefault:"account"`

	EmailProvider  string `env:"EMAIL_PROVIDER" envDefault:"log" validate:"oneof=log resend outbox"`
	EmailAPIKey    string `env:"EMAIL_API_KEY" validate:"required_if=EmailProvider resend"`
	EmailSender    string `env:"EMAIL_SENDER"`
	EmailOutboxDir string `env:"EMAIL_OUTBOX_DIR" envDefault:"outbox"`
}

var validate = validator.New()

// New loads configuration from a .env file (when present) and the environment,
// then validates it.
func New() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}
	return FromEnv()
}

// FromEnv parses and validates configuration from the process environment only.
func FromEnv() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the struct tags on Config.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

func (c *Config) GetAppAddr() string               { return c.AppAddr }
func (c *Config) GetAppBaseURL() string            { return c.AppBaseURL }
func (c *Config) GetSessionSecret() string         { return c.SessionSecret }
func (c *Config) GetSessionIdleTTL() time.Duration { return c.SessionIdleTTL }
func (c *Config) GetSubmitWait() time.Duration     { return c.SubmitWait }
func (c *Config) GetAuthProvider() string          { return c.AuthProvider }
func (c *Config) GetTokenSecret() string           { return c.TokenSecret }
func (c *Config) GetTokenTTL() time.Duration       { return c.TokenTTL }
func (c *Config) GetDBUrl() string                 { return c.DBUrl }
func (c *Config) GetDBUser() string                { return c.DBUser }
func (c *Config) GetDBPass() string                { return c.DBPass }
func (c *Config) GetDBNs() string                  { return c.DBNs }
func (c *Config) GetDBDb() string                  { return c.DBDb }
func (c *Config) GetDBAccess() string              { return c.DBAccess }
func (c *Config) GetEmailProvider() string         { return c.EmailProvider }
func (c *Config) GetEmailAPIKey() string           { return c.EmailAPIKey }
func (c *Config) GetEmailSender() string           { return c.EmailSender }
func (c *Config) GetEmailOutboxDir() string        { return c.EmailOutboxDir }
