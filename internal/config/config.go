package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/Netflix/go-env"
)

// Config is the console configuration
type Config struct {
	Environment      string        `env:"ENVIRONMENT,default=dev"`
	LogLevel         string        `env:"LOG_LEVEL,default=info"`
	LogFile          string        `env:"LOG_FILE"` // optional; logs go to stderr when unset
	SecurityBaseURL  string        `env:"SECURITY_BASE_URL,default=https://microservicioseguridad-ebfae0aabrgedygw.brazilsouth-01.azurewebsites.net/api"`
	PrincipalBaseURL string        `env:"PRINCIPAL_BASE_URL,default=https://microservicioprincipal-grbfdudgbwh2ebag.brazilsouth-01.azurewebsites.net/api"`
	RequestTimeout   time.Duration `env:"REQUEST_TIMEOUT,default=10s"`
	SessionDB        string        `env:"SESSION_DB,default=campus-session.db"`
}

var validEnvs = map[string]bool{
	"dev":     true,
	"test":    true,
	"perf":    true,
	"prod":    true,
	"staging": true,
}

func NewConfig() (*Config, error) {
	var cfg Config

	_, err := env.UnmarshalFromEnviron(&cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal environment variables: %w", err)
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

func validateConfig(cfg *Config) error {
	if !validEnvs[cfg.Environment] {
		return fmt.Errorf("invalid environment '%s'. Valid environments: dev, test, perf, staging, prod", cfg.Environment)
	}

	if cfg.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be positive, got %v", cfg.RequestTimeout)
	}

	if err := validateBaseURL("SECURITY_BASE_URL", cfg.SecurityBaseURL); err != nil {
		return err
	}
	if err := validateBaseURL("PRINCIPAL_BASE_URL", cfg.PrincipalBaseURL); err != nil {
		return err
	}

	if cfg.SessionDB == "" {
		return fmt.Errorf("SESSION_DB cannot be empty")
	}

	return nil
}

func validateBaseURL(name, raw string) error {
	if raw == "" {
		return fmt.Errorf("%s cannot be empty", name)
	}

	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%s is not a valid URL: %w", name, err)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%s must use http or https, got %q", name, u.Scheme)
	}

	if u.Host == "" {
		return fmt.Errorf("%s must include a host", name)
	}

	return nil
}
