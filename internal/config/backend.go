package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/Netflix/go-env"
)

// DevSecretKey signs fake backend tokens when SECRET_KEY is not set. Only accepted in dev and test.
const DevSecretKey = "campus-dev-secret-key-not-for-production"

// BackendConfig configures the fake backend used for local development and tests
type BackendConfig struct {
	Environment       string        `env:"ENVIRONMENT,default=dev"`
	Host              string        `env:"HOST,default=127.0.0.1"`
	Port              int           `env:"PORT,default=8085"`
	LogLevel          string        `env:"LOG_LEVEL,default=debug"`
	SecretKey         string        `env:"SECRET_KEY"`
	AllowedOrigins    []string      `env:"ALLOWED_ORIGINS,separator=|"`
	RateLimitRPS      int32         `env:"RATE_LIMIT_RPS,default=100"`
	RateLimitBurst    int32         `env:"RATE_LIMIT_BURST,default=20"`
	ReadTimeout       time.Duration `env:"READ_TIMEOUT,default=15s"`
	WriteTimeout      time.Duration `env:"WRITE_TIMEOUT,default=15s"`
	IdleTimeout       time.Duration `env:"IDLE_TIMEOUT,default=60s"`
	AccessTokenExpiry time.Duration `env:"ACCESS_TOKEN_EXPIRY,default=30m"`
}

const (
	// ServerShutdownTimeout is the timeout for graceful server shutdown
	ServerShutdownTimeout = 10 * time.Second

	// CORSMaxAgeInSeconds is how long browsers may cache preflight responses
	CORSMaxAgeInSeconds = 86400
)

func NewBackendConfig() (*BackendConfig, error) {
	var cfg BackendConfig

	_, err := env.UnmarshalFromEnviron(&cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal environment variables: %w", err)
	}

	if err := validateBackendConfig(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

func validateBackendConfig(cfg *BackendConfig) error {
	if !validEnvs[cfg.Environment] {
		return fmt.Errorf("invalid environment '%s'. Valid environments: dev, test, perf, staging, prod", cfg.Environment)
	}

	if cfg.Port < 1 || cfg.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", cfg.Port)
	}

	if cfg.SecretKey == "" {
		if cfg.Environment != "dev" && cfg.Environment != "test" {
			return fmt.Errorf("SECRET_KEY is required in the %s environment", cfg.Environment)
		}
		cfg.SecretKey = DevSecretKey
	}

	if cfg.ReadTimeout <= 0 {
		return fmt.Errorf("read timeout must be positive, got %v", cfg.ReadTimeout)
	}
	if cfg.WriteTimeout <= 0 {
		return fmt.Errorf("write timeout must be positive, got %v", cfg.WriteTimeout)
	}
	if cfg.IdleTimeout <= 0 {
		return fmt.Errorf("idle timeout must be positive, got %v", cfg.IdleTimeout)
	}
	if cfg.AccessTokenExpiry <= 0 {
		return fmt.Errorf("access token expiry must be positive, got %v", cfg.AccessTokenExpiry)
	}

	origins := make([]string, 0, len(cfg.AllowedOrigins))
	for _, origin := range cfg.AllowedOrigins {
		if o := strings.TrimSpace(origin); o != "" {
			origins = append(origins, o)
		}
	}
	// default to all origins when not in prod/staging
	if len(origins) == 0 {
		if cfg.Environment == "prod" || cfg.Environment == "staging" {
			return fmt.Errorf("ALLOWED_ORIGINS is required in the %s environment", cfg.Environment)
		}
		origins = []string{"*"}
	}
	cfg.AllowedOrigins = origins

	return nil
}
