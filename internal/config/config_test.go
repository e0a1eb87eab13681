package config

import (
	"os"
	"testing"
	"time"
)

var consoleKeys = []string{
	"ENVIRONMENT", "LOG_LEVEL", "LOG_FILE", "SECURITY_BASE_URL",
	"PRINCIPAL_BASE_URL", "REQUEST_TIMEOUT", "SESSION_DB",
}

var backendKeys = []string{
	"ENVIRONMENT", "HOST", "PORT", "LOG_LEVEL", "SECRET_KEY", "ALLOWED_ORIGINS",
	"RATE_LIMIT_RPS", "RATE_LIMIT_BURST", "READ_TIMEOUT", "WRITE_TIMEOUT",
	"IDLE_TIMEOUT", "ACCESS_TOKEN_EXPIRY",
}

// unsetEnv removes the keys for the duration of the test
func unsetEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestNewConfigDefaults(t *testing.T) {
	unsetEnv(t, consoleKeys...)

	cfg, err := NewConfig()
	if err != nil {
		t.Fatalf("NewConfig() error = %v", err)
	}

	if cfg.RequestTimeout != 10*time.Second {
		t.Errorf("RequestTimeout = %v, want 10s", cfg.RequestTimeout)
	}
	if cfg.Environment != "dev" {
		t.Errorf("Environment = %q, want dev", cfg.Environment)
	}
	if cfg.SessionDB != "campus-session.db" {
		t.Errorf("SessionDB = %q, want campus-session.db", cfg.SessionDB)
	}
}

func TestNewConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr bool
	}{
		{
			name:    "valid overrides",
			env:     map[string]string{"ENVIRONMENT": "prod", "REQUEST_TIMEOUT": "30s", "PRINCIPAL_BASE_URL": "http://localhost:8085/api"},
			wantErr: false,
		},
		{
			name:    "invalid environment",
			env:     map[string]string{"ENVIRONMENT": "qa"},
			wantErr: true,
		},
		{
			name:    "negative timeout",
			env:     map[string]string{"REQUEST_TIMEOUT": "-1s"},
			wantErr: true,
		},
		{
			name:    "unsupported scheme",
			env:     map[string]string{"SECURITY_BASE_URL": "ftp://example.com/api"},
			wantErr: true,
		},
		{
			name:    "missing host",
			env:     map[string]string{"PRINCIPAL_BASE_URL": "http:///api"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			unsetEnv(t, consoleKeys...)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := NewConfig()
			if (err != nil) != tt.wantErr {
				t.Errorf("NewConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewBackendConfig(t *testing.T) {
	tests := []struct {
		name        string
		env         map[string]string
		wantErr     bool
		wantSecret  string
		wantOrigins int
	}{
		{
			name:        "dev defaults",
			env:         map[string]string{},
			wantErr:     false,
			wantSecret:  DevSecretKey,
			wantOrigins: 1,
		},
		{
			name:        "explicit origins are trimmed",
			env:         map[string]string{"ALLOWED_ORIGINS": " http://localhost:5173 | https://campus.example.org "},
			wantErr:     false,
			wantSecret:  DevSecretKey,
			wantOrigins: 2,
		},
		{
			name:    "prod without secret",
			env:     map[string]string{"ENVIRONMENT": "prod", "ALLOWED_ORIGINS": "https://campus.example.org"},
			wantErr: true,
		},
		{
			name:    "prod without origins",
			env:     map[string]string{"ENVIRONMENT": "prod", "SECRET_KEY": "s3cret"},
			wantErr: true,
		},
		{
			name:    "port out of range",
			env:     map[string]string{"PORT": "70000"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			unsetEnv(t, backendKeys...)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg, err := NewBackendConfig()
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewBackendConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if cfg.SecretKey != tt.wantSecret {
				t.Errorf("SecretKey = %q, want %q", cfg.SecretKey, tt.wantSecret)
			}
			if len(cfg.AllowedOrigins) != tt.wantOrigins {
				t.Errorf("AllowedOrigins = %v, want %d entries", cfg.AllowedOrigins, tt.wantOrigins)
			}
		})
	}
}
