package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfig_Environment(t *testing.T) {
	tests := []struct {
		appEnv, ginMode string
		dev, prod       bool
	}{
		{appEnv: "development", dev: true},
		{ginMode: "debug", dev: true},
		{appEnv: "production", ginMode: "release", prod: true},
		{appEnv: "staging", ginMode: "release"},
	}

	for _, tt := range tests {
		t.Run(tt.appEnv+"/"+tt.ginMode, func(t *testing.T) {
			cfg := &Config{Server: ServerConfig{AppEnv: tt.appEnv, GinMode: tt.ginMode}}
			assert.Equal(t, tt.dev, cfg.IsDevelopment())
			assert.Equal(t, tt.prod, cfg.IsProduction())
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			API:   APIConfig{BaseURL: "http://localhost:8000/api", TimeoutSeconds: 30},
			Cache: CacheConfig{ProgramsTTLSeconds: 300},
		}
	}

	tests := []struct {
		name        string
		mutate      func(c *Config)
		expectError bool
		errorMsg    string
	}{
		{
			name:   "valid config",
			mutate: func(c *Config) {},
		},
		{
			name:   "https base URL",
			mutate: func(c *Config) { c.API.BaseURL = "https://api.example.com" },
		},
		{
			name:        "relative base URL",
			mutate:      func(c *Config) { c.API.BaseURL = "/api" },
			expectError: true,
			errorMsg:    "API_BASE_URL must be an absolute http(s) URL",
		},
		{
			name:        "unsupported scheme",
			mutate:      func(c *Config) { c.API.BaseURL = "ftp://example.com" },
			expectError: true,
			errorMsg:    "API_BASE_URL must be an absolute http(s) URL",
		},
		{
			name:        "negative timeout",
			mutate:      func(c *Config) { c.API.TimeoutSeconds = -1 },
			expectError: true,
			errorMsg:    "API_TIMEOUT_SECONDS must not be negative",
		},
		{
			name:        "negative retries",
			mutate:      func(c *Config) { c.API.RetryMax = -2 },
			expectError: true,
			errorMsg:    "API_RETRY_MAX must not be negative",
		},
		{
			name:        "negative cache TTL",
			mutate:      func(c *Config) { c.Cache.ProgramsTTLSeconds = -5 },
			expectError: true,
			errorMsg:    "PROGRAMS_CACHE_TTL must not be negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.expectError {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfig_ValidateBackend(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server:  ServerConfig{Port: "8000", AllowedOrigins: []string{"http://localhost:3000"}},
			Session: SessionConfig{Secret: "secret", TTLHours: 1},
		}
	}

	tests := []struct {
		name     string
		mutate   func(c *Config)
		errorMsg string
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "missing port", mutate: func(c *Config) { c.Server.Port = "" }, errorMsg: "PORT is required"},
		{name: "missing secret", mutate: func(c *Config) { c.Session.Secret = "" }, errorMsg: "SESSION_SECRET is required"},
		{name: "zero TTL", mutate: func(c *Config) { c.Session.TTLHours = 0 }, errorMsg: "SESSION_TTL_HOURS must be positive"},
		{name: "no origins", mutate: func(c *Config) { c.Server.AllowedOrigins = nil }, errorMsg: "ALLOWED_CORS_ORIGINS is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.ValidateBackend()
			if tt.errorMsg == "" {
				assert.NoError(t, err)
				return
			}
			assert.Error(t, err)
			assert.Contains(t, err.Error(), tt.errorMsg)
		})
	}
}

func TestLoad_WithDefaults(t *testing.T) {
	// Run from a directory without a .env file
	originalDir, _ := os.Getwd()
	defer os.Chdir(originalDir)
	os.Chdir(t.TempDir())

	os.Clearenv()

	cfg, err := Load()

	assert.NoError(t, err)
	assert.NotNil(t, cfg)

	assert.Equal(t, "http://localhost:8000/api", cfg.API.BaseURL)
	assert.Equal(t, 30, cfg.API.TimeoutSeconds)
	assert.Equal(t, 0, cfg.API.RetryMax)
	assert.False(t, cfg.API.CircuitBreaker)
	assert.Equal(t, 300, cfg.Cache.ProgramsTTLSeconds)
	assert.Equal(t, "8000", cfg.Server.Port)
	assert.Equal(t, "release", cfg.Server.GinMode)
	assert.Equal(t, "development", cfg.Server.AppEnv)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, 336, cfg.Session.TTLHours)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoad_WithEnvironmentVariables(t *testing.T) {
	originalDir, _ := os.Getwd()
	defer os.Chdir(originalDir)
	os.Chdir(t.TempDir())

	os.Clearenv()

	os.Setenv("API_BASE_URL", "https://abroad.example.com/api/")
	os.Setenv("API_TIMEOUT_SECONDS", "5")
	os.Setenv("API_RETRY_MAX", "2")
	os.Setenv("API_CIRCUIT_BREAKER", "true")
	os.Setenv("PROGRAMS_CACHE_TTL", "60")
	os.Setenv("PORT", "9000")
	os.Setenv("GIN_MODE", "debug")
	os.Setenv("LOG_LEVEL", "debug")
	os.Setenv("ALLOWED_CORS_ORIGINS", "https://a.example.com, https://b.example.com,")
	os.Setenv("SESSION_SECRET", "s3cret")
	os.Setenv("COOKIE_SECURE", "true")

	cfg, err := Load()

	assert.NoError(t, err)
	assert.NotNil(t, cfg)

	// Trailing slash is trimmed so paths can be appended directly
	assert.Equal(t, "https://abroad.example.com/api", cfg.API.BaseURL)
	assert.Equal(t, 5, cfg.API.TimeoutSeconds)
	assert.Equal(t, 2, cfg.API.RetryMax)
	assert.True(t, cfg.API.CircuitBreaker)
	assert.Equal(t, 60, cfg.Cache.ProgramsTTLSeconds)
	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Server.GinMode)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "s3cret", cfg.Session.Secret)
	assert.True(t, cfg.Session.CookieSecure)
	assert.NoError(t, cfg.ValidateBackend())
}

func TestLoad_ValidationFailure(t *testing.T) {
	originalDir, _ := os.Getwd()
	defer os.Chdir(originalDir)
	os.Chdir(t.TempDir())

	os.Clearenv()
	os.Setenv("API_BASE_URL", "not a url")

	cfg, err := Load()

	assert.Error(t, err)
	assert.Nil(t, cfg)
}
