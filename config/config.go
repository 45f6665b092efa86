package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all application configuration
//
//nolint:govet // Field alignment optimization would reduce readability
type Config struct {
	API           APIConfig
	Cache         CacheConfig
	Server        ServerConfig
	Session       SessionConfig
	Logging       LoggingConfig
	Observability ObservabilityConfig
}

// APIConfig configures the REST client
type APIConfig struct {
	BaseURL        string
	TimeoutSeconds int
	RetryMax       int
	CircuitBreaker bool
}

type CacheConfig struct {
	ProgramsTTLSeconds int
}

// ServerConfig configures the reference backend
type ServerConfig struct {
	Port           string
	GinMode        string
	AppEnv         string
	AllowedOrigins []string
}

type SessionConfig struct {
	Secret       string
	Issuer       string
	TTLHours     int
	CookieDomain string
	CookieSecure bool
}

type LoggingConfig struct {
	Level string
	Dir   string
}

type ObservabilityConfig struct {
	ExporterEndpoint string
	ServiceName      string
	ServiceVersion   string
}

// Load reads configuration from environment variables and an optional .env file
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("API_BASE_URL", "http://localhost:8000/api")
	v.SetDefault("API_TIMEOUT_SECONDS", 30)
	v.SetDefault("API_RETRY_MAX", 0)
	v.SetDefault("API_CIRCUIT_BREAKER", false)
	v.SetDefault("PROGRAMS_CACHE_TTL", 300) // 5 minutes in seconds
	v.SetDefault("PORT", "8000")
	v.SetDefault("GIN_MODE", "release")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("ALLOWED_CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("SESSION_ISSUER", "abroadmap")
	v.SetDefault("SESSION_TTL_HOURS", 336) // two weeks, like Django's SESSION_COOKIE_AGE
	v.SetDefault("COOKIE_DOMAIN", "")
	v.SetDefault("COOKIE_SECURE", false)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_DIR", "")
	v.SetDefault("O11Y_EXPORTER_ENDPOINT", "")
	v.SetDefault("O11Y_SERVICE_NAME", "abroadmap")
	v.SetDefault("O11Y_SERVICE_VERSION", "1.0.0")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("..")
	_ = v.ReadInConfig() //nolint:errcheck // Ignore error if .env file doesn't exist

	cfg := &Config{
		API: APIConfig{
			BaseURL:        strings.TrimRight(v.GetString("API_BASE_URL"), "/"),
			TimeoutSeconds: v.GetInt("API_TIMEOUT_SECONDS"),
			RetryMax:       v.GetInt("API_RETRY_MAX"),
			CircuitBreaker: v.GetBool("API_CIRCUIT_BREAKER"),
		},
		Cache: CacheConfig{
			ProgramsTTLSeconds: v.GetInt("PROGRAMS_CACHE_TTL"),
		},
		Server: ServerConfig{
			Port:           v.GetString("PORT"),
			GinMode:        v.GetString("GIN_MODE"),
			AppEnv:         v.GetString("APP_ENV"),
			AllowedOrigins: splitList(v.GetString("ALLOWED_CORS_ORIGINS")),
		},
		Session: SessionConfig{
			Secret:       v.GetString("SESSION_SECRET"),
			Issuer:       v.GetString("SESSION_ISSUER"),
			TTLHours:     v.GetInt("SESSION_TTL_HOURS"),
			CookieDomain: v.GetString("COOKIE_DOMAIN"),
			CookieSecure: v.GetBool("COOKIE_SECURE"),
		},
		Logging: LoggingConfig{
			Level: v.GetString("LOG_LEVEL"),
			Dir:   v.GetString("LOG_DIR"),
		},
		Observability: ObservabilityConfig{
			ExporterEndpoint: v.GetString("O11Y_EXPORTER_ENDPOINT"),
			ServiceName:      v.GetString("O11Y_SERVICE_NAME"),
			ServiceVersion:   v.GetString("O11Y_SERVICE_VERSION"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// splitList parses a comma-separated list, dropping empty entries
func splitList(raw string) []string {
	items := []string{}
	for _, item := range strings.Split(raw, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			items = append(items, item)
		}
	}
	return items
}

// Validate checks the settings every binary relies on
func (c *Config) Validate() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("API_BASE_URL must be an absolute http(s) URL, got %q", c.API.BaseURL)
	}

	if c.API.TimeoutSeconds < 0 {
		return fmt.Errorf("API_TIMEOUT_SECONDS must not be negative")
	}
	if c.API.RetryMax < 0 {
		return fmt.Errorf("API_RETRY_MAX must not be negative")
	}
	if c.Cache.ProgramsTTLSeconds < 0 {
		return fmt.Errorf("PROGRAMS_CACHE_TTL must not be negative")
	}

	return nil
}

// ValidateBackend checks the settings the reference backend needs on top of Validate
func (c *Config) ValidateBackend() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}
	if c.Session.Secret == "" {
		return fmt.Errorf("SESSION_SECRET is required")
	}
	if c.Session.TTLHours <= 0 {
		return fmt.Errorf("SESSION_TTL_HOURS must be positive")
	}
	if len(c.Server.AllowedOrigins) == 0 {
		return fmt.Errorf("ALLOWED_CORS_ORIGINS is required")
	}

	return nil
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Server.AppEnv == "development" || c.Server.GinMode == "debug"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Server.AppEnv == "production"
}
