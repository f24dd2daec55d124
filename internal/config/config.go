package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Port                    int    `env:"PORT" envDefault:"8080"`
	DatabaseURL             string `env:"DATABASE_URL,required"`
	RedisURL                string `env:"REDIS_URL,required"`
	BaseURL                 string `env:"BASE_URL" envDefault:"http://localhost:8080"`
	GeoProviderURL          string `env:"GEOIP_PROVIDER_URL" envDefault:"https://ipapi.co"`
	GeoCacheTTLSeconds      int    `env:"GEOIP_CACHE_TTL_SECONDS" envDefault:"86400"`
	RedirectRateLimitPerMin int    `env:"REDIRECT_RATE_LIMIT_PER_MIN" envDefault:"120"`
	LogLevel                string `env:"LOG_LEVEL" envDefault:"info"`
}

func (c *Config) GeoCacheTTL() time.Duration {
	return time.Duration(c.GeoCacheTTLSeconds) * time.Second
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// ShortURL builds the public scan URL for a short code. QR images encode this
// URL, so BASE_URL must be the externally reachable origin.
func (c *Config) ShortURL(shortCode string) string {
	return strings.TrimSuffix(c.BaseURL, "/") + "/r/" + shortCode
}

func (c *Config) Validate() error {
	if c.GeoCacheTTLSeconds < 0 {
		return fmt.Errorf("GEOIP_CACHE_TTL_SECONDS must not be negative")
	}
	if c.RedirectRateLimitPerMin <= 0 {
		return fmt.Errorf("REDIRECT_RATE_LIMIT_PER_MIN must be positive")
	}
	if !strings.HasPrefix(c.GeoProviderURL, "http://") && !strings.HasPrefix(c.GeoProviderURL, "https://") {
		return fmt.Errorf("GEOIP_PROVIDER_URL must be an http(s) URL")
	}
	return nil
}

func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
