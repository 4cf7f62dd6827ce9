package ratelimit

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// EndpointConfig is the rate limit tier for one endpoint. A trailing slash
// in Path makes it a prefix match.
type EndpointConfig struct {
	Path   string
	Method string
	Limit  int
	Window time.Duration
	Burst  int
}

// Config holds rate limiting configuration.
type Config struct {
	Enabled         bool
	DefaultLimit    int
	DefaultWindow   time.Duration
	CleanupInterval time.Duration
	EndpointConfigs []EndpointConfig
}

// LoadConfig loads rate limiting configuration from environment variables.
func LoadConfig() *Config {
	enabled := envBool("RATE_LIMIT_ENABLED", true)
	if !enabled {
		return &Config{Enabled: false}
	}

	return &Config{
		Enabled:         true,
		DefaultLimit:    envInt("RATE_LIMIT_DEFAULT_LIMIT", 300),
		DefaultWindow:   envDuration("RATE_LIMIT_DEFAULT_WINDOW", time.Minute),
		CleanupInterval: envDuration("RATE_LIMIT_CLEANUP_INTERVAL", 5*time.Minute),
		EndpointConfigs: DefaultEndpointConfigs(),
	}
}

// DefaultEndpointConfigs returns the per-endpoint tiers. Endpoints that
// call the model service or drive a headless browser get the strictest
// limits; auth endpoints are limited to slow down credential stuffing.
func DefaultEndpointConfigs() []EndpointConfig {
	model := func(path string) EndpointConfig {
		return EndpointConfig{Path: path, Method: "POST", Limit: 30, Window: time.Hour, Burst: 5}
	}

	return []EndpointConfig{
		model("/api/getInterview"),
		model("/api/analyzeProfile"),
		model("/api/chooseMethod"),
		model("/api/generateResume"),
		model("/api/checkMissingInfo"),
		model("/api/analyzeMissingItems"),
		model("/api/correctMissingItem"),
		model("/api/modifyResume"),
		model("/api/modifySelectedText"),
		model("/api/generatePPTX"),
		model("/api/review"),

		// PDF printing runs a headless Chrome instance.
		{Path: "/api/generatePDF", Method: "POST", Limit: 30, Window: time.Hour, Burst: 5},

		{Path: "/api/auth/register", Method: "POST", Limit: 20, Window: time.Minute, Burst: 5},
		{Path: "/api/auth/login", Method: "POST", Limit: 20, Window: time.Minute, Burst: 5},
	}
}

// match resolves the tier for a request. Health checks are always
// unlimited; unmatched endpoints use the default tier.
func (c *Config) match(path, method string) EndpointConfig {
	if path == "/api/health" && method == "GET" {
		return EndpointConfig{Path: path}
	}

	for _, tier := range c.EndpointConfigs {
		if tier.Method != method {
			continue
		}
		if tier.Path == path {
			return tier
		}
		if strings.HasSuffix(tier.Path, "/") && strings.HasPrefix(path, tier.Path) {
			return tier
		}
	}

	return EndpointConfig{
		Path:   path,
		Method: method,
		Limit:  c.DefaultLimit,
		Window: c.DefaultWindow,
		Burst:  c.DefaultLimit,
	}
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
