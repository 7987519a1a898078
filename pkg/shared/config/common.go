package config

import (
	"crypto/tls"
	"time"
)

const (
	DefaultSonarURL       = "https://sonarcloud.io"
	DefaultRuleRepository = "squid"
	DefaultPageSize       = 500
	MaxPageSize           = 500
)

// BaseHTTPConfig holds common HTTP client configuration settings.
type BaseHTTPConfig struct {
	RetryCount       int
	RetryWaitTime    time.Duration
	RetryMaxWaitTime time.Duration
	Timeout          time.Duration
	TLSClientConfig  *tls.Config
	Proxy            string
}

// RestyHTTPClientConfig holds additional configuration settings for the resty http client.
type RestyHTTPClientConfig struct {
	BaseHTTPConfig
	Debug bool
}

// DefaultHTTPConfig is the base configuration applicable to all HTTP clients.
func DefaultHTTPConfig() BaseHTTPConfig {
	return BaseHTTPConfig{
		RetryCount:       3,
		RetryWaitTime:    1 * time.Second,
		RetryMaxWaitTime: 5 * time.Second,
		Timeout:          30 * time.Second,
		TLSClientConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
		},
		Proxy: "",
	}
}

// DefaultRestyConfig returns the http config handed to resty.
func DefaultRestyConfig() RestyHTTPClientConfig {
	baseConfig := DefaultHTTPConfig()
	return RestyHTTPClientConfig{
		BaseHTTPConfig: baseConfig,
		Debug:          false,
	}
}

// SonarURL returns the configured SonarQube base URL or the default one.
func SonarURL(cfg *Config) string {
	if cfg == nil {
		return DefaultSonarURL
	}
	return SetThen(cfg.Sonar.URL, DefaultSonarURL)
}

// RuleRepository returns the configured rule repository prefix ("squid", "java").
func RuleRepository(cfg *Config) string {
	if cfg == nil {
		return DefaultRuleRepository
	}
	return SetThen(cfg.Sonar.RuleRepository, DefaultRuleRepository)
}

// PageSize returns the configured page size for the issues search API.
func PageSize(cfg *Config) int {
	if cfg == nil {
		return DefaultPageSize
	}
	return SetThen(cfg.Sonar.PageSize, DefaultPageSize)
}
