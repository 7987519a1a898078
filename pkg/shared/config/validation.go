package config

import (
	"fmt"
	"net/url"
	"os"
	"regexp"
	"strings"
	"time"
)

var ruleKeyRegex = regexp.MustCompile(`^S\d+$`)

// ValidateConfig checks if the global configurations have valid values.
// Environment fallbacks for the SonarQube section are applied first.
func ValidateConfig(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("YAML global config: configuration object is nil")
	}
	if err := ValidateHTTPConfig(&cfg.HTTPClient); err != nil {
		return fmt.Errorf("YAML global config: http_client directive is invalid: %w", err)
	}
	if err := ValidateSonarConfig(&cfg.Sonar); err != nil {
		return fmt.Errorf("YAML global config: sonar directive is invalid: %w", err)
	}
	if err := ValidateRepairConfig(&cfg.Repair); err != nil {
		return fmt.Errorf("YAML global config: repair directive is invalid: %w", err)
	}
	return nil
}

// ValidateHTTPConfig checks if the HTTP configurations have valid values.
func ValidateHTTPConfig(httpConfig *HTTPClient) error {
	if httpConfig == nil {
		return fmt.Errorf("HTTP configuration is nil")
	}
	if httpConfig.RetryCount < 0 || httpConfig.RetryCount > 20 {
		return fmt.Errorf("retry_count must be between 0 and 20: %d", httpConfig.RetryCount)
	}

	durations := map[string]time.Duration{
		"RetryMaxWaitTime": httpConfig.RetryMaxWaitTime,
		"RetryWaitTime":    httpConfig.RetryWaitTime,
		"Timeout":          httpConfig.Timeout,
	}
	for name, duration := range durations {
		if err := validateDuration(duration, name, 100*time.Second); err != nil {
			return err
		}
	}

	if err := validateProxy(&httpConfig.Proxy); err != nil {
		return err
	}

	return nil
}

// ValidateSonarConfig fills the SonarQube section from SONAR_HOST_URL and SONAR_TOKEN
// when unset, then checks the URL and the page size.
func ValidateSonarConfig(sonar *Sonar) error {
	if sonar == nil {
		return fmt.Errorf("sonar configuration is nil")
	}

	if envURL := os.Getenv("SONAR_HOST_URL"); envURL != "" && sonar.URL == "" {
		sonar.URL = envURL
	}
	if envToken := os.Getenv("SONAR_TOKEN"); envToken != "" && sonar.Token == "" {
		sonar.Token = envToken
	}

	if sonar.URL != "" {
		u, err := url.Parse(sonar.URL)
		if err != nil {
			return fmt.Errorf("invalid url: %w", err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("url must use http or https scheme: %q", sonar.URL)
		}
		sonar.URL = strings.TrimRight(sonar.URL, "/")
	}

	if sonar.PageSize < 0 || sonar.PageSize > MaxPageSize {
		return fmt.Errorf("page_size must be between 1 and %d: %d", MaxPageSize, sonar.PageSize)
	}

	if _, err := url.ParseQuery(sonar.Filter); err != nil {
		return fmt.Errorf("filter is not a valid query string: %w", err)
	}
	return nil
}

// ValidateRepairConfig checks that every configured rule looks like a SonarQube rule number.
func ValidateRepairConfig(repair *Repair) error {
	if repair == nil {
		return fmt.Errorf("repair configuration is nil")
	}
	for _, rule := range repair.Rules {
		if !ruleKeyRegex.MatchString(rule) {
			return fmt.Errorf("rule %q must look like S1854", rule)
		}
	}
	return nil
}

// validateDuration checks that a time.Duration is valid and within a specified maximum duration.
func validateDuration(d time.Duration, name string, max time.Duration) error {
	if d < 0 {
		return fmt.Errorf("invalid duration for %q: %v cannot be negative", name, d)
	}
	if d > max {
		return fmt.Errorf("%q duration is too long: %v exceeds maximum of %v", name, d, max)
	}
	return nil
}

// validateProxy checks if the given Proxy settings are valid.
func validateProxy(proxy *Proxy) error {
	if proxy == nil {
		return fmt.Errorf("proxy configuration is nil")
	}

	// If host or port is not set, skip further validation
	if proxy.Host == "" || proxy.Port == 0 {
		return nil
	}

	if err := validateHost(&proxy.Host); err != nil {
		return err
	}

	return validatePort(proxy.Port)
}

// validateHost ensures the host includes a scheme; "http" is added if missing.
func validateHost(host *string) error {
	if host == nil {
		return fmt.Errorf("host string pointer is nil")
	}

	if !strings.Contains(*host, "://") {
		*host = "http://" + *host
	}
	*host = strings.TrimRight(*host, "/")

	if _, err := url.Parse(*host); err != nil {
		return fmt.Errorf("invalid host URL: %w", err)
	}

	return nil
}

func validatePort(port int) error {
	if port < 1 || port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", port)
	}
	return nil
}
