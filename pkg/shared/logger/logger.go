package logger

import (
	"os"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/pvojtechovsky/sonarqube-repair/pkg/shared/config"
)

// LogLevelEnv overrides the configured log level.
const LogLevelEnv = "SONAR_REPAIR_LOG_LEVEL"

// NewLogger creates a named hclog.Logger from the YAML configuration.
func NewLogger(cfg *config.Config, name string) hclog.Logger {
	return hclog.New(&hclog.LoggerOptions{
		Name:            name,
		DisableTime:     config.GetBoolValue(cfg, "Logger.DisableTime", true),
		JSONFormat:      config.GetBoolValue(cfg, "Logger.JSONFormat", false),
		IncludeLocation: config.GetBoolValue(cfg, "Logger.IncludeLocation", false),
		Output:          os.Stderr,
		Level:           determineLogLevel(cfg),
	})
}

// determineLogLevel prefers the environment variable, then the configuration, then INFO.
func determineLogLevel(cfg *config.Config) hclog.Level {
	if logLevelEnv := os.Getenv(LogLevelEnv); logLevelEnv != "" {
		return parseLogLevel(logLevelEnv)
	}
	if cfg != nil && cfg.Logger.Level != "" {
		return parseLogLevel(cfg.Logger.Level)
	}
	return hclog.Info
}

func parseLogLevel(levelStr string) hclog.Level {
	switch strings.ToUpper(strings.TrimSpace(levelStr)) {
	case "TRACE":
		return hclog.Trace
	case "DEBUG":
		return hclog.Debug
	case "INFO":
		return hclog.Info
	case "WARN":
		return hclog.Warn
	case "ERROR":
		return hclog.Error
	default:
		hclog.New(&hclog.LoggerOptions{
			Level:       hclog.Warn,
			DisableTime: true,
			Output:      os.Stderr,
		}).Warn("unrecognized log level, defaulting to INFO", "providedLevel", levelStr)
		return hclog.Info
	}
}

// OrNull returns lg, or a logger discarding everything when lg is nil.
func OrNull(lg hclog.Logger) hclog.Logger {
	if lg == nil {
		return hclog.NewNullLogger()
	}
	return lg
}
