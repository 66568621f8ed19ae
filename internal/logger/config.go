package logger

import (
	"log/slog"
	"strings"
)

// Config represents logger configuration
type Config struct {
	Level       string // "debug", "info", "warn", "error"
	Format      string // "json", "text"
	ServiceName string
	Version     string
	Environment string // "dev", "staging", "prod"
	AddSource   bool
}

// NewConfig builds a config for environment. Empty level and format fall
// back to the environment's defaults: debug/text with source locations in
// dev, info/json in prod, info/text elsewhere.
func NewConfig(level, format, serviceName, version, environment string) Config {
	env := strings.ToLower(environment)
	if env == "" {
		env = EnvironmentDev
	}
	if serviceName == "" {
		serviceName = DefaultServiceName
	}
	if version == "" {
		version = DefaultVersion
	}

	if level == "" {
		level = LogLevelInfo
		if env == EnvironmentDev {
			level = LogLevelDebug
		}
	}
	if format == "" {
		format = LogFormatText
		if env == EnvironmentProduction {
			format = LogFormatJSON
		}
	}

	return Config{
		Level:       level,
		Format:      format,
		ServiceName: serviceName,
		Version:     version,
		Environment: env,
		AddSource:   env == EnvironmentDev,
	}
}

// LogLevel converts the configured level to slog.Level, defaulting to info
func (c Config) LogLevel() slog.Level {
	switch strings.ToLower(c.Level) {
	case LogLevelDebug:
		return slog.LevelDebug
	case LogLevelWarn, LogLevelWarning:
		return slog.LevelWarn
	case LogLevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (c Config) IsJSON() bool {
	return strings.ToLower(c.Format) == LogFormatJSON
}

// BaseAttributes are attached to every record
func (c Config) BaseAttributes() []slog.Attr {
	return []slog.Attr{
		slog.String(AttrKeyService, c.ServiceName),
		slog.String(AttrKeyVersion, c.Version),
		slog.String(AttrKeyEnvironment, c.Environment),
	}
}
