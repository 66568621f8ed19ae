package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONLogging(t *testing.T) {
	var buf bytes.Buffer

	config := Config{
		Level:       LogLevelInfo,
		Format:      LogFormatJSON,
		ServiceName: "test-service",
		Version:     "1.0.0",
		Environment: EnvironmentTest,
	}
	InitLoggerWithWriter(config, &buf)

	Info("experience granted", "player_id", "p1", "amount", 42)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))

	assert.Equal(t, "test-service", entry["service"])
	assert.Equal(t, "1.0.0", entry["version"])
	assert.Equal(t, EnvironmentTest, entry["environment"])
	assert.Equal(t, "experience granted", entry["msg"])
	assert.Equal(t, "INFO", entry["level"])
	assert.Equal(t, "p1", entry["player_id"])
	assert.Equal(t, float64(42), entry["amount"])
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	InitLoggerWithWriter(Config{Level: LogLevelError, Format: LogFormatText}, &buf)

	Info("dropped")
	assert.Empty(t, buf.String())

	Error("kept")
	assert.True(t, strings.Contains(buf.String(), "kept"))
}

func TestRequestIDContext(t *testing.T) {
	var buf bytes.Buffer
	InitLoggerWithWriter(Config{Level: LogLevelDebug, Format: LogFormatJSON}, &buf)

	ctx := WithRequestID(context.Background(), "test-req-123")
	assert.Equal(t, "test-req-123", GetRequestID(ctx))
	assert.Empty(t, GetRequestID(context.Background()))

	FromContext(ctx).Info("with id")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "test-req-123", entry[AttrKeyRequestID])
}

func TestGenerateRequestID(t *testing.T) {
	a, b := GenerateRequestID(), GenerateRequestID()
	assert.Len(t, a, 36)
	assert.NotEqual(t, a, b)
}

func TestNewConfig_EnvironmentDefaults(t *testing.T) {
	tests := []struct {
		name       string
		env        string
		wantLevel  slog.Level
		wantJSON   bool
		wantSource bool
	}{
		{"dev", EnvironmentDev, slog.LevelDebug, false, true},
		{"empty means dev", "", slog.LevelDebug, false, true},
		{"prod", "PROD", slog.LevelInfo, true, false},
		{"test", EnvironmentTest, slog.LevelInfo, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig("", "", "", "", tt.env)
			assert.Equal(t, tt.wantLevel, cfg.LogLevel())
			assert.Equal(t, tt.wantJSON, cfg.IsJSON())
			assert.Equal(t, tt.wantSource, cfg.AddSource)
			assert.Equal(t, DefaultServiceName, cfg.ServiceName)
			assert.Equal(t, DefaultVersion, cfg.Version)
		})
	}
}

func TestNewConfig_ExplicitValuesWin(t *testing.T) {
	cfg := NewConfig("warn", "json", "svc", "1.2.3", EnvironmentDev)
	assert.Equal(t, slog.LevelWarn, cfg.LogLevel())
	assert.True(t, cfg.IsJSON())
	assert.Equal(t, "svc", cfg.ServiceName)
	assert.Equal(t, "1.2.3", cfg.Version)
	assert.Equal(t, slog.LevelInfo, Config{Level: "verbose"}.LogLevel())
}
