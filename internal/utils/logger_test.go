package utils

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"label-print-service/internal/config"
)

func TestNewLogger(t *testing.T) {
	output := filepath.Join(t.TempDir(), "logs", "service.log")

	logger, err := NewLogger(&config.LoggingConfig{Level: "debug", Format: "json", Output: output, MaxSize: 1})
	require.NoError(t, err)
	logger.Info("hello", zap.String("printer_address", "10.0.0.7:9100"))
	require.NoError(t, CloseLogger(logger))

	raw, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"message":"hello"`)
	assert.Contains(t, string(raw), `"level":"info"`)

	_, err = NewLogger(&config.LoggingConfig{Level: "verbose"})
	assert.Error(t, err)
}

func TestServiceLogger_WithRequestID(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	sl := NewServiceLogger(zap.New(core), "print-handler")

	sl.WithRequestID("req-1").LogAPIRequest("POST", "/api/v1/print", "curl", "127.0.0.1", 502, time.Millisecond)
	sl.WithRequestID("").Info("no request")

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, zapcore.ErrorLevel, entries[0].Level)
	assert.Equal(t, "req-1", entries[0].ContextMap()["request_id"])
	assert.Equal(t, "print-handler", entries[0].ContextMap()["service"])
	assert.NotContains(t, entries[1].ContextMap(), "request_id")
}

func TestOperationLogger_FailureIsWarning(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	ol := NewOperationLogger(zap.New(core), "print", "op-1")

	ol.Start()
	ol.Error(assert.AnError)

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "Operation failed", entries[1].Message)
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Equal(t, false, entries[1].ContextMap()["success"])
	assert.Equal(t, "op-1", entries[1].ContextMap()["operation_id"])
}
