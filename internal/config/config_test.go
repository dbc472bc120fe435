package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFile_Defaults(t *testing.T) {
	cfg, err := LoadFile(writeConfig(t, "app:\n  name: label-print-service\n"))
	require.NoError(t, err)

	assert.Equal(t, "8085", cfg.Server.Port)
	assert.Equal(t, 3*time.Second, cfg.Printer.ConnectTimeout)
	assert.Equal(t, time.Second, cfg.Printer.SettleDelay)
	assert.Equal(t, 9100, cfg.Printer.DefaultPort)
	assert.Equal(t, 10, cfg.Printer.DefaultTimeoutSeconds)
	assert.Equal(t, "ESC/POS", cfg.Printer.DefaultStandard)
	assert.Equal(t, 100, cfg.History.MaxEntries)
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, "0.0.0.0:8085", cfg.GetServerAddr())
}

func TestLoadFile_EnvOverride(t *testing.T) {
	t.Setenv("LABEL_PRINT_PRINTER_DEFAULT_PORT", "9200")
	t.Setenv("LABEL_PRINT_LOGGING_LEVEL", "debug")

	cfg, err := LoadFile(writeConfig(t, "printer:\n  default_port: 9100\n"))
	require.NoError(t, err)

	assert.Equal(t, 9200, cfg.Printer.DefaultPort)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadFile_Validation(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{
			name:    "port out of range",
			body:    "printer:\n  default_port: 70000\n",
			wantErr: "printer.default_port",
		},
		{
			name:    "connect timeout not shorter than operation timeout",
			body:    "printer:\n  connect_timeout: 15s\n  default_timeout_seconds: 10\n",
			wantErr: "printer.connect_timeout must be shorter",
		},
		{
			name:    "unknown environment",
			body:    "app:\n  environment: moon\n",
			wantErr: "app.environment",
		},
		{
			name:    "unknown log level",
			body:    "logging:\n  level: loud\n",
			wantErr: "logging.level",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFile(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestDatabaseConfig_DSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host:           "db",
		Port:           5432,
		User:           "label",
		Password:       "secret",
		DBName:         "label_print",
		SSLMode:        "disable",
		ConnectTimeout: 5 * time.Second,
	}

	assert.Equal(t,
		"host=db port=5432 user=label password=secret dbname=label_print sslmode=disable connect_timeout=5",
		cfg.DSN())
}
