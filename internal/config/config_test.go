// © Copyright 2025-2026, Query.Farm LLC - https://query.farm
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Query-farm/getjson/getjson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv isolates a test from GETJSON_* variables set in the environment.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		EnvConfigFile,
		"GETJSON_SERVER_ADDR", "GETJSON_SERVER_READ_TIMEOUT",
		"GETJSON_SERVER_DEBUG_ERRORS", "GETJSON_SERVER_DESCRIBE_PATH",
		"GETJSON_LOGGING_LEVEL", "GETJSON_LOGGING_FORMAT",
		"GETJSON_TELEMETRY_TRACING", "GETJSON_TELEMETRY_METRICS",
		"GETJSON_METRICS_PROMETHEUS_ADDR", "GETJSON_METRICS_PATH",
	} {
		t.Setenv(name, "")
		os.Unsetenv(name)
	}
}

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "getjson.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), *cfg)
	assert.Equal(t, getjson.LogInfo, cfg.LogLevel())
	assert.Equal(t, getjson.ServerOptions{Addr: ":8080", ReadTimeout: 30 * time.Second}, cfg.ServerOptions())
}

func TestLoadPrecedence(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, `
server:
  addr: 127.0.0.1:0
  read_timeout: 5s
  describe_path: /__describe__
logging:
  level: debug
metrics:
  prometheus_addr: ":9100"
`)
	t.Setenv("GETJSON_SERVER_ADDR", ":7000")
	t.Setenv("GETJSON_SERVER_DEBUG_ERRORS", "true")
	t.Setenv("GETJSON_TELEMETRY_TRACING", "1")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":7000", cfg.Server.Addr, "env beats file")
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout, "file beats default")
	assert.True(t, cfg.Server.DebugErrors)
	assert.Equal(t, "/__describe__", cfg.Server.DescribePath)
	assert.Equal(t, getjson.LogDebug, cfg.LogLevel())
	assert.Equal(t, "text", cfg.Logging.Format, "default kept")
	assert.True(t, cfg.Telemetry.Tracing)
	assert.False(t, cfg.Telemetry.Metrics)
	assert.Equal(t, ":9100", cfg.Metrics.PrometheusAddr)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
}

func TestLoadFileFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvConfigFile, writeFile(t, "logging:\n  format: json\n"))
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		file    string
		wantErr string
	}{
		{
			name:    "unparseable duration",
			env:     map[string]string{"GETJSON_SERVER_READ_TIMEOUT": "soon"},
			wantErr: "failed to load config from env",
		},
		{
			name:    "bad listen address",
			env:     map[string]string{"GETJSON_SERVER_ADDR": "localhost"},
			wantErr: `server.addr: failed listen_addr (got "localhost")`,
		},
		{
			name:    "port out of range",
			env:     map[string]string{"GETJSON_METRICS_PROMETHEUS_ADDR": ":70000"},
			wantErr: "metrics.prometheus_addr: failed listen_addr",
		},
		{
			name:    "negative timeout",
			env:     map[string]string{"GETJSON_SERVER_READ_TIMEOUT": "-1s"},
			wantErr: "server.read_timeout: failed gte=0",
		},
		{
			name:    "unknown level",
			env:     map[string]string{"GETJSON_LOGGING_LEVEL": "loud"},
			wantErr: "logging.level: failed oneof",
		},
		{
			name:    "relative describe path",
			env:     map[string]string{"GETJSON_SERVER_DESCRIBE_PATH": "describe"},
			wantErr: "server.describe_path: failed startswith=/",
		},
		{
			name:    "unknown file key",
			file:    "server:\n  port: 80\n",
			wantErr: "failed to load config file",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			path := ""
			if tt.file != "" {
				path = writeFile(t, tt.file)
			}
			_, err := Load(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	clearEnv(t)
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestValidateReportsEveryField(t *testing.T) {
	cfg := Default()
	cfg.Server.Addr = ""
	cfg.Logging.Format = "xml"
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server.addr: failed required")
	assert.Contains(t, err.Error(), "logging.format: failed oneof=json text")
}
