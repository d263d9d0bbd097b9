// © Copyright 2025-2026, Query.Farm LLC - https://query.farm
// SPDX-License-Identifier: Apache-2.0

// Package config loads getjson server settings from defaults, an optional
// YAML file and GETJSON_* environment variables, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/Query-farm/getjson/getjson"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

const (
	// EnvPrefix prefixes every environment variable, e.g. GETJSON_SERVER_ADDR.
	EnvPrefix = "GETJSON"
	// EnvConfigFile names a YAML file to load when no path is given.
	EnvConfigFile = "GETJSON_CONFIG_FILE"
)

// Config is the complete server configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Logging   LoggingConfig   `yaml:"logging"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Metrics   MetricsConfig   `yaml:"metrics"`
}

// ServerConfig configures the socket listener and dispatcher.
type ServerConfig struct {
	Addr         string        `yaml:"addr" validate:"required,listen_addr"`
	ReadTimeout  time.Duration `yaml:"read_timeout" split_words:"true" validate:"gte=0"`
	DebugErrors  bool          `yaml:"debug_errors" split_words:"true"`
	DescribePath string        `yaml:"describe_path" split_words:"true" validate:"omitempty,startswith=/"`
}

// LoggingConfig configures the slog handler.
type LoggingConfig struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn warning error"`
	Format string `yaml:"format" validate:"oneof=json text"`
}

// TelemetryConfig toggles the OpenTelemetry stdout exporters.
type TelemetryConfig struct {
	Tracing bool `yaml:"tracing"`
	Metrics bool `yaml:"metrics"`
}

// MetricsConfig configures the Prometheus scrape listener. An empty address
// disables it.
type MetricsConfig struct {
	PrometheusAddr string `yaml:"prometheus_addr" split_words:"true" validate:"omitempty,listen_addr"`
	Path           string `yaml:"path" validate:"required,startswith=/"`
}

// Default returns the configuration used when nothing overrides it.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:        getjson.DefaultAddr,
			ReadTimeout: 30 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  string(getjson.LogInfo),
			Format: "text",
		},
		Metrics: MetricsConfig{
			Path: "/metrics",
		},
	}
}

// Load builds the configuration. path names a YAML file; when empty the
// GETJSON_CONFIG_FILE variable is consulted, and when that is empty too no
// file is read. Environment variables override file values.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv(EnvConfigFile)
	}
	if path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	// Fields have no default tags, so unset variables leave them alone.
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

// loadFile overlays the keys present in a YAML file onto cfg.
func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.UnmarshalStrict(data, cfg)
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation("listen_addr", isListenAddr); err != nil {
		panic(err)
	}
	// Report yaml key names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("yaml"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// isListenAddr accepts host:port with a port in 0..65535, unlike the
// built-in hostname_port which rejects port 0.
func isListenAddr(fl validator.FieldLevel) bool {
	_, port, err := net.SplitHostPort(fl.Field().String())
	if err != nil {
		return false
	}
	n, err := strconv.ParseUint(port, 10, 16)
	return err == nil && n <= 65535
}

// Validate checks every field constraint and reports all failures.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.TrimPrefix(fe.Namespace(), "Config.")
		if fe.Param() != "" {
			msgs = append(msgs, fmt.Sprintf("%s: failed %s=%s (got %q)", field, fe.Tag(), fe.Param(), fmt.Sprint(fe.Value())))
		} else {
			msgs = append(msgs, fmt.Sprintf("%s: failed %s (got %q)", field, fe.Tag(), fmt.Sprint(fe.Value())))
		}
	}
	return errors.New(strings.Join(msgs, "; "))
}

// LogLevel returns the configured level. Validate guarantees it parses.
func (c *Config) LogLevel() getjson.LogLevel {
	level, err := getjson.ParseLogLevel(c.Logging.Level)
	if err != nil {
		return getjson.LogInfo
	}
	return level
}

// ServerOptions maps the server section onto getjson.ServerOptions.
func (c *Config) ServerOptions() getjson.ServerOptions {
	return getjson.ServerOptions{
		Addr:        c.Server.Addr,
		ReadTimeout: c.Server.ReadTimeout,
	}
}
