// © Copyright 2025-2026, Query.Farm LLC - https://query.farm
// SPDX-License-Identifier: Apache-2.0

package getjson

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// LogLevel is a configured minimum log severity.
type LogLevel string

const (
	// LogError logs only failures that need an operator's attention.
	LogError LogLevel = "error"
	// LogWarn adds recoverable problems.
	LogWarn LogLevel = "warn"
	// LogInfo adds lifecycle messages such as the listen address.
	LogInfo LogLevel = "info"
	// LogDebug adds per-request dispatch outcomes.
	LogDebug LogLevel = "debug"
)

// ParseLogLevel converts a case-insensitive level name to a LogLevel.
func ParseLogLevel(s string) (LogLevel, error) {
	switch l := LogLevel(strings.ToLower(strings.TrimSpace(s))); l {
	case LogError, LogWarn, LogInfo, LogDebug:
		return l, nil
	case "warning":
		return LogWarn, nil
	default:
		return "", fmt.Errorf("unknown log level %q", s)
	}
}

// SlogLevel maps the level to its slog equivalent. Unknown levels map to
// info.
func (l LogLevel) SlogLevel() slog.Level {
	switch l {
	case LogError:
		return slog.LevelError
	case LogWarn:
		return slog.LevelWarn
	case LogDebug:
		return slog.LevelDebug
	default:
		return slog.LevelInfo
	}
}

// NewLogger returns a logger writing to w at the given level. format is
// "json" or "text"; anything else is treated as text.
func NewLogger(w io.Writer, level LogLevel, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level.SlogLevel()}
	var h slog.Handler
	if strings.EqualFold(format, "json") {
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = slog.NewTextHandler(w, opts)
	}
	return slog.New(h)
}
