// © Copyright 2025-2026, Query.Farm LLC - https://query.farm
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/Query-farm/getjson/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version", "--short")
	require.NoError(t, err)
	assert.Equal(t, "dev\n", out)

	out, err = execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "Version:    dev")
	assert.Contains(t, out, "Go version:")
}

func TestRoutesCommand(t *testing.T) {
	out, err := execute(t, "routes", "--app", "store")
	require.NoError(t, err)
	assert.Contains(t, out, "PATTERN")
	assert.Contains(t, out, "/store/items/{id}")
	assert.Contains(t, out, "id:string (path)")
	assert.Contains(t, out, "max_price:float64 (query)?")
}

func TestRoutesCommandJSON(t *testing.T) {
	out, err := execute(t, "routes", "--app", "benchmark", "--json")
	require.NoError(t, err)

	var routes []struct {
		Pattern string `json:"pattern"`
		Params  []struct {
			Name string `json:"name"`
		} `json:"params"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &routes))
	require.Len(t, routes, 5)
	assert.Equal(t, "/noop", routes[0].Pattern)
	assert.Equal(t, "/greet/{name}", routes[2].Pattern)
	require.Len(t, routes[2].Params, 1)
	assert.Equal(t, "name", routes[2].Params[0].Name)
}

func TestUnknownApp(t *testing.T) {
	_, err := execute(t, "routes", "--app", "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown app "nope"`)
	assert.Contains(t, err.Error(), "benchmark, conformance, store")
}

func TestServeRejectsInvalidOverride(t *testing.T) {
	t.Setenv(config.EnvConfigFile, "")
	_, err := execute(t, "serve", "--addr", "127.0.0.1:99999")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config validation failed")
}

func rawGet(t *testing.T, addr net.Addr, target string) string {
	t.Helper()
	conn, err := net.Dial("tcp", addr.String())
	require.NoError(t, err)
	defer conn.Close()
	_, err = io.WriteString(conn, "GET "+target+" HTTP/1.1\r\n\r\n")
	require.NoError(t, err)
	resp, err := io.ReadAll(conn)
	require.NoError(t, err)
	return string(resp)
}

func TestApplicationRun(t *testing.T) {
	cfg := config.Default()
	cfg.Server.Addr = "127.0.0.1:0"
	cfg.Metrics.PrometheusAddr = "127.0.0.1:0"
	cfg.Telemetry.Tracing = true

	var traces bytes.Buffer
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	a, err := newApplication(&cfg, "store", logger, &traces)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.run(ctx) }()

	resp := rawGet(t, a.ln.Addr(), "/store/items/2")
	assert.Equal(t,
		"HTTP/1.1 200 OK\r\nContent-Type: application/json\r\n\r\n"+
			`{"id":"2","name":"Pen","price":3.99,"description":"A blue pen"}`,
		resp)

	metricsURL := "http://" + a.metricsLn.Addr().String() + "/metrics"
	require.Eventually(t, func() bool {
		res, err := http.Get(metricsURL)
		if err != nil {
			return false
		}
		defer res.Body.Close()
		body, _ := io.ReadAll(res.Body)
		return bytes.Contains(body, []byte(`getjson_requests_total{code="200",route="/store/items/{id}"} 1`))
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("run did not return after cancel")
	}

	assert.Contains(t, traces.String(), "/store/items/{id}")
	assert.Contains(t, traces.String(), "getjson.request_id")
}

func TestNewApplicationListenError(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	cfg := config.Default()
	cfg.Server.Addr = ln.Addr().String()
	_, err = newApplication(&cfg, "store", slog.New(slog.NewTextHandler(io.Discard, nil)), io.Discard)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "listen "+ln.Addr().String())
}
