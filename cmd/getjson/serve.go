// © Copyright 2025-2026, Query.Farm LLC - https://query.farm
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Query-farm/getjson/getjson"
	getjsonprom "github.com/Query-farm/getjson/getjson/prom"
	"github.com/Query-farm/getjson/internal/config"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// shutdownTimeout bounds telemetry flushing and metrics listener shutdown.
const shutdownTimeout = 5 * time.Second

func serveCmd() *cobra.Command {
	var (
		configPath string
		app        string
		addr       string
		logLevel   string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the server",
		Long: `Start the socket server for an application and serve until interrupted.

The optional Prometheus listener and OpenTelemetry stdout exporters are
enabled through configuration.`,
		Example: `  getjson serve --app store --addr 127.0.0.1:8889
  GETJSON_METRICS_PROMETHEUS_ADDR=:9100 getjson serve --app conformance`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				cfg.Server.Addr = addr
			}
			if cmd.Flags().Changed("log-level") {
				cfg.Logging.Level = logLevel
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("config validation failed: %w", err)
			}

			logger := getjson.NewLogger(cmd.ErrOrStderr(), cfg.LogLevel(), cfg.Logging.Format)
			a, err := newApplication(cfg, app, logger, cmd.OutOrStdout())
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.run(ctx)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "YAML config file (default $"+config.EnvConfigFile+")")
	cmd.Flags().StringVarP(&app, "app", "a", "store", "application to serve ("+appNames()+")")
	cmd.Flags().StringVar(&addr, "addr", "", "listen address, overriding configuration")
	cmd.Flags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")

	return cmd
}

// application is a configured server with its optional metrics listener
// and telemetry. Listeners are bound at construction so their addresses are
// known before run.
type application struct {
	logger    *slog.Logger
	server    *getjson.Server
	ln        net.Listener
	metrics   *http.Server
	metricsLn net.Listener
	telemetry *telemetry
}

func newApplication(cfg *config.Config, app string, logger *slog.Logger, telemetryOut io.Writer) (_ *application, err error) {
	opts := cfg.ServerOptions()
	opts.Logger = logger
	a := &application{logger: logger, server: getjson.NewServer(opts)}
	if err := registerApp(a.server, app); err != nil {
		return nil, err
	}
	a.server.SetDebugErrors(cfg.Server.DebugErrors)
	a.server.SetDescribePath(cfg.Server.DescribePath)

	defer func() {
		if err != nil {
			a.close()
		}
	}()

	var hooks getjson.MultiHook
	if cfg.Telemetry.Tracing || cfg.Telemetry.Metrics {
		a.telemetry, err = setupTelemetry(cfg.Telemetry, telemetryOut, logger)
		if err != nil {
			return nil, err
		}
		hooks = append(hooks, a.telemetry.hook())
	}

	if cfg.Metrics.PrometheusAddr != "" {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		hooks = append(hooks, getjsonprom.New(getjsonprom.WithRegistry(reg)))

		mux := http.NewServeMux()
		mux.Handle(cfg.Metrics.Path, promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
		a.metrics = &http.Server{Handler: mux, ReadHeaderTimeout: shutdownTimeout}
		if a.metricsLn, err = net.Listen("tcp", cfg.Metrics.PrometheusAddr); err != nil {
			return nil, fmt.Errorf("metrics listen %s: %w", cfg.Metrics.PrometheusAddr, err)
		}
	}

	switch len(hooks) {
	case 0:
	case 1:
		a.server.SetDispatchHook(hooks[0])
	default:
		a.server.SetDispatchHook(hooks)
	}

	if a.ln, err = net.Listen("tcp", cfg.Server.Addr); err != nil {
		return nil, fmt.Errorf("listen %s: %w", cfg.Server.Addr, err)
	}
	return a, nil
}

// run serves until ctx is cancelled or a listener fails, then flushes
// telemetry.
func (a *application) run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return a.server.Serve(gctx, a.ln)
	})

	if a.metrics != nil {
		g.Go(func() error {
			a.logger.Info("metrics listening", "addr", a.metricsLn.Addr().String())
			if err := a.metrics.Serve(a.metricsLn); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("metrics listener: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return a.metrics.Shutdown(shutdownCtx)
		})
	}

	err := g.Wait()
	if a.telemetry != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		err = errors.Join(err, a.telemetry.shutdown(shutdownCtx))
	}
	return err
}

// close releases resources after a failed construction.
func (a *application) close() {
	if a.ln != nil {
		a.ln.Close()
	}
	if a.metricsLn != nil {
		a.metricsLn.Close()
	}
	if a.telemetry != nil {
		_ = a.telemetry.shutdown(context.Background())
	}
}
