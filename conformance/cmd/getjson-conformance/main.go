// © Copyright 2025-2026, Query.Farm LLC - https://query.farm
// SPDX-License-Identifier: Apache-2.0

// Command getjson-conformance serves the conformance fixture on a free
// loopback port and prints "PORT:<n>" once it is accepting connections.
// With --http the same routes are served through net/http instead of the
// socket transport.
package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/Query-farm/getjson/conformance"
	"github.com/Query-farm/getjson/getjson"
)

func main() {
	logger := getjson.NewLogger(os.Stderr, getjson.LogDebug, "text")
	server := getjson.NewServer(getjson.ServerOptions{Logger: logger})
	server.SetDebugErrors(true)
	server.SetDescribePath(getjson.DefaultDescribePath)
	conformance.Register(server)

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to listen: %v\n", err)
		os.Exit(1)
	}
	port := listener.Addr().(*net.TCPAddr).Port
	fmt.Printf("PORT:%d\n", port)
	os.Stdout.Sync()

	// Catch SIGTERM/SIGINT so the process exits cleanly and flushes
	// coverage data when built with -cover.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	if len(os.Args) > 1 && os.Args[1] == "--http" {
		srv := &http.Server{Handler: server.Handler()}
		go func() {
			<-ctx.Done()
			srv.Shutdown(context.Background())
		}()
		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			fmt.Fprintf(os.Stderr, "http serve error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := server.Serve(ctx, listener); err != nil {
		fmt.Fprintf(os.Stderr, "serve error: %v\n", err)
		os.Exit(1)
	}
}
