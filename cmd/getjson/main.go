// © Copyright 2025-2026, Query.Farm LLC - https://query.farm
// SPDX-License-Identifier: Apache-2.0

// Command getjson serves a registered application over the getjson socket
// transport.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "getjson",
		Short: "Serve JSON over GET from registered routes",
		Long: `getjson accepts raw TCP connections, matches the request path against
registered route patterns, binds path and query parameters to typed
arguments and replies with compact JSON.

Configuration comes from defaults, an optional YAML file (--config or
GETJSON_CONFIG_FILE) and GETJSON_* environment variables.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		serveCmd(),
		routesCmd(),
		versionCmd(),
	)
	return rootCmd
}
