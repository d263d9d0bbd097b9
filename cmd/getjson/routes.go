// © Copyright 2025-2026, Query.Farm LLC - https://query.farm
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/Query-farm/getjson/getjson"

	"github.com/spf13/cobra"
)

func routesCmd() *cobra.Command {
	var (
		app    string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "routes",
		Short: "List the routes an application registers",
		Long: `List the routes of an application in registration order, which is
also match order. With --json the listing is the same document the describe
endpoint serves.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			server := getjson.NewServer(getjson.ServerOptions{})
			if err := registerApp(server, app); err != nil {
				return err
			}
			if asJSON {
				return writeRoutesJSON(cmd.OutOrStdout(), server.Routes())
			}
			return writeRoutesTable(cmd.OutOrStdout(), server.Routes())
		},
	}

	cmd.Flags().StringVarP(&app, "app", "a", "store", "application to list ("+appNames()+")")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the listing as JSON")

	return cmd
}

func writeRoutesTable(w io.Writer, routes []getjson.Route) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PATTERN\tCONTROLLER\tPARAMS")
	for _, r := range routes {
		params := make([]string, 0, len(r.Endpoint.Params))
		for _, p := range r.Endpoint.Params {
			s := fmt.Sprintf("%s:%s (%s)", p.Name, p.Type, p.Source)
			if !p.Required {
				s += "?"
			}
			params = append(params, s)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", r.Pattern, r.Controller, strings.Join(params, ", "))
	}
	return tw.Flush()
}

func writeRoutesJSON(w io.Writer, routes []getjson.Route) error {
	table := getjson.NewRouteTable()
	for _, r := range routes {
		table.Add(r)
	}
	v, err := getjson.DescribeRoutes(table)
	if err != nil {
		return err
	}
	text, err := v.Serialize()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, text)
	return err
}
