// © Copyright 2025-2026, Query.Farm LLC - https://query.farm
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"slices"
	"strings"

	"github.com/Query-farm/getjson/benchmark"
	"github.com/Query-farm/getjson/conformance"
	"github.com/Query-farm/getjson/getjson"
	"github.com/Query-farm/getjson/internal/store"
)

// apps maps an application name to the controllers it registers.
var apps = map[string]func() []getjson.Controller{
	"store":       func() []getjson.Controller { return []getjson.Controller{store.New(nil)} },
	"conformance": func() []getjson.Controller { return []getjson.Controller{conformance.Controller{}} },
	"benchmark":   func() []getjson.Controller { return []getjson.Controller{benchmark.Controller{}} },
}

func appNames() string {
	names := make([]string, 0, len(apps))
	for name := range apps {
		names = append(names, name)
	}
	slices.Sort(names)
	return strings.Join(names, ", ")
}

// registerApp adds the named application's controllers to server.
func registerApp(server *getjson.Server, name string) error {
	controllers, ok := apps[name]
	if !ok {
		return fmt.Errorf("unknown app %q (available: %s)", name, appNames())
	}
	server.Register(controllers()...)
	return nil
}
