// © Copyright 2025-2026, Query.Farm LLC - https://query.farm
// SPDX-License-Identifier: Apache-2.0

package getjson

import (
	"log/slog"
	"net"
	"strconv"
	"time"
)

// ServerBuilder assembles a Server step by step.
//
//	srv := getjson.NewBuilder().
//		Port(8080).
//		AddController(items).
//		Build()
type ServerBuilder struct {
	host         string
	port         int
	addr         string
	logger       *slog.Logger
	readTimeout  time.Duration
	hook         DispatchHook
	debugErrors  bool
	describePath string
	controllers  []Controller
}

// NewBuilder returns a builder for a server on DefaultAddr.
func NewBuilder() *ServerBuilder {
	return &ServerBuilder{}
}

// Addr sets the full listen address, overriding Host and Port.
func (b *ServerBuilder) Addr(addr string) *ServerBuilder {
	b.addr = addr
	return b
}

// Host sets the listen host.
func (b *ServerBuilder) Host(host string) *ServerBuilder {
	b.host = host
	return b
}

// Port sets the listen port. Zero picks a free port.
func (b *ServerBuilder) Port(port int) *ServerBuilder {
	b.port = port
	return b
}

// Logger sets the server logger.
func (b *ServerBuilder) Logger(l *slog.Logger) *ServerBuilder {
	b.logger = l
	return b
}

// ReadTimeout bounds the wait for each request line.
func (b *ServerBuilder) ReadTimeout(d time.Duration) *ServerBuilder {
	b.readTimeout = d
	return b
}

// DispatchHook installs an observability hook.
func (b *ServerBuilder) DispatchHook(h DispatchHook) *ServerBuilder {
	b.hook = h
	return b
}

// DebugErrors enables stack frames in failure logs.
func (b *ServerBuilder) DebugErrors(enabled bool) *ServerBuilder {
	b.debugErrors = enabled
	return b
}

// DescribePath serves the route listing at path.
func (b *ServerBuilder) DescribePath(path string) *ServerBuilder {
	b.describePath = path
	return b
}

// AddController queues a controller for registration. Controllers are
// validated by Build.
func (b *ServerBuilder) AddController(c Controller) *ServerBuilder {
	b.controllers = append(b.controllers, c)
	return b
}

// Build creates the server and registers every controller. It panics under
// the same conditions as Server.Register, and when no controller was added.
func (b *ServerBuilder) Build() *Server {
	if len(b.controllers) == 0 {
		panic("getjson: no controllers added")
	}
	addr := b.addr
	if addr == "" && (b.host != "" || b.port != 0) {
		addr = net.JoinHostPort(b.host, strconv.Itoa(b.port))
	}
	s := NewServer(ServerOptions{
		Addr:        addr,
		Logger:      b.logger,
		ReadTimeout: b.readTimeout,
	})
	s.Register(b.controllers...)
	s.SetDispatchHook(b.hook)
	s.SetDebugErrors(b.debugErrors)
	s.SetDescribePath(b.describePath)
	return s
}
