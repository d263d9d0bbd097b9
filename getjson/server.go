// © Copyright 2025-2026, Query.Farm LLC - https://query.farm
// SPDX-License-Identifier: Apache-2.0

package getjson

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"sync"
	"sync/atomic"
	"syscall"
	"time"
)

// ServerOptions configures a Server.
type ServerOptions struct {
	// Addr is the TCP listen address used by ListenAndServe. Defaults to
	// DefaultAddr.
	Addr string
	// Logger receives server logs. Defaults to slog.Default().
	Logger *slog.Logger
	// ReadTimeout bounds the wait for a request line. Zero means no limit.
	ReadTimeout time.Duration
}

// Server accepts TCP connections and serves one request per connection.
//
// Controllers are registered before serving starts. Once Serve is running
// the route table is only read, by any number of connection goroutines.
type Server struct {
	opts       ServerOptions
	logger     *slog.Logger
	routes     *RouteTable
	dispatcher *Dispatcher

	started  atomic.Bool
	mu       sync.Mutex
	ln       net.Listener
	done     chan struct{}
	stopOnce sync.Once
	conns    sync.WaitGroup
}

// NewServer creates a server with no routes.
func NewServer(opts ServerOptions) *Server {
	if opts.Addr == "" {
		opts.Addr = DefaultAddr
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", componentName)
	routes := NewRouteTable()
	return &Server{
		opts:       opts,
		logger:     logger,
		routes:     routes,
		dispatcher: NewDispatcher(routes, logger),
		done:       make(chan struct{}),
	}
}

// Register adds the endpoints of each controller in order. It panics on a
// nil controller, a controller with no endpoints, an invalid pattern, a nil
// invoke function, or when called after serving has started.
func (s *Server) Register(controllers ...Controller) {
	if s.started.Load() {
		panic("getjson: Register called after Serve")
	}
	for _, c := range controllers {
		if c == nil {
			panic("getjson: registering nil controller")
		}
		name := fmt.Sprintf("%T", c)
		endpoints := c.Endpoints()
		if len(endpoints) == 0 {
			panic(fmt.Sprintf("getjson: controller %s has no endpoints", name))
		}
		for _, ep := range endpoints {
			pattern, err := ParsePattern(ep.Pattern)
			if err != nil {
				panic(fmt.Sprintf("getjson: registering %q: %v", ep.Pattern, err))
			}
			if ep.Invoke == nil {
				panic(fmt.Sprintf("getjson: registering %q: nil invoke function", ep.Pattern))
			}
			s.routes.Add(Route{Pattern: pattern, Endpoint: ep, Controller: name})
		}
	}
}

// SetDispatchHook registers a hook that is called around each dispatch.
func (s *Server) SetDispatchHook(hook DispatchHook) {
	s.dispatcher.hook = hook
}

// SetDebugErrors controls whether failed dispatches are logged with stack
// frames. Responses never carry error detail either way.
func (s *Server) SetDebugErrors(enabled bool) {
	s.dispatcher.debugErrors = enabled
}

// SetDescribePath serves the route listing at path. An empty path disables
// it, which is the default. The describe path is checked before routes.
func (s *Server) SetDescribePath(path string) {
	s.dispatcher.describePath = path
}

// Routes returns the registered routes in registration order.
func (s *Server) Routes() []Route {
	return s.routes.Routes()
}

// Dispatcher returns the dispatcher used for every connection.
func (s *Server) Dispatcher() *Dispatcher {
	return s.dispatcher
}

// Addr returns the listener address, or nil before serving starts.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln == nil {
		return nil
	}
	return s.ln.Addr()
}

// ListenAndServe listens on the configured address and calls Serve.
func (s *Server) ListenAndServe(ctx context.Context) error {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", s.opts.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.opts.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled or Stop is called,
// then waits briefly for in-flight connections. A stop is not an error:
// Serve returns nil. Serve can be called only once.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	if !s.started.CompareAndSwap(false, true) {
		return errors.New("getjson: server already started")
	}
	s.mu.Lock()
	s.ln = ln
	s.mu.Unlock()
	if s.stopping() {
		// Stop ran before the listener was recorded.
		_ = ln.Close()
		return nil
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		select {
		case <-ctx.Done():
			s.Stop()
		case <-s.done:
		}
	}()

	s.logger.Info("listening", "addr", ln.Addr().String(), "routes", s.routes.Len())
	defer s.waitConns()

	for {
		conn, err := ln.Accept()
		if err != nil {
			if s.stopping() {
				return nil
			}
			s.logger.Error("accept failed", "err", err)
			s.Stop()
			return fmt.Errorf("accept: %w", err)
		}
		s.conns.Add(1)
		go func() {
			defer s.conns.Done()
			s.serveConn(ctx, conn)
		}()
	}
}

// Stop closes the listener. It is safe to call more than once and from any
// goroutine.
func (s *Server) Stop() {
	s.stopOnce.Do(func() {
		close(s.done)
		s.mu.Lock()
		ln := s.ln
		s.mu.Unlock()
		if ln != nil {
			if err := ln.Close(); err != nil {
				s.logger.Warn("closing listener", "err", err)
			}
		}
	})
}

func (s *Server) stopping() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}

func (s *Server) waitConns() {
	finished := make(chan struct{})
	go func() {
		s.conns.Wait()
		close(finished)
	}()
	select {
	case <-finished:
	case <-time.After(shutdownGrace):
		s.logger.Warn("connections still running after shutdown grace period")
	}
}

// serveConn handles one complete request-response cycle and closes conn.
func (s *Server) serveConn(ctx context.Context, conn net.Conn) {
	defer conn.Close()
	remote := conn.RemoteAddr().String()

	if s.opts.ReadTimeout > 0 {
		_ = conn.SetReadDeadline(time.Now().Add(s.opts.ReadTimeout))
	}
	req, err := ReadRequest(bufio.NewReaderSize(conn, maxRequestLine))
	if err != nil {
		switch {
		case errors.Is(err, errIgnored):
			s.logger.Debug("ignoring request", "remote_addr", remote)
		case !isTransportClosed(err):
			s.logger.Warn("reading request", "remote_addr", remote, "err", err)
		}
		return
	}
	req.RemoteAddr = remote

	res := s.dispatcher.Dispatch(ctx, req)
	if err := WriteResponse(conn, res); err != nil && !isTransportClosed(err) {
		s.logger.Warn("writing response", "remote_addr", remote, "err", err)
	}
}

// isTransportClosed reports whether err means the peer went away.
func isTransportClosed(err error) bool {
	return errors.Is(err, io.EOF) ||
		errors.Is(err, net.ErrClosed) ||
		errors.Is(err, syscall.EPIPE) ||
		errors.Is(err, syscall.ECONNRESET)
}
