package mcpserver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/inovacc/git-pr-mcp/internal/config"
	"github.com/mark3labs/mcp-go/server"
)

// Endpoint paths served by the HTTP transports
const (
	PathSSE     = "/sse"
	PathMessage = "/message"
	PathMCP     = "/mcp"
	PathHealth  = "/healthz"
)

// Options configures how the MCP server is served
type Options struct {
	Transport string
	Host      string
	Port      int
	Logger    *slog.Logger
}

// Addr returns host:port
func (o Options) Addr() string {
	return net.JoinHostPort(o.Host, fmt.Sprint(o.Port))
}

// Runner serves an MCP server over one transport until its context ends
type Runner struct {
	mcp        *server.MCPServer
	opts       Options
	logger     *slog.Logger
	httpServer *http.Server
	shutdowns  []func(context.Context) error
}

// NewRunner creates a Runner for s
func NewRunner(s *server.MCPServer, opts Options) (*Runner, error) {
	switch opts.Transport {
	case config.TransportSSE, config.TransportHTTP, config.TransportStdio:
	default:
		return nil, fmt.Errorf("unknown transport %q (want sse, http or stdio)", opts.Transport)
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Runner{
		mcp:    s,
		opts:   opts,
		logger: logger.With("component", "mcpserver", "transport", opts.Transport),
	}, nil
}

// Handler builds the HTTP routes for the sse and http transports. SSE clients
// are sent a relative message endpoint so wildcard binds and proxies work.
func (r *Runner) Handler() (http.Handler, error) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET "+PathHealth, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})

	switch r.opts.Transport {
	case config.TransportSSE:
		sse := server.NewSSEServer(r.mcp,
			server.WithUseFullURLForMessageEndpoint(false),
			server.WithSSEEndpoint(PathSSE),
			server.WithMessageEndpoint(PathMessage),
			server.WithKeepAlive(true),
		)
		mux.Handle(PathSSE, sse.SSEHandler())
		mux.Handle(PathMessage, sse.MessageHandler())
		r.shutdowns = append(r.shutdowns, sse.Shutdown)
	case config.TransportHTTP:
		streamable := server.NewStreamableHTTPServer(r.mcp)
		mux.Handle(PathMCP, streamable)
		r.shutdowns = append(r.shutdowns, streamable.Shutdown)
	default:
		return nil, fmt.Errorf("transport %q has no HTTP handler", r.opts.Transport)
	}

	return r.loggingMiddleware(mux), nil
}

// Run serves until ctx is cancelled. stdio reads requests from os.Stdin and
// writes responses to os.Stdout.
func (r *Runner) Run(ctx context.Context) error {
	if r.opts.Transport == config.TransportStdio {
		r.logger.Info("serving MCP over stdio")

		stdio := server.NewStdioServer(r.mcp)
		stdio.SetErrorLogger(slog.NewLogLogger(r.logger.Handler(), slog.LevelError))

		if err := stdio.Listen(ctx, os.Stdin, os.Stdout); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}

		return nil
	}

	listener, err := net.Listen("tcp", r.opts.Addr())
	if err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return r.Serve(ctx, listener)
}

// Serve serves the HTTP transports on listener until ctx is cancelled
func (r *Runner) Serve(ctx context.Context, listener net.Listener) error {
	addr := listener.Addr().String()

	handler, err := r.Handler()
	if err != nil {
		_ = listener.Close()
		return err
	}

	// No WriteTimeout: SSE and streamable responses stay open.
	r.httpServer = &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)

	go func() {
		if err := r.httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}

		close(errCh)
	}()

	r.logger.Info("MCP server listening", "addr", addr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	return r.Shutdown(context.Background()) //nolint:contextcheck // parent context cancelled, use background for shutdown
}

// Shutdown closes open sessions and stops the HTTP server
func (r *Runner) Shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	r.logger.Info("shutting down MCP server")

	var errs []error

	for _, fn := range r.shutdowns {
		if err := fn(shutdownCtx); err != nil {
			errs = append(errs, err)
		}
	}

	if r.httpServer != nil {
		if err := r.httpServer.Shutdown(shutdownCtx); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// loggingMiddleware logs HTTP requests
func (r *Runner) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, req)
		r.logger.Debug("http request", "method", req.Method, "path", req.URL.Path, "duration", time.Since(start))
	})
}
