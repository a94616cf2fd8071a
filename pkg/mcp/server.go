package mcp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/macropower/dcx/pkg/resolver"
	"github.com/macropower/dcx/pkg/version"
)

const shutdownTimeout = 5 * time.Second

// Server implements the MCP server for dcx.
type Server struct {
	loader   resolver.Loader
	resolver *resolver.Resolver
	server   *mcp.Server
	tracer   trace.Tracer
	wireLog  io.Writer
	address  string
}

// Opt configures a [Server].
type Opt func(*Server)

// WithAddress serves streamable HTTP on address instead of stdio.
func WithAddress(address string) Opt {
	return func(s *Server) {
		s.address = address
	}
}

// WithWireLog writes every MCP message exchanged over stdio to w.
func WithWireLog(w io.Writer) Opt {
	return func(s *Server) {
		s.wireLog = w
	}
}

// WithTracerProvider sets the provider used for tool call spans.
func WithTracerProvider(tp trace.TracerProvider) Opt {
	return func(s *Server) {
		s.tracer = tp.Tracer("mcp")
	}
}

// NewServer creates a new MCP server that serves rules from loader.
func NewServer(loader resolver.Loader, opts ...Opt) *Server {
	s := &Server{
		loader: loader,
		tracer: otel.Tracer("mcp"),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.resolver = resolver.New(loader)
	s.server = mcp.NewServer(&mcp.Implementation{
		Name:    name,
		Version: version.GetVersion(),
	}, &mcp.ServerOptions{
		Instructions: instructions,
		Logger:       slog.Default(),
	})

	s.registerTools()

	return s
}

func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_context_for_file",
		Description: "Retrieves coding guidelines and context based on the file path provided. Call this before editing code.",
	}, WithTracing(s.tracer, s.handleGetContext))

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_rules",
		Description: "Lists the rule documents in the rules directory with their triggers and patterns.",
	}, WithTracing(s.tracer, s.handleListRules))
}

// Server returns the underlying SDK server.
func (s *Server) Server() *mcp.Server {
	return s.server
}

// Serve runs the MCP server until ctx is done or, on stdio, the client
// disconnects.
func (s *Server) Serve(ctx context.Context) error {
	if s.address == "" {
		slog.InfoContext(ctx, "starting MCP server", slog.String("transport", "stdio"))

		err := s.serveStdio(ctx)
		if err != nil {
			return fmt.Errorf("serve stdio: %w", err)
		}

		return nil
	}

	slog.InfoContext(ctx, "starting MCP server",
		slog.String("transport", "http"),
		slog.String("address", s.address),
	)

	err := s.serveHTTP(ctx)
	if err != nil {
		return fmt.Errorf("serve HTTP: %w", err)
	}

	return nil
}

func (s *Server) serveStdio(ctx context.Context) error {
	var t mcp.Transport = &mcp.StdioTransport{}
	if s.wireLog != nil {
		t = &mcp.LoggingTransport{Transport: t, Writer: s.wireLog}
	}

	err := s.server.Run(ctx, t)
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("MCP server failed: %w", err)
	}

	return nil
}

func (s *Server) serveHTTP(ctx context.Context) error {
	handler := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return s.server
	}, nil)

	server := &http.Server{
		Addr:    s.address,
		Handler: handler,

		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)

	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("MCP server failed: %w", err)
		}

		return nil

	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()

	err := server.Shutdown(shutdownCtx)
	if err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	return nil
}
