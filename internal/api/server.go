// Package api serves the MCP streamable-HTTP endpoint.
//
// Request flow: recovery → request logging → rate limiting → bearer
// token verification → MCP handler. The /health probe sits outside
// the auth gate.
//
// File structure:
//   - server.go: HTTP server setup and lifecycle
//   - middleware.go: recovery and request logging
//   - ratelimit.go: per-IP token bucket limiting
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	sdkauth "github.com/modelcontextprotocol/go-sdk/auth"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"websmith/internal/log"
)

const (
	// ReadHeaderTimeout bounds header reads (Slowloris defense).
	ReadHeaderTimeout = 10 * time.Second

	// ReadTimeout is the maximum duration for reading a request.
	ReadTimeout = 30 * time.Second

	// WriteTimeout is long because streamable HTTP sessions hold the
	// response open.
	WriteTimeout = 2 * time.Minute

	// IdleTimeout applies to keep-alive connections.
	IdleTimeout = 2 * time.Minute

	// ShutdownTimeout is the maximum wait for graceful shutdown.
	ShutdownTimeout = 10 * time.Second
)

// Config assembles the HTTP server.
type Config struct {
	Logger log.Logger

	// MCP is the protocol server handling /mcp traffic.
	MCP *mcp.Server

	// Verifier gates every /mcp request; RequiredScopes must all be
	// present on the token.
	Verifier       sdkauth.TokenVerifier
	RequiredScopes []string

	// RateLimit is tokens per second per client IP; RateBurst the
	// bucket size. Zero values disable limiting.
	RateLimit  float64
	RateBurst  int
	TrustProxy bool
}

// Server is the HTTP front for the MCP server.
type Server struct {
	handler http.Handler
	logger  log.Logger
}

// NewServer builds the route table and middleware chain.
func NewServer(cfg Config) (*Server, error) {
	if cfg.MCP == nil {
		return nil, fmt.Errorf("mcp server is required")
	}
	if cfg.Verifier == nil {
		return nil, fmt.Errorf("token verifier is required")
	}
	if cfg.Logger == nil {
		cfg.Logger = log.NewNop()
	}

	streamable := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return cfg.MCP
	}, nil)

	requireToken := sdkauth.RequireBearerToken(cfg.Verifier, &sdkauth.RequireBearerTokenOptions{
		Scopes: cfg.RequiredScopes,
	})

	mux := http.NewServeMux()
	mux.Handle("/mcp", requireToken(streamable))
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	middlewares := []func(http.Handler) http.Handler{
		recoveryMiddleware(cfg.Logger),
		loggingMiddleware(cfg.Logger),
	}
	if cfg.RateLimit > 0 && cfg.RateBurst > 0 {
		rl := newRateLimiter(cfg.RateLimit, cfg.RateBurst)
		middlewares = append(middlewares, rateLimitMiddleware(rl, cfg.TrustProxy, cfg.Logger))
	}

	return &Server{
		handler: chain(mux, middlewares...),
		logger:  cfg.Logger,
	}, nil
}

// Handler returns the assembled HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Run starts the HTTP server and blocks until the context is
// canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.handler,
		ReadHeaderTimeout: ReadHeaderTimeout,
		ReadTimeout:       ReadTimeout,
		WriteTimeout:      WriteTimeout,
		IdleTimeout:       IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
