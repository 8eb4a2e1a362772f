package api

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	sdkauth "github.com/modelcontextprotocol/go-sdk/auth"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"websmith/internal/log"
)

// staticVerifier accepts exactly one token value.
func staticVerifier(valid string) sdkauth.TokenVerifier {
	return func(_ context.Context, token string, _ *http.Request) (*sdkauth.TokenInfo, error) {
		if token != valid {
			return nil, fmt.Errorf("%w: unknown token", sdkauth.ErrInvalidToken)
		}
		return &sdkauth.TokenInfo{
			Scopes:     []string{"openid"},
			Expiration: time.Now().Add(time.Hour),
		}, nil
	}
}

func newTestAPIServer(t *testing.T, cfg Config) *Server {
	t.Helper()

	if cfg.MCP == nil {
		cfg.MCP = mcp.NewServer(&mcp.Implementation{Name: "test", Version: "0"}, nil)
	}
	if cfg.Verifier == nil {
		cfg.Verifier = staticVerifier("good-token")
	}
	if cfg.Logger == nil {
		cfg.Logger = log.NewNop()
	}

	server, err := NewServer(cfg)
	if err != nil {
		t.Fatalf("NewServer(): %v", err)
	}
	return server
}

func TestNewServer_Validation(t *testing.T) {
	if _, err := NewServer(Config{Verifier: staticVerifier("x")}); err == nil {
		t.Error("NewServer without MCP server succeeded, want error")
	}
	mcpServer := mcp.NewServer(&mcp.Implementation{Name: "test", Version: "0"}, nil)
	if _, err := NewServer(Config{MCP: mcpServer}); err == nil {
		t.Error("NewServer without verifier succeeded, want error")
	}
}

func TestHealth_NoAuthRequired(t *testing.T) {
	server := newTestAPIServer(t, Config{})

	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("GET /health = %d, want %d", rec.Code, http.StatusOK)
	}
}

func TestMCP_RejectsMissingToken(t *testing.T) {
	server := newTestAPIServer(t, Config{})

	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/mcp", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("POST /mcp without token = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestMCP_RejectsBadToken(t *testing.T) {
	server := newTestAPIServer(t, Config{})

	req := httptest.NewRequest(http.MethodPost, "/mcp", nil)
	req.Header.Set("Authorization", "Bearer forged")
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("POST /mcp with bad token = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestRateLimit_Kicks(t *testing.T) {
	server := newTestAPIServer(t, Config{
		RateLimit: 1,
		RateBurst: 2,
	})

	var last int
	for i := 0; i < 5; i++ {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.RemoteAddr = "203.0.113.7:1234"
		rec := httptest.NewRecorder()
		server.Handler().ServeHTTP(rec, req)
		last = rec.Code
	}

	if last != http.StatusTooManyRequests {
		t.Errorf("5th rapid request = %d, want %d", last, http.StatusTooManyRequests)
	}
}

func TestRateLimit_PerIP(t *testing.T) {
	server := newTestAPIServer(t, Config{
		RateLimit: 1,
		RateBurst: 1,
	})

	// Exhaust one IP's bucket.
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.RemoteAddr = "203.0.113.1:1000"
		server.Handler().ServeHTTP(httptest.NewRecorder(), req)
	}

	// A different IP still gets through.
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.RemoteAddr = "203.0.113.2:1000"
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("fresh IP = %d, want %d", rec.Code, http.StatusOK)
	}
}
