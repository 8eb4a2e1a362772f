package mcp

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"websmith/internal/log"
	"websmith/internal/patch"
	"websmith/internal/site"
)

// newTestServer builds a Server over a temp project directory.
func newTestServer(t *testing.T) *Server {
	t.Helper()

	store := site.New(filepath.Join(t.TempDir(), "website"), log.NewNop())
	server, err := NewServer(Config{
		Name:    "websmith-test",
		Version: "0.0.1",
		Store:   store,
		Engine:  patch.NewEngine(store),
		Logger:  log.NewNop(),
	})
	if err != nil {
		t.Fatalf("NewServer(): %v", err)
	}
	return server
}

// decodeResult unmarshals the single JSON text content of a result.
func decodeResult(t *testing.T, result *mcp.CallToolResult) map[string]any {
	t.Helper()

	if result.IsError {
		t.Fatalf("result unexpectedly marked IsError: %v", result.Content)
	}
	if len(result.Content) != 1 {
		t.Fatalf("result has %d content blocks, want 1", len(result.Content))
	}
	text, ok := result.Content[0].(*mcp.TextContent)
	if !ok {
		t.Fatalf("content is %T, want *mcp.TextContent", result.Content[0])
	}

	var payload map[string]any
	if err := json.Unmarshal([]byte(text.Text), &payload); err != nil {
		t.Fatalf("unmarshaling payload %q: %v", text.Text, err)
	}
	return payload
}

func TestNewServer_Validation(t *testing.T) {
	store := site.New(t.TempDir(), log.NewNop())
	engine := patch.NewEngine(store)

	tests := []struct {
		name string
		cfg  Config
	}{
		{"missing name", Config{Version: "1", Store: store, Engine: engine}},
		{"missing version", Config{Name: "x", Store: store, Engine: engine}},
		{"missing store", Config{Name: "x", Version: "1", Engine: engine}},
		{"missing engine", Config{Name: "x", Version: "1", Store: store}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewServer(tt.cfg); err == nil {
				t.Error("NewServer() succeeded, want error")
			}
		})
	}
}

func TestNewServer_Valid(t *testing.T) {
	server := newTestServer(t)
	if server.MCPServer() == nil {
		t.Error("MCPServer() returned nil")
	}
}
