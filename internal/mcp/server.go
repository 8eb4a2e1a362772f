package mcp

import (
	"context"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"websmith/internal/log"
	"websmith/internal/patch"
	"websmith/internal/site"
)

// Server wraps the MCP SDK server around the project store and patch
// engine.
type Server struct {
	mcpServer *mcp.Server
	store     *site.Store
	engine    *patch.Engine
	logger    log.Logger
}

// Config holds MCP server configuration.
type Config struct {
	Name         string
	Version      string
	Instructions string
	Store        *site.Store
	Engine       *patch.Engine
	Logger       log.Logger
}

// NewServer creates the MCP server and registers all tools.
func NewServer(cfg Config) (*Server, error) {
	if cfg.Name == "" {
		return nil, fmt.Errorf("server name is required")
	}
	if cfg.Version == "" {
		return nil, fmt.Errorf("server version is required")
	}
	if cfg.Store == nil {
		return nil, fmt.Errorf("site store is required")
	}
	if cfg.Engine == nil {
		return nil, fmt.Errorf("patch engine is required")
	}
	if cfg.Logger == nil {
		cfg.Logger = log.NewNop()
	}

	mcpServer := mcp.NewServer(&mcp.Implementation{
		Name:    cfg.Name,
		Version: cfg.Version,
	}, &mcp.ServerOptions{
		Instructions: cfg.Instructions,
	})

	s := &Server{
		mcpServer: mcpServer,
		store:     cfg.Store,
		engine:    cfg.Engine,
		logger:    cfg.Logger,
	}

	if err := s.registerTools(); err != nil {
		return nil, fmt.Errorf("registering tools: %w", err)
	}
	return s, nil
}

// Run starts the server on the given transport and blocks until the
// context is canceled or the client disconnects.
func (s *Server) Run(ctx context.Context, transport mcp.Transport) error {
	return s.mcpServer.Run(ctx, transport)
}

// MCPServer exposes the underlying SDK server for HTTP handler
// construction.
func (s *Server) MCPServer() *mcp.Server {
	return s.mcpServer
}

// registerTools registers the five website tools.
func (s *Server) registerTools() error {
	ensureSchema, err := jsonschema.For[EnsureWebsiteInput](nil)
	if err != nil {
		return fmt.Errorf("schema for ensure_website: %w", err)
	}
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "ensure_website",
		Description: "Ensure the website directory and its 3 code files (index.html, styles.css, script.js) exist.",
		InputSchema: ensureSchema,
	}, s.EnsureWebsite)

	getSchema, err := jsonschema.For[GetWebsiteInput](nil)
	if err != nil {
		return fmt.Errorf("schema for get_website: %w", err)
	}
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_website",
		Description: "Return the full contents of index.html, styles.css and script.js. ALWAYS call this before making edits.",
		InputSchema: getSchema,
	}, s.GetWebsite)

	readSchema, err := jsonschema.For[ReadFileInput](nil)
	if err != nil {
		return fmt.Errorf("schema for read_file: %w", err)
	}
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "read_file",
		Description: "Read a single file from the website project.",
		InputSchema: readSchema,
	}, s.ReadFile)

	writeSchema, err := jsonschema.For[WriteFileInput](nil)
	if err != nil {
		return fmt.Errorf("schema for write_file: %w", err)
	}
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "write_file",
		Description: "Replace entire file content (use for major rewrites).",
		InputSchema: writeSchema,
	}, s.WriteFile)

	updateSchema, err := jsonschema.For[UpdateFileInput](nil)
	if err != nil {
		return fmt.Errorf("schema for update_file: %w", err)
	}
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "update_file",
		Description: "Update small parts of a file line-by-line. Each change has an action (replace, insert, delete), a zero-based line number, and optional content. Changes apply in order against the file as mutated by earlier changes in the same batch.",
		InputSchema: updateSchema,
	}, s.UpdateFile)

	return nil
}
