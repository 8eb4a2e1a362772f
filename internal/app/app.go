// Package app provides application initialization and dependency
// wiring: one Setup call builds the logger, project store, patch
// engine, and MCP server that both transports share.
package app

import (
	"fmt"

	"websmith/internal/config"
	"websmith/internal/instructions"
	"websmith/internal/log"
	"websmith/internal/mcp"
	"websmith/internal/patch"
	"websmith/internal/site"
)

// App is the application container.
type App struct {
	Config *config.Config
	Logger log.Logger
	Store  *site.Store
	Engine *patch.Engine
	MCP    *mcp.Server
}

// Setup builds all components from configuration. version tags the
// MCP implementation advertised to clients.
func Setup(cfg *config.Config, version string) (*App, error) {
	logger := log.New(log.Config{
		Level: log.ParseLevel(cfg.LogLevel),
		JSON:  cfg.LogJSON,
	})

	store := site.New(cfg.SiteDir, logger.With("component", "site"))
	engine := patch.NewEngine(store)

	server, err := mcp.NewServer(mcp.Config{
		Name:         "websmith",
		Version:      version,
		Instructions: instructions.Text(),
		Store:        store,
		Engine:       engine,
		Logger:       logger.With("component", "mcp"),
	})
	if err != nil {
		return nil, fmt.Errorf("creating MCP server: %w", err)
	}

	return &App{
		Config: cfg,
		Logger: logger,
		Store:  store,
		Engine: engine,
		MCP:    server,
	}, nil
}
