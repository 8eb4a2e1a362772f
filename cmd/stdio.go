package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	mcpSdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"websmith/internal/app"
	"websmith/internal/config"
)

var stdioCmd = &cobra.Command{
	Use:   "stdio",
	Short: "Run the MCP server on stdio (local clients, no token verification)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStdio()
	},
}

func init() {
	rootCmd.AddCommand(stdioCmd)
}

func runStdio() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	a, err := app.Setup(cfg, Version)
	if err != nil {
		return fmt.Errorf("initializing application: %w", err)
	}

	if _, err := a.Store.Ensure(ctx); err != nil {
		return fmt.Errorf("initializing project: %w", err)
	}

	a.Logger.Info("websmith MCP server ready",
		"version", Version,
		"transport", "stdio",
		"site_dir", a.Store.Dir())

	if err := a.MCP.Run(ctx, &mcpSdk.StdioTransport{}); err != nil {
		return fmt.Errorf("MCP server error: %w", err)
	}

	a.Logger.Info("MCP server shut down")
	return nil
}
