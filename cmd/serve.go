package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"websmith/internal/api"
	"websmith/internal/app"
	"websmith/internal/auth"
	"websmith/internal/config"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the MCP server over streamable HTTP with Auth0 token verification",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.ValidateServe(); err != nil {
		return fmt.Errorf("validating config: %w", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	a, err := app.Setup(cfg, Version)
	if err != nil {
		return fmt.Errorf("initializing application: %w", err)
	}

	// Initialize the project up front, like the stdio transport.
	if _, err := a.Store.Ensure(ctx); err != nil {
		return fmt.Errorf("initializing project: %w", err)
	}

	verifier, err := auth.NewVerifier(ctx, auth.Config{
		Domain:   cfg.Auth0Domain,
		Audience: cfg.ResourceServerURL,
	}, a.Logger.With("component", "auth"))
	if err != nil {
		return fmt.Errorf("creating token verifier: %w", err)
	}

	server, err := api.NewServer(api.Config{
		Logger:         a.Logger.With("component", "api"),
		MCP:            a.MCP.MCPServer(),
		Verifier:       verifier.Verify,
		RequiredScopes: auth.RequiredScopes,
		RateLimit:      cfg.RateLimit,
		RateBurst:      cfg.RateBurst,
		TrustProxy:     cfg.TrustProxy,
	})
	if err != nil {
		return fmt.Errorf("creating HTTP server: %w", err)
	}

	a.Logger.Info("websmith serving MCP over HTTP",
		"version", Version,
		"addr", cfg.Addr(),
		"site_dir", a.Store.Dir(),
		"issuer", "https://"+cfg.Auth0Domain+"/")

	return server.Run(ctx, cfg.Addr())
}
