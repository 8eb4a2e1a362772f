// Package cmd wires the websmith CLI: serve (streamable HTTP with
// Auth0), stdio (local MCP transport), and version.
package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "websmith",
	Short: "websmith - MCP server for collaborative website building",
	Long: `websmith exposes a three-file website project (index.html,
styles.css, script.js) as MCP tools so an LLM client can read and
edit it collaboratively.

Run "websmith serve" for the authenticated HTTP transport or
"websmith stdio" for a local stdio transport.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
