// Package instructions carries the server usage document sent to MCP
// clients at initialization. Pure configuration: editing the markdown
// changes what connected agents are told, nothing else.
package instructions

import (
	_ "embed"
)

//go:embed website_instructions.md
var text string

// Text returns the instructions document.
func Text() string {
	return text
}
