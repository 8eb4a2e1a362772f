// Package mcp implements the websmith Model Context Protocol server.
//
// It exposes the website project as five MCP tools (ensure_website,
// get_website, read_file, write_file, update_file) so an LLM client
// can author the three project files collaboratively.
//
// # Tool handler pattern
//
// Handlers follow the net/http.Handler style: a typed input struct
// with a schema inferred by jsonschema-go, and the MCP response built
// inline. Every tool result, success or failure, is one JSON object
// serialized as text content.
//
// # Error handling
//
// The boundary distinguishes two kinds of failure:
//
//   - Misuse (unknown file name, file not yet created): returned as a
//     normal result whose JSON carries an "error" field. Clients
//     detect failure by the result shape, never by a protocol fault.
//     This soft-error convention is load-bearing: the calling agent
//     inspects the payload and repairs its own request.
//
//   - Storage failures (permissions, disk): returned as Go errors so
//     the SDK surfaces a protocol-level error.
//
// Out-of-range or unrecognized edits inside an update_file batch are
// not failures at all; see the patch package.
package mcp
