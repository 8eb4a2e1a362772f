package mcp

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"websmith/internal/site"
)

// errorPayload is the soft-error wire shape. Absence of the "error"
// field is what signals success to clients.
type errorPayload struct {
	Error string `json:"error"`
}

// payload serializes v as the tool result's single JSON text content.
func (s *Server) payload(v any) *mcp.CallToolResult {
	b, err := json.Marshal(v)
	if err != nil {
		// Payload types are plain structs of strings and slices;
		// reaching this means a programming error.
		s.logger.Error("marshaling tool payload", "error", err)
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: `{"error": "internal serialization failure"}`}},
		}
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(b)}},
	}
}

// softError builds a result carrying an "error" field. It is a normal
// result, not a protocol fault: IsError stays false so the calling
// agent reads the payload and repairs its request.
func (s *Server) softError(format string, args ...any) *mcp.CallToolResult {
	msg := fmt.Sprintf(format, args...)
	s.logger.Debug("soft error", "error", msg)
	return s.payload(errorPayload{Error: msg})
}

// invalidFile is the soft error for names outside the canonical set.
// The message carries the literal list of valid names.
func (s *Server) invalidFile() *mcp.CallToolResult {
	return s.softError("Invalid file. Choose from: [%s]", strings.Join(site.Filenames, ", "))
}
