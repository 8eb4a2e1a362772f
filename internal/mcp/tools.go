package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"websmith/internal/patch"
	"websmith/internal/site"
)

// EnsureWebsiteInput is the (empty) input for ensure_website.
type EnsureWebsiteInput struct{}

// GetWebsiteInput is the (empty) input for get_website.
type GetWebsiteInput struct{}

// ReadFileInput is the input for read_file.
type ReadFileInput struct {
	File string `json:"file" jsonschema:"Project file name: index.html / styles.css / script.js"`
}

// WriteFileInput is the input for write_file.
type WriteFileInput struct {
	File    string `json:"file" jsonschema:"Project file name: index.html / styles.css / script.js"`
	Content string `json:"content" jsonschema:"The complete new file content"`
}

// UpdateFileInput is the input for update_file.
type UpdateFileInput struct {
	File    string         `json:"file" jsonschema:"Project file name: index.html / styles.css / script.js"`
	Changes []patch.Change `json:"changes" jsonschema:"Ordered list of line edits to apply"`
}

// Wire payloads. Field names are part of the contract with existing
// clients and must not change.

type ensurePayload struct {
	Created []string `json:"created"`
}

type websitePayload struct {
	Website map[string]string `json:"website"`
}

type filePayload struct {
	File    string `json:"file"`
	Content string `json:"content"`
}

type statusPayload struct {
	Status string `json:"status"`
	File   string `json:"file"`
}

type updatePayload struct {
	Status  string         `json:"status"`
	File    string         `json:"file"`
	Changes []patch.Change `json:"changes"`
}

// EnsureWebsite handles the ensure_website tool call.
func (s *Server) EnsureWebsite(ctx context.Context, req *mcp.CallToolRequest, in EnsureWebsiteInput) (*mcp.CallToolResult, any, error) {
	s.logger.Info("ensure_website called")

	created, err := s.store.Ensure(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("ensure_website: %w", err)
	}
	return s.payload(ensurePayload{Created: created}), nil, nil
}

// GetWebsite handles the get_website tool call.
func (s *Server) GetWebsite(ctx context.Context, req *mcp.CallToolRequest, in GetWebsiteInput) (*mcp.CallToolResult, any, error) {
	s.logger.Info("get_website called")

	state, err := s.store.ReadAll(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("get_website: %w", err)
	}
	return s.payload(websitePayload{Website: state}), nil, nil
}

// ReadFile handles the read_file tool call.
func (s *Server) ReadFile(ctx context.Context, req *mcp.CallToolRequest, in ReadFileInput) (*mcp.CallToolResult, any, error) {
	s.logger.Info("read_file called", "file", in.File)

	if !site.Valid(in.File) {
		return s.invalidFile(), nil, nil
	}

	content, err := s.store.ReadOne(ctx, in.File)
	if errors.Is(err, site.ErrNotFound) {
		return s.softError("%s does not exist", in.File), nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("read_file: %w", err)
	}
	return s.payload(filePayload{File: in.File, Content: content}), nil, nil
}

// WriteFile handles the write_file tool call.
func (s *Server) WriteFile(ctx context.Context, req *mcp.CallToolRequest, in WriteFileInput) (*mcp.CallToolResult, any, error) {
	s.logger.Info("write_file called", "file", in.File, "size", len(in.Content))

	if !site.Valid(in.File) {
		return s.invalidFile(), nil, nil
	}

	if err := s.store.WriteWhole(ctx, in.File, in.Content); err != nil {
		return nil, nil, fmt.Errorf("write_file: %w", err)
	}
	return s.payload(statusPayload{Status: "ok", File: in.File}), nil, nil
}

// UpdateFile handles the update_file tool call. The echoed changes are
// the input batch unmodified, for caller confirmation, not the final
// line sequence.
func (s *Server) UpdateFile(ctx context.Context, req *mcp.CallToolRequest, in UpdateFileInput) (*mcp.CallToolResult, any, error) {
	s.logger.Info("update_file called", "file", in.File, "changes", len(in.Changes))

	if !site.Valid(in.File) {
		return s.invalidFile(), nil, nil
	}

	err := s.engine.Apply(ctx, in.File, in.Changes)
	if errors.Is(err, site.ErrNotFound) {
		return s.softError("%s does not exist", in.File), nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("update_file: %w", err)
	}
	return s.payload(updatePayload{Status: "ok", File: in.File, Changes: in.Changes}), nil, nil
}
