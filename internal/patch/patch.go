// Package patch applies ordered batches of line-addressed edits to a
// project file.
//
// Indices in a batch address the line sequence as mutated by all prior
// edits in the same batch, not the original file. Out-of-range indices
// and unknown actions are skipped without error: the caller is an LLM
// agent whose batches may be slightly malformed, and forward progress
// beats strict batch atomicity. Only the final write back to the store
// is atomic.
package patch

import (
	"context"
	"strings"

	"websmith/internal/site"
)

// Edit actions.
const (
	ActionReplace = "replace"
	ActionInsert  = "insert"
	ActionDelete  = "delete"
)

// Change is one line-level edit instruction. Line indices are
// zero-based. Content is ignored for delete.
type Change struct {
	Action  string `json:"action" jsonschema:"One of replace / insert / delete"`
	Line    int    `json:"line" jsonschema:"Zero-based line number the edit applies to"`
	Content string `json:"content,omitempty" jsonschema:"Replacement or inserted line text (omit for delete)"`
}

// Engine applies edit batches to project files through a site.Store.
type Engine struct {
	store *site.Store
}

// NewEngine creates an Engine backed by store.
func NewEngine(store *site.Store) *Engine {
	return &Engine{store: store}
}

// Apply runs changes against the named file, in input order, and
// persists the result. It returns site.ErrInvalidName for a
// non-canonical name and site.ErrNotFound if the file does not exist.
// The changes slice itself is never modified.
func (e *Engine) Apply(ctx context.Context, name string, changes []Change) error {
	return e.store.Update(ctx, name, func(content string) (string, error) {
		lines := SplitLines(content)
		return JoinLines(applyChanges(lines, changes)), nil
	})
}

// applyChanges applies each change in order against the progressively
// mutated line sequence. Changes must not be re-sorted or batched by
// kind: a later index depends on every earlier insert and delete.
func applyChanges(lines []string, changes []Change) []string {
	for _, c := range changes {
		switch c.Action {
		case ActionReplace:
			if c.Line >= 0 && c.Line < len(lines) {
				lines[c.Line] = c.Content
			}
		case ActionInsert:
			// Index == len appends after the last line.
			if c.Line >= 0 && c.Line <= len(lines) {
				lines = append(lines, "")
				copy(lines[c.Line+1:], lines[c.Line:])
				lines[c.Line] = c.Content
			}
		case ActionDelete:
			if c.Line >= 0 && c.Line < len(lines) {
				lines = append(lines[:c.Line], lines[c.Line+1:]...)
			}
		}
		// Unknown actions fall through untouched.
	}
	return lines
}

// SplitLines converts file content to its line sequence. One trailing
// newline is dropped before splitting, so "a\nb\n" and "a\nb" are both
// two lines. Only truly empty content is zero lines; "\n" is one empty
// line.
func SplitLines(content string) []string {
	if content == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(content, "\n"), "\n")
}

// JoinLines converts a line sequence back to file content, each line
// followed by exactly one newline, the last included. Zero lines join
// to empty content.
func JoinLines(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}
