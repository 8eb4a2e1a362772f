// Package site owns the on-disk website project: one directory holding
// exactly three files (index.html, styles.css, script.js).
//
// The file set is closed. Files are created lazily by Ensure, exactly
// once, and never deleted. Store is the single owner of the directory;
// all reads and writes go through it.
//
// Cross-process writers are serialized with an advisory file lock via
// [github.com/gofrs/flock]. Concurrent writers that bypass the lock
// still race last-writer-wins; that is a documented limitation of the
// single-agent editing workflow, not a guarantee.
package site

import (
	"errors"
	"fmt"
	"strings"
)

// Canonical project file names.
const (
	Markup     = "index.html"
	Stylesheet = "styles.css"
	Script     = "script.js"
)

// Filenames lists the canonical files in display order. The set is
// fixed; no file may be added or removed at runtime.
var Filenames = []string{Markup, Stylesheet, Script}

var (
	// ErrInvalidName is returned when a name is not one of the three
	// canonical project files.
	ErrInvalidName = errors.New("invalid file name")

	// ErrNotFound is returned when the requested file does not exist
	// on disk yet.
	ErrNotFound = errors.New("file does not exist")
)

// Valid reports whether name is one of the canonical project files.
func Valid(name string) bool {
	for _, f := range Filenames {
		if name == f {
			return true
		}
	}
	return false
}

// checkName returns ErrInvalidName (wrapped with the offending name)
// for anything outside the canonical set.
func checkName(name string) error {
	if !Valid(name) {
		return fmt.Errorf("%q: %w (choose from: %s)", name, ErrInvalidName, strings.Join(Filenames, ", "))
	}
	return nil
}
