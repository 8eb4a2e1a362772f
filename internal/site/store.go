package site

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gofrs/flock"
)

// lockRetryDelay is the polling interval while waiting for the
// advisory project lock.
const lockRetryDelay = 10 * time.Millisecond

// Store manages the project directory and its three files.
//
// Construct one Store at startup and pass it to every component that
// touches project content; the directory is never implied by the
// ambient working directory.
type Store struct {
	dir    string
	mu     sync.RWMutex
	lock   *flock.Flock
	logger *slog.Logger
}

// New creates a Store rooted at dir. The directory itself is created
// lazily by Ensure. A nil logger falls back to slog.Default().
func New(dir string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		dir:    dir,
		lock:   flock.New(filepath.Join(dir, ".lock")),
		logger: logger,
	}
}

// Dir returns the project root directory.
func (s *Store) Dir() string {
	return s.dir
}

// Ensure creates the project directory and any missing project files,
// each as an empty file. Existing files are never touched. It returns
// the names actually created, so a second call returns an empty slice.
func (s *Store) Ensure(ctx context.Context) ([]string, error) {
	if err := os.MkdirAll(s.dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating project directory: %w", err)
	}

	unlock, err := s.acquire(ctx, false)
	if err != nil {
		return nil, err
	}
	defer unlock()

	created := []string{}
	for _, name := range Filenames {
		path := filepath.Join(s.dir, name)
		if _, err := os.Stat(path); err == nil {
			continue
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("checking %s: %w", name, err)
		}
		if err := os.WriteFile(path, nil, 0o600); err != nil {
			return nil, fmt.Errorf("creating %s: %w", name, err)
		}
		created = append(created, name)
	}

	if len(created) > 0 {
		s.logger.Info("initialized project files", "dir", s.dir, "created", created)
	}
	return created, nil
}

// ReadAll returns the content of all three project files as one
// snapshot. It calls Ensure first, so it succeeds on a fresh project.
func (s *Store) ReadAll(ctx context.Context) (map[string]string, error) {
	if _, err := s.Ensure(ctx); err != nil {
		return nil, err
	}

	unlock, err := s.acquire(ctx, true)
	if err != nil {
		return nil, err
	}
	defer unlock()

	state := make(map[string]string, len(Filenames))
	for _, name := range Filenames {
		content, err := os.ReadFile(filepath.Join(s.dir, name))
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", name, err)
		}
		state[name] = string(content)
	}
	return state, nil
}

// ReadOne returns the content of a single project file, byte for byte.
// It returns ErrInvalidName for names outside the canonical set and
// ErrNotFound when the file has not been created yet.
func (s *Store) ReadOne(ctx context.Context, name string) (string, error) {
	if err := checkName(name); err != nil {
		return "", err
	}
	// No project directory means no lock file either; report the
	// file as missing instead of failing to lock.
	if _, err := os.Stat(s.dir); os.IsNotExist(err) {
		return "", fmt.Errorf("%s: %w", name, ErrNotFound)
	}

	unlock, err := s.acquire(ctx, true)
	if err != nil {
		return "", err
	}
	defer unlock()

	content, err := os.ReadFile(filepath.Join(s.dir, name))
	if os.IsNotExist(err) {
		return "", fmt.Errorf("%s: %w", name, ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", name, err)
	}
	return string(content), nil
}

// WriteWhole replaces the entire content of a project file verbatim:
// no normalization, no implicit trailing newline. The file is created
// if missing. The swap to the new content is atomic (temp file plus
// rename).
func (s *Store) WriteWhole(ctx context.Context, name, content string) error {
	if err := checkName(name); err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0o750); err != nil {
		return fmt.Errorf("creating project directory: %w", err)
	}

	unlock, err := s.acquire(ctx, false)
	if err != nil {
		return err
	}
	defer unlock()

	if err := s.commit(name, content); err != nil {
		return err
	}
	s.logger.Debug("wrote file", "file", name, "size", len(content))
	return nil
}

// Update applies fn to the current content of a project file and
// persists the result, all under the exclusive project lock, so the
// read-modify-write cycle cannot interleave with another writer in
// this process or another. It returns ErrNotFound if the file does
// not exist.
func (s *Store) Update(ctx context.Context, name string, fn func(content string) (string, error)) error {
	if err := checkName(name); err != nil {
		return err
	}
	if _, err := os.Stat(s.dir); os.IsNotExist(err) {
		return fmt.Errorf("%s: %w", name, ErrNotFound)
	}

	unlock, err := s.acquire(ctx, false)
	if err != nil {
		return err
	}
	defer unlock()

	path := filepath.Join(s.dir, name)
	before, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return fmt.Errorf("%s: %w", name, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("reading %s: %w", name, err)
	}

	after, err := fn(string(before))
	if err != nil {
		return err
	}

	if err := s.commit(name, after); err != nil {
		return err
	}
	s.logger.Debug("updated file", "file", name, "size", len(after))
	return nil
}

// commit atomically replaces the named file's content. Caller holds
// the exclusive lock.
func (s *Store) commit(name, content string) error {
	tmp, err := os.CreateTemp(s.dir, name+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file for %s: %w", name, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.WriteString(content); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("writing %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("closing %s: %w", name, err)
	}
	if err := os.Rename(tmpName, filepath.Join(s.dir, name)); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("replacing %s: %w", name, err)
	}
	return nil
}

// acquire takes the project lock, shared when readOnly. The file lock
// only excludes other processes, so an in-process mutex is held with
// it; concurrent goroutines block on the mutex before reaching the
// file lock. The returned func releases both.
func (s *Store) acquire(ctx context.Context, readOnly bool) (func(), error) {
	if readOnly {
		s.mu.RLock()
	} else {
		s.mu.Lock()
	}
	release := func() {
		if readOnly {
			s.mu.RUnlock()
		} else {
			s.mu.Unlock()
		}
	}

	var (
		ok  bool
		err error
	)
	if readOnly {
		ok, err = s.lock.TryRLockContext(ctx, lockRetryDelay)
	} else {
		ok, err = s.lock.TryLockContext(ctx, lockRetryDelay)
	}
	if err != nil {
		release()
		return nil, fmt.Errorf("acquiring project lock: %w", err)
	}
	if !ok {
		release()
		return nil, fmt.Errorf("acquiring project lock: not acquired")
	}

	return func() {
		if unlockErr := s.lock.Unlock(); unlockErr != nil {
			s.logger.Warn("releasing project lock", "error", unlockErr)
		}
		release()
	}, nil
}
