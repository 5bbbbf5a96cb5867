// Package tomlfile provides a preference store backed by a flat TOML file.
package tomlfile

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/pelletier/go-toml/v2"

	"github.com/bnema/dimmer/internal/application/port"
	"github.com/bnema/dimmer/internal/logging"
)

const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// Compile-time interface check.
var _ port.KeyValueStore = (*Store)(nil)

// Store keeps preferences as top-level string keys of a TOML document.
// The file is re-read on every Get so writes from other processes are seen.
// Set holds an advisory lock on path+".lock" while it rewrites the file.
type Store struct {
	path string
	mu   sync.Mutex
}

// NewStore creates a store for path. The file is created on first Set.
func NewStore(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("preferences file path cannot be empty")
	}
	return &Store{path: path}, nil
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.load()
	if err != nil {
		return "", false, err
	}
	value, ok := values[key]
	return value, ok, nil
}

func (s *Store) Set(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	unlock, err := lockFile(s.path)
	if err != nil {
		return err
	}
	defer unlock()

	values, err := s.load()
	if err != nil {
		return err
	}
	if current, ok := values[key]; ok && current == value {
		return nil
	}
	values[key] = value

	if err := s.save(values); err != nil {
		return err
	}

	logging.FromContext(ctx).Debug().
		Str("path", s.path).
		Str("key", key).
		Msg("preferences file updated")
	return nil
}

// load reads the file. A missing file is an empty document; non-string
// values are skipped.
func (s *Store) load() (map[string]string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return make(map[string]string), nil
		}
		return nil, fmt.Errorf("read preferences file: %w", err)
	}

	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse preferences file %s: %w", s.path, err)
	}

	values := make(map[string]string, len(raw))
	for k, v := range raw {
		if str, ok := v.(string); ok {
			values[k] = str
		}
	}
	return values, nil
}

func (s *Store) save(values map[string]string) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(values); err != nil {
		return fmt.Errorf("encode preferences: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return fmt.Errorf("create preferences directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".preferences-*.toml")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpName, filePerm); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("replace preferences file: %w", err)
	}
	return nil
}
