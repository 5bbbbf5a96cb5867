package rootflag

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bnema/dimmer/internal/application/port"
	"github.com/bnema/dimmer/internal/logging"
)

const (
	stateDirPerm  = 0o755
	stateFilePerm = 0o644

	classDark  = "dark"
	classLight = "light"
)

var _ port.RootVisualFlag = (*StateFile)(nil)

// StateFile writes the root class ("dark" or "light") to a file that
// styling tools (status bars, editors, shell prompts) can read or watch.
type StateFile struct {
	path string
}

// NewStateFile creates a state file sink at path.
func NewStateFile(path string) *StateFile {
	return &StateFile{path: path}
}

// Path returns the file location.
func (f *StateFile) Path() string {
	return f.path
}

// SetDark implements port.RootVisualFlag.
// The file is left alone when it already holds the requested class.
func (f *StateFile) SetDark(ctx context.Context, dark bool) error {
	if f.path == "" {
		return errors.New("root flag state file path is empty")
	}

	class := classLight
	if dark {
		class = classDark
	}
	content := []byte(class + "\n")

	if existing, err := os.ReadFile(f.path); err == nil && bytes.Equal(existing, content) {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(f.path), stateDirPerm); err != nil {
		return fmt.Errorf("create state directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(f.path), ".root-class-*")
	if err != nil {
		return fmt.Errorf("create temp state file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(content); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write state file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close state file: %w", err)
	}
	if err := os.Chmod(tmpName, stateFilePerm); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("chmod state file: %w", err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("replace state file: %w", err)
	}

	logging.FromContext(ctx).Debug().Str("path", f.path).Str("class", class).Msg("root class written")
	return nil
}

// ReadClass returns the class currently stored in the file.
func (f *StateFile) ReadClass() (string, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return "", err
	}
	return string(bytes.TrimSpace(data)), nil
}
