package colorscheme

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/bnema/dimmer/internal/application/port"
	"github.com/bnema/dimmer/internal/logging"
)

const (
	detectorNameFile = "file"
	priorityFile     = 60
)

// Compile-time interface checks.
var (
	_ port.ColorSchemeDetector = (*FileDetector)(nil)
	_ port.ColorSchemeWatcher  = (*FileDetector)(nil)
)

// FileDetector reads the color scheme from the first line of a file, for
// setups where a script or window manager hook publishes the current
// scheme ("dark", "light", "prefer-dark", ...).
type FileDetector struct {
	path string
}

// NewFileDetector creates a detector for path.
func NewFileDetector(path string) *FileDetector {
	if path != "" {
		path = filepath.Clean(path)
	}
	return &FileDetector{path: path}
}

// Name implements port.ColorSchemeDetector.
func (*FileDetector) Name() string {
	return detectorNameFile
}

// Priority implements port.ColorSchemeDetector.
func (*FileDetector) Priority() int {
	return priorityFile
}

// Available implements port.ColorSchemeDetector.
// The directory must exist so the file can be watched before it is created.
func (d *FileDetector) Available() bool {
	if d.path == "" {
		return false
	}
	info, err := os.Stat(filepath.Dir(d.path))
	return err == nil && info.IsDir()
}

// Detect implements port.ColorSchemeDetector.
func (d *FileDetector) Detect() (prefersDark, ok bool) {
	if d.path == "" {
		return false, false
	}
	f, err := os.Open(d.path)
	if err != nil {
		return false, false
	}
	defer func() { _ = f.Close() }()

	scanner := bufio.NewScanner(f)
	if !scanner.Scan() {
		return false, false
	}
	return ParseScheme(scanner.Text())
}

// Watch implements port.ColorSchemeWatcher. The parent directory is
// watched so atomic replacements and re-creations are seen.
func (d *FileDetector) Watch(ctx context.Context, changed func()) error {
	log := logging.FromContext(ctx)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create file watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	dir := filepath.Dir(d.path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != d.path {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
				event.Has(fsnotify.Rename) || event.Has(fsnotify.Remove) {
				log.Debug().Str("op", event.Op.String()).Str("file", event.Name).Msg("color scheme file changed")
				changed()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Debug().Err(err).Msg("color scheme file watcher error")
		}
	}
}
