package preview

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/docsmith/docsmith/internal/logfields"
)

// Watcher observes documentation sources and package sources for changes,
// forwarding one notification per relevant filesystem event.
type Watcher struct {
	fsw      *fsnotify.Watcher
	roots    []string
	excluded []string
	metrics  *Metrics
}

// NewWatcher creates a recursive watcher over roots. Paths under any of the
// excluded directories are ignored, as are editor temp files.
func NewWatcher(roots, excluded []string, metrics *Metrics) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	w := &Watcher{fsw: fsw, roots: roots, excluded: normalizePaths(excluded), metrics: metrics}
	for _, root := range roots {
		if err := w.addRecursive(root); err != nil {
			fsw.Close()
			return nil, err
		}
	}
	return w, nil
}

func normalizePaths(paths []string) []string {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		out = append(out, filepath.Clean(p))
	}
	return out
}

func (w *Watcher) addRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) && path == root {
				slog.Warn("watch root missing, skipping", logfields.Path(root))
				return filepath.SkipAll
			}
			return fmt.Errorf("walk %s: %w", path, err)
		}
		if !d.IsDir() {
			return nil
		}
		if w.isExcludedDir(path) {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		return nil
	})
}

func (w *Watcher) isExcludedDir(path string) bool {
	base := filepath.Base(path)
	if base != "." && (strings.HasPrefix(base, ".") || base == "__pycache__") {
		return true
	}
	clean := filepath.Clean(path)
	for _, ex := range w.excluded {
		if clean == ex || strings.HasPrefix(clean, ex+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

// ignoredFile filters editor noise and artifacts that never affect output.
func ignoredFile(path string) bool {
	base := filepath.Base(path)
	switch {
	case strings.HasSuffix(base, "~"),
		strings.HasSuffix(base, ".swp"),
		strings.HasSuffix(base, ".tmp"),
		strings.HasPrefix(base, ".#"):
		return true
	}
	return false
}

// Run forwards change notifications to out until ctx is cancelled. Newly
// created directories are added to the watch set.
func (w *Watcher) Run(ctx context.Context, out chan<- struct{}) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if w.isExcludedDir(filepath.Dir(event.Name)) || ignoredFile(event.Name) {
				continue
			}
			if event.Op.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() && !w.isExcludedDir(event.Name) {
					if err := w.addRecursive(event.Name); err != nil {
						slog.Warn("failed to watch new directory", logfields.Path(event.Name), logfields.Error(err))
					}
				}
			}
			w.metrics.IncWatcherEvent()
			slog.Debug("change detected", logfields.Path(event.Name), "op", event.Op.String())
			select {
			case out <- struct{}{}:
			default:
				// A rebuild is already queued.
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			slog.Warn("watcher error", logfields.Error(err))
		}
	}
}

// Close releases the underlying filesystem watcher.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}
