package stub

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/docsmith/docsmith/internal/logfields"
)

// Clean removes previously generated stub pages from dir: every file with the
// documentation extension except the preserved index placeholder, plus the
// builder-owned generated/ subdirectory. A missing directory is a no-op.
func Clean(dir, format string) error {
	ext := "." + format

	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read output directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, ext) {
			continue
		}
		// Keep the hand-written landing page.
		if name == "index"+ext {
			continue
		}
		path := filepath.Join(dir, name)
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("remove %s: %w", path, err)
		}
		slog.Info("Removed stub page", logfields.File(path))
	}

	generatedPath := filepath.Join(dir, GeneratedDir)
	if _, err := os.Stat(generatedPath); err == nil {
		if err := os.RemoveAll(generatedPath); err != nil {
			return fmt.Errorf("remove %s: %w", generatedPath, err)
		}
		slog.Info("Removed generated directory", logfields.Path(generatedPath))
	}

	return nil
}
