// Package apidoc introspects a package source tree and classifies its public
// API surface for reference stub generation.
//
// A module is a package directory; its dotted name joins the path segments
// relative to the source root, starting with the root package name. Symbols
// are extracted from source ASTs rather than a live import, so a broken
// module never aborts processing of its siblings.
package apidoc

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/docsmith/docsmith/internal/logfields"
)

// Module represents a discovered importable unit of the package tree.
type Module struct {
	Name string // Dotted module name (e.g. "demo.core")
	Dir  string // Directory containing the module's source files
}

// Discovery walks a package source tree and produces the discovery set.
type Discovery struct {
	pkg    string
	source string
}

// NewDiscovery creates a discovery instance for the named package rooted
// under the given source directory.
func NewDiscovery(pkg, source string) *Discovery {
	if source == "" {
		source = "."
	}
	return &Discovery{pkg: pkg, source: source}
}

// Discover enumerates all modules reachable from the root package, including
// the root itself. The result is sorted lexicographically by dotted name and
// contains no duplicates.
//
// Returns ErrPackageNotFound when the package directory does not exist or
// contains no buildable source at all; this is the caller's signal to abort.
func (d *Discovery) Discover() ([]Module, error) {
	if d.pkg == "" {
		return nil, fmt.Errorf("%w: empty package name", ErrPackageNotFound)
	}

	root := filepath.Join(d.source, d.pkg)
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s (no directory %s)", ErrPackageNotFound, d.pkg, root)
	}

	modules := map[string]Module{
		// The root package is always part of the discovery set.
		d.pkg: {Name: d.pkg, Dir: root},
	}
	sourceFiles := 0

	err = filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := entry.Name()

		if entry.IsDir() {
			if path == root {
				return nil
			}
			if isExcludedDir(name) {
				return filepath.SkipDir
			}
			return nil
		}

		if !isBuildableFile(name) {
			return nil
		}
		sourceFiles++

		dir := filepath.Dir(path)
		modName, nameErr := d.moduleName(root, dir)
		if nameErr != nil {
			return nameErr
		}
		if _, exists := modules[modName]; !exists {
			modules[modName] = Module{Name: modName, Dir: dir}
			slog.Debug("Discovered module", logfields.Module(modName), logfields.Path(dir))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrWalkFailed, d.pkg, err)
	}

	if sourceFiles == 0 {
		return nil, fmt.Errorf("%w: %s (no buildable source under %s)", ErrPackageNotFound, d.pkg, root)
	}

	result := make([]Module, 0, len(modules))
	for _, m := range modules {
		result = append(result, m)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })

	slog.Info("Module discovery completed", logfields.Package(d.pkg), logfields.Count(len(result)))
	return result, nil
}

// moduleName converts a directory under the package root into a dotted name.
func (d *Discovery) moduleName(root, dir string) (string, error) {
	rel, err := filepath.Rel(root, dir)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrWalkFailed, err)
	}
	if rel == "." {
		return d.pkg, nil
	}
	parts := append([]string{d.pkg}, strings.Split(filepath.ToSlash(rel), "/")...)
	return strings.Join(parts, "."), nil
}

// isExcludedDir reports whether a directory is never descended into.
// The underscore prefix is the exclusion marker; dot directories, testdata,
// and vendor follow toolchain conventions.
func isExcludedDir(name string) bool {
	return strings.HasPrefix(name, "_") ||
		strings.HasPrefix(name, ".") ||
		name == "testdata" ||
		name == "vendor"
}

// isBuildableFile reports whether a file contributes symbols to its module.
// Files carrying the exclusion marker and test files do not.
func isBuildableFile(name string) bool {
	if !strings.HasSuffix(name, ".go") {
		return false
	}
	if strings.HasPrefix(name, "_") || strings.HasPrefix(name, ".") {
		return false
	}
	return !strings.HasSuffix(name, "_test.go")
}

// Names returns the dotted names of a module slice, preserving order.
func Names(modules []Module) []string {
	names := make([]string, len(modules))
	for i, m := range modules {
		names[i] = m.Name
	}
	return names
}
