package apidoc

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

// writeTree creates a file tree under dir from a map of relative paths.
func writeTree(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for path, content := range files {
		fullPath := filepath.Join(dir, filepath.FromSlash(path))
		if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(fullPath, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestDiscoverPackageTree(t *testing.T) {
	tempDir := t.TempDir()
	writeTree(t, tempDir, map[string]string{
		"demo/demo.go":           "package demo\n\nfunc Run() {}\n",
		"demo/core/core.go":      "package core\n\nfunc Start() {}\n",
		"demo/core/engine.go":    "package core\n\ntype Engine struct{}\n",
		"demo/util/util.go":      "package util\n\nfunc helper() {}\n",
		"demo/_private/x.go":     "package private\n\nfunc Hidden() {}\n",
		"demo/.hidden/y.go":      "package hidden\n\nfunc Hidden() {}\n",
		"demo/testdata/td.go":    "package td\n\nfunc TD() {}\n",
		"demo/core/core_test.go": "package core\n\nfunc TestNothing() {}\n",
	})

	discovery := NewDiscovery("demo", tempDir)
	modules, err := discovery.Discover()
	if err != nil {
		t.Fatalf("Discover failed: %v", err)
	}

	got := Names(modules)
	want := []string{"demo", "demo.core", "demo.util"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected modules %v, got %v", want, got)
	}
}

func TestDiscoverAlwaysIncludesRoot(t *testing.T) {
	tempDir := t.TempDir()
	// Root directory has no Go files of its own, only a subpackage.
	writeTree(t, tempDir, map[string]string{
		"demo/core/core.go": "package core\n\nfunc Start() {}\n",
	})

	modules, err := NewDiscovery("demo", tempDir).Discover()
	if err != nil {
		t.Fatalf("Discover failed: %v", err)
	}

	got := Names(modules)
	want := []string{"demo", "demo.core"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected modules %v, got %v", want, got)
	}
}

func TestDiscoverPackageNotFound(t *testing.T) {
	tempDir := t.TempDir()

	_, err := NewDiscovery("missing", tempDir).Discover()
	if !errors.Is(err, ErrPackageNotFound) {
		t.Errorf("expected ErrPackageNotFound, got %v", err)
	}
}

func TestDiscoverEmptyPackageIsNotFound(t *testing.T) {
	tempDir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(tempDir, "demo"), 0o755); err != nil {
		t.Fatal(err)
	}
	writeTree(t, tempDir, map[string]string{
		"demo/README.md": "# demo\n",
	})

	_, err := NewDiscovery("demo", tempDir).Discover()
	if !errors.Is(err, ErrPackageNotFound) {
		t.Errorf("expected ErrPackageNotFound for sourceless package, got %v", err)
	}
}

func TestDiscoverSkipsUnderscoreFiles(t *testing.T) {
	tempDir := t.TempDir()
	writeTree(t, tempDir, map[string]string{
		"demo/demo.go":       "package demo\n\nfunc Run() {}\n",
		"demo/sub/_gen.go":   "package sub\n\nfunc Generated() {}\n",
		"demo/sub/.tmp.go":   "package sub\n",
		"demo/sub/notes.txt": "not source\n",
	})

	modules, err := NewDiscovery("demo", tempDir).Discover()
	if err != nil {
		t.Fatalf("Discover failed: %v", err)
	}

	// sub contains only excluded files, so it is not a module.
	got := Names(modules)
	want := []string{"demo"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected modules %v, got %v", want, got)
	}
}

func TestBuildableFileDetection(t *testing.T) {
	tests := []struct {
		filename string
		expected bool
	}{
		{"core.go", true},
		{"doc.go", true},
		{"core_test.go", false},
		{"_gen.go", false},
		{".hidden.go", false},
		{"core.py", false},
		{"core", false},
	}

	for _, test := range tests {
		result := isBuildableFile(test.filename)
		if result != test.expected {
			t.Errorf("isBuildableFile(%s) = %v, expected %v",
				test.filename, result, test.expected)
		}
	}
}
