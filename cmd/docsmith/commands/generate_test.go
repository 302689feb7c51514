package commands

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/docsmith/docsmith/internal/apidoc"
	"github.com/docsmith/docsmith/internal/config"
	"github.com/docsmith/docsmith/internal/manifest"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Errorf("restore working directory: %v", err)
		}
	})
}

func writeProject(t *testing.T) {
	t.Helper()
	chdir(t, t.TempDir())

	files := map[string]string{
		"docsmith.yaml":     "package: demo\nsource: .\n",
		"demo/demo.go":      "package demo\n\nfunc Run() {}\n\ntype Engine struct{}\n",
		"demo/core/core.go": "package core\n\nfunc Start() {}\n",
		"demo/util/util.go": "package util\n\nfunc helper() {}\n",
	}
	for path, content := range files {
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

func TestGenerateCommandEndToEnd(t *testing.T) {
	writeProject(t)

	root := &CLI{Config: "docsmith.yaml"}
	cmd := &GenerateCmd{Clean: true, Manifest: "manifest.json"}
	require.NoError(t, cmd.Run(&Global{}, root))

	for _, page := range []string{"demo.rst", "demo.core.rst", "api.rst"} {
		_, err := os.Stat(filepath.Join("docs", "reference", page))
		require.NoError(t, err, "expected %s to be written", page)
	}
	// demo.util has no public members, so it gets no page but stays indexed.
	_, err := os.Stat(filepath.Join("docs", "reference", "demo.util.rst"))
	require.True(t, os.IsNotExist(err))

	index, err := os.ReadFile(filepath.Join("docs", "reference", "api.rst"))
	require.NoError(t, err)
	require.Contains(t, string(index), "demo.util")

	data, err := os.ReadFile("manifest.json")
	require.NoError(t, err)
	gen, err := manifest.FromJSON(data)
	require.NoError(t, err)

	written, skipped, failed := gen.Counts()
	require.Equal(t, 2, written)
	require.Equal(t, 1, skipped)
	require.Equal(t, 0, failed)
	require.Equal(t, "demo", gen.Package)
}

func TestGenerateCommandIsIdempotent(t *testing.T) {
	writeProject(t)

	root := &CLI{Config: "docsmith.yaml"}
	require.NoError(t, (&GenerateCmd{Manifest: "first.json"}).Run(&Global{}, root))
	require.NoError(t, (&GenerateCmd{Clean: true, Manifest: "second.json"}).Run(&Global{}, root))

	first := readManifest(t, "first.json")
	second := readManifest(t, "second.json")
	require.Equal(t, first.ContentHash(), second.ContentHash())
}

func TestGenerateCommandMissingPackage(t *testing.T) {
	chdir(t, t.TempDir())
	require.NoError(t, os.WriteFile("docsmith.yaml", []byte("package: nosuch\n"), 0o644))

	err := (&GenerateCmd{}).Run(&Global{}, &CLI{Config: "docsmith.yaml"})
	require.Error(t, err)
	require.True(t, errors.Is(err, apidoc.ErrPackageNotFound))
}

func TestGenerateCommandFlagOverrides(t *testing.T) {
	writeProject(t)

	root := &CLI{Config: "docsmith.yaml"}
	require.NoError(t, (&GenerateCmd{Output: "refs"}).Run(&Global{}, root))

	_, err := os.Stat(filepath.Join("refs", "api.rst"))
	require.NoError(t, err, "output override must redirect the reference directory")

	err = (&GenerateCmd{Package: "nosuch"}).Run(&Global{}, root)
	require.True(t, errors.Is(err, apidoc.ErrPackageNotFound),
		"package override must drive discovery")
}

func TestAllCommandStopsAtFirstFailingSession(t *testing.T) {
	writeProject(t)
	cfg := "package: demo\nbuilder:\n  command: docsmith-no-such-builder\n"
	require.NoError(t, os.WriteFile("docsmith.yaml", []byte(cfg), 0o644))

	err := (&AllCmd{}).Run(&Global{}, &CLI{Config: "docsmith.yaml"})
	require.Error(t, err, "missing builder binary must abort the run")

	// Stub generation runs before the first build session.
	_, statErr := os.Stat(filepath.Join("docs", "reference", "demo.rst"))
	require.NoError(t, statErr)
}

func TestInitCommandScaffoldsLoadableConfig(t *testing.T) {
	chdir(t, t.TempDir())

	root := &CLI{Config: "docsmith.yaml"}
	require.NoError(t, (&InitCmd{}).Run(&Global{}, root))

	cfg, err := config.Load("docsmith.yaml")
	require.NoError(t, err)
	require.Equal(t, config.FormatRST, cfg.Reference.Format)

	require.Error(t, (&InitCmd{}).Run(&Global{}, root), "must refuse to overwrite")
	require.NoError(t, (&InitCmd{Force: true}).Run(&Global{}, root))
}

func readManifest(t *testing.T, path string) *manifest.Generation {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	gen, err := manifest.FromJSON(data)
	require.NoError(t, err)
	return gen
}
