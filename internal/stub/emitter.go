// Package stub writes API reference stub pages consumed by the external
// documentation builder. One page is emitted per module, plus a top-level
// index; files are overwritten idempotently on each run.
package stub

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/docsmith/docsmith/internal/apidoc"
	"github.com/docsmith/docsmith/internal/config"
	"github.com/docsmith/docsmith/internal/logfields"
)

// IndexBase is the basename of the generated index page.
const IndexBase = "api"

// GeneratedDir is the subdirectory owned by the documentation builder for
// expanded per-symbol pages. It is only ever removed, never read.
const GeneratedDir = "generated"

// Emitter writes stub pages in a fixed format under an output directory.
type Emitter struct {
	outDir string
	format string
}

// NewEmitter creates an emitter for the given output directory and format
// ("rst" or "md").
func NewEmitter(outDir, format string) *Emitter {
	return &Emitter{outDir: outDir, format: format}
}

// Ext returns the documentation file extension including the dot.
func (e *Emitter) Ext() string { return "." + e.format }

// IndexPath returns the path of the index page.
func (e *Emitter) IndexPath() string {
	return filepath.Join(e.outDir, IndexBase+e.Ext())
}

// ModulePage writes the stub page for one module. When the member lists are
// all empty no file is written and written is false; callers treat this as a
// skip, not an error. Existing files are fully overwritten.
func (e *Emitter) ModulePage(name string, members apidoc.Members) (string, bool, error) {
	if members.Empty() {
		slog.Info("Skipping module (no public members)", logfields.Module(name))
		return "", false, nil
	}

	path := filepath.Join(e.outDir, name+e.Ext())
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", false, fmt.Errorf("create output directory: %w", err)
	}

	var content string
	switch e.format {
	case config.FormatMarkdown:
		content = markdownModulePage(name, members)
	default:
		content = rstModulePage(name, members)
	}

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", false, fmt.Errorf("write stub page for %s: %w", name, err)
	}

	slog.Info("Generated stub page", logfields.Module(name), logfields.File(path))
	return path, true, nil
}

// IndexPage writes the top-level index listing every discovered module in
// lexicographic order.
func (e *Emitter) IndexPage(pkg string, modules []string) (string, error) {
	if err := os.MkdirAll(e.outDir, 0o755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}

	sorted := make([]string, len(modules))
	copy(sorted, modules)
	sort.Strings(sorted)

	var content string
	switch e.format {
	case config.FormatMarkdown:
		content = markdownIndexPage(pkg, sorted)
	default:
		content = rstIndexPage(pkg, sorted)
	}

	path := e.IndexPath()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("write index page: %w", err)
	}

	slog.Info("Generated index page", logfields.Package(pkg), logfields.File(path))
	return path, nil
}

// section describes one member category of a stub page. The order of the
// categories is fixed: functions, classes, submodules.
type section struct {
	title   string
	members []string
	// extraOption is appended to the autosummary directive options
	// (template selection for classes, recursion for submodules).
	extraOption string
}

func sections(members apidoc.Members) []section {
	return []section{
		{title: "Functions", members: members.Functions},
		{title: "Classes", members: members.Classes, extraOption: ":template: class.rst"},
		{title: "Submodules", members: members.Submodules, extraOption: ":recursive:"},
	}
}

func rstModulePage(name string, members apidoc.Members) string {
	var b strings.Builder

	b.WriteString(name + "\n")
	b.WriteString(strings.Repeat("=", len(name)) + "\n\n")
	b.WriteString(".. automodule:: " + name + "\n\n")

	for _, sec := range sections(members) {
		if len(sec.members) == 0 {
			// Empty categories are omitted entirely.
			continue
		}
		b.WriteString(sec.title + "\n")
		b.WriteString(strings.Repeat("-", len(sec.title)) + "\n\n")
		b.WriteString(".. autosummary::\n")
		b.WriteString("   :toctree: " + GeneratedDir + "/\n")
		if sec.extraOption != "" {
			b.WriteString("   " + sec.extraOption + "\n")
		}
		b.WriteString("\n")
		for _, member := range sec.members {
			b.WriteString("   " + member + "\n")
		}
		b.WriteString("\n")
	}

	return b.String()
}

func rstIndexPage(pkg string, modules []string) string {
	var b strings.Builder

	title := "API Reference"
	b.WriteString(title + "\n")
	b.WriteString(strings.Repeat("=", len(title)) + "\n\n")
	b.WriteString("This page contains auto-generated API documentation for " + pkg + ".\n\n")
	b.WriteString(".. toctree::\n")
	b.WriteString("   :maxdepth: 2\n\n")
	for _, module := range modules {
		b.WriteString("   " + module + "\n")
	}

	return b.String()
}

// markdownModulePage emits mkdocstrings-style blocks for the mkdocs engine.
func markdownModulePage(name string, members apidoc.Members) string {
	var b strings.Builder

	b.WriteString("# " + name + "\n\n")
	b.WriteString("::: " + name + "\n")
	b.WriteString("    options:\n")
	b.WriteString("      members: false\n\n")

	for _, sec := range sections(members) {
		if len(sec.members) == 0 {
			continue
		}
		b.WriteString("## " + sec.title + "\n\n")
		for _, member := range sec.members {
			b.WriteString("::: " + name + "." + member + "\n")
			b.WriteString("    options:\n")
			b.WriteString("      heading_level: 3\n")
			switch sec.title {
			case "Classes":
				b.WriteString("      show_bases: true\n")
			case "Submodules":
				b.WriteString("      show_submodules: true\n")
			}
			b.WriteString("\n")
		}
	}

	return b.String()
}

func markdownIndexPage(pkg string, modules []string) string {
	var b strings.Builder

	b.WriteString("# API Reference\n\n")
	b.WriteString("This page contains auto-generated API documentation for " + pkg + ".\n\n")
	for _, module := range modules {
		b.WriteString("- [" + module + "](" + module + ".md)\n")
	}

	return b.String()
}
