package apidoc

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/docsmith/docsmith/internal/logfields"
)

// Members holds the classified public API surface of a single module, each
// list sorted lexicographically.
type Members struct {
	Functions  []string
	Classes    []string
	Submodules []string
}

// Empty reports whether the module has nothing to document.
func (m Members) Empty() bool {
	return len(m.Functions) == 0 && len(m.Classes) == 0 && len(m.Submodules) == 0
}

// Classifier partitions a module's exported, locally defined symbols into
// functions, classes, and submodules.
type Classifier struct {
	fset *token.FileSet
}

// NewClassifier creates a classifier with a fresh file set.
func NewClassifier() *Classifier {
	return &Classifier{fset: token.NewFileSet()}
}

// Classify extracts the public members of the given module. The discovery set
// supplies submodule relationships (a submodule is a discovered module whose
// dotted name is the current name plus exactly one segment).
//
// Individual files that fail to parse are skipped with a warning; only a
// module where every source file fails yields ErrModuleUnloadable.
func (c *Classifier) Classify(mod Module, discovered []Module) (Members, error) {
	entries, err := os.ReadDir(mod.Dir)
	if err != nil {
		return Members{}, fmt.Errorf("%w: %s: %w", ErrModuleUnloadable, mod.Name, err)
	}

	var sources []string
	for _, entry := range entries {
		if entry.IsDir() || !isBuildableFile(entry.Name()) {
			continue
		}
		sources = append(sources, filepath.Join(mod.Dir, entry.Name()))
	}

	functions := map[string]struct{}{}
	classes := map[string]struct{}{}
	parsed := 0

	for _, src := range sources {
		file, err := parser.ParseFile(c.fset, src, nil, parser.SkipObjectResolution)
		if err != nil {
			// A single bad file never blocks the rest of the module.
			slog.Warn("Skipping unparseable source file",
				logfields.Module(mod.Name), logfields.File(src), logfields.Error(err))
			continue
		}
		parsed++
		collectDecls(file, functions, classes)
	}

	if len(sources) > 0 && parsed == 0 {
		return Members{}, fmt.Errorf("%w: %s (no source file parsed)", ErrModuleUnloadable, mod.Name)
	}

	members := Members{
		Functions:  sortedKeys(functions),
		Classes:    sortedKeys(classes),
		Submodules: submodulesOf(mod.Name, discovered),
	}
	return members, nil
}

// collectDecls walks a file's top-level declarations and records exported
// functions and type declarations defined in this module.
func collectDecls(file *ast.File, functions, classes map[string]struct{}) {
	for _, decl := range file.Decls {
		switch d := decl.(type) {
		case *ast.FuncDecl:
			// Methods are documented with their receiver's type page.
			if d.Recv != nil || d.Name == nil || !d.Name.IsExported() {
				continue
			}
			functions[d.Name.Name] = struct{}{}
		case *ast.GenDecl:
			if d.Tok != token.TYPE {
				continue
			}
			for _, spec := range d.Specs {
				ts, ok := spec.(*ast.TypeSpec)
				if !ok || ts.Name == nil || !ts.Name.IsExported() {
					continue
				}
				if isForeignAlias(ts) {
					// Re-export of a symbol defined elsewhere; the defining
					// module documents it.
					continue
				}
				classes[ts.Name.Name] = struct{}{}
			}
		}
	}
}

// isForeignAlias reports whether a type spec is an alias to a type from
// another package (type X = other.Y).
func isForeignAlias(ts *ast.TypeSpec) bool {
	if !ts.Assign.IsValid() {
		return false
	}
	_, isSelector := ts.Type.(*ast.SelectorExpr)
	return isSelector
}

// submodulesOf returns the unqualified names of immediate children of the
// module within the discovery set, sorted.
func submodulesOf(name string, discovered []Module) []string {
	prefix := name + "."
	var subs []string
	for _, m := range discovered {
		if !strings.HasPrefix(m.Name, prefix) {
			continue
		}
		rest := strings.TrimPrefix(m.Name, prefix)
		if rest != "" && !strings.Contains(rest, ".") {
			subs = append(subs, rest)
		}
	}
	sort.Strings(subs)
	return subs
}

func sortedKeys(set map[string]struct{}) []string {
	if len(set) == 0 {
		return nil
	}
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
