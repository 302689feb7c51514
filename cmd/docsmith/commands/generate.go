package commands

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/docsmith/docsmith/internal/apidoc"
	"github.com/docsmith/docsmith/internal/logfields"
	"github.com/docsmith/docsmith/internal/manifest"
	"github.com/docsmith/docsmith/internal/stub"
)

// GenerateCmd implements the 'generate' command: it walks the configured
// package, classifies the public members of every module, and writes one stub
// page per documented module plus the reference index.
type GenerateCmd struct {
	Package  string `short:"p" help:"Override the configured package name" optional:""`
	Output   string `short:"o" help:"Override the configured reference output directory" optional:""`
	Clean    bool   `help:"Remove stale generated pages before writing"`
	Manifest string `help:"Write a JSON generation manifest to this path" type:"path" optional:""`
}

func (g *GenerateCmd) Run(_ *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}
	if g.Package != "" {
		cfg.Package = g.Package
	}
	if g.Output != "" {
		cfg.Reference.Directory = g.Output
	}

	modules, err := apidoc.NewDiscovery(cfg.Package, cfg.Source).Discover()
	if err != nil {
		if errors.Is(err, apidoc.ErrPackageNotFound) {
			return fmt.Errorf("cannot resolve package %q under %s: %w", cfg.Package, cfg.Source, err)
		}
		return err
	}
	slog.Info("discovered modules", logfields.Package(cfg.Package), logfields.Count(len(modules)))

	if g.Clean {
		if err := stub.Clean(cfg.Reference.Directory, cfg.Reference.Format); err != nil {
			return err
		}
	}

	classifier := apidoc.NewClassifier()
	emitter := stub.NewEmitter(cfg.Reference.Directory, cfg.Reference.Format)
	gen := manifest.New(cfg.Package, cfg.Reference.Format)

	for _, mod := range modules {
		members, err := classifier.Classify(mod, modules)
		if err != nil {
			// A module that cannot be loaded is documented as absent,
			// not a fatal generation failure.
			slog.Warn("skipping unloadable module", logfields.Module(mod.Name), logfields.Error(err))
			gen.RecordFailed(mod.Name, err.Error())
			continue
		}

		path, written, err := emitter.ModulePage(mod.Name, members)
		if err != nil {
			return fmt.Errorf("emit %s: %w", mod.Name, err)
		}
		if written {
			gen.RecordWritten(mod.Name, path,
				len(members.Functions), len(members.Classes), len(members.Submodules))
		} else {
			gen.RecordSkipped(mod.Name, "no public members")
		}
	}

	indexPath, err := emitter.IndexPage(cfg.Package, apidoc.Names(modules))
	if err != nil {
		return fmt.Errorf("emit index: %w", err)
	}
	gen.IndexFile = indexPath
	gen.Finish()

	if g.Manifest != "" {
		if err := gen.WriteFile(g.Manifest); err != nil {
			return err
		}
		slog.Debug("manifest written", logfields.File(g.Manifest))
	}

	written, skipped, failed := gen.Counts()
	slog.Info("reference generation complete",
		logfields.Package(cfg.Package),
		logfields.Path(cfg.Reference.Directory),
		"written", written, "skipped", skipped, "failed", failed,
		"duration_ms", gen.DurationMS)
	return nil
}
