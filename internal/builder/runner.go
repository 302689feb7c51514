package builder

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/docsmith/docsmith/internal/config"
	"github.com/docsmith/docsmith/internal/logfields"
)

// Runner executes documentation build sessions with the configured engine.
type Runner struct {
	cfg *config.Config
}

// NewRunner creates a runner for the given configuration.
func NewRunner(cfg *config.Config) *Runner {
	return &Runner{cfg: cfg}
}

// OutDir returns the output directory of a session.
func (r *Runner) OutDir(s Session) string {
	return filepath.Join(r.cfg.Docs.BuildDirectory, s.OutSubdir)
}

// ReportPath returns the report location of a session, or empty when the
// builder writes none.
func (r *Runner) ReportPath(s Session) string {
	if s.Report == "" {
		return ""
	}
	return filepath.Join(r.OutDir(s), s.Report)
}

// Run executes one session and waits for completion. The child's output is
// passed through to the operator; a non-zero exit surfaces as an error.
func (r *Runner) Run(ctx context.Context, s Session) error {
	command, args, err := r.commandLine(s)
	if err != nil {
		return err
	}

	if _, err := exec.LookPath(command); err != nil {
		return fmt.Errorf("builder binary %q not found in PATH: %w", command, err)
	}

	slog.Info("Running documentation builder",
		logfields.Session(s.Name),
		logfields.Builder(command),
		logfields.Path(r.OutDir(s)))

	cmd := exec.CommandContext(ctx, command, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s session failed: %w", s.Name, err)
	}

	if report := r.ReportPath(s); report != "" {
		slog.Info("Session complete", logfields.Session(s.Name), slog.String("report", report))
	} else {
		slog.Info("Session complete", logfields.Session(s.Name))
	}
	return nil
}

// RunPDF builds the LaTeX sources and compiles them with make.
func (r *Runner) RunPDF(ctx context.Context) error {
	if err := r.Run(ctx, Latex); err != nil {
		return err
	}

	latexDir := r.OutDir(Latex)
	if _, err := exec.LookPath("make"); err != nil {
		return fmt.Errorf("make not found in PATH (required for PDF output): %w", err)
	}

	slog.Info("Compiling PDF", logfields.Path(latexDir))
	cmd := exec.CommandContext(ctx, "make")
	cmd.Dir = latexDir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("pdf compilation failed: %w", err)
	}
	return nil
}

// CleanBuild removes the build directory and the builder-owned generated
// directory under the docs tree. Missing paths are no-ops.
func (r *Runner) CleanBuild() error {
	buildDir := r.cfg.Docs.BuildDirectory
	if _, err := os.Stat(buildDir); err == nil {
		if err := os.RemoveAll(buildDir); err != nil {
			return fmt.Errorf("remove build directory: %w", err)
		}
		slog.Info("Removed build directory", logfields.Path(buildDir))
	}

	generatedDir := filepath.Join(r.cfg.Docs.Directory, "generated")
	if _, err := os.Stat(generatedDir); err == nil {
		if err := os.RemoveAll(generatedDir); err != nil {
			return fmt.Errorf("remove generated directory: %w", err)
		}
		slog.Info("Removed generated directory", logfields.Path(generatedDir))
	}

	return nil
}

// commandLine builds the child process invocation for a session.
func (r *Runner) commandLine(s Session) (string, []string, error) {
	switch r.cfg.Builder.Engine {
	case config.EngineMkDocs:
		if s.Name != HTML.Name {
			return "", nil, fmt.Errorf("%s session requires the sphinx engine", s.Name)
		}
		args := []string{"build"}
		if r.cfg.Builder.Strict != nil && *r.cfg.Builder.Strict {
			args = append(args, "--strict")
		}
		args = append(args, "--site-dir", r.OutDir(s))
		args = append(args, r.cfg.Builder.Args...)
		return r.cfg.Builder.Command, args, nil

	default:
		var args []string
		if r.cfg.Builder.Strict != nil && *r.cfg.Builder.Strict {
			args = append(args, "-W")
		}
		if r.cfg.Builder.KeepGoing != nil && *r.cfg.Builder.KeepGoing {
			args = append(args, "--keep-going")
		}
		args = append(args, "-b", s.Builder, r.cfg.Docs.Directory, r.OutDir(s))
		args = append(args, r.cfg.Builder.Args...)
		return r.cfg.Builder.Command, args, nil
	}
}
