// Package manifest records the outcome of a stub generation run: which
// modules were discovered, which pages were written or skipped, and why.
// The record drives the console summary and can be persisted as JSON.
package manifest

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/google/uuid"
)

// Module outcome statuses.
const (
	StatusWritten = "written"
	StatusSkipped = "skipped"
	StatusFailed  = "failed"
)

// Generation describes a single stub generation run.
type Generation struct {
	ID         string         `json:"id"`
	Package    string         `json:"package"`
	Format     string         `json:"format"`
	StartedAt  time.Time      `json:"started_at"`
	DurationMS int64          `json:"duration_ms"`
	Modules    []ModuleResult `json:"modules"`
	IndexFile  string         `json:"index_file,omitempty"`
}

// ModuleResult records the outcome for one discovered module.
type ModuleResult struct {
	Name       string `json:"name"`
	Status     string `json:"status"`
	File       string `json:"file,omitempty"`
	Reason     string `json:"reason,omitempty"`
	Functions  int    `json:"functions"`
	Classes    int    `json:"classes"`
	Submodules int    `json:"submodules"`
}

// New starts a generation record with a fresh run id.
func New(pkg, format string) *Generation {
	return &Generation{
		ID:        uuid.New().String(),
		Package:   pkg,
		Format:    format,
		StartedAt: time.Now().UTC(),
	}
}

// RecordWritten notes a successfully emitted module page.
func (g *Generation) RecordWritten(name, file string, functions, classes, submodules int) {
	g.Modules = append(g.Modules, ModuleResult{
		Name:       name,
		Status:     StatusWritten,
		File:       file,
		Functions:  functions,
		Classes:    classes,
		Submodules: submodules,
	})
}

// RecordSkipped notes a module with nothing to document.
func (g *Generation) RecordSkipped(name, reason string) {
	g.Modules = append(g.Modules, ModuleResult{Name: name, Status: StatusSkipped, Reason: reason})
}

// RecordFailed notes a module that could not be loaded.
func (g *Generation) RecordFailed(name, reason string) {
	g.Modules = append(g.Modules, ModuleResult{Name: name, Status: StatusFailed, Reason: reason})
}

// Finish stamps the total duration.
func (g *Generation) Finish() {
	g.DurationMS = time.Since(g.StartedAt).Milliseconds()
}

// Counts returns the number of written, skipped, and failed modules.
func (g *Generation) Counts() (written, skipped, failed int) {
	for _, m := range g.Modules {
		switch m.Status {
		case StatusWritten:
			written++
		case StatusSkipped:
			skipped++
		case StatusFailed:
			failed++
		}
	}
	return written, skipped, failed
}

// WrittenFiles returns the sorted list of emitted page paths.
func (g *Generation) WrittenFiles() []string {
	var files []string
	for _, m := range g.Modules {
		if m.Status == StatusWritten {
			files = append(files, m.File)
		}
	}
	sort.Strings(files)
	return files
}

// ContentHash returns a deterministic hash over the written file set,
// independent of processing order. Two runs over the same tree produce the
// same hash, which is what the --clean idempotence property checks.
func (g *Generation) ContentHash() string {
	h := sha256.New()
	for _, f := range g.WrittenFiles() {
		h.Write([]byte(f))
		h.Write([]byte{0})
	}
	return fmt.Sprintf("%x", h.Sum(nil))
}

// ToJSON serializes the manifest.
func (g *Generation) ToJSON() ([]byte, error) {
	return json.MarshalIndent(g, "", "  ")
}

// FromJSON deserializes a manifest.
func FromJSON(data []byte) (*Generation, error) {
	var g Generation
	if err := json.Unmarshal(data, &g); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	return &g, nil
}

// WriteFile persists the manifest as JSON.
func (g *Generation) WriteFile(path string) error {
	data, err := g.ToJSON()
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	return nil
}
