package manifest

import (
	"testing"
)

func TestGenerationRoundTrip(t *testing.T) {
	g := New("demo", "rst")
	g.RecordWritten("demo", "docs/reference/demo.rst", 2, 1, 1)
	g.RecordWritten("demo.core", "docs/reference/demo.core.rst", 1, 1, 0)
	g.RecordSkipped("demo.util", "no public members")
	g.RecordFailed("demo.broken", "no source file parsed")
	g.IndexFile = "docs/reference/api.rst"
	g.Finish()

	if g.ID == "" {
		t.Error("expected non-empty run id")
	}

	data, err := g.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON failed: %v", err)
	}

	restored, err := FromJSON(data)
	if err != nil {
		t.Fatalf("FromJSON failed: %v", err)
	}

	if restored.ID != g.ID {
		t.Errorf("expected ID %s, got %s", g.ID, restored.ID)
	}
	if restored.Package != "demo" {
		t.Errorf("expected package demo, got %s", restored.Package)
	}
	if len(restored.Modules) != 4 {
		t.Errorf("expected 4 module results, got %d", len(restored.Modules))
	}

	written, skipped, failed := restored.Counts()
	if written != 2 || skipped != 1 || failed != 1 {
		t.Errorf("counts: written=%d skipped=%d failed=%d", written, skipped, failed)
	}
}

func TestContentHashIsOrderIndependent(t *testing.T) {
	g1 := New("demo", "rst")
	g1.RecordWritten("demo", "a.rst", 1, 0, 0)
	g1.RecordWritten("demo.core", "b.rst", 1, 0, 0)

	g2 := New("demo", "rst")
	g2.RecordWritten("demo.core", "b.rst", 1, 0, 0)
	g2.RecordWritten("demo", "a.rst", 1, 0, 0)

	if g1.ContentHash() != g2.ContentHash() {
		t.Error("hash must not depend on processing order")
	}

	g2.RecordWritten("demo.extra", "c.rst", 1, 0, 0)
	if g1.ContentHash() == g2.ContentHash() {
		t.Error("hash must change when the file set changes")
	}
}
