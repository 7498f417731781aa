package cache

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestExporter_Export(t *testing.T) {
	s := NewInMemorySet()
	_ = s.Mark("Acme.Shop:Main:de:slug.b")
	_ = s.Mark("Acme.Shop:Main:de:slug.a")

	exporter := NewExporter(s)
	var buf bytes.Buffer

	err := exporter.Export(&buf, map[string]string{"lang": "de"})
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	var export ExportFormat
	if err := json.Unmarshal(buf.Bytes(), &export); err != nil {
		t.Fatalf("Failed to parse export: %v", err)
	}

	if export.Version != "1.0" {
		t.Errorf("Expected version 1.0, got %s", export.Version)
	}

	want := []string{"Acme.Shop:Main:de:slug.b", "Acme.Shop:Main:de:slug.a"}
	if diff := cmp.Diff(want, export.Keys); diff != "" {
		t.Errorf("keys mismatch (-want +got):\n%s", diff)
	}

	if export.Metadata["lang"] != "de" {
		t.Errorf("Expected metadata lang=de, got %v", export.Metadata)
	}
}

// markOnly is a SeenSet without key listing.
type markOnly struct{}

func (markOnly) Seen(string) bool  { return false }
func (markOnly) Mark(string) error { return nil }

func TestExporter_Unsupported(t *testing.T) {
	exporter := NewExporter(markOnly{})

	var buf bytes.Buffer
	if err := exporter.Export(&buf, nil); err == nil {
		t.Error("Expected error for a set without key listing")
	}
}

func TestImporter_Import(t *testing.T) {
	jsonData := `{
		"version": "1.0",
		"exported_at": "2024-01-01T00:00:00Z",
		"keys": ["k1", "k2"],
		"metadata": {"lang": "de"}
	}`

	s := NewInMemorySet()
	result, err := NewImporter(s).Import(strings.NewReader(jsonData))
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}

	if result.Imported != 2 {
		t.Errorf("Expected 2 imported, got %d", result.Imported)
	}
	if result.Failed != 0 {
		t.Errorf("Expected 0 failed, got %d", result.Failed)
	}
	if !s.Seen("k1") || !s.Seen("k2") {
		t.Error("imported keys should be marked")
	}
}

func TestExportImport_FileRoundTrip(t *testing.T) {
	src := NewInMemorySet()
	_ = src.Mark("x")
	_ = src.Mark("y")

	path := filepath.Join(t.TempDir(), "report.json")
	if err := NewExporter(src).ExportToFile(path, nil); err != nil {
		t.Fatalf("ExportToFile failed: %v", err)
	}

	dst := NewInMemorySet()
	result, err := NewImporter(dst).ImportFromFile(path)
	if err != nil {
		t.Fatalf("ImportFromFile failed: %v", err)
	}
	if result.Imported != 2 {
		t.Errorf("Expected 2 imported, got %d", result.Imported)
	}
	if diff := cmp.Diff(src.Keys(), dst.Keys()); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestExporter_EmptySet(t *testing.T) {
	var buf bytes.Buffer
	if err := NewExporter(NewInMemorySet()).Export(&buf, nil); err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	if !strings.Contains(buf.String(), `"keys": []`) {
		t.Errorf("expected an empty key array, got %s", buf.String())
	}
}

func TestImporter_InvalidJSON(t *testing.T) {
	_, err := NewImporter(NewInMemorySet()).Import(strings.NewReader("invalid json"))
	if err == nil {
		t.Error("Expected error for invalid JSON")
	}
}
