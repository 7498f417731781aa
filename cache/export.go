package cache

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/natefinch/atomic"
)

// ExportFormat is the JSON report of the keys handled during one run.
type ExportFormat struct {
	Version    string            `json:"version"`
	ExportedAt string            `json:"exported_at"`
	Keys       []string          `json:"keys"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

// Exporter writes the keys of a set as a JSON report.
type Exporter struct {
	set SeenSet
}

// NewExporter creates a new exporter.
func NewExporter(set SeenSet) *Exporter {
	return &Exporter{set: set}
}

// Export writes the report to w.
func (e *Exporter) Export(w io.Writer, metadata map[string]string) error {
	lister, ok := e.set.(KeyLister)
	if !ok {
		return fmt.Errorf("set type %T does not support export", e.set)
	}

	keys := lister.Keys()
	if keys == nil {
		keys = []string{}
	}

	export := ExportFormat{
		Version:    "1.0",
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Keys:       keys,
		Metadata:   metadata,
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(export); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}

	return nil
}

// ExportToFile writes the report to path. An existing report is replaced
// atomically.
func (e *Exporter) ExportToFile(path string, metadata map[string]string) error {
	var buf bytes.Buffer
	if err := e.Export(&buf, metadata); err != nil {
		return err
	}
	if err := atomic.WriteFile(path, &buf); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	return nil
}

// Importer marks every key of a previous report, so a resumed run skips the
// units that were already handled.
type Importer struct {
	set SeenSet
}

// NewImporter creates a new importer.
func NewImporter(set SeenSet) *Importer {
	return &Importer{set: set}
}

// Import reads a report from r and marks its keys.
func (i *Importer) Import(r io.Reader) (*ImportResult, error) {
	var export ExportFormat
	if err := json.NewDecoder(r).Decode(&export); err != nil {
		return nil, fmt.Errorf("decoding JSON: %w", err)
	}

	result := &ImportResult{
		Version:  export.Version,
		Metadata: export.Metadata,
	}

	for _, key := range export.Keys {
		if err := i.set.Mark(key); err != nil {
			result.Failed++
			continue
		}
		result.Imported++
	}

	return result, nil
}

// ImportFromFile reads a report from path.
// The path is provided by the caller and is intentionally user-controlled.
func (i *Importer) ImportFromFile(path string) (*ImportResult, error) {
	f, err := os.Open(path) // #nosec G304 - path is intentionally user-provided
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	return i.Import(f)
}

// ImportResult contains statistics about the import operation.
type ImportResult struct {
	Version  string
	Metadata map[string]string
	Imported int
	Failed   int
}
