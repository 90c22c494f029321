package cache

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ExportVersion is the version written into export documents.
const ExportVersion = "1.0"

// ExportFormat represents the document structure for memory export/import.
type ExportFormat struct {
	Version    string            `json:"version" yaml:"version"`
	ExportedAt string            `json:"exported_at" yaml:"exported_at"`
	Entries    []ExportEntry     `json:"entries" yaml:"entries"`
	Metadata   map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// ExportEntry represents a single memory entry.
type ExportEntry struct {
	Key   string `json:"key" yaml:"key"`
	Value string `json:"value" yaml:"value"`
}

// Exporter writes memory contents to portable documents.
type Exporter struct {
	memory *Memory
}

// NewExporter creates a new memory exporter.
func NewExporter(memory *Memory) *Exporter {
	return &Exporter{memory: memory}
}

func (e *Exporter) document(metadata map[string]string) ExportFormat {
	data := e.memory.Snapshot()
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	entries := make([]ExportEntry, len(keys))
	for i, k := range keys {
		entries[i] = ExportEntry{Key: k, Value: data[k]}
	}

	return ExportFormat{
		Version:    ExportVersion,
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Entries:    entries,
		Metadata:   metadata,
	}
}

// Export writes the memory to w as indented JSON.
func (e *Exporter) Export(w io.Writer, metadata map[string]string) error {
	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(e.document(metadata)); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	return nil
}

// ExportYAML writes the memory to w as YAML.
func (e *Exporter) ExportYAML(w io.Writer, metadata map[string]string) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(e.document(metadata)); err != nil {
		return fmt.Errorf("encoding YAML: %w", err)
	}
	return encoder.Close()
}

// ExportToFile exports the memory to path. Files ending in .yaml or .yml are
// written as YAML, everything else as JSON.
func (e *Exporter) ExportToFile(path string, metadata map[string]string) error {
	f, err := os.Create(path) // #nosec G304 - path is intentionally user-provided
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}
	defer f.Close()

	if isYAML(path) {
		return e.ExportYAML(f, metadata)
	}
	return e.Export(f, metadata)
}

// Importer loads export documents into a memory.
type Importer struct {
	memory *Memory
}

// NewImporter creates a new memory importer.
func NewImporter(memory *Memory) *Importer {
	return &Importer{memory: memory}
}

// Import reads a JSON export document from r and merges it into the memory
// with a single persist.
func (i *Importer) Import(r io.Reader) (*ImportResult, error) {
	var export ExportFormat
	if err := json.NewDecoder(r).Decode(&export); err != nil {
		return nil, fmt.Errorf("decoding JSON: %w", err)
	}
	return i.load(export)
}

// ImportYAML reads a YAML export document from r.
func (i *Importer) ImportYAML(r io.Reader) (*ImportResult, error) {
	var export ExportFormat
	if err := yaml.NewDecoder(r).Decode(&export); err != nil {
		return nil, fmt.Errorf("decoding YAML: %w", err)
	}
	return i.load(export)
}

// ImportFromFile imports an export document, choosing the decoder by
// file extension.
func (i *Importer) ImportFromFile(path string) (*ImportResult, error) {
	f, err := os.Open(path) // #nosec G304 - path is intentionally user-provided
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	if isYAML(path) {
		return i.ImportYAML(f)
	}
	return i.Import(f)
}

func (i *Importer) load(export ExportFormat) (*ImportResult, error) {
	entries := make(map[string]string, len(export.Entries))
	for _, entry := range export.Entries {
		entries[entry.Key] = entry.Value
	}

	diff, err := i.memory.Merge(entries)
	if err != nil {
		return nil, err
	}

	stats := diff.Stats()
	return &ImportResult{
		Version:   export.Version,
		Metadata:  export.Metadata,
		Imported:  stats.Added + stats.Modified,
		Unchanged: stats.Unchanged,
		Failed:    stats.Rejected,
	}, nil
}

// ImportResult contains statistics about the import operation.
type ImportResult struct {
	Version   string
	Metadata  map[string]string
	Imported  int
	Unchanged int
	Failed    int
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}
