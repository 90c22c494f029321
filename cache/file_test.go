package cache

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFileStore_MissingIsEmpty(t *testing.T) {
	s := NewFileStore(filepath.Join(t.TempDir(), "memory.json"))

	entries, err := s.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("Expected empty mapping, got %v", entries)
	}
}

func TestFileStore_SaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "memory.json")
	s := NewFileStore(path)

	want := map[string]string{"maayad ha masalem": "good morning", "ulan": "rain & wind"}
	if err := s.Save(want); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := s.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(got) != 2 || got["ulan"] != "rain & wind" {
		t.Errorf("Unexpected mapping: %v", got)
	}

	raw, _ := os.ReadFile(path)
	if !strings.Contains(string(raw), "\n  \"maayad ha masalem\"") {
		t.Errorf("Expected indented JSON, got %s", raw)
	}
	if strings.Contains(string(raw), `\u0026`) {
		t.Error("Expected unescaped punctuation in artifact")
	}

	var decoded map[string]string
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Errorf("Artifact is not a JSON object: %v", err)
	}
}

func TestFileStore_NoTempFilesLeft(t *testing.T) {
	dir := t.TempDir()
	s := NewFileStore(filepath.Join(dir, "memory.json"))

	for i := 0; i < 3; i++ {
		s.Save(map[string]string{"ulan": "rain"})
	}

	files, _ := os.ReadDir(dir)
	if len(files) != 1 {
		t.Errorf("Expected only the artifact, found %d files", len(files))
	}
}

func TestFileStore_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "memory.json")
	os.WriteFile(path, []byte("{not json"), 0o600)

	_, err := NewFileStore(path).Load()
	if !errors.Is(err, ErrMalformed) {
		t.Errorf("Expected ErrMalformed, got %v", err)
	}
}

func TestFileStore_EmptyFileIsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "memory.json")
	os.WriteFile(path, nil, 0o600)

	entries, err := NewFileStore(path).Load()
	if err != nil || len(entries) != 0 {
		t.Errorf("Expected empty mapping, got %v, %v", entries, err)
	}
}

func TestFileStore_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "memory.json")

	m, err := Open(NewFileStore(path))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	m.Insert("Bayaw", "brother-in-law")

	reopened, err := Open(NewFileStore(path))
	if err != nil {
		t.Fatalf("Reopen failed: %v", err)
	}
	if v, ok := reopened.Lookup("bayaw"); !ok || v != "brother-in-law" {
		t.Errorf("Entry not durable: %q (%v)", v, ok)
	}
}

func TestFileStore_MalformedOpenFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "memory.json")
	os.WriteFile(path, []byte(`["not", "an", "object"]`), 0o600)

	if _, err := Open(NewFileStore(path)); err == nil {
		t.Error("Expected Open to fail on malformed artifact")
	}
}
