package cache

import (
	"path/filepath"
	"testing"
)

func TestBoltStore_SaveLoad(t *testing.T) {
	s, err := OpenBoltStore(filepath.Join(t.TempDir(), "memory.bbolt"), BoltOptions{})
	if err != nil {
		t.Fatalf("OpenBoltStore failed: %v", err)
	}
	defer s.Close()

	entries, err := s.Load()
	if err != nil || len(entries) != 0 {
		t.Fatalf("Expected empty mapping, got %v, %v", entries, err)
	}

	if err := s.Save(map[string]string{"ulan": "rain"}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	entries, err = s.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if entries["ulan"] != "rain" {
		t.Errorf("Unexpected mapping: %v", entries)
	}
}

func TestBoltStore_WithMemory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "memory.bbolt")

	s, err := OpenBoltStore(path, BoltOptions{Bucket: "ata", Key: "pairs"})
	if err != nil {
		t.Fatalf("OpenBoltStore failed: %v", err)
	}
	m, _ := Open(s)
	m.Insert("bayaw", "brother-in-law")
	s.Close()

	s, err = OpenBoltStore(path, BoltOptions{Bucket: "ata", Key: "pairs"})
	if err != nil {
		t.Fatalf("Reopen failed: %v", err)
	}
	defer s.Close()

	m, err = Open(s)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if v, _ := m.Lookup("bayaw"); v != "brother-in-law" {
		t.Errorf("Entry not durable, got %q", v)
	}
}
