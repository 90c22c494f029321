package cache

import (
	"os"
	"path/filepath"
	"testing"
)

func TestAlign(t *testing.T) {
	src := []string{"Maayad ha masalem", "", "  Ulan  "}
	dst := []string{"Good morning", "rain", ""}

	got, err := Align(src, dst)
	if err != nil {
		t.Fatalf("Align failed: %v", err)
	}

	if got["maayad ha masalem"] != "Good morning" || got["ulan"] != "rain" {
		t.Errorf("Unexpected mapping: %v", got)
	}
}

func TestAlign_Mismatch(t *testing.T) {
	if _, err := Align([]string{"a", "b"}, []string{"x"}); err == nil {
		t.Error("Expected mismatch error")
	}
}

func TestAlignFiles(t *testing.T) {
	dir := t.TempDir()
	srcPath := filepath.Join(dir, "ata.txt")
	dstPath := filepath.Join(dir, "eng.txt")
	os.WriteFile(srcPath, []byte("bayaw\n\nulan\n"), 0o600)
	os.WriteFile(dstPath, []byte("brother-in-law\nrain\n"), 0o600)

	got, err := AlignFiles(srcPath, dstPath)
	if err != nil {
		t.Fatalf("AlignFiles failed: %v", err)
	}
	if len(got) != 2 || got["bayaw"] != "brother-in-law" {
		t.Errorf("Unexpected mapping: %v", got)
	}
}

func TestAlignFiles_Missing(t *testing.T) {
	if _, err := AlignFiles("/nonexistent/ata.txt", "/nonexistent/eng.txt"); err == nil {
		t.Error("Expected error for missing files")
	}
}
