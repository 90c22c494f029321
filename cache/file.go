package cache

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// DefaultFilePath is the memory artifact used when none is configured.
const DefaultFilePath = "translation_memory.json"

// FileStore keeps the memory as a pretty-printed UTF-8 JSON object.
// Saves go to a temporary file in the same directory which is then renamed
// over the artifact, so readers never see a partial write.
type FileStore struct {
	path string
}

// NewFileStore creates a FileStore for path.
func NewFileStore(path string) *FileStore {
	if path == "" {
		path = DefaultFilePath
	}
	return &FileStore{path: path}
}

// Path returns the artifact path.
func (s *FileStore) Path() string {
	return s.path
}

// Load implements Store.
func (s *FileStore) Load() (map[string]string, error) {
	data, err := os.ReadFile(s.path) // #nosec G304 - path is operator configured
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", s.path, err)
	}

	return decodeMapping(data, s.path)
}

// Save implements Store.
func (s *FileStore) Save(entries map[string]string) error {
	data, err := encodeMapping(entries)
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing %s: %w", s.path, err)
	}

	return nil
}

// encodeMapping renders the mapping as indented JSON without HTML escaping
// so punctuation stays readable in the artifact.
func encodeMapping(entries map[string]string) ([]byte, error) {
	if entries == nil {
		entries = map[string]string{}
	}

	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(entries); err != nil {
		return nil, fmt.Errorf("encoding memory: %w", err)
	}
	return buf.Bytes(), nil
}

func decodeMapping(data []byte, source string) (map[string]string, error) {
	entries := map[string]string{}
	if len(data) == 0 {
		return entries, nil
	}
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformed, source, err)
	}
	return entries, nil
}

var _ Store = (*FileStore)(nil)
