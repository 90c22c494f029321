package cache

import (
	"sort"

	"github.com/ZaguanLabs/salin"
)

// DiffResult describes what a bulk merge changed in a memory.
type DiffResult struct {
	// Added contains keys that were not in the memory before.
	Added []string

	// Modified contains keys whose stored translation changed.
	Modified []string

	// Unchanged contains keys whose translation was already stored.
	Unchanged []string

	// Rejected contains keys skipped because the entry was not valid.
	Rejected []string

	// Duplicates contains raw incoming keys dropped because another spelling
	// of the same phrase took precedence.
	Duplicates []string
}

// DiffStats contains summary statistics for a merge.
type DiffStats struct {
	Added      int
	Modified   int
	Unchanged  int
	Rejected   int
	Duplicates int
}

// Stats returns summary statistics for the merge.
func (d *DiffResult) Stats() DiffStats {
	return DiffStats{
		Added:      len(d.Added),
		Modified:   len(d.Modified),
		Unchanged:  len(d.Unchanged),
		Rejected:   len(d.Rejected),
		Duplicates: len(d.Duplicates),
	}
}

// HasChanges returns true if the merge wrote anything.
func (d *DiffResult) HasChanges() bool {
	return len(d.Added) > 0 || len(d.Modified) > 0
}

// Diff compares incoming entries against current without changing either.
// Keys are normalized before comparison; incoming keys that collapse to the
// same phrase are resolved as in Open and reported once.
func Diff(current, incoming map[string]string) *DiffResult {
	canon, dropped := canonicalize(incoming)
	result := &DiffResult{Duplicates: dropped}

	for key, translation := range canon {
		if validate(key, translation) != nil {
			result.Rejected = append(result.Rejected, key)
			continue
		}

		prev, exists := current[key]
		switch {
		case !exists:
			result.Added = append(result.Added, key)
		case prev != translation:
			result.Modified = append(result.Modified, key)
		default:
			result.Unchanged = append(result.Unchanged, key)
		}
	}

	sort.Strings(result.Added)
	sort.Strings(result.Modified)
	sort.Strings(result.Unchanged)
	sort.Strings(result.Rejected)

	return result
}

// Merge inserts every valid entry and persists once. Nothing is written when
// the merge changes no entry. On a store failure the memory is left as it
// was.
func (m *Memory) Merge(entries map[string]string) (*DiffResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	diff := Diff(m.entries, entries)
	if !diff.HasChanges() {
		return diff, nil
	}

	next := make(map[string]string, len(m.entries)+len(diff.Added))
	for k, v := range m.entries {
		next[k] = v
	}
	canon, _ := canonicalize(entries)
	for key, translation := range canon {
		if validate(key, translation) == nil {
			next[key] = translation
		}
	}

	if err := m.store.Save(next); err != nil {
		return nil, &salin.CacheError{Message: "persisting merged entries", Cause: err}
	}
	m.entries = next

	return diff, nil
}
