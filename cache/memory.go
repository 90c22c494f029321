package cache

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/ZaguanLabs/salin"
)

// Memory is the in-memory translation memory backed by a Store. Reads are
// concurrent; every mutation holds the writer lock across the
// mutate-and-persist cycle, so at most one write is in flight.
type Memory struct {
	store   Store
	entries map[string]string
	mu      sync.RWMutex

	recoverMalformed bool
	logger           salin.Logger
}

// Option is a functional option for configuring a Memory.
type Option func(*Memory)

// WithRecoverMalformed starts with an empty memory instead of failing when
// the stored artifact cannot be decoded.
func WithRecoverMalformed() Option {
	return func(m *Memory) {
		m.recoverMalformed = true
	}
}

// WithLogger sets the logger.
func WithLogger(l salin.Logger) Option {
	return func(m *Memory) {
		m.logger = l
	}
}

// Open loads the full mapping from store. Raw keys that collapse to the
// same phrase are resolved by canonicalize; stored entries that fail
// validation are dropped with a warning.
func Open(store Store, opts ...Option) (*Memory, error) {
	m := &Memory{store: store}
	for _, opt := range opts {
		opt(m)
	}

	entries, err := store.Load()
	switch {
	case err == nil:
	case errors.Is(err, ErrMalformed) && m.recoverMalformed:
		m.warnf("starting with empty memory: %v", err)
		entries = nil
	default:
		return nil, &salin.CacheError{Message: "loading memory", Cause: err}
	}

	canon, dropped := canonicalize(entries)
	for _, raw := range dropped {
		m.warnf("ignoring %q: another spelling of the same phrase wins", raw)
	}

	m.entries = make(map[string]string, len(canon))
	for key, v := range canon {
		if err := validate(key, v); err != nil {
			m.warnf("dropping stored entry: %v", err)
			continue
		}
		m.entries[key] = v
	}

	return m, nil
}

func (m *Memory) warnf(format string, args ...any) {
	if m.logger != nil {
		m.logger.Warnf(format, args...)
	}
}

// canonicalize normalizes the keys of a raw mapping. When several raw keys
// normalize to the same phrase, the raw key that is already normalized
// wins; otherwise the raw key that sorts last wins. It also returns the
// losing raw keys in sorted order.
func canonicalize(entries map[string]string) (map[string]string, []string) {
	raws := make([]string, 0, len(entries))
	for raw := range entries {
		raws = append(raws, raw)
	}
	sort.Strings(raws)

	winner := make(map[string]string, len(raws))
	for _, raw := range raws {
		key := salin.Normalize(raw)
		if cur, ok := winner[key]; ok && cur == key {
			continue
		}
		winner[key] = raw
	}

	out := make(map[string]string, len(winner))
	var dropped []string
	for _, raw := range raws {
		key := salin.Normalize(raw)
		if winner[key] == raw {
			out[key] = entries[raw]
		} else {
			dropped = append(dropped, raw)
		}
	}
	return out, dropped
}

// Lookup returns the translation stored for the normalized phrase.
func (m *Memory) Lookup(phrase string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.entries[salin.Normalize(phrase)]
	return v, ok
}

// Insert stores translation under the normalized phrase and persists the
// whole mapping before returning. On a store failure the in-memory change is
// rolled back.
func (m *Memory) Insert(phrase, translation string) error {
	key := salin.Normalize(phrase)
	if err := validate(key, translation); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	prev, existed := m.entries[key]
	m.entries[key] = translation

	if err := m.store.Save(m.entries); err != nil {
		if existed {
			m.entries[key] = prev
		} else {
			delete(m.entries, key)
		}
		return &salin.CacheError{Message: fmt.Sprintf("persisting %q", key), Cause: err}
	}

	return nil
}

// validate reports an entry the memory must not hold. The error wraps
// salin.ErrInvalidEntry.
func validate(key, translation string) error {
	switch {
	case key == "":
		return &salin.CacheError{Message: "empty phrase", Cause: salin.ErrInvalidEntry}
	case strings.TrimSpace(translation) == "":
		return &salin.CacheError{Message: fmt.Sprintf("empty translation for %q", key), Cause: salin.ErrInvalidEntry}
	case salin.HasControlChars(translation):
		return &salin.CacheError{Message: fmt.Sprintf("translation for %q contains control characters", key), Cause: salin.ErrInvalidEntry}
	}
	return nil
}

// Snapshot returns a copy of every entry.
func (m *Memory) Snapshot() map[string]string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make(map[string]string, len(m.entries))
	for k, v := range m.entries {
		out[k] = v
	}
	return out
}

// Len returns the number of entries.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// Keys returns every phrase key in sorted order.
func (m *Memory) Keys() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	keys := make([]string, 0, len(m.entries))
	for k := range m.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// LowercaseValues lowercases every stored translation and persists once.
// It returns the number of values that changed.
func (m *Memory) LowercaseValues() (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	next := make(map[string]string, len(m.entries))
	changed := 0
	for k, v := range m.entries {
		lower := strings.ToLower(v)
		if lower != v {
			changed++
		}
		next[k] = lower
	}

	if changed == 0 {
		return 0, nil
	}

	if err := m.store.Save(next); err != nil {
		return 0, &salin.CacheError{Message: "persisting lowercased values", Cause: err}
	}
	m.entries = next

	return changed, nil
}

// Store returns the durable store behind the memory.
func (m *Memory) Store() Store {
	return m.store
}

// Verify Memory implements salin.Memory
var _ salin.Memory = (*Memory)(nil)
