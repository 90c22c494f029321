// Package cache provides the persistent translation memory and the durable
// stores it is written through.
package cache

import "errors"

// ErrMalformed is returned by a Store whose artifact exists but cannot be
// decoded into a phrase mapping.
var ErrMalformed = errors.New("malformed memory artifact")

// Store is the durable copy of a translation memory. Every Save replaces the
// whole mapping.
type Store interface {
	// Load returns the stored mapping. A missing artifact yields an empty
	// mapping and no error.
	Load() (map[string]string, error)

	// Save replaces the stored mapping.
	Save(entries map[string]string) error
}
