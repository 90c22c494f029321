package cache

import (
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"
)

// BoltOptions configures a BoltStore.
type BoltOptions struct {
	Bucket string // Bucket name (default: "memory")
	Key    string // Key holding the mapping (default: "entries")
}

// BoltStore keeps the whole mapping as one JSON value inside a bbolt
// database. Each save is a single write transaction.
type BoltStore struct {
	db     *bolt.DB
	bucket []byte
	key    []byte
}

// OpenBoltStore opens or creates the database at path.
func OpenBoltStore(path string, opts BoltOptions) (*BoltStore, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}

	bucket := []byte("memory")
	if opts.Bucket != "" {
		bucket = []byte(opts.Bucket)
	}
	key := []byte("entries")
	if opts.Key != "" {
		key = []byte(opts.Key)
	}

	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucket)
		return err
	}); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &BoltStore{db: db, bucket: bucket, key: key}, nil
}

// Load implements Store.
func (s *BoltStore) Load() (map[string]string, error) {
	var data []byte
	if err := s.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket(s.bucket).Get(s.key); v != nil {
			data = append([]byte(nil), v...)
		}
		return nil
	}); err != nil {
		return nil, err
	}

	return decodeMapping(data, "bolt:"+string(s.bucket)+"/"+string(s.key))
}

// Save implements Store.
func (s *BoltStore) Save(entries map[string]string) error {
	data, err := encodeMapping(entries)
	if err != nil {
		return err
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(s.bucket).Put(s.key, data)
	})
}

// Close closes the underlying database.
func (s *BoltStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

var _ Store = (*BoltStore)(nil)
