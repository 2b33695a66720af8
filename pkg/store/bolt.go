// Package store provides the opaque key-value persistence the history
// ring writes through.
package store

import (
	"fmt"

	bolt "go.etcd.io/bbolt"
)

var bucketName = []byte("serterm")

// Bolt is a single-bucket key-value store backed by a bbolt file.
type Bolt struct {
	db *bolt.DB
}

// OpenBolt opens the store file at path, creating it and its bucket as
// needed.
func OpenBolt(path string) (*Bolt, error) {
	db, err := bolt.Open(path, 0o600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open store %s: %w", path, err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, berr := tx.CreateBucketIfNotExists(bucketName)
		return berr
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create store bucket: %w", err)
	}
	return &Bolt{db: db}, nil
}

// Get returns the value stored under key, reporting absence with ok=false.
func (s *Bolt) Get(key string) (string, bool) {
	var value []byte
	found := false
	_ = s.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket(bucketName).Get([]byte(key)); v != nil {
			value = append([]byte(nil), v...)
			found = true
		}
		return nil
	})
	return string(value), found
}

// Set stores value under key, replacing any prior value.
func (s *Bolt) Set(key, value string) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketName).Put([]byte(key), []byte(value))
	})
	if err != nil {
		return fmt.Errorf("failed to store %s: %w", key, err)
	}
	return nil
}

// Remove deletes key. Removing an absent key is not an error.
func (s *Bolt) Remove(key string) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketName).Delete([]byte(key))
	})
	if err != nil {
		return fmt.Errorf("failed to remove %s: %w", key, err)
	}
	return nil
}

// Close releases the underlying database file.
func (s *Bolt) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("failed to close store: %w", err)
	}
	return nil
}
