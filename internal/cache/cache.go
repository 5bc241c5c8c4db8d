// Package cache stores fetched catalog payloads so the browser works across
// restarts without hammering the directory, and keeps working through short
// network outages.
package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.etcd.io/bbolt"
)

// TTL is how long a cached payload counts as fresh.
const TTL = 24 * time.Hour

var catalogBucket = []byte("catalog")

// ErrMiss is returned when no usable entry exists for the key.
var ErrMiss = errors.New("cache miss")

// Store is a bbolt-backed payload cache keyed by endpoint URL.
type Store struct {
	db *bbolt.DB
}

type entry struct {
	FetchedAt time.Time `json:"fetched_at"`
	Payload   []byte    `json:"payload"`
}

// Open opens (or creates) the cache database at path.
func Open(path string) (*Store, error) {
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open cache database: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(catalogBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create catalog bucket: %w", err)
	}

	return &Store{db: db}, nil
}

// Close releases the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Get returns the cached payload for endpoint if it is younger than TTL,
// ErrMiss otherwise.
func (s *Store) Get(endpoint string) ([]byte, error) {
	payload, fetchedAt, err := s.lookup(endpoint)
	if err != nil {
		return nil, err
	}
	if time.Since(fetchedAt) > TTL {
		return nil, ErrMiss
	}
	return payload, nil
}

// GetStale returns the cached payload regardless of age. Used as a fallback
// when the directory cannot be reached.
func (s *Store) GetStale(endpoint string) ([]byte, error) {
	payload, _, err := s.lookup(endpoint)
	return payload, err
}

// Put stores a freshly fetched payload for endpoint.
func (s *Store) Put(endpoint string, payload []byte) error {
	value, err := json.Marshal(entry{
		FetchedAt: time.Now().UTC(),
		Payload:   payload,
	})
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(catalogBucket).Put([]byte(endpoint), value)
	})
}

func (s *Store) lookup(endpoint string) ([]byte, time.Time, error) {
	var stored entry
	err := s.db.View(func(tx *bbolt.Tx) error {
		value := tx.Bucket(catalogBucket).Get([]byte(endpoint))
		if value == nil {
			return ErrMiss
		}
		return json.Unmarshal(value, &stored)
	})
	if err != nil {
		return nil, time.Time{}, err
	}
	if len(stored.Payload) == 0 {
		return nil, time.Time{}, ErrMiss
	}
	return stored.Payload, stored.FetchedAt, nil
}
