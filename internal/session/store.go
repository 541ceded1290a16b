// ABOUTME: Key-value store backing the login session, implemented on Badger.
// ABOUTME: Falls back to read-only when another process holds the directory lock.
package session

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/dgraph-io/badger/v3"
)

// ErrKeyNotFound is returned by Store.Get for a missing key.
var ErrKeyNotFound = errors.New("key not found")

// Store is a small byte-valued key-value store.
type Store interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
	Delete(key string) error
	Close() error
}

// BadgerStore implements Store on a Badger database.
type BadgerStore struct {
	db       *badger.DB
	readOnly bool
	mu       sync.RWMutex
}

// OpenBadgerStore opens (or creates) a store in dir. If the directory is
// locked by another process the store is opened read-only.
func OpenBadgerStore(dir string) (*BadgerStore, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("create session directory: %w", err)
	}

	db, err := badger.Open(badger.DefaultOptions(dir).WithLogger(nil))
	if err == nil {
		return &BadgerStore{db: db}, nil
	}

	ro, roErr := badger.Open(badger.DefaultOptions(dir).WithLogger(nil).WithReadOnly(true))
	if roErr != nil {
		return nil, fmt.Errorf("open session store: %w", err)
	}
	return &BadgerStore{db: ro, readOnly: true}, nil
}

// OpenInMemoryStore opens a store that lives only as long as the process.
func OpenInMemoryStore() (*BadgerStore, error) {
	db, err := badger.Open(badger.DefaultOptions("").WithInMemory(true).WithLogger(nil))
	if err != nil {
		return nil, fmt.Errorf("open in-memory session store: %w", err)
	}
	return &BadgerStore{db: db}, nil
}

// IsReadOnly reports whether writes are refused because another process
// owns the store.
func (s *BadgerStore) IsReadOnly() bool {
	return s.readOnly
}

func (s *BadgerStore) Get(key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var val []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		val, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrKeyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", key, err)
	}
	return val, nil
}

func (s *BadgerStore) Set(key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.readOnly {
		return fmt.Errorf("set %s: session store is read-only", key)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), value)
	})
}

func (s *BadgerStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.readOnly {
		return fmt.Errorf("delete %s: session store is read-only", key)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
}

// Close closes the Badger database.
func (s *BadgerStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
