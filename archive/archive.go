// Package archive keeps finished runs in a pebble database so they can be
// inspected or redrawn later.
package archive

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/cockroachdb/pebble"
	"github.com/cockroachdb/pebble/vfs"
	"github.com/google/uuid"
)

var ErrNotFound = errors.New("run not found")

var indexKey = []byte("index:runs")

func runKey(id string) []byte {
	return []byte("run:" + id)
}

// Store is a run archive backed by pebble.
type Store struct {
	db    *pebble.DB
	mutex sync.Mutex
}

type Option func(*pebble.Options)

// WithFS opens the store on a custom filesystem, such as vfs.NewMem().
func WithFS(fs vfs.FS) Option {
	return func(o *pebble.Options) {
		o.FS = fs
	}
}

func Open(dir string, opts ...Option) (*Store, error) {
	options := &pebble.Options{}
	for _, opt := range opts {
		opt(options)
	}

	db, err := pebble.Open(dir, options)
	if err != nil {
		return nil, fmt.Errorf("open archive %s: %w", dir, err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Put stores rec, assigning a fresh ID when it has none, and returns the ID.
func (s *Store) Put(rec *Record) (string, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}

	buf, err := json.Marshal(rec)
	if err != nil {
		return "", err
	}

	ids, err := s.ids()
	if err != nil {
		return "", err
	}

	batch := s.db.NewBatch()
	defer batch.Close()

	if _, exists := find(ids, rec.ID); !exists {
		idx, err := json.Marshal(append(ids, rec.ID))
		if err != nil {
			return "", err
		}
		if err := batch.Set(indexKey, idx, nil); err != nil {
			return "", err
		}
	}

	if err := batch.Set(runKey(rec.ID), buf, nil); err != nil {
		return "", err
	}

	if err := batch.Commit(pebble.Sync); err != nil {
		return "", fmt.Errorf("commit run %s: %w", rec.ID, err)
	}

	return rec.ID, nil
}

func (s *Store) Get(id string) (*Record, error) {
	var rec Record
	if err := s.get(runKey(id), &rec); err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, err
	}

	return &rec, nil
}

// List returns run IDs in insertion order.
func (s *Store) List() ([]string, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	return s.ids()
}

func (s *Store) Delete(id string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	ids, err := s.ids()
	if err != nil {
		return err
	}

	i, exists := find(ids, id)
	if !exists {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	idx, err := json.Marshal(append(ids[:i:i], ids[i+1:]...))
	if err != nil {
		return err
	}

	batch := s.db.NewBatch()
	defer batch.Close()

	if err := batch.Set(indexKey, idx, nil); err != nil {
		return err
	}
	if err := batch.Delete(runKey(id), nil); err != nil {
		return err
	}

	return batch.Commit(pebble.Sync)
}

func (s *Store) ids() ([]string, error) {
	var ids []string
	if err := s.get(indexKey, &ids); err != nil && !errors.Is(err, pebble.ErrNotFound) {
		return nil, err
	}
	return ids, nil
}

// get decodes the value at key. The value is only valid until the closer runs.
func (s *Store) get(key []byte, v interface{}) error {
	val, closer, err := s.db.Get(key)
	if err != nil {
		return err
	}
	defer closer.Close()

	return json.Unmarshal(val, v)
}

func find(ids []string, id string) (int, bool) {
	for i, have := range ids {
		if have == id {
			return i, true
		}
	}
	return -1, false
}
