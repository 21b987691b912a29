// Package memory is an in-process docstore.Store. Documents keep insertion
// order, which makes it the store of choice for unit tests.
package memory

import (
	"context"
	"maps"
	"reflect"
	"sync"

	"alcyxob/fitness-testkit/internal/docstore"

	"github.com/google/uuid"
)

type entry struct {
	id     string
	fields map[string]any
}

// Store implements docstore.Store in memory.
type Store struct {
	mu          sync.RWMutex
	collections map[string][]entry
	closed      bool
}

func New() *Store {
	return &Store{collections: make(map[string][]entry)}
}

func (s *Store) Add(_ context.Context, collectionPath string, fields map[string]any) (string, error) {
	if _, _, err := docstore.SplitCollectionPath(collectionPath); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return "", docstore.ErrClosed
	}
	id := uuid.NewString()
	s.collections[collectionPath] = append(s.collections[collectionPath], entry{id: id, fields: maps.Clone(fields)})
	return id, nil
}

func (s *Store) List(_ context.Context, collectionPath string) ([]docstore.Document, error) {
	return s.filter(collectionPath, func(map[string]any) bool { return true })
}

func (s *Store) Find(_ context.Context, collectionPath, field string, value any) ([]docstore.Document, error) {
	return s.filter(collectionPath, func(f map[string]any) bool {
		v, ok := f[field]
		return ok && reflect.DeepEqual(v, value)
	})
}

func (s *Store) filter(collectionPath string, keep func(map[string]any) bool) ([]docstore.Document, error) {
	if _, _, err := docstore.SplitCollectionPath(collectionPath); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, docstore.ErrClosed
	}
	docs := []docstore.Document{}
	for _, e := range s.collections[collectionPath] {
		if !keep(e.fields) {
			continue
		}
		docs = append(docs, docstore.Document{
			ID:   e.id,
			Path: docstore.Join(collectionPath, e.id),
			Data: maps.Clone(e.fields),
		})
	}
	return docs, nil
}

func (s *Store) Delete(_ context.Context, docPath string) error {
	collectionPath, id, err := docstore.SplitDocPath(docPath)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return docstore.ErrClosed
	}
	entries := s.collections[collectionPath]
	for i, e := range entries {
		if e.id == id {
			s.collections[collectionPath] = append(entries[:i:i], entries[i+1:]...)
			break
		}
	}
	if len(s.collections[collectionPath]) == 0 {
		delete(s.collections, collectionPath)
	}
	return nil
}

// Len returns the number of documents in collectionPath.
func (s *Store) Len(collectionPath string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.collections[collectionPath])
}

// Total returns the number of documents across every collection.
func (s *Store) Total() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, entries := range s.collections {
		n += len(entries)
	}
	return n
}

func (s *Store) Close(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
