// Package memory is an in-process docstore.Store used by tests and as a
// development fallback when no database is configured.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	uuid "github.com/gofrs/uuid"

	"github.com/blocksocial/api/internal/docstore"
)

// Store keeps every document in a map guarded by a single RWMutex, which
// makes each call atomic. That matches the per-document guarantee of the
// real store, without cross-call transactions.
type Store struct {
	mu   sync.RWMutex
	docs map[string]docstore.Document
}

var _ docstore.Store = (*Store)(nil)

// New creates an empty in-memory store.
func New() *Store {
	return &Store{docs: make(map[string]docstore.Document)}
}

func (s *Store) Exists(ctx context.Context, path string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.docs[path]
	return ok, nil
}

func (s *Store) Get(ctx context.Context, path string) (docstore.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[path]
	if !ok {
		return nil, docstore.ErrNotFound
	}
	return cloneDoc(doc), nil
}

func (s *Store) Set(ctx context.Context, path string, fields docstore.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[path] = cloneDoc(fields)
	return nil
}

func (s *Store) Delete(ctx context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.docs, path)
	return nil
}

func (s *Store) Increment(ctx context.Context, path string, field string, delta int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.docs[path]
	if !ok {
		return docstore.ErrNotFound
	}
	current, err := asInt64(doc[field])
	if err != nil {
		return fmt.Errorf("field %q on %q: %w", field, path, err)
	}
	doc[field] = current + delta
	return nil
}

func (s *Store) AddToSet(ctx context.Context, path string, field string, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.docs[path]
	if !ok {
		return docstore.ErrNotFound
	}
	members := asStringSlice(doc[field])
	for _, m := range members {
		if m == value {
			return nil
		}
	}
	doc[field] = append(members, value)
	return nil
}

func (s *Store) RemoveFromSet(ctx context.Context, path string, field string, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.docs[path]
	if !ok {
		return docstore.ErrNotFound
	}
	members := asStringSlice(doc[field])
	kept := members[:0]
	for _, m := range members {
		if m != value {
			kept = append(kept, m)
		}
	}
	doc[field] = kept
	return nil
}

func (s *Store) Add(ctx context.Context, collection string, fields docstore.Document) (string, error) {
	id, err := uuid.NewV4()
	if err != nil {
		return "", fmt.Errorf("failed to generate document id: %w", err)
	}
	path := collection + "/" + id.String()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[path] = cloneDoc(fields)
	return path, nil
}

func (s *Store) QueryOne(ctx context.Context, collection string, filter docstore.Document) (*docstore.Entry, error) {
	entries, err := s.Query(ctx, collection, filter, 1)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, docstore.ErrNotFound
	}
	return &entries[0], nil
}

func (s *Store) Query(ctx context.Context, collection string, filter docstore.Document, limit int) ([]docstore.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var paths []string
	for path := range s.docs {
		if docstore.Collection(path) == collection {
			paths = append(paths, path)
		}
	}
	// Map iteration order is random; sort for deterministic results.
	sort.Strings(paths)

	var entries []docstore.Entry
	for _, path := range paths {
		if !matches(s.docs[path], filter) {
			continue
		}
		entries = append(entries, docstore.Entry{Path: path, Fields: cloneDoc(s.docs[path])})
		if limit > 0 && len(entries) == limit {
			break
		}
	}
	return entries, nil
}

// Len reports the number of stored documents. Test helper.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs)
}

func matches(doc docstore.Document, filter docstore.Document) bool {
	for field, want := range filter {
		got, ok := doc[field]
		if !ok {
			return false
		}
		if fmt.Sprintf("%v", got) != fmt.Sprintf("%v", want) {
			return false
		}
	}
	return true
}

func cloneDoc(doc docstore.Document) docstore.Document {
	out := make(docstore.Document, len(doc))
	for k, v := range doc {
		if ss, ok := v.([]string); ok {
			out[k] = append([]string(nil), ss...)
			continue
		}
		out[k] = v
	}
	return out
}

func asInt64(v interface{}) (int64, error) {
	switch n := v.(type) {
	case nil:
		return 0, nil
	case int:
		return int64(n), nil
	case int64:
		return n, nil
	case float64:
		return int64(n), nil
	default:
		return 0, fmt.Errorf("value %v is not numeric", v)
	}
}

func asStringSlice(v interface{}) []string {
	switch m := v.(type) {
	case nil:
		return nil
	case []string:
		return m
	case []interface{}:
		out := make([]string, 0, len(m))
		for _, item := range m {
			out = append(out, strings.TrimSpace(fmt.Sprintf("%v", item)))
		}
		return out
	default:
		return nil
	}
}
