// Package docstore abstracts the document store the interaction coordinators
// compose over. Documents are addressed by opaque slash paths (the last
// segment is the document id, everything before it the collection). The
// store guarantees atomicity per document only: there are no cross-document
// transactions, so callers order multi-document writes themselves.
package docstore

import (
	"context"
	"errors"
	"strings"
)

var (
	// ErrNotFound is returned when a mutation or read targets a document
	// that does not exist.
	ErrNotFound = errors.New("document not found")
)

// Document is the schemaless field set of a single document.
type Document map[string]interface{}

// Entry pairs a document with its full path, as returned by queries.
type Entry struct {
	Path   string
	Fields Document
}

// Store is the narrow surface the coordinators consume. Increment, AddToSet
// and RemoveFromSet are atomic at single-document granularity; mutating a
// missing document fails with ErrNotFound (set-then-mutate, like Firestore's
// update semantics).
type Store interface {
	// Exists reports whether a document exists at path.
	Exists(ctx context.Context, path string) (bool, error)

	// Get returns the fields of the document at path.
	Get(ctx context.Context, path string) (Document, error)

	// Set creates or fully overwrites the document at path.
	Set(ctx context.Context, path string, fields Document) error

	// Delete removes the document at path. Deleting a missing document is
	// not an error.
	Delete(ctx context.Context, path string) error

	// Increment atomically adjusts a numeric field by delta.
	Increment(ctx context.Context, path string, field string, delta int64) error

	// AddToSet adds value to an array field, ignoring duplicates.
	AddToSet(ctx context.Context, path string, field string, value string) error

	// RemoveFromSet removes value from an array field if present.
	RemoveFromSet(ctx context.Context, path string, field string, value string) error

	// Add creates a document in collection under a generated id and returns
	// its full path.
	Add(ctx context.Context, collection string, fields Document) (string, error)

	// QueryOne returns the first document in collection whose fields match
	// every filter entry, or ErrNotFound.
	QueryOne(ctx context.Context, collection string, filter Document) (*Entry, error)

	// Query returns up to limit documents in collection matching filter.
	// limit <= 0 means no limit.
	Query(ctx context.Context, collection string, filter Document, limit int) ([]Entry, error)
}

// Collection returns the collection portion of a document path, i.e.
// everything before the final segment.
func Collection(path string) string {
	idx := strings.LastIndex(path, "/")
	if idx < 0 {
		return ""
	}
	return path[:idx]
}
