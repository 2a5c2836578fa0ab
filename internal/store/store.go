// Package store provides the document database behind hermes: named
// collections of schemaless documents with a change feed. The sync
// daemon and the task views both speak to it through the Store
// interface, so the backing engine stays swappable.
package store

import (
	"context"
	"errors"
)

// Store errors.
var (
	ErrNotFound = errors.New("document not found")
)

// Document is one schemaless record. The "id" field is reserved; ReadAll
// includes it, writes strip it from the stored payload.
type Document map[string]any

// ID returns the document's id field, or "" when absent.
func (d Document) ID() string {
	id, _ := d["id"].(string)
	return id
}

// Store is the document database interface.
type Store interface {
	// ReadAll returns every document of a collection, id field included,
	// ordered by id.
	ReadAll(ctx context.Context, collection string) ([]Document, error)

	// Upsert merges fields into the document with the given id, creating
	// it if absent.
	Upsert(ctx context.Context, collection, id string, fields Document) error

	// Create stores a new document under a generated id and returns it.
	Create(ctx context.Context, collection string, fields Document) (string, error)

	// Delete removes a document. Deleting a missing document is not an error.
	Delete(ctx context.Context, collection, id string) error

	// Subscribe registers a callback fired after any write to the
	// collection. The returned function cancels the subscription.
	Subscribe(collection string, fn func()) (cancel func())

	// Close releases any resources held by the store.
	Close() error
}
