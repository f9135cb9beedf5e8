// Package docstore is the document-store collaborator shared by the search
// composer, the account services and project CRUD. Records are schemaless
// maps; typed shapes are produced by the callers at ingestion.
package docstore

import (
	"context"
	"errors"
)

// IDField is the key under which every Record carries its document id.
const IDField = "id"

// ErrNotFound is returned by Get and Delete when the document does not exist.
var ErrNotFound = errors.New("docstore: document not found")

// Record is one raw document.
type Record map[string]any

// ID returns the document id, or "" when absent.
func (r Record) ID() string {
	id, _ := r[IDField].(string)
	return id
}

// Clone returns a shallow copy of r.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Store is implemented by every driver.
type Store interface {
	// Query returns the documents of collection that satisfy every where
	// constraint, ordered and capped by the orderBy and limit constraints.
	Query(ctx context.Context, collection string, constraints ...Constraint) ([]Record, error)
	// Get returns a single document or ErrNotFound.
	Get(ctx context.Context, collection, id string) (Record, error)
	// Set creates or replaces the document with the given id.
	Set(ctx context.Context, collection, id string, doc Record) error
	// Delete removes the document or returns ErrNotFound.
	Delete(ctx context.Context, collection, id string) error
}

// Pinger is implemented by drivers that can report connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}
