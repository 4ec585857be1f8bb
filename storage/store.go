// Package storage defines the persistence contract the blog layer runs on,
// together with a DynamoDB-backed implementation and an in-memory
// implementation for tests and local development.
package storage

import (
	"context"
	"errors"
)

// Record is a stored document: field name to value. The "id" field holds
// the record's identity once persisted.
type Record map[string]string

// ErrNotFound is returned when a record with the given id does not exist
// in the collection.
var ErrNotFound = errors.New("storage: record not found")

// Store is the minimal CRUD surface a persistent store must provide.
// Identities are opaque strings assigned by the store on insert; every
// write is atomic at single-record granularity.
type Store interface {
	// Insert persists rec under a newly assigned id and returns that id.
	Insert(ctx context.Context, collection string, rec Record) (string, error)

	// FindByID returns the record with the given id, or ErrNotFound.
	FindByID(ctx context.Context, collection, id string) (Record, error)

	// FindAll returns every record in the collection, ordered ascending
	// by sortField.
	FindAll(ctx context.Context, collection, sortField string) ([]Record, error)

	// FindWhere returns records whose field equals value. A non-empty
	// projection restricts the fields present in the results.
	FindWhere(ctx context.Context, collection, field, value string, projection []string) ([]Record, error)

	// UpdateByID replaces the non-id fields of the record with rec and
	// returns the stored record after the write, or ErrNotFound.
	UpdateByID(ctx context.Context, collection, id string, rec Record) (Record, error)

	// DeleteByID removes the record and returns it as it was stored, or
	// ErrNotFound.
	DeleteByID(ctx context.Context, collection, id string) (Record, error)

	// Count returns the number of records in the collection.
	Count(ctx context.Context, collection string) (int64, error)

	// DeleteAll removes every record in the collection and returns how
	// many were removed.
	DeleteAll(ctx context.Context, collection string) (int64, error)
}

// Clone returns a copy of rec so callers cannot alias stored state.
func Clone(rec Record) Record {
	out := make(Record, len(rec))
	for k, v := range rec {
		out[k] = v
	}
	return out
}
