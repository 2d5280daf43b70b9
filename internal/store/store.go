package store

import (
	"context"
	"errors"

	"followdeck/internal/model"
)

// ErrNotFound is returned when a record id does not exist in a
// collection.
var ErrNotFound = errors.New("record not found")

// Store is the remote key-value collaborator: a flat document-per-record
// service keyed by (collection, record id). Everything above this
// interface only sees canonical field bags.
type Store interface {
	// ReadAll returns every record in a collection. A missing or empty
	// collection yields an empty map, not an error.
	ReadAll(ctx context.Context, collection string) (map[string]model.FieldBag, error)

	// CreateOrReplace writes a full record, overwriting any existing one.
	CreateOrReplace(ctx context.Context, collection, id string, fields model.FieldBag) error

	// PartialUpdate merges the changed fields into an existing record.
	PartialUpdate(ctx context.Context, collection, id string, changed model.FieldBag) error

	// Delete removes a single record. Deleting a missing record is a no-op.
	Delete(ctx context.Context, collection, id string) error

	// DeleteCollection removes a collection and all of its records.
	DeleteCollection(ctx context.Context, collection string) error

	// Count returns the number of records in a collection.
	Count(ctx context.Context, collection string) (int, error)

	// Collections lists the ids of all non-empty collections.
	Collections(ctx context.Context) ([]string, error)
}
