package storage

import (
	"context"
	"fmt"
)

var ErrNotFound = fmt.Errorf("object not found")

// Object is a stored resource keyed by remote attribute keys, including "id".
type Object map[string]any

// Store keeps objects grouped by collection name, e.g. "labels".
type Store interface {
	Get(ctx context.Context, collection, id string) (Object, error)
	Put(ctx context.Context, collection, id string, obj Object) error
	Delete(ctx context.Context, collection, id string) error
	// Find returns every object in collection whose key holds value.
	Find(ctx context.Context, collection, key, value string) ([]Object, error)
	Close()
}
