// Package store provides the persistence boundary for the rule collection: a
// single serialized blob held under a fixed key. Adapters exist for memory,
// a local JSON file, Redis, and PostgreSQL.
package store

import "context"

// DefaultKey is the key the rule collection lives under unless configured
// otherwise.
const DefaultKey = "docveil:rules"

// Store is the key/value contract the rule Manager persists through. Get
// returns ErrNotFound when the key has never been written.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string) error
}
