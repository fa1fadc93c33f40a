// Package cartstore persists the cart under a well-known key and lets
// independently running views converge on the latest write.
package cartstore

import "context"

// KV is a durable string-keyed byte store, the equivalent of browser local storage
type KV interface {
	// Get returns ok=false when the key is absent
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	// Set overwrites the value; a concurrent reader sees either the old or the new value
	Set(ctx context.Context, key string, value []byte) error
	// Delete removes the key; deleting an absent key is not an error
	Delete(ctx context.Context, key string) error
}

// EventSource pushes "something may have changed" signals. The channel must
// be closed once ctx is done or the source fails.
type EventSource interface {
	Events(ctx context.Context) (<-chan struct{}, error)
}
