// Package store holds the named values every other component reads and writes.
//
// Values are kept as state strings, the way a home-automation host keeps them:
// numeric fields are stored formatted, and readers parse them back. A value
// that cannot be parsed is a reader concern, not a store error.
package store

// Change describes one write observed by a subscriber.
type Change struct {
	Key    string
	Old    string
	New    string
	HadOld bool
}

// ChangeHandler is invoked after a subscribed key is written.
type ChangeHandler func(Change)

// Store is the value store consumed by the registry, the metric reader and the
// command handlers.
type Store interface {
	Get(key string) (string, bool)
	Set(key, value string)
	// Snapshot copies the current value of every key under one read.
	Snapshot() map[string]string
	// Subscribe registers handler for the given keys. An empty key list
	// subscribes to every key. The returned func removes the subscription.
	Subscribe(keys []string, handler ChangeHandler) func()
}
