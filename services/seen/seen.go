// Package seen tracks which post ids have already been notified.
package seen

// Store represents the durable seen-set of notified post ids. Ids are
// only ever added; nothing removes one.
type Store interface {
	// Load reads the persisted set. An unreadable backing store is not
	// fatal: implementations fall back to an empty set and warn.
	Load() error

	// Contains reports whether the id was already notified
	Contains(id string) bool

	// Add records the id and reports whether it was newly added. A
	// false return means some earlier add (possibly by a concurrent
	// run) got there first and the caller must not notify.
	Add(id string) (bool, error)

	// Persist flushes the set to durable storage
	Persist() error

	// Close releases any backing connection
	Close() error
}
