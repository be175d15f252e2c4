package cache

import (
	"io"

	"github.com/IvanBrykalov/diskcache/policy"
)

// Entry is one indexed cache item: its key, backing file path and metadata.
type Entry = policy.Entry

// Cache is a disk-backed key/value store that evicts entries to stay under
// the bound enforced by its SizePolicy.
//
// A Cache is the sole owner of its index and is NOT safe for concurrent use;
// callers sharing one across goroutines or processes must lock externally.
type Cache interface {
	// Contains reports whether key is indexed. The disk is not consulted.
	Contains(key string) bool

	// Write stores p under key, replacing the previous value unless the cache
	// is inside a WithAppend scope. Metadata is refreshed before the size
	// check, and the key itself is protected from the shrink pass it triggers.
	// On failure the index is left unchanged and the error wraps ErrIO.
	Write(key string, p []byte) error

	// Append appends p to the value stored under key, creating it if absent.
	Append(key string, p []byte) error

	// WithAppend runs fn with writes switched to append mode and restores
	// the previous mode on every exit path.
	WithAppend(fn func() error) error

	// Read opens the value under key and passes it to fn. The file is closed
	// when Read returns, whatever fn does. Returns ErrNotFound if key is not indexed.
	Read(key string, fn func(io.Reader) error) error

	// Open returns the value under key as a stream the caller must close.
	Open(key string) (io.ReadCloser, error)

	// Remove deletes key if present. It is idempotent and does not fail when
	// the backing file has already been removed out-of-band.
	Remove(key string) error

	// Reset clears the index and rebuilds it from the root directory.
	Reset() error

	// Shrink runs a shrink pass if the cache is oversized, with no key excluded.
	Shrink()

	// Len returns the number of indexed entries.
	Len() int

	// Keys returns indexed keys in insertion order.
	Keys() []string

	// Entry returns a copy of the entry for key.
	Entry(key string) (Entry, bool)

	// Size returns the sum of size_bytes across entries (0 if not tracked).
	Size() int64

	// Root returns the root directory of the backing filesystem.
	Root() string
}
