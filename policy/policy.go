package policy

import (
	"errors"
	"time"
)

// Well-known metadata fields populated by the bundled policies.
const (
	// FieldSize is the on-disk byte length of the entry (int64).
	FieldSize = "size_bytes"
	// FieldLastAccessed is the most recent access or modification time (time.Time).
	FieldLastAccessed = "last_accessed"
)

// Sentinel causes carried by non-fatal warnings.
var (
	ErrAlreadyRemoved  = errors.New("policy: backing file already removed")
	ErrShrinkExhausted = errors.New("policy: cache could not be shrunk further")
)

// Metadata is an open set of named attributes attached to an entry.
// Each policy owns the fields it declares and populates them on every write or scan.
type Metadata map[string]any

// Int64 returns an integer field and whether it is present with that type.
func (m Metadata) Int64(name string) (int64, bool) {
	v, ok := m[name].(int64)
	return v, ok
}

// Time returns a timestamp field and whether it is present with that type.
func (m Metadata) Time(name string) (time.Time, bool) {
	v, ok := m[name].(time.Time)
	return v, ok
}

// Clone returns a shallow copy of m.
func (m Metadata) Clone() Metadata {
	out := make(Metadata, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// FileStat is the subset of file information metadata is derived from.
type FileStat struct {
	Size         int64
	LastAccessed time.Time
}

// Entry is one indexed cache item.
// Key doubles as a slash-separated path relative to the cache root.
type Entry struct {
	Key      string
	Path     string
	Metadata Metadata
}

// Index is the read-only view of the cache index handed to policies.
type Index interface {
	// Len returns the number of indexed entries.
	Len() int
	// Entries returns a snapshot of all entries in insertion order.
	Entries() []Entry
}

// TotalSize sums size_bytes over every entry in idx.
// Entries without the field count as zero.
func TotalSize(idx Index) int64 {
	var total int64
	for _, e := range idx.Entries() {
		if n, ok := e.Metadata.Int64(FieldSize); ok {
			total += n
		}
	}
	return total
}

// Hooks are provided by the cache to a ShrinkPolicy for the duration of one pass.
//
// Concurrency: hooks are only valid inside the Shrink call that received them.
type Hooks interface {
	// Oversized reports the SizePolicy verdict for the current index.
	Oversized() bool
	// Evict removes key from the index and unlinks its file.
	// A missing file is reported as ErrAlreadyRemoved.
	Evict(key string) error
	// Warn surfaces a non-fatal condition to the cache's observability sinks.
	Warn(Warning)
}

// MetadataUpdater populates the metadata fields it owns from a file stat.
// The cache runs every updater, in order, after each write and for every scanned file.
type MetadataUpdater interface {
	// Fields lists the metadata fields this updater populates.
	Fields() []string
	UpdateMetadata(md Metadata, st FileStat)
}

// SizePolicy decides whether the cache exceeds its bound.
type SizePolicy interface {
	MetadataUpdater
	Name() string
	Oversized(idx Index) bool
}

// ShrinkPolicy chooses the removal order and drives eviction to completion.
//
// Semantics:
//   - Shrink must consult h.Oversized and remove entries through h.Evict until
//     the cache is no longer oversized or candidates are exhausted.
//   - exclude names a key that must not be evicted during this pass ("" = none).
type ShrinkPolicy interface {
	Name() string
	// Requires lists the metadata fields the ordering depends on.
	Requires() []string
	Shrink(idx Index, h Hooks, exclude string)
}
