// Package policy defines the contracts between the disk cache and its
// pluggable eviction strategies.
//
// A cache is composed of exactly one SizePolicy, which answers "is the cache
// oversized?", and one ShrinkPolicy, which decides what to remove and in
// which order. Both see the cache index through the read-only Index view.
// Metadata the policies depend on (sizes, access times) is populated by
// MetadataUpdater implementations before any policy decision runs.
//
// Bundled strategies live in sub-packages:
//
//   - overall: total on-disk size against a byte ceiling
//   - oldest:  evict the least recently accessed entries first
//   - largest: evict the largest entries first
package policy
