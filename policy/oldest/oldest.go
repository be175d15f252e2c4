// Package oldest implements the remove-oldest shrink policy.
package oldest

import (
	"sort"

	"github.com/IvanBrykalov/diskcache/policy"
)

// removeOldest evicts the least recently accessed entries first.
// It owns the last_accessed field and refreshes it on every write.
type removeOldest struct{}

// New returns a ShrinkPolicy ordered by last_accessed.
// The returned value also implements policy.MetadataUpdater.
func New() policy.ShrinkPolicy { return removeOldest{} }

func (removeOldest) Name() string { return "oldest" }

func (removeOldest) Requires() []string { return []string{policy.FieldLastAccessed} }

func (removeOldest) Fields() []string { return []string{policy.FieldLastAccessed} }

// UpdateMetadata records the file's last access time.
func (removeOldest) UpdateMetadata(md policy.Metadata, st policy.FileStat) {
	md[policy.FieldLastAccessed] = st.LastAccessed
}

// Shrink sorts entries newest-first and drains from the tail, so the oldest
// goes first. Ties keep index order, which puts the later-inserted entry
// nearer the tail.
func (removeOldest) Shrink(idx policy.Index, h policy.Hooks, exclude string) {
	policy.Drain(h, Order(idx.Entries()), exclude)
}

// Order sorts entries in place by last_accessed descending (stable) and returns them.
func Order(entries []policy.Entry) []policy.Entry {
	sort.SliceStable(entries, func(i, j int) bool {
		ti, _ := entries[i].Metadata.Time(policy.FieldLastAccessed)
		tj, _ := entries[j].Metadata.Time(policy.FieldLastAccessed)
		return ti.After(tj)
	})
	return entries
}

var (
	_ policy.ShrinkPolicy    = removeOldest{}
	_ policy.MetadataUpdater = removeOldest{}
)
