// Package largest implements the remove-largest shrink policy.
package largest

import (
	"sort"

	"github.com/IvanBrykalov/diskcache/policy"
)

// removeLargest evicts the largest entries first. It reads size_bytes,
// which the size policy is expected to populate.
type removeLargest struct{}

// New returns a ShrinkPolicy ordered by size_bytes.
func New() policy.ShrinkPolicy { return removeLargest{} }

func (removeLargest) Name() string { return "largest" }

func (removeLargest) Requires() []string { return []string{policy.FieldSize} }

// Shrink sorts entries smallest-first and drains from the tail.
func (removeLargest) Shrink(idx policy.Index, h policy.Hooks, exclude string) {
	policy.Drain(h, Order(idx.Entries()), exclude)
}

// Order sorts entries in place by size_bytes ascending (stable) and returns them.
func Order(entries []policy.Entry) []policy.Entry {
	sort.SliceStable(entries, func(i, j int) bool {
		si, _ := entries[i].Metadata.Int64(policy.FieldSize)
		sj, _ := entries[j].Metadata.Int64(policy.FieldSize)
		return si < sj
	})
	return entries
}
