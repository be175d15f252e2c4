// Package overall implements a size policy bounding the total on-disk size.
package overall

import "github.com/IvanBrykalov/diskcache/policy"

// DefaultMaxBytes is the ceiling used when none is configured (1 GB).
const DefaultMaxBytes int64 = 1_000_000_000

// overallSize keeps size_bytes per entry and sums it on every check.
// No running total is cached: Oversized is O(entries).
type overallSize struct {
	max int64
}

// New returns a SizePolicy that reports oversized once the sum of all
// entries' size_bytes exceeds maxBytes. A non-positive maxBytes selects
// DefaultMaxBytes.
func New(maxBytes int64) policy.SizePolicy {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &overallSize{max: maxBytes}
}

func (p *overallSize) Name() string { return "overall" }

// MaxBytes returns the configured ceiling.
func (p *overallSize) MaxBytes() int64 { return p.max }

func (p *overallSize) Fields() []string { return []string{policy.FieldSize} }

// UpdateMetadata records the file's byte length.
func (p *overallSize) UpdateMetadata(md policy.Metadata, st policy.FileStat) {
	md[policy.FieldSize] = st.Size
}

// Oversized reports whether the total size exceeds the ceiling.
func (p *overallSize) Oversized(idx policy.Index) bool {
	return policy.TotalSize(idx) > p.max
}
