package oldest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IvanBrykalov/diskcache/policy"
)

type sliceIndex []policy.Entry

func (s sliceIndex) Len() int { return len(s) }
func (s sliceIndex) Entries() []policy.Entry {
	out := make([]policy.Entry, len(s))
	copy(out, s)
	return out
}

// countHooks evicts until at most keep entries remain.
type countHooks struct {
	live    map[string]bool
	keep    int
	evicted []string
	warned  []policy.Warning
}

func (h *countHooks) Oversized() bool { return len(h.live) > h.keep }
func (h *countHooks) Evict(key string) error {
	h.evicted = append(h.evicted, key)
	delete(h.live, key)
	return nil
}
func (h *countHooks) Warn(w policy.Warning) { h.warned = append(h.warned, w) }

func at(key string, ts time.Time) policy.Entry {
	return policy.Entry{Key: key, Metadata: policy.Metadata{policy.FieldLastAccessed: ts}}
}

// Oldest entries go first; equal timestamps evict the later-inserted entry first.
func TestOldest_ShrinkOrder(t *testing.T) {
	t.Parallel()

	base := time.Unix(1_700_000_000, 0)
	idx := sliceIndex{
		at("new", base.Add(3*time.Second)),
		at("old", base),
		at("tie1", base.Add(time.Second)),
		at("tie2", base.Add(time.Second)),
	}
	h := &countHooks{live: map[string]bool{"new": true, "old": true, "tie1": true, "tie2": true}, keep: 1}

	New().Shrink(idx, h, "")

	assert.Equal(t, []string{"old", "tie2", "tie1"}, h.evicted)
	assert.Empty(t, h.warned)
}

// The excluded key is never evicted even when it is the oldest.
func TestOldest_ShrinkExclude(t *testing.T) {
	t.Parallel()

	base := time.Unix(1_700_000_000, 0)
	idx := sliceIndex{at("a", base), at("b", base.Add(time.Second)), at("c", base.Add(2*time.Second))}
	h := &countHooks{live: map[string]bool{"a": true, "b": true, "c": true}, keep: 2}

	New().Shrink(idx, h, "a")

	assert.Equal(t, []string{"b"}, h.evicted)
}

func TestOldest_UpdateMetadata(t *testing.T) {
	t.Parallel()

	p, ok := New().(policy.MetadataUpdater)
	require.True(t, ok, "oldest owns last_accessed")
	ts := time.Unix(42, 0)
	md := policy.Metadata{}
	p.UpdateMetadata(md, policy.FileStat{Size: 7, LastAccessed: ts})

	got, ok := md.Time(policy.FieldLastAccessed)
	require.True(t, ok)
	assert.True(t, got.Equal(ts), "last_accessed want %v, got %v", ts, got)
	assert.NotContains(t, md, policy.FieldSize, "oldest must not populate size_bytes")
	assert.Equal(t, []string{policy.FieldLastAccessed}, New().Requires())
}
