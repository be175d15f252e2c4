package prom

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IvanBrykalov/diskcache/cache"
	"github.com/IvanBrykalov/diskcache/policy"
	"github.com/IvanBrykalov/diskcache/policy/largest"
	"github.com/IvanBrykalov/diskcache/policy/overall"
)

func TestAdapter_Counters(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	a := New(reg, "diskcache", "test", nil)

	a.Write(10)
	a.Write(5)
	a.Hit()
	a.Miss()
	a.Miss()
	a.Evict("oldest")
	a.Warn(policy.ShrinkExhausted)
	a.Size(3, 42)

	assert.Equal(t, 2.0, testutil.ToFloat64(a.writes))
	assert.Equal(t, 15.0, testutil.ToFloat64(a.writtenBytes))
	assert.Equal(t, 1.0, testutil.ToFloat64(a.hits))
	assert.Equal(t, 2.0, testutil.ToFloat64(a.misses))
	assert.Equal(t, 1.0, testutil.ToFloat64(a.evicts.WithLabelValues("oldest")))
	assert.Equal(t, 1.0, testutil.ToFloat64(a.warnings.WithLabelValues("shrink_exhausted")))
	assert.Equal(t, 3.0, testutil.ToFloat64(a.sizeEnt))
	assert.Equal(t, 42.0, testutil.ToFloat64(a.sizeBytes))
}

// A cache wired to the adapter reports evictions under the shrink policy's name.
func TestAdapter_WiredToCache(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	a := New(reg, "", "", prometheus.Labels{"instance": "t"})

	c, err := cache.New(cache.Options{
		Root:    t.TempDir(),
		Size:    overall.New(10),
		Shrink:  largest.New(),
		Metrics: a,
	})
	require.NoError(t, err)
	for _, k := range []string{"a", "b", "c"} {
		require.NoError(t, c.Write(k, []byte("12345")), "write %s", k)
	}

	assert.Equal(t, 1.0, testutil.ToFloat64(a.evicts.WithLabelValues("largest")))
	assert.Equal(t, 2.0, testutil.ToFloat64(a.sizeEnt))

	n, err := testutil.GatherAndCount(reg)
	require.NoError(t, err)
	assert.Positive(t, n)
}
