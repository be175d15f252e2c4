package cache

import (
	"math/rand"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/IvanBrykalov/diskcache/policy"
	"github.com/IvanBrykalov/diskcache/policy/largest"
	"github.com/IvanBrykalov/diskcache/policy/oldest"
	"github.com/IvanBrykalov/diskcache/policy/overall"
)

// benchmarkWrite exercises the write path against a bound small enough that
// most writes trigger a shrink pass. Every operation touches the disk, so
// results are dominated by the filesystem.
func benchmarkWrite(b *testing.B, shrink policy.ShrinkPolicy, keys int) {
	c, err := New(Options{
		Root:   b.TempDir(),
		Size:   overall.New(int64(keys) * 512),
		Shrink: shrink,
	})
	require.NoError(b, err)

	r := rand.New(rand.NewSource(1))
	val := make([]byte, 1024)

	// Fill to the bound first so the timed loop measures steady state.
	for i := 0; i < keys; i++ {
		require.NoError(b, c.Write("k/"+strconv.Itoa(i), val[:r.Intn(len(val))+1]))
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		k := "k/" + strconv.Itoa(r.Intn(keys*2))
		require.NoError(b, c.Write(k, val[:r.Intn(len(val))+1]))
	}
}

func BenchmarkWrite_Oldest_100(b *testing.B)   { benchmarkWrite(b, oldest.New(), 100) }
func BenchmarkWrite_Largest_100(b *testing.B)  { benchmarkWrite(b, largest.New(), 100) }
func BenchmarkWrite_Oldest_1000(b *testing.B)  { benchmarkWrite(b, oldest.New(), 1000) }
func BenchmarkWrite_Largest_1000(b *testing.B) { benchmarkWrite(b, largest.New(), 1000) }

// BenchmarkRead measures Read on a warm cache with no eviction pressure.
func BenchmarkRead(b *testing.B) {
	c, err := New(Options{Root: b.TempDir(), Size: overall.New(1 << 30), Shrink: oldest.New()})
	require.NoError(b, err)
	const keys = 256
	for i := 0; i < keys; i++ {
		require.NoError(b, c.Write(strconv.Itoa(i), []byte("value")))
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		rc, err := c.Open(strconv.Itoa(i % keys))
		require.NoError(b, err)
		_ = rc.Close()
	}
}
