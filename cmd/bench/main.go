// Command bench runs a synthetic disk workload against the cache and exposes optional pprof/Prometheus endpoints.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"math/rand"
	"net/http"
	_ "net/http/pprof" // registers /debug/pprof/* on DefaultServeMux
	"os"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/IvanBrykalov/diskcache/cache"
	"github.com/IvanBrykalov/diskcache/internal/config"
	pmet "github.com/IvanBrykalov/diskcache/metrics/prom"
	"github.com/IvanBrykalov/diskcache/policy"
	"github.com/IvanBrykalov/diskcache/policy/overall"
)

// benchConfig is the parsed flag set.
type benchConfig struct {
	maxSize  string
	shrink   string
	root     string
	duration time.Duration
	readPct  int
	appendPc int

	keys    int
	minVal  int
	maxVal  int
	zipfS   float64
	zipfV   float64
	seed    int64
	dirFan  int
	pprof   string
	metrics string

	bound        config.ByteSize
	shrinkPolicy policy.ShrinkPolicy
}

func main() {
	// ---- Flags ----
	var cfg benchConfig
	flag.StringVar(&cfg.maxSize, "max", "64MB", "size bound")
	flag.StringVar(&cfg.shrink, "policy", "oldest", "shrink policy: oldest | largest")
	flag.StringVar(&cfg.root, "root", "", "cache root (empty = temp dir, removed on exit)")
	flag.DurationVar(&cfg.duration, "duration", 10*time.Second, "benchmark duration")
	flag.IntVar(&cfg.readPct, "reads", 70, "read percentage [0..100]")
	flag.IntVar(&cfg.appendPc, "appends", 10, "share of writes that append [0..100]")

	flag.IntVar(&cfg.keys, "keys", 10_000, "keyspace size")
	flag.IntVar(&cfg.minVal, "min", 512, "minimum value size in bytes")
	flag.IntVar(&cfg.maxVal, "maxval", 64<<10, "maximum value size in bytes")
	flag.Float64Var(&cfg.zipfS, "zipf_s", 1.1, "Zipf s > 1 (skew)")
	flag.Float64Var(&cfg.zipfV, "zipf_v", 1.0, "Zipf v")
	flag.Int64Var(&cfg.seed, "seed", time.Now().UnixNano(), "random seed")
	flag.IntVar(&cfg.dirFan, "fanout", 64, "number of subdirectories keys are spread over")
	flag.StringVar(&cfg.pprof, "pprof", "", "serve pprof at addr (e.g. :6060); empty = disabled")
	flag.StringVar(&cfg.metrics, "http", ":8080", "serve Prometheus metrics at addr")
	flag.Parse()

	if err := cfg.validate(); err != nil {
		log.Fatalf("flags: %v", err)
	}
	if err := run(cfg); err != nil {
		log.Fatalf("bench: %v", err)
	}
}

// validate checks flag ranges and resolves the bound and shrink policy.
func (c *benchConfig) validate() error {
	if err := c.bound.UnmarshalText([]byte(c.maxSize)); err != nil {
		return fmt.Errorf("max: %w", err)
	}
	p, err := config.ShrinkPolicy(c.shrink)
	if err != nil {
		return fmt.Errorf("policy: %w", err)
	}
	c.shrinkPolicy = p
	switch {
	case c.bound <= 0:
		return errors.New("max: must be greater than 0")
	case c.minVal <= 0 || c.maxVal < c.minVal:
		return errors.New("value sizes: need 0 < min <= maxval")
	case c.keys < 2:
		return errors.New("keys: need at least 2")
	case c.dirFan <= 0:
		return errors.New("fanout: must be greater than 0")
	case c.zipfS <= 1 || c.zipfV < 1:
		return errors.New("zipf: need zipf_s > 1 and zipf_v >= 1")
	}
	return nil
}

// run drives the workload; deferred cleanup of a temp root always runs.
func run(cfg benchConfig) error {
	dir := cfg.root
	if dir == "" {
		tmp, err := os.MkdirTemp("", "diskcache-bench-")
		if err != nil {
			return fmt.Errorf("temp root: %w", err)
		}
		defer os.RemoveAll(tmp)
		dir = tmp
	}

	// ---- pprof server (on DefaultServeMux) ----
	if cfg.pprof != "" {
		go func() {
			log.Printf("pprof: serving at %s", cfg.pprof)
			log.Println(http.ListenAndServe(cfg.pprof, nil))
		}()
	}

	// ---- Build cache ----
	adapter := pmet.New(nil, "diskcache", "bench", nil)
	var evictions uint64
	c, err := cache.New(cache.Options{
		Root:    dir,
		Size:    overall.New(cfg.bound.Int64()),
		Shrink:  cfg.shrinkPolicy,
		Metrics: adapter,
		OnEvict: func(string, policy.Metadata) { evictions++ },
	})
	if err != nil {
		return fmt.Errorf("open cache: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.duration)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)

	// ---- Prometheus metrics ----
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: cfg.metrics, Handler: mux}
	g.Go(func() error {
		log.Printf("metrics: serving at %s", cfg.metrics)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	// ---- Load generation ----
	// The cache is single-owner, so the workload runs on one goroutine.
	var st stats
	start := time.Now()
	g.Go(func() error {
		defer func() { _ = srv.Shutdown(context.Background()) }()
		r := rand.New(rand.NewSource(cfg.seed))
		zipf := rand.NewZipf(r, cfg.zipfS, cfg.zipfV, uint64(cfg.keys-1))
		buf := make([]byte, cfg.maxVal)
		r.Read(buf)

		keyByZipf := func() string {
			n := zipf.Uint64()
			return strconv.FormatUint(n%uint64(cfg.dirFan), 16) + "/k" + strconv.FormatUint(n, 10)
		}

		for gctx.Err() == nil {
			st.total++
			k := keyByZipf()
			if int(r.Int31n(100)) < cfg.readPct {
				st.reads++
				err := c.Read(k, func(rd io.Reader) error {
					n, err := io.Copy(io.Discard, rd)
					st.readBytes += uint64(n)
					return err
				})
				switch {
				case err == nil:
					st.hits++
				case errors.Is(err, cache.ErrNotFound):
					st.misses++
				default:
					return err
				}
				continue
			}
			st.writes++
			n := cfg.minVal + r.Intn(cfg.maxVal-cfg.minVal+1)
			write := c.Write
			if int(r.Int31n(100)) < cfg.appendPc {
				write = c.Append
			}
			if err := write(k, buf[:n]); err != nil {
				return err
			}
			st.writeBytes += uint64(n)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	elapsed := time.Since(start)

	// ---- Report ----
	hitRate := 0.0
	if st.reads > 0 {
		hitRate = float64(st.hits) / float64(st.reads) * 100
	}
	fmt.Printf("policy=%s max=%s keys=%d dur=%v seed=%d root=%s\n",
		cfg.shrink, cfg.bound, cfg.keys, elapsed, cfg.seed, dir)
	fmt.Printf("ops=%d (%.0f ops/s)  reads=%d  writes=%d  evictions=%d\n",
		st.total, float64(st.total)/elapsed.Seconds(), st.reads, st.writes, evictions)
	fmt.Printf("hits=%d  misses=%d  hit-rate=%.2f%%\n", st.hits, st.misses, hitRate)
	fmt.Printf("read=%s  written=%s\n", config.ByteSize(st.readBytes), config.ByteSize(st.writeBytes))
	fmt.Printf("Len()=%d  Size()=%s\n", c.Len(), config.ByteSize(c.Size()))
	return nil
}

type stats struct {
	total, reads, writes, hits, misses uint64
	readBytes, writeBytes              uint64
}
