// Package prom exports cache metrics to Prometheus.
package prom

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/IvanBrykalov/diskcache/cache"
	"github.com/IvanBrykalov/diskcache/policy"
)

// Adapter implements cache.Metrics and exports Prometheus counters/gauges.
// Safe for concurrent use; all Prometheus metric types are goroutine-safe.
type Adapter struct {
	writes       prometheus.Counter
	writtenBytes prometheus.Counter
	hits         prometheus.Counter
	misses       prometheus.Counter
	evicts       *prometheus.CounterVec
	warnings     *prometheus.CounterVec
	sizeEnt      prometheus.Gauge
	sizeBytes    prometheus.Gauge
}

// New constructs a Prometheus metrics adapter.
//   - reg:          registry to register metrics with (nil => prometheus.DefaultRegisterer)
//   - ns, sub:      Prometheus namespace and subsystem
//   - constLabels:  static labels applied to all metrics (may be nil)
func New(reg prometheus.Registerer, ns, sub string, constLabels prometheus.Labels) *Adapter {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	counter := func(name, help string) prometheus.Counter {
		return prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   ns,
			Subsystem:   sub,
			Name:        name,
			Help:        help,
			ConstLabels: constLabels,
		})
	}
	a := &Adapter{
		writes:       counter("writes_total", "Successful cache writes"),
		writtenBytes: counter("written_bytes_total", "Bytes written to the cache"),
		hits:         counter("hits_total", "Cache reads served from disk"),
		misses:       counter("misses_total", "Cache reads for absent or unreadable keys"),
		evicts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace:   ns,
				Subsystem:   sub,
				Name:        "evictions_total",
				Help:        "Entries removed by shrink passes, by shrink policy",
				ConstLabels: constLabels,
			},
			[]string{"policy"},
		),
		warnings: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace:   ns,
				Subsystem:   sub,
				Name:        "warnings_total",
				Help:        "Non-fatal cache conditions by kind",
				ConstLabels: constLabels,
			},
			[]string{"kind"},
		),
		sizeEnt: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   ns,
			Subsystem:   sub,
			Name:        "size_entries",
			Help:        "Number of indexed entries",
			ConstLabels: constLabels,
		}),
		sizeBytes: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   ns,
			Subsystem:   sub,
			Name:        "size_bytes",
			Help:        "Total tracked on-disk size",
			ConstLabels: constLabels,
		}),
	}
	reg.MustRegister(a.writes, a.writtenBytes, a.hits, a.misses, a.evicts, a.warnings, a.sizeEnt, a.sizeBytes)
	return a
}

// Write counts a successful write of n bytes.
func (a *Adapter) Write(n int) {
	a.writes.Inc()
	a.writtenBytes.Add(float64(n))
}

// Hit increments the hit counter.
func (a *Adapter) Hit() { a.hits.Inc() }

// Miss increments the miss counter.
func (a *Adapter) Miss() { a.misses.Inc() }

// Evict increments the eviction counter labelled with the shrink policy name.
func (a *Adapter) Evict(policyName string) {
	a.evicts.WithLabelValues(policyName).Inc()
}

// Warn increments the warning counter labelled with the warning kind.
func (a *Adapter) Warn(kind policy.WarningKind) {
	a.warnings.WithLabelValues(kind.String()).Inc()
}

// Size updates gauges for the number of entries and total bytes.
func (a *Adapter) Size(entries int, bytes int64) {
	a.sizeEnt.Set(float64(entries))
	a.sizeBytes.Set(float64(bytes))
}

// Compile-time check: ensure Adapter implements cache.Metrics.
var _ cache.Metrics = (*Adapter)(nil)
