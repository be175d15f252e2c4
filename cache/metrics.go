package cache

import "github.com/IvanBrykalov/diskcache/policy"

// Metrics exposes cache-level observability hooks.
// A NoopMetrics implementation is provided and used by default.
type Metrics interface {
	// Write is called after a successful write of n bytes.
	Write(n int)
	Hit()
	Miss()
	// Evict is called for every entry removed by a shrink pass.
	Evict(policyName string)
	Warn(kind policy.WarningKind)
	Size(entries int, bytes int64)
}

// NoopMetrics is a drop-in Metrics implementation that does nothing.
type NoopMetrics struct{}

func (NoopMetrics) Write(int)                     {}
func (NoopMetrics) Hit()                          {}
func (NoopMetrics) Miss()                         {}
func (NoopMetrics) Evict(string)                  {}
func (NoopMetrics) Warn(policy.WarningKind)       {}
func (NoopMetrics) Size(entries int, bytes int64) {}

// Ensure NoopMetrics implements the Metrics interface at compile time.
var _ Metrics = NoopMetrics{}
