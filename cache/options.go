package cache

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/sirupsen/logrus"

	"github.com/IvanBrykalov/diskcache/policy"
)

// Mode selects how values are treated on write.
type Mode int

const (
	// ModeBinary stores bytes verbatim.
	ModeBinary Mode = iota
	// ModeText rejects values that are not valid UTF-8.
	ModeText
)

func (m Mode) String() string {
	if m == ModeText {
		return "text"
	}
	return "binary"
}

// ParseMode maps "binary"/"b" and "text"/"t" to a Mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "b", "binary":
		return ModeBinary, nil
	case "t", "text":
		return ModeText, nil
	default:
		return ModeBinary, fmt.Errorf("unknown mode %q (use binary or text)", s)
	}
}

// Options configures the cache. Size and Shrink are required; the other
// zero values are safe and defaults are applied in New():
//   - nil FS       => osfs rooted at Root (Root is created if missing)
//   - zero perms   => 0o755 for directories, 0o644 for files
//   - nil Logger   => logrus logger discarding output
//   - nil Metrics  => NoopMetrics
type Options struct {
	// Root is the cache directory. Required unless FS is set.
	Root string
	// FS is the backing filesystem; keys resolve relative to its root.
	FS billy.Filesystem

	// Size decides when the cache is oversized.
	Size policy.SizePolicy
	// Shrink decides what to evict and in what order.
	Shrink policy.ShrinkPolicy
	// Updaters run after the policies' own metadata updaters, in order.
	Updaters []policy.MetadataUpdater

	Mode     Mode
	DirPerm  os.FileMode
	FilePerm os.FileMode

	// Observability
	Logger  logrus.FieldLogger
	Metrics Metrics
	// OnWarning receives every non-fatal condition (already removed, shrink exhausted, ...).
	OnWarning func(policy.Warning)
	// OnEvict is called for each entry removed by a shrink pass.
	OnEvict func(key string, md policy.Metadata)
}
