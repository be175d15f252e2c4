package policy

import "fmt"

// WarningKind classifies a non-fatal condition.
type WarningKind int

const (
	// AlreadyRemoved: an entry's backing file was gone when it was removed.
	AlreadyRemoved WarningKind = iota
	// ShrinkExhausted: fewer than two candidates remain while still oversized.
	ShrinkExhausted
	// EvictFailed: a candidate could not be removed during a shrink pass.
	EvictFailed
	// ScanSkipped: a file found while scanning could not be indexed.
	ScanSkipped
)

// String returns a stable label for the kind.
func (k WarningKind) String() string {
	switch k {
	case AlreadyRemoved:
		return "already_removed"
	case ShrinkExhausted:
		return "shrink_exhausted"
	case EvictFailed:
		return "evict_failed"
	case ScanSkipped:
		return "scan_skipped"
	default:
		return "unknown"
	}
}

// Warning is a non-fatal condition. It is never returned as an error.
type Warning struct {
	Kind WarningKind
	Key  string
	Err  error
}

func (w Warning) Error() string {
	if w.Key == "" {
		return fmt.Sprintf("%s: %v", w.Kind, w.Err)
	}
	return fmt.Sprintf("%s %q: %v", w.Kind, w.Key, w.Err)
}

// Unwrap exposes the underlying cause for errors.Is.
func (w Warning) Unwrap() error { return w.Err }
