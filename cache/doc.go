// Package cache provides a disk-backed key/value store that evicts entries
// to keep on-disk usage under a configured bound.
//
// # Design
//
//   - Storage: each key is a slash-separated path relative to the cache root
//     and maps to exactly one file. Nested keys create directories. No sidecar
//     metadata is written; everything is derived from stat at scan or write time.
//
//   - Index: an insertion-ordered in-memory mapping of key -> Entry, built by
//     walking the root at construction and rebuilt by Reset.
//
//   - Policies: a cache is composed of one policy.SizePolicy and one
//     policy.ShrinkPolicy chosen independently (see the policy sub-packages).
//     Metadata updaters run before every size check, so a shrink policy never
//     sees a half-populated entry.
//
//   - Writes: data is written through a temp file and renamed into place
//     (append mode opens the file directly). Only after the write succeeds is
//     the entry updated and the size policy consulted; if oversized, the shrink
//     policy runs with the written key excluded.
//
//   - Warnings: non-fatal conditions (file already removed, cache cannot shrink
//     further) are never returned as errors. They go to Options.OnWarning, the
//     logger and Metrics.Warn.
//
//   - Filesystem: github.com/go-git/go-billy/v5. By default an osfs rooted at
//     Options.Root; any billy.Filesystem can be supplied instead.
//
// # Basic usage
//
//	c, err := cache.New(cache.Options{
//	    Root:   "/var/cache/app",
//	    Size:   overall.New(100 << 20), // 100 MB
//	    Shrink: oldest.New(),
//	})
//	if err != nil {
//	    return err
//	}
//	_ = c.Write("images/logo.png", data)
//	err = c.Read("images/logo.png", func(r io.Reader) error {
//	    _, err := io.Copy(w, r)
//	    return err
//	})
//
// # Appending
//
//	err = c.WithAppend(func() error {
//	    if err := c.Write("log/today", line1); err != nil {
//	        return err
//	    }
//	    return c.Write("log/today", line2)
//	})
//
// # Thread-safety
//
// A cache is single-owner state and is not safe for concurrent use. There is
// no background eviction: every shrink runs inline with the write that
// triggered it.
package cache
