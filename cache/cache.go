package cache

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/sirupsen/logrus"

	"github.com/IvanBrykalov/diskcache/policy"
)

const (
	defaultDirPerm  os.FileMode = 0o755
	defaultFilePerm os.FileMode = 0o644
)

// cache is a disk-backed KV store composed of one size and one shrink policy.
// It is not safe for concurrent use.
type cache struct {
	fs  billy.Filesystem
	idx *index
	opt Options
	log logrus.FieldLogger

	// updaters run in order after every write and for every scanned file.
	updaters []policy.MetadataUpdater

	// appending switches Write from replace to append; toggled by WithAppend.
	appending bool
}

// New constructs a cache and indexes the files already present under the root.
// It fails with ErrNoPolicy if either policy is missing, and with
// ErrMissingField if the shrink policy depends on a field no updater provides.
func New(opt Options) (Cache, error) {
	if opt.Size == nil || opt.Shrink == nil {
		return nil, ErrNoPolicy
	}
	if opt.DirPerm == 0 {
		opt.DirPerm = defaultDirPerm
	}
	if opt.FilePerm == 0 {
		opt.FilePerm = defaultFilePerm
	}
	if opt.Metrics == nil {
		opt.Metrics = NoopMetrics{}
	}
	if opt.Logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		opt.Logger = l
	}

	fsys := opt.FS
	if fsys == nil {
		if opt.Root == "" {
			return nil, errors.New("cache: root directory is empty")
		}
		abs, err := filepath.Abs(opt.Root)
		if err != nil {
			return nil, fmt.Errorf("resolve cache root: %w", err)
		}
		if err := os.MkdirAll(abs, opt.DirPerm); err != nil {
			return nil, fmt.Errorf("create cache root: %w", err)
		}
		fsys = osfs.New(abs)
	}

	// Size policy first: shrink policies may depend on the fields it owns.
	updaters := []policy.MetadataUpdater{opt.Size}
	if u, ok := opt.Shrink.(policy.MetadataUpdater); ok {
		updaters = append(updaters, u)
	}
	updaters = append(updaters, opt.Updaters...)

	provided := make(map[string]bool)
	for _, u := range updaters {
		for _, f := range u.Fields() {
			provided[f] = true
		}
	}
	for _, f := range opt.Shrink.Requires() {
		if !provided[f] {
			return nil, fmt.Errorf("%w: %s policy requires %q", ErrMissingField, opt.Shrink.Name(), f)
		}
	}

	c := &cache{
		fs:       fsys,
		idx:      newIndex(),
		opt:      opt,
		log:      opt.Logger.WithField("root", fsys.Root()),
		updaters: updaters,
	}
	if err := c.scan(); err != nil {
		return nil, err
	}
	c.log.WithFields(logrus.Fields{
		"action":  "open",
		"entries": c.idx.Len(),
		"size":    opt.Size.Name(),
		"shrink":  opt.Shrink.Name(),
		"mode":    opt.Mode.String(),
	}).Debug("cache opened")
	return c, nil
}

// ---- Cache implementation ----

func (c *cache) Contains(key string) bool {
	k, err := cleanKey(key)
	if err != nil {
		return false
	}
	_, ok := c.idx.items[k]
	return ok
}

// Write follows a strict order: the data is durable on disk, then the entry
// and its metadata are updated, and only then is the size policy consulted.
// A failed write never reaches the size check.
func (c *cache) Write(key string, p []byte) error {
	k, err := cleanKey(key)
	if err != nil {
		return err
	}
	if c.opt.Mode == ModeText && !utf8.Valid(p) {
		return fmt.Errorf("%w: %q", ErrInvalidText, k)
	}

	name := filepath.FromSlash(k)
	if err := c.fs.MkdirAll(filepath.Dir(name), c.opt.DirPerm); err != nil {
		return ioErr("mkdir", k, err)
	}
	if c.appending {
		err = appendFile(c.fs, name, p, c.opt.FilePerm)
	} else {
		err = replaceFile(c.fs, name, p, c.opt.FilePerm)
	}
	if err != nil {
		return ioErr("write", k, err)
	}
	fi, err := c.fs.Stat(name)
	if err != nil {
		return ioErr("stat", k, err)
	}

	md := policy.Metadata{}
	if prev, ok := c.idx.get(k); ok {
		md = prev.Metadata.Clone()
	}
	c.updateMetadata(md, fileStat(fi))
	c.idx.upsert(policy.Entry{Key: k, Path: name, Metadata: md})

	c.opt.Metrics.Write(len(p))
	c.log.WithFields(logrus.Fields{
		"action": "write",
		"key":    k,
		"bytes":  len(p),
		"append": c.appending,
	}).Debug("cache write")

	if c.opt.Size.Oversized(c.idx) {
		c.shrink(k)
	}
	c.reportSize()
	return nil
}

func (c *cache) Append(key string, p []byte) error {
	return c.WithAppend(func() error { return c.Write(key, p) })
}

func (c *cache) WithAppend(fn func() error) error {
	prev := c.appending
	c.appending = true
	defer func() { c.appending = prev }()
	return fn()
}

func (c *cache) Read(key string, fn func(io.Reader) error) (err error) {
	rc, err := c.Open(key)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := rc.Close(); cerr != nil && err == nil {
			err = ioErr("close", key, cerr)
		}
	}()
	return fn(rc)
}

func (c *cache) Open(key string) (io.ReadCloser, error) {
	k, err := cleanKey(key)
	if err != nil {
		c.opt.Metrics.Miss()
		return nil, fmt.Errorf("%w: %q", ErrNotFound, key)
	}
	e, ok := c.idx.get(k)
	if !ok {
		c.opt.Metrics.Miss()
		return nil, fmt.Errorf("%w: %q", ErrNotFound, k)
	}
	f, err := c.fs.Open(e.Path)
	if err != nil {
		c.opt.Metrics.Miss()
		return nil, ioErr("open", k, err)
	}
	c.opt.Metrics.Hit()
	return f, nil
}

func (c *cache) Remove(key string) error {
	k, err := cleanKey(key)
	if err != nil {
		return nil // an invalid key is never indexed
	}
	_, _, err = c.removeEntry(k)
	c.reportSize()
	if errors.Is(err, policy.ErrAlreadyRemoved) {
		return nil
	}
	return err
}

func (c *cache) Reset() error {
	c.idx = newIndex()
	if err := c.scan(); err != nil {
		return err
	}
	c.log.WithFields(logrus.Fields{"action": "reset", "entries": c.idx.Len()}).Debug("cache reset")
	return nil
}

func (c *cache) Shrink() {
	if c.opt.Size.Oversized(c.idx) {
		c.shrink("")
	}
	c.reportSize()
}

func (c *cache) Len() int { return c.idx.Len() }

func (c *cache) Keys() []string { return c.idx.keys() }

func (c *cache) Entry(key string) (Entry, bool) {
	k, err := cleanKey(key)
	if err != nil {
		return Entry{}, false
	}
	e, ok := c.idx.get(k)
	if !ok {
		return Entry{}, false
	}
	e.Metadata = e.Metadata.Clone()
	return e, true
}

func (c *cache) Size() int64 { return policy.TotalSize(c.idx) }

func (c *cache) Root() string { return c.fs.Root() }

// ---- helpers ----

func (c *cache) updateMetadata(md policy.Metadata, st policy.FileStat) {
	for _, u := range c.updaters {
		u.UpdateMetadata(md, st)
	}
}

// scan indexes every regular file under the root. Metadata is complete
// before an entry is inserted.
func (c *cache) scan() error {
	err := scanFiles(c.fs,
		func(key, name string, st policy.FileStat) {
			md := policy.Metadata{}
			c.updateMetadata(md, st)
			c.idx.upsert(policy.Entry{Key: key, Path: name, Metadata: md})
		},
		func(name string, err error) {
			c.warn(policy.Warning{Kind: policy.ScanSkipped, Key: filepath.ToSlash(name), Err: err})
		})
	if err != nil {
		return ioErr("scan", ".", err)
	}
	c.reportSize()
	return nil
}

// removeEntry drops key from the index first, then unlinks its file.
// A file that is already gone yields a warning and ErrAlreadyRemoved.
func (c *cache) removeEntry(k string) (policy.Entry, bool, error) {
	e, ok := c.idx.remove(k)
	if !ok {
		return policy.Entry{}, false, nil
	}
	c.log.WithFields(logrus.Fields{"action": "remove", "key": k}).Debug("cache remove")
	if err := c.fs.Remove(e.Path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			c.warn(policy.Warning{Kind: policy.AlreadyRemoved, Key: k, Err: policy.ErrAlreadyRemoved})
			return e, true, policy.ErrAlreadyRemoved
		}
		return e, true, ioErr("remove", k, err)
	}
	return e, true, nil
}

func (c *cache) shrink(exclude string) {
	c.log.WithFields(logrus.Fields{
		"action":  "shrink",
		"policy":  c.opt.Shrink.Name(),
		"exclude": exclude,
		"entries": c.idx.Len(),
	}).Debug("cache oversized, shrinking")
	c.opt.Shrink.Shrink(c.idx, shrinkHooks{c: c}, exclude)
}

func (c *cache) warn(w policy.Warning) {
	c.opt.Metrics.Warn(w.Kind)
	c.log.WithFields(logrus.Fields{
		"action": "warning",
		"kind":   w.Kind.String(),
		"key":    w.Key,
	}).Warn(w.Err)
	if cb := c.opt.OnWarning; cb != nil {
		cb(w)
	}
}

func (c *cache) reportSize() {
	c.opt.Metrics.Size(c.idx.Len(), policy.TotalSize(c.idx))
}

// -------------------- policy hooks --------------------

// shrinkHooks adapts the cache to policy.Hooks for one shrink pass.
type shrinkHooks struct{ c *cache }

func (h shrinkHooks) Oversized() bool { return h.c.opt.Size.Oversized(h.c.idx) }

func (h shrinkHooks) Evict(key string) error {
	e, removed, err := h.c.removeEntry(key)
	if removed {
		h.c.opt.Metrics.Evict(h.c.opt.Shrink.Name())
		if cb := h.c.opt.OnEvict; cb != nil {
			cb(e.Key, e.Metadata)
		}
	}
	return err
}

func (h shrinkHooks) Warn(w policy.Warning) { h.c.warn(w) }

var _ policy.Hooks = shrinkHooks{}
