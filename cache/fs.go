package cache

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"

	"github.com/IvanBrykalov/diskcache/policy"
)

// tempPrefix marks in-flight writes. Files carrying it are never indexed.
const tempPrefix = ".diskcache-"

// cleanKey normalizes key to a slash-separated path inside the root.
func cleanKey(key string) (string, error) {
	if key == "" || strings.ContainsRune(key, 0) {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	k := filepath.ToSlash(key)
	if path.IsAbs(k) || filepath.IsAbs(key) {
		return "", fmt.Errorf("%w: %q is absolute", ErrInvalidKey, key)
	}
	k = path.Clean(k)
	if k == "." || k == ".." || strings.HasPrefix(k, "../") {
		return "", fmt.Errorf("%w: %q escapes the cache root", ErrInvalidKey, key)
	}
	if strings.HasPrefix(path.Base(k), tempPrefix) {
		return "", fmt.Errorf("%w: %q uses a reserved name", ErrInvalidKey, key)
	}
	return k, nil
}

// fileStat derives the metadata inputs from a file info. LastAccessed is the
// later of atime and mtime so that every write refreshes it.
func fileStat(fi os.FileInfo) policy.FileStat {
	last := fi.ModTime()
	if at, ok := accessTime(fi); ok && at.After(last) {
		last = at
	}
	return policy.FileStat{Size: fi.Size(), LastAccessed: last}
}

// replaceFile writes p to a temp file next to name and renames it into place,
// so a failed write never leaves a truncated value behind.
func replaceFile(fsys billy.Filesystem, name string, p []byte, perm os.FileMode) error {
	tmp, err := fsys.TempFile(filepath.Dir(name), tempPrefix)
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(p); err != nil {
		tmp.Close()
		_ = fsys.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = fsys.Remove(tmpName)
		return err
	}
	if ch, ok := fsys.(billy.Change); ok {
		_ = ch.Chmod(tmpName, perm)
	}
	if err := fsys.Rename(tmpName, name); err != nil {
		_ = fsys.Remove(tmpName)
		return err
	}
	return nil
}

func appendFile(fsys billy.Filesystem, name string, p []byte, perm os.FileMode) error {
	f, err := fsys.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_APPEND, perm)
	if err != nil {
		return err
	}
	if _, err := f.Write(p); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// scanFunc receives each regular file found under the root.
type scanFunc func(key, name string, st policy.FileStat)

// scanFiles walks fsys recursively in lexical order. Directories that cannot
// be read are reported through skip and left out; the walk continues.
// Symlinks to regular files are indexed under the link's name; symlinked
// directories are not descended into.
func scanFiles(fsys billy.Filesystem, visit scanFunc, skip func(name string, err error)) error {
	return util.Walk(fsys, ".", func(name string, fi os.FileInfo, err error) error {
		if err != nil {
			if name == "." && errors.Is(err, os.ErrNotExist) {
				return nil
			}
			skip(name, err)
			return nil
		}
		if strings.HasPrefix(fi.Name(), tempPrefix) {
			return nil
		}
		if fi.Mode()&os.ModeSymlink != 0 {
			target, err := fsys.Stat(name)
			if err != nil {
				skip(name, err)
				return nil
			}
			fi = target
		}
		if !fi.Mode().IsRegular() {
			return nil
		}
		key := path.Clean(filepath.ToSlash(name))
		visit(key, name, fileStat(fi))
		return nil
	})
}
