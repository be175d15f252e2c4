package cache

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when reading a key that is not indexed.
	ErrNotFound = errors.New("cache: key not found")
	// ErrIO wraps failures of the underlying filesystem.
	ErrIO = errors.New("cache: i/o error")
	// ErrInvalidKey is returned for keys that are empty, absolute or escape the root.
	ErrInvalidKey = errors.New("cache: invalid key")
	// ErrInvalidText is returned when a text-mode cache is given non UTF-8 data.
	ErrInvalidText = errors.New("cache: value is not valid UTF-8 text")
	// ErrNoPolicy is returned by New when a size or shrink policy is missing.
	ErrNoPolicy = errors.New("cache: size and shrink policies are required")
	// ErrMissingField is returned by New when no metadata updater provides a
	// field the shrink policy requires.
	ErrMissingField = errors.New("cache: required metadata field not provided")
)

func ioErr(op, key string, err error) error {
	return fmt.Errorf("%w: %s %q: %w", ErrIO, op, key, err)
}
