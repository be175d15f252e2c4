package config

import (
	"errors"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/IvanBrykalov/diskcache/cache"
)

var supportedShrink = map[string]struct{}{
	"oldest":  {},
	"largest": {},
}

// Validate rejects configurations a cache cannot be built from.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if strings.TrimSpace(c.Root) == "" {
		return newFieldError("Root", "must not be empty")
	}
	if c.MaxSize <= 0 {
		return newFieldError("MaxSize", "must be greater than 0")
	}
	if _, ok := supportedShrink[c.Shrink]; !ok {
		return newFieldError("Shrink", "must be one of oldest|largest")
	}
	if _, err := cache.ParseMode(c.Mode); err != nil {
		return newFieldError("Mode", "must be binary or text")
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return newFieldError("LogLevel", err.Error())
	}
	if c.LogMaxSize < 0 {
		return newFieldError("LogMaxSize", "must not be negative")
	}
	if c.LogMaxBackups < 0 {
		return newFieldError("LogMaxBackups", "must not be negative")
	}
	return nil
}
