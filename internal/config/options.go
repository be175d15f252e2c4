package config

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/IvanBrykalov/diskcache/cache"
	"github.com/IvanBrykalov/diskcache/policy"
	"github.com/IvanBrykalov/diskcache/policy/largest"
	"github.com/IvanBrykalov/diskcache/policy/oldest"
	"github.com/IvanBrykalov/diskcache/policy/overall"
)

// ShrinkPolicy maps a policy name to its implementation.
func ShrinkPolicy(name string) (policy.ShrinkPolicy, error) {
	switch name {
	case "oldest":
		return oldest.New(), nil
	case "largest":
		return largest.New(), nil
	default:
		return nil, fmt.Errorf("unknown shrink policy %q (use oldest or largest)", name)
	}
}

// CacheOptions builds cache.Options for the configured total-size bound and
// shrink policy. metrics may be nil.
func (c *Config) CacheOptions(logger logrus.FieldLogger, metrics cache.Metrics) (cache.Options, error) {
	shrink, err := ShrinkPolicy(c.Shrink)
	if err != nil {
		return cache.Options{}, err
	}
	mode, err := cache.ParseMode(c.Mode)
	if err != nil {
		return cache.Options{}, err
	}
	return cache.Options{
		Root:    c.Root,
		Size:    overall.New(c.MaxSize.Int64()),
		Shrink:  shrink,
		Mode:    mode,
		Logger:  logger,
		Metrics: metrics,
	}, nil
}
