package config

import (
	"fmt"
	"strings"

	units "github.com/docker/go-units"
)

// ByteSize is a byte count that decodes from plain integers or human sizes
// such as "1GB" or "250MB". Suffixes are decimal: 1GB = 1e9 bytes.
type ByteSize int64

// UnmarshalText accepts "1GB", "512kb", "1000" and similar forms.
func (b *ByteSize) UnmarshalText(text []byte) error {
	n, err := parseByteSize(string(text))
	if err != nil {
		return err
	}
	*b = n
	return nil
}

// Int64 returns the size in bytes.
func (b ByteSize) Int64() int64 { return int64(b) }

// String formats the size for humans, e.g. "1GB".
func (b ByteSize) String() string { return units.HumanSize(float64(b)) }

func parseByteSize(raw string) (ByteSize, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	n, err := units.FromHumanSize(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid byte size %q: %w", raw, err)
	}
	return ByteSize(n), nil
}

// Config is the file/env representation of a cache instance and its logging.
type Config struct {
	Root    string   `mapstructure:"Root"`
	MaxSize ByteSize `mapstructure:"MaxSize"`
	// Shrink selects the shrink policy: "oldest" or "largest".
	Shrink string `mapstructure:"Shrink"`
	// Mode selects "binary" or "text" values.
	Mode string `mapstructure:"Mode"`

	LogLevel      string `mapstructure:"LogLevel"`
	LogFilePath   string `mapstructure:"LogFilePath"`
	LogMaxSize    int    `mapstructure:"LogMaxSize"`
	LogMaxBackups int    `mapstructure:"LogMaxBackups"`
	LogCompress   bool   `mapstructure:"LogCompress"`
}
