package config

import (
	"fmt"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. DISKCACHE_MAXSIZE=2GB.
const EnvPrefix = "DISKCACHE"

// Load reads the config file at path (TOML, YAML or JSON by extension),
// applies DISKCACHE_* environment overrides and defaults, and validates the
// result. An empty path loads defaults and environment only.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, viper.DecodeHook(byteSizeDecodeHook())); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	applyDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	abs, err := filepath.Abs(cfg.Root)
	if err != nil {
		return nil, fmt.Errorf("resolve cache root: %w", err)
	}
	cfg.Root = abs
	return &cfg, nil
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	var cfg Config
	applyDefaults(&cfg)
	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("Root", "./cache")
	v.SetDefault("MaxSize", "1GB")
	v.SetDefault("Shrink", "oldest")
	v.SetDefault("Mode", "binary")
	v.SetDefault("LogLevel", "info")
	v.SetDefault("LogFilePath", "")
	v.SetDefault("LogMaxSize", 100)
	v.SetDefault("LogMaxBackups", 10)
	v.SetDefault("LogCompress", true)
}

func applyDefaults(c *Config) {
	if strings.TrimSpace(c.Root) == "" {
		c.Root = "./cache"
	}
	if c.MaxSize == 0 {
		c.MaxSize = ByteSize(1_000_000_000)
	}
	c.Shrink = strings.ToLower(strings.TrimSpace(c.Shrink))
	if c.Shrink == "" {
		c.Shrink = "oldest"
	}
	c.Mode = strings.ToLower(strings.TrimSpace(c.Mode))
	if c.Mode == "" {
		c.Mode = "binary"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

// byteSizeDecodeHook lets MaxSize be written as 1000000000, 1e9 or "1GB".
func byteSizeDecodeHook() mapstructure.DecodeHookFunc {
	targetType := reflect.TypeOf(ByteSize(0))

	return func(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
		if to != targetType {
			return data, nil
		}

		switch v := data.(type) {
		case string:
			return parseByteSize(v)
		case int:
			return ByteSize(v), nil
		case int64:
			return ByteSize(v), nil
		case float64:
			return ByteSize(v), nil
		case ByteSize:
			return v, nil
		default:
			return nil, fmt.Errorf("unsupported byte size type: %T", v)
		}
	}
}
