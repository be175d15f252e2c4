package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IvanBrykalov/diskcache/cache"
)

func writeConfig(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Parallel()

	cfg, err := Load("")
	require.NoError(t, err)

	assert.True(t, filepath.IsAbs(cfg.Root))
	assert.Equal(t, "cache", filepath.Base(cfg.Root))
	assert.EqualValues(t, 1_000_000_000, cfg.MaxSize)
	assert.Equal(t, "oldest", cfg.Shrink)
	assert.Equal(t, "binary", cfg.Mode)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 100, cfg.LogMaxSize)
	assert.True(t, cfg.LogCompress)
}

func TestLoad_YAML(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	path := writeConfig(t, "diskcache.yaml", `
Root: `+root+`
MaxSize: 250MB
Shrink: Largest
Mode: text
LogLevel: debug
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, root, cfg.Root)
	assert.EqualValues(t, 250_000_000, cfg.MaxSize)
	assert.Equal(t, "largest", cfg.Shrink)
	assert.Equal(t, "text", cfg.Mode)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_TOMLNumericSize(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, "diskcache.toml", `
MaxSize = 4096
Shrink = "oldest"
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.EqualValues(t, 4096, cfg.MaxSize)
}

// Environment overrides file values.
func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("DISKCACHE_MAXSIZE", "2GB")
	t.Setenv("DISKCACHE_SHRINK", "largest")

	path := writeConfig(t, "diskcache.yaml", "MaxSize: 1MB\nShrink: oldest\n")
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.EqualValues(t, 2_000_000_000, cfg.MaxSize)
	assert.Equal(t, "largest", cfg.Shrink)
}

func TestLoad_Invalid(t *testing.T) {
	t.Parallel()

	cases := map[string]struct {
		body  string
		field string
	}{
		"shrink":    {body: "Shrink: random\n", field: "Shrink"},
		"mode":      {body: "Mode: hex\n", field: "Mode"},
		"log level": {body: "LogLevel: loud\n", field: "LogLevel"},
		"max size":  {body: "LogMaxSize: -1\n", field: "LogMaxSize"},
		"backups":   {body: "LogMaxBackups: -1\n", field: "LogMaxBackups"},
	}
	for name, tc := range cases {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			_, err := Load(writeConfig(t, "c.yaml", tc.body))
			var fe FieldError
			require.True(t, errors.As(err, &fe), "want FieldError, got %v", err)
			assert.Equal(t, tc.field, fe.Field)
		})
	}

	_, err := Load(writeConfig(t, "c.yaml", "MaxSize: lots\n"))
	require.Error(t, err)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestByteSize_UnmarshalText(t *testing.T) {
	t.Parallel()

	cases := map[string]int64{
		"1000":  1000,
		"512kb": 512_000,
		"250MB": 250_000_000,
		"1GB":   1_000_000_000,
		"1.5GB": 1_500_000_000,
		"":      0,
	}
	for in, want := range cases {
		var b ByteSize
		require.NoError(t, b.UnmarshalText([]byte(in)), in)
		assert.Equal(t, want, b.Int64(), in)
	}

	var b ByteSize
	assert.Error(t, b.UnmarshalText([]byte("ten")))
	assert.Equal(t, "1GB", ByteSize(1_000_000_000).String())
}

func TestValidate(t *testing.T) {
	t.Parallel()

	cfg := Default()
	require.NoError(t, cfg.Validate())

	cfg.MaxSize = 0
	var fe FieldError
	require.ErrorAs(t, cfg.Validate(), &fe)
	assert.Equal(t, "MaxSize", fe.Field)

	var nilCfg *Config
	assert.Error(t, nilCfg.Validate())
}

// CacheOptions yields options a cache can be opened with.
func TestCacheOptions(t *testing.T) {
	t.Parallel()

	cfg := Default()
	cfg.Root = t.TempDir()
	cfg.Shrink = "largest"
	cfg.Mode = "text"

	opt, err := cfg.CacheOptions(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "largest", opt.Shrink.Name())
	assert.Equal(t, cache.ModeText, opt.Mode)

	c, err := cache.New(opt)
	require.NoError(t, err)
	assert.Equal(t, cfg.Root, c.Root())

	_, err = ShrinkPolicy("lru")
	assert.Error(t, err)
}
