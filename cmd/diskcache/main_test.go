package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCLIFlags(t *testing.T) {
	t.Parallel()

	opts, err := parseCLIFlags([]string{"-root", "/tmp/c", "-max", "1MB", "put", "a/b"})
	require.NoError(t, err)
	assert.Equal(t, "put", opts.command)
	assert.Equal(t, "a/b", opts.key)
	assert.True(t, opts.set["root"])
	assert.True(t, opts.set["max"])
	assert.False(t, opts.set["shrink"])

	for _, args := range [][]string{
		nil,
		{"put"},
		{"ls", "extra"},
		{"frobnicate"},
		{"-nope", "ls"},
	} {
		_, err := parseCLIFlags(args)
		assert.Error(t, err, "args %v", args)
	}
}

// cliRun drives the command end to end with captured stdio. Tests using it
// swap package-level writers and must not run in parallel.
func cliRun(t *testing.T, stdin string, args ...string) (int, string, string) {
	t.Helper()
	var out, errOut bytes.Buffer
	stdIn, stdOut, stdErr = strings.NewReader(stdin), &out, &errOut

	opts, err := parseCLIFlags(args)
	require.NoError(t, err)
	return run(opts), out.String(), errOut.String()
}

func TestRun_PutGetRemove(t *testing.T) {
	root := filepath.Join(t.TempDir(), "cache")
	base := []string{"-root", root, "-max", "1KB", "-log-level", "error"}

	code, _, _ := cliRun(t, "hello", append(base, "put", "greeting")...)
	require.Equal(t, 0, code)

	code, _, _ = cliRun(t, " world", append(base, "append", "greeting")...)
	require.Equal(t, 0, code)

	code, out, _ := cliRun(t, "", append(base, "get", "greeting")...)
	require.Equal(t, 0, code)
	assert.Equal(t, "hello world", out)

	code, out, _ = cliRun(t, "", append(base, "ls")...)
	require.Equal(t, 0, code)
	assert.Equal(t, "11\tgreeting\n", out)

	code, out, _ = cliRun(t, "", append(base, "stat")...)
	require.Equal(t, 0, code)
	assert.Contains(t, out, "entries\t1\n")

	code, _, _ = cliRun(t, "", append(base, "rm", "greeting")...)
	require.Equal(t, 0, code)

	code, _, errOut := cliRun(t, "", append(base, "get", "greeting")...)
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "key not found")
}

func TestRun_InvalidConfig(t *testing.T) {
	code, _, errOut := cliRun(t, "", "-root", t.TempDir(), "-shrink", "random", "ls")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "Shrink")
}
