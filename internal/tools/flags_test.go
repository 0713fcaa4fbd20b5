package tools

import (
	"io"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// parse runs the CLI over args and returns the configuration handed to the
// benchmark, or nil if it never got that far.
func parse(t *testing.T, args ...string) (*Config, error) {
	t.Helper()
	var got *Config
	app := NewApp(func(cfg *Config) error {
		got = cfg
		return nil
	})
	app.Writer = io.Discard
	app.ErrWriter = io.Discard
	err := app.Run(ExpandShortOptions(append([]string{"xattrtest"}, args...)))
	return got, err
}

func TestParseDefaults(t *testing.T) {
	cfg, err := parse(t)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, 0, cfg.Verbose)
	assert.Equal(t, 1000, cfg.Files)
	assert.Equal(t, 1, cfg.Xattrs)
	assert.Equal(t, 1, cfg.Size)
	assert.Equal(t, DefaultPath, cfg.Path)
	assert.Equal(t, DefaultScript, cfg.Script)
	assert.Equal(t, StoreFS, cfg.Store)
	assert.NotZero(t, cfg.Seed)
	assert.False(t, cfg.Verify || cfg.Keep || cfg.RandomSize || cfg.RandomValue)
}

func TestParseLongOptions(t *testing.T) {
	cfg, err := parse(t,
		"--verbose", "--verify", "--nth", "5", "--files", "10", "--xattrs", "2",
		"--size", "32", "--path", "/mnt/test", "--synccaches", "--dropcaches",
		"--script", "/usr/local/bin/hook", "--seed", "7", "--random", "--keep",
		"--store", "s3")
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, &Config{
		Verbose:    1,
		Verify:     true,
		Nth:        5,
		Files:      10,
		Xattrs:     2,
		Size:       32,
		Path:       "/mnt/test",
		SyncCaches: true,
		DropCaches: true,
		Script:     "/usr/local/bin/hook",
		Seed:       7,
		RandomSize: true,
		Keep:       true,
		Store:      StoreS3,
	}, cfg)
}

func TestParseShortOptions(t *testing.T) {
	cfg, err := parse(t, "-vvk", "-R", "-f", "0x10", "-x", "010", "-s", "64", "-e", "3")
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, 2, cfg.Verbose)
	assert.True(t, cfg.Keep)
	assert.True(t, cfg.RandomValue)
	assert.Equal(t, 16, cfg.Files)
	assert.Equal(t, 8, cfg.Xattrs)
	assert.Equal(t, 64, cfg.Size)
	assert.Equal(t, int64(3), cfg.Seed)
}

func TestParseRejectsBeforeRunning(t *testing.T) {
	for _, args := range [][]string{
		{"-y", "-R"},
		{"-R", "-y"},
		{"--size", "65537"},
		{"--files", "ten"},
		{"--seed", "soon"},
		{"--store", "tape"},
	} {
		cfg, err := parse(t, args...)
		var cfgErr *ConfigError
		assert.ErrorAs(t, err, &cfgErr, "args %v", args)
		assert.Nil(t, cfg, "args %v", args)
		assert.Equal(t, 1, ExitCode(err))
	}
}

func TestParseUnknownOption(t *testing.T) {
	cfg, err := parse(t, "--bogus")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.NotZero(t, ExitCode(err))
}

func TestParseHelp(t *testing.T) {
	cfg, err := parse(t, "--help")
	assert.NoError(t, err)
	assert.Nil(t, cfg)
}

func TestParseTruncatesPath(t *testing.T) {
	long := "/" + strings.Repeat("d", PathMax+10)
	cfg, err := parse(t, "--path", long)
	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.Len(t, cfg.Path, PathMax-1)
}

func TestParseVerbosity(t *testing.T) {
	cases := []struct {
		args []string
		want int
	}{
		{nil, 0},
		{[]string{"-v"}, 1},
		{[]string{"-vv"}, 2},
		{[]string{"-v", "--verbose", "-v"}, 3},
	}
	for _, c := range cases {
		cfg, err := parse(t, c.args...)
		require.NoError(t, err)
		require.NotNil(t, cfg)
		assert.Equal(t, c.want, cfg.Verbose, "args %v", c.args)
	}
}

func TestParseAttachedValues(t *testing.T) {
	cfg, err := parse(t, "-f10", "-vks32", "-x0x3", "-p/mnt/xattr", "-e7")
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, 10, cfg.Files)
	assert.Equal(t, 1, cfg.Verbose)
	assert.True(t, cfg.Keep)
	assert.Equal(t, 32, cfg.Size)
	assert.Equal(t, 3, cfg.Xattrs)
	assert.Equal(t, "/mnt/xattr", cfg.Path)
	assert.Equal(t, int64(7), cfg.Seed)
}

func TestExpandShortOptions(t *testing.T) {
	cases := []struct {
		in, want []string
	}{
		{[]string{"x", "-f10"}, []string{"x", "-f", "10"}},
		{[]string{"x", "-vys32"}, []string{"x", "-vy", "-s", "32"}},
		{[]string{"x", "-vy", "-s", "32"}, []string{"x", "-vy", "-s", "32"}},
		{[]string{"x", "-p", "-f10"}, []string{"x", "-p", "-f10"}},
		{[]string{"x", "--path", "-f10"}, []string{"x", "--path", "-f10"}},
		{[]string{"x", "--path=/a", "-f10"}, []string{"x", "--path=/a", "-f", "10"}},
		{[]string{"x", "--", "-f10"}, []string{"x", "--", "-f10"}},
		{[]string{"-f10"}, []string{"-f10"}},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, ExpandShortOptions(c.in), "args %v", c.in)
	}
}

func TestHelpGoesToStderr(t *testing.T) {
	app := NewApp(func(*Config) error { return nil })
	assert.Equal(t, os.Stderr, app.Writer)
}
