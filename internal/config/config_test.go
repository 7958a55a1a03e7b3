package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir moves into a fresh temp dir so .hdrdoc.yaml and .env lookups are
// isolated.
func chdir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return dir
}

func testFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("hdrdoc", pflag.ContinueOnError)
	fs.Bool("strict", false, "")
	fs.Int("wrap", 80, "")
	fs.String("lang", "c", "")
	fs.BoolP("verbose", "v", false, "")
	fs.Bool("watch", false, "")
	return fs
}

func TestLoadDefaults(t *testing.T) {
	chdir(t)
	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadConfigFile(t *testing.T) {
	dir := chdir(t)
	content := "strict: true\nwrap_width: 72\ncode_language: cpp\ndebounce: 1s\nextensions: [h, .inl]\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".hdrdoc.yaml"), []byte(content), 0o644))

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.True(t, cfg.Strict)
	assert.Equal(t, 72, cfg.WrapWidth)
	assert.Equal(t, "cpp", cfg.CodeLanguage)
	assert.Equal(t, time.Second, cfg.Debounce)
	assert.Equal(t, []string{".h", ".inl"}, cfg.Extensions)
}

func TestLoadExplicitMissingFile(t *testing.T) {
	chdir(t)
	_, err := Load("does-not-exist.yaml", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config")
}

func TestLoadEnvOverrides(t *testing.T) {
	chdir(t)
	t.Setenv("HDRDOC_STRICT", "true")
	t.Setenv("HDRDOC_WRAP_WIDTH", "60")

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.True(t, cfg.Strict)
	assert.Equal(t, 60, cfg.WrapWidth)
}

func TestLoadDotEnv(t *testing.T) {
	dir := chdir(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("HDRDOC_CODE_LANGUAGE=cpp\n"), 0o644))
	t.Cleanup(func() { _ = os.Unsetenv("HDRDOC_CODE_LANGUAGE") })

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, "cpp", cfg.CodeLanguage)
}

func TestLoadMalformedDotEnv(t *testing.T) {
	dir := chdir(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("bad-key=1\n"), 0o644))

	_, err := Load("", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load .env")
}

func TestLoadFlagsWinOnlyWhenSet(t *testing.T) {
	dir := chdir(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".hdrdoc.yaml"), []byte("wrap_width: 72\ncode_language: cpp\n"), 0o644))

	fs := testFlags()
	require.NoError(t, fs.Parse([]string{"--wrap", "100", "--strict"}))

	cfg, err := Load("", fs)
	require.NoError(t, err)
	assert.Equal(t, 100, cfg.WrapWidth)
	assert.True(t, cfg.Strict)
	// --lang was not given, so the file value stands.
	assert.Equal(t, "cpp", cfg.CodeLanguage)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.WrapWidth = -1
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Extensions = nil
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Extensions = []string{"h"}
	require.NoError(t, cfg.Validate())
	assert.Equal(t, []string{".h"}, cfg.Extensions)
}

func TestIsHeader(t *testing.T) {
	cfg := Default()
	assert.True(t, cfg.IsHeader("cmd.h"))
	assert.True(t, cfg.IsHeader("Widget.HPP"))
	assert.False(t, cfg.IsHeader("cmd.cpp"))
	assert.False(t, cfg.IsHeader("README.md"))
}
