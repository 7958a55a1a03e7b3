package main

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentflare-ai/hdrdoc/internal/config"
)

func TestWatchRegeneratesOnChange(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "api.h")
	output := filepath.Join(dir, "out", "api.md")
	require.NoError(t, os.WriteFile(input, []byte("/// @brief First.\nint first;\n"), 0o644))

	cfg := config.Default()
	cfg.Watch = true
	cfg.Debounce = 20 * time.Millisecond
	app := &cliApp{stdout: io.Discard, stderr: io.Discard, cfg: cfg, log: newLogger(io.Discard, true)}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.execute(ctx, input, output) }()

	readOutput := func() string {
		data, err := os.ReadFile(output)
		if err != nil {
			return ""
		}
		return string(data)
	}
	require.Eventually(t, func() bool {
		return assert.ObjectsAreEqual("****\n```c\nint first\n```\n\nFirst.\n\n\n", readOutput())
	}, 5*time.Second, 10*time.Millisecond)

	require.NoError(t, os.WriteFile(input, []byte("/// @brief Second.\nint second;\n"), 0o644))
	require.Eventually(t, func() bool {
		return assert.ObjectsAreEqual("****\n```c\nint second\n```\n\nSecond.\n\n\n", readOutput())
	}, 5*time.Second, 10*time.Millisecond)

	// A malformed save is logged and the previous output is kept.
	require.NoError(t, os.WriteFile(input, []byte("/// @param orphan\n"), 0o644))
	time.Sleep(100 * time.Millisecond)
	assert.Contains(t, readOutput(), "int second")

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop after cancel")
	}
}

func TestWatchMissingInput(t *testing.T) {
	cfg := config.Default()
	cfg.Watch = true
	app := &cliApp{stdout: io.Discard, stderr: io.Discard, cfg: cfg, log: newLogger(io.Discard, false)}
	err := app.execute(context.Background(), filepath.Join(t.TempDir(), "missing.h"), "-")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing.h")
}

func TestWatchDirsSkipsHidden(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "sub", "deep"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, ".git", "objects"), 0o755))

	dirs, err := watchDirs(root)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{root, filepath.Join(root, "sub"), filepath.Join(root, "sub", "deep")}, dirs)
}
