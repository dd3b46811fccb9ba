package probes

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_MarkReady(t *testing.T) {
	// given
	path := filepath.Join(t.TempDir(), "ready")

	// when
	err := MarkReady(path)

	// then
	require.NoError(t, err)
	assert.FileExists(t, path)
}

func Test_MarkReady_MissingDirectory(t *testing.T) {
	err := MarkReady(filepath.Join(t.TempDir(), "missing", "ready"))
	require.Error(t, err)
}

func Test_Clear(t *testing.T) {
	// given
	dir := t.TempDir()
	ready := filepath.Join(dir, "ready")
	require.NoError(t, MarkReady(ready))

	// when
	Clear(slog.New(slog.NewTextHandler(io.Discard, nil)), ready, filepath.Join(dir, "never-created"))

	// then
	assert.NoFileExists(t, ready)
}

func Test_RunLiveness(t *testing.T) {
	// given
	path := filepath.Join(t.TempDir(), "live")
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)

	// when
	go func() {
		done <- RunLiveness(ctx, path, 10*time.Millisecond, slog.New(slog.NewTextHandler(io.Discard, nil)))
	}()

	// then
	require.Eventually(t, func() bool {
		_, err := os.Stat(path)
		return err == nil
	}, time.Second, 5*time.Millisecond)
	first, err := os.Stat(path)
	require.NoError(t, err)
	require.Eventually(t, func() bool {
		info, err := os.Stat(path)
		return err == nil && info.ModTime().After(first.ModTime())
	}, time.Second, 5*time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}
