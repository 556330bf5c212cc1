package fileops

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ZanzyTHEbar/tidyfs/tfs/filesystem/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func write(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte("data"), 0o644))
}

func TestRenameFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.mp3")
	dst := filepath.Join(dir, "B.mp3")
	write(t, src)

	fo := NewFileOps()
	require.NoError(t, fo.RenameFile(context.Background(), src, dst, false))
	assert.NoFileExists(t, src)
	assert.FileExists(t, dst)

	metrics := fo.GetMetrics()
	assert.Equal(t, int64(1), metrics["successful_ops"])
	assert.Equal(t, int64(0), metrics["dry_run_ops"])
}

func TestRenameFileDryRun(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.mp3")
	write(t, src)

	fo := NewFileOps()
	require.NoError(t, fo.RenameFile(context.Background(), src, filepath.Join(dir, "b.mp3"), true))
	assert.FileExists(t, src)
	assert.Equal(t, int64(1), fo.GetMetrics()["dry_run_ops"])
}

func TestRenameFileRefusesOverwrite(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.mp3")
	dst := filepath.Join(dir, "b.mp3")
	write(t, src)
	write(t, dst)

	fo := NewFileOps()
	err := fo.RenameFile(context.Background(), src, dst, false)
	assert.ErrorIs(t, err, common.ErrDestinationExists)
	assert.FileExists(t, src)
	assert.Equal(t, int64(1), fo.GetMetrics()["failed_ops"])
}

func TestRenameFileErrors(t *testing.T) {
	dir := t.TempDir()
	fo := NewFileOps()

	err := fo.RenameFile(context.Background(), filepath.Join(dir, "missing"), filepath.Join(dir, "x"), false)
	assert.ErrorIs(t, err, os.ErrNotExist)

	err = fo.RenameFile(context.Background(), "", filepath.Join(dir, "x"), false)
	assert.ErrorIs(t, err, common.ErrPathEmpty)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = fo.RenameFile(ctx, filepath.Join(dir, "a"), filepath.Join(dir, "b"), false)
	assert.ErrorIs(t, err, context.Canceled)

	src := filepath.Join(dir, "a.mp3")
	write(t, src)
	boom := errors.New("boom")
	fo.rename = func(string, string) error { return boom }
	err = fo.RenameFile(context.Background(), src, filepath.Join(dir, "b.mp3"), false)
	assert.ErrorIs(t, err, boom)
}
