package svt

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collectWatched(t *testing.T, events <-chan string, n int, timeout time.Duration) []string {
	t.Helper()
	var got []string
	deadline := time.After(timeout)
	for len(got) < n {
		select {
		case path, ok := <-events:
			if !ok {
				t.Fatalf("watch channel closed after %d of %d events", len(got), n)
			}
			got = append(got, path)
		case <-deadline:
			t.Fatalf("timed out after %d of %d events", len(got), n)
		}
	}
	return got
}

func TestWatchFrames_EmitsSettledFiles(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, err := WatchFrames(ctx, dir, WatchConfig{Settle: 50 * time.Millisecond})
	require.NoError(t, err)

	writeFrameFile(t, dir, "1.vtk", 1)
	got := collectWatched(t, events, 1, 5*time.Second)
	assert.Equal(t, filepath.Join(dir, "1.vtk"), got[0])
}

func TestWatchFrames_EmitsEachFileOnce(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, err := WatchFrames(ctx, dir, WatchConfig{Settle: 50 * time.Millisecond})
	require.NoError(t, err)

	// Rewrite the same file a few times, then add a second one.
	writeFrameFile(t, dir, "1.vtk", 1)
	writeFrameFile(t, dir, "1.vtk", 2)
	writeFrameFile(t, dir, "1.vtk", 3)
	got := collectWatched(t, events, 1, 5*time.Second)

	writeFrameFile(t, dir, "2.vtk", 2)
	got = append(got, collectWatched(t, events, 1, 5*time.Second)...)

	assert.Equal(t, []string{filepath.Join(dir, "1.vtk"), filepath.Join(dir, "2.vtk")}, got)

	select {
	case extra := <-events:
		t.Fatalf("unexpected extra event %q", extra)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWatchFrames_IgnoresOtherExtensions(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, err := WatchFrames(ctx, dir, WatchConfig{Settle: 50 * time.Millisecond})
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "solver.log"), []byte("x"), 0o644))
	writeFrameFile(t, dir, "1.vtk", 1)

	got := collectWatched(t, events, 1, 5*time.Second)
	assert.Equal(t, filepath.Join(dir, "1.vtk"), got[0])
}

func TestWatchFrames_ClosesOnCancel(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())

	events, err := WatchFrames(ctx, dir, WatchConfig{Settle: 50 * time.Millisecond})
	require.NoError(t, err)

	cancel()
	select {
	case _, ok := <-events:
		assert.False(t, ok, "channel should be closed")
	case <-time.After(2 * time.Second):
		t.Fatal("watch channel did not close on cancellation")
	}
}

func TestWatchFrames_MissingDirectory(t *testing.T) {
	_, err := WatchFrames(context.Background(), filepath.Join(t.TempDir(), "nope"), WatchConfig{})
	require.Error(t, err)
}
