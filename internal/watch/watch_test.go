package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcherInvokesSyncOnEvent(t *testing.T) {
	dir := t.TempDir()

	synced := make(chan struct{}, 8)
	w, err := New([]string{dir}, 10*time.Millisecond, func() error {
		select {
		case synced <- struct{}{}:
		default:
		}
		return nil
	}, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "doc.md"), []byte("# hi\n"), 0o644))

	select {
	case <-synced:
	case <-time.After(2 * time.Second):
		t.Fatal("sync was not invoked after filesystem event")
	}
}

func TestWatcherStopsOnContextCancel(t *testing.T) {
	dir := t.TempDir()

	w, err := New([]string{dir}, 10*time.Millisecond, func() error { return nil }, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after context cancellation")
	}
}
