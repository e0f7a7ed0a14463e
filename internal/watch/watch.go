// Package watch wires a filesystem event source to the core's sync
// operation (spec.md §5): the watcher daemon itself is out of scope, but
// this package supplies the event batching and debounce a caller uses to
// invoke one sync per batch of changes, never while a previous sync is
// still running.
package watch

import (
	"context"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// SyncFunc runs one full sync cycle in response to a batch of filesystem
// events.
type SyncFunc func() error

// Watcher batches fsnotify events and invokes SyncFunc at most once per
// debounce interval.
type Watcher struct {
	fsw     *fsnotify.Watcher
	limiter *rate.Limiter
	sync    SyncFunc
	log     *zap.SugaredLogger
}

// New creates a Watcher over dirs, debounced to at most one sync per
// interval.
func New(dirs []string, interval time.Duration, sync SyncFunc, log *zap.SugaredLogger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	for _, dir := range dirs {
		if err := fsw.Add(dir); err != nil {
			fsw.Close()
			return nil, err
		}
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Watcher{
		fsw:     fsw,
		limiter: rate.NewLimiter(rate.Every(interval), 1),
		sync:    sync,
		log:     log,
	}, nil
}

// Run blocks until ctx is cancelled, invoking sync at most once per
// debounce interval whenever at least one filesystem event arrived since
// the last sync (spec.md §5: "each sync is a fresh, non-overlapping
// transaction").
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fsw.Close()

	pending := false
	poll := time.NewTicker(25 * time.Millisecond)
	defer poll.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.log.Warnw("watch error", "error", err)

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			w.log.Debugw("filesystem event", "op", ev.Op.String(), "name", ev.Name)
			pending = true

		case <-poll.C:
			if !pending || !w.limiter.Allow() {
				continue
			}
			pending = false
			if err := w.sync(); err != nil {
				w.log.Errorw("sync failed", "error", err)
			}
		}
	}
}
