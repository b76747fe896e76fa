package op

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher reloads an op document whenever its file is written and pushes
// a Reset followed by the fresh ops onto the producer channel.
type Watcher struct {
	path     string
	ch       chan<- Event
	log      *zap.Logger
	watcher  *fsnotify.Watcher
	debounce time.Duration
}

// NewWatcher watches the directory holding path, so editors that replace
// the file on save are still seen.
func NewWatcher(path string, ch chan<- Event, log *zap.Logger) (*Watcher, error) {
	if log == nil {
		log = zap.NewNop()
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("watch %s: %w", path, err)
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		w.Close()
		return nil, fmt.Errorf("watch %s: %w", path, err)
	}
	return &Watcher{
		path:     abs,
		ch:       ch,
		log:      log,
		watcher:  w,
		debounce: 200 * time.Millisecond,
	}, nil
}

// Run blocks until ctx is done or the underlying watcher closes.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	timer := time.NewTimer(0)
	<-timer.C

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()

		case ev, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != w.path || !ev.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			w.log.Debug("ops file changed", zap.String("file", ev.Name), zap.String("op", ev.Op.String()))
			timer.Reset(w.debounce)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("watcher error", zap.Error(err))

		case <-timer.C:
			if err := w.reload(ctx); err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				w.log.Warn("reload ops", zap.String("path", w.path), zap.Error(err))
			}
		}
	}
}

func (w *Watcher) reload(ctx context.Context) error {
	doc, err := Load(w.path)
	if err != nil {
		return err
	}
	for _, ev := range []Event{
		{Kind: EventReset},
		{Kind: EventOps, Ops: doc.Ops, Length: doc.Length},
	} {
		select {
		case w.ch <- ev:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	w.log.Info("ops reloaded", zap.String("path", w.path), zap.Int("ops", len(doc.Ops)))
	return nil
}

// Close stops watching.
func (w *Watcher) Close() error { return w.watcher.Close() }
