package skemafile

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// WatchOpt adjusts a Watch call. The last option wins.
type WatchOpt struct {
	// Debounce is the quiet period after a change before reloading, absorbing
	// editor write bursts. Defaults to 100ms.
	Debounce time.Duration
}

// Watch reloads the document at path whenever it is written or created and
// delivers the result of Load to fn, including classified errors (with the
// default fallback applied when configured). The watcher runs until ctx is
// cancelled or the returned stop function is called. fn is never invoked
// concurrently with itself and must not call stop.
func (s *Store[T]) Watch(ctx context.Context, path string, fn func(T, error), opts ...WatchOpt) (stop func(), err error) {
	var opt WatchOpt
	if len(opts) > 0 {
		opt = opts[len(opts)-1]
	}
	if opt.Debounce <= 0 {
		opt.Debounce = 100 * time.Millisecond
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	// Watch the directory, not the file: atomic writes replace the inode and
	// a file-level watch would go stale after the first save.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return nil, err
	}

	wctx, cancel := context.WithCancel(ctx)
	w := &fileWatch[T]{store: s, path: path, fn: fn, debounce: opt.Debounce}
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		w.loop(wctx, watcher)
	}()

	var once sync.Once
	stop = func() {
		once.Do(func() {
			cancel()
			watcher.Close()
			w.wg.Wait()
		})
	}
	return stop, nil
}

type fileWatch[T any] struct {
	store    *Store[T]
	path     string
	fn       func(T, error)
	debounce time.Duration

	mu    sync.Mutex // guards timer
	cbMu  sync.Mutex // serializes fn invocations
	timer *time.Timer
	wg    sync.WaitGroup
}

func (w *fileWatch[T]) loop(ctx context.Context, watcher *fsnotify.Watcher) {
	base := filepath.Base(w.path)
	for {
		select {
		case <-ctx.Done():
			w.stopTimer()
			return
		case event, ok := <-watcher.Events:
			if !ok {
				w.stopTimer()
				return
			}
			if filepath.Base(event.Name) != base {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.scheduleReload(ctx)
		case err, ok := <-watcher.Errors:
			if !ok {
				w.stopTimer()
				return
			}
			w.store.log.Error().Err(err).Str("path", w.path).Msg("watch error")
		}
	}
}

func (w *fileWatch[T]) scheduleReload(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil && w.timer.Stop() {
		// The displaced timer never fired; release its wait slot.
		w.wg.Done()
	}
	w.wg.Add(1)
	w.timer = time.AfterFunc(w.debounce, func() {
		defer w.wg.Done()
		if ctx.Err() != nil {
			return
		}
		v, err := w.store.Load(ctx, w.path)
		w.deliver(v, err)
	})
}

// deliver serializes callback invocations.
func (w *fileWatch[T]) deliver(v T, err error) {
	w.cbMu.Lock()
	defer w.cbMu.Unlock()
	w.fn(v, err)
}

func (w *fileWatch[T]) stopTimer() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		if w.timer.Stop() {
			w.wg.Done()
		}
		w.timer = nil
	}
}
