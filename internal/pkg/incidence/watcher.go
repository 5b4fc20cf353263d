package incidence

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher serves the table loaded from a YAML file and reloads it when the
// file changes. A file that fails to parse keeps the previous table.
type Watcher struct {
	path     string
	current  atomic.Pointer[Table]
	watcher  *fsnotify.Watcher
	debounce time.Duration

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// NewWatcher loads path once and prepares a watcher for it. The initial load
// must succeed and produce at least one incidence.
func NewWatcher(path string) (*Watcher, error) {
	t, err := Load(path)
	if err != nil {
		return nil, err
	}
	if t.Len() == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrEmptyTable)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	w := &Watcher{
		path:     filepath.Clean(path),
		watcher:  fw,
		debounce: 250 * time.Millisecond,
	}
	w.current.Store(t)
	return w, nil
}

// Table implements Source.
func (w *Watcher) Table() *Table {
	return w.current.Load()
}

// Start watches the file's directory (editors often replace the file rather
// than write it in place). Non-blocking.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return nil
	}

	if err := w.watcher.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(w.path), err)
	}

	w.running = true
	w.stopCh = make(chan struct{})
	w.doneCh = make(chan struct{})
	go w.run(ctx)

	slog.Info("Incidence table watcher started", "path", w.path, "incidences", w.Table().Len())
	return nil
}

// Stop stops watching and waits for the loop to exit.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		_ = w.watcher.Close()
		return
	}
	w.running = false
	close(w.stopCh)
	w.mu.Unlock()

	<-w.doneCh
	if err := w.watcher.Close(); err != nil {
		slog.Error("Failed to close incidence table watcher", "error", err)
	}
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	var (
		timer   *time.Timer
		timerCh <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			timerCh = timer.C
		case <-timerCh:
			timerCh = nil
			w.reload()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			slog.Error("Incidence table watcher error", "error", err)
		}
	}
}

func (w *Watcher) reload() {
	t, err := Load(w.path)
	if err != nil {
		slog.Error("Failed to reload incidence table, keeping previous", "path", w.path, "error", err)
		return
	}
	if t.Len() == 0 {
		slog.Warn("Reloaded incidence table is empty, keeping previous", "path", w.path)
		return
	}
	w.current.Store(t)
	slog.Info("Incidence table reloaded", "path", w.path, "incidences", t.Len())
}
