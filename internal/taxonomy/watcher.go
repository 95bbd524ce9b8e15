package taxonomy

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// reloadDebounce coalesces the write+rename burst an atomic save produces
// into a single reload signal.
const reloadDebounce = 250 * time.Millisecond

// Watcher monitors the taxonomy document and invokes a reload callback
// after every change, so stale in-memory indexes never outlive a mutation.
type Watcher struct {
	path     string
	onReload func() error
	fsw      *fsnotify.Watcher
}

// NewWatcher creates a watcher for the document at path. onReload is called
// (debounced) after each observed change; its error is logged, not fatal.
func NewWatcher(path string, onReload func() error) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, eris.Wrap(err, "taxonomy: create watcher")
	}

	// Watch the directory, not the file: atomic saves replace the file via
	// rename, which drops a direct file watch.
	if err := fsw.Add(filepath.Dir(path)); err != nil {
		fsw.Close()
		return nil, eris.Wrapf(err, "taxonomy: watch %s", filepath.Dir(path))
	}

	return &Watcher{path: path, onReload: onReload, fsw: fsw}, nil
}

// Run processes events until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) {
	defer w.fsw.Close()

	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != filepath.Clean(w.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(reloadDebounce)
				timerC = timer.C
			} else {
				timer.Reset(reloadDebounce)
			}

		case <-timerC:
			timer = nil
			timerC = nil
			zap.L().Info("taxonomy: document changed, reloading",
				zap.String("path", w.path),
			)
			if err := w.onReload(); err != nil {
				zap.L().Error("taxonomy: reload failed", zap.Error(err))
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			zap.L().Warn("taxonomy: watcher error", zap.Error(err))
		}
	}
}
