package svt

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

// WatchConfig controls live directory following.
type WatchConfig struct {
	// Extensions filters events, case-insensitively. Empty means {".vtk"}.
	Extensions []string
	// Settle is how long a file must stay quiet after its last write
	// before it is considered complete. Solvers write frames
	// incrementally, so reacting to the first event would read half a
	// file. Zero means 250ms.
	Settle time.Duration
}

// WatchFrames follows a directory a running solver writes into and emits
// the path of each frame file once it has settled. Every file is emitted at
// most once. The returned channel closes when ctx is cancelled or the
// watcher shuts down; watcher errors are logged, not fatal.
func WatchFrames(ctx context.Context, dir string, cfg WatchConfig) (<-chan string, error) {
	exts := cfg.Extensions
	if len(exts) == 0 {
		exts = []string{".vtk"}
	}
	settle := cfg.Settle
	if settle <= 0 {
		settle = 250 * time.Millisecond
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	if err := w.Add(dir); err != nil {
		w.Close()
		return nil, fmt.Errorf("watching %s: %w", dir, err)
	}

	out := make(chan string)
	go func() {
		defer close(out)
		defer w.Close()

		// Settle timers report back on an internal channel so only this
		// goroutine ever touches out or the maps.
		settled := make(chan string)
		pending := make(map[string]*time.Timer)
		emitted := make(map[string]bool)
		defer func() {
			for _, t := range pending {
				t.Stop()
			}
		}()

		for {
			select {
			case <-ctx.Done():
				return
			case path := <-settled:
				delete(pending, path)
				if emitted[path] {
					continue
				}
				emitted[path] = true
				select {
				case out <- path:
				case <-ctx.Done():
					return
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				logrus.Warnf("watcher error on %s: %v", dir, err)
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) {
					continue
				}
				if !hasExtension(filepath.Base(ev.Name), exts) {
					continue
				}
				path := ev.Name
				if emitted[path] {
					continue
				}
				if t, ok := pending[path]; ok {
					t.Reset(settle)
					continue
				}
				pending[path] = time.AfterFunc(settle, func() {
					select {
					case settled <- path:
					case <-ctx.Done():
					}
				})
			}
		}
	}()
	return out, nil
}
