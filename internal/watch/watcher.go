// Package watch re-runs the chart pipeline whenever a watched local
// spreadsheet file changes.
package watch

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long the watcher waits after the last write
// event before triggering, so editors that save in bursts fire once.
const DefaultDebounce = 500 * time.Millisecond

// Handler is called with the file path after a debounced change.
type Handler func(path string) error

// Watcher monitors a single spreadsheet file and triggers the handler
// on change.
type Watcher struct {
	Path     string
	Debounce time.Duration
	Handler  Handler
	Logger   *log.Logger

	mu      sync.Mutex
	watcher *fsnotify.Watcher
	timer   *time.Timer
	runs    int
}

// New creates a watcher for the given file.
func New(path string, handler Handler) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("could not resolve %s: %w", path, err)
	}
	if _, err := os.Stat(abs); err != nil {
		return nil, fmt.Errorf("cannot watch %s: %w", path, err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("could not create file watcher: %w", err)
	}

	return &Watcher{
		Path:     abs,
		Debounce: DefaultDebounce,
		Handler:  handler,
		Logger:   log.New(os.Stderr, "[watch] ", log.LstdFlags),
		watcher:  fsw,
	}, nil
}

// Start begins watching. It blocks until the context is cancelled.
// The parent directory is watched rather than the file itself: editors
// that save via rename would otherwise detach the watch.
func (w *Watcher) Start(ctx context.Context) error {
	dir := filepath.Dir(w.Path)
	if err := w.watcher.Add(dir); err != nil {
		return fmt.Errorf("could not watch %s: %w", dir, err)
	}

	w.Logger.Printf("Watching %s", w.Path)

	for {
		select {
		case <-ctx.Done():
			w.Logger.Println("Stopping watcher")
			return w.watcher.Close()
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.Logger.Printf("Error: %v", err)
		}
	}
}

// Runs returns how many times the handler has completed.
func (w *Watcher) Runs() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.runs
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) && !event.Has(fsnotify.Rename) {
		return
	}
	if event.Name != w.Path {
		return
	}
	// Skip office lock/temp files
	base := filepath.Base(event.Name)
	if strings.HasPrefix(base, "~$") || strings.HasPrefix(base, ".~") {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.Debounce, w.trigger)
}

func (w *Watcher) trigger() {
	w.Logger.Printf("Change detected: %s", w.Path)
	if err := w.Handler(w.Path); err != nil {
		w.Logger.Printf("Run failed: %v", err)
	} else {
		w.Logger.Printf("Run complete")
	}

	w.mu.Lock()
	w.runs++
	w.mu.Unlock()
}
