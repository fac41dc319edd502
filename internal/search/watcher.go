// This file implements a file system watcher for the seed catalog file.
// Installs that point search.seed_path at a JSON file get hot reloads of
// the fallback dataset without a restart.

package search

import (
	"log"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// SeedWatcher watches the seed catalog file and reloads the in-memory
// source when it changes.
type SeedWatcher struct {
	path          string
	source        *MemorySource
	watcher       *fsnotify.Watcher
	mu            sync.Mutex
	debounceTimer *time.Timer
	debounceDelay time.Duration
	stopChan      chan struct{}
}

func NewSeedWatcher(path string, source *MemorySource) *SeedWatcher {
	return &SeedWatcher{
		path:          path,
		source:        source,
		debounceDelay: 2 * time.Second, // Wait for editors to finish writing before reloading
		stopChan:      make(chan struct{}),
	}
}

// Start begins watching the seed file's directory. Watching the directory
// instead of the file survives the rename-and-replace dance most editors
// and atomic writers do.
func (w *SeedWatcher) Start() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	w.watcher = watcher

	if err := watcher.Add(filepath.Dir(w.path)); err != nil {
		watcher.Close()
		return err
	}

	go w.run()
	log.Printf("Watching seed catalog file: %s", w.path)
	return nil
}

// Stop terminates the watcher.
func (w *SeedWatcher) Stop() {
	close(w.stopChan)
	if w.watcher != nil {
		w.watcher.Close()
	}
}

func (w *SeedWatcher) run() {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != filepath.Clean(w.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				w.scheduleReload()
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("Seed watcher error: %v", err)
		case <-w.stopChan:
			return
		}
	}
}

func (w *SeedWatcher) scheduleReload() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.debounceTimer = time.AfterFunc(w.debounceDelay, w.reload)
}

func (w *SeedWatcher) reload() {
	entries, err := LoadSeedFile(w.path)
	if err != nil {
		// Keep the previous catalog on a bad write; the next save gets
		// another chance.
		log.Printf("Seed reload failed, keeping previous catalog: %v", err)
		return
	}
	w.source.Reload(entries)
	log.Printf("Seed catalog reloaded: %d entries", len(entries))
}
