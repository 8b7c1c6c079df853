package vocab

import (
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// Watcher monitors the vocabulary directory for edits to the mapping files.
// The Store is immutable once loaded, so the watcher does not hot-reload;
// it flags the loaded mappings as stale and logs that a restart is needed.
type Watcher struct {
	dir string
	log zerolog.Logger

	watcher *fsnotify.Watcher
	done    chan struct{}

	// Debounce: coalesce rapid Create+Write events on the same file.
	debounceMu     sync.Mutex
	debounceTimers map[string]*time.Timer

	changes atomic.Int64
}

// NewWatcher creates a watcher for the given vocabulary directory.
func NewWatcher(dir string, log zerolog.Logger) *Watcher {
	return &Watcher{
		dir:            dir,
		log:            log.With().Str("component", "vocab_watcher").Logger(),
		done:           make(chan struct{}),
		debounceTimers: make(map[string]*time.Timer),
	}
}

// Start begins watching the vocabulary directory.
func (w *Watcher) Start() error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := fsw.Add(w.dir); err != nil {
		fsw.Close()
		return err
	}
	w.watcher = fsw

	w.log.Info().Str("dir", w.dir).Msg("vocabulary watcher started")
	go w.watchLoop()
	return nil
}

// Stop closes the fsnotify watcher and ends the event loop.
func (w *Watcher) Stop() {
	close(w.done)
	if w.watcher != nil {
		w.watcher.Close()
	}
	w.log.Info().Int64("changes_seen", w.changes.Load()).Msg("vocabulary watcher stopped")
}

// Stale reports whether any mapping file changed since the store was loaded.
func (w *Watcher) Stale() bool {
	return w.changes.Load() > 0
}

// Changes returns the number of mapping file edits observed.
func (w *Watcher) Changes() int64 {
	return w.changes.Load()
}

func (w *Watcher) watchLoop() {
	for {
		select {
		case <-w.done:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			if !isMappingFile(event.Name) {
				continue
			}
			w.scheduleNotice(event.Name)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Error().Err(err).Msg("fsnotify error")
		}
	}
}

// scheduleNotice debounces change notices by 500ms so editors that write a
// file in several bursts produce a single log line.
func (w *Watcher) scheduleNotice(path string) {
	w.debounceMu.Lock()
	defer w.debounceMu.Unlock()

	if t, ok := w.debounceTimers[path]; ok {
		t.Reset(500 * time.Millisecond)
		return
	}

	w.debounceTimers[path] = time.AfterFunc(500*time.Millisecond, func() {
		w.debounceMu.Lock()
		delete(w.debounceTimers, path)
		w.debounceMu.Unlock()

		w.changes.Add(1)
		w.log.Warn().
			Str("file", filepath.Base(path)).
			Msg("vocabulary file changed on disk, restart to apply")
	})
}

func isMappingFile(path string) bool {
	switch strings.ToLower(filepath.Base(path)) {
	case WordsFile, NumbersFile, AlphabetFile:
		return true
	}
	return false
}
