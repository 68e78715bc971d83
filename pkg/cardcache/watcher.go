package cardcache

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
)

// DefaultStabilityThreshold is how long a file must be quiet before
// its event is processed. Editors often emit bursts of writes.
const DefaultStabilityThreshold = 100 * time.Millisecond

// Watcher monitors the managed directory and drives targeted cache
// refreshes, so externally edited cards converge without waiting for
// the next full pass. The directory is watched non-recursively; only
// files with the recognized extension trigger a refresh.
type Watcher struct {
	watcher            *fsnotify.Watcher
	cache              *Cache
	stabilityThreshold time.Duration

	done           chan struct{}
	debounceTimers map[string]*time.Timer
	debounceMu     sync.Mutex
	stopOnce       sync.Once
}

// NewWatcher creates a watcher over the cache's directory.
func NewWatcher(cache *Cache, stabilityThreshold time.Duration) (*Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	if stabilityThreshold == 0 {
		stabilityThreshold = DefaultStabilityThreshold
	}

	return &Watcher{
		watcher:            watcher,
		cache:              cache,
		stabilityThreshold: stabilityThreshold,
		done:               make(chan struct{}),
		debounceTimers:     make(map[string]*time.Timer),
	}, nil
}

// Start begins watching the card directory.
func (w *Watcher) Start() error {
	if err := w.watcher.Add(w.cache.dir); err != nil {
		return fmt.Errorf("failed to watch card directory: %w", err)
	}

	go w.eventLoop()

	log.Info().Str("dir", w.cache.dir).Msg("Card directory watcher started")
	return nil
}

// Stop stops the watcher. It is safe to call more than once.
func (w *Watcher) Stop() error {
	w.stopOnce.Do(func() {
		close(w.done)
	})

	w.debounceMu.Lock()
	for _, timer := range w.debounceTimers {
		timer.Stop()
	}
	clear(w.debounceTimers)
	w.debounceMu.Unlock()

	if err := w.watcher.Close(); err != nil {
		return fmt.Errorf("failed to close watcher: %w", err)
	}

	log.Info().Msg("Card directory watcher stopped")
	return nil
}

func (w *Watcher) eventLoop() {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Error().Err(err).Msg("Watcher error")

		case <-w.done:
			return
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if !w.cache.recognized(event.Name) {
		return
	}
	if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) &&
		!event.Op.Has(fsnotify.Remove) && !event.Op.Has(fsnotify.Rename) {
		return
	}
	w.debounceEvent(event)
}

// debounceEvent coalesces rapid events on the same file, refreshing
// only after the file has been stable for the threshold.
func (w *Watcher) debounceEvent(event fsnotify.Event) {
	w.debounceMu.Lock()
	defer w.debounceMu.Unlock()

	if timer, exists := w.debounceTimers[event.Name]; exists {
		timer.Stop()
	}

	name := event.Name
	w.debounceTimers[name] = time.AfterFunc(w.stabilityThreshold, func() {
		w.debounceMu.Lock()
		delete(w.debounceTimers, name)
		w.debounceMu.Unlock()

		select {
		case <-w.done:
			return
		default:
			w.refresh(name)
		}
	})
}

// refresh runs the targeted cache refresh for one file. Update copes
// with every outcome (new, changed, invalid, gone), so create, write,
// remove and rename all funnel through it.
func (w *Watcher) refresh(path string) {
	base := filepath.Base(path)
	valid := w.cache.Update(base)
	log.Debug().Str("file", base).Bool("valid", valid).Msg("Watcher refreshed card")
}
