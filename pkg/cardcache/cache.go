// Package cardcache maintains the mapping from vCard filenames in a
// managed directory to validated native handles. The cache is the
// exclusive owner and exclusive deleter of every handle it stores;
// reconciliation keeps it in line with the directory using file
// modification times as the change signal.
package cardcache

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/captaindpt/vcard-manager/pkg/vcard"
)

// DefaultExtension is the recognized card file extension.
const DefaultExtension = ".vcf"

// ErrClosed is returned when the cache is used after Close.
var ErrClosed = errors.New("card cache is closed")

// Recorder receives resource accounting events. The instrumentation
// invariant is that HandleDeleted fires exactly once for every
// HandleCreated over the cache's lifetime.
type Recorder interface {
	HandleCreated()
	HandleDeleted()
	EntryEvicted()
	PassCompleted(duration time.Duration, entries int)
}

type nopRecorder struct{}

func (nopRecorder) HandleCreated()                   {}
func (nopRecorder) HandleDeleted()                   {}
func (nopRecorder) EntryEvicted()                    {}
func (nopRecorder) PassCompleted(time.Duration, int) {}

// entry is one cached filename. Existence implies the file produced a
// handle that passed validation at modTime.
type entry struct {
	handle  vcard.Handle
	modTime time.Time
}

// Cache maps base filenames to validated native handles.
//
// All mutations are serialized by a single mutex: the daemon drives
// the cache from both a periodic tick and watcher callbacks, so the
// mutual-exclusion boundary is part of the contract. A handle
// returned by Get is valid only until the next reconciliation pass
// (full or targeted on that filename); callers needing durability
// must copy out fields immediately.
type Cache struct {
	mu sync.Mutex

	dir string
	ext string
	lib vcard.Library
	rec Recorder

	entries map[string]*entry
	closed  bool
}

// Option configures a Cache.
type Option func(*Cache)

// WithExtension overrides the recognized file extension.
func WithExtension(ext string) Option {
	return func(c *Cache) { c.ext = ext }
}

// WithRecorder attaches a resource accounting sink.
func WithRecorder(r Recorder) Option {
	return func(c *Cache) { c.rec = r }
}

// New creates an empty cache over dir. Run Refresh to populate it.
func New(dir string, lib vcard.Library, opts ...Option) *Cache {
	c := &Cache{
		dir:     dir,
		ext:     DefaultExtension,
		lib:     lib,
		rec:     nopRecorder{},
		entries: make(map[string]*entry),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Refresh runs a full reconciliation pass: new files are inserted,
// changed files replaced, failed or vanished files evicted. The pass
// degrades per entry; the only pass-level failure is an unreadable
// directory. It is correct from a cold cache and on a directory with
// zero matching files.
func (c *Cache) Refresh() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClosed
	}

	passID, _ := gonanoid.New(8)
	start := time.Now()
	logger := log.With().Str("pass", passID).Str("dir", c.dir).Logger()

	dirents, err := os.ReadDir(c.dir)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to list card directory")
		return fmt.Errorf("failed to list card directory: %w", err)
	}

	current := make(map[string]struct{}, len(dirents))
	for _, de := range dirents {
		name := de.Name()
		if de.IsDir() || !c.recognized(name) {
			continue
		}

		info, err := de.Info()
		if err != nil {
			// File vanished mid-scan. Leave it out of the current set
			// so the eviction step below reclaims any cached handle.
			logger.Warn().Err(err).Str("file", name).Msg("File disappeared during scan")
			continue
		}
		current[name] = struct{}{}

		if e, ok := c.entries[name]; ok && e.modTime.Equal(info.ModTime()) {
			// Cache hit: no native calls.
			continue
		}
		c.reload(logger.With().Str("file", name).Logger(), name, info.ModTime())
	}

	// Evict every cached filename absent from the listing.
	for name, e := range c.entries {
		if _, ok := current[name]; ok {
			continue
		}
		logger.Info().Str("file", name).Msg("File removed, evicting")
		c.deleteHandle(e.handle)
		delete(c.entries, name)
		c.rec.EntryEvicted()
	}

	c.rec.PassCompleted(time.Since(start), len(c.entries))
	logger.Debug().
		Int("valid", len(c.entries)).
		Dur("duration", time.Since(start)).
		Msg("Reconciliation pass complete")
	return nil
}

// Update is the targeted refresh for one filename, used after a
// collaborator has just written that file to avoid a full rescan.
// Unlike the full pass it also admits a file not yet cached. It
// reports whether the filename is in the valid set afterward.
func (c *Cache) Update(filename string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || !c.recognized(filename) {
		return false
	}

	logger := log.With().Str("file", filename).Logger()

	info, err := os.Stat(filepath.Join(c.dir, filename))
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warn().Err(err).Msg("Failed to stat card file")
		}
		if e, ok := c.entries[filename]; ok {
			c.deleteHandle(e.handle)
			delete(c.entries, filename)
			c.rec.EntryEvicted()
			logger.Info().Msg("File gone, evicted from cache")
		}
		return false
	}

	if e, ok := c.entries[filename]; ok && e.modTime.Equal(info.ModTime()) {
		return true
	}

	c.reload(logger, filename, info.ModTime())
	_, ok := c.entries[filename]
	return ok
}

// reload creates and validates a fresh handle for filename and either
// replaces the cached entry or evicts it. Caller holds the lock.
func (c *Cache) reload(logger zerolog.Logger, filename string, modTime time.Time) {
	path := filepath.Join(c.dir, filename)

	h, code := c.lib.Create(path)
	if code != vcard.OK {
		logger.Warn().Stringer("code", code).Msg("Card creation failed")
		c.evict(filename)
		return
	}
	c.rec.HandleCreated()

	if vcode := c.lib.Validate(h); vcode != vcard.OK {
		logger.Warn().Stringer("code", vcode).Msg("Card validation failed")
		c.deleteHandle(h)
		c.evict(filename)
		return
	}

	if old, ok := c.entries[filename]; ok {
		c.deleteHandle(old.handle)
	}
	c.entries[filename] = &entry{handle: h, modTime: modTime}
	logger.Debug().Msg("Card cached")
}

// evict removes filename's entry and deletes its handle, if present.
// Caller holds the lock.
func (c *Cache) evict(filename string) {
	e, ok := c.entries[filename]
	if !ok {
		return
	}
	c.deleteHandle(e.handle)
	delete(c.entries, filename)
	c.rec.EntryEvicted()
}

// deleteHandle frees a handle through the library, exactly once.
// Caller holds the lock.
func (c *Cache) deleteHandle(h vcard.Handle) {
	c.lib.Delete(h)
	c.rec.HandleDeleted()
}

// List returns the valid filenames in lexicographic order, regardless
// of discovery order.
func (c *Cache) List() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	names := make([]string, 0, len(c.entries))
	for name := range c.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Get returns the cached handle for filename. The cache remains sole
// owner: callers must not delete the handle and must not retain it
// across a subsequent refresh.
func (c *Cache) Get(filename string) (vcard.Handle, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[filename]
	if !ok {
		return nil, false
	}
	return e.handle, true
}

// ModTime returns the modification time recorded for filename.
func (c *Cache) ModTime(filename string) (time.Time, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[filename]
	if !ok {
		return time.Time{}, false
	}
	return e.modTime, true
}

// Size returns the number of cached entries.
func (c *Cache) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Close deletes every remaining handle and marks the cache unusable.
// It is idempotent and must run on every exit path.
func (c *Cache) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	for name, e := range c.entries {
		c.deleteHandle(e.handle)
		delete(c.entries, name)
	}
	c.closed = true
	log.Debug().Str("dir", c.dir).Msg("Card cache closed")
}

// Dir returns the managed directory.
func (c *Cache) Dir() string { return c.dir }

// Extension returns the recognized card file extension.
func (c *Cache) Extension() string { return c.ext }

// recognized reports whether filename carries the managed extension.
func (c *Cache) recognized(filename string) bool {
	return strings.EqualFold(filepath.Ext(filename), c.ext)
}
