package util

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync/atomic"
	"time"

	"github.com/edsrzf/mmap-go"
	lru "github.com/hashicorp/golang-lru/v2"
)

// SourceCache reads definition files (catalogs, element documents) and
// keeps their contents in a bounded LRU keyed by path.
//
// An entry is reused only while the file's size and modification time are
// unchanged, so a watcher-triggered reload always sees fresh bytes. Files are
// read through a memory map and copied out, which keeps returned slices
// valid after eviction. Empty files and platforms where mapping fails fall
// back to os.ReadFile.
//
// Thread-safe.
type SourceCache struct {
	entries *lru.Cache[string, sourceEntry]
	logger  *slog.Logger

	hits         atomic.Int64
	misses       atomic.Int64
	mmapFailures atomic.Int64
	evictions    atomic.Int64
}

type sourceEntry struct {
	data    []byte
	size    int64
	modTime time.Time
}

// SourceCacheStats is a snapshot of cache counters.
type SourceCacheStats struct {
	Cached       int
	Hits         int64
	Misses       int64
	MmapFailures int64
	Evictions    int64
}

// DefaultSourceCacheSize bounds the number of cached files.
const DefaultSourceCacheSize = 512

// NewSourceCache creates a cache holding at most maxFiles entries
// (DefaultSourceCacheSize when maxFiles <= 0).
func NewSourceCache(maxFiles int, logger *slog.Logger) *SourceCache {
	if maxFiles <= 0 {
		maxFiles = DefaultSourceCacheSize
	}
	if logger == nil {
		logger = slog.Default()
	}
	sc := &SourceCache{logger: logger}
	entries, err := lru.NewWithEvict(maxFiles, func(path string, _ sourceEntry) {
		sc.evictions.Add(1)
		logger.Debug("source cache evicted file", "path", path)
	})
	if err != nil {
		// only reachable with a non-positive size
		panic(fmt.Sprintf("failed to create source cache: %v", err))
	}
	sc.entries = entries
	return sc
}

// ReadFile returns the contents of path, from cache when the file is
// unchanged since it was last read.
func (sc *SourceCache) ReadFile(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %q: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%q is a directory", path)
	}

	if entry, ok := sc.entries.Get(path); ok && entry.size == info.Size() && entry.modTime.Equal(info.ModTime()) {
		sc.hits.Add(1)
		return entry.data, nil
	}
	sc.misses.Add(1)

	data, err := sc.load(path, info.Size())
	if err != nil {
		return nil, err
	}
	sc.entries.Add(path, sourceEntry{data: data, size: info.Size(), modTime: info.ModTime()})
	return data, nil
}

// Invalidate drops path from the cache.
func (sc *SourceCache) Invalidate(path string) {
	sc.entries.Remove(path)
}

// Purge empties the cache.
func (sc *SourceCache) Purge() {
	sc.entries.Purge()
}

// Stats returns current counters.
func (sc *SourceCache) Stats() SourceCacheStats {
	return SourceCacheStats{
		Cached:       sc.entries.Len(),
		Hits:         sc.hits.Load(),
		Misses:       sc.misses.Load(),
		MmapFailures: sc.mmapFailures.Load(),
		Evictions:    sc.evictions.Load(),
	}
}

func (sc *SourceCache) load(path string, size int64) ([]byte, error) {
	if size == 0 {
		return os.ReadFile(path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %q: %w", path, err)
	}
	defer f.Close()

	m, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		sc.mmapFailures.Add(1)
		sc.logger.Debug("mmap failed, reading file instead", "path", path, "error", err)
		return readAll(f)
	}
	data := make([]byte, len(m))
	copy(data, m)
	if err := m.Unmap(); err != nil {
		sc.logger.Warn("failed to unmap file", "path", path, "error", err)
	}
	return data, nil
}

func readAll(f *os.File) ([]byte, error) {
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	data, err := io.ReadAll(f)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to read %q: %w", f.Name(), err)
	}
	return data, nil
}
