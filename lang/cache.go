package lang

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"sync"

	"github.com/klauspost/readahead"
	"github.com/zeebo/xxh3"
)

// CacheLimit is the number of units the shared cache holds. Storing past it
// evicts the oldest entry.
const CacheLimit = 256

// unitCache stores analyzed units keyed by the hash of name and source.
type unitCache struct {
	mu    sync.Mutex
	byKey map[uint64]*entry
	order []uint64 // insertion order, oldest first
}

var globalCache = unitCache{byKey: make(map[uint64]*entry)}

// entry analyzes its source at most once.
type entry struct {
	once sync.Once
	unit *Unit
}

// loadOrStore returns the entry for k, creating it if absent. hit reports
// whether it already existed.
func (c *unitCache) loadOrStore(k uint64) (e *entry, hit bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.byKey[k]; ok {
		return e, true
	}

	for len(c.order) >= CacheLimit {
		delete(c.byKey, c.order[0])
		c.order = c.order[1:]
	}

	e = new(entry)
	c.byKey[k] = e
	c.order = append(c.order, k)

	return e, false
}

func (c *unitCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.byKey)
}

func (c *unitCache) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	clear(c.byKey)
	c.order = nil
}

// ParseReader reads all of r and analyzes it, reporting positions against
// name.
func ParseReader(
	ctx context.Context,
	name string,
	r io.Reader,
	opts ...Option,
) (*Unit, error) {
	// Wrap reader with async read-ahead so the next chunk is fetched while
	// the previous one is copied.
	ra := readahead.NewReader(r)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return nil, ErrReadInput.Wrap(err).With(slog.String("source", name))
	}

	o := makeOptions(opts...)

	o.logger.TraceContext(ctx, "read input",
		slog.String("source", name),
		slog.Int("source_bytes", len(data)),
		slog.Bool("read_ahead", true))

	if o.cache {
		return cached(ctx, name, string(data), o)
	}

	u := analyze(ctx, name, data, o)

	return u, u.Err()
}

// key hashes name and src. The name is part of the key because every
// location in a unit's diagnostics carries it.
func key(name, src string) uint64 {
	h := xxh3.New()
	_, _ = h.WriteString(name)
	_, _ = h.Write([]byte{0})
	_, _ = h.WriteString(src)

	return h.Sum64()
}

func cached(ctx context.Context, name, src string, o options) (*Unit, error) {
	k := key(name, src)

	e, hit := globalCache.loadOrStore(k)

	o.logger.TraceContext(ctx, "cache lookup",
		slog.String("source", name),
		slog.String("source_hash", strconv.FormatUint(k, 16)),
		slog.Bool("cache_hit", hit))

	e.once.Do(func() { e.unit = analyze(ctx, name, []byte(src), o) })

	return e.unit, e.unit.Err()
}

// ClearCache removes all cached units.
// This is primarily useful for testing or when memory needs to be reclaimed.
func ClearCache() {
	globalCache.clear()
}
