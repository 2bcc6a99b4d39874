package darksky

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/couchcryptid/forecast-client/internal/domain"
	"github.com/couchcryptid/forecast-client/internal/observability"
	"github.com/jonboulle/clockwork"
)

// CachedSource wraps a ForecastSource with an in-memory LRU cache. Entries hold
// the binary encoding of the forecast and expire after a fixed TTL.
type CachedSource struct {
	inner   domain.ForecastSource
	cache   *lruCache
	ttl     time.Duration
	clock   clockwork.Clock
	metrics *observability.Metrics
	logger  *slog.Logger
}

// NewCachedSource creates a cache decorator around a forecast source.
func NewCachedSource(inner domain.ForecastSource, maxEntries int, ttl time.Duration, clock clockwork.Clock, metrics *observability.Metrics, logger *slog.Logger) *CachedSource {
	return &CachedSource{
		inner:   inner,
		cache:   newLRUCache(maxEntries),
		ttl:     ttl,
		clock:   clock,
		metrics: metrics,
		logger:  logger,
	}
}

func (c *CachedSource) Forecast(ctx context.Context, lat, lon float64) (domain.Forecast, error) {
	key := domain.Location{Lat: lat, Lon: lon}.Key()

	if blob, storedAt, ok := c.cache.get(key); ok {
		if c.clock.Since(storedAt) < c.ttl {
			f, err := domain.DecodeBinary(blob)
			if err == nil {
				c.metrics.Cache.WithLabelValues("hit").Inc()
				return f, nil
			}
			c.metrics.DecodeErrors.WithLabelValues("corrupt_binary").Inc()
			c.logger.Warn("dropping undecodable cache entry", "key", key, "error", err)
		} else {
			c.metrics.Cache.WithLabelValues("expired").Inc()
		}
		c.cache.remove(key)
	} else {
		c.metrics.Cache.WithLabelValues("miss").Inc()
	}

	f, err := c.inner.Forecast(ctx, lat, lon)
	if err != nil {
		// Failures are not cached so the next call goes upstream again.
		return f, err
	}
	blob, err := domain.EncodeBinary(f)
	if err != nil {
		return domain.Forecast{}, fmt.Errorf("cache forecast: %w", err)
	}
	c.cache.put(key, blob, c.clock.Now())
	return f, nil
}

// lruCache is a simple thread-safe LRU cache of encoded forecasts.
type lruCache struct {
	maxEntries int
	mu         sync.Mutex
	entries    map[string]*entry
	head       *entry // most recently used
	tail       *entry // least recently used
}

type entry struct {
	key      string
	value    []byte
	storedAt time.Time
	prev     *entry
	next     *entry
}

func newLRUCache(maxEntries int) *lruCache {
	return &lruCache{
		maxEntries: maxEntries,
		entries:    make(map[string]*entry),
	}
}

func (c *lruCache) get(key string) ([]byte, time.Time, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, time.Time{}, false
	}
	c.moveToFront(e)
	return e.value, e.storedAt, true
}

func (c *lruCache) put(key string, value []byte, storedAt time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		e.value = value
		e.storedAt = storedAt
		c.moveToFront(e)
		return
	}

	e := &entry{key: key, value: value, storedAt: storedAt}
	c.entries[key] = e
	c.addToFront(e)

	if len(c.entries) > c.maxEntries {
		c.evictTail()
	}
}

func (c *lruCache) remove(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		delete(c.entries, key)
		c.unlink(e)
	}
}

func (c *lruCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *lruCache) moveToFront(e *entry) {
	if e == c.head {
		return
	}
	c.unlink(e)
	c.addToFront(e)
}

func (c *lruCache) addToFront(e *entry) {
	e.next = c.head
	e.prev = nil
	if c.head != nil {
		c.head.prev = e
	}
	c.head = e
	if c.tail == nil {
		c.tail = e
	}
}

func (c *lruCache) unlink(e *entry) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		c.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		c.tail = e.prev
	}
	e.prev, e.next = nil, nil
}

func (c *lruCache) evictTail() {
	if c.tail == nil {
		return
	}
	delete(c.entries, c.tail.key)
	c.unlink(c.tail)
}
