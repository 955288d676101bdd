package profile

import (
	"container/list"
	"context"
	"sort"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kailas-cloud/astrorag/internal/domain"
)

// DefaultMaxSize bounds the in-memory cache when no size is configured.
const DefaultMaxSize = 1000

type lruItem struct {
	key     string
	profile domain.Profile
}

// LRU is an in-process profile store that evicts the least recently used
// profile once MaxSize is reached. A single mutex serializes all writes.
type LRU struct {
	mu         sync.Mutex
	maxSize    int
	order      *list.List
	items      map[string]*list.Element
	cacheTotal *prometheus.CounterVec
}

// NewLRU creates an in-memory store. cacheTotal has label "result"
// ("hit"/"miss"/"evict") and may be nil.
func NewLRU(maxSize int, cacheTotal *prometheus.CounterVec) *LRU {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	return &LRU{
		maxSize:    maxSize,
		order:      list.New(),
		items:      make(map[string]*list.Element),
		cacheTotal: cacheTotal,
	}
}

// Get returns the profile for name and marks it recently used.
func (c *LRU) Get(_ context.Context, name string) (domain.Profile, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[normalize(name)]
	if !ok {
		c.inc("miss")
		return domain.Profile{}, domain.ErrNotFound
	}
	c.inc("hit")
	c.order.MoveToFront(el)
	return el.Value.(*lruItem).profile, nil
}

// Put stores the profile, evicting the least recently used entry when full.
func (c *LRU) Put(_ context.Context, p domain.Profile) error {
	key := normalize(p.Name)

	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[key]; ok {
		el.Value.(*lruItem).profile = p
		c.order.MoveToFront(el)
		return nil
	}
	for c.order.Len() >= c.maxSize {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.items, oldest.Value.(*lruItem).key)
		c.inc("evict")
	}
	c.items[key] = c.order.PushFront(&lruItem{key: key, profile: p})
	return nil
}

// Delete removes the profile for name.
func (c *LRU) Delete(_ context.Context, name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := normalize(name)
	if el, ok := c.items[key]; ok {
		c.order.Remove(el)
		delete(c.items, key)
	}
	return nil
}

// List returns cached profile names, sorted.
func (c *LRU) List(_ context.Context) ([]string, error) {
	c.mu.Lock()
	names := make([]string, 0, len(c.items))
	for k := range c.items {
		names = append(names, k)
	}
	c.mu.Unlock()
	sort.Strings(names)
	return names, nil
}

// Len returns the number of cached profiles.
func (c *LRU) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// Ping always succeeds; it lets the cache stand in for a database in health checks.
func (c *LRU) Ping(_ context.Context) error { return nil }

func (c *LRU) inc(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}
