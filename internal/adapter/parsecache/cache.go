// Package parsecache decorates a parse processor with a content-addressed
// in-memory LRU cache. The pipeline is pure with respect to its input bytes,
// so identical payloads can safely return the same immutable Result.
package parsecache

import (
	"context"
	"sync"

	"github.com/niprotogeros/epw-visualizer/internal/observability"
	"github.com/niprotogeros/epw-visualizer/internal/pipeline"
)

// Processor is the parse entry point being decorated.
type Processor interface {
	Process(ctx context.Context, content []byte) pipeline.Result
}

// CachingProcessor wraps a Processor with an LRU cache keyed by the
// content-addressed dataset ID.
type CachingProcessor struct {
	inner   Processor
	cache   *lruCache
	metrics *observability.Metrics
}

// New creates a cache decorator around a processor.
func New(inner Processor, maxEntries int, metrics *observability.Metrics) *CachingProcessor {
	return &CachingProcessor{
		inner:   inner,
		cache:   newLRUCache(maxEntries),
		metrics: metrics,
	}
}

// Process returns the cached Result for previously seen bytes, or delegates
// to the inner processor. Only successful parses are cached; fatal results
// are cheap to recompute and re-running them keeps their sink notifications
// flowing.
func (c *CachingProcessor) Process(ctx context.Context, content []byte) pipeline.Result {
	key := pipeline.DatasetID(content)
	if result, ok := c.cache.get(key); ok {
		c.metrics.CacheLookups.WithLabelValues("hit").Inc()
		return result
	}
	c.metrics.CacheLookups.WithLabelValues("miss").Inc()

	result := c.inner.Process(ctx, content)
	if result.Dataset != nil {
		c.cache.put(key, result)
	}
	return result
}

// lruCache is a simple thread-safe LRU cache for parse Results.
type lruCache struct {
	maxEntries int
	mu         sync.Mutex
	entries    map[string]*entry
	head       *entry // most recently used
	tail       *entry // least recently used
}

type entry struct {
	key   string
	value pipeline.Result
	prev  *entry
	next  *entry
}

func newLRUCache(maxEntries int) *lruCache {
	return &lruCache{
		maxEntries: maxEntries,
		entries:    make(map[string]*entry),
	}
}

func (c *lruCache) get(key string) (pipeline.Result, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return pipeline.Result{}, false
	}
	c.moveToFront(e)
	return e.value, true
}

func (c *lruCache) put(key string, value pipeline.Result) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		e.value = value
		c.moveToFront(e)
		return
	}

	e := &entry{key: key, value: value}
	c.entries[key] = e
	c.addToFront(e)

	if len(c.entries) > c.maxEntries {
		c.evictTail()
	}
}

func (c *lruCache) moveToFront(e *entry) {
	if e == c.head {
		return
	}
	c.remove(e)
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

func (c *lruCache) remove(e *entry) {
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
}

func (c *lruCache) evictTail() {
	if c.tail == nil {
		return
	}
	delete(c.entries, c.tail.key)
	c.remove(c.tail)
}
