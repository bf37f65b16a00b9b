// Package lrucache implements a fixed-capacity, most-recently-used
// eviction cache: a doubly-linked list of keys for recency ordering
// plus a map from key to (value, list element), exactly the structure
// named in spec §4.C.
//
// Not suitable for pointer-typed values where nil is a legitimate
// value, since Get's miss return is indistinguishable from a stored
// nil in that case.
package lrucache

import "container/list"

type entry[K comparable, V any] struct {
	key   K
	value V
}

// Cache is a bounded-capacity LRU map.
type Cache[K comparable, V any] struct {
	capacity int
	ll       *list.List
	items    map[K]*list.Element

	hits      int64
	misses    int64
	evictions int64

	// recentKey/recentElem shortcut consecutive queries for the same
	// key past the map lookup. The Go reimplementation keeps this as
	// a regular map-backed *list.Element reference rather than the
	// source's raw list-node pointer, since Go's container/list
	// elements remain valid for the shortcut's lifetime (until the
	// next Clear) — see SPEC_FULL.md Open Question on recent-key
	// pointer validity.
	hasRecent  bool
	recentKey  K
	recentElem *list.Element
}

// New constructs a Cache with the given fixed capacity. Capacity must
// be at least 1.
func New[K comparable, V any](capacity int) *Cache[K, V] {
	if capacity < 1 {
		capacity = 1
	}
	return &Cache[K, V]{
		capacity: capacity,
		ll:       list.New(),
		items:    make(map[K]*list.Element, capacity),
	}
}

// Get returns the cached value for k and promotes it to most-recently
// used, with ok true; on a miss it returns ok false and increments the
// miss counter.
func (c *Cache[K, V]) Get(k K) (V, bool) {
	if c.hasRecent && c.recentKey == k {
		e := c.recentElem
		c.ll.MoveToFront(e)
		c.hits++
		return e.Value.(*entry[K, V]).value, true
	}

	elem, ok := c.items[k]
	if !ok {
		c.misses++
		var zero V
		return zero, false
	}

	c.ll.MoveToFront(elem)
	c.hits++
	c.hasRecent = true
	c.recentKey = k
	c.recentElem = elem
	return elem.Value.(*entry[K, V]).value, true
}

// Add inserts or replaces the value for k, evicting the
// least-recently-used key if the cache is at capacity and k is new.
func (c *Cache[K, V]) Add(k K, v V) {
	if elem, ok := c.items[k]; ok {
		elem.Value.(*entry[K, V]).value = v
		c.ll.MoveToFront(elem)
		c.hasRecent = true
		c.recentKey = k
		c.recentElem = elem
		return
	}

	elem := c.ll.PushFront(&entry[K, V]{key: k, value: v})
	c.items[k] = elem
	c.hasRecent = true
	c.recentKey = k
	c.recentElem = elem

	if c.ll.Len() > c.capacity {
		tail := c.ll.Back()
		if tail != nil {
			c.ll.Remove(tail)
			evicted := tail.Value.(*entry[K, V])
			delete(c.items, evicted.key)
			c.evictions++
			if c.hasRecent && c.recentKey == evicted.key {
				c.hasRecent = false
			}
		}
	}
}

// Len returns the number of entries currently cached.
func (c *Cache[K, V]) Len() int { return c.ll.Len() }

// Hits returns the cumulative number of successful Get calls.
func (c *Cache[K, V]) Hits() int64 { return c.hits }

// Misses returns the cumulative number of unsuccessful Get calls.
func (c *Cache[K, V]) Misses() int64 { return c.misses }

// Evictions returns the cumulative number of entries evicted to make
// room for new insertions.
func (c *Cache[K, V]) Evictions() int64 { return c.evictions }

// Clear resets the cache to empty, including the recent-key/value
// shortcut and the hit/miss/eviction counters.
func (c *Cache[K, V]) Clear() {
	c.ll = list.New()
	c.items = make(map[K]*list.Element, c.capacity)
	c.hasRecent = false
	var zeroK K
	c.recentKey = zeroK
	c.recentElem = nil
	c.hits = 0
	c.misses = 0
	c.evictions = 0
}
