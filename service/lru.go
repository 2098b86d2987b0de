package service

import (
	"github.com/docsift/docsift/core"
)

// lruNode is a doubly-linked list node for the LRU cache.
type lruNode struct {
	key   string
	value []core.Match
	prev  *lruNode
	next  *lruNode
}

// LRUCache is an O(1) get/put least-recently-used cache with hit/miss
// counters. Keys are normalized query strings; values are match lists.
// Not safe for concurrent use; the owning service serializes access.
type LRUCache struct {
	capacity int
	entries  map[string]*lruNode
	head     *lruNode
	tail     *lruNode
	hits     int
	misses   int
}

// NewLRUCache creates a cache holding up to capacity entries.
func NewLRUCache(capacity int) (*LRUCache, error) {
	if capacity <= 0 {
		return nil, ErrInvalidCapacity
	}

	head := &lruNode{}
	tail := &lruNode{}
	head.next = tail
	tail.prev = head

	return &LRUCache{
		capacity: capacity,
		entries:  make(map[string]*lruNode),
		head:     head,
		tail:     tail,
	}, nil
}

// Get returns the cached value for key and whether it was present.
func (c *LRUCache) Get(key string) ([]core.Match, bool) {
	node, ok := c.entries[key]
	if !ok {
		c.misses++
		return nil, false
	}
	c.remove(node)
	c.insertFront(node)
	c.hits++
	return node.value, true
}

// Put stores a value, evicting the least recently used entry when full.
func (c *LRUCache) Put(key string, value []core.Match) {
	if node, ok := c.entries[key]; ok {
		node.value = value
		c.remove(node)
		c.insertFront(node)
		return
	}

	node := &lruNode{key: key, value: value}
	c.entries[key] = node
	c.insertFront(node)
	if len(c.entries) > c.capacity {
		c.evict()
	}
}

// Len returns the number of cached entries.
func (c *LRUCache) Len() int {
	return len(c.entries)
}

// Reset drops all entries but keeps the hit/miss counters.
func (c *LRUCache) Reset() {
	c.entries = make(map[string]*lruNode)
	c.head.next = c.tail
	c.tail.prev = c.head
}

// Stats reports cache capacity, size and effectiveness.
func (c *LRUCache) Stats() CacheStats {
	total := c.hits + c.misses
	ratio := 0.0
	if total > 0 {
		ratio = float64(c.hits) / float64(total)
	}
	return CacheStats{
		Capacity: c.capacity,
		Size:     len(c.entries),
		Hits:     c.hits,
		Misses:   c.misses,
		HitRatio: ratio,
	}
}

func (c *LRUCache) remove(node *lruNode) {
	node.prev.next = node.next
	node.next.prev = node.prev
	node.prev = nil
	node.next = nil
}

func (c *LRUCache) insertFront(node *lruNode) {
	node.next = c.head.next
	node.prev = c.head
	c.head.next.prev = node
	c.head.next = node
}

func (c *LRUCache) evict() {
	lru := c.tail.prev
	if lru == c.head {
		return
	}
	c.remove(lru)
	delete(c.entries, lru.key)
}
