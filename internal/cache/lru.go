// internal/cache/lru.go
//
// Small, mutex-guarded LRU used for per-session form workspaces and as the
// in-memory fallback for computed schedules.  Entries may carry an expiry; an
// expired entry behaves like a miss and is removed on access.  No external
// deps; good for a few thousand entries.
package cache

import (
	"container/list"
	"sync"
	"time"
)

// LRU is a least-recently-used cache safe for concurrent use.
type LRU[K comparable, V any] struct {
	mu      sync.Mutex
	cap     int
	ll      *list.List
	dict    map[K]*list.Element
	onEvict func(K, V)
	now     func() time.Time
}

type pair[K comparable, V any] struct {
	key K
	val V
	exp time.Time // zero = never
}

// New returns an LRU with the given capacity.  Panics on capacity < 1.
func New[K comparable, V any](capacity int) *LRU[K, V] {
	if capacity < 1 {
		panic("cache: capacity must be ≥1")
	}
	return &LRU[K, V]{
		cap:  capacity,
		ll:   list.New(),
		dict: make(map[K]*list.Element, capacity),
		now:  time.Now,
	}
}

// OnEvict registers fn to run whenever an entry leaves the cache through
// capacity pressure, expiry, or Remove.  Call before first use.
func (c *LRU[K, V]) OnEvict(fn func(K, V)) { c.onEvict = fn }

// Get retrieves a value and marks it MRU.
func (c *LRU[K, V]) Get(key K) (val V, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	ele, hit := c.dict[key]
	if !hit {
		return val, false
	}
	p := ele.Value.(pair[K, V])
	if !p.exp.IsZero() && !c.now().Before(p.exp) {
		c.removeLocked(ele)
		return val, false
	}
	c.ll.MoveToFront(ele)
	return p.val, true
}

// Add inserts or updates a value that never expires.
func (c *LRU[K, V]) Add(key K, val V) { c.AddTTL(key, val, 0) }

// AddTTL inserts or updates a value that expires after ttl (0 = never).
func (c *LRU[K, V]) AddTTL(key K, val V, ttl time.Duration) {
	var exp time.Time
	if ttl > 0 {
		exp = c.now().Add(ttl)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if ele, hit := c.dict[key]; hit {
		ele.Value = pair[K, V]{key, val, exp}
		c.ll.MoveToFront(ele)
		return
	}
	ele := c.ll.PushFront(pair[K, V]{key, val, exp})
	c.dict[key] = ele
	if c.ll.Len() > c.cap {
		c.removeLocked(c.ll.Back())
	}
}

// GetOrAdd returns the cached value for key, or stores and returns the result
// of mk.  The boolean reports whether mk ran.
func (c *LRU[K, V]) GetOrAdd(key K, mk func() V) (V, bool) {
	if v, ok := c.Get(key); ok {
		return v, false
	}
	c.mu.Lock()
	if ele, hit := c.dict[key]; hit {
		v := ele.Value.(pair[K, V]).val
		c.mu.Unlock()
		return v, false
	}
	v := mk()
	ele := c.ll.PushFront(pair[K, V]{key: key, val: v})
	c.dict[key] = ele
	if c.ll.Len() > c.cap {
		c.removeLocked(c.ll.Back())
	}
	c.mu.Unlock()
	return v, true
}

// Remove deletes key if present.
func (c *LRU[K, V]) Remove(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if ele, hit := c.dict[key]; hit {
		c.removeLocked(ele)
	}
}

// Len reports current size.
func (c *LRU[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ll.Len()
}

func (c *LRU[K, V]) removeLocked(ele *list.Element) {
	p := ele.Value.(pair[K, V])
	c.ll.Remove(ele)
	delete(c.dict, p.key)
	if c.onEvict != nil {
		c.onEvict(p.key, p.val)
	}
}
