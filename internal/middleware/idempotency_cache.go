package middleware

import (
	"container/list"
	"sync"
	"time"
)

// idempotencyCapacity bounds the stored responses; the least recently used
// key is evicted first.
const idempotencyCapacity = 10000

type keyState int

const (
	// keyReserved means the caller now owns the key and must Complete or Release it.
	keyReserved keyState = iota
	// keyStored means a response is available for replay.
	keyStored
	// keyInFlight means another request with the same key is still running.
	keyInFlight
)

type idempotencyEntry struct {
	key      string
	resp     *cachedResponse
	reserved time.Time
}

// idempotencyCache holds replayable responses and the keys of requests still
// being handled, in LRU order.
type idempotencyCache struct {
	mu       sync.Mutex
	items    map[string]*list.Element
	order    *list.List
	ttl      time.Duration
	capacity int
	stopCh   chan struct{}
	stopOnce sync.Once
}

func newIdempotencyCache(ttl time.Duration, capacity int) *idempotencyCache {
	if capacity <= 0 {
		capacity = idempotencyCapacity
	}
	c := &idempotencyCache{
		items:    make(map[string]*list.Element),
		order:    list.New(),
		ttl:      ttl,
		capacity: capacity,
		stopCh:   make(chan struct{}),
	}
	go c.startCleanup()
	return c
}

// Begin looks key up and reserves it when it is unknown or expired.
func (c *idempotencyCache) Begin(key string) (*cachedResponse, keyState) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	if el, ok := c.items[key]; ok {
		e := el.Value.(*idempotencyEntry)
		if !c.expired(e, now) {
			c.order.MoveToFront(el)
			if e.resp == nil {
				return nil, keyInFlight
			}
			return e.resp, keyStored
		}
		c.remove(el)
	}

	c.items[key] = c.order.PushFront(&idempotencyEntry{key: key, reserved: now})
	c.evict()
	return nil, keyReserved
}

// Complete stores the response of a reserved key.
func (c *idempotencyCache) Complete(key string, resp *cachedResponse) {
	c.mu.Lock()
	defer c.mu.Unlock()

	resp.Timestamp = time.Now()
	if el, ok := c.items[key]; ok {
		el.Value.(*idempotencyEntry).resp = resp
		c.order.MoveToFront(el)
		return
	}
	c.items[key] = c.order.PushFront(&idempotencyEntry{key: key, resp: resp, reserved: resp.Timestamp})
	c.evict()
}

// Release frees a reservation whose request produced nothing to replay.
func (c *idempotencyCache) Release(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[key]; ok && el.Value.(*idempotencyEntry).resp == nil {
		c.remove(el)
	}
}

// Len returns the number of keys held, reservations included.
func (c *idempotencyCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Stop ends the cleanup goroutine. Safe to call more than once.
func (c *idempotencyCache) Stop() {
	c.stopOnce.Do(func() { close(c.stopCh) })
}

// expired reports whether a stored response or an abandoned reservation is
// older than the TTL.
func (c *idempotencyCache) expired(e *idempotencyEntry, now time.Time) bool {
	if e.resp != nil {
		return now.Sub(e.resp.Timestamp) > c.ttl
	}
	return now.Sub(e.reserved) > c.ttl
}

func (c *idempotencyCache) remove(el *list.Element) {
	c.order.Remove(el)
	delete(c.items, el.Value.(*idempotencyEntry).key)
}

func (c *idempotencyCache) evict() {
	for c.order.Len() > c.capacity {
		c.remove(c.order.Back())
	}
}

func (c *idempotencyCache) startCleanup() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.cleanup()
		case <-c.stopCh:
			return
		}
	}
}

func (c *idempotencyCache) cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for el := c.order.Back(); el != nil; {
		prev := el.Prev()
		if c.expired(el.Value.(*idempotencyEntry), now) {
			c.remove(el)
		}
		el = prev
	}
}
