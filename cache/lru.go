package cache

import (
	"container/list"
	"strings"
	"sync"
	"time"

	"github.com/jatengdev/govrag/schema"
)

// Cache is the in-process answer cache. Keys already include the namespace,
// see Key.
type Cache interface {
	Get(key string) (schema.Answer, bool)
	Set(key string, ans schema.Answer, ttl time.Duration)
	Purge()
}

// Key builds a cache key from the store namespace and the raw question.
// Questions are normalized so trivial whitespace or casing differences hit
// the same entry; the namespace prefix keeps partitions from bleeding into
// each other.
func Key(namespace, question string) string {
	q := strings.Join(strings.Fields(strings.ToLower(question)), " ")
	return namespace + "\x00" + q
}

type entry struct {
	key     string
	answer  schema.Answer
	expires time.Time
	element *list.Element
}

type lruCache struct {
	mu       sync.Mutex
	capacity int
	ttl      time.Duration
	items    map[string]*entry
	order    *list.List
}

// NewLRU creates an LRU answer cache with capacity and default TTL.
func NewLRU(capacity int, ttl time.Duration) Cache {
	if capacity <= 0 {
		capacity = 512
	}
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &lruCache{
		capacity: capacity,
		ttl:      ttl,
		items:    make(map[string]*entry, capacity),
		order:    list.New(),
	}
}

func (c *lruCache) Get(key string) (schema.Answer, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ent, ok := c.items[key]; ok {
		if ent.expires.IsZero() || time.Now().Before(ent.expires) {
			c.order.MoveToFront(ent.element)
			return ent.answer, true
		}
		c.removeEntry(ent)
	}
	return schema.Answer{}, false
}

func (c *lruCache) Set(key string, ans schema.Answer, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ent, ok := c.items[key]; ok {
		ent.answer = ans
		ent.expires = c.computeExpiry(ttl)
		c.order.MoveToFront(ent.element)
		return
	}

	if len(c.items) >= c.capacity {
		c.evictOldest()
	}

	elem := c.order.PushFront(key)
	c.items[key] = &entry{
		key:     key,
		answer:  ans,
		expires: c.computeExpiry(ttl),
		element: elem,
	}
}

func (c *lruCache) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[string]*entry, c.capacity)
	c.order.Init()
}

func (c *lruCache) computeExpiry(ttl time.Duration) time.Time {
	if ttl <= 0 {
		ttl = c.ttl
	}
	if ttl <= 0 {
		return time.Time{}
	}
	return time.Now().Add(ttl)
}

func (c *lruCache) evictOldest() {
	elem := c.order.Back()
	if elem == nil {
		return
	}
	key := elem.Value.(string)
	if ent, ok := c.items[key]; ok {
		c.removeEntry(ent)
	}
}

func (c *lruCache) removeEntry(ent *entry) {
	if ent.element != nil {
		c.order.Remove(ent.element)
	}
	delete(c.items, ent.key)
}
