package cache

import (
	"sort"
	"sync"
)

// SaveCache maps save names to their database row IDs so repeated writes of the
// same campaign skip the lookup query.
type SaveCache struct {
	m   sync.Mutex
	ids map[string]uint
}

func NewSaveCache() *SaveCache {
	return &SaveCache{
		ids: make(map[string]uint),
	}
}

func (c *SaveCache) Reset() {
	c.m.Lock()
	defer c.m.Unlock()
	c.ids = make(map[string]uint)
}

func (c *SaveCache) Get(name string) (uint, bool) {
	c.m.Lock()
	defer c.m.Unlock()
	id, ok := c.ids[name]
	return id, ok
}

func (c *SaveCache) Set(name string, id uint) {
	c.m.Lock()
	defer c.m.Unlock()
	c.ids[name] = id
}

func (c *SaveCache) Delete(name string) {
	c.m.Lock()
	defer c.m.Unlock()
	delete(c.ids, name)
}

// Counters is a thread-safe set of named counters
type Counters struct {
	mu sync.Mutex
	v  map[string]int
}

func NewCounters() *Counters {
	return &Counters{v: make(map[string]int)}
}

func (c *Counters) Value(key string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.v[key]
}

func (c *Counters) Inc(key string) {
	c.Add(key, 1)
}

func (c *Counters) Add(key string, n int) {
	c.mu.Lock()
	c.v[key] += n
	c.mu.Unlock()
}

// Snapshot copies the current values.
func (c *Counters) Snapshot() map[string]int {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]int, len(c.v))
	for k, v := range c.v {
		out[k] = v
	}
	return out
}

// Keys lists counter names in sorted order.
func (c *Counters) Keys() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	keys := make([]string, 0, len(c.v))
	for k := range c.v {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
