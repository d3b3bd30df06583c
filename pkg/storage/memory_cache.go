package storage

import (
	"container/list"
	"sync"
	"time"
)

// DefaultCacheCapacity bounds the request cache when no size is configured.
const DefaultCacheCapacity = 100

// cacheItem represents an item in the cache
type cacheItem struct {
	key       string
	value     interface{}
	timestamp time.Time
	element   *list.Element
}

// MemoryCache is a bounded LRU cache. A read hit counts as use. Entries only
// leave the cache through capacity eviction unless a TTL is configured, in
// which case expiry is checked lazily on Get.
type MemoryCache struct {
	maxSize int
	items   map[string]*cacheItem
	lruList *list.List
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time

	hits      uint64
	misses    uint64
	evictions uint64
}

// NewMemoryCache creates a new in-memory cache with specified size
func NewMemoryCache(maxSize int) *MemoryCache {
	return NewMemoryCacheWithTTL(maxSize, 0)
}

// NewMemoryCacheWithTTL creates a new in-memory cache with TTL. A zero ttl
// disables time-based expiry.
func NewMemoryCacheWithTTL(maxSize int, ttl time.Duration) *MemoryCache {
	if maxSize <= 0 {
		maxSize = DefaultCacheCapacity
	}
	return &MemoryCache{
		maxSize: maxSize,
		items:   make(map[string]*cacheItem),
		lruList: list.New(),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Set adds or updates an item in the cache
func (mc *MemoryCache) Set(key string, value interface{}) error {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	now := mc.now()

	if item, exists := mc.items[key]; exists {
		item.value = value
		item.timestamp = now
		mc.lruList.MoveToFront(item.element)
		return nil
	}

	item := &cacheItem{
		key:       key,
		value:     value,
		timestamp: now,
	}
	item.element = mc.lruList.PushFront(item)
	mc.items[key] = item

	for len(mc.items) > mc.maxSize {
		mc.evictOldest()
	}

	return nil
}

// Get retrieves an item from the cache
func (mc *MemoryCache) Get(key string) (interface{}, bool) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	item, exists := mc.items[key]
	if !exists {
		mc.misses++
		return nil, false
	}

	if mc.ttl > 0 && mc.now().Sub(item.timestamp) > mc.ttl {
		mc.deleteItem(item)
		mc.misses++
		return nil, false
	}

	mc.lruList.MoveToFront(item.element)
	mc.hits++

	return item.value, true
}

// Delete removes an item from the cache
func (mc *MemoryCache) Delete(key string) error {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	if item, exists := mc.items[key]; exists {
		mc.deleteItem(item)
	}

	return nil
}

// Clear removes all items from the cache
func (mc *MemoryCache) Clear() error {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	mc.items = make(map[string]*cacheItem)
	mc.lruList = list.New()

	return nil
}

// Size returns the current number of items in the cache
func (mc *MemoryCache) Size() int {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	return len(mc.items)
}

// Keys returns all keys from most to least recently used.
func (mc *MemoryCache) Keys() []string {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	keys := make([]string, 0, len(mc.items))
	for e := mc.lruList.Front(); e != nil; e = e.Next() {
		keys = append(keys, e.Value.(*cacheItem).key)
	}

	return keys
}

// Stats returns cache statistics
func (mc *MemoryCache) Stats() CacheStats {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	return CacheStats{
		Size:      len(mc.items),
		MaxSize:   mc.maxSize,
		TTL:       mc.ttl,
		Hits:      mc.hits,
		Misses:    mc.misses,
		Evictions: mc.evictions,
	}
}

// evictOldest removes the least recently used item
func (mc *MemoryCache) evictOldest() {
	element := mc.lruList.Back()
	if element != nil {
		mc.deleteItem(element.Value.(*cacheItem))
		mc.evictions++
	}
}

// deleteItem removes an item from both map and list
func (mc *MemoryCache) deleteItem(item *cacheItem) {
	delete(mc.items, item.key)
	mc.lruList.Remove(item.element)
}

// CacheStats represents cache statistics
type CacheStats struct {
	Size      int           `json:"size"`
	MaxSize   int           `json:"max_size"`
	TTL       time.Duration `json:"ttl"`
	Hits      uint64        `json:"hits"`
	Misses    uint64        `json:"misses"`
	Evictions uint64        `json:"evictions"`
}
