package cache

import (
	"container/list"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/annel0/solar-sim/internal/mesh"
)

// MeshCache — LRU-кеш построенных мешей поверхности.
// Переключение уровня LOD туда-обратно не должно перестраивать геометрию:
// меш детерминирован по паре (сид тела, разрешение), поэтому однажды
// построенный результат можно переиспользовать.
//
// Использование:
//
//	c := cache.NewMeshCache(128)
//	if m, ok := c.Get(seed, resolution); ok { ... }
//	c.Put(seed, resolution, m)
type MeshCache struct {
	mu       sync.Mutex
	capacity int
	entries  map[string]*list.Element
	order    *list.List // свежие в начале

	// Метрики (atomic для чтения без блокировки)
	hits      int64
	misses    int64
	evictions int64
}

type meshEntry struct {
	key  string
	mesh *mesh.SurfaceMesh
}

// CacheMetrics — счётчики обращений к кешу.
type CacheMetrics struct {
	Hits      int64
	Misses    int64
	Evictions int64
	Size      int
}

// NewMeshCache создаёт кеш на capacity мешей (минимум 1).
func NewMeshCache(capacity int) *MeshCache {
	if capacity < 1 {
		capacity = 1
	}
	return &MeshCache{
		capacity: capacity,
		entries:  make(map[string]*list.Element),
		order:    list.New(),
	}
}

func meshKey(seed int64, resolution int) string {
	return fmt.Sprintf("%d:%d", seed, resolution)
}

// Get возвращает меш для пары (сид, разрешение) если он в кеше.
func (c *MeshCache) Get(seed int64, resolution int) (*mesh.SurfaceMesh, bool) {
	key := meshKey(seed, resolution)

	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.entries[key]
	if !ok {
		atomic.AddInt64(&c.misses, 1)
		return nil, false
	}

	c.order.MoveToFront(elem)
	atomic.AddInt64(&c.hits, 1)
	return elem.Value.(*meshEntry).mesh, true
}

// Put сохраняет меш, вытесняя самый давний при переполнении.
func (c *MeshCache) Put(seed int64, resolution int, m *mesh.SurfaceMesh) {
	if m == nil {
		return
	}
	key := meshKey(seed, resolution)

	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.entries[key]; ok {
		elem.Value.(*meshEntry).mesh = m
		c.order.MoveToFront(elem)
		return
	}

	c.entries[key] = c.order.PushFront(&meshEntry{key: key, mesh: m})

	if c.order.Len() > c.capacity {
		oldest := c.order.Back()
		if oldest != nil {
			c.order.Remove(oldest)
			delete(c.entries, oldest.Value.(*meshEntry).key)
			atomic.AddInt64(&c.evictions, 1)
		}
	}
}

// Invalidate удаляет все разрешения указанного сида.
// Вызывается при смене параметров шума тела.
func (c *MeshCache) Invalidate(seed int64) {
	prefix := fmt.Sprintf("%d:", seed)

	c.mu.Lock()
	defer c.mu.Unlock()

	for elem := c.order.Front(); elem != nil; {
		next := elem.Next()
		entry := elem.Value.(*meshEntry)
		if len(entry.key) > len(prefix) && entry.key[:len(prefix)] == prefix {
			c.order.Remove(elem)
			delete(c.entries, entry.key)
		}
		elem = next
	}
}

// Clear опустошает кеш. Вызывается при генерации новой системы.
func (c *MeshCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*list.Element)
	c.order.Init()
}

// GetMetrics возвращает метрики кеша.
func (c *MeshCache) GetMetrics() *CacheMetrics {
	c.mu.Lock()
	size := c.order.Len()
	c.mu.Unlock()

	return &CacheMetrics{
		Hits:      atomic.LoadInt64(&c.hits),
		Misses:    atomic.LoadInt64(&c.misses),
		Evictions: atomic.LoadInt64(&c.evictions),
		Size:      size,
	}
}
