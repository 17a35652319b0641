package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/annel0/solar-sim/internal/mesh"
)

func testMesh(resolution int) *mesh.SurfaceMesh {
	return &mesh.SurfaceMesh{
		Vertices:   make([]mesh.Vertex, 6*resolution*resolution),
		Resolution: resolution,
	}
}

// TestMeshCacheHitMiss тестирует базовый цикл put/get и метрики.
func TestMeshCacheHitMiss(t *testing.T) {
	c := NewMeshCache(4)

	_, ok := c.Get(1, 16)
	assert.False(t, ok, "Пустой кеш не должен отдавать меш")

	m := testMesh(16)
	c.Put(1, 16, m)

	got, ok := c.Get(1, 16)
	require.True(t, ok, "Сохранённый меш не найден")
	assert.Same(t, m, got, "Кеш вернул другой меш")

	// Другое разрешение того же сида — отдельная запись
	_, ok = c.Get(1, 32)
	assert.False(t, ok)

	metrics := c.GetMetrics()
	assert.Equal(t, int64(1), metrics.Hits)
	assert.Equal(t, int64(2), metrics.Misses)
	assert.Equal(t, 1, metrics.Size)
}

// TestMeshCacheEviction тестирует вытеснение самого давнего меша.
func TestMeshCacheEviction(t *testing.T) {
	c := NewMeshCache(2)

	c.Put(1, 16, testMesh(16))
	c.Put(2, 16, testMesh(16))

	// Касаемся сида 1, делая сид 2 самым давним
	_, ok := c.Get(1, 16)
	require.True(t, ok)

	c.Put(3, 16, testMesh(16))

	_, ok = c.Get(2, 16)
	assert.False(t, ok, "Самый давний меш не был вытеснен")
	_, ok = c.Get(1, 16)
	assert.True(t, ok, "Недавно использованный меш был вытеснен")
	_, ok = c.Get(3, 16)
	assert.True(t, ok)

	assert.Equal(t, int64(1), c.GetMetrics().Evictions)
}

// TestMeshCacheInvalidate тестирует удаление всех разрешений сида.
func TestMeshCacheInvalidate(t *testing.T) {
	c := NewMeshCache(8)

	c.Put(1, 16, testMesh(16))
	c.Put(1, 32, testMesh(32))
	c.Put(2, 16, testMesh(16))

	c.Invalidate(1)

	_, ok := c.Get(1, 16)
	assert.False(t, ok)
	_, ok = c.Get(1, 32)
	assert.False(t, ok)
	_, ok = c.Get(2, 16)
	assert.True(t, ok, "Инвалидация задела чужой сид")
}

// TestMeshCacheClear тестирует полную очистку.
func TestMeshCacheClear(t *testing.T) {
	c := NewMeshCache(8)
	c.Put(1, 16, testMesh(16))
	c.Put(2, 16, testMesh(16))

	c.Clear()

	assert.Equal(t, 0, c.GetMetrics().Size)
	_, ok := c.Get(1, 16)
	assert.False(t, ok)
}

// TestMeshCacheNilMesh тестирует игнорирование nil-мешей.
func TestMeshCacheNilMesh(t *testing.T) {
	c := NewMeshCache(4)
	c.Put(1, 16, nil)

	_, ok := c.Get(1, 16)
	assert.False(t, ok, "Nil-меш не должен кешироваться")
}
