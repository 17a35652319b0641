package mesh

import (
	"github.com/go-gl/mathgl/mgl64"
)

// Vertex одна вершина поверхности тела
type Vertex struct {
	Position mgl64.Vec3 `json:"position"`
	Normal   mgl64.Vec3 `json:"normal"`
	UV       mgl64.Vec2 `json:"uv"`
}

// SurfaceMesh сгенерированная геометрия поверхности тела.
// Создаётся целиком за один вызов Build и никогда не мутируется на месте:
// регенерация возвращает новый меш, который атомарно заменяет старый.
type SurfaceMesh struct {
	Vertices   []Vertex `json:"vertices"`
	Indices    []uint32 `json:"indices"`
	Resolution int      `json:"resolution"`
}

// VertexCount возвращает число вершин меша
func (m *SurfaceMesh) VertexCount() int {
	return len(m.Vertices)
}

// IndexCount возвращает число индексов меша
func (m *SurfaceMesh) IndexCount() int {
	return len(m.Indices)
}

// TriangleCount возвращает число треугольников меша
func (m *SurfaceMesh) TriangleCount() int {
	return len(m.Indices) / 3
}
