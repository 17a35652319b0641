package mesh

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/annel0/solar-sim/internal/noise"
)

// ErrConfiguration ошибка конфигурации построения меша.
// Вызывающий обязан отклонить или ограничить параметры до вызова Build.
var ErrConfiguration = errors.New("некорректная конфигурация меша")

// Face грань куба при проекции куб-сфера
type Face int

const (
	FacePositiveX Face = iota
	FaceNegativeX
	FacePositiveY
	FaceNegativeY
	FacePositiveZ
	FaceNegativeZ

	faceCount = 6
)

// Params параметры построения поверхности одного тела
type Params struct {
	Radius      float64 // Радиус тела (> 0)
	Resolution  int     // Вершин на ребро грани куба (>= 2)
	HeightScale float64 // Масштаб высотного смещения
	Frequency   float64 // Частота шума для высоты
	Octaves     int     // Октавы фрактального шума
}

// Builder строит меши поверхностей через проекцию куба на сферу
// с высотным смещением из генератора шума.
type Builder struct {
	noise *noise.Generator
}

// NewBuilder создаёт построитель мешей с указанным источником шума
func NewBuilder(gen *noise.Generator) *Builder {
	return &Builder{noise: gen}
}

// Build генерирует меш поверхности. Детерминирован: повторный вызов
// с теми же параметрами и сидом шума даёт бит-в-бит идентичную геометрию.
func (b *Builder) Build(p Params) (*SurfaceMesh, error) {
	if p.Resolution < 2 {
		return nil, fmt.Errorf("%w: resolution %d < 2", ErrConfiguration, p.Resolution)
	}
	if b.noise == nil {
		return nil, fmt.Errorf("%w: источник шума не задан", ErrConfiguration)
	}

	r := p.Resolution
	verticesPerFace := r * r
	indicesPerFace := (r - 1) * (r - 1) * 6

	m := &SurfaceMesh{
		Vertices:   make([]Vertex, 0, verticesPerFace*faceCount),
		Indices:    make([]uint32, 0, indicesPerFace*faceCount),
		Resolution: r,
	}

	for face := Face(0); face < faceCount; face++ {
		vertexOffset := uint32(int(face) * verticesPerFace)
		b.buildFace(m, face, p, vertexOffset)
	}

	return m, nil
}

// buildFace генерирует вершины и индексы одной грани куба
func (b *Builder) buildFace(m *SurfaceMesh, face Face, p Params, vertexOffset uint32) {
	r := p.Resolution

	for y := 0; y < r; y++ {
		for x := 0; x < r; x++ {
			u := float64(x) / float64(r-1)
			v := float64(y) / float64(r-1)

			spherePos := cubeToSphere(face, u, v)
			height := b.noise.Fractal3D(spherePos.X(), spherePos.Y(), spherePos.Z(), p.Frequency, p.Octaves)

			m.Vertices = append(m.Vertices, Vertex{
				Position: spherePos.Mul(p.Radius + height*p.HeightScale),
				// Нормаль несмещённой сферы: известное упрощение,
				// освещение крутого рельефа будет неточным
				Normal: spherePos,
				UV:     mgl64.Vec2{u, v},
			})
		}
	}

	for y := 0; y < r-1; y++ {
		for x := 0; x < r-1; x++ {
			topLeft := vertexOffset + uint32(y*r+x)
			topRight := topLeft + 1
			bottomLeft := topLeft + uint32(r)
			bottomRight := bottomLeft + 1

			m.Indices = append(m.Indices,
				topLeft, bottomLeft, topRight,
				topRight, bottomLeft, bottomRight,
			)
		}
	}
}

// cubeToSphere отображает точку (u, v) грани куба на единичную сферу.
// Используется кубическо-сферическая коррекция, снижающая неравномерность
// плотности вершин по сравнению с наивной нормализацией.
func cubeToSphere(face Face, u, v float64) mgl64.Vec3 {
	// u, v из [0, 1] в [-1, 1]
	x := 2.0*u - 1.0
	y := 2.0*v - 1.0

	var cube mgl64.Vec3
	switch face {
	case FacePositiveX:
		cube = mgl64.Vec3{1.0, -y, -x}
	case FaceNegativeX:
		cube = mgl64.Vec3{-1.0, -y, x}
	case FacePositiveY:
		cube = mgl64.Vec3{x, 1.0, y}
	case FaceNegativeY:
		cube = mgl64.Vec3{x, -1.0, -y}
	case FacePositiveZ:
		cube = mgl64.Vec3{x, -y, 1.0}
	case FaceNegativeZ:
		cube = mgl64.Vec3{-x, -y, -1.0}
	}

	x2 := cube.X() * cube.X()
	y2 := cube.Y() * cube.Y()
	z2 := cube.Z() * cube.Z()

	sphere := mgl64.Vec3{
		cube.X() * math.Sqrt(1.0-y2*0.5-z2*0.5+y2*z2/3.0),
		cube.Y() * math.Sqrt(1.0-z2*0.5-x2*0.5+z2*x2/3.0),
		cube.Z() * math.Sqrt(1.0-x2*0.5-y2*0.5+x2*y2/3.0),
	}

	return sphere.Normalize()
}
