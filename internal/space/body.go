package space

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/annel0/solar-sim/internal/mesh"
)

// BodyType представляет тип небесного тела
type BodyType int

const (
	TypeRocky BodyType = iota
	TypeGasGiant
	TypeIce
	TypeDesert
)

// String возвращает строковое представление типа тела
func (t BodyType) String() string {
	switch t {
	case TypeRocky:
		return "rocky"
	case TypeGasGiant:
		return "gas_giant"
	case TypeIce:
		return "ice"
	case TypeDesert:
		return "desert"
	default:
		return "unknown"
	}
}

const twoPi = 2.0 * math.Pi

// NoiseParams параметры шума поверхности одного тела
type NoiseParams struct {
	HeightScale float64
	Frequency   float64
	Octaves     int
}

// Body небесное тело: планета или луна.
// Тело эксклюзивно владеет своими лунами и своим мешем поверхности.
type Body struct {
	Seed int64
	Type BodyType

	Radius     float64
	Resolution int
	MeshDirty  bool

	ColorBase mgl64.Vec3

	// Орбита. Для планеты центр — начало координат системы, для луны —
	// живая позиция родителя, перечитываемая каждый тик.
	parent            *Body
	OrbitRadius       float64
	OrbitAngle        float64
	OrbitSpeed        float64
	OrbitInclination  float64
	OrbitEccentricity float64

	RotationAngle float64
	RotationSpeed float64

	// WorldPosition пересчитывается каждый тик из параметров орбиты
	WorldPosition mgl64.Vec3

	Noise NoiseParams
	Mesh  *mesh.SurfaceMesh

	Moons []*Body
}

// wrapAngle приводит угол к диапазону [0, 2π).
// При ограниченной дельте за тик достаточно по одному вычитанию,
// но величина угла никогда не растёт неограниченно.
func wrapAngle(a float64) float64 {
	for a >= twoPi {
		a -= twoPi
	}
	for a < 0 {
		a += twoPi
	}
	return a
}

// OrbitCenter возвращает текущий центр орбиты тела
func (b *Body) OrbitCenter() mgl64.Vec3 {
	if b.parent != nil {
		return b.parent.WorldPosition
	}
	return mgl64.Vec3{}
}

// Parent возвращает родительское тело (nil для планет)
func (b *Body) Parent() *Body {
	return b.parent
}

// Update продвигает состояние тела на dt секунд в фиксированном порядке:
// интеграция вращения, интеграция орбиты, вывод позиции. Затем обновляются
// луны — позиция родителя к этому моменту уже финализирована.
func (b *Body) Update(dt float64) {
	b.RotationAngle = wrapAngle(b.RotationAngle + b.RotationSpeed*dt)
	b.OrbitAngle = wrapAngle(b.OrbitAngle + b.OrbitSpeed*dt)
	b.WorldPosition = b.OrbitCenter().Add(b.orbitOffset())

	for _, moon := range b.Moons {
		moon.Update(dt)
	}
}

// orbitOffset вычисляет смещение тела относительно центра орбиты.
// Упрощённая эллиптическая аппроксимация r = R(1 - e·cos a), не точный
// кеплеровский интегратор; сохранена намеренно ради воспроизводимости.
func (b *Body) orbitOffset() mgl64.Vec3 {
	r := b.OrbitRadius * (1.0 - b.OrbitEccentricity*math.Cos(b.OrbitAngle))

	x := r * math.Cos(b.OrbitAngle)
	z := r * math.Sin(b.OrbitAngle)
	y := 0.0

	// Наклонение орбиты: поворот (y, z) вокруг локальной оси x
	if b.OrbitInclination != 0 {
		sinI := math.Sin(b.OrbitInclination)
		cosI := math.Cos(b.OrbitInclination)
		y, z = y*cosI-z*sinI, y*sinI+z*cosI
	}

	return mgl64.Vec3{x, y, z}
}

// SetResolution устанавливает разрешение меша (минимум 2)
// и помечает меш на регенерацию при изменении.
func (b *Body) SetResolution(resolution int) {
	if resolution < 2 {
		resolution = 2
	}
	if b.Resolution != resolution {
		b.Resolution = resolution
		b.MeshDirty = true
	}
}

// Regenerate перестраивает меш поверхности тела. Новый меш заменяет
// старый целиком: читатели никогда не видят частично построенную геометрию.
func (b *Body) Regenerate(builder *mesh.Builder) error {
	m, err := builder.Build(mesh.Params{
		Radius:      b.Radius,
		Resolution:  b.Resolution,
		HeightScale: b.Noise.HeightScale,
		Frequency:   b.Noise.Frequency,
		Octaves:     b.Noise.Octaves,
	})
	if err != nil {
		return err
	}

	b.Mesh = m
	b.MeshDirty = false
	return nil
}
