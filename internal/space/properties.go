package space

import (
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"
)

// Сдвиги сидов вторичных потоков случайности
const (
	orbitalSeedOffset = 12345
	moonSeedOffset    = 54321
)

// Properties физические свойства тела, выведенные из сида и дистанции
type Properties struct {
	Radius        float64
	Color         mgl64.Vec3
	RotationSpeed float64
	Type          BodyType
}

// DeriveProperties детерминированно выводит свойства тела из сида
// и дистанции до центра системы. Все розыгрыши идут из одного потока,
// засеянного seed, в фиксированном порядке: тип, радиус, джиттер цвета
// (r, g, b), вращение — порядок является частью контракта.
func DeriveProperties(seed int64, distance float64) Properties {
	rng := rand.New(rand.NewSource(seed))

	// Тип тела по поясу дистанций
	var bodyType BodyType
	switch {
	case distance < 50.0:
		// Внутренняя система: 50/50 каменистые и пустынные
		if rng.Intn(4) <= 1 {
			bodyType = TypeRocky
		} else {
			bodyType = TypeDesert
		}
	case distance < 150.0:
		// Средняя система: каменистые, газовые гиганты или ледяные
		bodyType = BodyType(rng.Intn(3))
	default:
		// Внешняя система: газовые гиганты и ледяные
		if rng.Intn(2) == 0 {
			bodyType = TypeGasGiant
		} else {
			bodyType = TypeIce
		}
	}

	// Радиус по поясу дистанций
	var radius float64
	switch {
	case distance < 50.0:
		radius = uniform(rng, 0.8, 2.5)
	case distance < 100.0:
		radius = uniform(rng, 1.5, 4.0)
	default:
		radius = uniform(rng, 2.0, 8.0)
	}

	switch bodyType {
	case TypeGasGiant:
		radius *= 2.2
	case TypeIce:
		radius *= 1.4
	}

	// Базовый цвет типа с небольшим джиттером по каналам
	color := baseColor(bodyType)
	color[0] = clamp(color[0]+uniform(rng, -0.1, 0.1), 0.2, 1.0)
	color[1] = clamp(color[1]+uniform(rng, -0.1, 0.1), 0.2, 1.0)
	color[2] = clamp(color[2]+uniform(rng, -0.1, 0.1), 0.2, 1.0)

	// Меньшие тела вращаются быстрее, газовые гиганты — медленнее
	rotationSpeed := uniform(rng, 0.1, 2.0) / radius
	if bodyType == TypeGasGiant {
		rotationSpeed *= 0.5
	}

	return Properties{
		Radius:        radius,
		Color:         color,
		RotationSpeed: rotationSpeed,
		Type:          bodyType,
	}
}

// baseColor возвращает базовый цвет для типа тела
func baseColor(t BodyType) mgl64.Vec3 {
	switch t {
	case TypeRocky:
		return mgl64.Vec3{0.6, 0.5, 0.4}
	case TypeGasGiant:
		return mgl64.Vec3{0.8, 0.6, 0.3}
	case TypeIce:
		return mgl64.Vec3{0.7, 0.8, 0.9}
	case TypeDesert:
		return mgl64.Vec3{0.8, 0.7, 0.4}
	default:
		return mgl64.Vec3{0.5, 0.5, 0.5}
	}
}

// deriveNoiseParams выводит параметры шума поверхности из сида тела
func deriveNoiseParams(seed int64) NoiseParams {
	rng := rand.New(rand.NewSource(seed))
	return NoiseParams{
		HeightScale: uniform(rng, 0.1, 0.8),
		Frequency:   uniform(rng, 0.01, 0.05),
		Octaves:     3 + rng.Intn(4),
	}
}

// deriveOrbitalVariation выводит наклонение и эксцентриситет орбиты
// из вторичного потока случайности seed+12345
func deriveOrbitalVariation(seed int64) (inclination, eccentricity float64) {
	rng := rand.New(rand.NewSource(seed + orbitalSeedOffset))
	inclination = uniform(rng, -0.1, 0.1)
	eccentricity = uniform(rng, 0.0, 0.2)
	return inclination, eccentricity
}

// uniform возвращает равномерное значение в [lo, hi)
func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}

// clamp ограничивает v диапазоном [lo, hi]
func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
