package space

import (
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"
)

// Разрешение меша лун: низкое, луны всегда мелкие объекты
const moonResolution = 16

// maxMoonsFor возвращает максимальное число лун для типа и радиуса родителя
func maxMoonsFor(parentType BodyType, parentRadius float64) int {
	switch {
	case parentType == TypeGasGiant:
		return 4
	case parentRadius > 8.0:
		return 3
	case parentRadius > 5.0:
		return 2
	default:
		return 1
	}
}

// GenerateSatellites детерминированно порождает 0..K лун для тела.
// Поток случайности засеян seed+54321; луны привязываются к живой позиции
// родителя, а не к её снимку.
func GenerateSatellites(parent *Body, seed int64) []*Body {
	rng := rand.New(rand.NewSource(seed + moonSeedOffset))

	maxMoons := maxMoonsFor(parent.Type, parent.Radius)
	moonCount := rng.Intn(maxMoons + 1)
	if moonCount == 0 {
		return nil
	}

	moons := make([]*Body, 0, moonCount)
	for i := 0; i < moonCount; i++ {
		// Диапазон радиуса луны может вырождаться для маленьких родителей;
		// границы упорядочиваются, чтобы розыгрыш оставался корректным
		radiusLo, radiusHi := 1.0, parent.Radius*0.3
		if radiusHi < radiusLo {
			radiusLo, radiusHi = radiusHi, radiusLo
		}

		moonRadius := uniform(rng, radiusLo, radiusHi)
		orbitRadius := uniform(rng, parent.Radius*2.0, parent.Radius*6.0)
		orbitSpeed := uniform(rng, 0.5, 2.0)

		// Сероватый цвет с вариацией
		color := mgl64.Vec3{
			uniform(rng, 0.6, 1.0) * 0.8,
			uniform(rng, 0.6, 1.0) * 0.8,
			uniform(rng, 0.6, 1.0) * 0.8,
		}

		// Небольшое наклонение ±0.1 рад для реалистичных лунных орбит
		inclination := uniform(rng, -0.1, 0.1)

		moons = append(moons, &Body{
			Seed:             seed + moonSeedOffset + int64(i),
			Type:             TypeRocky,
			Radius:           moonRadius,
			Resolution:       moonResolution,
			MeshDirty:        true,
			ColorBase:        color,
			parent:           parent,
			OrbitRadius:      orbitRadius,
			OrbitSpeed:       orbitSpeed,
			OrbitInclination: inclination,
			RotationSpeed:    2.0,
			Noise: NoiseParams{
				HeightScale: 0.1,
				Frequency:   0.05,
				Octaves:     3,
			},
		})
	}

	return moons
}
