package space

import (
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"
)

// Asteroid один астероид пояса: позиция без меша, чистая орбитальная точка
type Asteroid struct {
	OrbitRadius float64
	OrbitAngle  float64
	OrbitSpeed  float64
	Height      float64

	Position      mgl64.Vec3
	Rotation      mgl64.Vec3
	RotationSpeed mgl64.Vec3

	Scale float64
	Color mgl64.Vec3
}

// AsteroidBelt кольцевой пояс астероидов вокруг центра системы
type AsteroidBelt struct {
	InnerRadius float64
	OuterRadius float64
	Seed        int64

	SpeedMultiplier float64

	Asteroids []Asteroid
}

// NewAsteroidBelt детерминированно генерирует пояс из сида
func NewAsteroidBelt(innerRadius, outerRadius float64, count int, seed int64) *AsteroidBelt {
	belt := &AsteroidBelt{
		InnerRadius:     innerRadius,
		OuterRadius:     outerRadius,
		Seed:            seed,
		SpeedMultiplier: 1.0,
		Asteroids:       make([]Asteroid, 0, count),
	}

	rng := rand.New(rand.NewSource(seed))

	for i := 0; i < count; i++ {
		a := Asteroid{}

		a.OrbitRadius = uniform(rng, innerRadius, outerRadius)
		a.OrbitAngle = uniform(rng, 0.0, twoPi)
		// Внешние астероиды медленнее
		a.OrbitSpeed = uniform(rng, 0.1, 0.5) / a.OrbitRadius
		a.Height = uniform(rng, -2.0, 2.0)

		a.Position = mgl64.Vec3{
			a.OrbitRadius * math.Cos(a.OrbitAngle),
			a.Height,
			a.OrbitRadius * math.Sin(a.OrbitAngle),
		}

		a.Rotation = mgl64.Vec3{
			uniform(rng, 0.0, twoPi),
			uniform(rng, 0.0, twoPi),
			uniform(rng, 0.0, twoPi),
		}
		a.RotationSpeed = mgl64.Vec3{
			uniform(rng, -2.0, 2.0),
			uniform(rng, -2.0, 2.0),
			uniform(rng, -2.0, 2.0),
		}

		a.Scale = uniform(rng, 0.1, 0.8)

		// Серо-коричневый каменистый оттенок
		gray := uniform(rng, 0.3, 0.8)
		a.Color = mgl64.Vec3{gray * 0.8, gray * 0.7, gray * 0.6}

		belt.Asteroids = append(belt.Asteroids, a)
	}

	return belt
}

// Update продвигает орбиты и вращение всех астероидов пояса
func (b *AsteroidBelt) Update(dt float64) {
	for i := range b.Asteroids {
		a := &b.Asteroids[i]

		a.OrbitAngle = wrapAngle(a.OrbitAngle + a.OrbitSpeed*b.SpeedMultiplier*dt)

		a.Position[0] = a.OrbitRadius * math.Cos(a.OrbitAngle)
		a.Position[2] = a.OrbitRadius * math.Sin(a.OrbitAngle)
		// Высота остаётся постоянной

		a.Rotation = a.Rotation.Add(a.RotationSpeed.Mul(dt))
	}
}

// GenerateAsteroidBelts генерирует 1-3 пояса из сида systemSeed+1000
func GenerateAsteroidBelts(systemSeed int64) []*AsteroidBelt {
	rng := rand.New(rand.NewSource(systemSeed + 1000))

	beltCount := 1 + rng.Intn(3)
	belts := make([]*AsteroidBelt, 0, beltCount)

	for i := 0; i < beltCount; i++ {
		// Пояса разнесены по радиусу
		inner := uniform(rng, 40.0, 80.0) + float64(i)*50.0
		outer := inner + uniform(rng, 15.0, 30.0)
		count := 200 + rng.Intn(601)

		belts = append(belts, NewAsteroidBelt(inner, outer, count, systemSeed+int64(i)))
	}

	return belts
}
