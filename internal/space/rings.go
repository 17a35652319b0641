package space

import (
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"
)

// RingParticle одна частица планетарного кольца
type RingParticle struct {
	OrbitRadius float64
	OrbitAngle  float64
	OrbitSpeed  float64
	Height      float64

	Position mgl64.Vec3
	Size     float64
	Color    mgl64.Vec3
	Alpha    float64
}

// PlanetaryRings кольца вокруг планеты. Частицы обращаются вокруг живой
// позиции планеты-владельца, перечитываемой каждый тик.
type PlanetaryRings struct {
	Planet      *Body
	InnerRadius float64
	OuterRadius float64
	Seed        int64

	SpeedMultiplier float64

	Particles []RingParticle
}

// NewPlanetaryRings детерминированно генерирует кольца из сида
func NewPlanetaryRings(planet *Body, innerRadius, outerRadius float64, particleCount int, seed int64) *PlanetaryRings {
	rings := &PlanetaryRings{
		Planet:          planet,
		InnerRadius:     innerRadius,
		OuterRadius:     outerRadius,
		Seed:            seed,
		SpeedMultiplier: 1.0,
		Particles:       make([]RingParticle, 0, particleCount),
	}

	rng := rand.New(rand.NewSource(seed))
	width := outerRadius - innerRadius

	for i := 0; i < particleCount; i++ {
		p := RingParticle{}

		p.OrbitRadius = uniform(rng, innerRadius, outerRadius)
		p.OrbitAngle = uniform(rng, 0.0, twoPi)

		// Внутренние частицы обращаются быстрее
		normalized := (p.OrbitRadius - innerRadius) / width
		p.OrbitSpeed = uniform(rng, 0.5, 2.0) / (1.0 + normalized*2.0)

		// Кольца очень тонкие
		p.Height = uniform(rng, -0.2, 0.2)
		p.Size = uniform(rng, 0.02, 0.1)

		// Ближе к планете больше льда (голубовато-белый),
		// дальше — каменистые коричневатые частицы
		colorVar := uniform(rng, 0.6, 1.0)
		if 1.0-normalized > 0.5 {
			p.Color = mgl64.Vec3{colorVar * 0.9, colorVar * 0.95, colorVar}
		} else {
			p.Color = mgl64.Vec3{colorVar, colorVar * 0.8, colorVar * 0.6}
		}

		p.Alpha = uniform(rng, 0.3, 0.8)

		rings.Particles = append(rings.Particles, p)
	}

	rings.updatePositions()
	return rings
}

// Update продвигает орбиты частиц вокруг текущей позиции планеты
func (r *PlanetaryRings) Update(dt float64) {
	for i := range r.Particles {
		p := &r.Particles[i]
		p.OrbitAngle = wrapAngle(p.OrbitAngle + p.OrbitSpeed*r.SpeedMultiplier*dt)
	}
	r.updatePositions()
}

// updatePositions пересчитывает мировые позиции частиц от живой позиции планеты
func (r *PlanetaryRings) updatePositions() {
	center := mgl64.Vec3{}
	if r.Planet != nil {
		center = r.Planet.WorldPosition
	}

	for i := range r.Particles {
		p := &r.Particles[i]
		p.Position = center.Add(mgl64.Vec3{
			p.OrbitRadius * math.Cos(p.OrbitAngle),
			p.Height,
			p.OrbitRadius * math.Sin(p.OrbitAngle),
		})
	}
}

// GenerateSystemRings порождает кольца для газовых гигантов системы.
// Поток случайности засеян systemSeed+2000; шанс колец у гиганта 60%.
func GenerateSystemRings(systemSeed int64, bodies []*Body) []*PlanetaryRings {
	rng := rand.New(rand.NewSource(systemSeed + 2000))

	var rings []*PlanetaryRings
	for i, body := range bodies {
		if body.Type != TypeGasGiant {
			continue
		}
		if rng.Float64() <= 0.4 {
			continue
		}

		inner := body.Radius * 1.5
		outer := inner + uniform(rng, 2.0, 8.0)
		particles := 500 + rng.Intn(1501)

		rings = append(rings, NewPlanetaryRings(body, inner, outer, particles, systemSeed+int64(i)))
	}

	return rings
}
