package space

import (
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"
)

// Star центральное светило системы
type Star struct {
	Radius      float64
	Temperature float64
	Color       mgl64.Vec3

	RotationAngle float64
	RotationSpeed float64

	PulsePhase     float64
	PulseIntensity float64
}

// NewStar детерминированно выводит параметры светила из сида системы
func NewStar(systemSeed int64) *Star {
	rng := rand.New(rand.NewSource(systemSeed))

	radius := uniform(rng, 12.0, 16.0)
	temperature := uniform(rng, 5500.0, 6000.0)
	variation := uniform(rng, 0.9, 1.1)

	// Тёплый жёлто-оранжевый диапазон по температуре
	var base mgl64.Vec3
	switch {
	case temperature < 5700.0:
		base = mgl64.Vec3{1.0, 0.8, 0.4}
	case temperature < 5900.0:
		base = mgl64.Vec3{1.0, 0.9, 0.6}
	default:
		base = mgl64.Vec3{1.0, 0.95, 0.8}
	}

	return &Star{
		Radius:         radius,
		Temperature:    temperature,
		Color:          base.Mul(variation),
		RotationSpeed:  mgl64.DegToRad(10.0),
		PulseIntensity: 0.1,
	}
}

// Update продвигает вращение и пульсацию светила
func (s *Star) Update(dt float64) {
	s.RotationAngle = wrapAngle(s.RotationAngle + s.RotationSpeed*dt)
	s.PulsePhase = wrapAngle(s.PulsePhase + 2.0*dt)
}

// PulseScale возвращает текущий масштаб пульсации светила
func (s *Star) PulseScale() float64 {
	return 1.0 + s.PulseIntensity*math.Sin(s.PulsePhase)
}

// System корневой агрегат: светило, планеты (луны живут под планетами),
// астероидные пояса и планетарные кольца.
type System struct {
	Seed      int64
	Requested int // Запрошенное число тел; len(Bodies) может быть меньше

	Star   *Star
	Bodies []*Body

	Belts []*AsteroidBelt
	Rings []*PlanetaryRings
}

// PlacedCount возвращает фактическое число размещённых тел
func (s *System) PlacedCount() int {
	return len(s.Bodies)
}

// Update продвигает состояние всей системы на dt секунд.
// Порядок фиксирован: светило, планеты (каждая финализирует позицию до
// обновления своих лун), пояса, кольца.
func (s *System) Update(dt float64) {
	if s.Star != nil {
		s.Star.Update(dt)
	}

	for _, body := range s.Bodies {
		body.Update(dt)
	}

	for _, belt := range s.Belts {
		belt.Update(dt)
	}

	for _, rings := range s.Rings {
		rings.Update(dt)
	}
}

// BodyCount возвращает общее число тел, включая луны
func (s *System) BodyCount() int {
	total := len(s.Bodies)
	for _, body := range s.Bodies {
		total += len(body.Moons)
	}
	return total
}
