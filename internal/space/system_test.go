package space

import (
	"math"
	"testing"
)

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// TestSystemLongRunStability прогоняет систему на тысячу крупных тиков
// и проверяет, что позиции остаются конечными и в пределах орбит.
func TestSystemLongRunStability(t *testing.T) {
	g := NewGenerator()
	system := g.Generate(42, 8)

	if system.PlacedCount() == 0 {
		t.Fatal("Система без тел")
	}

	for step := 0; step < 1000; step++ {
		system.Update(1.0)

		for i, body := range system.Bodies {
			pos := body.WorldPosition
			if !finite(pos.X()) || !finite(pos.Y()) || !finite(pos.Z()) {
				t.Fatalf("Шаг %d: позиция тела %d не конечна: %v", step, i, pos)
			}

			// Высота размещения в орбиту не входит: r = R(1 - e·cos a)
			maxDist := body.OrbitRadius * (1.0 + body.OrbitEccentricity)
			if pos.Len() > maxDist+1e-6 {
				t.Fatalf("Шаг %d: тело %d на расстоянии %.4f дальше апоцентра %.4f",
					step, i, pos.Len(), maxDist)
			}

			if body.OrbitAngle < 0 || body.OrbitAngle >= twoPi {
				t.Fatalf("Шаг %d: орбитальный угол тела %d вне [0, 2π): %f", step, i, body.OrbitAngle)
			}

			for j, moon := range body.Moons {
				offset := moon.WorldPosition.Sub(body.WorldPosition).Len()
				moonMax := moon.OrbitRadius * (1.0 + moon.OrbitEccentricity)
				if offset > moonMax+1e-6 {
					t.Fatalf("Шаг %d: луна %d/%d на %.4f от планеты, максимум %.4f",
						step, i, j, offset, moonMax)
				}
			}
		}
	}
}

// TestSystemUpdateMovesBelts проверяет, что астероиды остаются в пределах
// пояса после обновлений.
func TestSystemUpdateMovesBelts(t *testing.T) {
	belt := NewAsteroidBelt(50.0, 70.0, 300, 42)

	for step := 0; step < 200; step++ {
		belt.Update(0.5)
	}

	for i, a := range belt.Asteroids {
		planar := math.Sqrt(a.Position.X()*a.Position.X() + a.Position.Z()*a.Position.Z())
		if planar < belt.InnerRadius-1e-6 || planar > belt.OuterRadius+1e-6 {
			t.Fatalf("Астероид %d на радиусе %.3f вне пояса [%.1f, %.1f]",
				i, planar, belt.InnerRadius, belt.OuterRadius)
		}
		if math.Abs(a.Position.Y()) > 2.0+1e-9 {
			t.Fatalf("Астероид %d на высоте %.3f вне ±2", i, a.Position.Y())
		}
	}
}

// TestRingsFollowPlanet проверяет, что частицы колец движутся вместе
// с планетой-владельцем.
func TestRingsFollowPlanet(t *testing.T) {
	planet := &Body{
		Type:        TypeGasGiant,
		Radius:      8.0,
		OrbitRadius: 80.0,
		OrbitSpeed:  0.3,
	}
	rings := NewPlanetaryRings(planet, 12.0, 18.0, 600, 42)

	for step := 0; step < 100; step++ {
		planet.Update(0.2)
		rings.Update(0.2)

		for i, p := range rings.Particles {
			offset := p.Position.Sub(planet.WorldPosition)
			planar := math.Sqrt(offset.X()*offset.X() + offset.Z()*offset.Z())
			if planar < rings.InnerRadius-1e-6 || planar > rings.OuterRadius+1e-6 {
				t.Fatalf("Шаг %d: частица %d на радиусе %.3f вне [%.1f, %.1f]",
					step, i, planar, rings.InnerRadius, rings.OuterRadius)
			}
		}
	}
}

// TestSystemBodyCount проверяет подсчёт тел с лунами.
func TestSystemBodyCount(t *testing.T) {
	g := NewGenerator()
	system := g.Generate(42, 8)

	moons := 0
	for _, body := range system.Bodies {
		moons += len(body.Moons)
	}

	if system.BodyCount() != system.PlacedCount()+moons {
		t.Errorf("BodyCount=%d, ожидалось %d тел + %d лун",
			system.BodyCount(), system.PlacedCount(), moons)
	}
}

// TestStarPulse проверяет пульсацию светила в пределах ±10%.
func TestStarPulse(t *testing.T) {
	star := NewStar(42)

	for step := 0; step < 500; step++ {
		star.Update(0.05)

		scale := star.PulseScale()
		if scale < 0.9-1e-9 || scale > 1.1+1e-9 {
			t.Fatalf("Шаг %d: масштаб пульсации %.4f вне [0.9, 1.1]", step, scale)
		}
	}
}
