package space

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

// TestWrapAngle проверяет приведение угла к [0, 2π).
func TestWrapAngle(t *testing.T) {
	cases := []struct {
		in, want float64
	}{
		{0, 0},
		{math.Pi, math.Pi},
		{twoPi, 0},
		{twoPi + 0.5, 0.5},
		{-0.5, twoPi - 0.5},
		{3 * twoPi, 0},
		{-2*twoPi - 1, twoPi - 1},
	}

	for _, tc := range cases {
		got := wrapAngle(tc.in)
		if math.Abs(got-tc.want) > 1e-12 {
			t.Errorf("wrapAngle(%f) = %f, ожидалось %f", tc.in, got, tc.want)
		}
		if got < 0 || got >= twoPi {
			t.Errorf("wrapAngle(%f) = %f вне [0, 2π)", tc.in, got)
		}
	}
}

// TestBodyUpdateAdvancesOrbit проверяет интеграцию углов за тик.
func TestBodyUpdateAdvancesOrbit(t *testing.T) {
	body := &Body{
		OrbitRadius:   50.0,
		OrbitSpeed:    0.2,
		RotationSpeed: 1.0,
	}

	body.Update(0.5)

	if math.Abs(body.OrbitAngle-0.1) > 1e-12 {
		t.Errorf("Орбитальный угол %f, ожидалось 0.1", body.OrbitAngle)
	}
	if math.Abs(body.RotationAngle-0.5) > 1e-12 {
		t.Errorf("Угол вращения %f, ожидалось 0.5", body.RotationAngle)
	}

	// Позиция на орбите без эксцентриситета лежит на окружности радиуса R
	if math.Abs(body.WorldPosition.Len()-50.0) > 1e-9 {
		t.Errorf("Расстояние до центра %f, ожидалось 50", body.WorldPosition.Len())
	}
}

// TestBodyOrbitEccentricityBounds проверяет, что расстояние до центра
// остаётся в [R(1-e), R(1+e)] на полном обороте.
func TestBodyOrbitEccentricityBounds(t *testing.T) {
	body := &Body{
		OrbitRadius:       40.0,
		OrbitSpeed:        0.05,
		OrbitEccentricity: 0.2,
		OrbitInclination:  0.1,
	}

	lo := body.OrbitRadius * (1.0 - body.OrbitEccentricity)
	hi := body.OrbitRadius * (1.0 + body.OrbitEccentricity)

	// Полный оборот: 2π / 0.05 ≈ 126 секунд
	for i := 0; i < 1300; i++ {
		body.Update(0.1)

		dist := body.WorldPosition.Len()
		if dist < lo-1e-9 || dist > hi+1e-9 {
			t.Fatalf("Шаг %d: расстояние %f вне [%f, %f]", i, dist, lo, hi)
		}
	}
}

// TestBodyInclinationTiltsOrbit проверяет, что наклонение выводит орбиту
// из плоскости y=0.
func TestBodyInclinationTiltsOrbit(t *testing.T) {
	flat := &Body{OrbitRadius: 30.0, OrbitSpeed: 0.3}
	tilted := &Body{OrbitRadius: 30.0, OrbitSpeed: 0.3, OrbitInclination: 0.1}

	maxFlatY, maxTiltedY := 0.0, 0.0
	for i := 0; i < 250; i++ {
		flat.Update(0.1)
		tilted.Update(0.1)
		maxFlatY = math.Max(maxFlatY, math.Abs(flat.WorldPosition.Y()))
		maxTiltedY = math.Max(maxTiltedY, math.Abs(tilted.WorldPosition.Y()))
	}

	if maxFlatY > 1e-9 {
		t.Errorf("Орбита без наклонения покинула плоскость: |y| до %f", maxFlatY)
	}
	if maxTiltedY < 1.0 {
		t.Errorf("Наклонённая орбита почти плоская: |y| до %f", maxTiltedY)
	}
}

// TestMoonFollowsParent проверяет, что луна читает живую позицию родителя:
// центр орбиты луны в том же тике равен новой позиции планеты.
func TestMoonFollowsParent(t *testing.T) {
	planet := &Body{
		OrbitRadius: 60.0,
		OrbitSpeed:  0.4,
	}
	moon := &Body{
		parent:      planet,
		OrbitRadius: 5.0,
		OrbitSpeed:  1.5,
	}
	planet.Moons = []*Body{moon}

	for i := 0; i < 100; i++ {
		planet.Update(0.1)

		// Родитель обновляется до луны, поэтому центр совпадает
		offset := moon.WorldPosition.Sub(planet.WorldPosition).Len()
		if math.Abs(offset-5.0) > 1e-9 {
			t.Fatalf("Шаг %d: луна на расстоянии %f от планеты, ожидалось 5", i, offset)
		}
	}
}

// TestBodySetResolution проверяет клампинг и установку флага перестройки.
func TestBodySetResolution(t *testing.T) {
	body := &Body{Resolution: 16}

	body.SetResolution(32)
	if body.Resolution != 32 || !body.MeshDirty {
		t.Errorf("После SetResolution(32): resolution=%d, dirty=%v", body.Resolution, body.MeshDirty)
	}

	body.MeshDirty = false
	body.SetResolution(32)
	if body.MeshDirty {
		t.Error("Повторная установка того же разрешения пометила меш на перестройку")
	}

	body.SetResolution(0)
	if body.Resolution != 2 {
		t.Errorf("Разрешение 0 не ограничено снизу: %d", body.Resolution)
	}
}

// TestGenerateSatellitesDeterministic проверяет повторяемость генерации лун.
func TestGenerateSatellitesDeterministic(t *testing.T) {
	parent := func() *Body {
		return &Body{Type: TypeGasGiant, Radius: 9.0}
	}

	a := GenerateSatellites(parent(), 42)
	b := GenerateSatellites(parent(), 42)

	if len(a) != len(b) {
		t.Fatalf("Разное число лун: %d и %d", len(a), len(b))
	}
	for i := range a {
		if a[i].Radius != b[i].Radius || a[i].OrbitRadius != b[i].OrbitRadius ||
			a[i].OrbitSpeed != b[i].OrbitSpeed || a[i].ColorBase != b[i].ColorBase {
			t.Errorf("Луна %d отличается между запусками", i)
		}
	}
}

// TestGenerateSatellitesLimits проверяет лимиты числа лун и диапазоны параметров.
func TestGenerateSatellitesLimits(t *testing.T) {
	cases := []struct {
		name     string
		parent   *Body
		maxMoons int
	}{
		{"газовый гигант", &Body{Type: TypeGasGiant, Radius: 7.0}, 4},
		{"крупное тело", &Body{Type: TypeIce, Radius: 9.0}, 3},
		{"среднее тело", &Body{Type: TypeRocky, Radius: 6.0}, 2},
		{"малое тело", &Body{Type: TypeRocky, Radius: 1.5}, 1},
	}

	for _, tc := range cases {
		for seed := int64(0); seed < 50; seed++ {
			moons := GenerateSatellites(tc.parent, seed)
			if len(moons) > tc.maxMoons {
				t.Errorf("%s, сид %d: %d лун при максимуме %d", tc.name, seed, len(moons), tc.maxMoons)
			}

			for i, moon := range moons {
				if moon.Parent() != tc.parent {
					t.Errorf("%s, сид %d: луна %d не привязана к родителю", tc.name, seed, i)
				}
				if moon.OrbitRadius < tc.parent.Radius*2.0 || moon.OrbitRadius > tc.parent.Radius*6.0 {
					t.Errorf("%s, сид %d: орбита луны %f вне [%f, %f]",
						tc.name, seed, moon.OrbitRadius, tc.parent.Radius*2.0, tc.parent.Radius*6.0)
				}
				if moon.OrbitSpeed < 0.5 || moon.OrbitSpeed > 2.0 {
					t.Errorf("%s, сид %d: скорость луны %f вне [0.5, 2.0]", tc.name, seed, moon.OrbitSpeed)
				}
				if moon.Radius <= 0 {
					t.Errorf("%s, сид %d: радиус луны %f не положителен", tc.name, seed, moon.Radius)
				}
				if moon.Resolution != moonResolution {
					t.Errorf("%s, сид %d: разрешение луны %d, ожидалось %d",
						tc.name, seed, moon.Resolution, moonResolution)
				}
			}
		}
	}
}

// TestOrbitCenterForPlanet проверяет, что центр орбиты планеты — начало координат.
func TestOrbitCenterForPlanet(t *testing.T) {
	body := &Body{OrbitRadius: 10}
	if body.OrbitCenter() != (mgl64.Vec3{}) {
		t.Errorf("Центр орбиты планеты %v, ожидался ноль", body.OrbitCenter())
	}
	if body.Parent() != nil {
		t.Error("У планеты не должно быть родителя")
	}
}
