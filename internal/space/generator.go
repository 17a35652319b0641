package space

import (
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/annel0/solar-sim/internal/logging"
)

// Константы размещения тел
const (
	maxPlacementAttempts = 50
	minOrbitDistance     = 25.0
	maxOrbitDistance     = 120.0
	placementHeightRange = 10.0
	collisionBuffer      = 5.0 // Буфер между ограничивающими сферами
	bodySeedStride       = 1000
)

// Generator детерминированно размещает тела системы без пересечений
type Generator struct {
	log *logging.Logger

	// OnBodySkipped вызывается, когда тело не удалось разместить
	// за отведённое число попыток (опционально)
	OnBodySkipped func(index, attempts int)
}

// NewGenerator создаёт генератор размещения тел
func NewGenerator() *Generator {
	return &Generator{
		log: logging.GetComponentLogger("generator"),
	}
}

// Generate строит систему из сида: светило, планеты с лунами, пояса и кольца.
// Тело, не нашедшее свободного места за 50 попыток, пропускается — генерация
// завершается с меньшим числом тел, фактическое число наблюдаемо через
// System.PlacedCount().
func (g *Generator) Generate(systemSeed int64, bodyCount int) *System {
	system := &System{
		Seed:      systemSeed,
		Requested: bodyCount,
		Star:      NewStar(systemSeed),
	}

	g.log.Info("Генерация системы: сид=%d, тел=%d", systemSeed, bodyCount)

	rng := rand.New(rand.NewSource(systemSeed))

	// Принятые позиции и радиусы для проверки пересечений
	type placement struct {
		position mgl64.Vec3
		radius   float64
	}
	var placed []placement

	for i := 0; i < bodyCount; i++ {
		var (
			position mgl64.Vec3
			distance float64
			valid    bool
			attempts int
		)

		for attempts = 0; attempts < maxPlacementAttempts; attempts++ {
			angle := uniform(rng, 0.0, twoPi)
			distance = uniform(rng, minOrbitDistance, maxOrbitDistance)
			height := uniform(rng, -placementHeightRange, placementHeightRange)

			position = mgl64.Vec3{
				distance * math.Cos(angle),
				height,
				distance * math.Sin(angle),
			}

			attemptSeed := systemSeed + int64(i)*bodySeedStride + int64(attempts)
			props := DeriveProperties(attemptSeed, distance)

			valid = true
			for _, p := range placed {
				minDist := props.Radius + p.radius + collisionBuffer
				if position.Sub(p.position).Len() < minDist {
					valid = false
					break
				}
			}
			if valid {
				break
			}
		}

		if !valid {
			g.log.Warn("Не удалось разместить тело %d за %d попыток, пропускаем",
				i, maxPlacementAttempts)
			if g.OnBodySkipped != nil {
				g.OnBodySkipped(i, maxPlacementAttempts)
			}
			continue
		}

		// Свойства финализируются базовым сидом тела, не сидом попытки.
		// Это воспроизводит слегка несогласованное, но детерминированное
		// поведение исходной реализации: проверенный на пересечение радиус
		// и финальный радиус могут расходиться в краевых случаях.
		bodySeed := systemSeed + int64(i)*bodySeedStride
		body := g.buildBody(bodySeed, position)

		system.Bodies = append(system.Bodies, body)
		placed = append(placed, placement{position: position, radius: body.Radius})

		g.log.Info("Тело %d: поз=(%.1f, %.1f, %.1f), радиус=%.2f, тип=%s, лун=%d",
			i, position.X(), position.Y(), position.Z(),
			body.Radius, body.Type, len(body.Moons))
	}

	system.Belts = GenerateAsteroidBelts(systemSeed)
	system.Rings = GenerateSystemRings(systemSeed, system.Bodies)

	g.log.Info("Генерация завершена: размещено %d из %d тел",
		system.PlacedCount(), bodyCount)

	return system
}

// buildBody собирает тело с орбитальными параметрами и лунами
func (g *Generator) buildBody(bodySeed int64, position mgl64.Vec3) *Body {
	distance := position.Len()
	props := DeriveProperties(bodySeed, distance)
	inclination, eccentricity := deriveOrbitalVariation(bodySeed)

	body := &Body{
		Seed:       bodySeed,
		Type:       props.Type,
		Radius:     props.Radius,
		Resolution: 2, // До первого LOD-прохода меш не строится
		MeshDirty:  true,
		ColorBase:  props.Color,

		OrbitRadius: distance,
		OrbitAngle:  wrapAngle(math.Atan2(position.Z(), position.X())),
		// Ближние тела обращаются быстрее: аппроксимация третьего
		// закона Кеплера, не точная орбитальная механика
		OrbitSpeed:        0.5 / math.Sqrt(distance*0.1+1.0),
		OrbitInclination:  inclination,
		OrbitEccentricity: eccentricity,

		RotationSpeed: props.RotationSpeed,
		WorldPosition: position,

		Noise: deriveNoiseParams(bodySeed),
	}

	body.Moons = GenerateSatellites(body, bodySeed)

	return body
}
