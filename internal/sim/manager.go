package sim

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/annel0/solar-sim/internal/cache"
	"github.com/annel0/solar-sim/internal/config"
	"github.com/annel0/solar-sim/internal/eventbus"
	"github.com/annel0/solar-sim/internal/logging"
	"github.com/annel0/solar-sim/internal/mesh"
	"github.com/annel0/solar-sim/internal/metrics"
	"github.com/annel0/solar-sim/internal/noise"
	"github.com/annel0/solar-sim/internal/space"
	"github.com/annel0/solar-sim/internal/storage"
)

// maxTickDelta ограничивает dt одного тика сверху: после паузы процесса
// (GC, остановка в дебаггере) тела не должны телепортироваться.
const maxTickDelta = 0.1

// meshCacheCapacity — размер LRU-кеша мешей. Три уровня LOD на тело,
// так что сотни записей хватает на систему с лунами.
const meshCacheCapacity = 256

// Manager владеет системой и продвигает её в цикле тиков.
// Все публичные методы потокобезопасны: API-сервер читает состояние
// параллельно с циклом симуляции.
type Manager struct {
	mu sync.RWMutex

	cfg     *config.Config
	log     *logging.Logger
	metrics *metrics.SimMetrics

	noiseGen  *noise.Generator
	builder   *mesh.Builder
	lod       *space.LODController
	meshCache *cache.MeshCache

	system    *space.System
	viewer    mgl64.Vec3
	timeScale float64

	snapshots storage.SnapshotRepo
	bus       eventbus.EventBus

	ticks uint64
}

// NewManager собирает менеджер симуляции из конфигурации.
func NewManager(cfg *config.Config, snapshots storage.SnapshotRepo, bus eventbus.EventBus) *Manager {
	noiseGen := noise.NewGenerator(noise.Params{
		Seed:       cfg.System.Seed,
		Frequency:  cfg.Noise.Frequency,
		Octaves:    cfg.Noise.Octaves,
		Lacunarity: cfg.Noise.Lacunarity,
		Gain:       cfg.Noise.Gain,
	})

	lod := space.NewLODController(
		cfg.LOD.HighResolution,
		cfg.LOD.MediumResolution,
		cfg.LOD.LowResolution,
		cfg.LOD.Distance1,
		cfg.LOD.Distance2,
	)
	if cfg.LOD.MaxRenderDistance > 0 {
		lod.MaxRenderDistance = cfg.LOD.MaxRenderDistance
	}

	return &Manager{
		cfg:       cfg,
		log:       logging.GetSimLogger(),
		metrics:   metrics.NewSimMetrics(),
		noiseGen:  noiseGen,
		builder:   mesh.NewBuilder(noiseGen),
		lod:       lod,
		meshCache: cache.NewMeshCache(meshCacheCapacity),
		timeScale: cfg.Simulation.TimeScale,
		snapshots: snapshots,
		bus:       bus,
	}
}

// Generate строит новую систему и делает её текущей.
// Предыдущая система отбрасывается целиком.
func (m *Manager) Generate(ctx context.Context, systemSeed int64, bodyCount int) (*space.System, error) {
	if bodyCount < 0 {
		return nil, fmt.Errorf("body count must be non-negative, got %d", bodyCount)
	}

	start := time.Now()

	gen := space.NewGenerator()
	gen.OnBodySkipped = func(index, attempts int) {
		m.metrics.BodiesSkipped.Inc()
		m.publishEvent(ctx, eventbus.EventBodySkipped, map[string]interface{}{
			"index":    index,
			"attempts": attempts,
			"seed":     systemSeed,
		})
	}

	system := gen.Generate(systemSeed, bodyCount)

	// Первичная сборка мешей согласно текущей позиции наблюдателя
	m.mu.Lock()
	m.meshCache.Clear()
	m.system = system
	m.applyLOD()
	m.mu.Unlock()

	elapsed := time.Since(start)
	m.metrics.GenerationDuration.Observe(elapsed.Seconds())
	m.metrics.Bodies.Set(float64(system.BodyCount()))

	m.log.Info("Система готова: сид=%d, размещено %d/%d тел за %v",
		systemSeed, system.PlacedCount(), bodyCount, elapsed)

	m.publishEvent(ctx, eventbus.EventSystemGenerated, map[string]interface{}{
		"seed":      systemSeed,
		"requested": bodyCount,
		"placed":    system.PlacedCount(),
		"bodies":    system.BodyCount(),
	})

	if err := m.saveSnapshot(ctx, system); err != nil {
		m.log.Warn("Не удалось сохранить снимок системы: %v", err)
	}

	return system, nil
}

// Run запускает цикл симуляции до отмены контекста.
func (m *Manager) Run(ctx context.Context) {
	tickRate := m.cfg.Simulation.TickRate
	if tickRate <= 0 {
		tickRate = 60
	}

	interval := time.Second / time.Duration(tickRate)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	m.log.Info("Цикл симуляции запущен: %d тиков/с", tickRate)

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			m.log.Info("Цикл симуляции остановлен")
			return
		case now := <-ticker.C:
			dt := now.Sub(last).Seconds()
			last = now

			if dt <= 0 {
				continue
			}
			if dt > maxTickDelta {
				dt = maxTickDelta
			}

			m.Tick(ctx, dt)
		}
	}
}

// Tick выполняет один шаг симуляции: продвижение орбит и проход LOD.
func (m *Manager) Tick(ctx context.Context, dt float64) {
	start := time.Now()

	m.mu.Lock()
	if m.system != nil {
		m.system.Update(dt * m.timeScale)
		m.lodPass(ctx)
	}
	m.ticks++
	m.mu.Unlock()

	m.metrics.TickDuration.Observe(time.Since(start).Seconds())
}

// lodPass подбирает разрешение мешей по дистанции до наблюдателя.
// Вызывается под m.mu.
func (m *Manager) lodPass(ctx context.Context) {
	for _, body := range m.system.Bodies {
		m.lodBody(ctx, body)
		for _, moon := range body.Moons {
			m.lodBody(ctx, moon)
		}
	}
}

func (m *Manager) lodBody(ctx context.Context, body *space.Body) {
	distance := body.WorldPosition.Sub(m.viewer).Len()
	if !m.lod.InRange(distance) {
		return
	}

	body.SetResolution(m.lod.SelectResolution(distance, body.Radius))
	if !body.MeshDirty {
		return
	}

	tier := m.lod.SelectTier(distance, body.Radius)

	// Детерминированный меш можно взять из кеша вместо перестройки
	if cached, ok := m.meshCache.Get(body.Seed, body.Resolution); ok {
		body.Mesh = cached
		body.MeshDirty = false
		return
	}

	if err := body.Regenerate(m.builder); err != nil {
		m.log.Error("Регенерация меша не удалась (сид=%d): %v", body.Seed, err)
		return
	}
	m.meshCache.Put(body.Seed, body.Resolution, body.Mesh)

	m.metrics.MeshRegenerations.WithLabelValues(tier.String()).Inc()
	m.publishEvent(ctx, eventbus.EventMeshRegenerated, map[string]interface{}{
		"seed":       body.Seed,
		"tier":       tier.String(),
		"resolution": body.Resolution,
	})
}

// applyLOD прогоняет LOD-проход вне тика (после генерации).
// Вызывается под m.mu.
func (m *Manager) applyLOD() {
	m.lodPass(context.Background())
}

// System возвращает текущую систему (nil до первой генерации).
// Читатели обязаны не модифицировать возвращаемое состояние.
func (m *Manager) System() *space.System {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.system
}

// WithSystem выполняет fn под read-блокировкой менеджера.
// Используется API-сервером для согласованного чтения позиций.
func (m *Manager) WithSystem(fn func(s *space.System)) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	fn(m.system)
}

// TimeScale возвращает текущий множитель времени.
func (m *Manager) TimeScale() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.timeScale
}

// SetTimeScale задаёт множитель времени. Отрицательные значения отклоняются:
// обратный ход времени не поддерживается.
func (m *Manager) SetTimeScale(scale float64) error {
	if scale < 0 {
		return fmt.Errorf("time scale must be non-negative, got %g", scale)
	}

	m.mu.Lock()
	m.timeScale = scale
	m.mu.Unlock()

	m.log.Info("Множитель времени: %g", scale)
	return nil
}

// Viewer возвращает позицию наблюдателя.
func (m *Manager) Viewer() mgl64.Vec3 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.viewer
}

// SetViewer задаёт позицию наблюдателя для LOD-прохода.
func (m *Manager) SetViewer(pos mgl64.Vec3) {
	m.mu.Lock()
	m.viewer = pos
	m.mu.Unlock()
}

// MeshCacheMetrics возвращает счётчики кеша мешей.
func (m *Manager) MeshCacheMetrics() *cache.CacheMetrics {
	return m.meshCache.GetMetrics()
}

// Ticks возвращает число выполненных тиков.
func (m *Manager) Ticks() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.ticks
}

// SetBodyResolution вручную задаёт разрешение меша тела и перестраивает его.
// Индексация по порядку в System.Bodies.
func (m *Manager) SetBodyResolution(index, resolution int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.system == nil {
		return fmt.Errorf("no system generated")
	}
	if index < 0 || index >= len(m.system.Bodies) {
		return fmt.Errorf("body index %d out of range [0, %d)", index, len(m.system.Bodies))
	}

	body := m.system.Bodies[index]
	body.SetResolution(resolution)
	if body.MeshDirty {
		if err := body.Regenerate(m.builder); err != nil {
			return fmt.Errorf("mesh rebuild failed: %w", err)
		}
	}
	return nil
}

// saveSnapshot сохраняет компактный снимок системы в репозиторий.
func (m *Manager) saveSnapshot(ctx context.Context, system *space.System) error {
	if m.snapshots == nil {
		return nil
	}

	snap := &storage.SystemSnapshot{
		ID:              storage.NewSnapshotID(),
		Seed:            system.Seed,
		RequestedBodies: system.Requested,
		PlacedBodies:    system.PlacedCount(),
		TimeScale:       m.TimeScale(),
		CreatedAt:       time.Now().UTC(),
		Bodies:          make([]storage.BodySummary, 0, len(system.Bodies)),
	}

	for _, body := range system.Bodies {
		snap.Bodies = append(snap.Bodies, storage.BodySummary{
			Seed:          body.Seed,
			Type:          body.Type.String(),
			Radius:        body.Radius,
			OrbitDistance: body.OrbitRadius,
			OrbitSpeed:    body.OrbitSpeed,
			Eccentricity:  body.OrbitEccentricity,
			Inclination:   body.OrbitInclination,
			MoonCount:     len(body.Moons),
			Position:      [3]float64{body.WorldPosition.X(), body.WorldPosition.Y(), body.WorldPosition.Z()},
		})
	}

	return m.snapshots.Save(ctx, snap)
}

// publishEvent публикует доменное событие в шину (no-op без шины).
func (m *Manager) publishEvent(ctx context.Context, eventType string, payload map[string]interface{}) {
	if m.bus == nil {
		return
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return
	}

	ev := eventbus.NewEnvelope("sim", eventType, data)
	if err := m.bus.Publish(ctx, ev); err != nil {
		m.log.Warn("Публикация события %s не удалась: %v", eventType, err)
	}
}
