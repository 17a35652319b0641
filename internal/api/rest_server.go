package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/annel0/solar-sim/internal/logging"
	"github.com/annel0/solar-sim/internal/middleware"
	"github.com/annel0/solar-sim/internal/sim"
	"github.com/annel0/solar-sim/internal/space"
	"github.com/annel0/solar-sim/internal/storage"
)

// RestServer представляет REST API сервер симуляции.
type RestServer struct {
	router    *gin.Engine
	manager   *sim.Manager
	snapshots storage.SnapshotRepo
	port      string
	metrics   *ServerMetrics
	ws        *StreamServer
	log       *logging.Logger
	httpSrv   *http.Server
}

// Config содержит конфигурацию для REST сервера.
type Config struct {
	Port      string // порт для запуска сервера, например ":8088"
	Manager   *sim.Manager
	Snapshots storage.SnapshotRepo
}

// NewRestServer создаёт REST API сервер и настраивает маршруты.
func NewRestServer(config Config) *RestServer {
	if config.Port == "" {
		config.Port = ":8088"
	}

	gin.SetMode(gin.ReleaseMode)

	router := gin.New()        // без стандартного logger/recovery
	router.Use(gin.Recovery()) // добавим только recovery

	// === Observability middleware ===
	loggerMw := middleware.NewRequestLogger()
	router.Use(loggerMw.Handler())

	promMw := middleware.NewPrometheusMiddleware("solar_api")
	router.Use(promMw.Handler())
	promMw.RegisterMetricsEndpoint(router)

	server := &RestServer{
		router:    router,
		manager:   config.Manager,
		snapshots: config.Snapshots,
		port:      config.Port,
		metrics:   NewServerMetrics(),
		ws:        NewStreamServer(config.Manager),
		log:       logging.GetAPILogger(),
	}

	server.setupRoutes()

	return server
}

// setupRoutes настраивает маршруты REST API.
func (rs *RestServer) setupRoutes() {
	// Middleware для CORS
	rs.router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	rs.router.GET("/health", rs.handleHealth)
	rs.router.GET("/ws", rs.ws.HandleConnection)

	api := rs.router.Group("/api")
	{
		api.GET("/stats", rs.handleStats)

		system := api.Group("/system")
		{
			system.GET("", rs.handleSystem)
			system.POST("/generate", rs.handleGenerate)
			system.POST("/timescale", rs.handleTimeScale)
			system.GET("/bodies", rs.handleBodies)
			system.GET("/bodies/:index", rs.handleBody)
			system.GET("/bodies/:index/mesh", rs.handleBodyMesh)
			system.POST("/bodies/:index/resolution", rs.handleBodyResolution)
		}

		api.POST("/viewer", rs.handleViewer)

		api.GET("/snapshots", rs.handleSnapshots)
		api.GET("/snapshots/:id", rs.handleSnapshot)
		api.DELETE("/snapshots/:id", rs.handleSnapshotDelete)
	}
}

// Start запускает HTTP сервер (блокирующий вызов).
func (rs *RestServer) Start() error {
	rs.log.Info("REST API слушает на %s", rs.port)

	rs.httpSrv = &http.Server{
		Addr:         rs.port,
		Handler:      rs.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	if err := rs.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("rest server: %w", err)
	}
	return nil
}

// Shutdown останавливает сервер с graceful таймаутом.
func (rs *RestServer) Shutdown(ctx context.Context) error {
	rs.ws.CloseAll()
	if rs.httpSrv == nil {
		return nil
	}
	return rs.httpSrv.Shutdown(ctx)
}

//================ DTO ================//

// BodyDTO компактное представление тела для JSON-ответов.
type BodyDTO struct {
	Index         int        `json:"index"`
	Seed          int64      `json:"seed"`
	Type          string     `json:"type"`
	Radius        float64    `json:"radius"`
	Resolution    int        `json:"resolution"`
	Color         [3]float64 `json:"color"`
	OrbitRadius   float64    `json:"orbit_radius"`
	OrbitAngle    float64    `json:"orbit_angle"`
	OrbitSpeed    float64    `json:"orbit_speed"`
	Eccentricity  float64    `json:"eccentricity"`
	Inclination   float64    `json:"inclination"`
	RotationAngle float64    `json:"rotation_angle"`
	Position      [3]float64 `json:"position"`
	Moons         []BodyDTO  `json:"moons,omitempty"`
}

func bodyToDTO(index int, b *space.Body) BodyDTO {
	dto := BodyDTO{
		Index:         index,
		Seed:          b.Seed,
		Type:          b.Type.String(),
		Radius:        b.Radius,
		Resolution:    b.Resolution,
		Color:         [3]float64{b.ColorBase.X(), b.ColorBase.Y(), b.ColorBase.Z()},
		OrbitRadius:   b.OrbitRadius,
		OrbitAngle:    b.OrbitAngle,
		OrbitSpeed:    b.OrbitSpeed,
		Eccentricity:  b.OrbitEccentricity,
		Inclination:   b.OrbitInclination,
		RotationAngle: b.RotationAngle,
		Position:      [3]float64{b.WorldPosition.X(), b.WorldPosition.Y(), b.WorldPosition.Z()},
	}
	for i, moon := range b.Moons {
		dto.Moons = append(dto.Moons, bodyToDTO(i, moon))
	}
	return dto
}

//================ Handlers ================//

// handleHealth возвращает состояние сервиса.
func (rs *RestServer) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"uptime": rs.metrics.GetUptime(),
		"ticks":  rs.manager.Ticks(),
	})
}

// handleSystem возвращает сводку по текущей системе.
func (rs *RestServer) handleSystem(c *gin.Context) {
	timeScale := rs.manager.TimeScale()

	var resp gin.H
	rs.manager.WithSystem(func(s *space.System) {
		if s == nil {
			return
		}

		star := gin.H{
			"radius":      s.Star.Radius,
			"temperature": s.Star.Temperature,
			"color":       [3]float64{s.Star.Color.X(), s.Star.Color.Y(), s.Star.Color.Z()},
			"pulse_scale": s.Star.PulseScale(),
		}

		belts := make([]gin.H, 0, len(s.Belts))
		for _, belt := range s.Belts {
			belts = append(belts, gin.H{
				"inner_radius": belt.InnerRadius,
				"outer_radius": belt.OuterRadius,
				"asteroids":    len(belt.Asteroids),
			})
		}

		rings := make([]gin.H, 0, len(s.Rings))
		for _, r := range s.Rings {
			rings = append(rings, gin.H{
				"planet_seed":  r.Planet.Seed,
				"inner_radius": r.InnerRadius,
				"outer_radius": r.OuterRadius,
				"particles":    len(r.Particles),
			})
		}

		resp = gin.H{
			"seed":       s.Seed,
			"requested":  s.Requested,
			"placed":     s.PlacedCount(),
			"bodies":     s.BodyCount(),
			"time_scale": timeScale,
			"star":       star,
			"belts":      belts,
			"rings":      rings,
		}
	})

	if resp == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no system generated"})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// handleGenerate создаёт новую систему по сиду.
func (rs *RestServer) handleGenerate(c *gin.Context) {
	var req struct {
		Seed      int64 `json:"seed"`
		BodyCount int   `json:"body_count"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if req.BodyCount <= 0 {
		req.BodyCount = 8
	}

	system, err := rs.manager.Generate(c.Request.Context(), req.Seed, req.BodyCount)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"seed":      system.Seed,
		"requested": system.Requested,
		"placed":    system.PlacedCount(),
		"bodies":    system.BodyCount(),
	})
}

// handleTimeScale задаёт множитель времени симуляции.
func (rs *RestServer) handleTimeScale(c *gin.Context) {
	var req struct {
		TimeScale float64 `json:"time_scale"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := rs.manager.SetTimeScale(req.TimeScale); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"time_scale": rs.manager.TimeScale()})
}

// handleViewer задаёт позицию наблюдателя для LOD.
func (rs *RestServer) handleViewer(c *gin.Context) {
	var req struct {
		X float64 `json:"x"`
		Y float64 `json:"y"`
		Z float64 `json:"z"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	rs.manager.SetViewer(mgl64.Vec3{req.X, req.Y, req.Z})
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// handleBodies возвращает список тел с лунами.
func (rs *RestServer) handleBodies(c *gin.Context) {
	var bodies []BodyDTO
	found := false
	rs.manager.WithSystem(func(s *space.System) {
		if s == nil {
			return
		}
		found = true
		bodies = make([]BodyDTO, 0, len(s.Bodies))
		for i, body := range s.Bodies {
			bodies = append(bodies, bodyToDTO(i, body))
		}
	})

	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "no system generated"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"bodies": bodies})
}

// parseBodyIndex извлекает и проверяет индекс тела из пути.
func (rs *RestServer) parseBodyIndex(c *gin.Context, s *space.System) (int, bool) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil || index < 0 || s == nil || index >= len(s.Bodies) {
		return 0, false
	}
	return index, true
}

// handleBody возвращает одно тело по индексу.
func (rs *RestServer) handleBody(c *gin.Context) {
	var dto BodyDTO
	found := false
	rs.manager.WithSystem(func(s *space.System) {
		index, ok := rs.parseBodyIndex(c, s)
		if !ok {
			return
		}
		found = true
		dto = bodyToDTO(index, s.Bodies[index])
	})

	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "body not found"})
		return
	}
	c.JSON(http.StatusOK, dto)
}

// handleBodyMesh возвращает меш тела: метаданные, с ?data=true — геометрию.
func (rs *RestServer) handleBodyMesh(c *gin.Context) {
	includeData := c.Query("data") == "true"

	var resp gin.H
	rs.manager.WithSystem(func(s *space.System) {
		index, ok := rs.parseBodyIndex(c, s)
		if !ok {
			return
		}

		body := s.Bodies[index]
		if body.Mesh == nil {
			return
		}

		resp = gin.H{
			"resolution": body.Mesh.Resolution,
			"vertices":   body.Mesh.VertexCount(),
			"indices":    body.Mesh.IndexCount(),
			"triangles":  body.Mesh.TriangleCount(),
		}
		if includeData {
			resp["vertex_data"] = body.Mesh.Vertices
			resp["index_data"] = body.Mesh.Indices
		}
	})

	if resp == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "mesh not found"})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// handleBodyResolution вручную задаёт разрешение меша тела.
func (rs *RestServer) handleBodyResolution(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body index"})
		return
	}

	var req struct {
		Resolution int `json:"resolution"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := rs.manager.SetBodyResolution(index, req.Resolution); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// handleSnapshots возвращает список сохранённых снимков.
func (rs *RestServer) handleSnapshots(c *gin.Context) {
	if rs.snapshots == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "snapshot storage disabled"})
		return
	}

	snaps, err := rs.snapshots.List(c.Request.Context())
	if err != nil {
		rs.log.Error("Не удалось получить список снимков: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list snapshots"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"snapshots": snaps})
}

// handleSnapshot возвращает снимок по ID.
func (rs *RestServer) handleSnapshot(c *gin.Context) {
	if rs.snapshots == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "snapshot storage disabled"})
		return
	}

	snap, err := rs.snapshots.Load(c.Request.Context(), c.Param("id"))
	if errors.Is(err, storage.ErrSnapshotNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "snapshot not found"})
		return
	} else if err != nil {
		rs.log.Error("Не удалось загрузить снимок %s: %v", c.Param("id"), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load snapshot"})
		return
	}

	c.JSON(http.StatusOK, snap)
}

// handleSnapshotDelete удаляет снимок по ID.
func (rs *RestServer) handleSnapshotDelete(c *gin.Context) {
	if rs.snapshots == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "snapshot storage disabled"})
		return
	}

	if err := rs.snapshots.Delete(c.Request.Context(), c.Param("id")); err != nil {
		rs.log.Error("Не удалось удалить снимок %s: %v", c.Param("id"), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete snapshot"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// handleStats возвращает статистику процесса и симуляции.
func (rs *RestServer) handleStats(c *gin.Context) {
	memoryMB, _ := rs.metrics.GetMemoryUsage()
	cpuPercent, _ := rs.metrics.GetCPUUsage()

	bodyCount := 0
	rs.manager.WithSystem(func(s *space.System) {
		if s != nil {
			bodyCount = s.BodyCount()
		}
	})

	c.JSON(http.StatusOK, gin.H{
		"uptime":       rs.metrics.GetUptime(),
		"memory_mb":    memoryMB,
		"cpu_percent":  cpuPercent,
		"memory_stats": rs.metrics.GetDetailedMemoryStats(),
		"ticks":        rs.manager.Ticks(),
		"bodies":       bodyCount,
		"time_scale":   rs.manager.TimeScale(),
		"ws_clients":   rs.ws.ClientCount(),
		"mesh_cache":   rs.manager.MeshCacheMetrics(),
	})
}
