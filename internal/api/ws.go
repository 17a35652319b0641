package api

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/annel0/solar-sim/internal/logging"
	"github.com/annel0/solar-sim/internal/sim"
	"github.com/annel0/solar-sim/internal/space"
)

const (
	// streamInterval — период рассылки позиций подключённым клиентам
	streamInterval = 50 * time.Millisecond
	pingInterval   = 2 * time.Second
	writeTimeout   = 5 * time.Second
)

// bodyState — позиция одного тела в кадре потока.
type bodyState struct {
	Seed     int64      `json:"seed"`
	Position [3]float64 `json:"position"`
	Rotation float64    `json:"rotation"`
	IsMoon   bool       `json:"is_moon,omitempty"`
}

// streamFrame — один кадр состояния системы для WS клиентов.
type streamFrame struct {
	Type      string      `json:"type"`
	Seed      int64       `json:"seed"`
	TimeScale float64     `json:"time_scale"`
	Bodies    []bodyState `json:"bodies"`
	StarPulse float64     `json:"star_pulse"`
}

// wsClient — одно подключение с потокобезопасной записью.
type wsClient struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *wsClient) writeJSON(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return c.conn.WriteJSON(v)
}

func (c *wsClient) ping() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return c.conn.WriteMessage(websocket.PingMessage, nil)
}

// StreamServer рассылает позиции тел по WebSocket с фиксированным интервалом.
type StreamServer struct {
	upgrader websocket.Upgrader
	manager  *sim.Manager
	log      *logging.Logger

	mu      sync.RWMutex
	clients map[*wsClient]struct{}

	startOnce sync.Once
	stop      chan struct{}
}

// NewStreamServer создаёт сервер потоковой передачи состояния.
func NewStreamServer(manager *sim.Manager) *StreamServer {
	return &StreamServer{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		manager: manager,
		log:     logging.GetAPILogger(),
		clients: make(map[*wsClient]struct{}),
		stop:    make(chan struct{}),
	}
}

// HandleConnection апгрейдит HTTP-запрос до WebSocket и регистрирует клиента.
func (s *StreamServer) HandleConnection(c *gin.Context) {
	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.log.Warn("WS upgrade не удался: %v", err)
		return
	}

	client := &wsClient{conn: conn}

	s.mu.Lock()
	s.clients[client] = struct{}{}
	count := len(s.clients)
	s.mu.Unlock()

	s.log.Info("WS клиент подключён (%d всего)", count)

	// Цикл рассылки стартует при первом подключении
	s.startOnce.Do(func() {
		go s.broadcastLoop()
	})

	// Читаем входящие сообщения только ради обработки close/ping
	go s.readLoop(client)
}

func (s *StreamServer) readLoop(client *wsClient) {
	defer s.removeClient(client)

	for {
		if _, _, err := client.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (s *StreamServer) removeClient(client *wsClient) {
	s.mu.Lock()
	delete(s.clients, client)
	s.mu.Unlock()
	client.conn.Close()
}

// broadcastLoop рассылает кадры всем клиентам.
func (s *StreamServer) broadcastLoop() {
	frameTicker := time.NewTicker(streamInterval)
	pingTicker := time.NewTicker(pingInterval)
	defer frameTicker.Stop()
	defer pingTicker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-frameTicker.C:
			s.broadcastFrame()
		case <-pingTicker.C:
			s.broadcastPing()
		}
	}
}

func (s *StreamServer) broadcastFrame() {
	s.mu.RLock()
	hasClients := len(s.clients) > 0
	s.mu.RUnlock()
	if !hasClients {
		return
	}

	frame := s.buildFrame()
	if frame == nil {
		return
	}

	s.mu.RLock()
	clients := make([]*wsClient, 0, len(s.clients))
	for client := range s.clients {
		clients = append(clients, client)
	}
	s.mu.RUnlock()

	for _, client := range clients {
		if err := client.writeJSON(frame); err != nil {
			s.removeClient(client)
		}
	}
}

func (s *StreamServer) broadcastPing() {
	s.mu.RLock()
	clients := make([]*wsClient, 0, len(s.clients))
	for client := range s.clients {
		clients = append(clients, client)
	}
	s.mu.RUnlock()

	for _, client := range clients {
		if err := client.ping(); err != nil {
			s.removeClient(client)
		}
	}
}

// buildFrame собирает кадр под read-блокировкой менеджера.
func (s *StreamServer) buildFrame() *streamFrame {
	// TimeScale читается до WithSystem: вложенный RLock может встать
	// в deadlock с ожидающим writer'ом
	timeScale := s.manager.TimeScale()

	var frame *streamFrame
	s.manager.WithSystem(func(sys *space.System) {
		if sys == nil {
			return
		}

		frame = &streamFrame{
			Type:      "frame",
			Seed:      sys.Seed,
			TimeScale: timeScale,
			StarPulse: sys.Star.PulseScale(),
		}

		for _, body := range sys.Bodies {
			frame.Bodies = append(frame.Bodies, bodyState{
				Seed:     body.Seed,
				Position: [3]float64{body.WorldPosition.X(), body.WorldPosition.Y(), body.WorldPosition.Z()},
				Rotation: body.RotationAngle,
			})
			for _, moon := range body.Moons {
				frame.Bodies = append(frame.Bodies, bodyState{
					Seed:     moon.Seed,
					Position: [3]float64{moon.WorldPosition.X(), moon.WorldPosition.Y(), moon.WorldPosition.Z()},
					Rotation: moon.RotationAngle,
					IsMoon:   true,
				})
			}
		}
	})
	return frame
}

// ClientCount возвращает число подключённых клиентов.
func (s *StreamServer) ClientCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

// CloseAll закрывает все подключения и останавливает рассылку.
func (s *StreamServer) CloseAll() {
	close(s.stop)

	s.mu.Lock()
	for client := range s.clients {
		client.conn.Close()
	}
	s.clients = make(map[*wsClient]struct{})
	s.mu.Unlock()
}
