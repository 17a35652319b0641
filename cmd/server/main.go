package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/annel0/solar-sim/internal/api"
	"github.com/annel0/solar-sim/internal/config"
	"github.com/annel0/solar-sim/internal/eventbus"
	"github.com/annel0/solar-sim/internal/logging"
	"github.com/annel0/solar-sim/internal/sim"
	"github.com/annel0/solar-sim/internal/storage"
)

func main() {
	configPath := flag.String("config", "", "путь к yaml-конфигурации (или переменная SOLAR_CONFIG)")
	flag.Parse()

	// Инициализируем систему логирования
	if err := logging.InitDefaultLogger("server"); err != nil {
		log.Fatalf("❌ Ошибка инициализации логирования: %v", err)
	}
	defer logging.CloseDefaultLogger()

	logging.Info("🪐 Запуск сервера симуляции солнечной системы...")

	// === КОНФИГУРАЦИЯ ===
	cfg, err := config.Load(*configPath)
	if err != nil {
		logging.Error("❌ Ошибка загрузки конфигурации: %v", err)
		log.Fatalf("❌ Ошибка загрузки конфигурации: %v", err)
	}

	restPort := fmt.Sprintf(":%d", cfg.Server.GetRESTPort())
	logging.Info("📡 Конфигурация: REST API=%s, сид=%d, тел=%d, тик=%d/с",
		restPort, cfg.System.Seed, cfg.System.BodyCount, cfg.Simulation.TickRate)

	// === ХРАНИЛИЩЕ СНИМКОВ ===
	snapshots, err := buildSnapshotRepo(cfg)
	if err != nil {
		logging.Error("❌ Ошибка инициализации хранилища: %v", err)
		log.Fatalf("❌ Ошибка инициализации хранилища: %v", err)
	}
	defer snapshots.Close()

	// === ШИНА СОБЫТИЙ ===
	bus := buildEventBus(cfg)
	eventbus.Init(bus)

	// === СИМУЛЯЦИЯ ===
	logging.Debug("Создание менеджера симуляции...")
	manager := sim.NewManager(cfg, snapshots, bus)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if _, err := manager.Generate(ctx, cfg.System.Seed, cfg.System.BodyCount); err != nil {
		logging.Error("❌ Ошибка генерации системы: %v", err)
		log.Fatalf("❌ Ошибка генерации системы: %v", err)
	}

	go manager.Run(ctx)

	// === REST API ===
	logging.Debug("Запуск REST API сервера...")
	restServer := api.NewRestServer(api.Config{
		Port:      restPort,
		Manager:   manager,
		Snapshots: snapshots,
	})

	go func() {
		if err := restServer.Start(); err != nil {
			logging.Error("❌ Ошибка REST API: %v", err)
		}
	}()

	logging.Info("✅ Все сервисы запущены")
	logging.Info("   🌐 REST API: http://localhost%s", restPort)
	logging.Info("   ❤️  Health check: http://localhost%s/health", restPort)
	logging.Info("   📊 Метрики: http://localhost%s/metrics", restPort)
	logging.Info("   🔭 Поток позиций: ws://localhost%s/ws", restPort)

	// Ждём сигнала для завершения
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logging.Info("📡 Получен сигнал %v, завершение работы...", sig)

	// === GRACEFUL SHUTDOWN ===
	cancel() // останавливаем цикл симуляции

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := restServer.Shutdown(shutdownCtx); err != nil {
		logging.Error("❌ Ошибка остановки REST API: %v", err)
	}

	if closer, ok := bus.(interface{ Close() }); ok {
		closer.Close()
	}

	logging.Info("👋 Сервер успешно остановлен")
}

// buildSnapshotRepo выбирает бэкенд хранилища по конфигурации.
func buildSnapshotRepo(cfg *config.Config) (storage.SnapshotRepo, error) {
	switch cfg.Storage.Backend {
	case "redis":
		redisCfg := storage.DefaultRedisConfig()
		if cfg.Storage.RedisAddr != "" {
			redisCfg.Addr = cfg.Storage.RedisAddr
		}
		return storage.NewRedisSnapshotRepo(redisCfg)
	case "file":
		return storage.NewFileSnapshotRepo(cfg.Storage.FilePath)
	case "", "memory":
		return storage.NewMemorySnapshotRepo(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}

// buildEventBus выбирает шину событий: NATS JetStream если задан URL, иначе in-memory.
func buildEventBus(cfg *config.Config) eventbus.EventBus {
	if cfg.EventBus.URL != "" {
		bus, err := eventbus.NewJetStreamBus(cfg.EventBus.URL, cfg.EventBus.Stream, 24*time.Hour)
		if err != nil {
			logging.Warn("NATS недоступен (%v), используем in-memory шину", err)
			return eventbus.NewMemoryBus(1024)
		}
		logging.Info("🚌 Шина событий: NATS JetStream %s", cfg.EventBus.URL)
		return bus
	}
	return eventbus.NewMemoryBus(1024)
}
