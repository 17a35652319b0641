package config

import (
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config корневая структура конфигурации приложения.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	System     SystemConfig     `yaml:"system"`
	Noise      NoiseConfig      `yaml:"noise"`
	LOD        LODConfig        `yaml:"lod"`
	Simulation SimulationConfig `yaml:"simulation"`
	Storage    StorageConfig    `yaml:"storage"`
	EventBus   EventBusConfig   `yaml:"eventbus"`
}

type ServerConfig struct {
	RESTPort    int `yaml:"rest_port"`
	MetricsPort int `yaml:"metrics_port"`
}

// SystemConfig параметры генерации солнечной системы
type SystemConfig struct {
	Seed      int64 `yaml:"seed"`
	BodyCount int   `yaml:"body_count"`
}

// NoiseConfig параметры генератора шума по умолчанию
type NoiseConfig struct {
	Frequency  float64 `yaml:"frequency"`
	Octaves    int     `yaml:"octaves"`
	Lacunarity float64 `yaml:"lacunarity"`
	Gain       float64 `yaml:"gain"`
}

// LODConfig пороги и разрешения уровней детализации
type LODConfig struct {
	HighResolution    int     `yaml:"high_resolution"`
	MediumResolution  int     `yaml:"medium_resolution"`
	LowResolution     int     `yaml:"low_resolution"`
	Distance1         float64 `yaml:"distance1"`
	Distance2         float64 `yaml:"distance2"`
	MaxRenderDistance float64 `yaml:"max_render_distance"`
}

// SimulationConfig параметры цикла симуляции
type SimulationConfig struct {
	TickRate  int     `yaml:"tick_rate"`
	TimeScale float64 `yaml:"time_scale"`
}

// StorageConfig настройки репозитория снапшотов
type StorageConfig struct {
	Backend   string `yaml:"backend"` // memory | redis | file
	RedisAddr string `yaml:"redis_addr"`
	FilePath  string `yaml:"file_path"`
}

type EventBusConfig struct {
	URL    string `yaml:"url"`
	Stream string `yaml:"stream"`
}

// GetRESTPort возвращает REST API порт с поддержкой fallback значений
func (s *ServerConfig) GetRESTPort() int {
	return getPortWithEnvFallback(s.RESTPort, "SOLAR_REST_PORT", 8088)
}

// GetMetricsPort возвращает Prometheus метрики порт с поддержкой fallback значений
func (s *ServerConfig) GetMetricsPort() int {
	return getPortWithEnvFallback(s.MetricsPort, "SOLAR_METRICS_PORT", 2112)
}

// getPortWithEnvFallback возвращает порт с приоритетом: config -> env -> default
func getPortWithEnvFallback(configPort int, envVar string, defaultPort int) int {
	// Если порт задан в конфиге и больше 0, используем его
	if configPort > 0 {
		return configPort
	}

	// Пробуем прочитать из environment variable
	if envVal := os.Getenv(envVar); envVal != "" {
		if port, err := strconv.Atoi(envVal); err == nil && port > 0 {
			return port
		}
	}

	// Используем дефолтное значение
	return defaultPort
}

// Default возвращает конфигурацию со значениями по умолчанию
func Default() *Config {
	return &Config{
		System: SystemConfig{
			Seed:      42,
			BodyCount: 8,
		},
		Noise: NoiseConfig{
			Frequency:  0.01,
			Octaves:    4,
			Lacunarity: 2.0,
			Gain:       0.5,
		},
		LOD: LODConfig{
			HighResolution:    64,
			MediumResolution:  32,
			LowResolution:     16,
			Distance1:         100.0,
			Distance2:         500.0,
			MaxRenderDistance: 10000.0,
		},
		Simulation: SimulationConfig{
			TickRate:  60,
			TimeScale: 1.0,
		},
		Storage: StorageConfig{
			Backend:  "memory",
			FilePath: "data/snapshots",
		},
	}
}

// Load читает YAML файл конфигурации поверх значений по умолчанию.
// Если path == "", пытается прочитать из ENV SOLAR_CONFIG или возвращает дефолты.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv("SOLAR_CONFIG")
		if path == "" {
			return cfg, nil // конфиг не задан — использовать дефолты
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}
