package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestDefault проверяет значения конфигурации по умолчанию.
func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, int64(42), cfg.System.Seed)
	assert.Equal(t, 8, cfg.System.BodyCount)
	assert.Equal(t, 64, cfg.LOD.HighResolution)
	assert.Equal(t, 60, cfg.Simulation.TickRate)
	assert.Equal(t, 1.0, cfg.Simulation.TimeScale)
	assert.Equal(t, "memory", cfg.Storage.Backend)
}

// TestLoadOverridesDefaults проверяет наложение YAML поверх дефолтов.
func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte(`
system:
  seed: 777
  body_count: 12
lod:
  high_resolution: 128
simulation:
  time_scale: 2.5
storage:
  backend: file
  file_path: /tmp/snaps
`)
	require.NoError(t, os.WriteFile(path, content, 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, int64(777), cfg.System.Seed)
	assert.Equal(t, 12, cfg.System.BodyCount)
	assert.Equal(t, 128, cfg.LOD.HighResolution)
	assert.Equal(t, 2.5, cfg.Simulation.TimeScale)
	assert.Equal(t, "file", cfg.Storage.Backend)
	assert.Equal(t, "/tmp/snaps", cfg.Storage.FilePath)

	// Незатронутые поля остаются дефолтными
	assert.Equal(t, 32, cfg.LOD.MediumResolution)
	assert.Equal(t, 60, cfg.Simulation.TickRate)
}

// TestLoadMissingFile проверяет ошибку на несуществующем пути.
func TestLoadMissingFile(t *testing.T) {
	_, err := Load("/nonexistent/config.yaml")
	assert.Error(t, err)
}

// TestLoadEmptyPath проверяет возврат дефолтов без файла и переменной окружения.
func TestLoadEmptyPath(t *testing.T) {
	t.Setenv("SOLAR_CONFIG", "")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

// TestPortEnvFallback проверяет приоритет конфиг → env → дефолт для портов.
func TestPortEnvFallback(t *testing.T) {
	s := &ServerConfig{}

	t.Setenv("SOLAR_REST_PORT", "")
	assert.Equal(t, 8088, s.GetRESTPort(), "Ожидался порт по умолчанию")

	t.Setenv("SOLAR_REST_PORT", "9001")
	assert.Equal(t, 9001, s.GetRESTPort(), "Ожидался порт из окружения")

	s.RESTPort = 7000
	assert.Equal(t, 7000, s.GetRESTPort(), "Конфиг должен иметь приоритет")

	t.Setenv("SOLAR_METRICS_PORT", "")
	assert.Equal(t, 2112, s.GetMetricsPort())
}
