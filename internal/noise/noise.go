package noise

import (
	"sync"

	"github.com/aquilax/go-perlin"
)

// Параметры сглаживания и базовой частоты шума Перлина
const (
	defaultAlpha = 2.0
	defaultBeta  = 2.0
	defaultN     = 3
)

// Params конфигурация генератора шума
type Params struct {
	Seed       int64
	Frequency  float64 // Базовая частота выборки
	Octaves    int     // Количество слоёв фрактального шума
	Lacunarity float64 // Множитель частоты между октавами
	Gain       float64 // Множитель амплитуды между октавами
}

// DefaultParams возвращает параметры шума по умолчанию
func DefaultParams(seed int64) Params {
	return Params{
		Seed:       seed,
		Frequency:  0.01,
		Octaves:    4,
		Lacunarity: 2.0,
		Gain:       0.5,
	}
}

// Generator детерминированный источник 3D-шума.
// Значения Sample3D лежат в диапазоне примерно [-1, 1] для одного слоя.
type Generator struct {
	mu     sync.RWMutex
	params Params
	noise  *perlin.Perlin
}

// NewGenerator создаёт генератор шума с указанными параметрами
func NewGenerator(params Params) *Generator {
	if params.Octaves < 1 {
		params.Octaves = 1
	}
	if params.Lacunarity <= 0 {
		params.Lacunarity = 2.0
	}
	if params.Gain <= 0 {
		params.Gain = 0.5
	}

	return &Generator{
		params: params,
		noise:  perlin.NewPerlin(defaultAlpha, defaultBeta, defaultN, params.Seed),
	}
}

// Params возвращает текущие параметры генератора
func (g *Generator) Params() Params {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.params
}

// SetSeed переинициализирует генератор с новым сидом
func (g *Generator) SetSeed(seed int64) {
	g.mu.Lock()
	g.params.Seed = seed
	g.noise = perlin.NewPerlin(defaultAlpha, defaultBeta, defaultN, seed)
	g.mu.Unlock()
}

// SetFrequency устанавливает базовую частоту выборки
func (g *Generator) SetFrequency(frequency float64) {
	g.mu.Lock()
	g.params.Frequency = frequency
	g.mu.Unlock()
}

// SetFractal устанавливает параметры фрактального шума
func (g *Generator) SetFractal(octaves int, lacunarity, gain float64) {
	g.mu.Lock()
	if octaves >= 1 {
		g.params.Octaves = octaves
	}
	if lacunarity > 0 {
		g.params.Lacunarity = lacunarity
	}
	if gain > 0 {
		g.params.Gain = gain
	}
	g.mu.Unlock()
}

// Sample3D возвращает один слой шума в точке, частота не применяется
func (g *Generator) Sample3D(x, y, z float64) float64 {
	g.mu.RLock()
	n := g.noise
	g.mu.RUnlock()
	return n.Noise3D(x, y, z)
}

// Fractal3D возвращает нормализованный фрактальный шум (FBm) в точке.
// Суммирует octaves слоёв с ростом частоты и падением амплитуды и делит
// на максимальную суммарную амплитуду, так что результат остаётся в [-1, 1]
// независимо от числа октав.
func (g *Generator) Fractal3D(x, y, z float64, frequency float64, octaves int) float64 {
	g.mu.RLock()
	n := g.noise
	lacunarity := g.params.Lacunarity
	gain := g.params.Gain
	g.mu.RUnlock()

	if octaves < 1 {
		octaves = 1
	}

	var (
		height    float64
		amplitude = 1.0
		freq      = frequency
		maxValue  float64
	)

	for i := 0; i < octaves; i++ {
		height += n.Noise3D(x*freq, y*freq, z*freq) * amplitude
		maxValue += amplitude

		amplitude *= gain
		freq *= lacunarity
	}

	return height / maxValue
}
