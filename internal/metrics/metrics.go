package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// SimMetrics метрики цикла симуляции.
//
// * solar_tick_duration_seconds — histogram длительности тика
// * solar_mesh_regenerations_total — counter регенераций мешей по уровню LOD
// * solar_bodies — gauge числа тел в системе (планеты и луны)
// * solar_generation_duration_seconds — histogram длительности генерации системы
// * solar_bodies_skipped_total — counter тел, пропущенных при размещении
type SimMetrics struct {
	TickDuration       prometheus.Histogram
	MeshRegenerations  *prometheus.CounterVec
	Bodies             prometheus.Gauge
	GenerationDuration prometheus.Histogram
	BodiesSkipped      prometheus.Counter
}

var (
	simMetricsOnce sync.Once
	simMetrics     *SimMetrics
)

// NewSimMetrics создаёт метрики и регистрирует их в дефолтном регистре.
// Регистрация выполняется один раз на процесс.
func NewSimMetrics() *SimMetrics {
	simMetricsOnce.Do(func() {
		simMetrics = newSimMetrics()
	})
	return simMetrics
}

func newSimMetrics() *SimMetrics {
	m := &SimMetrics{
		TickDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "solar",
			Name:      "tick_duration_seconds",
			Help:      "Длительность одного тика симуляции.",
			Buckets:   []float64{0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1},
		}),
		MeshRegenerations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "solar",
			Name:      "mesh_regenerations_total",
			Help:      "Общее число регенераций мешей поверхности.",
		}, []string{"tier"}),
		Bodies: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "solar",
			Name:      "bodies",
			Help:      "Текущее число тел в системе, включая луны.",
		}),
		GenerationDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "solar",
			Name:      "generation_duration_seconds",
			Help:      "Длительность генерации солнечной системы.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2, 5},
		}),
		BodiesSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "solar",
			Name:      "bodies_skipped_total",
			Help:      "Тела, пропущенные из-за исчерпания попыток размещения.",
		}),
	}

	prometheus.MustRegister(
		m.TickDuration,
		m.MeshRegenerations,
		m.Bodies,
		m.GenerationDuration,
		m.BodiesSkipped,
	)

	return m
}
