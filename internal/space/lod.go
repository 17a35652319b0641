package space

// LODTier уровень детализации меша
type LODTier int

const (
	LODHigh LODTier = iota
	LODMedium
	LODLow
)

// String возвращает строковое представление уровня детализации
func (t LODTier) String() string {
	switch t {
	case LODHigh:
		return "high"
	case LODMedium:
		return "medium"
	case LODLow:
		return "low"
	default:
		return "unknown"
	}
}

// LODController выбирает разрешение меша по дистанции наблюдателя.
// Регенерация меша дорогая, поэтому вызывающий перестраивает геометрию
// только при смене уровня и не чаще одного раза на тело за тик.
type LODController struct {
	HighResolution   int
	MediumResolution int
	LowResolution    int

	// Пороги эффективной дистанции distance/(radius+1)
	Distance1 float64
	Distance2 float64

	MaxRenderDistance float64
}

// NewLODController создаёт контроллер с указанными разрешениями и порогами
func NewLODController(high, medium, low int, distance1, distance2 float64) *LODController {
	return &LODController{
		HighResolution:    high,
		MediumResolution:  medium,
		LowResolution:     low,
		Distance1:         distance1,
		Distance2:         distance2,
		MaxRenderDistance: 10000.0,
	}
}

// SelectTier возвращает уровень детализации для дистанции и радиуса тела.
// Крупные тела дольше удерживают высокую детализацию.
func (c *LODController) SelectTier(distance, bodyRadius float64) LODTier {
	effective := distance / (bodyRadius + 1.0)

	switch {
	case effective < c.Distance1:
		return LODHigh
	case effective < c.Distance2:
		return LODMedium
	default:
		return LODLow
	}
}

// SelectResolution возвращает целевое разрешение меша для дистанции и радиуса
func (c *LODController) SelectResolution(distance, bodyRadius float64) int {
	switch c.SelectTier(distance, bodyRadius) {
	case LODHigh:
		return c.HighResolution
	case LODMedium:
		return c.MediumResolution
	default:
		return c.LowResolution
	}
}

// InRange сообщает, находится ли тело в пределах дистанции отрисовки
func (c *LODController) InRange(distance float64) bool {
	return distance <= c.MaxRenderDistance
}
