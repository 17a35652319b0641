package storage

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrSnapshotNotFound возвращается когда снимок с указанным ID отсутствует.
var ErrSnapshotNotFound = errors.New("snapshot not found")

// BodySummary — компактное описание тела для снимка (без меша).
type BodySummary struct {
	Seed          int64      `json:"seed"`
	Type          string     `json:"type"`
	Radius        float64    `json:"radius"`
	OrbitDistance float64    `json:"orbit_distance"`
	OrbitSpeed    float64    `json:"orbit_speed"`
	Eccentricity  float64    `json:"eccentricity"`
	Inclination   float64    `json:"inclination"`
	MoonCount     int        `json:"moon_count"`
	Position      [3]float64 `json:"position"`
}

// SystemSnapshot — сохранённое состояние сгенерированной системы.
// Позволяет восстановить параметры генерации и позиции тел на момент снимка.
type SystemSnapshot struct {
	ID              string        `json:"id"`
	Seed            int64         `json:"seed"`
	RequestedBodies int           `json:"requested_bodies"`
	PlacedBodies    int           `json:"placed_bodies"`
	TimeScale       float64       `json:"time_scale"`
	CreatedAt       time.Time     `json:"created_at"`
	Bodies          []BodySummary `json:"bodies"`
}

// NewSnapshotID генерирует уникальный идентификатор снимка.
func NewSnapshotID() string {
	return uuid.NewString()
}

// SnapshotRepo — репозиторий снимков системы.
// Реализации: in-memory, Redis, gzip-файлы на диске.
type SnapshotRepo interface {
	// Save сохраняет снимок. ID должен быть заполнен заранее.
	Save(ctx context.Context, snap *SystemSnapshot) error

	// Load возвращает снимок по ID или ErrSnapshotNotFound.
	Load(ctx context.Context, id string) (*SystemSnapshot, error)

	// List возвращает все сохранённые снимки (порядок не гарантируется).
	List(ctx context.Context) ([]*SystemSnapshot, error)

	// Delete удаляет снимок; отсутствие снимка не считается ошибкой.
	Delete(ctx context.Context, id string) error

	// Close освобождает ресурсы репозитория.
	Close() error
}
