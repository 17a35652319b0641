package storage

import (
	"context"
	"sync"
)

// MemorySnapshotRepo хранит снимки в памяти процесса.
// Используется по умолчанию и в тестах.
type MemorySnapshotRepo struct {
	mu        sync.RWMutex
	snapshots map[string]*SystemSnapshot
}

// NewMemorySnapshotRepo создаёт пустой in-memory репозиторий.
func NewMemorySnapshotRepo() *MemorySnapshotRepo {
	return &MemorySnapshotRepo{
		snapshots: make(map[string]*SystemSnapshot),
	}
}

// Save сохраняет копию снимка.
func (m *MemorySnapshotRepo) Save(ctx context.Context, snap *SystemSnapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Копируем чтобы вызывающий код не мог изменить сохранённое состояние
	clone := *snap
	clone.Bodies = make([]BodySummary, len(snap.Bodies))
	copy(clone.Bodies, snap.Bodies)

	m.snapshots[snap.ID] = &clone
	return nil
}

// Load возвращает копию снимка по ID.
func (m *MemorySnapshotRepo) Load(ctx context.Context, id string) (*SystemSnapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snap, ok := m.snapshots[id]
	if !ok {
		return nil, ErrSnapshotNotFound
	}

	clone := *snap
	clone.Bodies = make([]BodySummary, len(snap.Bodies))
	copy(clone.Bodies, snap.Bodies)
	return &clone, nil
}

// List возвращает все снимки.
func (m *MemorySnapshotRepo) List(ctx context.Context) ([]*SystemSnapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*SystemSnapshot, 0, len(m.snapshots))
	for _, snap := range m.snapshots {
		clone := *snap
		clone.Bodies = make([]BodySummary, len(snap.Bodies))
		copy(clone.Bodies, snap.Bodies)
		result = append(result, &clone)
	}
	return result, nil
}

// Delete удаляет снимок.
func (m *MemorySnapshotRepo) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.snapshots, id)
	return nil
}

// Close ничего не делает для in-memory реализации.
func (m *MemorySnapshotRepo) Close() error {
	return nil
}
