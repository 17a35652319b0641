package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSnapshot() *SystemSnapshot {
	return &SystemSnapshot{
		ID:              NewSnapshotID(),
		Seed:            42,
		RequestedBodies: 8,
		PlacedBodies:    7,
		TimeScale:       1.5,
		CreatedAt:       time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC),
		Bodies: []BodySummary{
			{Seed: 42, Type: "rocky", Radius: 1.8, OrbitDistance: 40.0, MoonCount: 1},
			{Seed: 1042, Type: "gas_giant", Radius: 9.2, OrbitDistance: 95.0, MoonCount: 3},
		},
	}
}

// TestMemorySnapshotRepo тестирует in-memory репозиторий снимков.
func TestMemorySnapshotRepo(t *testing.T) {
	repo := NewMemorySnapshotRepo()
	ctx := context.Background()

	t.Run("Save and Load", func(t *testing.T) {
		snap := testSnapshot()
		require.NoError(t, repo.Save(ctx, snap))

		loaded, err := repo.Load(ctx, snap.ID)
		require.NoError(t, err)
		assert.Equal(t, snap, loaded)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := repo.Load(ctx, "missing-id")
		assert.ErrorIs(t, err, ErrSnapshotNotFound)
	})

	t.Run("Stored Copy Is Isolated", func(t *testing.T) {
		snap := testSnapshot()
		require.NoError(t, repo.Save(ctx, snap))

		// Мутация исходника не должна менять сохранённое
		snap.Bodies[0].Radius = 999.0
		snap.Seed = -1

		loaded, err := repo.Load(ctx, snap.ID)
		require.NoError(t, err)
		assert.Equal(t, 1.8, loaded.Bodies[0].Radius)
		assert.Equal(t, int64(42), loaded.Seed)
	})

	t.Run("List and Delete", func(t *testing.T) {
		repo := NewMemorySnapshotRepo()

		a, b := testSnapshot(), testSnapshot()
		require.NoError(t, repo.Save(ctx, a))
		require.NoError(t, repo.Save(ctx, b))

		snaps, err := repo.List(ctx)
		require.NoError(t, err)
		assert.Len(t, snaps, 2)

		require.NoError(t, repo.Delete(ctx, a.ID))
		snaps, err = repo.List(ctx)
		require.NoError(t, err)
		assert.Len(t, snaps, 1)

		// Повторное удаление не ошибка
		assert.NoError(t, repo.Delete(ctx, a.ID))
	})
}

// TestFileSnapshotRepo тестирует файловый репозиторий с gzip-сжатием.
func TestFileSnapshotRepo(t *testing.T) {
	ctx := context.Background()

	repo, err := NewFileSnapshotRepo(t.TempDir())
	require.NoError(t, err)
	defer repo.Close()

	t.Run("Round Trip", func(t *testing.T) {
		snap := testSnapshot()
		require.NoError(t, repo.Save(ctx, snap))

		loaded, err := repo.Load(ctx, snap.ID)
		require.NoError(t, err)
		assert.Equal(t, snap.Seed, loaded.Seed)
		assert.Equal(t, snap.PlacedBodies, loaded.PlacedBodies)
		assert.Equal(t, snap.Bodies, loaded.Bodies)
		assert.True(t, snap.CreatedAt.Equal(loaded.CreatedAt))
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := repo.Load(ctx, "missing-id")
		assert.ErrorIs(t, err, ErrSnapshotNotFound)
	})

	t.Run("Overwrite Same ID", func(t *testing.T) {
		snap := testSnapshot()
		require.NoError(t, repo.Save(ctx, snap))

		snap.TimeScale = 4.0
		require.NoError(t, repo.Save(ctx, snap))

		loaded, err := repo.Load(ctx, snap.ID)
		require.NoError(t, err)
		assert.Equal(t, 4.0, loaded.TimeScale)
	})

	t.Run("List and Delete", func(t *testing.T) {
		repo, err := NewFileSnapshotRepo(t.TempDir())
		require.NoError(t, err)

		a, b := testSnapshot(), testSnapshot()
		require.NoError(t, repo.Save(ctx, a))
		require.NoError(t, repo.Save(ctx, b))

		snaps, err := repo.List(ctx)
		require.NoError(t, err)
		assert.Len(t, snaps, 2)

		require.NoError(t, repo.Delete(ctx, b.ID))
		snaps, err = repo.List(ctx)
		require.NoError(t, err)
		assert.Len(t, snaps, 1)
		assert.Equal(t, a.ID, snaps[0].ID)

		assert.NoError(t, repo.Delete(ctx, b.ID))
	})
}
