package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/klauspost/compress/gzip"

	"github.com/annel0/solar-sim/internal/logging"
)

const snapshotExt = ".json.gz"

// FileSnapshotRepo хранит снимки как gzip-сжатые JSON файлы на диске.
// Один снимок — один файл <dir>/<id>.json.gz.
type FileSnapshotRepo struct {
	dir string
	mu  sync.Mutex
	log *logging.Logger
}

// NewFileSnapshotRepo создаёт директорию хранения если её нет.
func NewFileSnapshotRepo(dir string) (*FileSnapshotRepo, error) {
	if dir == "" {
		dir = "data/snapshots"
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create snapshot dir: %w", err)
	}

	repo := &FileSnapshotRepo{
		dir: dir,
		log: logging.GetStorageLogger(),
	}

	repo.log.Info("💾 Snapshot storage at %s", dir)
	return repo, nil
}

func (f *FileSnapshotRepo) path(id string) string {
	return filepath.Join(f.dir, id+snapshotExt)
}

// Save пишет снимок атомарно: во временный файл с последующим rename.
func (f *FileSnapshotRepo) Save(ctx context.Context, snap *SystemSnapshot) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	tmp, err := os.CreateTemp(f.dir, "snap_*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	gz := gzip.NewWriter(tmp)
	enc := json.NewEncoder(gz)
	if err := enc.Encode(snap); err != nil {
		gz.Close()
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	if err := gz.Close(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to finish gzip stream: %w", err)
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpName, f.path(snap.ID)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to rename snapshot: %w", err)
	}

	return nil
}

// Load читает и распаковывает снимок.
func (f *FileSnapshotRepo) Load(ctx context.Context, id string) (*SystemSnapshot, error) {
	file, err := os.Open(f.path(id))
	if os.IsNotExist(err) {
		return nil, ErrSnapshotNotFound
	} else if err != nil {
		return nil, fmt.Errorf("failed to open snapshot: %w", err)
	}
	defer file.Close()

	gz, err := gzip.NewReader(file)
	if err != nil {
		return nil, fmt.Errorf("failed to open gzip stream: %w", err)
	}
	defer gz.Close()

	var snap SystemSnapshot
	if err := json.NewDecoder(gz).Decode(&snap); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}

	return &snap, nil
}

// List читает все файлы снимков из директории.
func (f *FileSnapshotRepo) List(ctx context.Context) ([]*SystemSnapshot, error) {
	entries, err := os.ReadDir(f.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot dir: %w", err)
	}

	result := make([]*SystemSnapshot, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, snapshotExt) {
			continue
		}

		id := strings.TrimSuffix(name, snapshotExt)
		snap, err := f.Load(ctx, id)
		if err != nil {
			f.log.Warn("Failed to load snapshot %s: %v", id, err)
			continue
		}
		result = append(result, snap)
	}

	return result, nil
}

// Delete удаляет файл снимка.
func (f *FileSnapshotRepo) Delete(ctx context.Context, id string) error {
	err := os.Remove(f.path(id))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}
	return nil
}

// Close ничего не делает для файловой реализации.
func (f *FileSnapshotRepo) Close() error {
	return nil
}
