package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/annel0/solar-sim/internal/logging"
)

// RedisSnapshotRepo хранит снимки систем в Redis.
type RedisSnapshotRepo struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
	log       *logging.Logger
}

// RedisConfig содержит настройки подключения к Redis.
type RedisConfig struct {
	Addr      string        // Адрес Redis сервера
	Password  string        // Пароль (пустой если не требуется)
	DB        int           // Номер базы данных
	KeyPrefix string        // Префикс для ключей
	TTL       time.Duration // Время жизни записей (0 — без истечения)
}

// DefaultRedisConfig возвращает конфигурацию по умолчанию.
func DefaultRedisConfig() *RedisConfig {
	return &RedisConfig{
		Addr:      "localhost:6379",
		Password:  "",
		DB:        0,
		KeyPrefix: "solar:snap:",
		TTL:       0,
	}
}

// NewRedisSnapshotRepo подключается к Redis и проверяет соединение.
func NewRedisSnapshotRepo(config *RedisConfig) (*RedisSnapshotRepo, error) {
	if config == nil {
		config = DefaultRedisConfig()
	}

	client := redis.NewClient(&redis.Options{
		Addr:     config.Addr,
		Password: config.Password,
		DB:       config.DB,
	})

	// Проверяем подключение
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	repo := &RedisSnapshotRepo{
		client:    client,
		keyPrefix: config.KeyPrefix,
		ttl:       config.TTL,
		log:       logging.GetStorageLogger(),
	}

	repo.log.Info("🔴 Connected to Redis at %s", config.Addr)
	return repo, nil
}

// Save сериализует снимок в JSON и пишет по ключу <prefix><id>.
func (r *RedisSnapshotRepo) Save(ctx context.Context, snap *SystemSnapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	key := r.keyPrefix + snap.ID
	if err := r.client.Set(ctx, key, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}

	return nil
}

// Load читает и десериализует снимок.
func (r *RedisSnapshotRepo) Load(ctx context.Context, id string) (*SystemSnapshot, error) {
	key := r.keyPrefix + id

	data, err := r.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, ErrSnapshotNotFound
	} else if err != nil {
		return nil, fmt.Errorf("failed to get snapshot: %w", err)
	}

	var snap SystemSnapshot
	if err := json.Unmarshal([]byte(data), &snap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}

	return &snap, nil
}

// List сканирует ключи по префиксу и загружает снимки пайплайном.
func (r *RedisSnapshotRepo) List(ctx context.Context) ([]*SystemSnapshot, error) {
	pattern := r.keyPrefix + "*"

	var keys []string
	iter := r.client.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan keys: %w", err)
	}

	if len(keys) == 0 {
		return []*SystemSnapshot{}, nil
	}

	pipe := r.client.Pipeline()
	cmds := make([]*redis.StringCmd, len(keys))
	for i, key := range keys {
		cmds[i] = pipe.Get(ctx, key)
	}

	_, err := pipe.Exec(ctx)
	if err != nil && err != redis.Nil {
		return nil, fmt.Errorf("failed to get snapshots: %w", err)
	}

	result := make([]*SystemSnapshot, 0, len(keys))
	for i, cmd := range cmds {
		data, err := cmd.Result()
		if err == redis.Nil {
			continue // Ключ истёк между SCAN и GET
		} else if err != nil {
			r.log.Warn("Failed to get snapshot %s: %v", keys[i], err)
			continue
		}

		var snap SystemSnapshot
		if err := json.Unmarshal([]byte(data), &snap); err != nil {
			r.log.Warn("Failed to unmarshal snapshot %s: %v", keys[i], err)
			continue
		}
		result = append(result, &snap)
	}

	return result, nil
}

// Delete удаляет снимок по ID.
func (r *RedisSnapshotRepo) Delete(ctx context.Context, id string) error {
	key := r.keyPrefix + id
	if err := r.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}
	return nil
}

// Close закрывает соединение с Redis.
func (r *RedisSnapshotRepo) Close() error {
	return r.client.Close()
}
