package repository

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/redis/go-redis/v9"
)

// ProgressStore is the key-value persistence contract used to save and resume
// assessment sessions. Keys are opaque to the store; the engine derives them
// from the (assessment, user) pair, so each pair owns exactly one slot.
// Concurrent writers against the same key are last-write-wins.
type ProgressStore interface {
	GetItem(ctx context.Context, key string) (value string, found bool, err error)
	SetItem(ctx context.Context, key string, value string) error
	RemoveItem(ctx context.Context, key string) error
}

// memoryProgressStore 进度存储实现 (内存版)
type memoryProgressStore struct {
	items map[string]string
	mu    sync.RWMutex
}

// NewMemoryProgressStore creates an in-memory ProgressStore, used in tests and
// when no Redis address is configured.
func NewMemoryProgressStore() ProgressStore {
	return &memoryProgressStore{
		items: make(map[string]string),
	}
}

func (s *memoryProgressStore) GetItem(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, exists := s.items[key]
	if !exists {
		return "", false, nil
	}
	return value, true, nil
}

func (s *memoryProgressStore) SetItem(_ context.Context, key string, value string) error {
	if key == "" {
		log.Printf("ERROR: [ProgressStore] SetItem: key cannot be empty.")
		return errors.New("progress key cannot be empty")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[key] = value
	return nil
}

func (s *memoryProgressStore) RemoveItem(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, key)
	return nil
}

// redisProgressStore 进度存储实现 (Redis版)
type redisProgressStore struct {
	client *redis.Client
}

// NewRedisProgressStore creates a Redis-backed ProgressStore. Progress keys
// are stored without expiry; abandoned sessions are reclaimed by ClearProgress
// on completion or an operator flush, not by TTL.
func NewRedisProgressStore(addr, password string, db int) ProgressStore {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	log.Printf("INFO: [ProgressStore] Redis progress store configured for %s (db %d).", addr, db)
	return &redisProgressStore{client: client}
}

func (s *redisProgressStore) GetItem(ctx context.Context, key string) (string, bool, error) {
	value, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		log.Printf("ERROR: [ProgressStore] Failed to read key '%s' from Redis: %v", key, err)
		return "", false, fmt.Errorf("failed to read progress key '%s': %w", key, err)
	}
	return value, true, nil
}

func (s *redisProgressStore) SetItem(ctx context.Context, key string, value string) error {
	if key == "" {
		log.Printf("ERROR: [ProgressStore] SetItem: key cannot be empty.")
		return errors.New("progress key cannot be empty")
	}
	if err := s.client.Set(ctx, key, value, 0).Err(); err != nil {
		log.Printf("ERROR: [ProgressStore] Failed to write key '%s' to Redis: %v", key, err)
		return fmt.Errorf("failed to write progress key '%s': %w", key, err)
	}
	return nil
}

func (s *redisProgressStore) RemoveItem(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, key).Err(); err != nil {
		log.Printf("ERROR: [ProgressStore] Failed to delete key '%s' from Redis: %v", key, err)
		return fmt.Errorf("failed to delete progress key '%s': %w", key, err)
	}
	return nil
}
