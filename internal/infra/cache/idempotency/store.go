package idempotency

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	// ErrStore ошибка хранилища ключей
	ErrStore = errors.New("idempotency: store error")
)

// Store отмечает обработанные ключи (ID событий вебхука)
type Store interface {
	// Claim возвращает true, если ключ занят впервые
	Claim(ctx context.Context, key string, ttl time.Duration) (bool, error)
	// Release снимает отметку, чтобы событие можно было обработать повторно
	Release(ctx context.Context, key string) error
}

// RedisStore ключи хранятся в Redis (SET NX)
type RedisStore struct {
	client *redis.Client
	prefix string
}

func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix + "idem:"}
}

func (s *RedisStore) Claim(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	ok, err := s.client.SetNX(ctx, s.prefix+key, time.Now().Unix(), ttl).Result()
	if err != nil {
		return false, fmt.Errorf("%w: claim %s: %v", ErrStore, key, err)
	}
	return ok, nil
}

func (s *RedisStore) Release(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.prefix+key).Err(); err != nil {
		return fmt.Errorf("%w: release %s: %v", ErrStore, key, err)
	}
	return nil
}

// MemoryStore хранилище в памяти процесса, для запуска без Redis
type MemoryStore struct {
	mu   sync.Mutex
	keys map[string]time.Time
	now  func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{keys: make(map[string]time.Time), now: time.Now}
}

func (s *MemoryStore) Claim(_ context.Context, key string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if expires, ok := s.keys[key]; ok && now.Before(expires) {
		return false, nil
	}
	s.keys[key] = now.Add(ttl)
	return true, nil
}

func (s *MemoryStore) Release(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.keys, key)
	s.mu.Unlock()
	return nil
}
