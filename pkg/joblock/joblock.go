package joblock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var (
	// ErrLocked возвращается, если задача уже выполняется другим экземпляром
	ErrLocked = errors.New("joblock: job is already running")
)

// releaseScript удаляет ключ, только если он принадлежит владельцу
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Locker взаимное исключение периодических задач между экземплярами сервиса
type Locker interface {
	// Run выполняет fn, удерживая блокировку name. Если блокировка занята - ErrLocked.
	Run(ctx context.Context, name string, ttl time.Duration, fn func(ctx context.Context) error) error
}

// RedisLocker блокировка на SET NX PX
type RedisLocker struct {
	client *redis.Client
	prefix string
}

// NewRedisLocker создаёт блокировку поверх клиента Redis
func NewRedisLocker(client *redis.Client, prefix string) *RedisLocker {
	return &RedisLocker{client: client, prefix: prefix}
}

func (l *RedisLocker) Run(ctx context.Context, name string, ttl time.Duration, fn func(ctx context.Context) error) error {
	key := l.prefix + "lock:" + name
	token := uuid.NewString()

	ok, err := l.client.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		return fmt.Errorf("joblock: acquire %s: %w", name, err)
	}
	if !ok {
		return ErrLocked
	}

	defer func() {
		// Снимаем блокировку даже при отменённом контексте задачи
		releaseCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = releaseScript.Run(releaseCtx, l.client, []string{key}, token).Err()
	}()

	return fn(ctx)
}

// NoopLocker используется, когда Redis не настроен
type NoopLocker struct{}

func (NoopLocker) Run(ctx context.Context, _ string, _ time.Duration, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
