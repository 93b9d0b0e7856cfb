package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache - строковый кеш с TTL
type Cache interface {
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	GenerateKey(operation, key string) string
}

// RedisCache реализует Cache поверх Redis
type RedisCache struct {
	client      *redis.Client
	serviceName string
}

// NewRedisCache создает новый RedisCache. Соединение устанавливается лениво.
func NewRedisCache(addr, serviceName string) *RedisCache {
	return &RedisCache{
		client:      redis.NewClient(&redis.Options{Addr: addr}),
		serviceName: serviceName,
	}
}

// Set сохраняет значение с временем жизни
func (r *RedisCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if err := r.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis cache: failed to set %s: %w", key, err)
	}
	return nil
}

// Get возвращает пустую строку, если ключа нет
func (r *RedisCache) Get(ctx context.Context, key string) (string, error) {
	value, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("redis cache: failed to get %s: %w", key, err)
	}
	return value, nil
}

// GenerateKey строит ключ вида сервис:операция:ключ
func (r *RedisCache) GenerateKey(operation, key string) string {
	return fmt.Sprintf("%s:%s:%s", r.serviceName, operation, key)
}

// Ping проверяет доступность Redis
func (r *RedisCache) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close закрывает соединения
func (r *RedisCache) Close() error {
	return r.client.Close()
}
