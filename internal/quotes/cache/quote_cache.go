package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache guarda a última quote conhecida de cada evento no Redis
// Client: cliente Redis
// TTL: tempo de expiração dos registros
type Cache struct {
	Client *redis.Client
	TTL    time.Duration
}

// New cria um cache de quotes com TTL configurável
func New(c *redis.Client, ttl time.Duration) *Cache {
	return &Cache{Client: c, TTL: ttl}
}

// key gera a chave Redis da última quote de um evento
func key(eventID string) string { return "quotes:latest:" + eventID }

// GetLatest lê a última quote do evento; (false, nil) quando não há entrada
func (c *Cache) GetLatest(ctx context.Context, eventID string, dst any) (bool, error) {
	b, err := c.Client.Get(ctx, key(eventID)).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, json.Unmarshal(b, dst)
}

// SetLatest grava a última quote do evento com o TTL do cache
func (c *Cache) SetLatest(ctx context.Context, eventID string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.Client.Set(ctx, key(eventID), b, c.TTL).Err()
}
