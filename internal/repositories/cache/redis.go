// Package cache wraps the Redis client used for read caching: the
// price oracle's shared price snapshot and per-account balance reads.
// The ledger itself never reads through the cache.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Config holds Redis connection settings.
type Config struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// NewClient creates a Redis client from config.
func NewClient(cfg *Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

// Service is a small JSON-over-Redis cache.
type Service struct {
	client     *redis.Client
	defaultTTL time.Duration
}

// NewService wraps a Redis client with a default TTL.
func NewService(client *redis.Client, defaultTTL time.Duration) *Service {
	return &Service{client: client, defaultTTL: defaultTTL}
}

// GetJSON loads key into dest, reporting whether it was present.
func (s *Service) GetJSON(ctx context.Context, key string, dest interface{}) (bool, error) {
	val, err := s.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal([]byte(val), dest); err != nil {
		return false, err
	}
	return true, nil
}

// SetJSON stores value under key with the default TTL.
func (s *Service) SetJSON(ctx context.Context, key string, value interface{}) error {
	return s.SetJSONWithTTL(ctx, key, value, s.defaultTTL)
}

// SetJSONWithTTL stores value under key with an explicit TTL.
func (s *Service) SetJSONWithTTL(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, key, data, ttl).Err()
}

// Delete removes a key.
func (s *Service) Delete(ctx context.Context, key string) error {
	return s.client.Del(ctx, key).Err()
}

// Close closes the underlying client.
func (s *Service) Close() error {
	return s.client.Close()
}
