// Package cache provides a Redis read-through cache in front of a
// repository.Storage.
package cache

import (
	"Shortly-Backend/internal/config"
	"Shortly-Backend/internal/domain"
	"Shortly-Backend/internal/repository"
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const keyPrefix = "mapping:"

// Storage caches mapping lookups. Mappings never change after creation, so
// entries are only ever added and left to expire.
type Storage struct {
	repository.Storage
	client *redis.Client
	ttl    time.Duration
	log    *zap.Logger
}

// New wraps inner with a cache backed by client.
func New(inner repository.Storage, client *redis.Client, ttl time.Duration, log *zap.Logger) *Storage {
	return &Storage{
		Storage: inner,
		client:  client,
		ttl:     ttl,
		log:     log.With(zap.String("component", "mapping_cache")),
	}
}

// NewClient creates a Redis client and verifies it is reachable.
func NewClient(ctx context.Context, cfg config.Redis) (*redis.Client, error) {
	client := redis.NewClient(clientOptions(cfg))
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}

// clientOptions uses the configured timeouts and no command retries; a failed
// read falls through to the inner storage.
func clientOptions(cfg config.Redis) *redis.Options {
	return &redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		MaxRetries:   -1,
	}
}

// GetMapping serves from Redis when possible. Cache errors fall through to the
// inner storage; they never fail a lookup.
func (s *Storage) GetMapping(ctx context.Context, code string) (*domain.URLMapping, error) {
	key := keyPrefix + code

	raw, err := s.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var mapping domain.URLMapping
		if jsonErr := json.Unmarshal(raw, &mapping); jsonErr == nil {
			return &mapping, nil
		}
		s.log.Warn("discarding malformed cache entry", zap.String("code", code))
	case errors.Is(err, redis.Nil):
	default:
		s.log.Warn("cache read failed", zap.String("code", code), zap.Error(err))
	}

	mapping, err := s.Storage.GetMapping(ctx, code)
	if err != nil {
		return nil, err
	}

	s.store(ctx, key, mapping)
	return mapping, nil
}

func (s *Storage) store(ctx context.Context, key string, mapping *domain.URLMapping) {
	payload, err := json.Marshal(mapping)
	if err != nil {
		s.log.Warn("failed to encode cache entry", zap.String("code", mapping.Code), zap.Error(err))
		return
	}
	if err := s.client.Set(ctx, key, payload, s.ttl).Err(); err != nil {
		s.log.Warn("cache write failed", zap.String("code", mapping.Code), zap.Error(err))
	}
}
