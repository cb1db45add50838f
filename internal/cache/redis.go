package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisClient is the shared L2 tier. Values are stored as JSON.
type RedisClient struct {
	client *redis.Client
	ttl    time.Duration

	// Metrics
	hits   atomic.Int64
	misses atomic.Int64
}

type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

func NewRedisClient(ctx context.Context, opts RedisOptions) (*RedisClient, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         opts.Addr,
		Password:     opts.Password,
		DB:           opts.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     100,
		MinIdleConns: 10,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisClient{
		client: client,
		ttl:    opts.TTL,
	}, nil
}

// GetJSON decodes the value at key into dst. found is false when the key does
// not exist.
func (r *RedisClient) GetJSON(ctx context.Context, key string, dst interface{}) (bool, error) {
	val, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		r.misses.Add(1)
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if err := json.Unmarshal(val, dst); err != nil {
		r.misses.Add(1)
		return false, fmt.Errorf("decode cached %s: %w", key, err)
	}
	r.hits.Add(1)
	return true, nil
}

// SetJSON stores value at key with the client TTL; zero TTL keeps it forever.
func (r *RedisClient) SetJSON(ctx context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return r.client.Set(ctx, key, data, r.ttl).Err()
}

func (r *RedisClient) HitRate() float64 {
	hits, misses := r.hits.Load(), r.misses.Load()
	total := hits + misses
	if total == 0 {
		return 0.0
	}
	return float64(hits) / float64(total)
}

func (r *RedisClient) Health(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisClient) Close() error {
	return r.client.Close()
}
