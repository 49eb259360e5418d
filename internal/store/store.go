package store

import (
	"context"
	"errors"
	"log"
	"time"

	redis "github.com/redis/go-redis/v9"
)

// ErrNotFound is returned when a key is absent or expired.
var ErrNotFound = errors.New("store: key not found")

// KV is the ephemeral state backend shared by preferences, rate windows,
// the URL cache and statistics. A ttl of zero means no expiry.
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	// GetDel reads and deletes a key in one step, for single-use entries.
	GetDel(ctx context.Context, key string) (string, error)
	Backend() string
}

// Open connects to Redis at redisURL. If Redis is unreachable the process
// degrades to an in-memory store with the same semantics; the choice is
// made once and holds for the lifetime of the process.
func Open(redisURL string) KV {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Printf("[Store] Invalid REDIS_URL (%v), using in-memory storage", err)
		return newMemoryKV()
	}

	client := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("[Store] Redis not available (%v), using in-memory storage", err)
		client.Close()
		return newMemoryKV()
	}

	log.Println("[Store] Redis connected")
	return &redisKV{client: client}
}

type redisKV struct {
	client *redis.Client
}

func (r *redisKV) Get(ctx context.Context, key string) (string, error) {
	val, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	return val, err
}

func (r *redisKV) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return r.client.Set(ctx, key, value, ttl).Err()
}

func (r *redisKV) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, key).Err()
}

func (r *redisKV) GetDel(ctx context.Context, key string) (string, error) {
	val, err := r.client.GetDel(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	return val, err
}

func (r *redisKV) Backend() string { return "redis" }
