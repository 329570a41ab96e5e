// Package cache stores opaque byte payloads with a TTL, backed by Redis or by
// process memory.
package cache

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrMiss is returned by Get for absent or expired keys.
var ErrMiss = errors.New("cache miss")

type Redis struct{ Rdb *redis.Client }

func NewRedis(addr string, password string, db int) *Redis {
	rdb := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	return &Redis{Rdb: rdb}
}

func (c *Redis) Ping(ctx context.Context) error {
	return c.Rdb.Ping(ctx).Err()
}

func (c *Redis) Get(ctx context.Context, key string) ([]byte, error) {
	b, err := c.Rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrMiss
	}
	return b, err
}

func (c *Redis) Set(ctx context.Context, key string, val []byte, ttl time.Duration) error {
	return c.Rdb.Set(ctx, key, val, ttl).Err()
}

// SetNX takes a short-lived lock; it reports whether this caller got it.
func (c *Redis) SetNX(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return c.Rdb.SetNX(ctx, key, "1", ttl).Result()
}

func (c *Redis) Del(ctx context.Context, key string) error {
	return c.Rdb.Del(ctx, key).Err()
}

func (c *Redis) Close() error { return c.Rdb.Close() }

type entry struct {
	val     []byte
	expires time.Time
}

// Memory is a process-local stand-in for Redis. A zero TTL never expires.
type Memory struct {
	mu  sync.Mutex
	m   map[string]entry
	now func() time.Time
}

func NewMemory() *Memory {
	return &Memory{m: make(map[string]entry), now: time.Now}
}

func (c *Memory) get(key string) (entry, bool) {
	e, ok := c.m[key]
	if !ok {
		return entry{}, false
	}
	if !e.expires.IsZero() && !c.now().Before(e.expires) {
		delete(c.m, key)
		return entry{}, false
	}
	return e, true
}

func (c *Memory) put(key string, val []byte, ttl time.Duration) {
	e := entry{val: append([]byte(nil), val...)}
	if ttl > 0 {
		e.expires = c.now().Add(ttl)
	}
	c.m[key] = e
}

func (c *Memory) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.get(key)
	if !ok {
		return nil, ErrMiss
	}
	return append([]byte(nil), e.val...), nil
}

func (c *Memory) Set(_ context.Context, key string, val []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.put(key, val, ttl)
	return nil
}

func (c *Memory) SetNX(_ context.Context, key string, ttl time.Duration) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.get(key); ok {
		return false, nil
	}
	c.put(key, []byte("1"), ttl)
	return true, nil
}

func (c *Memory) Del(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.m, key)
	return nil
}
