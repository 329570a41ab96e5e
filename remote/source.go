package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/yourorg/property-portal/internal/cache"
	"github.com/yourorg/property-portal/internal/catalog"
	"github.com/yourorg/property-portal/internal/refresh"
)

// ErrInProgress is returned on a cold cache while another caller holds the fetch lock.
var ErrInProgress = errors.New("catalog fetch in progress")

const (
	cacheKey = "catalog:snapshot"
	lockKey  = "catalog:lock"
)

type Fetcher interface {
	FetchSnapshot(ctx context.Context) ([]byte, error)
}

type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, val []byte, ttl time.Duration) error
	SetNX(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Del(ctx context.Context, key string) error
}

type envelope struct {
	Data json.RawMessage `json:"data"`
	Meta struct {
		LastFetch  time.Time `json:"last_fetch_at"`
		StaleAfter time.Time `json:"stale_after"`
		TTLSeconds int       `json:"ttl_seconds"`
		Source     string    `json:"source"`
	} `json:"meta"`
}

type SourceOptions struct {
	StaleAfter time.Duration
	CacheTTL   time.Duration
	LockTTL    time.Duration
}

// Source loads the catalog from an upstream service through a cache. A stale
// cached snapshot is served immediately and refreshed in the background.
type Source struct {
	fetch   Fetcher
	cache   Cache
	log     *zap.Logger
	opts    SourceOptions
	refresh *refresh.Refresher
	now     func() time.Time
}

// NewSource wires a fetcher to an optional cache. With a nil cache every Load
// goes to the upstream.
func NewSource(f Fetcher, c Cache, opts SourceOptions, log *zap.Logger) *Source {
	if opts.StaleAfter <= 0 {
		opts.StaleAfter = 5 * time.Minute
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = time.Hour
	}
	if opts.CacheTTL < opts.StaleAfter {
		opts.CacheTTL = 2 * opts.StaleAfter
	}
	if opts.LockTTL <= 0 {
		opts.LockTTL = 8 * time.Second
	}
	if log == nil {
		log = zap.NewNop()
	}
	s := &Source{fetch: f, cache: c, log: log, opts: opts, now: time.Now}
	s.refresh = refresh.New(refresh.Options{Capacity: 4, Workers: 1}, func(ctx context.Context, _ refresh.Job) {
		if _, err := s.fill(ctx); err != nil && !errors.Is(err, ErrInProgress) {
			s.log.Warn("background catalog refresh failed", zap.Error(err))
		}
	})
	return s
}

// Close stops background refreshes.
func (s *Source) Close() { s.refresh.Close() }

func (s *Source) Load(ctx context.Context) (*catalog.Snapshot, error) {
	if s.cache == nil {
		raw, err := s.fetch.FetchSnapshot(ctx)
		if err != nil {
			return nil, err
		}
		return MapSnapshot(raw)
	}

	b, err := s.cache.Get(ctx, cacheKey)
	switch {
	case err == nil:
		var env envelope
		if jerr := json.Unmarshal(b, &env); jerr == nil {
			snap, derr := catalog.DecodeJSON(env.Data)
			if derr == nil {
				if s.now().After(env.Meta.StaleAfter) {
					s.refresh.Enqueue(refresh.Job{Key: cacheKey})
				}
				return snap, nil
			}
			s.log.Warn("discarding unreadable cached catalog", zap.Error(derr))
		}
	case !errors.Is(err, cache.ErrMiss):
		s.log.Warn("catalog cache read failed", zap.Error(err))
	}
	return s.fill(ctx)
}

// fill fetches under the lock and writes the result back to the cache.
func (s *Source) fill(ctx context.Context) (*catalog.Snapshot, error) {
	ok, err := s.cache.SetNX(ctx, lockKey, s.opts.LockTTL)
	if err != nil {
		return nil, fmt.Errorf("acquire catalog lock: %w", err)
	}
	if !ok {
		return nil, ErrInProgress
	}
	defer func() {
		if err := s.cache.Del(context.WithoutCancel(ctx), lockKey); err != nil {
			s.log.Warn("release catalog lock", zap.Error(err))
		}
	}()
	raw, err := s.fetch.FetchSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	snap, err := MapSnapshot(raw)
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return nil, err
	}
	env := envelope{Data: data}
	env.Meta.LastFetch = s.now()
	env.Meta.StaleAfter = env.Meta.LastFetch.Add(s.opts.StaleAfter)
	env.Meta.TTLSeconds = int(s.opts.CacheTTL.Seconds())
	env.Meta.Source = "remote"
	b, err := json.Marshal(env)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, cacheKey, b, s.opts.CacheTTL); err != nil {
		s.log.Warn("catalog cache write failed", zap.Error(err))
	}
	return snap, nil
}
