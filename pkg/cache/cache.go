// Package cache is the process wide read-through cache of boundary
// collaborators: site structure, analytics reports and rendered pages.
package cache

import (
	"context"
	"time"

	"github.com/foomo/cmsfront/pkg/metrics"
	"github.com/viccon/sturdyc"
	"go.uber.org/zap"
)

const (
	resultHit  = "hit"
	resultMiss = "miss"
)

type (
	Service struct {
		l      *zap.Logger
		name   string
		client *sturdyc.Client[entry]
		maxTTL time.Duration
		now    func() time.Time
	}
	Option func(*config)
	config struct {
		capacity  int
		numShards int
		maxTTL    time.Duration
		now       func() time.Time
	}
	entry struct {
		value   any
		expires time.Time
	}
)

// ------------------------------------------------------------------------------------------------
// ~ Options
// ------------------------------------------------------------------------------------------------

func WithCapacity(v int) Option {
	return func(o *config) {
		o.capacity = v
	}
}

func WithNumShards(v int) Option {
	return func(o *config) {
		o.numShards = v
	}
}

// WithMaxTTL upper bound of entry ttls
func WithMaxTTL(v time.Duration) Option {
	return func(o *config) {
		o.maxTTL = v
	}
}

func WithClock(v func() time.Time) Option {
	return func(o *config) {
		o.now = v
	}
}

// ------------------------------------------------------------------------------------------------
// ~ Constructor
// ------------------------------------------------------------------------------------------------

func New(l *zap.Logger, name string, opts ...Option) *Service {
	cfg := &config{
		capacity:  10000,
		numShards: 10,
		maxTTL:    24 * time.Hour,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return &Service{
		l:      l.Named("cache").With(zap.String("cache", name)),
		name:   name,
		client: sturdyc.New[entry](cfg.capacity, cfg.numShards, cfg.maxTTL, 10),
		maxTTL: cfg.maxTTL,
		now:    cfg.now,
	}
}

// ------------------------------------------------------------------------------------------------
// ~ Public methods
// ------------------------------------------------------------------------------------------------

// Get returns the value stored for key unless it expired
func (s *Service) Get(key string) (any, bool) {
	e, ok := s.client.Get(key)
	if !ok || !s.now().Before(e.expires) {
		metrics.CacheCounter.WithLabelValues(s.name, resultMiss).Inc()
		return nil, false
	}
	metrics.CacheCounter.WithLabelValues(s.name, resultHit).Inc()
	return e.value, true
}

// Put stores value for ttl, capped at the max ttl of the service
func (s *Service) Put(key string, value any, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	if ttl > s.maxTTL {
		ttl = s.maxTTL
	}
	s.client.Set(key, entry{value: value, expires: s.now().Add(ttl)})
}

// Delete removes key
func (s *Service) Delete(key string) {
	s.client.Delete(key)
}

// Size number of stored entries including expired ones
func (s *Service) Size() int {
	return s.client.Size()
}

// ------------------------------------------------------------------------------------------------
// ~ Typed access
// ------------------------------------------------------------------------------------------------

// Get returns the value of key if it is of type T
func Get[T any](s *Service, key string) (T, bool) {
	var zero T
	v, ok := s.Get(key)
	if !ok {
		return zero, false
	}
	t, ok := v.(T)
	if !ok {
		s.l.Warn("unexpected cached type", zap.String("key", key))
		return zero, false
	}
	return t, true
}

// Fetch is a read-through lookup. Concurrent misses of the same key each call
// fetch. Errors are returned and not cached.
func Fetch[T any](ctx context.Context, s *Service, key string, ttl time.Duration, fetch func(ctx context.Context) (T, error)) (T, error) {
	if v, ok := Get[T](s, key); ok {
		return v, nil
	}
	v, err := fetch(ctx)
	if err != nil {
		return v, err
	}
	s.Put(key, v, ttl)
	return v, nil
}
