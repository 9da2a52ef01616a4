package loadercache

import (
	"context"
	"sync"
	"time"

	"github.com/damlalper/gr-pilot-engine-go/log"
	"github.com/damlalper/gr-pilot-engine-go/pkg/utils/cache"
)

type (
	Option[K comparable, V any] func(*settings[K, V])
	item[T any]                 struct {
		data    T
		expires *time.Time
	}
	loaderFunc[K comparable, V any] func(K) (*V, error)
	settings[K comparable, V any]   struct {
		expiration time.Duration
		loader     loaderFunc[K, V]
		l          *log.Logger
	}
	loaderCache[K comparable, V any] struct {
		mutex    sync.Mutex
		items    map[K]item[*V]
		settings *settings[K, V]
	}
)

// WithExpiration sets the entry lifetime. Zero means no expiration;
// loaded sessions are immutable, so callers usually keep the default.
func WithExpiration[K comparable, V any](expiration time.Duration) Option[K, V] {
	return func(c *settings[K, V]) {
		c.expiration = expiration
	}
}

// WithLoader sets the function used to load entries on a miss.
func WithLoader[K comparable, V any](lf loaderFunc[K, V]) Option[K, V] {
	return func(c *settings[K, V]) {
		c.loader = lf
	}
}

func WithLogger[K comparable, V any](arg *log.Logger) Option[K, V] {
	return func(c *settings[K, V]) {
		c.l = arg
	}
}

func New[K comparable, V any](opts ...Option[K, V]) cache.Cache[K, V] {
	c := &settings[K, V]{
		l: log.Default().Named("cache"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return &loaderCache[K, V]{
		items:    make(map[K]item[*V]),
		settings: c,
	}
}

func (c *loaderCache[K, V]) Get(ctx context.Context, key K) (*V, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	if cacheItem, ok := c.items[key]; ok {
		if cacheItem.expires != nil && cacheItem.expires.Before(time.Now()) {
			delete(c.items, key)
			return c.load(ctx, key)
		}
		return cacheItem.data, nil
	}
	return c.load(ctx, key)
}

func (c *loaderCache[K, V]) load(_ context.Context, key K) (*V, error) {
	if c.settings.loader == nil {
		return nil, cache.ErrCacheMiss
	}
	v, err := c.settings.loader(key)
	c.settings.l.Debug("loaderCache.load", log.Any("key", key))
	if err != nil {
		c.settings.l.Error("error loading entry", log.ErrorField(err))
		return nil, err
	}
	var expires *time.Time
	if c.settings.expiration > 0 {
		t := time.Now().Add(c.settings.expiration)
		expires = &t
	}
	c.items[key] = item[*V]{data: v, expires: expires}
	return v, nil
}

func (c *loaderCache[K, V]) Invalidate(ctx context.Context, key K) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	delete(c.items, key)
	c.settings.l.Debug("Invalidate",
		log.Any("key", key), log.Int("remain items", len(c.items)))
}
