package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bobmcallan/agripulse/internal/common"
)

// DefaultTTL is the reuse window applied when a caller passes a non-positive TTL.
const DefaultTTL = common.FreshnessFeeds

// ErrNotFound is returned by a Store when no entry exists for a key.
var ErrNotFound = errors.New("cache entry not found")

// Result labels reported to a Recorder.
const (
	ResultHit   = "hit"
	ResultMiss  = "miss"
	ResultStale = "stale"
	ResultError = "error"
)

// Entry is a cached value and the time it was fetched.
type Entry[V any] struct {
	Key       string
	Value     V
	Timestamp time.Time
}

// Store persists entries. Implementations must be safe for concurrent use.
type Store[V any] interface {
	Load(ctx context.Context, key string) (Entry[V], error)
	Save(ctx context.Context, e Entry[V]) error
}

// FetchFunc produces a fresh value for a key.
type FetchFunc[V any] func(ctx context.Context) (V, error)

// Recorder observes cache outcomes.
type Recorder interface {
	CacheResult(key, result string)
}

// Cache is a time-windowed cache with fetch-on-miss. Calls for the same key
// are serialized so an expired entry triggers a single fetch; a failed fetch
// never replaces or removes the stored entry.
type Cache[V any] struct {
	store      Store[V]
	ttl        time.Duration
	serveStale bool
	now        func() time.Time
	logger     *common.Logger
	recorder   Recorder

	mu    sync.Mutex
	locks map[string]*keyLock
}

// keyLock is a one-slot semaphore so waiters can give up on ctx.
type keyLock struct {
	sem  chan struct{}
	refs int
}

// Option configures a Cache.
type Option[V any] func(*Cache[V])

// WithTTL sets the default reuse window.
func WithTTL[V any](ttl time.Duration) Option[V] {
	return func(c *Cache[V]) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithServeStale makes Get return the previous value instead of the fetch
// error when a refresh fails and an entry exists.
func WithServeStale[V any](enabled bool) Option[V] {
	return func(c *Cache[V]) { c.serveStale = enabled }
}

// WithClock replaces time.Now.
func WithClock[V any](now func() time.Time) Option[V] {
	return func(c *Cache[V]) {
		if now != nil {
			c.now = now
		}
	}
}

// WithLogger attaches a logger.
func WithLogger[V any](logger *common.Logger) Option[V] {
	return func(c *Cache[V]) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithRecorder attaches a metrics recorder.
func WithRecorder[V any](r Recorder) Option[V] {
	return func(c *Cache[V]) { c.recorder = r }
}

// New creates a Cache backed by store.
func New[V any](store Store[V], opts ...Option[V]) *Cache[V] {
	c := &Cache[V]{
		store:  store,
		ttl:    DefaultTTL,
		now:    time.Now,
		logger: common.NewSilentLogger(),
		locks:  make(map[string]*keyLock),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// TTL returns the default reuse window.
func (c *Cache[V]) TTL() time.Duration {
	return c.ttl
}

// Get returns the stored value for key when it is younger than ttl.
// Otherwise it invokes fetch, stores the result stamped with the time the
// fetch started and returns it. A non-positive ttl uses the cache default.
func (c *Cache[V]) Get(ctx context.Context, key string, ttl time.Duration, fetch FetchFunc[V]) (V, error) {
	if ttl <= 0 {
		ttl = c.ttl
	}

	unlock, err := c.lockKey(ctx, key)
	if err != nil {
		var zero V
		return zero, err
	}
	defer unlock()

	entry, found := c.load(ctx, key)
	if found && common.IsFresh(entry.Timestamp, c.now(), ttl) {
		c.record(key, ResultHit)
		return entry.Value, nil
	}

	return c.refresh(ctx, key, entry, found, fetch)
}

// Refresh invokes fetch regardless of the stored entry's age. The same
// failure policy as Get applies.
func (c *Cache[V]) Refresh(ctx context.Context, key string, fetch FetchFunc[V]) (V, error) {
	unlock, err := c.lockKey(ctx, key)
	if err != nil {
		var zero V
		return zero, err
	}
	defer unlock()

	entry, found := c.load(ctx, key)
	return c.refresh(ctx, key, entry, found, fetch)
}

// Peek returns the stored entry for key regardless of its age.
func (c *Cache[V]) Peek(ctx context.Context, key string) (Entry[V], error) {
	return c.store.Load(ctx, key)
}

func (c *Cache[V]) refresh(ctx context.Context, key string, prev Entry[V], found bool, fetch FetchFunc[V]) (V, error) {
	fetchedAt := c.now()
	v, err := fetch(ctx)
	if err != nil {
		if found && c.serveStale {
			c.record(key, ResultStale)
			c.logger.Warn().
				Str("key", key).
				Str("age", common.Age(prev.Timestamp, c.now()).Round(time.Second).String()).
				Err(err).
				Msg("refresh failed, serving stale entry")
			return prev.Value, nil
		}
		c.record(key, ResultError)
		var zero V
		return zero, fmt.Errorf("fetch %s: %w", key, err)
	}

	c.record(key, ResultMiss)
	if err := c.store.Save(ctx, Entry[V]{Key: key, Value: v, Timestamp: fetchedAt}); err != nil {
		c.logger.Warn().Str("key", key).Err(err).Msg("failed to store cache entry")
	}
	return v, nil
}

// load reads the stored entry. Store failures are logged and treated as a miss.
func (c *Cache[V]) load(ctx context.Context, key string) (Entry[V], bool) {
	entry, err := c.store.Load(ctx, key)
	if err == nil {
		return entry, true
	}
	if !errors.Is(err, ErrNotFound) {
		c.logger.Warn().Str("key", key).Err(err).Msg("failed to load cache entry")
	}
	return Entry[V]{}, false
}

// lockKey acquires the per-key lock and returns its release func. It gives
// up with the context's error if ctx ends while another caller holds the key.
func (c *Cache[V]) lockKey(ctx context.Context, key string) (func(), error) {
	c.mu.Lock()
	l, ok := c.locks[key]
	if !ok {
		l = &keyLock{sem: make(chan struct{}, 1)}
		c.locks[key] = l
	}
	l.refs++
	c.mu.Unlock()

	drop := func() {
		c.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(c.locks, key)
		}
		c.mu.Unlock()
	}

	select {
	case l.sem <- struct{}{}:
		return func() {
			<-l.sem
			drop()
		}, nil
	case <-ctx.Done():
		drop()
		return nil, fmt.Errorf("wait for %s: %w", key, ctx.Err())
	}
}

func (c *Cache[V]) record(key, result string) {
	if c.recorder != nil {
		c.recorder.CacheResult(key, result)
	}
}
