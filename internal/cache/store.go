package cache

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/puzpuzpuz/xsync/v3"
	"github.com/redis/go-redis/v9"
)

// Store is the storage behind a PageCache.
type Store interface {
	// Get returns the live value for key; ok is false on a miss or after expiry.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Clear removes every entry the store owns.
	Clear(ctx context.Context) error
}

// DefaultKeyPrefix namespaces page cache keys in a shared Redis.
const DefaultKeyPrefix = "yatube:page:"

// NewStore returns a Redis-backed store, or an in-process one when rdb is nil.
func NewStore(rdb *redis.Client) Store {
	if rdb == nil {
		return NewMemoryStore()
	}
	return NewRedisStore(rdb, DefaultKeyPrefix)
}

// RedisStore keeps entries in Redis under a key prefix.
type RedisStore struct {
	rdb    *redis.Client
	prefix string
}

// NewRedisStore returns a store writing keys under prefix.
func NewRedisStore(rdb *redis.Client, prefix string) *RedisStore {
	return &RedisStore{rdb: rdb, prefix: prefix}
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	value, err := s.rdb.Get(ctx, s.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return value, true, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return s.rdb.Set(ctx, s.prefix+key, value, ttl).Err()
}

// Clear deletes every key under the prefix. Keys outside it are untouched.
func (s *RedisStore) Clear(ctx context.Context) error {
	var cursor uint64
	for {
		keys, next, err := s.rdb.Scan(ctx, cursor, s.prefix+"*", 100).Result()
		if err != nil {
			return fmt.Errorf("scan %s*: %w", s.prefix, err)
		}
		if len(keys) > 0 {
			if err := s.rdb.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("delete page keys: %w", err)
			}
		}
		if next == 0 {
			return nil
		}
		cursor = next
	}
}

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// sweepEvery is how many Set calls pass between scans for expired entries.
const sweepEvery = 128

// MemoryStore is an in-process Store with per-entry expiry. Expired entries
// are dropped when read and by a sweep every sweepEvery writes, so the store
// never holds more than the keys written within one TTL plus sweepEvery.
type MemoryStore struct {
	entries *xsync.MapOf[string, memoryEntry]
	now     func() time.Time
	writes  atomic.Uint64
}

// MemoryOption configures a MemoryStore.
type MemoryOption func(*MemoryStore)

// WithClock replaces the time source, for tests.
func WithClock(now func() time.Time) MemoryOption {
	return func(m *MemoryStore) { m.now = now }
}

// NewMemoryStore returns an empty in-process store.
func NewMemoryStore(opts ...MemoryOption) *MemoryStore {
	m := &MemoryStore{
		entries: xsync.NewMapOf[string, memoryEntry](),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *MemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	entry, ok := m.entries.Load(key)
	if !ok {
		return nil, false, nil
	}
	now := m.now()
	if now.Before(entry.expiresAt) {
		return entry.value, true, nil
	}

	// Drop the entry unless a concurrent Set already replaced it.
	m.entries.Compute(key, func(current memoryEntry, loaded bool) (memoryEntry, bool) {
		return current, !loaded || !now.Before(current.expiresAt)
	})
	return nil, false, nil
}

func (m *MemoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	stored := make([]byte, len(value))
	copy(stored, value)
	now := m.now()
	m.entries.Store(key, memoryEntry{value: stored, expiresAt: now.Add(ttl)})
	if m.writes.Add(1)%sweepEvery == 0 {
		m.sweep(now)
	}
	return nil
}

func (m *MemoryStore) sweep(now time.Time) {
	m.entries.Range(func(key string, entry memoryEntry) bool {
		if !now.Before(entry.expiresAt) {
			m.entries.Compute(key, func(current memoryEntry, loaded bool) (memoryEntry, bool) {
				return current, !loaded || !now.Before(current.expiresAt)
			})
		}
		return true
	})
}

func (m *MemoryStore) Clear(_ context.Context) error {
	m.entries.Clear()
	return nil
}

// Len returns the number of stored entries, expired ones included.
func (m *MemoryStore) Len() int {
	return m.entries.Size()
}
