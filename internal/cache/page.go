package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"yatube/internal/middleware"
	"yatube/internal/observability"
)

// IndexCacheName labels home page cache metrics.
const IndexCacheName = "index"

// IndexPageKey is the cache key of one page of the home feed.
func IndexPageKey(page int) string {
	return fmt.Sprintf("index_page:%d", page)
}

// ErrSkipStore is returned by a render function together with its body to
// serve that body without caching it.
var ErrSkipStore = errors.New("page cache: skip store")

// PageCache reuses rendered response bodies for a fixed TTL.
// Entries are not refreshed in the background; after expiry or Clear the
// next request renders again.
type PageCache struct {
	name  string
	store Store
	ttl   time.Duration
}

// NewPageCache returns a cache named for metrics that keeps entries for ttl.
func NewPageCache(name string, store Store, ttl time.Duration) *PageCache {
	return &PageCache{name: name, store: store, ttl: ttl}
}

// TTL returns the entry lifetime.
func (p *PageCache) TTL() time.Duration {
	return p.ttl
}

// Aside returns the cached body for key, or renders, stores and returns a new one.
// Store failures degrade to rendering; render failures are returned and not cached.
func (p *PageCache) Aside(ctx context.Context, key string, render func(context.Context) ([]byte, error)) ([]byte, error) {
	ctx, span := observability.StartCacheSpan(ctx, "aside", key)
	defer span.End()

	body, ok, err := p.store.Get(ctx, key)
	switch {
	case err != nil:
		observability.PageCacheRequests.WithLabelValues(p.name, observability.CacheError).Inc()
		middleware.Logger.WarnContext(ctx, "page cache read failed",
			slog.String("key", key), slog.String("error", err.Error()))
	case ok:
		observability.PageCacheRequests.WithLabelValues(p.name, observability.CacheHit).Inc()
		return body, nil
	default:
		observability.PageCacheRequests.WithLabelValues(p.name, observability.CacheMiss).Inc()
	}

	body, err = render(ctx)
	if errors.Is(err, ErrSkipStore) {
		return body, nil
	}
	if err != nil {
		return nil, err
	}

	if err := p.store.Set(ctx, key, body, p.ttl); err != nil {
		middleware.Logger.WarnContext(ctx, "page cache write failed",
			slog.String("key", key), slog.String("error", err.Error()))
	}
	return body, nil
}

// Clear invalidates every cached page immediately.
func (p *PageCache) Clear(ctx context.Context) error {
	if err := p.store.Clear(ctx); err != nil {
		return fmt.Errorf("clear %s page cache: %w", p.name, err)
	}
	observability.PageCacheClears.Inc()
	middleware.Logger.InfoContext(ctx, "page cache cleared", slog.String("cache", p.name))
	return nil
}
