package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Page cache results recorded in PageCacheRequests.
const (
	CacheHit   = "hit"
	CacheMiss  = "miss"
	CacheError = "error"
)

var (
	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "yatube_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// PageCacheRequests counts page cache lookups by cache name and result.
	PageCacheRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "yatube_page_cache_requests_total",
		Help: "Page cache lookups by result",
	}, []string{"cache", "result"})

	// PageCacheClears counts manual page cache invalidations.
	PageCacheClears = promauto.NewCounter(prometheus.CounterOpts{
		Name: "yatube_page_cache_clears_total",
		Help: "Number of times the page cache was cleared",
	})

	// FeedQueryLatency records feed query latency by view.
	FeedQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "yatube_feed_query_latency_seconds",
		Help:    "Feed query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"view"})

	// PostsCreated counts posts published through the API.
	PostsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "yatube_posts_created_total",
		Help: "Number of posts created",
	})

	// FollowChanges counts follow and unfollow operations that changed state.
	FollowChanges = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "yatube_follow_changes_total",
		Help: "Follow edges created or removed",
	}, []string{"action"})
)
