// Package observability provides Prometheus collectors and OpenTelemetry
// tracing for the application.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis errors by operation type.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "atelier_redis_errors_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// PostViews counts view-count increments by outcome. Every detail-page
	// load issues one increment, so this mirrors raw (non-deduplicated)
	// traffic per post.
	PostViews = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "atelier_post_views_total",
		Help: "Total number of post view-count increments",
	}, []string{"outcome"})

	// CommentsCreated counts created comments by kind (root or reply) and
	// author type (admin or anonymous).
	CommentsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "atelier_comments_created_total",
		Help: "Total number of comments created",
	}, []string{"kind", "author"})

	// FeedPagesLoaded counts feed page fetches by result (merged, stale,
	// error).
	FeedPagesLoaded = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "atelier_feed_pages_loaded_total",
		Help: "Total number of feed page fetches by result",
	}, []string{"result"})

	// AvatarUploads counts avatar object-store operations by operation and
	// outcome.
	AvatarUploads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "atelier_avatar_operations_total",
		Help: "Total number of avatar storage operations",
	}, []string{"operation", "outcome"})
)
