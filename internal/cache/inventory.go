package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	PostKeyPrefix    = "post:%d"
	ProfileKey       = "profile:owner"
	StatsKey         = "admin:stats"
	BlacklistPrefix  = "blacklist:%s"
	PostCountsPrefix = "posts:count:%s"
)

const (
	PostTTL    = 30 * time.Minute
	ProfileTTL = 10 * time.Minute
	StatsTTL   = time.Minute
)

func PostKey(postID uint) string {
	return fmt.Sprintf(PostKeyPrefix, postID)
}

func BlacklistKey(jti string) string {
	return fmt.Sprintf(BlacklistPrefix, jti)
}

// Aside implements the cache-aside pattern: on hit, dest is decoded from
// Redis; on miss, fetch runs and its result (already written into dest by
// the caller's closure) is stored with the given TTL. With no Redis client
// it degrades to a plain fetch.
func Aside(ctx context.Context, key string, dest any, ttl time.Duration, fetch func() error) error {
	if client == nil {
		return fetch()
	}

	raw, err := client.Get(ctx, key).Result()
	if err == nil {
		if unmarshalErr := json.Unmarshal([]byte(raw), dest); unmarshalErr == nil {
			return nil
		}
		// Corrupt entry: drop it and fall through to the source of truth.
		client.Del(ctx, key)
	} else if err != redis.Nil {
		// Redis unreachable mid-flight degrades to a plain fetch.
		return fetch()
	}

	if err := fetch(); err != nil {
		return err
	}

	if encoded, marshalErr := json.Marshal(dest); marshalErr == nil {
		client.Set(ctx, key, encoded, ttl)
	}
	return nil
}

func Invalidate(ctx context.Context, keys ...string) {
	if client != nil && len(keys) > 0 {
		client.Del(ctx, keys...)
	}
}

func InvalidatePost(ctx context.Context, postID uint) {
	Invalidate(ctx, PostKey(postID))
}

func InvalidateProfile(ctx context.Context) {
	Invalidate(ctx, ProfileKey)
}

func InvalidateStats(ctx context.Context) {
	Invalidate(ctx, StatsKey)
}
