package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"tracemap/internal/middleware"
)

const (
	UserKeyPrefix = "user:%s"
)

const (
	UserTTL = 5 * time.Minute
)

func UserKey(userID string) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateUser(ctx context.Context, userID string) {
	Invalidate(ctx, UserKey(userID))
}

// Aside implements the cache-aside pattern: on a hit, dest is populated from
// the cached JSON; on a miss, fetch is invoked and its result (already written
// into dest by the caller's closure) is stored under key with the given TTL.
// Cache failures degrade to the fetch path rather than erroring.
func Aside(ctx context.Context, key string, dest interface{}, ttl time.Duration, fetch func() error) error {
	if client != nil {
		payload, err := client.Get(ctx, key).Result()
		if err == nil {
			if jsonErr := json.Unmarshal([]byte(payload), dest); jsonErr == nil {
				return nil
			}
			// Corrupt entry: drop it and fall through to the fetch.
			client.Del(ctx, key)
		}
	}

	if err := fetch(); err != nil {
		return err
	}

	if client != nil {
		payload, err := json.Marshal(dest)
		if err != nil {
			middleware.Logger.WarnContext(ctx, "cache aside: marshal failed", "key", key, "error", err.Error())
			return nil
		}
		if err := client.Set(ctx, key, payload, ttl).Err(); err != nil {
			middleware.Logger.WarnContext(ctx, "cache aside: set failed", "key", key, "error", err.Error())
		}
	}

	return nil
}
