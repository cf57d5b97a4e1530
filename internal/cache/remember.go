package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/aaravmahajanofficial/uniform-storefront/internal/api/middleware"
)

// Remember returns the cached value for key, or calls load and caches its
// result. Cache errors are logged and never fail the read. A nil Cache
// always loads.
func Remember[T any](ctx context.Context, c Cache, key string, ttl time.Duration, load func(context.Context) (T, error)) (T, error) {
	logger := middleware.LoggerFromContext(ctx)

	if c != nil {
		var cached T
		found, err := c.Get(ctx, key, &cached)
		if err != nil {
			logger.Warn("Cache read failed", slog.String("key", key), slog.Any("error", err))
		} else if found {
			return cached, nil
		}
	}

	value, err := load(ctx)
	if err != nil {
		return value, err
	}

	if c != nil {
		if err := c.Set(ctx, key, value, ttl); err != nil {
			logger.Warn("Cache write failed", slog.String("key", key), slog.Any("error", err))
		}
	}

	return value, nil
}
