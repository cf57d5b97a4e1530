package utils

import (
	"context"
	"time"
)

const DefaultRemoteTimeout = 5 * time.Second

// WithRemoteTimeout bounds a remote store call. A non-positive timeout
// falls back to DefaultRemoteTimeout.
func WithRemoteTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		timeout = DefaultRemoteTimeout
	}
	return context.WithTimeout(ctx, timeout)
}
