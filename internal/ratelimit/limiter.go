// Package ratelimit provides fixed-window request limiting for the auth
// endpoints. Two implementations exist: an in-process one for single
// instances and a Redis-backed one for shared state across replicas.
package ratelimit

import (
	"context"
	"time"
)

// Limiter answers whether one more request under key is allowed right now.
// retryAfter is only meaningful when allowed is false.
type Limiter interface {
	Allow(ctx context.Context, key string) (allowed bool, retryAfter time.Duration, err error)
}
