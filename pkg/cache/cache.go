package cache

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss is returned when a key is absent or already expired.
var ErrCacheMiss = errors.New("cache: key not found")

// Service is the response-cache contract shared by the memory, Redis and
// layered backends. String values round-trip unchanged on every backend;
// anything else is backend-defined, so callers needing raw bytes adapt on
// top of strings.
type Service interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Get(ctx context.Context, key string, dest interface{}) error
	Delete(ctx context.Context, keys ...string) error
	Exists(ctx context.Context, keys ...string) (bool, error)
}
