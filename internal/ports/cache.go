package ports

import (
	"context"
	"time"
)

// Cache is a byte-oriented cache with TTL semantics. A miss returns
// (nil, nil); errors are reserved for transport failures.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
